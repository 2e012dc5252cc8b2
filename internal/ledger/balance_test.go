package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decP(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestApplyUtilization_AmountOnly(t *testing.T) {
	res := applyUtilization(dec("1000"), dec("250"), nil, decimal.Zero, dec("100"), nil)

	assert.True(t, res.NewUtilized.Equal(dec("350")))
	assert.True(t, res.Balance.Amount.Equal(dec("650")))
	assert.Nil(t, res.Balance.HoursRemaining)
	assert.False(t, res.CrossedZero)
}

func TestApplyUtilization_TracksHours(t *testing.T) {
	res := applyUtilization(dec("5000"), dec("0"), decP("40"), dec("10"), dec("750"), decP("2.5"))

	assert.True(t, res.NewUtilizedHours.Equal(dec("12.5")))
	if assert.NotNil(t, res.Balance.HoursRemaining) {
		assert.True(t, res.Balance.HoursRemaining.Equal(dec("27.5")))
	}
}

func TestApplyUtilization_CrossedZeroFiresOnce(t *testing.T) {
	// First delta takes the balance below zero: the crossing.
	first := applyUtilization(dec("100"), dec("90"), nil, decimal.Zero, dec("30"), nil)
	assert.True(t, first.Balance.Amount.Equal(dec("-20")))
	assert.True(t, first.CrossedZero)

	// Further deltas while already negative do not fire again.
	second := applyUtilization(dec("100"), first.NewUtilized, nil, decimal.Zero, dec("10"), nil)
	assert.True(t, second.Balance.Amount.Equal(dec("-30")))
	assert.False(t, second.CrossedZero)
}

func TestApplyUtilization_ExactZeroIsNotACrossing(t *testing.T) {
	res := applyUtilization(dec("100"), dec("60"), nil, decimal.Zero, dec("40"), nil)

	assert.True(t, res.Balance.Amount.IsZero())
	assert.False(t, res.CrossedZero)
}

func TestApplyUtilization_SequenceMatchesRunningTotals(t *testing.T) {
	allocated := dec("1200")
	utilized := decimal.Zero
	deltas := []string{"300.10", "299.90", "450", "200"}

	var last utilizationResult
	crossings := 0
	for _, d := range deltas {
		last = applyUtilization(allocated, utilized, nil, decimal.Zero, dec(d), nil)
		if last.CrossedZero {
			crossings++
		}
		utilized = last.NewUtilized
	}

	assert.True(t, utilized.Equal(dec("1250")))
	assert.True(t, last.Balance.Amount.Equal(dec("-50")))
	assert.Equal(t, 1, crossings)
}
