package ledger

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amkessy/law-practice-api/internal/model"
)

func validRetainerInput() CreateRetainerInput {
	return CreateRetainerInput{
		ClientID:    "c1756500000000-ab12",
		Name:        "General Counsel 2026",
		TotalAmount: dec("25000000"),
		Currency:    model.CurrencyTZS,
		StartDate:   day("2026-01-01"),
		EndDate:     day("2026-12-31"),
		AutoRenew:   true,
	}
}

func TestNewRetainer_Defaults(t *testing.T) {
	ret, err := NewRetainer(validRetainerInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ret.ID, "ret"))
	assert.Equal(t, model.RetainerActive, ret.Status)
	assert.True(t, ret.UtilizedAmount.IsZero())
	assert.True(t, ret.HoursUtilized.IsZero())
	assert.False(t, ret.ExpiryAlertSent)
	assert.True(t, ret.BalanceAmount().Equal(dec("25000000")))
	assert.Nil(t, ret.HoursRemaining())
}

func TestNewRetainer_TracksHoursWhenAllocated(t *testing.T) {
	in := validRetainerInput()
	in.TotalHours = decP("120")

	ret, err := NewRetainer(in)
	require.NoError(t, err)
	if assert.NotNil(t, ret.HoursRemaining()) {
		assert.True(t, ret.HoursRemaining().Equal(dec("120")))
	}
}

func TestNewRetainer_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateRetainerInput)
	}{
		{"negative amount", func(in *CreateRetainerInput) { in.TotalAmount = dec("-1") }},
		{"negative hours", func(in *CreateRetainerInput) { in.TotalHours = decP("-5") }},
		{"unknown currency", func(in *CreateRetainerInput) { in.Currency = model.Currency("BTC") }},
		{"start after end", func(in *CreateRetainerInput) {
			in.StartDate = day("2026-12-31")
			in.EndDate = day("2026-01-01")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validRetainerInput()
			tc.mutate(&in)
			_, err := NewRetainer(in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestStrictModeRejectsOverAllocation(t *testing.T) {
	strict := New(nil, nil, nil, nil, true)
	permissive := New(nil, nil, nil, nil, false)

	// A delta that drives the balance negative.
	over := applyUtilization(dec("100"), dec("90"), nil, decimal.Zero, dec("30"), nil)
	require.True(t, over.Balance.Amount.IsNegative())
	assert.True(t, strict.rejectsOverAllocation(over))
	assert.False(t, permissive.rejectsOverAllocation(over))

	// A delta that lands exactly on zero is allowed in both modes.
	exact := applyUtilization(dec("100"), dec("90"), nil, decimal.Zero, dec("10"), nil)
	assert.False(t, strict.rejectsOverAllocation(exact))

	// A delta while already negative is still refused in strict mode.
	deeper := applyUtilization(dec("100"), over.NewUtilized, nil, decimal.Zero, dec("1"), nil)
	assert.True(t, strict.rejectsOverAllocation(deeper))
}

func TestNewRetainer_ZeroAmountAllowed(t *testing.T) {
	// Hours-only retainers carry a zero monetary allocation.
	in := validRetainerInput()
	in.TotalAmount = decimal.Zero
	in.TotalHours = decP("200")

	ret, err := NewRetainer(in)
	require.NoError(t, err)
	assert.True(t, ret.TotalAmount.IsZero())
}
