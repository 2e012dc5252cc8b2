package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/amkessy/law-practice-api/internal/model"
)

func testRates() StaticRates {
	return StaticRates{
		model.CurrencyUSD: {model.CurrencyTZS: dec("2615")},
		model.CurrencyTZS: {model.CurrencyUSD: dec("0.00038240")},
		model.CurrencyEUR: {model.CurrencyTZS: dec("2840")},
	}
}

func TestConvert_MultipliesAndRounds(t *testing.T) {
	cv := NewConverter(testRates())

	got, err := cv.Convert(context.Background(), dec("150"), model.CurrencyUSD, model.CurrencyTZS, time.Now())
	assert.NoError(t, err)
	assert.True(t, got.Equal(dec("392250")), "got %s", got)

	// 1000.333 * 2615 = 2615870.795, rounds half-up to 2615870.80.
	got, err = cv.Convert(context.Background(), dec("1000.333"), model.CurrencyUSD, model.CurrencyTZS, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, "2615870.8", got.String())
}

func TestConvert_IdentityRoundsWithoutLookup(t *testing.T) {
	// Empty rate source: an identity conversion must not need a rate.
	cv := NewConverter(StaticRates{})

	got, err := cv.Convert(context.Background(), dec("99.999"), model.CurrencyKES, model.CurrencyKES, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, "100", got.String())
}

func TestConvert_MissingRate(t *testing.T) {
	cv := NewConverter(testRates())

	_, err := cv.Convert(context.Background(), dec("10"), model.CurrencyGBP, model.CurrencyUGX, time.Now())
	assert.ErrorIs(t, err, ErrRateNotFound)
}

func TestConvert_UnknownCurrency(t *testing.T) {
	cv := NewConverter(testRates())

	_, err := cv.Convert(context.Background(), dec("10"), model.Currency("XAU"), model.CurrencyTZS, time.Now())
	assert.ErrorIs(t, err, ErrRateNotFound)
}

func TestConvert_NegativeAmountRejected(t *testing.T) {
	cv := NewConverter(testRates())

	_, err := cv.Convert(context.Background(), dec("-1"), model.CurrencyUSD, model.CurrencyTZS, time.Now())
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestConvert_ZeroAmount(t *testing.T) {
	cv := NewConverter(testRates())

	got, err := cv.Convert(context.Background(), decimal.Zero, model.CurrencyUSD, model.CurrencyTZS, time.Now())
	assert.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestConvert_RoundTripWithinTolerance(t *testing.T) {
	// A consistent pair (rate and its exact inverse): converting out and
	// back must land within a cent of the original.
	cv := NewConverter(StaticRates{
		model.CurrencyUSD: {model.CurrencyTZS: dec("2500")},
		model.CurrencyTZS: {model.CurrencyUSD: dec("0.0004")},
	})

	for _, raw := range []string{"10000", "1234.56", "0.04", "99999.99"} {
		x := dec(raw)
		there, err := cv.Convert(context.Background(), x, model.CurrencyUSD, model.CurrencyTZS, time.Now())
		assert.NoError(t, err)
		back, err := cv.Convert(context.Background(), there, model.CurrencyTZS, model.CurrencyUSD, time.Now())
		assert.NoError(t, err)

		diff := back.Sub(x).Abs()
		assert.True(t, diff.LessThanOrEqual(dec("0.01")),
			"round trip of %s drifted by %s", raw, diff)
	}
}

func TestConvert_SmallAmountsKeepTwoPlaces(t *testing.T) {
	cv := NewConverter(testRates())

	// 1000 TZS at 0.00038240 = 0.3824 USD, rounded to 0.38.
	got, err := cv.Convert(context.Background(), dec("1000"), model.CurrencyTZS, model.CurrencyUSD, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, "0.38", got.String())
}
