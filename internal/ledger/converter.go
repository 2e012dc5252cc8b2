package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amkessy/law-practice-api/internal/model"
)

// RateSource supplies exchange rates to the converter.  The production
// implementation reads the exchange_rates table; tests use StaticRates.
// Lookup returns the most recent rate with rate_date <= asOf for the pair,
// or ErrRateNotFound.
type RateSource interface {
	Lookup(ctx context.Context, from, to model.Currency, asOf time.Time) (decimal.Decimal, error)
}

// Converter converts monetary amounts between the firm's supported
// currencies.  It is a pure function over the injected rate source: no
// caching, no mutation.  Outputs are rounded to 2 decimal places,
// half-up, so repeated conversions do not accumulate sub-cent drift.
type Converter struct {
	rates RateSource
}

// NewConverter returns a Converter backed by the given rate source.
func NewConverter(rates RateSource) *Converter {
	return &Converter{rates: rates}
}

// Convert converts amount from one currency to another as of the given
// date.  Identity conversions short-circuit without a rate lookup but are
// still rounded so the output shape is uniform.  Negative amounts are
// rejected with ErrInvalidAmount and unknown currency codes with
// ErrRateNotFound.
func (cv *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to model.Currency, asOf time.Time) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	if !from.Valid() || !to.Valid() {
		return decimal.Zero, ErrRateNotFound
	}
	if from == to {
		return amount.Round(2), nil
	}
	rate, err := cv.rates.Lookup(ctx, from, to, asOf)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrRateNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate).Round(2), nil
}

// StaticRates is an in-memory RateSource keyed by currency pair.  It
// ignores the asOf date and is intended for tests and for bootstrapping
// before the exchange_rates table has been populated.
type StaticRates map[model.Currency]map[model.Currency]decimal.Decimal

// Lookup implements RateSource.
func (s StaticRates) Lookup(_ context.Context, from, to model.Currency, _ time.Time) (decimal.Decimal, error) {
	if m, ok := s[from]; ok {
		if r, ok := m[to]; ok {
			return r, nil
		}
	}
	return decimal.Zero, ErrRateNotFound
}
