package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amkessy/law-practice-api/internal/model"
)

// ExchangeRateRepo persists the rate table backing the currency
// converter.  It also implements ledger.RateSource.
type ExchangeRateRepo struct {
	db *sql.DB
}

// NewExchangeRateRepo returns a new ExchangeRateRepo bound to the given database.
func NewExchangeRateRepo(db *sql.DB) *ExchangeRateRepo { return &ExchangeRateRepo{db: db} }

// Upsert records a rate for a pair and date, replacing any rate already
// stored for the same pair and date.
func (r *ExchangeRateRepo) Upsert(ctx context.Context, from, to model.Currency, rate decimal.Decimal, rateDate time.Time) error {
	const q = `INSERT INTO exchange_rates (from_currency, to_currency, rate, rate_date)
			   VALUES (?, ?, ?, ?)
			   ON DUPLICATE KEY UPDATE rate = VALUES(rate)`
	_, err := r.db.ExecContext(ctx, q, from, to, rate, rateDate)
	return err
}

// Lookup returns the most recent rate with rate_date <= asOf for the
// pair.  It satisfies ledger.RateSource; a missing pair surfaces as
// sql.ErrNoRows, which the converter's caller treats as rate-not-found.
func (r *ExchangeRateRepo) Lookup(ctx context.Context, from, to model.Currency, asOf time.Time) (decimal.Decimal, error) {
	const q = `SELECT rate FROM exchange_rates
			   WHERE from_currency = ? AND to_currency = ? AND rate_date <= ?
			   ORDER BY rate_date DESC LIMIT 1`
	var rate decimal.Decimal
	err := r.db.QueryRowContext(ctx, q, from, to, asOf).Scan(&rate)
	return rate, err
}

// List returns every stored rate, newest date first.
func (r *ExchangeRateRepo) List(ctx context.Context) ([]model.ExchangeRate, error) {
	const q = `SELECT id, from_currency, to_currency, rate, rate_date, created_at
			   FROM exchange_rates ORDER BY rate_date DESC, from_currency, to_currency`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ExchangeRate, 0)
	for rows.Next() {
		var er model.ExchangeRate
		if err := rows.Scan(&er.ID, &er.FromCurrency, &er.ToCurrency, &er.Rate, &er.RateDate, &er.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, er)
	}
	return out, rows.Err()
}
