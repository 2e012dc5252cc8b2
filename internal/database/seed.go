package database

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/amkessy/law-practice-api/internal/model"
	"github.com/amkessy/law-practice-api/internal/utils"
)

// Seed loads a development data set: one user per role, a sample client
// with an active retainer, and a handful of exchange rates.  It is a
// no-op when a superadmin user already exists, so DB_SEED=true can stay
// on across restarts.
func Seed(ctx context.Context, db *sql.DB, bcryptCost int) error {
	var n int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'superadmin'`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	users := []struct {
		email string
		role  model.Role
	}{
		{"admin@firm.example", model.RoleSuperAdmin},
		{"partner@firm.example", model.RolePartner},
		{"advocate@firm.example", model.RoleAdvocate},
		{"paralegal@firm.example", model.RoleParalegal},
		{"accounts@firm.example", model.RoleAccountant},
	}
	for _, u := range users {
		hash, err := utils.HashPassword("ChangeMe123!", bcryptCost)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO users (email, password_hash, role, is_active) VALUES (?,?,?,TRUE)`,
			u.email, hash, u.role); err != nil {
			return err
		}
	}

	clientID := model.NewID("c")
	if _, err := db.ExecContext(ctx,
		`INSERT INTO clients (id, name, type, email, status, preferred_currency)
		 VALUES (?,?,?,?,?,?)`,
		clientID, "Kilimanjaro Holdings Ltd", model.ClientCorporate,
		"legal@kilimanjaro.example", "Active", model.CurrencyTZS); err != nil {
		return err
	}

	now := time.Now().UTC()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO retainers (id, client_id, name, total_amount, currency,
		        start_date, end_date, auto_renew, status)
		 VALUES (?,?,?,?,?,?,?,TRUE,'Active')`,
		model.NewID("ret"), clientID, "General Counsel 2026",
		"25000000.00", model.CurrencyTZS, now, now.AddDate(1, 0, 0)); err != nil {
		return err
	}

	rates := []struct {
		from, to model.Currency
		rate     string
	}{
		{model.CurrencyUSD, model.CurrencyTZS, "2615.00000000"},
		{model.CurrencyTZS, model.CurrencyUSD, "0.00038240"},
		{model.CurrencyEUR, model.CurrencyTZS, "2840.00000000"},
		{model.CurrencyKES, model.CurrencyTZS, "20.25000000"},
	}
	for _, r := range rates {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO exchange_rates (from_currency, to_currency, rate, rate_date)
			 VALUES (?,?,?,?)
			 ON DUPLICATE KEY UPDATE rate = VALUES(rate)`,
			r.from, r.to, r.rate, now); err != nil {
			return err
		}
	}

	log.Printf("seed: loaded %d users, sample client %s", len(users), clientID)
	return nil
}
