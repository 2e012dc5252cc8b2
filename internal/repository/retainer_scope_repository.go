package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amkessy/law-practice-api/internal/model"
)

// RetainerScopeRepo provides persistence for retainer scopes: the
// per-billing-method allocation buckets under a retainer.  Like the
// retainer repo, all utilization writes go through Tx methods so the
// ledger can lock scope and parent in one transaction.
type RetainerScopeRepo struct {
	db *sql.DB
}

// NewRetainerScopeRepo returns a new RetainerScopeRepo bound to the given database.
func NewRetainerScopeRepo(db *sql.DB) *RetainerScopeRepo { return &RetainerScopeRepo{db: db} }

const scopeCols = `id, retainer_id, name, description, billing_method,
	   allocated_amount, utilized_amount, allocated_hours, utilized_hours,
	   hourly_rate, start_date, end_date, extension_count, status,
	   created_at, updated_at`

func scanScope(s interface{ Scan(...any) error }) (*model.RetainerScope, error) {
	var sc model.RetainerScope
	var desc sql.NullString
	var allocHours, hourlyRate decimal.NullDecimal
	var start, end sql.NullTime
	if err := s.Scan(
		&sc.ID, &sc.RetainerID, &sc.Name, &desc, &sc.BillingMethod,
		&sc.AllocatedAmount, &sc.UtilizedAmount, &allocHours, &sc.UtilizedHours,
		&hourlyRate, &start, &end, &sc.ExtensionCount, &sc.Status,
		&sc.CreatedAt, &sc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		sc.Description = &d
	}
	if allocHours.Valid {
		h := allocHours.Decimal
		sc.AllocatedHours = &h
	}
	if hourlyRate.Valid {
		hr := hourlyRate.Decimal
		sc.HourlyRate = &hr
	}
	if start.Valid {
		t := start.Time
		sc.StartDate = &t
	}
	if end.Valid {
		t := end.Time
		sc.EndDate = &t
	}
	return &sc, nil
}

// Create inserts a new scope.  The caller supplies the ID and zeroed
// utilized totals; validation of the allocation happens in the ledger.
func (r *RetainerScopeRepo) Create(ctx context.Context, sc *model.RetainerScope) error {
	const q = `INSERT INTO retainer_scopes
		(id, retainer_id, name, description, billing_method,
		 allocated_amount, utilized_amount, allocated_hours, utilized_hours,
		 hourly_rate, start_date, end_date, extension_count, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var allocHours, hourlyRate decimal.NullDecimal
	if sc.AllocatedHours != nil {
		allocHours = decimal.NullDecimal{Decimal: *sc.AllocatedHours, Valid: true}
	}
	if sc.HourlyRate != nil {
		hourlyRate = decimal.NullDecimal{Decimal: *sc.HourlyRate, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q,
		sc.ID, sc.RetainerID, sc.Name, sc.Description, sc.BillingMethod,
		sc.AllocatedAmount, sc.UtilizedAmount, allocHours, sc.UtilizedHours,
		hourlyRate, sc.StartDate, sc.EndDate, sc.ExtensionCount, sc.Status,
	)
	return err
}

// GetByID returns a single scope or sql.ErrNoRows.
func (r *RetainerScopeRepo) GetByID(ctx context.Context, id string) (*model.RetainerScope, error) {
	const q = `SELECT ` + scopeCols + ` FROM retainer_scopes WHERE id = ?`
	return scanScope(r.db.QueryRowContext(ctx, q, id))
}

// GetForUpdateTx loads a scope inside a transaction with a row lock.
func (r *RetainerScopeRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*model.RetainerScope, error) {
	const q = `SELECT ` + scopeCols + ` FROM retainer_scopes WHERE id = ? FOR UPDATE`
	return scanScope(tx.QueryRowContext(ctx, q, id))
}

// ListByRetainer returns all scopes for a retainer, oldest first.
func (r *RetainerScopeRepo) ListByRetainer(ctx context.Context, retainerID string) ([]model.RetainerScope, error) {
	const q = `SELECT ` + scopeCols + ` FROM retainer_scopes WHERE retainer_id = ? ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, retainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RetainerScope, 0)
	for rows.Next() {
		sc, err := scanScope(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sc)
	}
	return out, rows.Err()
}

// AddUtilizationTx adds the deltas to the scope's utilized totals within a
// transaction.  The caller must already hold the row lock.
func (r *RetainerScopeRepo) AddUtilizationTx(ctx context.Context, tx *sql.Tx, id string, amountDelta decimal.Decimal, hoursDelta *decimal.Decimal) error {
	if hoursDelta != nil {
		const q = `UPDATE retainer_scopes
				   SET utilized_amount = utilized_amount + ?, utilized_hours = utilized_hours + ?
				   WHERE id = ?`
		_, err := tx.ExecContext(ctx, q, amountDelta, *hoursDelta, id)
		return err
	}
	const q = `UPDATE retainer_scopes SET utilized_amount = utilized_amount + ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, amountDelta, id)
	return err
}

// UpdateStatus sets the scope status.  Transitions are explicit; the
// ledger never changes scope status as a side effect of billing.
func (r *RetainerScopeRepo) UpdateStatus(ctx context.Context, id string, status model.ScopeStatus) error {
	const q = `UPDATE retainer_scopes SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// ExtendActiveTx bumps extension_count and pushes the end date on every
// active scope of a retainer.  Called when a renewal propagates to scopes.
func (r *RetainerScopeRepo) ExtendActiveTx(ctx context.Context, tx *sql.Tx, retainerID string, newEnd time.Time) error {
	const q = `UPDATE retainer_scopes
			   SET extension_count = extension_count + 1, end_date = ?
			   WHERE retainer_id = ? AND status = 'Active'`
	_, err := tx.ExecContext(ctx, q, newEnd, retainerID)
	return err
}
