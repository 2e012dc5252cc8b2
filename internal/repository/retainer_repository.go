package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amkessy/law-practice-api/internal/model"
)

// RetainerRepo provides persistence for retainers.  Utilization updates
// always run inside a transaction holding a row lock on the retainer (and
// its scope, when billed through one) so concurrent billing events against
// the same balance serialize instead of losing updates.
type RetainerRepo struct {
	db *sql.DB
}

// NewRetainerRepo returns a new RetainerRepo bound to the given database.
func NewRetainerRepo(db *sql.DB) *RetainerRepo { return &RetainerRepo{db: db} }

const retainerCols = `id, client_id, name, description, total_amount, currency,
	   utilized_amount, total_hours_allocated, hours_utilized,
	   start_date, end_date, auto_renew, status, expiry_alert_sent,
	   created_at, updated_at`

// scanRetainer reads one retainer row from any row scanner (sql.Row or
// sql.Rows) into a model.Retainer.
func scanRetainer(s interface{ Scan(...any) error }) (*model.Retainer, error) {
	var r model.Retainer
	var desc sql.NullString
	var totalHours decimal.NullDecimal
	if err := s.Scan(
		&r.ID, &r.ClientID, &r.Name, &desc, &r.TotalAmount, &r.Currency,
		&r.UtilizedAmount, &totalHours, &r.HoursUtilized,
		&r.StartDate, &r.EndDate, &r.AutoRenew, &r.Status, &r.ExpiryAlertSent,
		&r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		r.Description = &d
	}
	if totalHours.Valid {
		h := totalHours.Decimal
		r.TotalHoursAllocated = &h
	}
	return &r, nil
}

// CreateTx inserts a new retainer within an existing transaction.  The
// caller supplies the ID (see model.NewID) and commits or rolls back.
func (r *RetainerRepo) CreateTx(ctx context.Context, tx *sql.Tx, ret *model.Retainer) error {
	const q = `INSERT INTO retainers
		(id, client_id, name, description, total_amount, currency,
		 utilized_amount, total_hours_allocated, hours_utilized,
		 start_date, end_date, auto_renew, status, expiry_alert_sent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var hours decimal.NullDecimal
	if ret.TotalHoursAllocated != nil {
		hours = decimal.NullDecimal{Decimal: *ret.TotalHoursAllocated, Valid: true}
	}
	_, err := tx.ExecContext(ctx, q,
		ret.ID, ret.ClientID, ret.Name, ret.Description, ret.TotalAmount, ret.Currency,
		ret.UtilizedAmount, hours, ret.HoursUtilized,
		ret.StartDate, ret.EndDate, ret.AutoRenew, ret.Status, ret.ExpiryAlertSent,
	)
	return err
}

// Create inserts a new retainer in its own transaction.
func (r *RetainerRepo) Create(ctx context.Context, ret *model.Retainer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := r.CreateTx(ctx, tx, ret); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// GetByID returns a single retainer or sql.ErrNoRows.
func (r *RetainerRepo) GetByID(ctx context.Context, id string) (*model.Retainer, error) {
	const q = `SELECT ` + retainerCols + ` FROM retainers WHERE id = ?`
	return scanRetainer(r.db.QueryRowContext(ctx, q, id))
}

// GetForUpdateTx loads a retainer inside a transaction with a row lock.
// Billing operations use this to serialize concurrent read-modify-write
// cycles on the utilized totals.
func (r *RetainerRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*model.Retainer, error) {
	const q = `SELECT ` + retainerCols + ` FROM retainers WHERE id = ? FOR UPDATE`
	return scanRetainer(tx.QueryRowContext(ctx, q, id))
}

// ListByClient returns all retainers for a client, newest first.
func (r *RetainerRepo) ListByClient(ctx context.Context, clientID string) ([]model.Retainer, error) {
	const q = `SELECT ` + retainerCols + ` FROM retainers WHERE client_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Retainer, 0)
	for rows.Next() {
		ret, err := scanRetainer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ret)
	}
	return out, rows.Err()
}

// LatestByClient returns the most recently created retainer for a client,
// or nil when the client has none.  Used when embedding a summary into
// client list responses.
func (r *RetainerRepo) LatestByClient(ctx context.Context, clientID string) (*model.Retainer, error) {
	const q = `SELECT ` + retainerCols + ` FROM retainers WHERE client_id = ? ORDER BY created_at DESC LIMIT 1`
	ret, err := scanRetainer(r.db.QueryRowContext(ctx, q, clientID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return ret, err
}

// ListDueForExpiryScan returns retainers whose status may need to change:
// anything Active or Expiring Soon.  Suspended and already Expired rows
// are skipped at the query level.
func (r *RetainerRepo) ListDueForExpiryScan(ctx context.Context) ([]model.Retainer, error) {
	const q = `SELECT ` + retainerCols + ` FROM retainers
			   WHERE status IN ('Active', 'Expiring Soon')
			   ORDER BY end_date ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Retainer, 0)
	for rows.Next() {
		ret, err := scanRetainer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ret)
	}
	return out, rows.Err()
}

// AddUtilizationTx adds the deltas to the retainer's cumulative utilized
// amount and hours within a transaction.  The caller must already hold the
// row lock via GetForUpdateTx.
func (r *RetainerRepo) AddUtilizationTx(ctx context.Context, tx *sql.Tx, id string, amountDelta decimal.Decimal, hoursDelta *decimal.Decimal) error {
	if hoursDelta != nil {
		const q = `UPDATE retainers
				   SET utilized_amount = utilized_amount + ?, hours_utilized = hours_utilized + ?
				   WHERE id = ?`
		_, err := tx.ExecContext(ctx, q, amountDelta, *hoursDelta, id)
		return err
	}
	const q = `UPDATE retainers SET utilized_amount = utilized_amount + ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, amountDelta, id)
	return err
}

// UpdateStatus sets the retainer's status.  Used for manual suspension and
// by the expiry scanner when applying CheckExpiry transitions.
func (r *RetainerRepo) UpdateStatus(ctx context.Context, id string, status model.RetainerStatus) error {
	const q = `UPDATE retainers SET status = ? WHERE id = ?`
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

// MarkExpiryAlertSent flips expiry_alert_sent only when it is still false,
// reporting whether this call won the flip.  The scanner publishes the
// expiry alert only when marked is true, which makes alerting idempotent
// even with overlapping scans.
func (r *RetainerRepo) MarkExpiryAlertSent(ctx context.Context, id string) (bool, error) {
	const q = `UPDATE retainers SET expiry_alert_sent = TRUE
			   WHERE id = ? AND expiry_alert_sent = FALSE`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RenewTx extends a retainer within a transaction: new end date, optional
// additional allocation, status back to Active and the expiry alert flag
// cleared so the next expiry can alert again.
func (r *RetainerRepo) RenewTx(ctx context.Context, tx *sql.Tx, id string, newEnd time.Time, addAmount decimal.Decimal, addHours *decimal.Decimal) error {
	if addHours != nil {
		const q = `UPDATE retainers
				   SET end_date = ?, total_amount = total_amount + ?,
					   total_hours_allocated = COALESCE(total_hours_allocated, 0) + ?,
					   status = 'Active', expiry_alert_sent = FALSE
				   WHERE id = ?`
		_, err := tx.ExecContext(ctx, q, newEnd, addAmount, *addHours, id)
		return err
	}
	const q = `UPDATE retainers
			   SET end_date = ?, total_amount = total_amount + ?,
				   status = 'Active', expiry_alert_sent = FALSE
			   WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, newEnd, addAmount, id)
	return err
}
