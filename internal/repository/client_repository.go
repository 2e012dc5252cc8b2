package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/amkessy/law-practice-api/internal/model"
)

// ClientRepo provides CRUD operations for clients.  Client creation with
// an initial retainer and client deletion both run inside transactions so
// a failure leaves no partial state.
type ClientRepo struct {
	db *sql.DB
}

// NewClientRepo returns a new ClientRepo bound to the given database.
func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

const clientCols = `id, name, type, email, phone, address, industry, status,
	   preferred_currency, created_by, created_at, updated_at`

func scanClient(s interface{ Scan(...any) error }) (*model.Client, error) {
	var c model.Client
	var addr, industry sql.NullString
	var createdBy sql.NullInt64
	if err := s.Scan(
		&c.ID, &c.Name, &c.Type, &c.Email, &c.Phone, &addr, &industry, &c.Status,
		&c.PreferredCurrency, &createdBy, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if addr.Valid {
		v := addr.String
		c.Address = &v
	}
	if industry.Valid {
		v := industry.String
		c.Industry = &v
	}
	if createdBy.Valid {
		v := uint64(createdBy.Int64)
		c.CreatedBy = &v
	}
	return &c, nil
}

// BeginTx starts a transaction on the underlying database.  Handlers use
// it when a client mutation spans multiple repositories (onboarding a
// client together with its first retainer).
func (r *ClientRepo) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

// CreateTx inserts a new client within an existing transaction.
func (r *ClientRepo) CreateTx(ctx context.Context, tx *sql.Tx, c *model.Client) error {
	const q = `INSERT INTO clients
		(id, name, type, email, phone, address, industry, status, preferred_currency, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		c.ID, c.Name, c.Type, c.Email, c.Phone, c.Address, c.Industry,
		c.Status, c.PreferredCurrency, c.CreatedBy,
	)
	if err != nil && strings.Contains(err.Error(), "Duplicate entry") {
		return ErrConflict
	}
	return err
}

// GetByID returns a single client or sql.ErrNoRows.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*model.Client, error) {
	const q = `SELECT ` + clientCols + ` FROM clients WHERE id = ?`
	return scanClient(r.db.QueryRowContext(ctx, q, id))
}

// List returns all clients, newest first.
func (r *ClientRepo) List(ctx context.Context) ([]model.Client, error) {
	const q = `SELECT ` + clientCols + ` FROM clients ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Update applies a partial update.  Only the columns present in the fields
// map are touched; an empty map is a no-op.  Returns sql.ErrNoRows when
// the client does not exist.
func (r *ClientRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for col, v := range fields {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	args = append(args, id)
	q := `UPDATE clients SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		// Distinguish missing row from a no-change update.
		var one int
		if err2 := r.db.QueryRowContext(ctx, `SELECT 1 FROM clients WHERE id = ?`, id).Scan(&one); err2 == sql.ErrNoRows {
			return sql.ErrNoRows
		}
	}
	return err
}

// Delete removes a client after verifying, inside the same transaction
// and under a row lock, that no case is Open or In Progress.  The lock on
// the case rows prevents a concurrent status change from slipping a case
// into an active state between the check and the delete.  Returns
// ErrActiveCases on the guard, sql.ErrNoRows when the client is missing.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM clients WHERE id = ? FOR UPDATE`, id).Scan(&exists); err != nil {
		return err
	}
	var active int
	const countQ = `SELECT COUNT(*) FROM cases
					WHERE client_id = ? AND status IN ('Open', 'In Progress')
					FOR UPDATE`
	if err := tx.QueryRowContext(ctx, countQ, id).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrActiveCases
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
