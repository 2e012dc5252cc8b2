package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/amkessy/law-practice-api/internal/model"
)

// CaseRepo provides CRUD operations for cases.
type CaseRepo struct {
	db *sql.DB
}

// NewCaseRepo returns a new CaseRepo bound to the given database.
func NewCaseRepo(db *sql.DB) *CaseRepo { return &CaseRepo{db: db} }

const caseCols = `id, case_reference, client_id, retainer_id, title, description,
	   practice_area, priority, status, start_date, deadline, closed_date,
	   created_by, created_at, updated_at`

func scanCase(s interface{ Scan(...any) error }) (*model.Case, error) {
	var cs model.Case
	var retainerID, desc sql.NullString
	var deadline, closed sql.NullTime
	var createdBy sql.NullInt64
	if err := s.Scan(
		&cs.ID, &cs.CaseReference, &cs.ClientID, &retainerID, &cs.Title, &desc,
		&cs.PracticeArea, &cs.Priority, &cs.Status, &cs.StartDate, &deadline, &closed,
		&createdBy, &cs.CreatedAt, &cs.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if retainerID.Valid {
		v := retainerID.String
		cs.RetainerID = &v
	}
	if desc.Valid {
		v := desc.String
		cs.Description = &v
	}
	if deadline.Valid {
		t := deadline.Time
		cs.Deadline = &t
	}
	if closed.Valid {
		t := closed.Time
		cs.ClosedDate = &t
	}
	if createdBy.Valid {
		v := uint64(createdBy.Int64)
		cs.CreatedBy = &v
	}
	return &cs, nil
}

// Create inserts a new case.  Duplicate case references surface as
// ErrConflict.
func (r *CaseRepo) Create(ctx context.Context, cs *model.Case) error {
	const q = `INSERT INTO cases
		(id, case_reference, client_id, retainer_id, title, description,
		 practice_area, priority, status, start_date, deadline, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		cs.ID, cs.CaseReference, cs.ClientID, cs.RetainerID, cs.Title, cs.Description,
		cs.PracticeArea, cs.Priority, cs.Status, cs.StartDate, cs.Deadline, cs.CreatedBy,
	)
	if err != nil && strings.Contains(err.Error(), "Duplicate entry") {
		return ErrConflict
	}
	return err
}

// GetByID returns a single case or sql.ErrNoRows.
func (r *CaseRepo) GetByID(ctx context.Context, id string) (*model.Case, error) {
	const q = `SELECT ` + caseCols + ` FROM cases WHERE id = ?`
	return scanCase(r.db.QueryRowContext(ctx, q, id))
}

// List returns all cases, newest first.
func (r *CaseRepo) List(ctx context.Context) ([]model.Case, error) {
	const q = `SELECT ` + caseCols + ` FROM cases ORDER BY created_at DESC`
	return r.queryCases(ctx, q)
}

// ListByClient returns up to limit of the client's most recent cases.
// The client detail endpoint embeds the ten most recent.
func (r *CaseRepo) ListByClient(ctx context.Context, clientID string, limit int) ([]model.Case, error) {
	const q = `SELECT ` + caseCols + ` FROM cases WHERE client_id = ? ORDER BY created_at DESC LIMIT ?`
	return r.queryCases(ctx, q, clientID, limit)
}

func (r *CaseRepo) queryCases(ctx context.Context, q string, args ...any) ([]model.Case, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Case, 0)
	for rows.Next() {
		cs, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *cs)
	}
	return out, rows.Err()
}

// Update applies a partial update to a case.  Returns sql.ErrNoRows when
// the case does not exist.
func (r *CaseRepo) Update(ctx context.Context, id string, fields map[string]any) error {
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
	q := `UPDATE cases SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		var one int
		if err2 := r.db.QueryRowContext(ctx, `SELECT 1 FROM cases WHERE id = ?`, id).Scan(&one); err2 == sql.ErrNoRows {
			return sql.ErrNoRows
		}
	}
	return err
}

// Close marks a case Closed and stamps the closed date.
func (r *CaseRepo) Close(ctx context.Context, id string, closedOn time.Time) error {
	const q = `UPDATE cases SET status = 'Closed', closed_date = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, closedOn, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// Delete removes a case.
func (r *CaseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
