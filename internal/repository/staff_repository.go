package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/amkessy/law-practice-api/internal/model"
)

// StaffRepo provides CRUD operations for staff employment records.
type StaffRepo struct {
	db *sql.DB
}

// NewStaffRepo returns a new StaffRepo bound to the given database.
func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{db: db} }

const staffCols = `id, user_id, full_name, email, phone, position, department, status,
	   hourly_rate, rate_currency, hire_date, monthly_target_hours, created_at, updated_at`

func scanStaff(s interface{ Scan(...any) error }) (*model.Staff, error) {
	var st model.Staff
	var userID sql.NullInt64
	if err := s.Scan(
		&st.ID, &userID, &st.FullName, &st.Email, &st.Phone, &st.Position,
		&st.Department, &st.Status, &st.HourlyRate, &st.RateCurrency,
		&st.HireDate, &st.MonthlyTarget, &st.CreatedAt, &st.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if userID.Valid {
		v := uint64(userID.Int64)
		st.UserID = &v
	}
	return &st, nil
}

// Create inserts a staff record.
func (r *StaffRepo) Create(ctx context.Context, st *model.Staff) error {
	const q = `INSERT INTO staff
		(id, user_id, full_name, email, phone, position, department, status,
		 hourly_rate, rate_currency, hire_date, monthly_target_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		st.ID, st.UserID, st.FullName, st.Email, st.Phone, st.Position,
		st.Department, st.Status, st.HourlyRate, st.RateCurrency,
		st.HireDate, st.MonthlyTarget,
	)
	if err != nil && strings.Contains(err.Error(), "Duplicate entry") {
		return ErrConflict
	}
	return err
}

// GetByID returns a single staff record or sql.ErrNoRows.
func (r *StaffRepo) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	const q = `SELECT ` + staffCols + ` FROM staff WHERE id = ?`
	return scanStaff(r.db.QueryRowContext(ctx, q, id))
}

// GetByUserID returns the staff profile linked to a login account, or nil
// when the account has none.
func (r *StaffRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Staff, error) {
	const q = `SELECT ` + staffCols + ` FROM staff WHERE user_id = ?`
	st, err := scanStaff(r.db.QueryRowContext(ctx, q, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return st, err
}

// List returns all staff records ordered by name.
func (r *StaffRepo) List(ctx context.Context) ([]model.Staff, error) {
	const q = `SELECT ` + staffCols + ` FROM staff ORDER BY full_name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Staff, 0)
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

// Update applies a partial update to a staff record.
func (r *StaffRepo) Update(ctx context.Context, id string, fields map[string]any) error {
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
	q := `UPDATE staff SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		var one int
		if err2 := r.db.QueryRowContext(ctx, `SELECT 1 FROM staff WHERE id = ?`, id).Scan(&one); err2 == sql.ErrNoRows {
			return sql.ErrNoRows
		}
	}
	return err
}

// Delete removes a staff record.
func (r *StaffRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
