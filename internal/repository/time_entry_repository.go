package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/amkessy/law-practice-api/internal/model"
)

// TimeEntryRepo provides persistence for timed work sessions.  Stopping a
// running entry and rolling its duration into the parent task happen in
// one transaction.
type TimeEntryRepo struct {
	db *sql.DB
}

// NewTimeEntryRepo returns a new TimeEntryRepo bound to the given database.
func NewTimeEntryRepo(db *sql.DB) *TimeEntryRepo { return &TimeEntryRepo{db: db} }

const timeEntryCols = `id, task_id, user_id, start_time, end_time, duration_minutes,
	   billable, notes, created_at, updated_at`

func scanTimeEntry(s interface{ Scan(...any) error }) (*model.TimeEntry, error) {
	var te model.TimeEntry
	var end sql.NullTime
	var dur sql.NullInt64
	var notes sql.NullString
	if err := s.Scan(
		&te.ID, &te.TaskID, &te.UserID, &te.StartTime, &end, &dur,
		&te.Billable, &notes, &te.CreatedAt, &te.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if end.Valid {
		t := end.Time
		te.EndTime = &t
	}
	if dur.Valid {
		d := int(dur.Int64)
		te.DurationMinutes = &d
	}
	if notes.Valid {
		n := notes.String
		te.Notes = &n
	}
	return &te, nil
}

// Create inserts a time entry.  A running entry has a nil end time and
// nil duration.
func (r *TimeEntryRepo) Create(ctx context.Context, te *model.TimeEntry) error {
	const q = `INSERT INTO time_entries
		(id, task_id, user_id, start_time, end_time, duration_minutes, billable, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		te.ID, te.TaskID, te.UserID, te.StartTime, te.EndTime, te.DurationMinutes,
		te.Billable, te.Notes,
	)
	return err
}

// GetByID returns a single time entry or sql.ErrNoRows.
func (r *TimeEntryRepo) GetByID(ctx context.Context, id string) (*model.TimeEntry, error) {
	const q = `SELECT ` + timeEntryCols + ` FROM time_entries WHERE id = ?`
	return scanTimeEntry(r.db.QueryRowContext(ctx, q, id))
}

// ListByTask returns all entries for a task, oldest first.
func (r *TimeEntryRepo) ListByTask(ctx context.Context, taskID string) ([]model.TimeEntry, error) {
	const q = `SELECT ` + timeEntryCols + ` FROM time_entries WHERE task_id = ? ORDER BY start_time ASC`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TimeEntry, 0)
	for rows.Next() {
		te, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *te)
	}
	return out, rows.Err()
}

// Stop ends a running entry and rolls the duration into the parent task's
// time_spent_minutes inside one transaction.  Returns ErrConflict when the
// entry was already stopped.
func (r *TimeEntryRepo) Stop(ctx context.Context, id string, endTime time.Time) (*model.TimeEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const sel = `SELECT ` + timeEntryCols + ` FROM time_entries WHERE id = ? FOR UPDATE`
	te, err := scanTimeEntry(tx.QueryRowContext(ctx, sel, id))
	if err != nil {
		return nil, err
	}
	if te.EndTime != nil {
		return nil, ErrConflict
	}
	minutes := int(endTime.Sub(te.StartTime).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	const upd = `UPDATE time_entries SET end_time = ?, duration_minutes = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, endTime, minutes, id); err != nil {
		return nil, err
	}
	const roll = `UPDATE tasks SET time_spent_minutes = time_spent_minutes + ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, roll, minutes, te.TaskID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	te.EndTime = &endTime
	te.DurationMinutes = &minutes
	return te, nil
}

// Delete removes a time entry.
func (r *TimeEntryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
