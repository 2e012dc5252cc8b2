package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amkessy/law-practice-api/internal/model"
)

// TaskRepo provides CRUD operations for tasks.  Completion is a Tx method
// because completing a billable task and debiting its retainer scope must
// commit or fail together.
type TaskRepo struct {
	db *sql.DB
}

// NewTaskRepo returns a new TaskRepo bound to the given database.
func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{db: db} }

const taskCols = `id, client_id, case_id, retainer_scope_id, title, description,
	   task_type, priority, status, due_date, billable, hourly_rate,
	   hourly_rate_currency, time_spent_minutes, billable_amount,
	   completed_at, created_at, updated_at`

func scanTask(s interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var caseID, scopeID, desc sql.NullString
	var rate decimal.NullDecimal
	var completed sql.NullTime
	if err := s.Scan(
		&t.ID, &t.ClientID, &caseID, &scopeID, &t.Title, &desc,
		&t.TaskType, &t.Priority, &t.Status, &t.DueDate, &t.Billable, &rate,
		&t.RateCurrency, &t.TimeSpentMinutes, &t.BillableAmount,
		&completed, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if caseID.Valid {
		v := caseID.String
		t.CaseID = &v
	}
	if scopeID.Valid {
		v := scopeID.String
		t.RetainerScopeID = &v
	}
	if desc.Valid {
		v := desc.String
		t.Description = &v
	}
	if rate.Valid {
		v := rate.Decimal
		t.HourlyRate = &v
	}
	if completed.Valid {
		v := completed.Time
		t.CompletedAt = &v
	}
	return &t, nil
}

// Create inserts a new task.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
	const q = `INSERT INTO tasks
		(id, client_id, case_id, retainer_scope_id, title, description,
		 task_type, priority, status, due_date, billable, hourly_rate,
		 hourly_rate_currency, time_spent_minutes, billable_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var rate decimal.NullDecimal
	if t.HourlyRate != nil {
		rate = decimal.NullDecimal{Decimal: *t.HourlyRate, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q,
		t.ID, t.ClientID, t.CaseID, t.RetainerScopeID, t.Title, t.Description,
		t.TaskType, t.Priority, t.Status, t.DueDate, t.Billable, rate,
		t.RateCurrency, t.TimeSpentMinutes, t.BillableAmount,
	)
	return err
}

// GetByID returns a single task or sql.ErrNoRows.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	const q = `SELECT ` + taskCols + ` FROM tasks WHERE id = ?`
	return scanTask(r.db.QueryRowContext(ctx, q, id))
}

// List returns all tasks, newest first.
func (r *TaskRepo) List(ctx context.Context) ([]model.Task, error) {
	const q = `SELECT ` + taskCols + ` FROM tasks ORDER BY created_at DESC`
	return r.queryTasks(ctx, q)
}

// ListByCase returns the tasks attached to a case, newest first.
func (r *TaskRepo) ListByCase(ctx context.Context, caseID string) ([]model.Task, error) {
	const q = `SELECT ` + taskCols + ` FROM tasks WHERE case_id = ? ORDER BY created_at DESC`
	return r.queryTasks(ctx, q, caseID)
}

func (r *TaskRepo) queryTasks(ctx context.Context, q string, args ...any) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Update applies a partial update to a task.
func (r *TaskRepo) Update(ctx context.Context, id string, fields map[string]any) error {
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
	q := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		var one int
		if err2 := r.db.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = ?`, id).Scan(&one); err2 == sql.ErrNoRows {
			return sql.ErrNoRows
		}
	}
	return err
}

// AddTimeSpent rolls a stopped time entry's duration into the task total.
func (r *TaskRepo) AddTimeSpent(ctx context.Context, id string, minutes int) error {
	const q = `UPDATE tasks SET time_spent_minutes = time_spent_minutes + ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, minutes, id)
	return err
}

// Complete marks a task Completed, stamps the completion time and writes
// the recomputed billable amount.  The handler computes the amount from
// time spent and the hourly rate (converted to the retainer currency when
// the task bills a scope) before calling this.
func (r *TaskRepo) Complete(ctx context.Context, id string, billableAmount decimal.Decimal, at time.Time) error {
	const q = `UPDATE tasks
			   SET status = 'Completed', billable_amount = ?, completed_at = ?
			   WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, billableAmount, at, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// Delete removes a task.
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
