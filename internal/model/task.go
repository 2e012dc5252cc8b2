package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskStatus enumerates task lifecycle states.
type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
)

// Valid reports whether the status is one of the recognised values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// Task is a unit of billable work for a client, optionally attached to a
// case and to a retainer scope.  Corresponds to the `tasks` table.
//
// BillableAmount is a cached total.  It is recomputed on task completion
// from TimeSpentMinutes and HourlyRate, converted into the owning
// retainer's currency when the task is billed through a scope, so the
// cached value cannot drift through the completion path.
//
// Fields:
//  ID               – primary key identifier (string, "t" prefixed).
//  ClientID         – owning client.
//  CaseID           – case the task belongs to (nullable).
//  RetainerScopeID  – scope the task draws down (nullable).
//  Title            – task title.
//  Description      – free-text description (nullable).
//  TaskType         – category of work (e.g. "Drafting", "Court Appearance").
//  Priority         – Low, Medium, High or Urgent.
//  Status           – Pending, In Progress or Completed.
//  DueDate          – when the task is due.
//  Billable         – whether time on this task is chargeable.
//  HourlyRate       – billing rate for this task (nullable).
//  RateCurrency     – currency of HourlyRate.
//  TimeSpentMinutes – minutes worked, rolled up from time entries.
//  BillableAmount   – cached billable total in RateCurrency.
//  CompletedAt      – completion timestamp (nullable).
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Task struct {
	ID               string           `json:"id"`                          // tasks.id
	ClientID         string           `json:"client_id"`                   // tasks.client_id
	CaseID           *string          `json:"case_id,omitempty"`           // tasks.case_id (nullable)
	RetainerScopeID  *string          `json:"retainer_scope_id,omitempty"` // tasks.retainer_scope_id (nullable)
	Title            string           `json:"title"`                       // tasks.title
	Description      *string          `json:"description,omitempty"`       // tasks.description (nullable)
	TaskType         string           `json:"task_type"`                   // tasks.task_type
	Priority         string           `json:"priority"`                    // tasks.priority
	Status           TaskStatus       `json:"status"`                      // tasks.status
	DueDate          time.Time        `json:"due_date"`                    // tasks.due_date
	Billable         bool             `json:"billable"`                    // tasks.billable
	HourlyRate       *decimal.Decimal `json:"hourly_rate,omitempty"`       // tasks.hourly_rate (nullable)
	RateCurrency     Currency         `json:"hourly_rate_currency"`        // tasks.hourly_rate_currency
	TimeSpentMinutes int              `json:"time_spent_minutes"`          // tasks.time_spent_minutes
	BillableAmount   decimal.Decimal  `json:"billable_amount"`             // tasks.billable_amount
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`      // tasks.completed_at (nullable)
	CreatedAt        time.Time        `json:"created_at"`                  // tasks.created_at
	UpdatedAt        time.Time        `json:"updated_at"`                  // tasks.updated_at
}

// TimeEntry is a single timed work session against a task.  Many entries
// roll up into the task's TimeSpentMinutes when the entry is stopped.
// Corresponds to the `time_entries` table.
//
// Fields:
//  ID              – primary key identifier (string, "time" prefixed).
//  TaskID          – task the session belongs to.
//  UserID          – account the time was logged by.
//  StartTime       – when the session started.
//  EndTime         – when the session ended (nil while running).
//  DurationMinutes – session length in minutes (nil while running).
//  Billable        – whether the session is chargeable.
//  Notes           – free-text notes (nullable).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type TimeEntry struct {
	ID              string     `json:"id"`                         // time_entries.id
	TaskID          string     `json:"task_id"`                    // time_entries.task_id
	UserID          uint64     `json:"user_id"`                    // time_entries.user_id
	StartTime       time.Time  `json:"start_time"`                 // time_entries.start_time
	EndTime         *time.Time `json:"end_time,omitempty"`         // time_entries.end_time (nullable)
	DurationMinutes *int       `json:"duration_minutes,omitempty"` // time_entries.duration_minutes (nullable)
	Billable        bool       `json:"billable"`                   // time_entries.billable
	Notes           *string    `json:"notes,omitempty"`            // time_entries.notes (nullable)
	CreatedAt       time.Time  `json:"created_at"`                 // time_entries.created_at
	UpdatedAt       time.Time  `json:"updated_at"`                 // time_entries.updated_at
}
