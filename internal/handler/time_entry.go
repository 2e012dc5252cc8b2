package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amkessy/law-practice-api/internal/middleware"
	"github.com/amkessy/law-practice-api/internal/model"
	"github.com/amkessy/law-practice-api/internal/repository"
)

// TimeEntryHandler serves the start/stop timer endpoints that feed task
// time tracking.
type TimeEntryHandler struct {
	Entries *repository.TimeEntryRepo
	Tasks   *repository.TaskRepo
}

func NewTimeEntryHandler(e *repository.TimeEntryRepo, t *repository.TaskRepo) *TimeEntryHandler {
	return &TimeEntryHandler{Entries: e, Tasks: t}
}

type startEntryReq struct {
	TaskID    string  `json:"task_id"`
	StartTime *string `json:"start_time"` // RFC 3339; defaults to now
	EndTime   *string `json:"end_time"`   // RFC 3339; set for manual entries
	Billable  *bool   `json:"billable"`
	Notes     *string `json:"notes"`
}

// Start opens a running time entry against a task.  When end_time is
// supplied the entry is a manual one: it is created and stopped in one
// call, rolling its minutes into the task immediately.
func (h *TimeEntryHandler) Start(c echo.Context) error {
	var req startEntryReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.TaskID == "" {
		return failFields(c, "validation failed", []FieldError{{Field: "task_id", Message: "task_id is required"}})
	}
	start := time.Now().UTC()
	if req.StartTime != nil && *req.StartTime != "" {
		t, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return failFields(c, "validation failed", []FieldError{{Field: "start_time", Message: "expected RFC 3339 timestamp"}})
		}
		start = t.UTC()
	}
	var end *time.Time
	if req.EndTime != nil && *req.EndTime != "" {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return failFields(c, "validation failed", []FieldError{{Field: "end_time", Message: "expected RFC 3339 timestamp"}})
		}
		u := t.UTC()
		if !u.After(start) {
			return failFields(c, "validation failed", []FieldError{{Field: "end_time", Message: "must be after start_time"}})
		}
		end = &u
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	task, err := h.Tasks.GetByID(ctx, req.TaskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "task not found")
		}
		return fail(c, http.StatusInternalServerError, "start entry failed")
	}
	if task.Status == model.TaskCompleted {
		return fail(c, http.StatusConflict, "cannot log time on a completed task")
	}

	billable := task.Billable
	if req.Billable != nil {
		billable = *req.Billable
	}
	entry := &model.TimeEntry{
		ID:        model.NewID("time"),
		TaskID:    req.TaskID,
		UserID:    middleware.UserID(c),
		StartTime: start,
		Billable:  billable,
		Notes:     req.Notes,
	}
	if err := h.Entries.Create(ctx, entry); err != nil {
		return fail(c, http.StatusInternalServerError, "start entry failed")
	}
	if end != nil {
		stopped, err := h.Entries.Stop(ctx, entry.ID, *end)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "record entry failed")
		}
		return ok(c, http.StatusCreated, "time entry recorded", stopped)
	}
	return ok(c, http.StatusCreated, "time entry started", entry)
}

// Stop closes a running entry, computes its duration and rolls the
// minutes into the task's total in the same transaction.
func (h *TimeEntryHandler) Stop(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entry, err := h.Entries.Stop(ctx, c.Param("id"), time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "time entry not found")
		}
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusConflict, "time entry is already stopped")
		}
		return fail(c, http.StatusInternalServerError, "stop entry failed")
	}
	return ok(c, http.StatusOK, "time entry stopped", entry)
}

// ListByTask returns a task's time entries in chronological order.
func (h *TimeEntryHandler) ListByTask(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	entries, err := h.Entries.ListByTask(ctx, c.Param("id"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list entries failed")
	}
	return ok(c, http.StatusOK, "", entries)
}

// Delete removes a time entry.  Minutes already rolled into the task are
// left as they are; corrections are made on the task itself.
func (h *TimeEntryHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Entries.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "time entry not found")
		}
		return fail(c, http.StatusInternalServerError, "delete entry failed")
	}
	return ok(c, http.StatusOK, "time entry deleted", nil)
}
