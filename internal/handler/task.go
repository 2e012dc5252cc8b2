package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/amkessy/law-practice-api/internal/ledger"
	"github.com/amkessy/law-practice-api/internal/model"
	"github.com/amkessy/law-practice-api/internal/repository"
)

// TaskHandler serves task endpoints.  Completing a billable task is the
// main billing entry point: hours worked are priced at the task's hourly
// rate, converted into the retainer's currency and debited from the
// attached scope.
type TaskHandler struct {
	Tasks     *repository.TaskRepo
	Scopes    *repository.RetainerScopeRepo
	Retainers *repository.RetainerRepo
	Ledger    *ledger.Ledger
	Converter *ledger.Converter
}

func NewTaskHandler(t *repository.TaskRepo, sc *repository.RetainerScopeRepo, rt *repository.RetainerRepo, l *ledger.Ledger, cv *ledger.Converter) *TaskHandler {
	return &TaskHandler{Tasks: t, Scopes: sc, Retainers: rt, Ledger: l, Converter: cv}
}

type createTaskReq struct {
	ClientID        string  `json:"client_id"`
	CaseID          *string `json:"case_id"`
	RetainerScopeID *string `json:"retainer_scope_id"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	TaskType        string  `json:"task_type"`
	Priority        string  `json:"priority"`
	DueDate         string  `json:"due_date"`
	Billable        *bool   `json:"billable"`
	HourlyRate      *string `json:"hourly_rate"`
	RateCurrency    string  `json:"hourly_rate_currency"`
}

// Create adds a task, optionally attached to a case and a retainer scope.
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	var errs []FieldError
	req.Title = strings.TrimSpace(req.Title)
	if req.ClientID == "" {
		errs = append(errs, FieldError{Field: "client_id", Message: "client_id is required"})
	}
	if req.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	}
	due, okD := parseDate(req.DueDate)
	if !okD {
		errs = append(errs, FieldError{Field: "due_date", Message: "expected YYYY-MM-DD"})
	}
	rate, okR := parseAmountPtr(req.HourlyRate)
	if !okR || (rate != nil && rate.IsNegative()) {
		errs = append(errs, FieldError{Field: "hourly_rate", Message: "must be a non-negative amount"})
	}
	var rateCur model.Currency
	if rate != nil {
		var okC bool
		if rateCur, okC = model.ParseCurrency(req.RateCurrency); !okC {
			errs = append(errs, FieldError{Field: "hourly_rate_currency", Message: "unsupported currency"})
		}
	}
	if len(errs) > 0 {
		return failFields(c, "validation failed", errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.RetainerScopeID != nil {
		if _, err := h.Scopes.GetByID(ctx, *req.RetainerScopeID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fail(c, http.StatusNotFound, "retainer scope not found")
			}
			return fail(c, http.StatusInternalServerError, "create task failed")
		}
	}

	billable := true
	if req.Billable != nil {
		billable = *req.Billable
	}
	taskType := req.TaskType
	if taskType == "" {
		taskType = "General"
	}
	priority := req.Priority
	if priority == "" {
		priority = "Medium"
	}

	t := &model.Task{
		ID:              model.NewID("t"),
		ClientID:        req.ClientID,
		CaseID:          req.CaseID,
		RetainerScopeID: req.RetainerScopeID,
		Title:           req.Title,
		Description:     req.Description,
		TaskType:        taskType,
		Priority:        priority,
		Status:          model.TaskPending,
		DueDate:         due,
		Billable:        billable,
		HourlyRate:      rate,
		RateCurrency:    rateCur,
		BillableAmount:  decimal.Zero,
	}
	if err := h.Tasks.Create(ctx, t); err != nil {
		return fail(c, http.StatusInternalServerError, "create task failed")
	}
	return ok(c, http.StatusCreated, "task created", t)
}

// List returns all tasks, or the tasks of one case with ?case_id=.
func (h *TaskHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		tasks []model.Task
		err   error
	)
	if caseID := c.QueryParam("case_id"); caseID != "" {
		tasks, err = h.Tasks.ListByCase(ctx, caseID)
	} else {
		tasks, err = h.Tasks.List(ctx)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list tasks failed")
	}
	return ok(c, http.StatusOK, "", tasks)
}

// Get returns a single task.
func (h *TaskHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	t, err := h.Tasks.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "task not found")
		}
		return fail(c, http.StatusInternalServerError, "get task failed")
	}
	return ok(c, http.StatusOK, "", t)
}

type updateTaskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	TaskType    *string `json:"task_type"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
	Billable    *bool   `json:"billable"`
	HourlyRate  *string `json:"hourly_rate"`
}

// Update applies a partial update.  Completion must go through Complete
// so billing happens exactly once.
func (h *TaskHandler) Update(c echo.Context) error {
	var req updateTaskReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.TaskType != nil {
		fields["task_type"] = *req.TaskType
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		if !status.Valid() || status == model.TaskCompleted {
			return failFields(c, "validation failed", []FieldError{{Field: "status", Message: "use the complete endpoint to complete a task"}})
		}
		fields["status"] = status
	}
	if req.DueDate != nil {
		d, okD := parseDate(*req.DueDate)
		if !okD {
			return failFields(c, "validation failed", []FieldError{{Field: "due_date", Message: "expected YYYY-MM-DD"}})
		}
		fields["due_date"] = d
	}
	if req.Billable != nil {
		fields["billable"] = *req.Billable
	}
	if req.HourlyRate != nil {
		rate, okR := parseAmount(*req.HourlyRate)
		if !okR || rate.IsNegative() {
			return failFields(c, "validation failed", []FieldError{{Field: "hourly_rate", Message: "must be a non-negative amount"}})
		}
		fields["hourly_rate"] = rate
	}
	if len(fields) == 0 {
		return fail(c, http.StatusBadRequest, "no fields to update")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.Update(ctx, c.Param("id"), fields); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "task not found")
		}
		return fail(c, http.StatusInternalServerError, "update task failed")
	}
	return ok(c, http.StatusOK, "task updated", nil)
}

// Complete finishes a task and settles its billing.  For a billable task
// with an hourly rate, the amount is time spent priced at that rate; when
// the task bills a retainer scope the amount is converted into the
// retainer's currency first, then debited from the scope and its parent
// retainer through the ledger.
func (h *TaskHandler) Complete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	t, err := h.Tasks.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "task not found")
		}
		return fail(c, http.StatusInternalServerError, "complete task failed")
	}
	if t.Status == model.TaskCompleted {
		return fail(c, http.StatusConflict, "task is already completed")
	}

	now := time.Now().UTC()
	amount := decimal.Zero
	hours := decimal.NewFromInt(int64(t.TimeSpentMinutes)).Div(decimal.NewFromInt(60)).Round(2) // minutes to hours, 2dp

	if t.Billable && t.HourlyRate != nil {
		amount = hours.Mul(*t.HourlyRate).Round(2)

		if t.RetainerScopeID != nil {
			sc, err := h.Scopes.GetByID(ctx, *t.RetainerScopeID)
			if err != nil {
				return fail(c, http.StatusInternalServerError, "complete task failed")
			}
			ret, err := h.Retainers.GetByID(ctx, sc.RetainerID)
			if err != nil {
				return fail(c, http.StatusInternalServerError, "complete task failed")
			}
			if amount, err = h.Converter.Convert(ctx, amount, t.RateCurrency, ret.Currency, now); err != nil {
				if errors.Is(err, ledger.ErrRateNotFound) {
					return fail(c, http.StatusUnprocessableEntity, "no exchange rate from "+string(t.RateCurrency)+" to "+string(ret.Currency))
				}
				return fail(c, http.StatusInternalServerError, "complete task failed")
			}
		}
	}

	if err := h.Tasks.Complete(ctx, t.ID, amount, now); err != nil {
		return fail(c, http.StatusInternalServerError, "complete task failed")
	}

	data := echo.Map{
		"task_id":         t.ID,
		"billable_amount": amount,
		"hours":           hours,
		"completed_at":    now,
	}
	if t.Billable && t.RetainerScopeID != nil && amount.IsPositive() {
		bal, err := h.Ledger.RecordUtilization(ctx, *t.RetainerScopeID, amount, &hours)
		if err != nil {
			// The completion is committed; report it as such and flag
			// the missing debit instead of inviting a retry.
			data["billing_warning"] = billingFailureNote(err)
			return ok(c, http.StatusOK, "task completed", data)
		}
		data["balance"] = bal
	}
	return ok(c, http.StatusOK, "task completed", data)
}

// Delete removes a task.
func (h *TaskHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Tasks.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "task not found")
		}
		return fail(c, http.StatusInternalServerError, "delete task failed")
	}
	return ok(c, http.StatusOK, "task deleted", nil)
}
