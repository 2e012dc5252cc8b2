package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/amkessy/law-practice-api/internal/ledger"
	"github.com/amkessy/law-practice-api/internal/model"
	"github.com/amkessy/law-practice-api/internal/repository"
)

// RetainerHandler exposes the retainer ledger over HTTP: creation,
// scope allocation, utilization writes, balance reads, renewal and
// status transitions.
type RetainerHandler struct {
	Ledger    *ledger.Ledger
	Retainers *repository.RetainerRepo
	Scopes    *repository.RetainerScopeRepo
}

func NewRetainerHandler(l *ledger.Ledger, rt *repository.RetainerRepo, sc *repository.RetainerScopeRepo) *RetainerHandler {
	return &RetainerHandler{Ledger: l, Retainers: rt, Scopes: sc}
}

// ledgerError maps ledger and repository sentinels onto HTTP statuses.
func ledgerError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, ledger.ErrValidation),
		errors.Is(err, ledger.ErrInvalidAllocation),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrNegativeDelta):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrOverAllocation):
		return fail(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrRenewNotAllowed):
		return fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, err.Error())
	default:
		return fail(c, http.StatusInternalServerError, fallback)
	}
}

// billingFailureNote renders a ledger error as a warning string for a
// success envelope.  Used when the primary row (task, invoice) is already
// committed and only the follow-up retainer debit failed: a failure
// status would invite a retry that duplicates the committed write, so the
// caller gets its 2xx plus this note and reconciles the ledger manually.
func billingFailureNote(err error) string {
	switch {
	case errors.Is(err, ledger.ErrRateNotFound):
		return "billing skipped: no exchange rate for the retainer currency"
	case errors.Is(err, ledger.ErrOverAllocation):
		return "billing rejected: retainer allocation exceeded"
	case errors.Is(err, sql.ErrNoRows):
		return "billing skipped: retainer or scope no longer exists"
	default:
		return "billing failed: ledger not updated"
	}
}

type createScopeReq struct {
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	BillingMethod string  `json:"billing_method"`
	Amount        string  `json:"allocated_amount"`
	Hours         *string `json:"allocated_hours"`
	HourlyRate    *string `json:"hourly_rate"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
}

type utilizationReq struct {
	Amount string  `json:"amount"`
	Hours  *string `json:"hours"`
}

type billReq struct {
	ScopeID *string `json:"scope_id"`
	Amount  string  `json:"amount"`
	Hours   *string `json:"hours"`
}

type renewReq struct {
	NewEndDate       string  `json:"new_end_date"`
	AdditionalAmount *string `json:"additional_amount"`
	AdditionalHours  *string `json:"additional_hours"`
	Force            bool    `json:"force"`
}

type statusReq struct {
	Status string `json:"status"`
}

// Create adds a retainer to an existing client.
func (h *RetainerHandler) Create(c echo.Context) error {
	var req struct {
		ClientID string `json:"client_id"`
		createRetainerReq
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.ClientID == "" {
		return failFields(c, "validation failed", []FieldError{{Field: "client_id", Message: "client_id is required"}})
	}
	in, errs := req.createRetainerReq.toInput(req.ClientID)
	if len(errs) > 0 {
		return failFields(c, "validation failed", errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ret, err := h.Ledger.CreateRetainer(ctx, in)
	if err != nil {
		return ledgerError(c, err, "create retainer failed")
	}
	return ok(c, http.StatusCreated, "retainer created", ret)
}

// Get returns a retainer with its scopes and current balance.
func (h *RetainerHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ret, err := h.Retainers.GetByID(ctx, c.Param("id"))
	if err != nil {
		return ledgerError(c, err, "get retainer failed")
	}
	scopes, err := h.Scopes.ListByRetainer(ctx, ret.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "get retainer failed")
	}
	return ok(c, http.StatusOK, "", echo.Map{
		"retainer": ret,
		"scopes":   scopes,
		"balance": ledger.Balance{
			Amount:         ret.BalanceAmount(),
			HoursRemaining: ret.HoursRemaining(),
		},
	})
}

// ListByClient returns all retainers belonging to a client.
func (h *RetainerHandler) ListByClient(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	retainers, err := h.Retainers.ListByClient(ctx, c.Param("id"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list retainers failed")
	}
	return ok(c, http.StatusOK, "", retainers)
}

// AllocateScope creates an allocation bucket under a retainer.
func (h *RetainerHandler) AllocateScope(c echo.Context) error {
	var req createScopeReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	var errs []FieldError
	amount, okAmt := parseAmount(req.Amount)
	if !okAmt {
		errs = append(errs, FieldError{Field: "allocated_amount", Message: "must be a decimal amount"})
	}
	hours, okH := parseAmountPtr(req.Hours)
	if !okH {
		errs = append(errs, FieldError{Field: "allocated_hours", Message: "must be a decimal number"})
	}
	rate, okR := parseAmountPtr(req.HourlyRate)
	if !okR {
		errs = append(errs, FieldError{Field: "hourly_rate", Message: "must be a decimal amount"})
	}
	start, okS := parseDatePtr(req.StartDate)
	if !okS {
		errs = append(errs, FieldError{Field: "start_date", Message: "expected YYYY-MM-DD"})
	}
	end, okE := parseDatePtr(req.EndDate)
	if !okE {
		errs = append(errs, FieldError{Field: "end_date", Message: "expected YYYY-MM-DD"})
	}
	if len(errs) > 0 {
		return failFields(c, "validation failed", errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sc, err := h.Ledger.Allocate(ctx, ledger.AllocateScopeInput{
		RetainerID:    c.Param("id"),
		Name:          req.Name,
		Description:   req.Description,
		BillingMethod: model.BillingMethod(req.BillingMethod),
		Amount:        amount,
		Hours:         hours,
		HourlyRate:    rate,
		StartDate:     start,
		EndDate:       end,
	})
	if err != nil {
		return ledgerError(c, err, "allocate scope failed")
	}
	return ok(c, http.StatusCreated, "scope allocated", sc)
}

// RecordUtilization debits a scope (and its parent retainer) by the
// given amount and optional hours.
func (h *RetainerHandler) RecordUtilization(c echo.Context) error {
	var req utilizationReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	amount, okAmt := parseAmount(req.Amount)
	if !okAmt {
		return failFields(c, "validation failed", []FieldError{{Field: "amount", Message: "must be a decimal amount"}})
	}
	hours, okH := parseAmountPtr(req.Hours)
	if !okH {
		return failFields(c, "validation failed", []FieldError{{Field: "hours", Message: "must be a decimal number"}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bal, err := h.Ledger.RecordUtilization(ctx, c.Param("id"), amount, hours)
	if err != nil {
		return ledgerError(c, err, "record utilization failed")
	}
	return ok(c, http.StatusOK, "utilization recorded", bal)
}

// Bill debits a retainer, delegating to a scope when scope_id is given.
func (h *RetainerHandler) Bill(c echo.Context) error {
	var req billReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	amount, okAmt := parseAmount(req.Amount)
	if !okAmt {
		return failFields(c, "validation failed", []FieldError{{Field: "amount", Message: "must be a decimal amount"}})
	}
	hours, okH := parseAmountPtr(req.Hours)
	if !okH {
		return failFields(c, "validation failed", []FieldError{{Field: "hours", Message: "must be a decimal number"}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bal, err := h.Ledger.BillAgainst(ctx, c.Param("id"), req.ScopeID, amount, hours)
	if err != nil {
		return ledgerError(c, err, "billing failed")
	}
	return ok(c, http.StatusOK, "billed", bal)
}

// Balance returns the retainer-level balance.
func (h *RetainerHandler) Balance(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	bal, err := h.Ledger.RetainerBalance(ctx, c.Param("id"))
	if err != nil {
		return ledgerError(c, err, "get balance failed")
	}
	return ok(c, http.StatusOK, "", bal)
}

// ScopeBalance returns a scope-level balance.
func (h *RetainerHandler) ScopeBalance(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	bal, err := h.Ledger.GetBalance(ctx, c.Param("id"))
	if err != nil {
		return ledgerError(c, err, "get balance failed")
	}
	return ok(c, http.StatusOK, "", bal)
}

// Renew extends a retainer's end date, optionally topping up allocation,
// and moves it back to Active.  Active scopes get their extension_count
// bumped in the same transaction.
func (h *RetainerHandler) Renew(c echo.Context) error {
	var req renewReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	newEnd, okD := parseDate(req.NewEndDate)
	if !okD {
		return failFields(c, "validation failed", []FieldError{{Field: "new_end_date", Message: "expected YYYY-MM-DD"}})
	}
	addAmount := decimal.Zero
	if req.AdditionalAmount != nil && *req.AdditionalAmount != "" {
		var okAmt bool
		if addAmount, okAmt = parseAmount(*req.AdditionalAmount); !okAmt || addAmount.IsNegative() {
			return failFields(c, "validation failed", []FieldError{{Field: "additional_amount", Message: "must be a non-negative amount"}})
		}
	}
	addHours, okH := parseAmountPtr(req.AdditionalHours)
	if !okH || (addHours != nil && addHours.IsNegative()) {
		return failFields(c, "validation failed", []FieldError{{Field: "additional_hours", Message: "must be a non-negative number"}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ret, err := h.Ledger.Renew(ctx, c.Param("id"), newEnd, addAmount, addHours, req.Force)
	if err != nil {
		return ledgerError(c, err, "renew failed")
	}
	return ok(c, http.StatusOK, "retainer renewed", ret)
}

// UpdateStatus suspends or reactivates a retainer.
func (h *RetainerHandler) UpdateStatus(c echo.Context) error {
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	status := model.RetainerStatus(req.Status)
	if status != model.RetainerActive && status != model.RetainerSuspended {
		return failFields(c, "validation failed", []FieldError{{Field: "status", Message: "status must be Active or Suspended"}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Retainers.GetByID(ctx, c.Param("id")); err != nil {
		return ledgerError(c, err, "update status failed")
	}
	if err := h.Retainers.UpdateStatus(ctx, c.Param("id"), status); err != nil {
		return fail(c, http.StatusInternalServerError, "update status failed")
	}
	return ok(c, http.StatusOK, "status updated", nil)
}

// UpdateScopeStatus moves a scope between Active, Completed and Suspended.
func (h *RetainerHandler) UpdateScopeStatus(c echo.Context) error {
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	status := model.ScopeStatus(req.Status)
	if !status.Valid() {
		return failFields(c, "validation failed", []FieldError{{Field: "status", Message: "unknown scope status"}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Ledger.TransitionStatus(ctx, c.Param("id"), status); err != nil {
		return ledgerError(c, err, "update status failed")
	}
	return ok(c, http.StatusOK, "status updated", nil)
}
