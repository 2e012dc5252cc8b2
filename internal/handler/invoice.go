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
	"github.com/amkessy/law-practice-api/internal/middleware"
	"github.com/amkessy/law-practice-api/internal/model"
	"github.com/amkessy/law-practice-api/internal/repository"
)

// InvoiceHandler serves invoicing endpoints.  Every invoice stores its
// amount both in the billed currency and converted to the firm's base
// currency at issue time, so finance reporting never re-converts at a
// later (different) rate.
type InvoiceHandler struct {
	Invoices  *repository.InvoiceRepo
	Clients   *repository.ClientRepo
	Converter *ledger.Converter
	Ledger    *ledger.Ledger
	Base      model.Currency
}

func NewInvoiceHandler(inv *repository.InvoiceRepo, cl *repository.ClientRepo, cv *ledger.Converter, l *ledger.Ledger, base model.Currency) *InvoiceHandler {
	return &InvoiceHandler{Invoices: inv, Clients: cl, Converter: cv, Ledger: l, Base: base}
}

type createInvoiceReq struct {
	ClientID  string  `json:"client_id"`
	CaseID    *string `json:"case_id"`
	Amount    string  `json:"amount"`
	Currency  string  `json:"currency"`
	IssueDate string  `json:"issue_date"`
	DueDate   string  `json:"due_date"`
	Notes     *string `json:"notes"`

	// Optional: debit this retainer by the invoice amount (converted to
	// the retainer's currency) once the invoice is created.
	RetainerID *string `json:"retainer_id"`
}

// Create issues an invoice.  The invoice number is sequential per year
// (INV-2026-0042).
func (h *InvoiceHandler) Create(c echo.Context) error {
	var req createInvoiceReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	var errs []FieldError
	if req.ClientID == "" {
		errs = append(errs, FieldError{Field: "client_id", Message: "client_id is required"})
	}
	amount, okA := parseAmount(req.Amount)
	if !okA || !amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be a positive amount"})
	}
	cur, okC := model.ParseCurrency(req.Currency)
	if !okC {
		errs = append(errs, FieldError{Field: "currency", Message: "unsupported currency"})
	}
	issue, okI := parseDate(req.IssueDate)
	if !okI {
		errs = append(errs, FieldError{Field: "issue_date", Message: "expected YYYY-MM-DD"})
	}
	due, okD := parseDate(req.DueDate)
	if !okD {
		errs = append(errs, FieldError{Field: "due_date", Message: "expected YYYY-MM-DD"})
	} else if okI && due.Before(issue) {
		errs = append(errs, FieldError{Field: "due_date", Message: "must not precede issue_date"})
	}
	if len(errs) > 0 {
		return failFields(c, "validation failed", errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Clients.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "client not found")
		}
		return fail(c, http.StatusInternalServerError, "create invoice failed")
	}

	inBase, err := h.Converter.Convert(ctx, amount, cur, h.Base, issue)
	if err != nil {
		if errors.Is(err, ledger.ErrRateNotFound) {
			return fail(c, http.StatusUnprocessableEntity, "no exchange rate from "+string(cur)+" to "+string(h.Base))
		}
		return fail(c, http.StatusInternalServerError, "create invoice failed")
	}
	number, err := h.Invoices.NextNumber(ctx, issue.Year()) // sequential per issue year
	if err != nil {
		return fail(c, http.StatusInternalServerError, "create invoice failed")
	}

	uid := middleware.UserID(c)
	inv := &model.Invoice{
		ID:            model.NewID("inv"),
		InvoiceNumber: number,
		ClientID:      req.ClientID,
		CaseID:        req.CaseID,
		Amount:        amount,
		Currency:      cur,
		AmountInBase:  inBase,
		Status:        model.InvoiceDraft,
		IssueDate:     issue,
		DueDate:       due,
		Notes:         req.Notes,
		CreatedBy:     &uid,
	}
	if err := h.Invoices.Create(ctx, inv); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusConflict, "invoice number already exists")
		}
		return fail(c, http.StatusInternalServerError, "create invoice failed")
	}

	data := echo.Map{"invoice": inv}
	if req.RetainerID != nil {
		bal, err := h.billRetainer(ctx, *req.RetainerID, amount, cur, issue)
		if err != nil {
			// The invoice row is committed and its number consumed; a
			// failure status here would have the client re-create it.
			data["billing_warning"] = billingFailureNote(err)
			return ok(c, http.StatusCreated, "invoice created", data)
		}
		data["retainer_balance"] = bal
	}
	return ok(c, http.StatusCreated, "invoice created", data)
}

// billRetainer converts the invoice amount into the retainer's currency
// and debits it at the retainer level (no scope).
func (h *InvoiceHandler) billRetainer(ctx context.Context, retainerID string, amount decimal.Decimal, cur model.Currency, asOf time.Time) (ledger.Balance, error) {
	ret, err := h.Ledger.Retainer(ctx, retainerID)
	if err != nil {
		return ledger.Balance{}, err
	}
	converted, err := h.Converter.Convert(ctx, amount, cur, ret.Currency, asOf)
	if err != nil {
		return ledger.Balance{}, err
	}
	return h.Ledger.BillAgainst(ctx, retainerID, nil, converted, nil)
}

// List returns all invoices, or one client's with ?client_id=.
func (h *InvoiceHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		invoices []model.Invoice
		err      error
	)
	if clientID := c.QueryParam("client_id"); clientID != "" {
		invoices, err = h.Invoices.ListByClient(ctx, clientID)
	} else {
		invoices, err = h.Invoices.List(ctx)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list invoices failed")
	}
	return ok(c, http.StatusOK, "", invoices)
}

// Get returns one invoice.
func (h *InvoiceHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	inv, err := h.Invoices.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "invoice not found")
		}
		return fail(c, http.StatusInternalServerError, "get invoice failed")
	}
	return ok(c, http.StatusOK, "", inv)
}

// invoiceTransitions lists the allowed status moves.
var invoiceTransitions = map[model.InvoiceStatus][]model.InvoiceStatus{
	model.InvoiceDraft:   {model.InvoiceSent},
	model.InvoiceSent:    {model.InvoicePaid, model.InvoiceOverdue},
	model.InvoiceOverdue: {model.InvoicePaid},
}

// UpdateStatus moves an invoice along Draft -> Sent -> Paid/Overdue.
// Marking an invoice Paid stamps paid_date.
func (h *InvoiceHandler) UpdateStatus(c echo.Context) error {
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	target := model.InvoiceStatus(req.Status)
	if !target.Valid() {
		return failFields(c, "validation failed", []FieldError{{Field: "status", Message: "unknown invoice status"}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inv, err := h.Invoices.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "invoice not found")
		}
		return fail(c, http.StatusInternalServerError, "update status failed")
	}

	allowed := false
	for _, s := range invoiceTransitions[inv.Status] {
		if s == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return fail(c, http.StatusConflict, "cannot move invoice from "+string(inv.Status)+" to "+string(target))
	}

	var paidOn *time.Time
	if target == model.InvoicePaid {
		now := time.Now().UTC()
		paidOn = &now
	}
	if err := h.Invoices.UpdateStatus(ctx, inv.ID, target, paidOn); err != nil {
		return fail(c, http.StatusInternalServerError, "update status failed")
	}
	return ok(c, http.StatusOK, "invoice "+string(target), nil)
}
