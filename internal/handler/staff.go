package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amkessy/law-practice-api/internal/model"
	"github.com/amkessy/law-practice-api/internal/repository"
)

// StaffHandler serves staff-record endpoints.
type StaffHandler struct {
	Staff *repository.StaffRepo
	Base  model.Currency
}

func NewStaffHandler(s *repository.StaffRepo, base model.Currency) *StaffHandler {
	return &StaffHandler{Staff: s, Base: base}
}

type createStaffReq struct {
	UserID        *uint64 `json:"user_id"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Position      string  `json:"position"`
	Department    string  `json:"department"`
	HourlyRate    string  `json:"hourly_rate"`
	RateCurrency  string  `json:"rate_currency"`
	HireDate      string  `json:"hire_date"`
	MonthlyTarget int     `json:"monthly_target_hours"`
}

// Create adds a staff record, optionally linked to a login account.
func (h *StaffHandler) Create(c echo.Context) error {
	var req createStaffReq
	if err := c.Bind(&req); err != nil { // bind the incoming JSON into the DTO
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	var errs []FieldError
	req.FullName = strings.TrimSpace(req.FullName)              // trim spaces around the name
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))   // emails are stored lowercased
	if req.FullName == "" {
		errs = append(errs, FieldError{Field: "full_name", Message: "full_name is required"})
	}
	if req.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if req.Position == "" {
		errs = append(errs, FieldError{Field: "position", Message: "position is required"})
	}
	rate, okR := parseAmount(req.HourlyRate) // the rate a completed task bills at
	if !okR || rate.IsNegative() {
		errs = append(errs, FieldError{Field: "hourly_rate", Message: "must be a non-negative amount"})
	}
	cur := h.Base // rate currency defaults to the firm's reporting currency
	if req.RateCurrency != "" {
		var okC bool
		if cur, okC = model.ParseCurrency(req.RateCurrency); !okC {
			errs = append(errs, FieldError{Field: "rate_currency", Message: "unsupported currency"})
		}
	}
	hire, okH := parseDate(req.HireDate)
	if !okH {
		errs = append(errs, FieldError{Field: "hire_date", Message: "expected YYYY-MM-DD"})
	}
	if req.MonthlyTarget < 0 {
		errs = append(errs, FieldError{Field: "monthly_target_hours", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return failFields(c, "validation failed", errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st := &model.Staff{
		ID:            model.NewID("s"),
		UserID:        req.UserID,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		Position:      req.Position,
		Department:    req.Department,
		Status:        "Active", // new staff always start active
		HourlyRate:    rate,
		RateCurrency:  cur,
		HireDate:      hire,
		MonthlyTarget: req.MonthlyTarget,
	}
	if err := h.Staff.Create(ctx, st); err != nil { // delegate the insert to the repository
		if errors.Is(err, repository.ErrConflict) { // duplicate email hits the unique index
			return fail(c, http.StatusConflict, "a staff record with this email already exists")
		}
		return fail(c, http.StatusInternalServerError, "create staff failed")
	}
	return ok(c, http.StatusCreated, "staff created", st) // 201 with the created record
}

// List returns all staff ordered by name.
func (h *StaffHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	staff, err := h.Staff.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list staff failed")
	}
	return ok(c, http.StatusOK, "", staff)
}

// Get returns one staff record.
func (h *StaffHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	st, err := h.Staff.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "staff not found")
		}
		return fail(c, http.StatusInternalServerError, "get staff failed")
	}
	return ok(c, http.StatusOK, "", st)
}

type updateStaffReq struct {
	FullName      *string `json:"full_name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Position      *string `json:"position"`
	Department    *string `json:"department"`
	Status        *string `json:"status"`
	HourlyRate    *string `json:"hourly_rate"`
	RateCurrency  *string `json:"rate_currency"`
	MonthlyTarget *int    `json:"monthly_target_hours"`
}

// Update applies a partial update to a staff record.
func (h *StaffHandler) Update(c echo.Context) error {
	var req updateStaffReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	fields := map[string]any{} // only the fields present in the body are written
	if req.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Position != nil {
		fields["position"] = *req.Position
	}
	if req.Department != nil {
		fields["department"] = *req.Department
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.HourlyRate != nil {
		rate, okR := parseAmount(*req.HourlyRate)
		if !okR || rate.IsNegative() {
			return failFields(c, "validation failed", []FieldError{{Field: "hourly_rate", Message: "must be a non-negative amount"}})
		}
		fields["hourly_rate"] = rate
	}
	if req.RateCurrency != nil {
		cur, okC := model.ParseCurrency(*req.RateCurrency)
		if !okC {
			return failFields(c, "validation failed", []FieldError{{Field: "rate_currency", Message: "unsupported currency"}})
		}
		fields["rate_currency"] = cur
	}
	if req.MonthlyTarget != nil {
		fields["monthly_target_hours"] = *req.MonthlyTarget
	}
	if len(fields) == 0 { // an empty patch is a caller mistake, not a no-op
		return fail(c, http.StatusBadRequest, "no fields to update")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Staff.Update(ctx, c.Param("id"), fields); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "staff not found")
		}
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusConflict, "a staff record with this email already exists")
		}
		return fail(c, http.StatusInternalServerError, "update staff failed")
	}
	return ok(c, http.StatusOK, "staff updated", nil)
}

// Delete removes a staff record.
func (h *StaffHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Staff.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "staff not found")
		}
		return fail(c, http.StatusInternalServerError, "delete staff failed")
	}
	return ok(c, http.StatusOK, "staff deleted", nil)
}
