package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amkessy/law-practice-api/internal/middleware"
	"github.com/amkessy/law-practice-api/internal/model"
	"github.com/amkessy/law-practice-api/internal/repository"
)

// CaseHandler serves legal-case endpoints.
type CaseHandler struct {
	Cases     *repository.CaseRepo
	Clients   *repository.ClientRepo
	Retainers *repository.RetainerRepo
}

func NewCaseHandler(cs *repository.CaseRepo, cl *repository.ClientRepo, rt *repository.RetainerRepo) *CaseHandler {
	return &CaseHandler{Cases: cs, Clients: cl, Retainers: rt}
}

type createCaseReq struct {
	CaseReference string  `json:"case_reference"`
	ClientID      string  `json:"client_id"`
	RetainerID    *string `json:"retainer_id"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	PracticeArea  string  `json:"practice_area"`
	Priority      string  `json:"priority"`
	StartDate     string  `json:"start_date"`
	Deadline      *string `json:"deadline"`
}

var casePriorities = map[string]bool{"Low": true, "Medium": true, "High": true, "Urgent": true}

// Create opens a case for a client.  When retainer_id is omitted the
// client's most recent retainer is attached automatically, matching how
// work is normally filed under the standing engagement.
func (h *CaseHandler) Create(c echo.Context) error {
	var req createCaseReq
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
	if req.PracticeArea == "" {
		errs = append(errs, FieldError{Field: "practice_area", Message: "practice_area is required"})
	}
	priority := req.Priority
	if priority == "" {
		priority = "Medium"
	}
	if !casePriorities[priority] {
		errs = append(errs, FieldError{Field: "priority", Message: "priority must be Low, Medium, High or Urgent"})
	}
	start, okS := parseDate(req.StartDate)
	if !okS {
		errs = append(errs, FieldError{Field: "start_date", Message: "expected YYYY-MM-DD"})
	}
	deadline, okD := parseDatePtr(req.Deadline)
	if !okD {
		errs = append(errs, FieldError{Field: "deadline", Message: "expected YYYY-MM-DD"})
	}
	if len(errs) > 0 {
		return failFields(c, "validation failed", errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Clients.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "client not found")
		}
		return fail(c, http.StatusInternalServerError, "create case failed")
	}

	retainerID := req.RetainerID
	if retainerID == nil {
		latest, err := h.Retainers.LatestByClient(ctx, req.ClientID)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "create case failed")
		}
		if latest != nil {
			retainerID = &latest.ID
		}
	} else if _, err := h.Retainers.GetByID(ctx, *retainerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "retainer not found")
		}
		return fail(c, http.StatusInternalServerError, "create case failed")
	}

	ref := strings.TrimSpace(req.CaseReference) // callers may bring their own docket reference
	if ref == "" {
		ref = strings.ToUpper(model.NewID(fmt.Sprintf("CASE-%d-", start.Year())))
	}

	uid := middleware.UserID(c)
	cs := &model.Case{
		ID:            model.NewID("case"),
		CaseReference: ref,
		ClientID:      req.ClientID,
		RetainerID:    retainerID,
		Title:         req.Title,
		Description:   req.Description,
		PracticeArea:  req.PracticeArea,
		Priority:      priority,
		Status:        model.CaseOpen,
		StartDate:     start,
		Deadline:      deadline,
		CreatedBy:     &uid,
	}
	if err := h.Cases.Create(ctx, cs); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusConflict, "case reference already exists")
		}
		return fail(c, http.StatusInternalServerError, "create case failed")
	}
	return ok(c, http.StatusCreated, "case created", cs)
}

// List returns all cases, newest first.
func (h *CaseHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	cases, err := h.Cases.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list cases failed")
	}
	return ok(c, http.StatusOK, "", cases)
}

// Get returns a single case.
func (h *CaseHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	cs, err := h.Cases.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "case not found")
		}
		return fail(c, http.StatusInternalServerError, "get case failed")
	}
	return ok(c, http.StatusOK, "", cs)
}

type updateCaseReq struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	PracticeArea *string `json:"practice_area"`
	Priority     *string `json:"priority"`
	Status       *string `json:"status"`
	Deadline     *string `json:"deadline"`
}

// Update applies a partial update.  Closing goes through Close, which
// stamps closed_date; this endpoint rejects a direct move to Closed.
func (h *CaseHandler) Update(c echo.Context) error {
	var req updateCaseReq
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
	if req.PracticeArea != nil {
		fields["practice_area"] = *req.PracticeArea
	}
	if req.Priority != nil {
		if !casePriorities[*req.Priority] {
			return failFields(c, "validation failed", []FieldError{{Field: "priority", Message: "priority must be Low, Medium, High or Urgent"}})
		}
		fields["priority"] = *req.Priority
	}
	if req.Status != nil {
		status := model.CaseStatus(*req.Status)
		if !status.Valid() || status == model.CaseClosed {
			return failFields(c, "validation failed", []FieldError{{Field: "status", Message: "use the close endpoint to close a case"}})
		}
		fields["status"] = status
	}
	if req.Deadline != nil {
		d, okD := parseDatePtr(req.Deadline)
		if !okD {
			return failFields(c, "validation failed", []FieldError{{Field: "deadline", Message: "expected YYYY-MM-DD"}})
		}
		fields["deadline"] = d
	}
	if len(fields) == 0 {
		return fail(c, http.StatusBadRequest, "no fields to update")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cases.Update(ctx, c.Param("id"), fields); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "case not found")
		}
		return fail(c, http.StatusInternalServerError, "update case failed")
	}
	return ok(c, http.StatusOK, "case updated", nil)
}

// Close marks a case Closed and stamps the closing date.
func (h *CaseHandler) Close(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Cases.Close(ctx, c.Param("id"), time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "case not found")
		}
		return fail(c, http.StatusInternalServerError, "close case failed")
	}
	return ok(c, http.StatusOK, "case closed", nil)
}

// Delete removes a case.
func (h *CaseHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Cases.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "case not found")
		}
		return fail(c, http.StatusInternalServerError, "delete case failed")
	}
	return ok(c, http.StatusOK, "case deleted", nil)
}
