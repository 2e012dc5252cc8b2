package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amkessy/law-practice-api/internal/ledger"
	"github.com/amkessy/law-practice-api/internal/middleware"
	"github.com/amkessy/law-practice-api/internal/model"
	"github.com/amkessy/law-practice-api/internal/repository"
)

// ClientHandler serves client onboarding and lifecycle endpoints.
type ClientHandler struct {
	Clients   *repository.ClientRepo
	Retainers *repository.RetainerRepo
	Cases     *repository.CaseRepo
	Base      model.Currency
}

func NewClientHandler(cl *repository.ClientRepo, rt *repository.RetainerRepo, cs *repository.CaseRepo, base model.Currency) *ClientHandler {
	return &ClientHandler{Clients: cl, Retainers: rt, Cases: cs, Base: base}
}

type createClientReq struct {
	Name              string  `json:"name"`
	Type              string  `json:"type"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Address           *string `json:"address"`
	Industry          *string `json:"industry"`
	PreferredCurrency string  `json:"preferred_currency"`

	// Optional initial retainer, created atomically with the client.
	// Two shapes are accepted: the nested object below, or the flat
	// retainerAmount fields the onboarding form has always sent.
	Retainer *createRetainerReq `json:"retainer"`

	RetainerAmount     string  `json:"retainerAmount"`
	RetainerCurrency   string  `json:"retainerCurrency"`
	HoursIncluded      *string `json:"hoursIncluded"`
	RetainerStartDate  *string `json:"retainerStartDate"`
	RetainerExpiryDate *string `json:"retainerExpiryDate"`
}

// initialRetainer builds the retainer requested alongside a new client,
// or nil when the body asked for none.  The nested form carries explicit
// fields; the flat form defaults the name to "<client> - Main Retainer",
// the start date to today and the expiry to one year out.
func (r createClientReq) initialRetainer(clientID, clientName string, fallback model.Currency) (*model.Retainer, []FieldError) {
	if r.Retainer != nil {
		in, errs := r.Retainer.toInput(clientID)
		if len(errs) > 0 {
			return nil, errs
		}
		ret, err := ledger.NewRetainer(in)
		if err != nil {
			return nil, []FieldError{{Field: "retainer", Message: "invalid retainer"}}
		}
		return ret, nil
	}
	if r.RetainerAmount == "" {
		return nil, nil
	}

	var errs []FieldError
	amount, okA := parseAmount(r.RetainerAmount)
	if !okA || amount.IsNegative() {
		errs = append(errs, FieldError{Field: "retainerAmount", Message: "must be a non-negative amount"})
	}
	cur := fallback
	if r.RetainerCurrency != "" {
		var okC bool
		if cur, okC = model.ParseCurrency(r.RetainerCurrency); !okC {
			errs = append(errs, FieldError{Field: "retainerCurrency", Message: "unsupported currency"})
		}
	}
	hours, okH := parseAmountPtr(r.HoursIncluded)
	if !okH || (hours != nil && hours.IsNegative()) {
		errs = append(errs, FieldError{Field: "hoursIncluded", Message: "must be a non-negative number"})
	}
	start := time.Now().UTC().Truncate(24 * time.Hour)
	if r.RetainerStartDate != nil && *r.RetainerStartDate != "" {
		var okS bool
		if start, okS = parseDate(*r.RetainerStartDate); !okS {
			errs = append(errs, FieldError{Field: "retainerStartDate", Message: "expected YYYY-MM-DD"})
		}
	}
	end := start.AddDate(0, 0, 365)
	if r.RetainerExpiryDate != nil && *r.RetainerExpiryDate != "" {
		var okE bool
		if end, okE = parseDate(*r.RetainerExpiryDate); !okE {
			errs = append(errs, FieldError{Field: "retainerExpiryDate", Message: "expected YYYY-MM-DD"})
		} else if start.After(end) {
			errs = append(errs, FieldError{Field: "retainerExpiryDate", Message: "must not precede the start date"})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	ret, err := ledger.NewRetainer(ledger.CreateRetainerInput{
		ClientID:    clientID,
		Name:        clientName + " - Main Retainer",
		TotalAmount: amount,
		Currency:    cur,
		TotalHours:  hours,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return nil, []FieldError{{Field: "retainerAmount", Message: "invalid retainer"}}
	}
	return ret, nil
}

type createRetainerReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	TotalAmount string  `json:"total_amount"`
	Currency    string  `json:"currency"`
	TotalHours  *string `json:"total_hours"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	AutoRenew   bool    `json:"auto_renew"`
}

func (r createRetainerReq) toInput(clientID string) (ledger.CreateRetainerInput, []FieldError) {
	var errs []FieldError
	in := ledger.CreateRetainerInput{
		ClientID:    clientID,
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		AutoRenew:   r.AutoRenew,
	}
	if in.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	amount, ok := parseAmount(r.TotalAmount)
	if !ok || amount.IsNegative() {
		errs = append(errs, FieldError{Field: "total_amount", Message: "must be a non-negative amount"})
	}
	in.TotalAmount = amount
	cur, okC := model.ParseCurrency(r.Currency)
	if !okC {
		errs = append(errs, FieldError{Field: "currency", Message: "unsupported currency"})
	}
	in.Currency = cur
	hours, ok := parseAmountPtr(r.TotalHours)
	if !ok || (hours != nil && hours.IsNegative()) {
		errs = append(errs, FieldError{Field: "total_hours", Message: "must be a non-negative number"})
	}
	in.TotalHours = hours
	start, ok := parseDate(r.StartDate)
	if !ok {
		errs = append(errs, FieldError{Field: "start_date", Message: "expected YYYY-MM-DD"})
	}
	in.StartDate = start
	end, ok := parseDate(r.EndDate)
	if !ok {
		errs = append(errs, FieldError{Field: "end_date", Message: "expected YYYY-MM-DD"})
	} else if start.After(end) {
		errs = append(errs, FieldError{Field: "end_date", Message: "must not precede start_date"})
	}
	in.EndDate = end
	return in, errs
}

// Create onboards a client, optionally with an initial retainer.  Both
// rows are written in one transaction so a retainer can never point at a
// client that failed to insert.
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	var errs []FieldError
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if req.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if strings.TrimSpace(req.Phone) == "" {
		errs = append(errs, FieldError{Field: "phone", Message: "phone is required"})
	}
	ctype := model.ClientType(req.Type)
	if !ctype.Valid() {
		errs = append(errs, FieldError{Field: "type", Message: "unknown client type"})
	}
	cur := h.Base
	if req.PreferredCurrency != "" {
		var okC bool
		if cur, okC = model.ParseCurrency(req.PreferredCurrency); !okC {
			errs = append(errs, FieldError{Field: "preferred_currency", Message: "unsupported currency"})
		}
	}

	uid := middleware.UserID(c)
	client := &model.Client{
		ID:                model.NewID("c"),
		Name:              req.Name,
		Type:              ctype,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		Industry:          req.Industry,
		Status:            "Active",
		PreferredCurrency: cur,
		CreatedBy:         &uid,
	}

	ret, retErrs := req.initialRetainer(client.ID, client.Name, cur)
	errs = append(errs, retErrs...)
	if len(errs) > 0 {
		return failFields(c, "validation failed", errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Clients.BeginTx(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "create client failed")
	}
	defer func() { _ = tx.Rollback() }()

	if err := h.Clients.CreateTx(ctx, tx, client); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusConflict, "a client with this email already exists")
		}
		return fail(c, http.StatusInternalServerError, "create client failed")
	}
	if ret != nil {
		if err := h.Retainers.CreateTx(ctx, tx, ret); err != nil {
			return fail(c, http.StatusInternalServerError, "create retainer failed")
		}
	}
	if err := tx.Commit(); err != nil {
		return fail(c, http.StatusInternalServerError, "create client failed")
	}

	data := echo.Map{"client": client}
	if ret != nil {
		data["retainer"] = ret
	}
	return ok(c, http.StatusCreated, "client created", data)
}

// List returns all clients, newest first.
func (h *ClientHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	clients, err := h.Clients.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list clients failed")
	}

	// Each client carries its most recent retainer so the client list can
	// show the engagement at a glance without a second round trip.
	type clientWithRetainer struct {
		model.Client
		LatestRetainer *model.Retainer `json:"latest_retainer,omitempty"`
	}
	out := make([]clientWithRetainer, 0, len(clients))
	for _, cl := range clients {
		latest, err := h.Retainers.LatestByClient(ctx, cl.ID)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "list clients failed")
		}
		out = append(out, clientWithRetainer{Client: cl, LatestRetainer: latest})
	}
	return ok(c, http.StatusOK, "", out)
}

// Get returns one client with its retainers and ten most recent cases.
func (h *ClientHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id := c.Param("id")
	client, err := h.Clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "client not found")
		}
		return fail(c, http.StatusInternalServerError, "get client failed")
	}
	retainers, err := h.Retainers.ListByClient(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "get client failed")
	}
	cases, err := h.Cases.ListByClient(ctx, id, 10)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "get client failed")
	}
	return ok(c, http.StatusOK, "", echo.Map{
		"client":    client,
		"retainers": retainers,
		"cases":     cases,
	})
}

type updateClientReq struct {
	Name              *string `json:"name"`
	Type              *string `json:"type"`
	Email             *string `json:"email"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Industry          *string `json:"industry"`
	Status            *string `json:"status"`
	PreferredCurrency *string `json:"preferred_currency"`
}

// Update applies a partial update; only fields present in the body change.
func (h *ClientHandler) Update(c echo.Context) error {
	var req updateClientReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		if !model.ClientType(*req.Type).Valid() {
			return failFields(c, "validation failed", []FieldError{{Field: "type", Message: "unknown client type"}})
		}
		fields["type"] = *req.Type
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Industry != nil {
		fields["industry"] = *req.Industry
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.PreferredCurrency != nil {
		cur, okC := model.ParseCurrency(*req.PreferredCurrency)
		if !okC {
			return failFields(c, "validation failed", []FieldError{{Field: "preferred_currency", Message: "unsupported currency"}})
		}
		fields["preferred_currency"] = cur
	}
	if len(fields) == 0 {
		return fail(c, http.StatusBadRequest, "no fields to update")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Clients.Update(ctx, c.Param("id"), fields); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "client not found")
		}
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusConflict, "a client with this email already exists")
		}
		return fail(c, http.StatusInternalServerError, "update client failed")
	}
	return ok(c, http.StatusOK, "client updated", nil)
}

// Delete removes a client.  The repository refuses while the client has
// open or in-progress cases; that surfaces here as a 409.
func (h *ClientHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Clients.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "client not found")
		}
		if errors.Is(err, repository.ErrActiveCases) {
			return fail(c, http.StatusConflict, "client has active cases and cannot be deleted")
		}
		return fail(c, http.StatusInternalServerError, "delete client failed")
	}
	return ok(c, http.StatusOK, "client deleted", nil)
}
