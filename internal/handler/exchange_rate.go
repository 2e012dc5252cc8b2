package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amkessy/law-practice-api/internal/model"
	"github.com/amkessy/law-practice-api/internal/repository"
)

// ExchangeRateHandler manages the rate table the currency converter
// reads from.  Rates are dated; conversions use the most recent rate on
// or before the conversion date.
type ExchangeRateHandler struct {
	Rates *repository.ExchangeRateRepo
}

func NewExchangeRateHandler(r *repository.ExchangeRateRepo) *ExchangeRateHandler {
	return &ExchangeRateHandler{Rates: r}
}

type upsertRateReq struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	Rate         string `json:"rate"`
	RateDate     string `json:"rate_date"` // defaults to today
}

// Upsert inserts or replaces the rate for a currency pair on a date.
func (h *ExchangeRateHandler) Upsert(c echo.Context) error {
	var req upsertRateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	var errs []FieldError
	from, okF := model.ParseCurrency(req.FromCurrency)
	if !okF {
		errs = append(errs, FieldError{Field: "from_currency", Message: "unsupported currency"})
	}
	to, okT := model.ParseCurrency(req.ToCurrency)
	if !okT {
		errs = append(errs, FieldError{Field: "to_currency", Message: "unsupported currency"})
	}
	if okF && okT && from == to {
		errs = append(errs, FieldError{Field: "to_currency", Message: "currencies must differ"})
	}
	rate, okR := parseAmount(req.Rate)
	if !okR || !rate.IsPositive() {
		errs = append(errs, FieldError{Field: "rate", Message: "must be a positive decimal"})
	}
	rateDate := time.Now().UTC()
	if req.RateDate != "" {
		var okD bool
		if rateDate, okD = parseDate(req.RateDate); !okD {
			errs = append(errs, FieldError{Field: "rate_date", Message: "expected YYYY-MM-DD"})
		}
	}
	if len(errs) > 0 {
		return failFields(c, "validation failed", errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rates.Upsert(ctx, from, to, rate, rateDate); err != nil {
		return fail(c, http.StatusInternalServerError, "save rate failed")
	}
	return ok(c, http.StatusOK, "rate saved", echo.Map{
		"from_currency": from,
		"to_currency":   to,
		"rate":          rate,
		"rate_date":     rateDate.Format(dateLayout),
	})
}

// List returns the whole rate table, newest first.
func (h *ExchangeRateHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rates, err := h.Rates.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list rates failed")
	}
	return ok(c, http.StatusOK, "", rates)
}
