package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amkessy/law-practice-api/internal/model"
)

// The onboarding form sends the retainer as flat retainerAmount fields,
// not a nested object.  That body must yield exactly one retainer with
// the defaulted name and one-year period.
func TestCreateClient_FlatRetainerFields(t *testing.T) {
	body := `{"name":"Acme Corp","type":"Corporate","email":"legal@acme.example","phone":"+255700000001",
		"retainerAmount":"10000","retainerCurrency":"USD"}`

	var req createClientReq
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	ret, errs := req.initialRetainer("c123-ab", req.Name, model.CurrencyTZS)
	require.Empty(t, errs)
	require.NotNil(t, ret, "flat retainerAmount fields must produce an initial retainer")

	assert.True(t, ret.TotalAmount.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, model.CurrencyUSD, ret.Currency)
	assert.Equal(t, model.RetainerActive, ret.Status)
	assert.True(t, ret.UtilizedAmount.IsZero())
	assert.Equal(t, "Acme Corp - Main Retainer", ret.Name)
	assert.Equal(t, 365*24*time.Hour, ret.EndDate.Sub(ret.StartDate))
}

func TestCreateClient_FlatRetainerExplicitDates(t *testing.T) {
	start := "2026-02-01"
	end := "2026-08-01"
	hours := "120"
	req := createClientReq{
		Name:               "Kili Holdings",
		RetainerAmount:     "2500000",
		RetainerStartDate:  &start,
		RetainerExpiryDate: &end,
		HoursIncluded:      &hours,
	}

	ret, errs := req.initialRetainer("c456-cd", req.Name, model.CurrencyTZS)
	require.Empty(t, errs)
	require.NotNil(t, ret)

	// Currency falls back to the client's when retainerCurrency is absent.
	assert.Equal(t, model.CurrencyTZS, ret.Currency)
	assert.Equal(t, "2026-02-01", ret.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2026-08-01", ret.EndDate.Format("2006-01-02"))
	require.NotNil(t, ret.TotalHoursAllocated)
	assert.Equal(t, "120", ret.TotalHoursAllocated.String())
}

func TestCreateClient_FlatRetainerValidation(t *testing.T) {
	bad := "2026-01-01"
	req := createClientReq{
		Name:               "Bad Inc",
		RetainerAmount:     "-5",
		RetainerCurrency:   "BTC",
		RetainerStartDate:  &bad,
		RetainerExpiryDate: &bad,
	}
	req.RetainerExpiryDate = strPtr("2025-01-01") // before the start

	_, errs := req.initialRetainer("c1", req.Name, model.CurrencyTZS)
	fieldsSeen := map[string]bool{}
	for _, e := range errs {
		fieldsSeen[e.Field] = true
	}
	assert.True(t, fieldsSeen["retainerAmount"])
	assert.True(t, fieldsSeen["retainerCurrency"])
	assert.True(t, fieldsSeen["retainerExpiryDate"])
}

func TestCreateClient_NestedRetainerStillAccepted(t *testing.T) {
	req := createClientReq{
		Name: "Nested Ltd",
		Retainer: &createRetainerReq{
			Name:        "General Counsel 2026",
			TotalAmount: "5000",
			Currency:    "USD",
			StartDate:   "2026-01-01",
			EndDate:     "2026-12-31",
		},
	}

	ret, errs := req.initialRetainer("c789-ef", req.Name, model.CurrencyTZS)
	require.Empty(t, errs)
	require.NotNil(t, ret)
	assert.Equal(t, "General Counsel 2026", ret.Name)
}

func TestCreateClient_NoRetainerRequested(t *testing.T) {
	req := createClientReq{Name: "Plain Client"}
	ret, errs := req.initialRetainer("c1", req.Name, model.CurrencyTZS)
	assert.Nil(t, ret)
	assert.Empty(t, errs)
}

func TestCreateClient_PhoneRequired(t *testing.T) {
	e := echo.New()
	body := `{"name":"No Phone LLC","type":"Corporate","email":"np@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/clients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := &ClientHandler{Base: model.CurrencyTZS}
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"phone"`)
}

func strPtr(s string) *string { return &s }
