package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, fn func(c echo.Context) error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, fn(c))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestOkEnvelope(t *testing.T) {
	rec, body := record(t, func(c echo.Context) error {
		return ok(c, http.StatusCreated, "client created", echo.Map{"id": "c123-ab"})
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "client created", body["message"])
	data, _ := body["data"].(map[string]any)
	assert.Equal(t, "c123-ab", data["id"])
	_, hasErrors := body["errors"]
	assert.False(t, hasErrors)
}

func TestOkEnvelope_OmitsEmptyFields(t *testing.T) {
	_, body := record(t, func(c echo.Context) error {
		return ok(c, http.StatusOK, "", nil)
	})

	assert.Equal(t, true, body["success"])
	_, hasMessage := body["message"]
	assert.False(t, hasMessage)
	_, hasData := body["data"]
	assert.False(t, hasData)
}

func TestFailEnvelope(t *testing.T) {
	rec, body := record(t, func(c echo.Context) error {
		return fail(c, http.StatusNotFound, "retainer not found")
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "retainer not found", body["message"])
}

func TestFailFieldsEnvelope(t *testing.T) {
	rec, body := record(t, func(c echo.Context) error {
		return failFields(c, "validation failed", []FieldError{
			{Field: "total_amount", Message: "must be a non-negative decimal"},
			{Field: "currency", Message: "unsupported currency"},
		})
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	errs, _ := body["errors"].([]any)
	require.Len(t, errs, 2)
	first, _ := errs[0].(map[string]any)
	assert.Equal(t, "total_amount", first["field"])
}
