// Package handler implements the HTTP layer.  Every response uses a
// single envelope shape so clients can branch on the success flag:
//
//	{ "success": true,  "message": "...", "data": {...} }
//	{ "success": false, "message": "...", "errors": [{"field": "...", "message": "..."}] }
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// FieldError points a validation failure at the offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func ok(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Success: false, Message: message})
}

func failFields(c echo.Context, message string, errs []FieldError) error {
	return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: message, Errors: errs})
}
