package router

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/amkessy/law-practice-api/internal/handler"
)

// Client updates are accepted under both verbs: PATCH is the documented
// method, PUT is kept for callers that send full replacements.
func TestRegisterClients_UpdateMethods(t *testing.T) {
	e := echo.New()
	RegisterClients(e.Group("/api"), &handler.ClientHandler{})

	methods := map[string]bool{}
	for _, r := range e.Routes() {
		if r.Path == "/api/clients/:id" {
			methods[r.Method] = true
		}
	}

	assert.True(t, methods[http.MethodGet], "GET /api/clients/:id")
	assert.True(t, methods[http.MethodPatch], "PATCH /api/clients/:id")
	assert.True(t, methods[http.MethodPut], "PUT /api/clients/:id")
	assert.True(t, methods[http.MethodDelete], "DELETE /api/clients/:id")
}
