package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amkessy/law-practice-api/internal/model"
)

func invokeWithRole(t *testing.T, role model.Role, allowed ...model.Role) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if role != "" {
		c.Set(CtxRole, role)
	}

	reached := false
	h := RequireRole(allowed...)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, reached
}

func TestRequireRole_AllowedRolePasses(t *testing.T) {
	rec, reached := invokeWithRole(t, model.RoleAccountant, model.RoleAccountant, model.RolePartner)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestRequireRole_DisallowedRoleRejected(t *testing.T) {
	rec, reached := invokeWithRole(t, model.RoleParalegal, model.RoleAccountant)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), "insufficient permissions")
}

func TestRequireRole_SuperadminBypassesEveryCheck(t *testing.T) {
	rec, reached := invokeWithRole(t, model.RoleSuperAdmin, model.RoleAccountant)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestRequireRole_MissingRoleRejected(t *testing.T) {
	rec, reached := invokeWithRole(t, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}
