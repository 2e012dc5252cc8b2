package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amkessy/law-practice-api/internal/model"
)

// RequireRole restricts a route to the given roles.  Superadmin passes
// every check.  JWTAuth must run first so the role claim is in context.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleOf(c)
			if role != model.RoleSuperAdmin && !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false, "message": "insufficient permissions"})
			}
			return next(c)
		}
	}
}
