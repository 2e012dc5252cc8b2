package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/amkessy/law-practice-api/internal/model"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// JWTAuth validates a Bearer access token and stores the user id and role
// claims in the request context.  Protected routes read them back via
// UserID(c) and RoleOf(c).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "message": "invalid or expired token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "message": "invalid claims"})
			}

			// sub is issued as a numeric user id; JSON decoding yields float64.
			sub, ok := claims["sub"].(float64)
			if !ok || sub < 1 {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "message": "invalid subject"})
			}
			role, _ := claims["role"].(string)
			if !model.Role(role).Valid() {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "message": "invalid role"})
			}

			c.Set(CtxUserID, uint64(sub))
			c.Set(CtxRole, model.Role(role))
			return next(c)
		}
	}
}

// UserID returns the authenticated user's id, or 0 when the request is
// unauthenticated.
func UserID(c echo.Context) uint64 {
	id, _ := c.Get(CtxUserID).(uint64)
	return id
}

// RoleOf returns the authenticated user's role, or the empty role.
func RoleOf(c echo.Context) model.Role {
	r, _ := c.Get(CtxRole).(model.Role)
	return r
}
