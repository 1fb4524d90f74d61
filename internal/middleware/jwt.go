package middleware // reusable HTTP middleware shared by the admin routes

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AdminAuth returns an Echo middleware that validates a Bearer admin token
// and injects the admin's ID and username into the request context.  The
// secret must match the one used when issuing tokens at /admin/login.
// Handlers behind this middleware can read `c.Get("admin_id")` and
// `c.Get("admin_username")`.
func AdminAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "No token provided"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid or expired token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid or expired token"})
			}
			c.Set("admin_id", claims["sub"])
			c.Set("admin_username", claims["username"])
			return next(c)
		}
	}
}
