package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Dnicola11/repuestos/internal/common"
	"github.com/Dnicola11/repuestos/internal/services"
)

// JWTMiddleware validates the bearer token against the auth adapter and puts
// the resolved user on the request context. Revoked sessions fail even when
// the token itself is still within its validity window.
func JWTMiddleware(auth services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return common.SendUnauthorizedError(c, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return common.SendUnauthorizedError(c, "Invalid token format")
			}

			user, err := auth.ValidateToken(c.Request().Context(), tokenString)
			if err != nil {
				return common.SendUnauthorizedError(c, "Invalid or expired token")
			}

			ctx := common.WithUser(c.Request().Context(), user)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
