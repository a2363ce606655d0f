package common

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Dnicola11/repuestos/internal/models"
)

type contextKey string

const UserKey contextKey = "user"

// ErrorResponse is the JSON shape every error reply uses.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewErrorResponse(code, message string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	return &resp
}

// SendUnauthorizedError sends a 401 with the standard error shape.
func SendUnauthorizedError(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, NewErrorResponse("UNAUTHORIZED", message))
}

// WithUser stores the authenticated user on the request context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// GetUserFromContext extracts the authenticated user from the request context.
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok && user != nil
}
