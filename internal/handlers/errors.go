package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Dnicola11/repuestos/internal/backend"
	"github.com/Dnicola11/repuestos/internal/common"
)

// respondError maps a failed action to the standard error JSON. The message
// is the same user-facing text the action stored in the state's error slot.
func respondError(c echo.Context, err error) error {
	kind := backend.KindOf(err)
	return c.JSON(statusFor(kind), common.NewErrorResponse(kind.String(), err.Error()))
}

func statusFor(kind backend.Kind) int {
	switch kind {
	case backend.KindInvalidCredentials, backend.KindUnauthenticated:
		return http.StatusUnauthorized
	case backend.KindPermissionDenied:
		return http.StatusForbidden
	case backend.KindUserNotFound, backend.KindNotFound:
		return http.StatusNotFound
	case backend.KindEmailInUse:
		return http.StatusConflict
	case backend.KindWeakPassword, backend.KindInvalidEmail, backend.KindInvalidArgument, backend.KindInvalidFormat:
		return http.StatusBadRequest
	case backend.KindRateLimited:
		return http.StatusTooManyRequests
	case backend.KindTimeout:
		return http.StatusGatewayTimeout
	case backend.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
