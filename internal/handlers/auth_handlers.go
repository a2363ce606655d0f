package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Dnicola11/repuestos/internal/common"
	"github.com/Dnicola11/repuestos/internal/services"
)

// AuthHandlers exposes the session actions over HTTP.
type AuthHandlers struct {
	sessions *services.SessionService
	auth     services.AuthService
}

func NewAuthHandlers(sessions *services.SessionService, auth services.AuthService) *AuthHandlers {
	return &AuthHandlers{sessions: sessions, auth: auth}
}

// CredentialsRequest is the sign-in and registration payload.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandlers) SignIn(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.sessions.SignIn(c.Request().Context(), req.Email, req.Password); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": h.auth.SessionToken(),
		"user":  h.auth.CurrentUser(),
	})
}

func (h *AuthHandlers) Register(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.sessions.Register(c.Request().Context(), req.Email, req.Password); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"token": h.auth.SessionToken(),
		"user":  h.auth.CurrentUser(),
	})
}

// Me returns the user the bearer token resolved to, straight from the
// request context the JWT middleware populated.
func (h *AuthHandlers) Me(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c, "No authenticated user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandlers) SignOut(c echo.Context) error {
	if err := h.sessions.SignOut(c.Request().Context()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Signed out"})
}

// PasswordResetRequest carries the email a reset token should be issued for.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandlers) RequestPasswordReset(c echo.Context) error {
	var req PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.sessions.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password reset requested"})
}
