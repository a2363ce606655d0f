package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Dnicola11/repuestos/internal/store"
)

// StateHandlers serves read-only snapshots of the client state.
type StateHandlers struct {
	state *store.Store
}

func NewStateHandlers(state *store.Store) *StateHandlers {
	return &StateHandlers{state: state}
}

func (h *StateHandlers) GetState(c echo.Context) error {
	return c.JSON(http.StatusOK, h.state.Snapshot())
}
