package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Dnicola11/repuestos/internal/analytics"
	"github.com/Dnicola11/repuestos/internal/models"
	"github.com/Dnicola11/repuestos/internal/services"
	"github.com/Dnicola11/repuestos/internal/store"
)

// PartHandlers exposes the part actions and the derived views over HTTP.
// Reads refresh the client state first and then answer from it, so responses
// always reflect the same snapshot the derived views are computed from.
type PartHandlers struct {
	parts *services.PartsService
	state *store.Store
}

func NewPartHandlers(parts *services.PartsService, state *store.Store) *PartHandlers {
	return &PartHandlers{parts: parts, state: state}
}

// ListParts refreshes the part list and returns it filtered by the query
// parameters. An empty or "Todas" category matches every part.
func (h *PartHandlers) ListParts(c echo.Context) error {
	var filters models.Filters
	if err := c.Bind(&filters); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	if err := h.parts.ListParts(c.Request().Context()); err != nil {
		return respondError(c, err)
	}

	parts := analytics.FilterParts(h.state.Parts(), filters)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"parts": parts,
		"count": len(parts),
	})
}

func (h *PartHandlers) CreatePart(c echo.Context) error {
	var draft models.PartDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if draft.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	part, err := h.parts.CreatePart(c.Request().Context(), draft)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, part)
}

func (h *PartHandlers) UpdatePart(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Part ID is required")
	}

	// An update carrying no fields is still legal: it only advances the
	// part's modification time.
	var fields models.PartUpdate
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.parts.UpdatePart(c.Request().Context(), id, fields); err != nil {
		return respondError(c, err)
	}

	if part, ok := h.state.PartByID(id); ok {
		return c.JSON(http.StatusOK, part)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Part updated"})
}

func (h *PartHandlers) DeletePart(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Part ID is required")
	}

	if err := h.parts.DeletePart(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Part deleted"})
}

// LowStockParts returns the parts at or below their own minimum stock level.
func (h *PartHandlers) LowStockParts(c echo.Context) error {
	parts := analytics.LowStockParts(h.state.Parts())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"parts": parts,
		"count": len(parts),
	})
}

// Statistics aggregates the current part list; query parameters narrow the
// set before aggregation.
func (h *PartHandlers) Statistics(c echo.Context) error {
	var filters models.Filters
	if err := c.Bind(&filters); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	stats := analytics.ComputeStatistics(analytics.FilterParts(h.state.Parts(), filters))
	return c.JSON(http.StatusOK, stats)
}
