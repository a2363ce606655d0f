package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Dnicola11/repuestos/internal/models"
	"github.com/Dnicola11/repuestos/internal/services"
	"github.com/Dnicola11/repuestos/internal/store"
)

// CategoryHandlers exposes the category actions over HTTP.
type CategoryHandlers struct {
	categories *services.CategoriesService
	state      *store.Store
}

func NewCategoryHandlers(categories *services.CategoriesService, state *store.Store) *CategoryHandlers {
	return &CategoryHandlers{categories: categories, state: state}
}

func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	if err := h.categories.ListCategories(c.Request().Context()); err != nil {
		return respondError(c, err)
	}

	categories := h.state.Categories()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	var draft models.CategoryDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if draft.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	category, err := h.categories.CreateCategory(c.Request().Context(), draft)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Category ID is required")
	}

	var fields models.CategoryUpdate
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.categories.UpdateCategory(c.Request().Context(), id, fields); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Category updated"})
}

func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Category ID is required")
	}

	if err := h.categories.DeleteCategory(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Category deleted"})
}
