package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Dnicola11/repuestos/internal/services"
)

// ImageHandlers exposes part image upload and removal.
type ImageHandlers struct {
	images *services.ImagesService
}

func NewImageHandlers(images *services.ImagesService) *ImageHandlers {
	return &ImageHandlers{images: images}
}

// UploadImageRequest names the image to ingest: a local path or an http(s)
// URL the server can reach.
type UploadImageRequest struct {
	Source string `json:"source"`
}

func (h *ImageHandlers) UploadImage(c echo.Context) error {
	var req UploadImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Source == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Source is required")
	}

	url, err := h.images.UploadImage(c.Request().Context(), req.Source)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"url": url})
}

// DeleteImage always answers 202: removal is fire-and-forget and failures
// are only logged.
func (h *ImageHandlers) DeleteImage(c echo.Context) error {
	url := c.QueryParam("url")
	if url == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url query parameter is required")
	}

	h.images.DeleteImage(c.Request().Context(), url)
	return c.JSON(http.StatusAccepted, map[string]string{"message": "Image removal scheduled"})
}
