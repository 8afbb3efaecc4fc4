// Package handlers implements the HTTP command surface. Handlers are thin
// request/response adapters over the registry and engine; all stock logic
// lives behind those boundaries.
package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"stockwatch/internal/engine"
	"stockwatch/internal/registry"
	"stockwatch/internal/scrape"
)

// ProductHandler handles product registration, listing, removal, and
// on-demand stock snapshots.
type ProductHandler struct {
	registry *registry.Registry
	engine   *engine.Engine
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(reg *registry.Registry, eng *engine.Engine) *ProductHandler {
	return &ProductHandler{registry: reg, engine: eng}
}

// RegisterRequest is the body for POST /api/v1/products.
type RegisterRequest struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// List handles GET /api/v1/products. With ?custom=true only
// runtime-registered products are returned.
func (h *ProductHandler) List(c echo.Context) error {
	if c.QueryParam("custom") == "true" {
		return c.JSON(http.StatusOK, h.registry.ListCustom())
	}
	return c.JSON(http.StatusOK, h.registry.List())
}

// Get handles GET /api/v1/products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
	p, ok := h.registry.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "product not found",
		})
	}
	return c.JSON(http.StatusOK, p)
}

// Register handles POST /api/v1/products.
func (h *ProductHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "url is required",
		})
	}

	p, err := h.engine.Register(c.Request().Context(), req.URL, req.Name)
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Remove handles DELETE /api/v1/products/:id. Only custom products are
// removable; built-ins report not found.
func (h *ProductHandler) Remove(c echo.Context) error {
	if err := h.registry.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return productError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stock handles GET /api/v1/products/:id/stock. The snapshot is live and
// never consults or mutates stored diff state.
func (h *ProductHandler) Stock(c echo.Context) error {
	report, err := h.engine.SnapshotProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// StockByURL handles GET /api/v1/stock?url=. It works for any supported
// URL, registered or not.
func (h *ProductHandler) StockByURL(c echo.Context) error {
	url := c.QueryParam("url")
	if url == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "url query parameter is required",
		})
	}

	report, err := h.engine.Snapshot(c.Request().Context(), url)
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// productError maps engine and registry errors to HTTP responses.
func productError(c echo.Context, err error) error {
	var fetchErr *scrape.FetchError

	switch {
	case errors.Is(err, registry.ErrDuplicateURL):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, registry.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, scrape.ErrUnsupportedSite):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &fetchErr):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
