package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stockwatch/internal/engine"
)

// OperatorHeader carries the caller identity for privileged actions.
const OperatorHeader = "X-Operator-Id"

// ResyncHandler exposes the privileged resync action: clear all baselines
// and re-poll immediately without notifying.
type ResyncHandler struct {
	engine     *engine.Engine
	operatorID string
}

// NewResyncHandler creates a ResyncHandler gated on the given operator
// identity.
func NewResyncHandler(eng *engine.Engine, operatorID string) *ResyncHandler {
	return &ResyncHandler{engine: eng, operatorID: operatorID}
}

// Resync handles POST /api/v1/resync. Callers must present the configured
// operator identity; with no operator configured the action is disabled.
func (h *ResyncHandler) Resync(c echo.Context) error {
	if h.operatorID == "" || c.Request().Header.Get(OperatorHeader) != h.operatorID {
		return c.JSON(http.StatusForbidden, map[string]string{
			"error": "operator identity required",
		})
	}

	if err := h.engine.Resync(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "resync failed: " + err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "resynced"})
}
