// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	engine  Predictor
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(engine Predictor, version string) HealthHandler {
	return &HealthHandlerImpl{
		engine:  engine,
		version: version,
	}
}

// HandleHealth returns server health status and whether the inference
// engine's models have been loaded.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"models_loaded": h.engine.Loaded(),
		"version":       h.version,
	})
}
