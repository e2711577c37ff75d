package rest

import (
	"context"
	"net/http"
	"time"

	"wildNest/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	version string
	checks  map[string]HealthCheck
	timeout time.Duration
}

func NewHealthHandler(version string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		version: version,
		checks:  checks,
		timeout: 3 * time.Second,
	}
}

// Health reports 503 when any dependency check fails.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.Warn("health check failed", "component", name, "error", err)
			components[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}

	return c.JSON(status, map[string]interface{}{
		"status":     state,
		"version":    h.version,
		"components": components,
	})
}
