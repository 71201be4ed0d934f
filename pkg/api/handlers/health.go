package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/leadcrm/pkg/models"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the state of the backing services
type HealthHandler struct {
	services map[string]Pinger
}

// NewHealthHandler creates a health handler over the named services
func NewHealthHandler(services map[string]Pinger) *HealthHandler {
	return &HealthHandler{services: services}
}

// Root godoc
// @Summary API banner
// @Tags Health
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Router / [get]
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "leadcrm API"})
}

// Health godoc
// @Summary Health check
// @Description ok when every backing service answers, degraded otherwise
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	resp := models.HealthResponse{Status: "ok", Services: make(map[string]string, len(h.services))}
	for name, svc := range h.services {
		if err := svc.Ping(ctx); err != nil {
			resp.Services[name] = "down"
			resp.Status = "degraded"
			continue
		}
		resp.Services[name] = "up"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, resp)
}
