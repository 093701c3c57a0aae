package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/tomtap1997/dashbord-tr/internal/services"
)

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service *services.HealthService
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service *services.HealthService, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /healthz
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.HealthCheck(r.Context()))
}

// ReadinessCheck handles GET /readyz, answering 503 when not ready
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := h.service.ReadinessCheck(r.Context())
	if status.Status != "ready" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.LivenessCheck(r.Context()))
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Version())
}

// Detailed handles GET /api/health
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.GetDetailedHealth(r.Context()))
}
