package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"greenpulse/internal/services"
)

// HealthHandler serves liveness and readiness information.
type HealthHandler struct {
	service AnalysisServiceInterface
	logger  *slog.Logger
	version string
	started time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(service AnalysisServiceInterface, logger *slog.Logger, version string) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
		version: version,
		started: time.Now(),
	}
}

// HealthCheck handles GET /api/health. The server is healthy as soon as
// it accepts requests; data availability is reported separately so load
// balancers and dashboards can distinguish the two.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	dataLoaded := true
	if _, err := h.service.Report(r.Context()); err != nil {
		if !errors.Is(err, services.ErrNoPanelData) {
			h.logger.ErrorContext(r.Context(), "health data probe failed",
				slog.String("error", err.Error()))
		}
		dataLoaded = false
	}

	render.JSON(w, r, map[string]interface{}{
		"status":      "ok",
		"version":     h.version,
		"uptime":      time.Since(h.started).String(),
		"data_loaded": dataLoaded,
	})
}
