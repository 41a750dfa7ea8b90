package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "greenpulse/internal/errors"
	"greenpulse/internal/services"
)

// AnalysisHandler serves the analysis read API.
type AnalysisHandler struct {
	service AnalysisServiceInterface
	logger  *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{
		service: service,
		logger:  logger.With(slog.String("component", "analysis_handler")),
	}
}

// Routes returns the analysis routes.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/report", h.GetReport)
	r.Get("/aggregates/annual", h.GetAnnualAggregates)
	r.Get("/correlations", h.GetCorrelations)
	r.Get("/rankings/{metric}", h.GetRankings)
	r.Get("/forecasts", h.GetForecasts)

	return r
}

// GetReport handles GET /api/report.
func (h *AnalysisHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetAnnualAggregates handles GET /api/aggregates/annual.
func (h *AnalysisHandler) GetAnnualAggregates(w http.ResponseWriter, r *http.Request) {
	agg, err := h.service.Aggregates(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, agg)
}

// GetCorrelations handles GET /api/correlations?scope=all|recipients.
func (h *AnalysisHandler) GetCorrelations(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")

	result, err := h.service.Correlations(r.Context(), scope)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// GetRankings handles GET /api/rankings/{metric}?n=10.
func (h *AnalysisHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	metric := chi.URLParam(r, "metric")

	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			render.Render(w, r, apierrors.NewErrorResponse(
				apierrors.ErrValidation("n", "must be a positive integer")))
			return
		}
		n = parsed
	}

	entries, err := h.service.Rankings(r.Context(), metric, n)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"metric":  metric,
		"entries": entries,
	})
}

// GetForecasts handles GET /api/forecasts?horizon=2030.
func (h *AnalysisHandler) GetForecasts(w http.ResponseWriter, r *http.Request) {
	horizon := 0
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			render.Render(w, r, apierrors.NewErrorResponse(
				apierrors.ErrValidation("horizon", "must be a year")))
			return
		}
		horizon = parsed
	}

	trajectories, err := h.service.Forecasts(r.Context(), horizon)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"horizon":      horizon,
		"trajectories": trajectories,
	})
}

// renderError maps service errors to API responses.
func (h *AnalysisHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNoPanelData),
		errors.Is(err, services.ErrNoCorrelations),
		errors.Is(err, services.ErrNoRankings),
		errors.Is(err, services.ErrNoForecasts):
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrNoData))
	case errors.Is(err, services.ErrUnknownMetric):
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.NotFoundError("ranking metric")))
	case errors.Is(err, services.ErrInvalidOptions):
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.New(http.StatusBadRequest, "INVALID_REQUEST", err.Error())))
	default:
		h.logger.ErrorContext(r.Context(), "analysis query failed",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InternalError(err)))
	}
}
