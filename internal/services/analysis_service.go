package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"greenpulse/internal/analytics"
	"greenpulse/internal/config"
	"greenpulse/internal/panel"
)

// Ranking metric names accepted by the rankings endpoint.
const (
	MetricAidRecipients = "aid-recipients"
	MetricMovers        = "movers"
)

// CorrelationScopes accepted by the correlations endpoint.
const (
	ScopeAll        = "all"
	ScopeRecipients = "recipients"
)

// CorrelationResult is the correlations endpoint payload. Matrix is set
// for the all-countries scope; the aid/capacity pair for the recipients
// scope.
type CorrelationResult struct {
	Scope            string                      `json:"scope"`
	Matrix           analytics.CorrelationMatrix `json:"matrix,omitempty"`
	AidEffectiveness *AidEffectiveness           `json:"aid_effectiveness,omitempty"`
}

// AnnualAggregates is the aggregates endpoint payload: the year-indexed
// series the dashboard charts are drawn from.
type AnnualAggregates struct {
	FundingTransition []analytics.GroupAggregate `json:"funding_transition"`
	EnergyMix         EnergyMix                  `json:"energy_mix"`
	GlobalDivergence  Divergence                 `json:"global_divergence"`
}

// AnalysisService answers read queries against a report built once from
// the loaded panel. The panel is retained so horizon overrides can refit
// forecasts without rebuilding the whole bundle.
type AnalysisService struct {
	logger  *slog.Logger
	builder *ReportService
	opts    config.AnalysisConfig

	mu     sync.RWMutex
	source panel.Panel
	report *Report
}

// NewAnalysisService creates the query service. Call Refresh before
// serving.
func NewAnalysisService(logger *slog.Logger, opts config.AnalysisConfig) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		logger:  logger.With(slog.String("component", "analysis_service")),
		builder: NewReportService(logger),
		opts:    opts,
	}
}

// Refresh rebuilds the report from a freshly loaded panel.
func (s *AnalysisService) Refresh(ctx context.Context, p panel.Panel) error {
	report, err := s.builder.Build(ctx, p, s.opts)
	if err != nil {
		return fmt.Errorf("rebuild report: %w", err)
	}

	s.mu.Lock()
	s.source = p
	s.report = report
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "analysis refreshed",
		"run_id", report.RunID,
		"observations", len(p),
		"has_data", report.HasData(),
	)
	return nil
}

// Report returns the current report bundle.
func (s *AnalysisService) Report(ctx context.Context) (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil || !s.report.HasData() {
		return nil, ErrNoPanelData
	}
	return s.report, nil
}

// Aggregates returns the annual series sections.
func (s *AnalysisService) Aggregates(ctx context.Context) (*AnnualAggregates, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	return &AnnualAggregates{
		FundingTransition: report.FundingTransition,
		EnergyMix:         report.EnergyMix,
		GlobalDivergence:  report.GlobalDivergence,
	}, nil
}

// Correlations returns the correlation section for a scope.
func (s *AnalysisService) Correlations(ctx context.Context, scope string) (*CorrelationResult, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}

	switch scope {
	case ScopeAll, "":
		if report.DriverCorrelations.Empty() {
			return nil, ErrNoCorrelations
		}
		return &CorrelationResult{Scope: ScopeAll, Matrix: report.DriverCorrelations}, nil
	case ScopeRecipients:
		ae := report.AidEffectiveness
		if ae.Recipients == 0 {
			return nil, ErrNoCorrelations
		}
		return &CorrelationResult{Scope: ScopeRecipients, AidEffectiveness: &ae}, nil
	default:
		return nil, fmt.Errorf("%w: scope %q", ErrInvalidOptions, scope)
	}
}

// Rankings returns the top n entries of a ranking metric. n <= 0 falls
// back to the configured default for that metric.
func (s *AnalysisService) Rankings(ctx context.Context, metric string, n int) ([]analytics.Entry, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}

	var entries []analytics.Entry
	switch metric {
	case MetricAidRecipients:
		entries = report.TopAidRecipients
		if n <= 0 {
			n = s.opts.TopRecipients
		}
	case MetricMovers:
		entries = report.TopMovers
		if n <= 0 {
			n = s.opts.TopMovers
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}

	if len(entries) == 0 {
		return nil, ErrNoRankings
	}
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

// Forecasts returns the forecast trajectories. A horizon of 0 uses the
// configured horizon; any other value refits against the retained panel.
func (s *AnalysisService) Forecasts(ctx context.Context, horizon int) ([]analytics.Trajectory, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}

	if horizon == 0 || horizon == s.opts.HorizonYear {
		if len(report.Forecasts) == 0 {
			return nil, ErrNoForecasts
		}
		return report.Forecasts, nil
	}
	if horizon < s.opts.CutoffYear {
		return nil, fmt.Errorf("%w: horizon %d before cutoff %d", ErrInvalidOptions, horizon, s.opts.CutoffYear)
	}

	s.mu.RLock()
	windowed := s.source.Window(s.opts.CutoffYear)
	s.mu.RUnlock()

	var trajectories []analytics.Trajectory
	for _, existing := range report.Forecasts {
		series := analytics.SeriesOf(windowed, existing.Entity, panel.RenewableShare)
		traj, err := analytics.Forecast(existing.Entity, series, horizon)
		if err != nil {
			s.logger.WarnContext(ctx, "entity excluded from forecast",
				"country", existing.Entity, "error", err)
			continue
		}
		trajectories = append(trajectories, traj)
	}
	if len(trajectories) == 0 {
		return nil, ErrNoForecasts
	}
	return trajectories, nil
}
