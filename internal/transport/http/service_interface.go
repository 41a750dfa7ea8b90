package http

import (
	"context"

	"greenpulse/internal/analytics"
	"greenpulse/internal/services"
)

// AnalysisServiceInterface defines the read queries the API serves.
type AnalysisServiceInterface interface {
	Report(ctx context.Context) (*services.Report, error)
	Aggregates(ctx context.Context) (*services.AnnualAggregates, error)
	Correlations(ctx context.Context, scope string) (*services.CorrelationResult, error)
	Rankings(ctx context.Context, metric string, n int) ([]analytics.Entry, error)
	Forecasts(ctx context.Context, horizon int) ([]analytics.Trajectory, error)
}
