package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refreshedService(t *testing.T) *AnalysisService {
	t.Helper()
	svc := NewAnalysisService(nil, testOptions())
	require.NoError(t, svc.Refresh(context.Background(), testPanel()))
	return svc
}

func TestAnalysisServiceBeforeRefresh(t *testing.T) {
	svc := NewAnalysisService(nil, testOptions())

	_, err := svc.Report(context.Background())
	assert.ErrorIs(t, err, ErrNoPanelData)

	_, err = svc.Rankings(context.Background(), MetricMovers, 5)
	assert.ErrorIs(t, err, ErrNoPanelData)
}

func TestAnalysisServiceAggregates(t *testing.T) {
	svc := refreshedService(t)

	agg, err := svc.Aggregates(context.Background())
	require.NoError(t, err)
	assert.Len(t, agg.FundingTransition, 5)
	assert.Len(t, agg.EnergyMix.Annual, 5)
	assert.False(t, agg.GlobalDivergence.Empty())
}

func TestAnalysisServiceCorrelations(t *testing.T) {
	svc := refreshedService(t)
	ctx := context.Background()

	all, err := svc.Correlations(ctx, ScopeAll)
	require.NoError(t, err)
	assert.Equal(t, ScopeAll, all.Scope)
	assert.False(t, all.Matrix.Empty())
	assert.Nil(t, all.AidEffectiveness)

	// Empty scope defaults to all countries.
	def, err := svc.Correlations(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, ScopeAll, def.Scope)

	recipients, err := svc.Correlations(ctx, ScopeRecipients)
	require.NoError(t, err)
	require.NotNil(t, recipients.AidEffectiveness)
	assert.Equal(t, 5, recipients.AidEffectiveness.Recipients)

	_, err = svc.Correlations(ctx, "bogus")
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestAnalysisServiceRankings(t *testing.T) {
	svc := refreshedService(t)
	ctx := context.Background()

	movers, err := svc.Rankings(ctx, MetricMovers, 0)
	require.NoError(t, err)
	assert.Equal(t, "A", movers[0].Name)

	capped, err := svc.Rankings(ctx, MetricMovers, 1)
	require.NoError(t, err)
	assert.Len(t, capped, 1)

	recipients, err := svc.Rankings(ctx, MetricAidRecipients, 10)
	require.NoError(t, err)
	assert.Len(t, recipients, 1)

	_, err = svc.Rankings(ctx, "volume", 5)
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestAnalysisServiceForecasts(t *testing.T) {
	svc := refreshedService(t)
	ctx := context.Background()

	configured, err := svc.Forecasts(ctx, 0)
	require.NoError(t, err)
	require.NotEmpty(t, configured)
	assert.Equal(t, 2030, configured[0].Projected[len(configured[0].Projected)-1].Year)

	extended, err := svc.Forecasts(ctx, 2040)
	require.NoError(t, err)
	require.NotEmpty(t, extended)
	assert.Equal(t, 2040, extended[0].Projected[len(extended[0].Projected)-1].Year)
	for _, traj := range extended {
		for _, pt := range traj.Projected {
			assert.LessOrEqual(t, pt.Value, 100.0)
		}
	}

	_, err = svc.Forecasts(ctx, 1990)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}
