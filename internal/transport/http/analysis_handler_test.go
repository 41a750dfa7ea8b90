package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"greenpulse/internal/analytics"
	"greenpulse/internal/services"
)

type mockAnalysisService struct {
	mock.Mock
}

func (m *mockAnalysisService) Report(ctx context.Context) (*services.Report, error) {
	args := m.Called(ctx)
	if report := args.Get(0); report != nil {
		return report.(*services.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalysisService) Aggregates(ctx context.Context) (*services.AnnualAggregates, error) {
	args := m.Called(ctx)
	if agg := args.Get(0); agg != nil {
		return agg.(*services.AnnualAggregates), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalysisService) Correlations(ctx context.Context, scope string) (*services.CorrelationResult, error) {
	args := m.Called(ctx, scope)
	if result := args.Get(0); result != nil {
		return result.(*services.CorrelationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalysisService) Rankings(ctx context.Context, metric string, n int) ([]analytics.Entry, error) {
	args := m.Called(ctx, metric, n)
	if entries := args.Get(0); entries != nil {
		return entries.([]analytics.Entry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalysisService) Forecasts(ctx context.Context, horizon int) ([]analytics.Trajectory, error) {
	args := m.Called(ctx, horizon)
	if trajectories := args.Get(0); trajectories != nil {
		return trajectories.([]analytics.Trajectory), args.Error(1)
	}
	return nil, args.Error(1)
}

func setupRouter(svc AnalysisServiceInterface) chi.Router {
	h := NewAnalysisHandler(svc, nil)
	r := chi.NewRouter()
	r.Mount("/api", h.Routes())
	return r
}

func TestGetRankings(t *testing.T) {
	svc := new(mockAnalysisService)
	svc.On("Rankings", mock.Anything, "movers", 3).
		Return([]analytics.Entry{{Name: "A", Value: 40}}, nil)

	rec := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rankings/movers?n=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Metric  string            `json:"metric"`
		Entries []analytics.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "movers", body.Metric)
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "A", body.Entries[0].Name)
	svc.AssertExpectations(t)
}

func TestGetRankingsInvalidN(t *testing.T) {
	svc := new(mockAnalysisService)

	rec := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rankings/movers?n=zero", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	svc.AssertNotCalled(t, "Rankings")
}

func TestGetRankingsUnknownMetric(t *testing.T) {
	svc := new(mockAnalysisService)
	svc.On("Rankings", mock.Anything, "volume", 0).
		Return(nil, services.ErrUnknownMetric)

	rec := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rankings/volume", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestGetCorrelations(t *testing.T) {
	svc := new(mockAnalysisService)
	svc.On("Correlations", mock.Anything, "recipients").
		Return(&services.CorrelationResult{
			Scope:            "recipients",
			AidEffectiveness: &services.AidEffectiveness{RecipientsCorr: 0.8, Recipients: 42},
		}, nil)

	rec := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/correlations?scope=recipients", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var result services.CorrelationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "recipients", result.Scope)
	require.NotNil(t, result.AidEffectiveness)
	assert.Equal(t, 42, result.AidEffectiveness.Recipients)
}

func TestGetCorrelationsNoData(t *testing.T) {
	svc := new(mockAnalysisService)
	svc.On("Correlations", mock.Anything, "").
		Return(nil, services.ErrNoPanelData)

	rec := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/correlations", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_DATA")
}

func TestGetForecasts(t *testing.T) {
	svc := new(mockAnalysisService)
	svc.On("Forecasts", mock.Anything, 2040).
		Return([]analytics.Trajectory{{Entity: "A"}}, nil)

	rec := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forecasts?horizon=2040", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"horizon":2040`)
}

func TestGetForecastsBadHorizon(t *testing.T) {
	svc := new(mockAnalysisService)

	rec := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forecasts?horizon=soon", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Forecasts")
}

func TestGetAnnualAggregates(t *testing.T) {
	svc := new(mockAnalysisService)
	svc.On("Aggregates", mock.Anything).
		Return(&services.AnnualAggregates{
			FundingTransition: []analytics.GroupAggregate{{Key: "2000", Year: 2000}},
		}, nil)

	rec := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/aggregates/annual", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "funding_transition")
}

func TestHealthCheck(t *testing.T) {
	svc := new(mockAnalysisService)
	svc.On("Report", mock.Anything).Return(nil, services.ErrNoPanelData)

	h := NewHealthHandler(svc, nil, "1.0.0")
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["data_loaded"])
}
