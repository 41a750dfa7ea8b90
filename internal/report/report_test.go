package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenpulse/internal/analytics"
	"greenpulse/internal/config"
	"greenpulse/internal/panel"
	"greenpulse/internal/services"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func fixturePanel() panel.Panel {
	var p panel.Panel
	for i, year := range []int{2000, 2005, 2010, 2015, 2019} {
		step := float64(i)

		a := panel.NewObservation("A", year)
		a.IncomeGroup = "Low"
		a.SetValue(panel.RenewableShare, 10+step*10)
		a.SetValue(panel.FinancialFlows, 100+step*100)
		a.SetValue(panel.RenewableCapacity, 1+step)
		a.SetValue(panel.GDPCapita, 1000+step*100)
		a.SetValue(panel.CO2TotalKt, 500+step*50)
		p = append(p, a)

		b := panel.NewObservation("B", year)
		b.IncomeGroup = "High"
		b.SetValue(panel.RenewableShare, 5+step)
		p = append(p, b)
	}
	return p
}

func fixtureReport() *services.Report {
	r := &services.Report{
		RunID:       "test-run",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		CutoffYear:  2019,
		BaseYear:    2000,
		HorizonYear: 2030,
		EDA: services.EDASummary{
			Countries:   2,
			WindowStart: 2000,
			WindowEnd:   2019,
			TotalAid:    1500,
		},
		FundingTransition: []analytics.GroupAggregate{
			{Key: "2000", Year: 2000, Values: map[panel.Indicator]float64{
				panel.FinancialFlows:    100,
				panel.RenewableCapacity: 1,
			}},
			{Key: "2019", Year: 2019, Values: map[panel.Indicator]float64{
				panel.FinancialFlows:    500,
				panel.RenewableCapacity: 5,
			}},
		},
		TopAidRecipients: []analytics.Entry{{Name: "A", Value: 1500}},
		TopMovers:        []analytics.Entry{{Name: "A", Value: 40}, {Name: "B", Value: 4}},
		IncomeDisparity: []services.IncomeBand{
			{Group: "Low", MeanShare: 50, MedianShare: 50},
			{Group: "High", MeanShare: 9, MedianShare: 9},
		},
		Forecasts: []analytics.Trajectory{{
			Entity:    "A",
			History:   []analytics.Point{{Year: 2015, Value: 40}, {Year: 2019, Value: 50}},
			Projected: []analytics.Point{{Year: 2019, Value: 49.5}, {Year: 2030, Value: 72}},
		}},
	}
	return r
}

func TestChartRendererProducesPNG(t *testing.T) {
	r := NewChartRenderer()
	report := fixtureReport()

	tests := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{"funding transition", func() ([]byte, error) { return r.FundingTransition(report.FundingTransition) }},
		{"ranking bar", func() ([]byte, error) { return r.RankingBar("Top Movers", report.TopMovers) }},
		{"forecast lines", func() ([]byte, error) { return r.ForecastLines(report.Forecasts) }},
		{"divergence", func() ([]byte, error) {
			return r.Divergence(services.Divergence{
				Years:    []int{2000, 2019},
				GDPIndex: []float64{100, 150},
				CO2Index: []float64{100, 120},
			})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			png, err := tt.render()
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(png, pngMagic), "expected PNG output")
		})
	}
}

func TestChartRendererEmptySeries(t *testing.T) {
	r := NewChartRenderer()

	_, err := r.FundingTransition(nil)
	assert.ErrorIs(t, err, ErrNoSeries)

	_, err = r.RankingBar("x", nil)
	assert.ErrorIs(t, err, ErrNoSeries)
}

func TestShareHistogram(t *testing.T) {
	png, err := ShareHistogram(fixturePanel(), 2019)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	_, err = ShareHistogram(fixturePanel(), 1950)
	assert.ErrorIs(t, err, ErrNoSeries)
}

func TestDecouplingScatter(t *testing.T) {
	png, err := DecouplingScatter(fixturePanel(), 2019)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	_, err = DecouplingScatter(fixturePanel(), 1950)
	assert.ErrorIs(t, err, ErrNoSeries)
}

func TestForecastYearsSorted(t *testing.T) {
	keys := sortedKeys(map[int]bool{2019: true, 2000: true, 2030: true, 2010: true})
	assert.Equal(t, []int{2000, 2010, 2019, 2030}, keys)
}

func TestShareBoxPlot(t *testing.T) {
	png, err := ShareBoxPlot(fixturePanel(), 2019)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderDashboard(t *testing.T) {
	var buf bytes.Buffer
	err := RenderDashboard(&buf, fixtureReport(), []Figure{
		{Slug: "top_movers", Title: "Top Movers", PNG: []byte{0x89, 0x50}},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "test-run")
	assert.Contains(t, html, "data:image/png;base64,")
	assert.Contains(t, html, "Fastest-Growing Renewable Adopters")
	assert.Contains(t, html, "Income Group")
}

func TestRenderDashboardNoData(t *testing.T) {
	var buf bytes.Buffer
	err := RenderDashboard(&buf, &services.Report{RunID: "empty"}, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No observations fell inside the analysis window")
}

func TestGeneratorWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	paths := config.PathsConfig{
		FiguresDir: filepath.Join(dir, "figures"),
		ReportsDir: filepath.Join(dir, "reports"),
	}

	g := NewGenerator(nil, paths, nil)
	written, err := g.Generate(context.Background(), fixtureReport(), fixturePanel())
	require.NoError(t, err)
	require.NotEmpty(t, written)

	assert.Equal(t, paths.GetReportPath(DashboardName), written[len(written)-1])
	for _, path := range written {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	// Sections absent from the fixture must be skipped, not fail the run.
	slugs := map[string]bool{}
	for _, path := range written {
		slugs[filepath.Base(path)] = true
	}
	assert.False(t, slugs["energy_mix.png"], "empty energy mix section should be skipped")
	assert.True(t, slugs["funding_transition.png"])
	assert.True(t, slugs["decoupling_scatter.png"])
	assert.True(t, slugs["share_histogram.png"])
}

func TestGeneratorNoData(t *testing.T) {
	dir := t.TempDir()
	paths := config.PathsConfig{
		FiguresDir: filepath.Join(dir, "figures"),
		ReportsDir: filepath.Join(dir, "reports"),
	}

	g := NewGenerator(nil, paths, nil)
	written, err := g.Generate(context.Background(), &services.Report{RunID: "empty"}, nil)
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, paths.GetReportPath(DashboardName), written[0])
}
