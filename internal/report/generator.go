package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"greenpulse/internal/config"
	"greenpulse/internal/infrastructure"
	"greenpulse/internal/panel"
	"greenpulse/internal/services"
)

// DashboardName is the dashboard filename under the reports directory.
const DashboardName = "dashboard.html"

// Generator renders a report's figures and dashboard to disk. Figures
// render concurrently; a section with no drawable data is skipped, any
// other rendering failure aborts the run.
type Generator struct {
	logger   *slog.Logger
	paths    config.PathsConfig
	metrics  *infrastructure.Metrics
	renderer *ChartRenderer
}

// NewGenerator creates a generator. metrics may be nil for runs without a
// metrics endpoint.
func NewGenerator(logger *slog.Logger, paths config.PathsConfig, metrics *infrastructure.Metrics) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		logger:   logger.With(slog.String("component", "report_generator")),
		paths:    paths,
		metrics:  metrics,
		renderer: NewChartRenderer(),
	}
}

// Generate renders every figure and the dashboard, returning the list of
// files written. The source panel is needed alongside the report for the
// distribution figures, which draw raw cross-sections rather than
// aggregates.
func (g *Generator) Generate(ctx context.Context, r *services.Report, src panel.Panel) ([]string, error) {
	if !r.HasData() {
		g.logger.WarnContext(ctx, "report has no data, rendering empty dashboard", "run_id", r.RunID)
		path, err := g.writeDashboard(r, nil)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	windowed := src.Window(r.CutoffYear)

	specs := []struct {
		slug   string
		title  string
		render func() ([]byte, error)
	}{
		{"funding_transition", "International Aid vs Installed Capacity",
			func() ([]byte, error) { return g.renderer.FundingTransition(r.FundingTransition) }},
		{"energy_mix", "Global Electricity Generation by Source",
			func() ([]byte, error) { return g.renderer.EnergyMix(r.EnergyMix) }},
		{"global_divergence", "Growth vs Emissions",
			func() ([]byte, error) { return g.renderer.Divergence(r.GlobalDivergence) }},
		{"decoupling_scatter", fmt.Sprintf("Wealth vs Emissions, %d", r.CutoffYear),
			func() ([]byte, error) { return DecouplingScatter(windowed, r.CutoffYear) }},
		{"top_aid_recipients", "Top Aid Recipients",
			func() ([]byte, error) { return g.renderer.RankingBar("Top Aid Recipients (USD)", r.TopAidRecipients) }},
		{"top_movers", "Fastest-Growing Renewable Adopters",
			func() ([]byte, error) { return g.renderer.RankingBar("Renewable Share Gain (pp)", r.TopMovers) }},
		{"forecasts", "Renewable Share Trajectories",
			func() ([]byte, error) { return g.renderer.ForecastLines(r.Forecasts) }},
		{"share_histogram", fmt.Sprintf("Renewable Share Distribution, %d", r.CutoffYear),
			func() ([]byte, error) { return ShareHistogram(windowed, r.CutoffYear) }},
		{"share_by_income", fmt.Sprintf("Renewable Share by Income Group, %d", r.CutoffYear),
			func() ([]byte, error) { return ShareBoxPlot(windowed, r.CutoffYear) }},
	}

	var mu sync.Mutex
	figures := make([]Figure, 0, len(specs))

	grp, grpCtx := errgroup.WithContext(ctx)
	for _, spec := range specs {
		grp.Go(func() error {
			png, err := spec.render()
			if errors.Is(err, ErrNoSeries) {
				g.logger.WarnContext(grpCtx, "figure skipped, no drawable data",
					"figure", spec.slug, "run_id", r.RunID)
				return nil
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", spec.slug, err)
			}
			mu.Lock()
			figures = append(figures, Figure{Slug: spec.slug, Title: spec.title, PNG: png})
			mu.Unlock()
			if g.metrics != nil {
				g.metrics.FiguresRendered.Add(grpCtx, 1)
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	// Restore spec order: concurrent completion order is arbitrary but
	// the dashboard layout should be stable across runs.
	ordered := make([]Figure, 0, len(figures))
	for _, spec := range specs {
		for _, fig := range figures {
			if fig.Slug == spec.slug {
				ordered = append(ordered, fig)
				break
			}
		}
	}

	var written []string
	for _, fig := range ordered {
		path, err := g.writeFigure(fig)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	dashboard, err := g.writeDashboard(r, ordered)
	if err != nil {
		return nil, err
	}
	written = append(written, dashboard)

	g.logger.InfoContext(ctx, "report artifacts rendered",
		"run_id", r.RunID,
		"figures", len(ordered),
		"files", len(written),
	)
	return written, nil
}

func (g *Generator) writeFigure(fig Figure) (string, error) {
	path := g.paths.GetFigurePath(fig.Slug + ".png")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create figures directory: %w", err)
	}
	if err := os.WriteFile(path, fig.PNG, 0644); err != nil {
		return "", fmt.Errorf("failed to write figure %s: %w", fig.Slug, err)
	}
	return path, nil
}

func (g *Generator) writeDashboard(r *services.Report, figures []Figure) (string, error) {
	path := g.paths.GetReportPath(DashboardName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create dashboard file: %w", err)
	}
	defer file.Close()

	if err := RenderDashboard(file, r, figures); err != nil {
		return "", err
	}
	return path, nil
}
