package report

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	charts "github.com/vicanso/go-charts/v2"

	"greenpulse/internal/analytics"
	"greenpulse/internal/panel"
	"greenpulse/internal/services"
)

// ErrNoSeries is returned when a figure has nothing to draw.
var ErrNoSeries = errors.New("no series data available")

// ChartRenderer renders report sections as PNG charts.
type ChartRenderer struct {
	theme  string
	width  int
	height int
}

// NewChartRenderer creates a renderer with the dashboard light theme.
func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{theme: charts.ThemeLight, width: 1200, height: 400}
}

func (r *ChartRenderer) lineOptions(title string, labels, legend []string) []charts.OptionFunc {
	return []charts.OptionFunc{
		charts.PNGTypeOption(),
		charts.TitleTextOptionFunc(title),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc(legend, charts.PositionRight),
		charts.ThemeOptionFunc(r.theme),
		charts.WidthOptionFunc(r.width),
		charts.HeightOptionFunc(r.height),
		charts.PaddingOptionFunc(charts.Box{Top: 20, Right: 20, Bottom: 20, Left: 20}),
	}
}

// FundingTransition draws total aid against mean installed capacity per
// year. The two series share the x axis but live on very different
// scales, so capacity is plotted on its own line rather than stacked.
func (r *ChartRenderer) FundingTransition(annual []analytics.GroupAggregate) ([]byte, error) {
	if len(annual) == 0 {
		return nil, ErrNoSeries
	}

	labels := make([]string, len(annual))
	aid := make([]float64, len(annual))
	capacity := make([]float64, len(annual))
	for i, row := range annual {
		labels[i] = strconv.Itoa(row.Year)
		aid[i] = chartValue(row.Value(panel.FinancialFlows))
		capacity[i] = chartValue(row.Value(panel.RenewableCapacity))
	}

	p, err := charts.LineRender(
		[][]float64{aid, capacity},
		r.lineOptions("International Aid vs Installed Capacity",
			labels, []string{"Total Aid (USD)", "Mean Capacity (W/capita)"})...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render funding chart: %w", err)
	}
	return p.Bytes()
}

// EnergyMix draws annual generation by source.
func (r *ChartRenderer) EnergyMix(mix services.EnergyMix) ([]byte, error) {
	if len(mix.Annual) == 0 {
		return nil, ErrNoSeries
	}

	labels := make([]string, len(mix.Annual))
	fossil := make([]float64, len(mix.Annual))
	nuclear := make([]float64, len(mix.Annual))
	renewables := make([]float64, len(mix.Annual))
	for i, row := range mix.Annual {
		labels[i] = strconv.Itoa(row.Year)
		fossil[i] = chartValue(row.Value(panel.ElecFossil))
		nuclear[i] = chartValue(row.Value(panel.ElecNuclear))
		renewables[i] = chartValue(row.Value(panel.ElecRenewables))
	}

	p, err := charts.LineRender(
		[][]float64{fossil, nuclear, renewables},
		r.lineOptions("Global Electricity Generation by Source",
			labels, []string{"Fossil (TWh)", "Nuclear (TWh)", "Renewables (TWh)"})...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render energy mix chart: %w", err)
	}
	return p.Bytes()
}

// Divergence draws the indexed GDP and CO2 trajectories on a shared
// base-100 axis.
func (r *ChartRenderer) Divergence(d services.Divergence) ([]byte, error) {
	if d.Empty() {
		return nil, ErrNoSeries
	}

	labels := make([]string, len(d.Years))
	for i, year := range d.Years {
		labels[i] = strconv.Itoa(year)
	}

	p, err := charts.LineRender(
		[][]float64{d.GDPIndex, d.CO2Index},
		r.lineOptions("Growth vs Emissions (index, base = 100)",
			labels, []string{"GDP per Capita Index", "CO2 Emissions Index"})...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render divergence chart: %w", err)
	}
	return p.Bytes()
}

// RankingBar draws a ranking as a horizontal bar chart, best entry on top.
func (r *ChartRenderer) RankingBar(title string, entries []analytics.Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrNoSeries
	}

	// HorizontalBarRender draws bottom-up; reverse so the top entry
	// lands at the top of the figure.
	labels := make([]string, len(entries))
	values := make([]float64, len(entries))
	for i, e := range entries {
		j := len(entries) - 1 - i
		labels[j] = e.Name
		values[j] = chartValue(e.Value)
	}

	p, err := charts.HorizontalBarRender(
		[][]float64{values},
		charts.PNGTypeOption(),
		charts.TitleTextOptionFunc(title),
		charts.YAxisDataOptionFunc(labels),
		charts.ThemeOptionFunc(r.theme),
		charts.WidthOptionFunc(r.width),
		charts.HeightOptionFunc(r.height),
		charts.PaddingOptionFunc(charts.Box{Top: 20, Right: 20, Bottom: 20, Left: 20}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render ranking chart: %w", err)
	}
	return p.Bytes()
}

// ForecastLines draws every trajectory's observed history and fitted
// projection as separate series so the projected segment is visually
// distinguishable.
func (r *ChartRenderer) ForecastLines(trajectories []analytics.Trajectory) ([]byte, error) {
	if len(trajectories) == 0 {
		return nil, ErrNoSeries
	}

	// Collect the union of years across all trajectories for the x axis.
	yearSet := map[int]bool{}
	for _, traj := range trajectories {
		for _, pt := range traj.History {
			yearSet[pt.Year] = true
		}
		for _, pt := range traj.Projected {
			yearSet[pt.Year] = true
		}
	}
	years := sortedKeys(yearSet)

	index := make(map[int]int, len(years))
	labels := make([]string, len(years))
	for i, year := range years {
		index[year] = i
		labels[i] = strconv.Itoa(year)
	}

	var values [][]float64
	var legend []string
	for _, traj := range trajectories {
		observed := nullSeries(len(years))
		projected := nullSeries(len(years))
		for _, pt := range traj.History {
			observed[index[pt.Year]] = pt.Value
		}
		for _, pt := range traj.Projected {
			projected[index[pt.Year]] = pt.Value
		}
		values = append(values, observed, projected)
		legend = append(legend, traj.Entity, traj.Entity+" (projected)")
	}

	p, err := charts.LineRender(
		values,
		r.lineOptions("Renewable Share Trajectories to Horizon", labels, legend)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render forecast chart: %w", err)
	}
	return p.Bytes()
}

// chartValue maps missing values to the renderer's null sentinel so gaps
// stay gaps instead of plotting as zero.
func chartValue(v float64) float64 {
	if panel.IsMissing(v) {
		return charts.GetNullValue()
	}
	return v
}

func nullSeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = charts.GetNullValue()
	}
	return s
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
