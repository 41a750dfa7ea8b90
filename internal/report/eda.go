package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"greenpulse/internal/panel"
)

// ShareHistogram draws the distribution of renewable energy share across
// countries at the given year.
func ShareHistogram(p panel.Panel, year int) ([]byte, error) {
	var values plotter.Values
	for _, o := range p {
		if o.Year != year {
			continue
		}
		if v := o.Value(panel.RenewableShare); !panel.IsMissing(v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, ErrNoSeries
	}

	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("Renewable Share Distribution, %d", year)
	plt.Title.TextStyle.Font.Size = vg.Points(14)
	plt.X.Label.Text = "Share of renewables in final energy consumption (%)"
	plt.Y.Label.Text = "Countries"

	hist, err := plotter.NewHist(values, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to build histogram: %w", err)
	}
	hist.FillColor = color.RGBA{R: 34, G: 139, B: 34, A: 255}
	plt.Add(hist, plotter.NewGrid())

	return plotPNG(plt, 10*vg.Inch, 5*vg.Inch)
}

// ShareBoxPlot draws per-income-group box plots of renewable share at the
// given year. Groups appear in first-seen order; unlabeled rows are skipped.
func ShareBoxPlot(p panel.Panel, year int) ([]byte, error) {
	var groups []string
	byGroup := map[string]plotter.Values{}
	for _, o := range p {
		if o.Year != year || o.IncomeGroup == "" {
			continue
		}
		v := o.Value(panel.RenewableShare)
		if panel.IsMissing(v) {
			continue
		}
		if _, seen := byGroup[o.IncomeGroup]; !seen {
			groups = append(groups, o.IncomeGroup)
		}
		byGroup[o.IncomeGroup] = append(byGroup[o.IncomeGroup], v)
	}
	if len(groups) == 0 {
		return nil, ErrNoSeries
	}

	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("Renewable Share by Income Group, %d", year)
	plt.Title.TextStyle.Font.Size = vg.Points(14)
	plt.Y.Label.Text = "Share of renewables (%)"

	for i, group := range groups {
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), byGroup[group])
		if err != nil {
			return nil, fmt.Errorf("failed to build box plot for %s: %w", group, err)
		}
		plt.Add(box)
	}
	plt.NominalX(groups...)

	return plotPNG(plt, 10*vg.Inch, 5*vg.Inch)
}

// DecouplingScatter draws GDP per capita against total CO2 emissions on
// log-log axes for the given year's cross-section. Rows with a missing or
// non-positive value on either axis are skipped.
func DecouplingScatter(p panel.Panel, year int) ([]byte, error) {
	var pts plotter.XYs
	for _, o := range p {
		if o.Year != year {
			continue
		}
		gdp := o.Value(panel.GDPCapita)
		co2 := o.Value(panel.CO2TotalKt)
		if panel.IsMissing(gdp) || panel.IsMissing(co2) || gdp <= 0 || co2 <= 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: math.Log10(gdp), Y: math.Log10(co2)})
	}
	if len(pts) == 0 {
		return nil, ErrNoSeries
	}

	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("Wealth vs Emissions, %d", year)
	plt.Title.TextStyle.Font.Size = vg.Points(14)
	plt.X.Label.Text = "log10 GDP per capita (USD)"
	plt.Y.Label.Text = "log10 CO2 emissions (kt)"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	scatter.GlyphStyle.Radius = vg.Points(3)
	plt.Add(scatter, plotter.NewGrid())

	return plotPNG(plt, 8*vg.Inch, 6*vg.Inch)
}

func plotPNG(plt *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := plt.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode plot: %w", err)
	}
	return buf.Bytes(), nil
}
