package report

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"greenpulse/internal/panel"
	"greenpulse/internal/services"
)

// Figure is one rendered PNG with its dashboard caption.
type Figure struct {
	Slug  string
	Title string
	PNG   []byte
}

// DataURI returns the figure as an embeddable data URI, keeping the
// dashboard a single self-contained HTML file.
func (f Figure) DataURI() template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(f.PNG))
}

type dashboardData struct {
	Report  *services.Report
	Figures []Figure
}

// RenderDashboard writes the self-contained HTML dashboard for a report
// and its rendered figures.
func RenderDashboard(w io.Writer, r *services.Report, figures []Figure) error {
	tmpl, err := template.New("dashboard").Funcs(template.FuncMap{
		"cell": func(v float64) string {
			if panel.IsMissing(v) {
				return "–"
			}
			return fmt.Sprintf("%.2f", v)
		},
		"addOne": func(i int) int { return i + 1 },
	}).Parse(dashboardTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	if err := tmpl.Execute(w, dashboardData{Report: r, Figures: figures}); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}

const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>GreenPulse Energy Transition Report</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f5f7f5; color: #1d2b1f; }
  header { background: #1d4d2b; color: #fff; padding: 24px 32px; }
  header h1 { margin: 0 0 4px; font-size: 22px; }
  header .meta { font-size: 13px; opacity: 0.85; }
  main { max-width: 1240px; margin: 0 auto; padding: 24px 32px; }
  .cards { display: flex; flex-wrap: wrap; gap: 16px; margin-bottom: 24px; }
  .card { background: #fff; border-radius: 8px; padding: 16px 20px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); min-width: 160px; }
  .card .label { font-size: 12px; text-transform: uppercase; color: #5a6e5d; }
  .card .value { font-size: 24px; font-weight: 600; margin-top: 4px; }
  section { background: #fff; border-radius: 8px; padding: 20px 24px; margin-bottom: 24px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
  section h2 { margin-top: 0; font-size: 17px; color: #1d4d2b; }
  img.figure { width: 100%; height: auto; border: 1px solid #e3e8e3; border-radius: 4px; }
  table { border-collapse: collapse; width: 100%; font-size: 14px; }
  th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #e3e8e3; }
  th { color: #5a6e5d; font-weight: 600; }
  td.num { text-align: right; font-variant-numeric: tabular-nums; }
  .nodata { padding: 48px; text-align: center; color: #5a6e5d; font-size: 16px; }
</style>
</head>
<body>
<header>
  <h1>Global Energy Transition Report</h1>
  <div class="meta">Run {{.Report.RunID}} · generated {{.Report.GeneratedAt.Format "2006-01-02 15:04 UTC"}} · window {{.Report.EDA.WindowStart}}–{{.Report.CutoffYear}} · horizon {{.Report.HorizonYear}}</div>
</header>
<main>
{{if not .Report.HasData}}
  <div class="nodata">No observations fell inside the analysis window. Check the data file and the configured cutoff year.</div>
{{else}}
  <div class="cards">
    <div class="card"><div class="label">Countries</div><div class="value">{{.Report.EDA.Countries}}</div></div>
    <div class="card"><div class="label">Total Aid (USD)</div><div class="value">{{cell .Report.EDA.TotalAid}}</div></div>
    <div class="card"><div class="label">GDP &times; CO2 Correlation</div><div class="value">{{cell .Report.EDA.GDPCO2Corr}}</div></div>
    <div class="card"><div class="label">Intensity Change</div><div class="value">{{cell .Report.EDA.IntensityChangePct}}%</div></div>
    <div class="card"><div class="label">Aid Recipients</div><div class="value">{{.Report.AidEffectiveness.Recipients}}</div></div>
  </div>

  {{range .Figures}}
  <section>
    <h2>{{.Title}}</h2>
    <img class="figure" src="{{.DataURI}}" alt="{{.Title}}">
  </section>
  {{end}}

  {{if .Report.TopMovers}}
  <section>
    <h2>Fastest-Growing Renewable Adopters ({{.Report.BaseYear}}–{{.Report.CutoffYear}})</h2>
    <table>
      <tr><th>#</th><th>Country</th><th>Share Gain (pp)</th></tr>
      {{range $i, $e := .Report.TopMovers}}
      <tr><td>{{addOne $i}}</td><td>{{$e.Name}}</td><td class="num">{{cell $e.Value}}</td></tr>
      {{end}}
    </table>
  </section>
  {{end}}

  {{if .Report.IncomeDisparity}}
  <section>
    <h2>Renewable Share by Income Group, {{.Report.CutoffYear}}</h2>
    <table>
      <tr><th>Income Group</th><th>Mean (%)</th><th>Median (%)</th></tr>
      {{range .Report.IncomeDisparity}}
      <tr><td>{{.Group}}</td><td class="num">{{cell .MeanShare}}</td><td class="num">{{cell .MedianShare}}</td></tr>
      {{end}}
    </table>
  </section>
  {{end}}

  {{if not .Report.DriverCorrelations.Empty}}
  <section>
    <h2>Driver Correlations (complete rows, n = {{.Report.DriverCorrelations.Observations}})</h2>
    <table>
      <tr><th></th>{{range .Report.DriverCorrelations.Columns}}<th>{{.}}</th>{{end}}</tr>
      {{range $i, $col := .Report.DriverCorrelations.Columns}}
      <tr><th>{{$col}}</th>{{range $j, $_ := $.Report.DriverCorrelations.Columns}}<td class="num">{{cell ($.Report.DriverCorrelations.At $i $j)}}</td>{{end}}</tr>
      {{end}}
    </table>
    <p>Aid/capacity correlation among recipients: {{cell .Report.AidEffectiveness.RecipientsCorr}} · across all countries: {{cell .Report.AidEffectiveness.AllCountriesCorr}}</p>
  </section>
  {{end}}
{{end}}
</main>
</body>
</html>
`
