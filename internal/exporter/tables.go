package exporter

import (
	"fmt"
	"strconv"

	"greenpulse/internal/analytics"
	"greenpulse/internal/panel"
	"greenpulse/internal/services"
)

// Table is one report section flattened into rows for CSV files and
// workbook sheets. Sheet names stay under the 31-character XLSX limit.
type Table struct {
	Name     string
	Filename string
	Headers  []string
	Rows     [][]string
}

// Tables flattens every populated report section. Empty sections are
// omitted so a sparse run produces fewer artifacts, not blank ones.
func Tables(r *services.Report) []Table {
	var tables []Table

	if t := fundingTable(r.FundingTransition); len(t.Rows) > 0 {
		tables = append(tables, t)
	}
	if t := energyMixTable(r.EnergyMix); len(t.Rows) > 0 {
		tables = append(tables, t)
	}
	if t := entryTable("Top Aid Recipients", "top_aid_recipients.csv",
		[]string{"Country", "Total Aid (USD)"}, r.TopAidRecipients); len(t.Rows) > 0 {
		tables = append(tables, t)
	}
	if t := divergenceTable(r.GlobalDivergence); len(t.Rows) > 0 {
		tables = append(tables, t)
	}
	if t := correlationTable(r.DriverCorrelations); len(t.Rows) > 0 {
		tables = append(tables, t)
	}
	if t := entryTable("Top Movers", "top_movers.csv",
		[]string{"Country", "Share Gain (pp)"}, r.TopMovers); len(t.Rows) > 0 {
		tables = append(tables, t)
	}
	if t := incomeTable(r.IncomeDisparity); len(t.Rows) > 0 {
		tables = append(tables, t)
	}
	if t := forecastTable(r.Forecasts); len(t.Rows) > 0 {
		tables = append(tables, t)
	}

	return tables
}

func fundingTable(annual []analytics.GroupAggregate) Table {
	t := Table{
		Name:     "Funding Transition",
		Filename: "funding_transition.csv",
		Headers:  []string{"Year", "Total Aid (USD)", "Mean Capacity (W/capita)"},
	}
	for _, row := range annual {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(row.Year),
			formatCell(row.Value(panel.FinancialFlows)),
			formatCell(row.Value(panel.RenewableCapacity)),
		})
	}
	return t
}

func energyMixTable(mix services.EnergyMix) Table {
	t := Table{
		Name:     "Energy Mix",
		Filename: "energy_mix.csv",
		Headers:  []string{"Year", "Fossil (TWh)", "Nuclear (TWh)", "Renewables (TWh)"},
	}
	for _, row := range mix.Annual {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(row.Year),
			formatCell(row.Value(panel.ElecFossil)),
			formatCell(row.Value(panel.ElecNuclear)),
			formatCell(row.Value(panel.ElecRenewables)),
		})
	}
	return t
}

func entryTable(name, filename string, headers []string, entries []analytics.Entry) Table {
	t := Table{Name: name, Filename: filename, Headers: headers}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{e.Name, formatCell(e.Value)})
	}
	return t
}

func divergenceTable(d services.Divergence) Table {
	t := Table{
		Name:     "Global Divergence",
		Filename: "global_divergence.csv",
		Headers:  []string{"Year", "GDP Index", "CO2 Index"},
	}
	for i, year := range d.Years {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(year),
			formatCell(d.GDPIndex[i]),
			formatCell(d.CO2Index[i]),
		})
	}
	return t
}

func correlationTable(m analytics.CorrelationMatrix) Table {
	t := Table{
		Name:     "Driver Correlations",
		Filename: "driver_correlations.csv",
		Headers:  []string{"Indicator"},
	}
	for _, col := range m.Columns {
		t.Headers = append(t.Headers, string(col))
	}
	for i, col := range m.Columns {
		row := []string{string(col)}
		for j := range m.Columns {
			row = append(row, formatCell(m.At(i, j)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func incomeTable(bands []services.IncomeBand) Table {
	t := Table{
		Name:     "Income Disparity",
		Filename: "income_disparity.csv",
		Headers:  []string{"Income Group", "Mean Share (%)", "Median Share (%)"},
	}
	for _, band := range bands {
		t.Rows = append(t.Rows, []string{
			band.Group,
			formatCell(band.MeanShare),
			formatCell(band.MedianShare),
		})
	}
	return t
}

func forecastTable(trajectories []analytics.Trajectory) Table {
	t := Table{
		Name:     "Forecasts",
		Filename: "forecasts.csv",
		Headers:  []string{"Country", "Year", "Share (%)", "Kind"},
	}
	for _, traj := range trajectories {
		for _, pt := range traj.History {
			t.Rows = append(t.Rows, []string{
				traj.Entity, strconv.Itoa(pt.Year), formatCell(pt.Value), "observed",
			})
		}
		for _, pt := range traj.Projected {
			t.Rows = append(t.Rows, []string{
				traj.Entity, strconv.Itoa(pt.Year), formatCell(pt.Value), "projected",
			})
		}
	}
	return t
}

// formatCell renders a value for CSV and workbook cells. Missing values
// become empty cells, never zeros.
func formatCell(v float64) string {
	if panel.IsMissing(v) {
		return ""
	}
	return fmt.Sprintf("%.4f", v)
}
