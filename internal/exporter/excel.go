package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"greenpulse/internal/config"
	"greenpulse/internal/services"
)

// WorkbookName is the default workbook filename under the reports directory.
const WorkbookName = "greenpulse_report.xlsx"

// WorkbookWriter assembles the full report bundle into a single XLSX
// workbook, one sheet per section plus a summary sheet.
type WorkbookWriter struct {
	paths config.PathsConfig
}

// NewWorkbookWriter creates a workbook writer.
func NewWorkbookWriter(paths config.PathsConfig) *WorkbookWriter {
	return &WorkbookWriter{paths: paths}
}

// Write renders the report into an XLSX workbook at the configured
// reports path and returns the full path written.
func (w *WorkbookWriter) Write(r *services.Report) (string, error) {
	fullPath := w.paths.GetReportPath(WorkbookName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Summary")
	writeSummarySheet(f, r)

	for _, table := range Tables(r) {
		if err := writeTableSheet(f, table); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	slog.Info("Workbook written",
		slog.String("path", fullPath),
		slog.String("run_id", r.RunID))

	return fullPath, nil
}

func writeTableSheet(f *excelize.File, table Table) error {
	sheet := sheetName(table.Name)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	for i, header := range table.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 22)
	}
	for rowIdx, row := range table.Rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, r *services.Report) {
	rows := [][]interface{}{
		{"Run ID", r.RunID},
		{"Generated At", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
		{"Analysis Window End", r.CutoffYear},
		{"Index Base Year", r.BaseYear},
		{"Forecast Horizon", r.HorizonYear},
		{"Countries", r.EDA.Countries},
		{"Window", fmt.Sprintf("%d-%d", r.EDA.WindowStart, r.EDA.WindowEnd)},
		{"Total Aid (USD)", r.EDA.TotalAid},
	}
	for i, row := range rows {
		f.SetCellValue("Summary", fmt.Sprintf("A%d", i+1), row[0])
		f.SetCellValue("Summary", fmt.Sprintf("B%d", i+1), row[1])
	}
	f.SetColWidth("Summary", "A", "B", 28)
}

// sheetName converts a table title into a valid XLSX sheet name.
func sheetName(name string) string {
	s := strings.ReplaceAll(name, " ", "_")
	if len(s) > 31 {
		s = s[:31]
	}
	return s
}
