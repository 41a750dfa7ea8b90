// Package exporter serializes the report bundle into files under the
// configured reports directory.
//
// Two surfaces are provided:
//
//   - CSVWriter writes individual section tables as UTF-8 CSV files with a
//     BOM prefix so they open cleanly in Excel.
//   - WorkbookWriter assembles every section into one XLSX workbook with a
//     summary sheet, for readers who want the whole bundle in one file.
//
// Both consume the flattened Table representation produced by Tables, so
// the two formats can never disagree about a section's contents. Missing
// values are written as empty cells, never zeros.
package exporter
