package panel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Column headers the loader recognizes beside the indicator names.
const (
	columnCountry     = "Country"
	columnYear        = "Year"
	columnIncomeGroup = "Income_Group"
)

// LoadFile reads a country-year table from a CSV file produced by the
// upstream loading/cleaning collaborator.
func LoadFile(path string) (Panel, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open panel file: %w", err)
	}
	defer file.Close()

	p, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("load panel from %s: %w", path, err)
	}
	return p, nil
}

// Load parses a country-year CSV table. The first row must be a header
// naming at least Country and Year; indicator columns are matched by name
// and unknown columns are ignored. Blank cells become missing values,
// never zero. Rows that fail to parse are logged and skipped rather than
// failing the whole load.
func Load(r io.Reader) (Panel, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var p Panel
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			slog.Warn("skipping malformed CSV record", "line", line, "error", err)
			continue
		}

		obs, err := parseObservation(record, cols)
		if err != nil {
			slog.Warn("skipping unparseable observation", "line", line, "error", err)
			continue
		}
		p = append(p, obs)
	}

	return p, nil
}

// columnIndex maps panel fields to positions in the CSV header.
type columnIndex struct {
	country     int
	year        int
	incomeGroup int
	indicators  map[Indicator]int
}

func mapColumns(header []string) (columnIndex, error) {
	cols := columnIndex{country: -1, year: -1, incomeGroup: -1, indicators: make(map[Indicator]int)}

	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	lookup := func(name string) int {
		if i, ok := byName[strings.ToLower(name)]; ok {
			return i
		}
		return -1
	}

	cols.country = lookup(columnCountry)
	cols.year = lookup(columnYear)
	cols.incomeGroup = lookup(columnIncomeGroup)

	if cols.country < 0 || cols.year < 0 {
		return cols, fmt.Errorf("header missing %s/%s columns: %v", columnCountry, columnYear, header)
	}

	for _, ind := range Indicators() {
		if i := lookup(string(ind)); i >= 0 {
			cols.indicators[ind] = i
		}
	}

	return cols, nil
}

func parseObservation(record []string, cols columnIndex) (Observation, error) {
	country := strings.TrimSpace(record[cols.country])
	if country == "" {
		return Observation{}, fmt.Errorf("empty country")
	}

	yearStr := strings.TrimSpace(record[cols.year])
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Observation{}, fmt.Errorf("parse year %q: %w", yearStr, err)
	}

	obs := NewObservation(country, year)

	if cols.incomeGroup >= 0 && cols.incomeGroup < len(record) {
		obs.IncomeGroup = strings.TrimSpace(record[cols.incomeGroup])
	}

	for ind, i := range cols.indicators {
		if i >= len(record) {
			continue
		}
		cell := strings.TrimSpace(record[i])
		if cell == "" || strings.EqualFold(cell, "na") || strings.EqualFold(cell, "nan") {
			continue // stays missing
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Observation{}, fmt.Errorf("parse %s %q: %w", ind, cell, err)
		}
		obs.SetValue(ind, v)
	}

	return obs, nil
}
