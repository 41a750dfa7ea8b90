package panel

import (
	"errors"
	"fmt"
)

// Validation failures indicate an upstream contract violation, not a normal
// data gap, and abort the run.
var (
	ErrEmptyCountry  = errors.New("observation has empty country identifier")
	ErrInvalidYear   = errors.New("observation year outside valid range")
	ErrDuplicateKey  = errors.New("duplicate (country, year) observation")
	ErrMissingColumn = errors.New("required indicator column absent from panel")
)

// Years outside this range indicate a type or parsing defect upstream
// rather than a legitimately old or future observation.
const (
	MinValidYear = 1960
	MaxValidYear = 2100
)

// Schema declares which indicators the analysis requires and which are
// optional. It is validated once at the panel boundary so downstream
// components can assume column presence instead of re-checking per call.
type Schema struct {
	Required []Indicator
	Optional []Indicator
}

// DefaultSchema requires the indicators every report section depends on;
// the electricity-mix and cooking-access columns are optional because
// upstream coverage for them is spotty.
func DefaultSchema() Schema {
	return Schema{
		Required: []Indicator{
			GDPCapita,
			CO2TotalKt,
			RenewableCapacity,
			RenewableShare,
			FinancialFlows,
		},
		Optional: []Indicator{
			AccessElectricity,
			AccessCooking,
			EnergyIntensity,
			ElecFossil,
			ElecRenewables,
			ElecNuclear,
		},
	}
}

type key struct {
	country string
	year    int
}

// Validate performs the one-shot boundary checks: stable country
// identifiers, integer years in range, no duplicate (country, year) keys,
// and at least one finite value for every required indicator.
func (p Panel) Validate(s Schema) error {
	seen := make(map[key]bool, len(p))
	for i, o := range p {
		if o.Country == "" {
			return fmt.Errorf("row %d: %w", i, ErrEmptyCountry)
		}
		if o.Year < MinValidYear || o.Year > MaxValidYear {
			return fmt.Errorf("row %d (%s): year %d: %w", i, o.Country, o.Year, ErrInvalidYear)
		}
		k := key{o.Country, o.Year}
		if seen[k] {
			return fmt.Errorf("row %d (%s, %d): %w", i, o.Country, o.Year, ErrDuplicateKey)
		}
		seen[k] = true
	}
	for _, ind := range s.Required {
		if !p.HasColumn(ind) {
			return fmt.Errorf("indicator %s: %w", ind, ErrMissingColumn)
		}
	}
	return nil
}
