package panel

import (
	"math"
	"sort"
)

// Indicator identifies a numeric column of the country-year table.
// The set of indicators is fixed by the upstream loading collaborator;
// downstream packages address columns through these constants instead of
// re-checking string presence per call.
type Indicator string

const (
	GDPCapita         Indicator = "GDP_Capita"
	CO2TotalKt        Indicator = "CO2_Total_kt"
	RenewableCapacity Indicator = "Renewable_Capacity"
	RenewableShare    Indicator = "Renewable_Share"
	FinancialFlows    Indicator = "Financial_Flows"
	AccessElectricity Indicator = "Access_Electricity"
	AccessCooking     Indicator = "Access_Cooking"
	EnergyIntensity   Indicator = "Energy_Intensity"
	ElecFossil        Indicator = "Elec_Fossil"
	ElecRenewables    Indicator = "Elec_Renewables"
	ElecNuclear       Indicator = "Elec_Nuclear"
)

// Indicators returns every declared indicator in schema order.
func Indicators() []Indicator {
	return []Indicator{
		GDPCapita,
		CO2TotalKt,
		RenewableCapacity,
		RenewableShare,
		FinancialFlows,
		AccessElectricity,
		AccessCooking,
		EnergyIntensity,
		ElecFossil,
		ElecRenewables,
		ElecNuclear,
	}
}

// Missing is the sentinel for an absent indicator value. An absent value is
// never zero; it is excluded from every reducer and correlation input.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v represents an absent indicator value.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Observation is one row of the panel: a single country in a single year.
// Indicator fields hold NaN when the source cell is blank.
type Observation struct {
	Country           string  `json:"country"`
	Year              int     `json:"year"`
	IncomeGroup       string  `json:"income_group,omitempty"`
	GDPCapita         float64 `json:"gdp_capita"`
	CO2TotalKt        float64 `json:"co2_total_kt"`
	RenewableCapacity float64 `json:"renewable_capacity"`
	RenewableShare    float64 `json:"renewable_share"`
	FinancialFlows    float64 `json:"financial_flows"`
	AccessElectricity float64 `json:"access_electricity"`
	AccessCooking     float64 `json:"access_cooking"`
	EnergyIntensity   float64 `json:"energy_intensity"`
	ElecFossil        float64 `json:"elec_fossil"`
	ElecRenewables    float64 `json:"elec_renewables"`
	ElecNuclear       float64 `json:"elec_nuclear"`
}

// Value returns the named indicator, or NaN for an unknown indicator.
func (o Observation) Value(ind Indicator) float64 {
	switch ind {
	case GDPCapita:
		return o.GDPCapita
	case CO2TotalKt:
		return o.CO2TotalKt
	case RenewableCapacity:
		return o.RenewableCapacity
	case RenewableShare:
		return o.RenewableShare
	case FinancialFlows:
		return o.FinancialFlows
	case AccessElectricity:
		return o.AccessElectricity
	case AccessCooking:
		return o.AccessCooking
	case EnergyIntensity:
		return o.EnergyIntensity
	case ElecFossil:
		return o.ElecFossil
	case ElecRenewables:
		return o.ElecRenewables
	case ElecNuclear:
		return o.ElecNuclear
	default:
		return math.NaN()
	}
}

// SetValue assigns the named indicator. Unknown indicators are ignored.
func (o *Observation) SetValue(ind Indicator, v float64) {
	switch ind {
	case GDPCapita:
		o.GDPCapita = v
	case CO2TotalKt:
		o.CO2TotalKt = v
	case RenewableCapacity:
		o.RenewableCapacity = v
	case RenewableShare:
		o.RenewableShare = v
	case FinancialFlows:
		o.FinancialFlows = v
	case AccessElectricity:
		o.AccessElectricity = v
	case AccessCooking:
		o.AccessCooking = v
	case EnergyIntensity:
		o.EnergyIntensity = v
	case ElecFossil:
		o.ElecFossil = v
	case ElecRenewables:
		o.ElecRenewables = v
	case ElecNuclear:
		o.ElecNuclear = v
	}
}

// NewObservation returns an observation with every indicator marked missing.
func NewObservation(country string, year int) Observation {
	o := Observation{Country: country, Year: year}
	for _, ind := range Indicators() {
		o.SetValue(ind, Missing())
	}
	return o
}

// Panel is an ordered collection of observations. It is not necessarily
// rectangular: a country may lack years, a year may lack indicators.
type Panel []Observation

// Window returns the sub-panel of observations with Year <= maxYear,
// preserving input order. The most recent year in upstream data is
// frequently incomplete, so callers pass an explicit cutoff instead of
// trusting max(Year). An empty result is not an error.
func (p Panel) Window(maxYear int) Panel {
	out := make(Panel, 0, len(p))
	for _, o := range p {
		if o.Year <= maxYear {
			out = append(out, o)
		}
	}
	return out
}

// Filter returns the sub-panel of observations satisfying pred,
// preserving input order.
func (p Panel) Filter(pred func(Observation) bool) Panel {
	out := make(Panel, 0, len(p))
	for _, o := range p {
		if pred(o) {
			out = append(out, o)
		}
	}
	return out
}

// Years returns the distinct years present, ascending.
func (p Panel) Years() []int {
	seen := make(map[int]bool, len(p))
	var years []int
	for _, o := range p {
		if !seen[o.Year] {
			seen[o.Year] = true
			years = append(years, o.Year)
		}
	}
	sort.Ints(years)
	return years
}

// Countries returns the distinct countries in first-seen order.
func (p Panel) Countries() []string {
	seen := make(map[string]bool, len(p))
	var countries []string
	for _, o := range p {
		if !seen[o.Country] {
			seen[o.Country] = true
			countries = append(countries, o.Country)
		}
	}
	return countries
}

// MissingCounts returns the number of missing cells per indicator.
func (p Panel) MissingCounts() map[Indicator]int {
	counts := make(map[Indicator]int, len(Indicators()))
	for _, ind := range Indicators() {
		n := 0
		for _, o := range p {
			if IsMissing(o.Value(ind)) {
				n++
			}
		}
		counts[ind] = n
	}
	return counts
}

// HasColumn reports whether at least one observation carries a finite
// value for the indicator.
func (p Panel) HasColumn(ind Indicator) bool {
	for _, o := range p {
		if !IsMissing(o.Value(ind)) {
			return true
		}
	}
	return false
}
