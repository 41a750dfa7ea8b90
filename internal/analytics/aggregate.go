package analytics

import (
	"sort"
	"strconv"

	"greenpulse/internal/panel"
)

// Reducer selects the statistic computed per group and column. Missing
// values are excluded from the reducer's input, never treated as zero; a
// group whose values are all missing yields a missing (NaN) aggregate.
type Reducer int

const (
	// Sum totals a flow-like quantity (aid disbursements, generation volumes).
	Sum Reducer = iota + 1
	// Mean averages a stock or rate quantity (capacity per capita, GDP, access shares).
	Mean
	// Delta is last observed minus first observed in year order. This is the
	// realized endpoint change of the series, deliberately not max-minus-min,
	// which overstates growth when the series is non-monotonic.
	Delta
	// Median is the robust central-tendency companion to Mean for skewed
	// cross-sections such as renewable share by income cohort.
	Median
)

// String returns the reducer name for logs and export headers.
func (r Reducer) String() string {
	switch r {
	case Sum:
		return "sum"
	case Mean:
		return "mean"
	case Delta:
		return "delta"
	case Median:
		return "median"
	default:
		return "unknown"
	}
}

// GroupBy selects the grouping key for an aggregation pass.
type GroupBy int

const (
	// ByYear produces an annual time series across all countries.
	ByYear GroupBy = iota + 1
	// ByCountry produces cross-sectional or lifetime totals per country.
	ByCountry
	// ByIncomeGroup produces cohort comparisons across income bands.
	ByIncomeGroup
)

// GroupAggregate is one group's row of aggregate statistics. For ByYear
// groups Year carries the numeric key; Key always carries the string form.
type GroupAggregate struct {
	Key    string                      `json:"key"`
	Year   int                         `json:"year,omitempty"`
	Values map[panel.Indicator]float64 `json:"values"`
}

// Value returns the aggregate for an indicator, or NaN when the indicator
// was not part of the aggregation spec.
func (g GroupAggregate) Value(ind panel.Indicator) float64 {
	if v, ok := g.Values[ind]; ok {
		return v
	}
	return panel.Missing()
}

type groupSample struct {
	year  int
	value float64
}

// Aggregate computes one statistic per group and indicator according to
// specs. ByYear results are ordered by ascending year; ByCountry and
// ByIncomeGroup results keep first-seen input order. An empty panel yields
// an empty result, not an error.
func Aggregate(p panel.Panel, by GroupBy, specs map[panel.Indicator]Reducer) []GroupAggregate {
	if len(p) == 0 || len(specs) == 0 {
		return nil
	}

	groupKey := func(o panel.Observation) string {
		switch by {
		case ByYear:
			return strconv.Itoa(o.Year)
		case ByCountry:
			return o.Country
		case ByIncomeGroup:
			return o.IncomeGroup
		default:
			return ""
		}
	}

	// Collect finite samples per group and indicator, keeping years so
	// Delta can order by time.
	samples := make(map[string]map[panel.Indicator][]groupSample)
	var order []string
	for _, o := range p {
		key := groupKey(o)
		if key == "" {
			continue // e.g. observations without an income group label
		}
		if _, ok := samples[key]; !ok {
			samples[key] = make(map[panel.Indicator][]groupSample, len(specs))
			order = append(order, key)
		}
		for ind := range specs {
			v := o.Value(ind)
			if panel.IsMissing(v) {
				continue
			}
			samples[key][ind] = append(samples[key][ind], groupSample{year: o.Year, value: v})
		}
	}

	if by == ByYear {
		sort.Slice(order, func(i, j int) bool {
			yi, _ := strconv.Atoi(order[i])
			yj, _ := strconv.Atoi(order[j])
			return yi < yj
		})
	}

	out := make([]GroupAggregate, 0, len(order))
	for _, key := range order {
		row := GroupAggregate{Key: key, Values: make(map[panel.Indicator]float64, len(specs))}
		if by == ByYear {
			row.Year, _ = strconv.Atoi(key)
		}
		for ind, reducer := range specs {
			row.Values[ind] = reduce(samples[key][ind], reducer)
		}
		out = append(out, row)
	}
	return out
}

func reduce(s []groupSample, r Reducer) float64 {
	if len(s) == 0 {
		return panel.Missing()
	}
	switch r {
	case Sum:
		total := 0.0
		for _, x := range s {
			total += x.value
		}
		return total
	case Mean:
		total := 0.0
		for _, x := range s {
			total += x.value
		}
		return total / float64(len(s))
	case Delta:
		ordered := make([]groupSample, len(s))
		copy(ordered, s)
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].year < ordered[j].year })
		return ordered[len(ordered)-1].value - ordered[0].value
	case Median:
		values := make([]float64, len(s))
		for i, x := range s {
			values[i] = x.value
		}
		sort.Float64s(values)
		mid := len(values) / 2
		if len(values)%2 == 0 {
			return (values[mid-1] + values[mid]) / 2
		}
		return values[mid]
	default:
		return panel.Missing()
	}
}

// GrowthBetween computes, per country in first-seen order, the change in an
// indicator between two specific years. A country is eligible only when it
// has a finite value in both endpoint years; everything else is excluded
// rather than ranked with a partial series.
func GrowthBetween(p panel.Panel, ind panel.Indicator, startYear, endYear int) []Entry {
	start := make(map[string]float64)
	end := make(map[string]float64)
	var order []string
	seen := make(map[string]bool)

	for _, o := range p {
		v := o.Value(ind)
		if panel.IsMissing(v) {
			continue
		}
		if !seen[o.Country] {
			seen[o.Country] = true
			order = append(order, o.Country)
		}
		switch o.Year {
		case startYear:
			start[o.Country] = v
		case endYear:
			end[o.Country] = v
		}
	}

	var out []Entry
	for _, country := range order {
		s, okStart := start[country]
		e, okEnd := end[country]
		if !okStart || !okEnd {
			continue
		}
		out = append(out, Entry{Name: country, Value: e - s})
	}
	return out
}
