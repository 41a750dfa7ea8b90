// Package panel holds the country-year table the analytics pipeline runs
// over, together with its boundary validation and CSV assembly.
//
// A Panel is an ordered, not necessarily rectangular collection of
// Observations keyed by (Country, Year). Missing indicator values are
// represented as NaN and are never conflated with zero: reducers and
// correlation inputs exclude them, and an all-missing group propagates a
// missing aggregate.
//
// Schema validation runs once, at the boundary, when the panel is loaded.
// Downstream packages assume column presence and well-formed keys, so a
// validation failure (duplicate keys, out-of-range years, absent required
// columns) is fatal for the run; routine data gaps are not.
package panel
