// Package analytics implements the metric-computation and trend-forecasting
// core of the pipeline: group aggregation with missing-value exclusion,
// base-year index normalization, Pearson correlation matrices with a
// selectable completeness policy, top-N rankings with stable tie-breaking,
// and per-entity linear-trend extrapolation clamped to a valid range.
//
// Every function here is a pure function of its inputs with no I/O and no
// shared mutable state, which makes the components safe to invoke
// concurrently on disjoint inputs. Routine data absence (missing column,
// empty filtered cross-section, all-missing group) never produces an
// error: components return explicit empty or NaN results so the caller can
// render a "no data" state instead of crashing a batch run. Only
// insufficient regression history is surfaced as a typed error, and that
// excludes the entity rather than the run.
//
// # Components
//
//   - aggregate.go: group-level reducers (Sum, Mean, Delta) keyed by year,
//     country, or income group
//   - normalize.go: rebasing a series to 100 at a chosen anchor
//   - correlate.go: pairwise Pearson matrices over a column subset
//   - ranking.go: top/bottom-N selection with NaN-drop semantics
//   - forecast.go: OLS trend fit and clamped extrapolation to a horizon
package analytics
