// Package report renders the analysis bundle into human-readable
// artifacts: PNG figures for each section and a single self-contained
// HTML dashboard that embeds them.
//
// Time-series and ranking figures are drawn with go-charts; the raw
// distribution figures (histogram, box plots) use gonum/plot. The
// Generator renders all figures concurrently and skips sections with
// nothing to draw.
package report
