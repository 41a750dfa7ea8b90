package analytics

import (
	"math"

	"greenpulse/internal/panel"
)

// IndexBase is the value the anchor point of an indexed series is rebased to.
const IndexBase = 100.0

// Normalize rebases a series so the element at baseIdx equals 100, letting
// heterogeneous-unit series (GDP vs emissions vs intensity) share one scale.
// When the base element is zero, missing, or out of range, the result is
// non-finite rather than a panic; callers must substitute a safe base or
// skip normalization instead of letting the division leak into a report.
func Normalize(series []float64, baseIdx int) []float64 {
	out := make([]float64, len(series))
	if baseIdx < 0 || baseIdx >= len(series) {
		for i := range out {
			out[i] = panel.Missing()
		}
		return out
	}
	base := series[baseIdx]
	for i, v := range series {
		out[i] = v / base * IndexBase
	}
	return out
}

// Rebase is the guarded variant of Normalize: it reports whether the base
// element is usable (finite and non-zero) so callers can skip the section
// instead of rendering infinities.
func Rebase(series []float64, baseIdx int) ([]float64, bool) {
	if baseIdx < 0 || baseIdx >= len(series) {
		return nil, false
	}
	base := series[baseIdx]
	if panel.IsMissing(base) || base == 0 || math.IsInf(base, 0) {
		return nil, false
	}
	return Normalize(series, baseIdx), true
}
