package analytics

import (
	"math"

	"greenpulse/internal/panel"
)

// Completeness selects how rows with partially missing columns enter a
// correlation matrix.
type Completeness int

const (
	// CompleteRows keeps only rows where every requested column is finite,
	// so all coefficients in one matrix share the same sample. This is the
	// default for the headline driver matrix.
	CompleteRows Completeness = iota + 1
	// PairwiseComplete computes each coefficient over the rows where that
	// specific pair is finite, maximizing sample size per cell at the cost
	// of cells drawn from different samples.
	PairwiseComplete
)

// String returns the policy name for logs and export metadata.
func (c Completeness) String() string {
	switch c {
	case CompleteRows:
		return "complete-rows"
	case PairwiseComplete:
		return "pairwise-complete"
	default:
		return "unknown"
	}
}

// CorrelateOptions configures a correlation pass.
type CorrelateOptions struct {
	// Completeness defaults to CompleteRows when unset.
	Completeness Completeness
	// RowFilter, when non-nil, restricts the cross-section before
	// correlating. Filtering to actual aid recipients (FinancialFlows > 0)
	// answers a materially different question than correlating across all
	// countries including non-recipients, so the variants are selected
	// explicitly here rather than baked in.
	RowFilter func(panel.Observation) bool
}

// FlowsAbove returns a row filter keeping observations whose financial
// flows exceed the threshold. FlowsAbove(0) is the "actual recipients"
// cross-section.
func FlowsAbove(threshold float64) func(panel.Observation) bool {
	return func(o panel.Observation) bool {
		v := o.Value(panel.FinancialFlows)
		return !panel.IsMissing(v) && v > threshold
	}
}

// CorrelationMatrix is a symmetric mapping (column, column) -> Pearson
// coefficient. Cells are NaN when a column has zero variance or the
// filtered cross-section is empty.
type CorrelationMatrix struct {
	Columns []panel.Indicator `json:"columns"`
	Coeffs  [][]float64       `json:"coeffs"`
	// Observations is the shared sample size under CompleteRows. Under
	// PairwiseComplete every cell draws its own sample, so Observations
	// holds the smallest pairwise count and Counts carries the per-pair
	// sizes.
	Observations int          `json:"observations"`
	Counts       [][]int      `json:"counts,omitempty"`
	Completeness Completeness `json:"-"`
}

// Empty reports whether the matrix carries no columns at all (the typed
// no-data result distinguishable from a populated-but-NaN matrix).
func (m CorrelationMatrix) Empty() bool {
	return len(m.Columns) == 0
}

// ObservationsAt returns the sample size behind cell (i, j): the per-pair
// count under PairwiseComplete, the shared count otherwise.
func (m CorrelationMatrix) ObservationsAt(i, j int) int {
	if i >= 0 && j >= 0 && i < len(m.Counts) && j < len(m.Counts[i]) {
		return m.Counts[i][j]
	}
	return m.Observations
}

// At returns the coefficient at matrix position (i, j).
func (m CorrelationMatrix) At(i, j int) float64 {
	if i < 0 || j < 0 || i >= len(m.Coeffs) || j >= len(m.Coeffs[i]) {
		return panel.Missing()
	}
	return m.Coeffs[i][j]
}

// Get returns the coefficient for a column pair, or NaN when either column
// is not part of the matrix.
func (m CorrelationMatrix) Get(a, b panel.Indicator) float64 {
	ai, bi := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ai = i
		}
		if c == b {
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return panel.Missing()
	}
	return m.Coeffs[ai][bi]
}

// Correlate computes the pairwise Pearson correlation matrix over the
// requested columns. An empty panel, an empty filtered cross-section, or an
// empty column list yields an empty matrix, never an error.
func Correlate(p panel.Panel, columns []panel.Indicator, opts CorrelateOptions) CorrelationMatrix {
	if len(columns) == 0 {
		return CorrelationMatrix{}
	}
	if opts.Completeness == 0 {
		opts.Completeness = CompleteRows
	}
	rows := p
	if opts.RowFilter != nil {
		rows = p.Filter(opts.RowFilter)
	}
	if len(rows) == 0 {
		return CorrelationMatrix{}
	}

	m := CorrelationMatrix{
		Columns:      columns,
		Coeffs:       make([][]float64, len(columns)),
		Completeness: opts.Completeness,
	}
	for i := range m.Coeffs {
		m.Coeffs[i] = make([]float64, len(columns))
	}

	switch opts.Completeness {
	case PairwiseComplete:
		m.Counts = make([][]int, len(columns))
		for i := range m.Counts {
			m.Counts[i] = make([]int, len(columns))
		}
		for i := range columns {
			for j := i; j < len(columns); j++ {
				x, y := pairedColumns(rows, columns[i], columns[j])
				r := pearson(x, y)
				m.Coeffs[i][j] = r
				m.Coeffs[j][i] = r
				m.Counts[i][j] = len(x)
				m.Counts[j][i] = len(x)
			}
		}
		m.Observations = m.Counts[0][0]
		for i := range m.Counts {
			for j := range m.Counts[i] {
				if m.Counts[i][j] < m.Observations {
					m.Observations = m.Counts[i][j]
				}
			}
		}
	default: // CompleteRows
		complete := rows.Filter(func(o panel.Observation) bool {
			for _, c := range columns {
				if panel.IsMissing(o.Value(c)) {
					return false
				}
			}
			return true
		})
		m.Observations = len(complete)
		vectors := make([][]float64, len(columns))
		for i, c := range columns {
			vectors[i] = make([]float64, len(complete))
			for k, o := range complete {
				vectors[i][k] = o.Value(c)
			}
		}
		for i := range columns {
			for j := i; j < len(columns); j++ {
				r := pearson(vectors[i], vectors[j])
				m.Coeffs[i][j] = r
				m.Coeffs[j][i] = r
			}
		}
	}

	return m
}

// pairedColumns extracts the rows where both columns are finite.
func pairedColumns(p panel.Panel, a, b panel.Indicator) ([]float64, []float64) {
	var x, y []float64
	for _, o := range p {
		va, vb := o.Value(a), o.Value(b)
		if panel.IsMissing(va) || panel.IsMissing(vb) {
			continue
		}
		x = append(x, va)
		y = append(y, vb)
	}
	return x, y
}

// pearson computes the Pearson coefficient of two equal-length samples.
// Fewer than two observations or zero variance in either sample yields NaN.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n < 2 || n != len(y) {
		return math.NaN()
	}

	var meanX, meanY float64
	for i := 0; i < n; i++ {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}
