package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenpulse/internal/panel"
)

func corrPanel() panel.Panel {
	// GDP and CO2 rise together; RenewableShare is held constant so its
	// variance is zero.
	return panel.Panel{
		row("A", 2000, map[panel.Indicator]float64{panel.GDPCapita: 10, panel.CO2TotalKt: 100, panel.RenewableShare: 5}),
		row("B", 2000, map[panel.Indicator]float64{panel.GDPCapita: 20, panel.CO2TotalKt: 220, panel.RenewableShare: 5}),
		row("C", 2000, map[panel.Indicator]float64{panel.GDPCapita: 30, panel.CO2TotalKt: 290, panel.RenewableShare: 5}),
		row("D", 2000, map[panel.Indicator]float64{panel.GDPCapita: 40, panel.CO2TotalKt: 405, panel.RenewableShare: 5}),
	}
}

func TestCorrelate(t *testing.T) {
	cols := []panel.Indicator{panel.GDPCapita, panel.CO2TotalKt, panel.RenewableShare}
	m := Correlate(corrPanel(), cols, CorrelateOptions{})

	t.Run("symmetric with unit diagonal for varying columns", func(t *testing.T) {
		require.False(t, m.Empty())
		for i := range cols {
			for j := range cols {
				assert.InDelta(t, m.At(i, j), m.At(j, i), 1e-12)
			}
		}
		assert.Equal(t, 1.0, m.At(0, 0))
		assert.Equal(t, 1.0, m.At(1, 1))
	})

	t.Run("zero variance column yields NaN including its diagonal", func(t *testing.T) {
		assert.True(t, math.IsNaN(m.Get(panel.RenewableShare, panel.RenewableShare)))
		assert.True(t, math.IsNaN(m.Get(panel.RenewableShare, panel.GDPCapita)))
	})

	t.Run("strongly correlated pair", func(t *testing.T) {
		r := m.Get(panel.GDPCapita, panel.CO2TotalKt)
		assert.Greater(t, r, 0.99)
		assert.LessOrEqual(t, r, 1.0)
	})

	t.Run("coefficients stay within [-1, 1]", func(t *testing.T) {
		for i := range cols {
			for j := range cols {
				v := m.At(i, j)
				if !math.IsNaN(v) {
					assert.GreaterOrEqual(t, v, -1.0)
					assert.LessOrEqual(t, v, 1.0)
				}
			}
		}
	})
}

func TestCorrelateCompleteness(t *testing.T) {
	// One row is missing CO2, so complete-rows drops it for every pair
	// while pairwise keeps it for the GDP/flows pair.
	p := panel.Panel{
		row("A", 2000, map[panel.Indicator]float64{panel.GDPCapita: 1, panel.FinancialFlows: 2, panel.CO2TotalKt: 3}),
		row("B", 2000, map[panel.Indicator]float64{panel.GDPCapita: 2, panel.FinancialFlows: 5}),
		row("C", 2000, map[panel.Indicator]float64{panel.GDPCapita: 3, panel.FinancialFlows: 7, panel.CO2TotalKt: 9}),
		row("D", 2000, map[panel.Indicator]float64{panel.GDPCapita: 4, panel.FinancialFlows: 8, panel.CO2TotalKt: 11}),
	}
	cols := []panel.Indicator{panel.GDPCapita, panel.FinancialFlows, panel.CO2TotalKt}

	complete := Correlate(p, cols, CorrelateOptions{Completeness: CompleteRows})
	pairwise := Correlate(p, cols, CorrelateOptions{Completeness: PairwiseComplete})

	assert.Equal(t, 3, complete.Observations)
	assert.Nil(t, complete.Counts, "complete rows share one sample")
	assert.False(t, pairwise.Empty())

	// Pairwise cells draw from different samples; the counts say which.
	assert.Equal(t, 4, pairwise.ObservationsAt(0, 1), "GDP/flows finite in every row")
	assert.Equal(t, 3, pairwise.ObservationsAt(0, 2), "the row missing CO2 drops out")
	assert.Equal(t, pairwise.ObservationsAt(0, 2), pairwise.ObservationsAt(2, 0))
	assert.Equal(t, 3, pairwise.Observations, "headline count is the smallest pairwise sample")

	// Both policies agree on the pair where the same rows survive.
	assert.InDelta(t,
		complete.Get(panel.GDPCapita, panel.CO2TotalKt),
		pairwise.Get(panel.GDPCapita, panel.CO2TotalKt), 1e-12)
}

func TestCorrelateRowFilter(t *testing.T) {
	p := panel.Panel{
		row("A", 2000, map[panel.Indicator]float64{panel.FinancialFlows: 100, panel.RenewableCapacity: 1}),
		row("B", 2000, map[panel.Indicator]float64{panel.FinancialFlows: 0, panel.RenewableCapacity: 50}),
		row("C", 2000, map[panel.Indicator]float64{panel.FinancialFlows: 200, panel.RenewableCapacity: 2}),
		row("D", 2000, map[panel.Indicator]float64{panel.FinancialFlows: 300, panel.RenewableCapacity: 3}),
	}
	cols := []panel.Indicator{panel.FinancialFlows, panel.RenewableCapacity}

	all := Correlate(p, cols, CorrelateOptions{})
	recipients := Correlate(p, cols, CorrelateOptions{RowFilter: FlowsAbove(0)})

	// Among actual recipients aid and capacity move together; the
	// zero-flow outlier flips the sign for the all-countries variant.
	assert.Less(t, all.Get(panel.FinancialFlows, panel.RenewableCapacity), 0.0)
	assert.Greater(t, recipients.Get(panel.FinancialFlows, panel.RenewableCapacity), 0.99)
}

func TestCorrelateEmptyResults(t *testing.T) {
	tests := []struct {
		name string
		run  func() CorrelationMatrix
	}{
		{"empty panel", func() CorrelationMatrix {
			return Correlate(panel.Panel{}, []panel.Indicator{panel.GDPCapita}, CorrelateOptions{})
		}},
		{"no columns", func() CorrelationMatrix {
			return Correlate(corrPanel(), nil, CorrelateOptions{})
		}},
		{"filter eliminates every row", func() CorrelationMatrix {
			return Correlate(corrPanel(), []panel.Indicator{panel.GDPCapita},
				CorrelateOptions{RowFilter: FlowsAbove(1e12)})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.run().Empty())
		})
	}
}
