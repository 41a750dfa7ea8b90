package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopN(t *testing.T) {
	entries := []Entry{
		{Name: "first-five", Value: 5},
		{Name: "gap", Value: math.NaN()},
		{Name: "second-five", Value: 5},
		{Name: "three", Value: 3},
	}

	t.Run("ties keep first-seen order and missing never ranks", func(t *testing.T) {
		got := TopN(entries, 3, false)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"first-five", "second-five", "three"}, Names(got))
	})

	t.Run("length is min of n and eligible entries", func(t *testing.T) {
		assert.Len(t, TopN(entries, 10, false), 3)
		assert.Len(t, TopN(entries, 2, false), 2)
		assert.Len(t, TopN(entries, 0, false), 0)
	})

	t.Run("descending by default", func(t *testing.T) {
		got := TopN([]Entry{{"a", 1}, {"b", 9}, {"c", 4}}, 3, false)
		assert.Equal(t, []string{"b", "c", "a"}, Names(got))
	})

	t.Run("ascending flag reverses order", func(t *testing.T) {
		got := TopN([]Entry{{"a", 1}, {"b", 9}, {"c", 4}}, 2, true)
		assert.Equal(t, []string{"a", "c"}, Names(got))
	})

	t.Run("all-missing input yields empty ranking", func(t *testing.T) {
		got := TopN([]Entry{{"a", math.NaN()}, {"b", math.NaN()}}, 3, false)
		assert.Empty(t, got)
	})
}
