package analytics

import (
	"sort"

	"greenpulse/internal/panel"
)

// Entry is one ranked (entity, metric value) pair.
type Entry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// TopN returns the n highest entries by value (lowest when ascending is
// set). Entries with a missing metric are dropped before ranking, never
// ranked as lowest or coerced to zero. Ties keep input order: the
// first-seen entity wins. The result length is min(n, eligible entries).
func TopN(entries []Entry, n int, ascending bool) []Entry {
	if n <= 0 {
		return nil
	}

	eligible := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if panel.IsMissing(e.Value) {
			continue
		}
		eligible = append(eligible, e)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if ascending {
			return eligible[i].Value < eligible[j].Value
		}
		return eligible[i].Value > eligible[j].Value
	})

	if len(eligible) > n {
		eligible = eligible[:n]
	}
	return eligible
}

// Names returns the entity names of a ranking in rank order.
func Names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
