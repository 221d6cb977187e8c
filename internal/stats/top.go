// Package stats contains statistics aggregation and reporting.
package stats

import (
	"sort"

	"github.com/ahmed-okal1/typing/internal/model"
)

// TopMissedKeys returns the n most missed keys, counts descending, ties
// broken by key order.
func TopMissedKeys(aggs []model.KeyErrorAggregate, n int) []model.KeyErrorAggregate {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	out := append([]model.KeyErrorAggregate(nil), aggs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Key < out[j].Key
		}
		return out[i].Count > out[j].Count
	})
	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}
