package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Fingerprint returns a short stable digest of the table's content.
// Rows and metrics are folded in a canonical order, so tables holding
// the same data produce the same fingerprint regardless of load order.
// Used for cache keys: a changed table must miss the old entry.
func Fingerprint(t *Table) string {
	h := sha256.New()

	keys := make([]int, t.Len())
	for i := range keys {
		keys[i] = i
	}
	sort.Slice(keys, func(a, b int) bool {
		return t.records[keys[a]].Key() < t.records[keys[b]].Key()
	})

	cols := t.NumericColumns()
	for _, idx := range keys {
		r := t.records[idx]
		fmt.Fprintf(h, "%s\x1f", r.Key())
		for _, col := range cols {
			if v, ok := r.Metric(col); ok {
				fmt.Fprintf(h, "%s=%g\x1f", col, v)
			}
		}
	}

	return hex.EncodeToString(h.Sum(nil))[:16]
}
