// Package dataset holds the in-memory suburb metrics table shared by
// every pipeline stage. A Table is column-sparse: suburbs carry only
// the metrics the source data had for them, and the column registry is
// the sorted union across rows so that iteration order is stable.
package dataset

import (
	"sort"

	"github.com/proplens/scout/internal/contracts"
)

// Table is an ordered collection of suburb records with a numeric
// column registry. Records keep their insertion order; columns are
// kept sorted by name for deterministic iteration.
type Table struct {
	records []*contracts.SuburbRecord
	columns []string
	colSet  map[string]struct{}
}

// New builds a table over the given records. The column registry is
// the union of every record's metric names.
func New(records []*contracts.SuburbRecord) *Table {
	t := &Table{
		records: records,
		colSet:  make(map[string]struct{}),
	}
	for _, r := range records {
		for name := range r.Metrics {
			t.colSet[name] = struct{}{}
		}
	}
	t.rebuildColumns()
	return t
}

func (t *Table) rebuildColumns() {
	t.columns = t.columns[:0]
	for name := range t.colSet {
		t.columns = append(t.columns, name)
	}
	sort.Strings(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns the underlying rows in insertion order.
func (t *Table) Records() []*contracts.SuburbRecord {
	return t.records
}

// Record returns row i.
func (t *Table) Record(i int) *contracts.SuburbRecord {
	return t.records[i]
}

// NumericColumns returns the registered column names in sorted order.
func (t *Table) NumericColumns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether any row carries the column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colSet[name]
	return ok
}

// Values returns the present values of a column in row order. Rows
// missing the column are skipped; use ValuesOr for a full-length
// vector.
func (t *Table) Values(name string) []float64 {
	out := make([]float64, 0, len(t.records))
	for _, r := range t.records {
		if v, ok := r.Metric(name); ok {
			out = append(out, v)
		}
	}
	return out
}

// ValuesOr returns one value per row, substituting def for rows that
// miss the column.
func (t *Table) ValuesOr(name string, def float64) []float64 {
	out := make([]float64, len(t.records))
	for i, r := range t.records {
		out[i] = r.MetricOr(name, def)
	}
	return out
}

// MissingCount returns how many rows lack the column.
func (t *Table) MissingCount(name string) int {
	n := 0
	for _, r := range t.records {
		if _, ok := r.Metric(name); !ok {
			n++
		}
	}
	return n
}

// SetColumn writes one value per row and registers the column. The
// slice length must equal Len; extra values are ignored, short slices
// leave trailing rows untouched.
func (t *Table) SetColumn(name string, values []float64) {
	for i, r := range t.records {
		if i >= len(values) {
			break
		}
		r.SetMetric(name, values[i])
	}
	t.registerColumn(name)
}

// SetCell writes a single cell and registers the column.
func (t *Table) SetCell(row int, name string, value float64) {
	t.records[row].SetMetric(name, value)
	t.registerColumn(name)
}

func (t *Table) registerColumn(name string) {
	if _, ok := t.colSet[name]; ok {
		return
	}
	t.colSet[name] = struct{}{}
	t.rebuildColumns()
}

// Clone deep-copies the table so a stage can append columns without
// mutating its caller's view.
func (t *Table) Clone() *Table {
	records := make([]*contracts.SuburbRecord, len(t.records))
	for i, r := range t.records {
		records[i] = r.Clone()
	}
	return New(records)
}

// Filter returns a new table holding only rows where keep is true.
// Records are shared, not copied; callers that mutate rows should
// Clone first.
func (t *Table) Filter(keep func(*contracts.SuburbRecord) bool) *Table {
	out := make([]*contracts.SuburbRecord, 0, len(t.records))
	for _, r := range t.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return New(out)
}

// GroupByState buckets row indices by state. Map iteration order is
// not deterministic; callers needing stable order sort the keys.
func (t *Table) GroupByState() map[string][]int {
	groups := make(map[string][]int)
	for i, r := range t.records {
		groups[r.State] = append(groups[r.State], i)
	}
	return groups
}
