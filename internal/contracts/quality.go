package contracts

import "sort"

// QualityReport accounts for every repair made while preparing a table.
// Imputation is counted, never silent; a downstream reviewer can see
// exactly how much of the input was synthesized.
type QualityReport struct {
	RowsIn          int            `json:"rows_in"`
	RowsKept        int            `json:"rows_kept"`
	RowsDropped     int            `json:"rows_dropped"`
	ImputedCells    map[string]int `json:"imputed_cells,omitempty"`    // column -> count
	DefaultedFields []string       `json:"defaulted_fields,omitempty"` // profile fields replaced by neutral defaults
	Issues          []string       `json:"issues,omitempty"`
}

// NewQualityReport creates an empty report for a table of n rows.
func NewQualityReport(rows int) *QualityReport {
	return &QualityReport{
		RowsIn:       rows,
		RowsKept:     rows,
		ImputedCells: make(map[string]int),
	}
}

// CountImputed records imputed cells for a column.
func (q *QualityReport) CountImputed(column string, n int) {
	if n <= 0 {
		return
	}
	if q.ImputedCells == nil {
		q.ImputedCells = make(map[string]int)
	}
	q.ImputedCells[column] += n
}

// DropRow records one dropped row with its reason.
func (q *QualityReport) DropRow(reason string) {
	q.RowsDropped++
	q.RowsKept--
	q.Issues = append(q.Issues, reason)
}

// AddDefaulted records a profile field that fell back to its neutral
// default.
func (q *QualityReport) AddDefaulted(field string) {
	for _, f := range q.DefaultedFields {
		if f == field {
			return
		}
	}
	q.DefaultedFields = append(q.DefaultedFields, field)
}

// TotalImputed returns the number of imputed cells across all columns.
func (q *QualityReport) TotalImputed() int {
	total := 0
	for _, n := range q.ImputedCells {
		total += n
	}
	return total
}

// ImputedColumns returns the imputed column names in sorted order for
// stable logging and rendering.
func (q *QualityReport) ImputedColumns() []string {
	cols := make([]string, 0, len(q.ImputedCells))
	for c := range q.ImputedCells {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}
