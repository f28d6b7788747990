// Package features implements the feature assembly stage: cleaning and
// standardization, missing-value imputation, derived market
// indicators, per-state normalization and customer-alignment columns.
// The output table is what both training and prediction see; the
// accompanying quality report accounts for every repair made on the
// way.
package features

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
	"github.com/proplens/scout/internal/profile"
	"github.com/proplens/scout/pkg/logger"
)

// Engineer runs the feature assembly stage.
type Engineer struct {
	logger *logger.Logger
	titler cases.Caser
}

// NewEngineer creates a feature engineer.
func NewEngineer(log *logger.Logger) *Engineer {
	return &Engineer{
		logger: log,
		titler: cases.Title(language.English),
	}
}

// Run produces the enriched feature table for a metrics table and a
// customer profile. The input table is never mutated. Run cannot
// fail: malformed rows are dropped and counted, missing values are
// imputed and counted, and unparseable profile fields degrade to
// neutral defaults recorded in the quality report.
func (e *Engineer) Run(table *dataset.Table, p *profile.CustomerProfile) (*dataset.Table, *contracts.QualityReport) {
	quality := contracts.NewQualityReport(table.Len())
	if table.Len() == 0 {
		return dataset.New(nil), quality
	}

	out := e.standardize(table.Clone(), quality)
	e.impute(out, quality)
	addDerivedIndicators(out)
	normalizeByState(out)
	addAlignment(out, p, quality)

	e.logger.WithFields(map[string]interface{}{
		"rows_in":   quality.RowsIn,
		"rows_kept": quality.RowsKept,
		"imputed":   quality.TotalImputed(),
		"columns":   len(out.NumericColumns()),
	}).Info("Feature assembly completed")

	return out, quality
}

// standardize trims and title-cases suburb names, upper-cases states,
// and drops rows left without a suburb identity.
func (e *Engineer) standardize(table *dataset.Table, quality *contracts.QualityReport) *dataset.Table {
	kept := make([]*contracts.SuburbRecord, 0, table.Len())
	for _, r := range table.Records() {
		r.Suburb = e.titler.String(strings.TrimSpace(r.Suburb))
		r.State = strings.ToUpper(strings.TrimSpace(r.State))
		if r.Suburb == "" {
			quality.DropRow("dropped row with empty suburb name")
			continue
		}
		kept = append(kept, r)
	}
	return dataset.New(kept)
}

// impute fills missing cells: growth/change columns with 0, everything
// else with the column median over the current table. Every filled
// cell is counted.
func (e *Engineer) impute(table *dataset.Table, quality *contracts.QualityReport) {
	for _, col := range table.NumericColumns() {
		missing := table.MissingCount(col)
		if missing == 0 {
			continue
		}

		fill := 0.0
		if !isRateColumn(col) {
			fill = dataset.Median(table.Values(col))
		}
		for i, r := range table.Records() {
			if _, ok := r.Metric(col); !ok {
				table.SetCell(i, col, fill)
			}
		}
		quality.CountImputed(col, missing)
	}
}

// isRateColumn matches growth-rate style columns, which impute with 0
// rather than the median.
func isRateColumn(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "growth") || strings.Contains(lower, "change")
}
