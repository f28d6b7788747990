// Package explain derives the human-facing layer of a scoring run:
// per-suburb reason codes, a confidence label, and longer narrative
// lines for reports. Everything here reads from values the models
// already produced; nothing feeds back into scoring.
package explain

import (
	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
)

// maxReasons caps the reason codes attached to one suburb.
const maxReasons = 3

// Score thresholds for reason codes.
const (
	growthReasonMin = 0.7
	yieldReasonMin  = 0.7
	riskReasonMax   = 0.3
	budgetReasonMin = 0.8
)

// DefaultReason is attached when no specific code fires.
const DefaultReason = "meets criteria"

// CohortStats carries the cross-suburb context reason codes compare
// against. Momentum is judged relative to the scored cohort, not an
// absolute threshold.
type CohortStats struct {
	HasMomentum    bool
	MomentumMedian float64
}

// NewCohortStats computes cohort context from the engineered table.
func NewCohortStats(table *dataset.Table) CohortStats {
	if !table.HasColumn(contracts.ColMarketMomentum) {
		return CohortStats{}
	}
	return CohortStats{
		HasMomentum:    true,
		MomentumMedian: dataset.Median(table.Values(contracts.ColMarketMomentum)),
	}
}

// Reasons returns the ordered reason codes for one scored suburb, at
// most maxReasons of them. Evaluation order is fixed; codes that fire
// beyond the cap are dropped, and a suburb with no codes gets the
// default.
func Reasons(s *contracts.ScoredSuburb, cohort CohortStats) []string {
	var codes []string

	if s.GrowthScore > growthReasonMin {
		codes = append(codes, "strong growth outlook")
	}
	if s.YieldScore > yieldReasonMin {
		codes = append(codes, "high rental yield")
	}
	if s.RiskScore < riskReasonMax {
		codes = append(codes, "low market risk")
	}
	if cohort.HasMomentum && s.Record != nil {
		if m, ok := s.Record.Metric(contracts.ColMarketMomentum); ok && m > cohort.MomentumMedian {
			codes = append(codes, "active market")
		}
	}
	if s.Record != nil {
		if b, ok := s.Record.Metric(contracts.ColBudgetAlignment); ok && b > budgetReasonMin {
			codes = append(codes, "fits budget")
		}
	}

	if len(codes) == 0 {
		return []string{DefaultReason}
	}
	if len(codes) > maxReasons {
		codes = codes[:maxReasons]
	}
	return codes
}
