package selection

import (
	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/profile"
	"github.com/proplens/scout/pkg/logger"
)

// Budget flexibility applied around the customer's stated band.
const (
	budgetFlexLow  = 0.9
	budgetFlexHigh = 1.1
)

// Risk score ceilings per stated tolerance. High tolerance has no
// ceiling at all.
const (
	maxRiskLowTolerance    = 0.5
	maxRiskMediumTolerance = 0.7
)

// Screener applies the post-scoring eligibility rules: a flexible
// budget band and a risk-tolerance ceiling. Filters only ever remove
// candidates; scores are never adjusted here.
type Screener struct {
	logger *logger.Logger
}

// ScreenResult carries the survivors plus per-filter rejection counts.
type ScreenResult struct {
	Passed   []contracts.ScoredSuburb
	Filtered map[string]int // filter name -> count
}

// NewScreener creates a new screener
func NewScreener(logger *logger.Logger) *Screener {
	return &Screener{
		logger: logger,
	}
}

// Screen filters scored suburbs against the customer profile. An
// unparseable price band simply disables the budget filter; it never
// rejects anyone.
func (s *Screener) Screen(scored []contracts.ScoredSuburb, p *profile.CustomerProfile) *ScreenResult {
	result := &ScreenResult{
		Passed:   make([]contracts.ScoredSuburb, 0, len(scored)),
		Filtered: make(map[string]int),
	}

	minPrice, maxPrice, hasBand := p.PriceBand()
	flexMin := minPrice * budgetFlexLow
	flexMax := maxPrice * budgetFlexHigh
	tolerance := p.RiskTolerance()

	for _, sc := range scored {
		reason := checkConditions(&sc, hasBand, flexMin, flexMax, tolerance)
		if reason == "" {
			result.Passed = append(result.Passed, sc)
		} else {
			result.Filtered[reason]++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"total_input":  len(scored),
		"passed":       len(result.Passed),
		"filtered_out": len(scored) - len(result.Passed),
		"filters":      result.Filtered,
	}).Info("Rule filtering completed")

	return result
}

// checkConditions checks one suburb against all filters.
// Returns empty string if passed, otherwise the filter name.
func checkConditions(sc *contracts.ScoredSuburb, hasBand bool, flexMin, flexMax float64, tolerance string) string {
	// Budget filter: band edges are inclusive after the flexibility
	// margin. Suburbs without a price cannot be rejected on budget.
	if hasBand {
		if price, ok := sc.MedianPrice(); ok {
			if price < flexMin || price > flexMax {
				return "budget"
			}
		}
	}

	// Risk tolerance filter
	switch tolerance {
	case "low":
		if sc.RiskScore >= maxRiskLowTolerance {
			return "risk_tolerance"
		}
	case "high":
		// No risk ceiling for high tolerance
	default:
		if sc.RiskScore >= maxRiskMediumTolerance {
			return "risk_tolerance"
		}
	}

	// Passed all filters
	return ""
}
