package explain

import (
	"fmt"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/profile"
)

// Narrative thresholds.
const (
	budgetExcellentMin = 0.8
	budgetGoodMin      = 0.6
	growthStrongMin    = 6.0
	growthModerateMin  = 4.0
)

// Narrative builds the longer report lines for one suburb: budget fit,
// yield against the customer's target, and historical growth. Lines
// are only emitted for metrics the record actually carries.
func Narrative(r *contracts.SuburbRecord, p *profile.CustomerProfile) []string {
	if r == nil {
		return nil
	}
	var lines []string

	if alignment, ok := r.Metric(contracts.ColBudgetAlignment); ok {
		switch {
		case alignment > budgetExcellentMin:
			lines = append(lines, "Excellent budget alignment")
		case alignment > budgetGoodMin:
			lines = append(lines, "Good budget fit")
		default:
			lines = append(lines, "Outside preferred budget range")
		}
	}

	if yield, ok := r.Metric(contracts.ColRentalYieldHouses); ok {
		if target, parsed := p.TargetYield(); parsed {
			if yield >= target {
				lines = append(lines, fmt.Sprintf("High rental yield (%.1f%% vs %.1f%% target)", yield, target))
			} else {
				lines = append(lines, fmt.Sprintf("Below target yield (%.1f%% vs %.1f%% target)", yield, target))
			}
		} else {
			lines = append(lines, fmt.Sprintf("Rental yield: %.1f%%", yield))
		}
	}

	if growth, ok := r.Metric(contracts.ColGrowth10Yr); ok {
		switch {
		case growth > growthStrongMin:
			lines = append(lines, fmt.Sprintf("Strong historical growth (%.1f%% p.a.)", growth))
		case growth > growthModerateMin:
			lines = append(lines, fmt.Sprintf("Moderate growth potential (%.1f%% p.a.)", growth))
		default:
			lines = append(lines, fmt.Sprintf("Slower growth area (%.1f%% p.a.)", growth))
		}
	}

	return lines
}
