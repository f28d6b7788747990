package features

import (
	"math"
	"strings"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
	"github.com/proplens/scout/internal/profile"
)

// Alignment columns score each suburb against the customer rather than
// the market. They are recomputed for every profile, which is why an
// engine instance is never shared across customers.
const neutralAlignment = 0.5

// addAlignment appends the customer-alignment columns. Missing or
// unparseable profile inputs produce the neutral 0.5 and are recorded
// as defaulted fields.
func addAlignment(table *dataset.Table, p *profile.CustomerProfile, quality *contracts.QualityReport) {
	addBudgetAlignment(table, p, quality)
	addYieldPreference(table, p, quality)
	addSuburbPreference(table, p)

	lifestyle := p.LifestyleScore()
	constant := make([]float64, table.Len())
	for i := range constant {
		constant[i] = lifestyle
	}
	table.SetColumn(contracts.ColLifestyleScore, constant)
}

// addBudgetAlignment scores distance from the customer's price band:
// 1.0 inside the band, linear decay with distance from the midpoint
// outside it, floored at 0.
func addBudgetAlignment(table *dataset.Table, p *profile.CustomerProfile, quality *contracts.QualityReport) {
	values := make([]float64, table.Len())

	min, max, ok := p.PriceBand()
	if !ok || !table.HasColumn(contracts.ColMedianPrice) {
		if !ok {
			quality.AddDefaulted("price_range")
		}
		for i := range values {
			values[i] = neutralAlignment
		}
		table.SetColumn(contracts.ColBudgetAlignment, values)
		return
	}

	mid := (min + max) / 2
	halfWidth := (max - min) / 2
	for i, r := range table.Records() {
		price := r.MetricOr(contracts.ColMedianPrice, 0)
		if price >= min && price <= max {
			values[i] = 1.0
			continue
		}
		values[i] = math.Max(0, 1-math.Abs(price-mid)/halfWidth)
	}
	table.SetColumn(contracts.ColBudgetAlignment, values)
}

// addYieldPreference scores closeness of each suburb's rental yield to
// the customer's target: 1/(1+|yield-target|).
func addYieldPreference(table *dataset.Table, p *profile.CustomerProfile, quality *contracts.QualityReport) {
	values := make([]float64, table.Len())

	target, ok := p.TargetYield()
	if !ok || !table.HasColumn(contracts.ColRentalYieldHouses) {
		if !ok {
			quality.AddDefaulted("target_yield")
		}
		for i := range values {
			values[i] = neutralAlignment
		}
		table.SetColumn(contracts.ColYieldPreference, values)
		return
	}

	for i, r := range table.Records() {
		y := r.MetricOr(contracts.ColRentalYieldHouses, 0)
		values[i] = 1 / (1 + math.Abs(y-target))
	}
	table.SetColumn(contracts.ColYieldPreference, values)
}

// addSuburbPreference marks suburbs on the customer's preferred list
// with 1.0, everything else 0.
func addSuburbPreference(table *dataset.Table, p *profile.CustomerProfile) {
	preferred := p.PreferredSuburbs()
	prefSet := make(map[string]struct{}, len(preferred))
	for _, s := range preferred {
		prefSet[s] = struct{}{}
	}

	values := make([]float64, table.Len())
	for i, r := range table.Records() {
		if _, ok := prefSet[strings.ToLower(r.Suburb)]; ok {
			values[i] = 1.0
		}
	}
	table.SetColumn(contracts.ColSuburbPreference, values)
}
