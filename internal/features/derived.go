package features

import (
	"math"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
)

// addDerivedIndicators appends the composite market indicators. Each
// one is computed only when every source column exists in the table;
// by this point imputation has filled every registered column, so a
// present column has a value on every row.
func addDerivedIndicators(table *dataset.Table) {
	n := table.Len()

	// Affordability: annual household income against price.
	if table.HasColumn(contracts.ColWeeklyIncome) && table.HasColumn(contracts.ColMedianPrice) {
		values := make([]float64, n)
		for i, r := range table.Records() {
			annual := r.MetricOr(contracts.ColWeeklyIncome, 0) * 52
			values[i] = annual / (r.MetricOr(contracts.ColMedianPrice, 0) + 1)
		}
		table.SetColumn(contracts.ColAffordabilityIndex, values)
	}

	// Buyer demand per active listing.
	if table.HasColumn(contracts.ColBuyerDemand) && table.HasColumn(contracts.ColTotalForSaleListings) {
		values := make([]float64, n)
		for i, r := range table.Records() {
			values[i] = r.MetricOr(contracts.ColBuyerDemand, 0) /
				(r.MetricOr(contracts.ColTotalForSaleListings, 0) + 1)
		}
		table.SetColumn(contracts.ColDemandSupplyPressure, values)
	}

	// Blend of yield and long-run growth.
	if table.HasColumn(contracts.ColRentalYieldHouses) && table.HasColumn(contracts.ColGrowth10Yr) {
		values := make([]float64, n)
		for i, r := range table.Records() {
			values[i] = r.MetricOr(contracts.ColRentalYieldHouses, 0)*0.4 +
				r.MetricOr(contracts.ColGrowth10Yr, 0)*0.6
		}
		table.SetColumn(contracts.ColInvestmentAttractiveness, values)
	}

	// Lower days-on-market and lower stock share mean a faster market.
	if table.HasColumn(contracts.ColSalesDaysOnMarket) && table.HasColumn(contracts.ColStockOnMarketPct) {
		values := make([]float64, n)
		for i, r := range table.Records() {
			dom := r.MetricOr(contracts.ColSalesDaysOnMarket, 0)
			som := r.MetricOr(contracts.ColStockOnMarketPct, 0)
			values[i] = 1 / ((dom/30 + 1) * (som/100 + 1))
		}
		table.SetColumn(contracts.ColMarketMomentum, values)
	}

	// Population size weighted by the high-income share.
	if table.HasColumn(contracts.ColPopulation) && table.HasColumn(contracts.ColHighIncomePct) {
		values := make([]float64, n)
		for i, r := range table.Records() {
			values[i] = math.Log1p(r.MetricOr(contracts.ColPopulation, 0)) *
				(r.MetricOr(contracts.ColHighIncomePct, 0) / 100)
		}
		table.SetColumn(contracts.ColDemographicStrength, values)
	}

	if table.HasColumn(contracts.ColMedianPrice) && table.HasColumn(contracts.ColPopulation) {
		values := make([]float64, n)
		for i, r := range table.Records() {
			values[i] = r.MetricOr(contracts.ColMedianPrice, 0) /
				(r.MetricOr(contracts.ColPopulation, 0) + 1)
		}
		table.SetColumn(contracts.ColPricePerCapita, values)
	}
}
