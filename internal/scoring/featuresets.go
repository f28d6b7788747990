package scoring

import (
	"strings"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
)

// Curated feature lists per model, in priority order. Only columns
// actually present in the table make it into the final set.
var (
	// Growth: price appreciation and demand pressure indicators.
	growthFeatureList = []string{
		contracts.ColGrowth10Yr,
		contracts.ColPriceChange3Mo,
		contracts.ColPriceChange12Mo,
		contracts.ColPriceChange36Mo,
		contracts.ColPopulation,
		contracts.ColPopForecast2026,
		contracts.ColPopForecast2031,
		contracts.ColPopChange10Yr,
		contracts.ColDemandSupplyPressure,
		contracts.ColMarketMomentum,
		contracts.ColDemographicStrength,
	}

	// Yield: rental return indicators.
	yieldFeatureList = []string{
		contracts.ColRentalYieldHouses,
		contracts.ColRentalYield2BR,
		contracts.ColRentalYield3BR,
		contracts.ColRentalYield4BR,
		contracts.ColMedianRent,
		contracts.ColRenterPct,
		contracts.ColHighIncomePct,
		contracts.ColRentAffordablePct,
		contracts.ColYieldPreference,
	}

	// Risk: volatility and vacancy indicators.
	riskFeatureList = []string{
		contracts.ColVacancyRate,
		contracts.ColSalesDaysOnMarket,
		contracts.ColStockOnMarketPct,
		contracts.ColVendorDiscount,
		contracts.ColInventoryMonths,
		contracts.ColDOMChange3Mo,
		contracts.ColDOMChange12Mo,
		contracts.ColMortgageStressPct,
		contracts.ColLowIncomePct,
	}

	curatedFeatureLists = map[contracts.Target][]string{
		contracts.TargetGrowth: growthFeatureList,
		contracts.TargetYield:  yieldFeatureList,
		contracts.TargetRisk:   riskFeatureList,
	}

	// Columns carrying any of these substrings never join a model via
	// the leftover distribution. Curated entries are exempt, which is
	// how Yield_Preference_Score stays in the yield set.
	leftoverExclusions = []string{"_Normalized", "_Score", "Suburb", "State"}
)

// BuildFeatureSets assigns table columns to the three models. Curated
// columns come first in curated order; numeric columns claimed by no
// curated list are distributed round-robin across growth, yield, risk
// in sorted column order, so the assignment is deterministic for a
// given table.
func BuildFeatureSets(table *dataset.Table) map[contracts.Target]*contracts.FeatureSet {
	available := make(map[string]bool)
	for _, col := range table.NumericColumns() {
		available[col] = true
	}

	sets := make(map[contracts.Target]*contracts.FeatureSet, len(curatedFeatureLists))
	claimed := make(map[string]bool)
	for _, target := range contracts.AllTargets() {
		fs := &contracts.FeatureSet{Target: target}
		for _, col := range curatedFeatureLists[target] {
			if available[col] {
				fs.Columns = append(fs.Columns, col)
				claimed[col] = true
			}
		}
		sets[target] = fs
	}

	order := contracts.AllTargets()
	i := 0
	for _, col := range table.NumericColumns() {
		if claimed[col] || excludedFromLeftovers(col) {
			continue
		}
		target := order[i%len(order)]
		sets[target].Columns = append(sets[target].Columns, col)
		i++
	}

	return sets
}

func excludedFromLeftovers(col string) bool {
	for _, sub := range leftoverExclusions {
		if strings.Contains(col, sub) {
			return true
		}
	}
	return false
}
