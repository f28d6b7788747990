package features

import (
	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
)

// stateNormalizedColumns are the metrics that get a per-state z-score
// companion column. Comparing a Sydney suburb's price against the
// national distribution would drown the signal; within-state relative
// position is what matters.
var stateNormalizedColumns = []string{
	contracts.ColMedianPrice,
	contracts.ColRentalYieldHouses,
	contracts.ColPopulation,
	contracts.ColDistanceToCBD,
	contracts.ColSalesDaysOnMarket,
}

// normalizeByState appends "<col>_State_Normalized" columns holding
// the z-score of each row within its state cohort. The epsilon keeps
// degenerate cohorts finite; a single-row state normalizes to 0.
func normalizeByState(table *dataset.Table) {
	if !hasStates(table) {
		return
	}

	groups := table.GroupByState()
	for _, col := range stateNormalizedColumns {
		if !table.HasColumn(col) {
			continue
		}

		values := table.ValuesOr(col, 0)
		normalized := make([]float64, len(values))
		for _, rows := range groups {
			group := make([]float64, len(rows))
			for i, idx := range rows {
				group[i] = values[idx]
			}
			mean := dataset.Mean(group)
			std := dataset.SampleStd(group)
			for _, idx := range rows {
				normalized[idx] = (values[idx] - mean) / (std + 1e-6)
			}
		}
		table.SetColumn(col+contracts.StateNormalizedSuffix, normalized)
	}
}

func hasStates(table *dataset.Table) bool {
	for _, r := range table.Records() {
		if r.State != "" {
			return true
		}
	}
	return false
}
