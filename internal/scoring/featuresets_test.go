package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
)

func tableOf(rows ...map[string]float64) *dataset.Table {
	records := make([]*contracts.SuburbRecord, len(rows))
	for i, metrics := range rows {
		rec := contracts.NewSuburbRecord(fmt.Sprintf("Suburb %d", i), "NSW")
		for k, v := range metrics {
			rec.SetMetric(k, v)
		}
		records[i] = rec
	}
	return dataset.New(records)
}

func TestBuildFeatureSets_CuratedOrder(t *testing.T) {
	table := tableOf(map[string]float64{
		contracts.ColDemandSupplyPressure: 1.2,
		contracts.ColPopulation:           25000,
		contracts.ColGrowth10Yr:           6.5,
		contracts.ColPriceChange12Mo:      5.0,
	})

	sets := BuildFeatureSets(table)

	require.Equal(t, []string{
		contracts.ColGrowth10Yr,
		contracts.ColPriceChange12Mo,
		contracts.ColPopulation,
		contracts.ColDemandSupplyPressure,
	}, sets[contracts.TargetGrowth].Columns)
	assert.True(t, sets[contracts.TargetGrowth].Usable())
	assert.Empty(t, sets[contracts.TargetYield].Columns)
	assert.Empty(t, sets[contracts.TargetRisk].Columns)
}

func TestBuildFeatureSets_LeftoverRoundRobin(t *testing.T) {
	table := tableOf(map[string]float64{
		"Alpha Extra": 1,
		"Beta Extra":  2,
		"Delta Extra": 3,
		"Gamma Extra": 4,
	})

	sets := BuildFeatureSets(table)

	// Sorted leftovers cycle growth, yield, risk, growth.
	assert.Equal(t, []string{"Alpha Extra", "Gamma Extra"}, sets[contracts.TargetGrowth].Columns)
	assert.Equal(t, []string{"Beta Extra"}, sets[contracts.TargetYield].Columns)
	assert.Equal(t, []string{"Delta Extra"}, sets[contracts.TargetRisk].Columns)
}

func TestBuildFeatureSets_ExclusionsNeverDistributed(t *testing.T) {
	table := tableOf(map[string]float64{
		contracts.ColMedianPrice:     800000,
		contracts.ColBudgetAlignment: 1.0,
		"Custom_Score":               0.5,
		"Price_State_Normalized":     1.1,
		"Suburbia Count":             3,
		"Statewide Total":            9,
	})

	sets := BuildFeatureSets(table)

	var all []string
	for _, target := range contracts.AllTargets() {
		all = append(all, sets[target].Columns...)
	}
	assert.Equal(t, []string{contracts.ColMedianPrice}, all)
}

func TestBuildFeatureSets_CuratedScoreColumnStays(t *testing.T) {
	// Yield_Preference_Score carries an excluded substring but is
	// curated, so it belongs to the yield model regardless.
	table := tableOf(map[string]float64{
		contracts.ColRentalYieldHouses: 4.5,
		contracts.ColMedianRent:        520,
		contracts.ColYieldPreference:   0.8,
	})

	sets := BuildFeatureSets(table)

	assert.Equal(t, []string{
		contracts.ColRentalYieldHouses,
		contracts.ColMedianRent,
		contracts.ColYieldPreference,
	}, sets[contracts.TargetYield].Columns)
	assert.True(t, sets[contracts.TargetYield].Usable())
}

func TestBuildFeatureSets_Deterministic(t *testing.T) {
	build := func() map[contracts.Target]*contracts.FeatureSet {
		return BuildFeatureSets(tableOf(map[string]float64{
			contracts.ColGrowth10Yr:        6.5,
			contracts.ColRentalYieldHouses: 4.5,
			contracts.ColVacancyRate:       2.0,
			contracts.ColMedianPrice:       800000,
			"Extra One":                    1,
			"Extra Two":                    2,
		}))
	}

	assert.Equal(t, build(), build())
}

func TestBuildFeatureSets_EmptyTable(t *testing.T) {
	sets := BuildFeatureSets(dataset.New(nil))

	for _, target := range contracts.AllTargets() {
		require.NotNil(t, sets[target])
		assert.False(t, sets[target].Usable())
	}
}
