package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
	"github.com/proplens/scout/internal/profile"
	"github.com/proplens/scout/pkg/config"
	"github.com/proplens/scout/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func record(suburb, state string, metrics map[string]float64) *contracts.SuburbRecord {
	r := contracts.NewSuburbRecord(suburb, state)
	for k, v := range metrics {
		r.SetMetric(k, v)
	}
	return r
}

func TestEngineer_Run_StandardizesIdentity(t *testing.T) {
	e := NewEngineer(testLogger())

	table := dataset.New([]*contracts.SuburbRecord{
		record("  parramatta  ", "nsw", map[string]float64{contracts.ColMedianPrice: 1000000}),
		record("   ", "vic", map[string]float64{contracts.ColMedianPrice: 700000}),
		record("box HILL", "vic", map[string]float64{contracts.ColMedianPrice: 900000}),
	})

	out, quality := e.Run(table, &profile.CustomerProfile{})

	require.Equal(t, 2, out.Len())
	assert.Equal(t, "Parramatta", out.Record(0).Suburb)
	assert.Equal(t, "NSW", out.Record(0).State)
	assert.Equal(t, "Box Hill", out.Record(1).Suburb)
	assert.Equal(t, "VIC", out.Record(1).State)

	assert.Equal(t, 3, quality.RowsIn)
	assert.Equal(t, 2, quality.RowsKept)
	assert.Equal(t, 1, quality.RowsDropped)
	assert.Len(t, quality.Issues, 1)
}

func TestEngineer_Run_EmptyTable(t *testing.T) {
	e := NewEngineer(testLogger())

	out, quality := e.Run(dataset.New(nil), &profile.CustomerProfile{})

	assert.Equal(t, 0, out.Len())
	assert.Equal(t, 0, quality.RowsIn)
	assert.Equal(t, 0, quality.RowsKept)
}

func TestEngineer_Impute(t *testing.T) {
	e := NewEngineer(testLogger())

	table := dataset.New([]*contracts.SuburbRecord{
		record("A", "NSW", map[string]float64{
			contracts.ColPriceChange12Mo: 5.0,
			contracts.ColMedianRent:      500,
		}),
		record("B", "NSW", map[string]float64{
			contracts.ColMedianRent: 600,
		}),
		record("C", "VIC", map[string]float64{
			contracts.ColPriceChange12Mo: 3.0,
		}),
	})

	quality := contracts.NewQualityReport(table.Len())
	e.impute(table, quality)

	// Change columns impute with 0, everything else with the median.
	assert.Equal(t, 0.0, table.Record(1).MetricOr(contracts.ColPriceChange12Mo, -1))
	assert.Equal(t, 550.0, table.Record(2).MetricOr(contracts.ColMedianRent, -1))

	assert.Equal(t, 1, quality.ImputedCells[contracts.ColPriceChange12Mo])
	assert.Equal(t, 1, quality.ImputedCells[contracts.ColMedianRent])
	assert.Equal(t, 2, quality.TotalImputed())
}

func TestIsRateColumn(t *testing.T) {
	tests := []struct {
		column string
		want   bool
	}{
		{contracts.ColGrowth10Yr, true},
		{contracts.ColPriceChange3Mo, true},
		{contracts.ColPriceChange12Mo, true},
		{contracts.ColPopChange10Yr, true},
		{contracts.ColDOMChange3Mo, true},
		{contracts.ColMedianRent, false},
		{contracts.ColPopulation, false},
		{contracts.ColVacancyRate, false},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.want, isRateColumn(tt.column))
		})
	}
}

func TestAddDerivedIndicators(t *testing.T) {
	table := dataset.New([]*contracts.SuburbRecord{
		record("A", "NSW", map[string]float64{
			contracts.ColWeeklyIncome:         2000,
			contracts.ColMedianPrice:          1039999,
			contracts.ColBuyerDemand:          99,
			contracts.ColTotalForSaleListings: 49,
			contracts.ColRentalYieldHouses:    4.0,
			contracts.ColGrowth10Yr:           6.0,
			contracts.ColSalesDaysOnMarket:    30,
			contracts.ColStockOnMarketPct:     100,
			contracts.ColPopulation:           10000,
			contracts.ColHighIncomePct:        50,
		}),
	})

	addDerivedIndicators(table)

	r := table.Record(0)

	// (2000 * 52) / (1039999 + 1)
	assert.InDelta(t, 0.1, r.MetricOr(contracts.ColAffordabilityIndex, -1), 1e-12)
	// 99 / (49 + 1)
	assert.InDelta(t, 1.98, r.MetricOr(contracts.ColDemandSupplyPressure, -1), 1e-12)
	// 4.0*0.4 + 6.0*0.6
	assert.InDelta(t, 5.2, r.MetricOr(contracts.ColInvestmentAttractiveness, -1), 1e-12)
	// 1 / ((30/30 + 1) * (100/100 + 1))
	assert.InDelta(t, 0.25, r.MetricOr(contracts.ColMarketMomentum, -1), 1e-12)
	// ln(1+10000) * (50/100)
	assert.InDelta(t, math.Log1p(10000)*0.5, r.MetricOr(contracts.ColDemographicStrength, -1), 1e-12)
	// 1039999 / (10000 + 1)
	assert.InDelta(t, 1039999.0/10001.0, r.MetricOr(contracts.ColPricePerCapita, -1), 1e-12)
}

func TestAddDerivedIndicators_MissingSources(t *testing.T) {
	// Only price and population present: price-per-capita is the only
	// indicator whose sources are all available.
	table := dataset.New([]*contracts.SuburbRecord{
		record("A", "NSW", map[string]float64{
			contracts.ColMedianPrice: 800000,
			contracts.ColPopulation:  20000,
		}),
	})

	addDerivedIndicators(table)

	assert.True(t, table.HasColumn(contracts.ColPricePerCapita))
	assert.False(t, table.HasColumn(contracts.ColAffordabilityIndex))
	assert.False(t, table.HasColumn(contracts.ColDemandSupplyPressure))
	assert.False(t, table.HasColumn(contracts.ColInvestmentAttractiveness))
	assert.False(t, table.HasColumn(contracts.ColMarketMomentum))
	assert.False(t, table.HasColumn(contracts.ColDemographicStrength))
}

func TestNormalizeByState(t *testing.T) {
	table := dataset.New([]*contracts.SuburbRecord{
		record("A", "NSW", map[string]float64{contracts.ColMedianPrice: 1000000}),
		record("B", "NSW", map[string]float64{contracts.ColMedianPrice: 1200000}),
		record("C", "VIC", map[string]float64{contracts.ColMedianPrice: 800000}),
	})

	normalizeByState(table)

	col := contracts.ColMedianPrice + contracts.StateNormalizedSuffix
	require.True(t, table.HasColumn(col))

	// NSW: mean 1.1M, sample std 100000*sqrt(2).
	z := 100000.0 / (100000.0*math.Sqrt2 + 1e-6)
	assert.InDelta(t, -z, table.Record(0).MetricOr(col, 99), 1e-9)
	assert.InDelta(t, z, table.Record(1).MetricOr(col, 99), 1e-9)

	// Single-row cohort normalizes to 0, not NaN.
	assert.InDelta(t, 0.0, table.Record(2).MetricOr(col, 99), 1e-12)
}

func TestNormalizeByState_NoStates(t *testing.T) {
	table := dataset.New([]*contracts.SuburbRecord{
		record("A", "", map[string]float64{contracts.ColMedianPrice: 1000000}),
		record("B", "", map[string]float64{contracts.ColMedianPrice: 1200000}),
	})

	normalizeByState(table)

	assert.False(t, table.HasColumn(contracts.ColMedianPrice+contracts.StateNormalizedSuffix))
}

func TestAddBudgetAlignment(t *testing.T) {
	p := &profile.CustomerProfile{}
	p.Preferences.PriceRange.Min = "500000"
	p.Preferences.PriceRange.Max = "700000"

	table := dataset.New([]*contracts.SuburbRecord{
		record("Mid", "NSW", map[string]float64{contracts.ColMedianPrice: 600000}),
		record("MinEdge", "NSW", map[string]float64{contracts.ColMedianPrice: 500000}),
		record("MaxEdge", "NSW", map[string]float64{contracts.ColMedianPrice: 700000}),
		record("Above", "NSW", map[string]float64{contracts.ColMedianPrice: 800000}),
		record("Below", "NSW", map[string]float64{contracts.ColMedianPrice: 400000}),
	})

	quality := contracts.NewQualityReport(table.Len())
	addBudgetAlignment(table, p, quality)

	assert.Equal(t, 1.0, table.Record(0).MetricOr(contracts.ColBudgetAlignment, -1))
	assert.Equal(t, 1.0, table.Record(1).MetricOr(contracts.ColBudgetAlignment, -1))
	assert.Equal(t, 1.0, table.Record(2).MetricOr(contracts.ColBudgetAlignment, -1))
	// Outside the band the distance term exceeds the half width, so the
	// floor takes over.
	assert.Equal(t, 0.0, table.Record(3).MetricOr(contracts.ColBudgetAlignment, -1))
	assert.Equal(t, 0.0, table.Record(4).MetricOr(contracts.ColBudgetAlignment, -1))
	assert.Empty(t, quality.DefaultedFields)
}

func TestAddBudgetAlignment_MissingBand(t *testing.T) {
	table := dataset.New([]*contracts.SuburbRecord{
		record("A", "NSW", map[string]float64{contracts.ColMedianPrice: 600000}),
		record("B", "NSW", map[string]float64{contracts.ColMedianPrice: 900000}),
	})

	quality := contracts.NewQualityReport(table.Len())
	addBudgetAlignment(table, &profile.CustomerProfile{}, quality)

	assert.Equal(t, 0.5, table.Record(0).MetricOr(contracts.ColBudgetAlignment, -1))
	assert.Equal(t, 0.5, table.Record(1).MetricOr(contracts.ColBudgetAlignment, -1))
	assert.Equal(t, []string{"price_range"}, quality.DefaultedFields)
}

func TestAddBudgetAlignment_UnparseableBand(t *testing.T) {
	p := &profile.CustomerProfile{}
	p.Preferences.PriceRange.Min = "around 500k"
	p.Preferences.PriceRange.Max = "700000"

	table := dataset.New([]*contracts.SuburbRecord{
		record("A", "NSW", map[string]float64{contracts.ColMedianPrice: 600000}),
	})

	quality := contracts.NewQualityReport(table.Len())
	addBudgetAlignment(table, p, quality)

	assert.Equal(t, 0.5, table.Record(0).MetricOr(contracts.ColBudgetAlignment, -1))
	assert.Equal(t, []string{"price_range"}, quality.DefaultedFields)
}

func TestAddBudgetAlignment_NoPriceColumn(t *testing.T) {
	p := &profile.CustomerProfile{}
	p.Preferences.PriceRange.Min = "500000"
	p.Preferences.PriceRange.Max = "700000"

	table := dataset.New([]*contracts.SuburbRecord{
		record("A", "NSW", map[string]float64{contracts.ColMedianRent: 550}),
	})

	quality := contracts.NewQualityReport(table.Len())
	addBudgetAlignment(table, p, quality)

	// The band parsed fine; the data just has no price column. Neutral
	// score, but not a defaulted profile field.
	assert.Equal(t, 0.5, table.Record(0).MetricOr(contracts.ColBudgetAlignment, -1))
	assert.Empty(t, quality.DefaultedFields)
}

func TestAddYieldPreference(t *testing.T) {
	// Blank target yield means the 4.0 default is a real target.
	table := dataset.New([]*contracts.SuburbRecord{
		record("A", "NSW", map[string]float64{contracts.ColRentalYieldHouses: 4.0}),
		record("B", "NSW", map[string]float64{contracts.ColRentalYieldHouses: 3.0}),
		record("C", "NSW", map[string]float64{contracts.ColRentalYieldHouses: 5.5}),
	})

	quality := contracts.NewQualityReport(table.Len())
	addYieldPreference(table, &profile.CustomerProfile{}, quality)

	assert.InDelta(t, 1.0, table.Record(0).MetricOr(contracts.ColYieldPreference, -1), 1e-12)
	assert.InDelta(t, 0.5, table.Record(1).MetricOr(contracts.ColYieldPreference, -1), 1e-12)
	assert.InDelta(t, 0.4, table.Record(2).MetricOr(contracts.ColYieldPreference, -1), 1e-12)
	assert.Empty(t, quality.DefaultedFields)
}

func TestAddYieldPreference_UnparseableTarget(t *testing.T) {
	p := &profile.CustomerProfile{}
	p.Goals.TargetYield = "ask me later"

	table := dataset.New([]*contracts.SuburbRecord{
		record("A", "NSW", map[string]float64{contracts.ColRentalYieldHouses: 4.0}),
	})

	quality := contracts.NewQualityReport(table.Len())
	addYieldPreference(table, p, quality)

	assert.Equal(t, 0.5, table.Record(0).MetricOr(contracts.ColYieldPreference, -1))
	assert.Equal(t, []string{"target_yield"}, quality.DefaultedFields)
}

func TestAddSuburbPreference(t *testing.T) {
	p := &profile.CustomerProfile{}
	p.Preferences.PreferredSuburbs = []string{"Parramatta", " BLACKTOWN "}

	table := dataset.New([]*contracts.SuburbRecord{
		record("Parramatta", "NSW", map[string]float64{contracts.ColMedianPrice: 750000}),
		record("Blacktown", "NSW", map[string]float64{contracts.ColMedianPrice: 680000}),
		record("Penrith", "NSW", map[string]float64{contracts.ColMedianPrice: 650000}),
	})

	addSuburbPreference(table, p)

	assert.Equal(t, 1.0, table.Record(0).MetricOr(contracts.ColSuburbPreference, -1))
	assert.Equal(t, 1.0, table.Record(1).MetricOr(contracts.ColSuburbPreference, -1))
	assert.Equal(t, 0.0, table.Record(2).MetricOr(contracts.ColSuburbPreference, -1))
}

func TestAddAlignment_LifestyleColumn(t *testing.T) {
	p := &profile.CustomerProfile{}
	p.Lifestyle.ProximityToCBD = "High"
	p.Lifestyle.SchoolQuality = "High"
	p.Lifestyle.TransportAccess = "High"
	p.Lifestyle.ShoppingAmenities = "High"
	p.Lifestyle.FutureDevelopment = "High"

	table := dataset.New([]*contracts.SuburbRecord{
		record("A", "NSW", map[string]float64{contracts.ColMedianPrice: 600000}),
		record("B", "VIC", map[string]float64{contracts.ColMedianPrice: 700000}),
	})

	quality := contracts.NewQualityReport(table.Len())
	addAlignment(table, p, quality)

	assert.Equal(t, 1.0, table.Record(0).MetricOr(contracts.ColLifestyleScore, -1))
	assert.Equal(t, 1.0, table.Record(1).MetricOr(contracts.ColLifestyleScore, -1))

	// Zero profile: every factor defaults to medium.
	table2 := dataset.New([]*contracts.SuburbRecord{
		record("A", "NSW", map[string]float64{contracts.ColMedianPrice: 600000}),
	})
	addAlignment(table2, &profile.CustomerProfile{}, contracts.NewQualityReport(1))
	assert.InDelta(t, 0.6, table2.Record(0).MetricOr(contracts.ColLifestyleScore, -1), 1e-12)
}

func TestEngineer_Run_DoesNotMutateInput(t *testing.T) {
	e := NewEngineer(testLogger())

	input := dataset.New([]*contracts.SuburbRecord{
		record("  parramatta  ", "nsw", map[string]float64{contracts.ColMedianPrice: 750000}),
	})

	_, _ = e.Run(input, &profile.CustomerProfile{})

	assert.Equal(t, "  parramatta  ", input.Record(0).Suburb)
	assert.Equal(t, "nsw", input.Record(0).State)
	assert.False(t, input.HasColumn(contracts.ColBudgetAlignment))
	assert.False(t, input.HasColumn(contracts.ColLifestyleScore))
}

func TestEngineer_Run_FullPipeline(t *testing.T) {
	e := NewEngineer(testLogger())

	table := dataset.New([]*contracts.SuburbRecord{
		record("parramatta", "nsw", map[string]float64{
			contracts.ColMedianPrice:          750000,
			contracts.ColRentalYieldHouses:    4.2,
			contracts.ColGrowth10Yr:           6.5,
			contracts.ColPopulation:           25000,
			contracts.ColBuyerDemand:          120,
			contracts.ColTotalForSaleListings: 40,
		}),
		record("blacktown", "nsw", map[string]float64{
			contracts.ColMedianPrice:          680000,
			contracts.ColRentalYieldHouses:    4.8,
			contracts.ColPopulation:           40000,
			contracts.ColBuyerDemand:          80,
			contracts.ColTotalForSaleListings: 60,
		}),
		record("box hill", "vic", map[string]float64{
			contracts.ColMedianPrice:          1150000,
			contracts.ColRentalYieldHouses:    3.1,
			contracts.ColGrowth10Yr:           7.2,
			contracts.ColBuyerDemand:          90,
			contracts.ColTotalForSaleListings: 70,
		}),
		record("geelong", "vic", map[string]float64{
			contracts.ColMedianPrice:          560000,
			contracts.ColRentalYieldHouses:    5.1,
			contracts.ColGrowth10Yr:           4.0,
			contracts.ColPopulation:           15000,
			contracts.ColBuyerDemand:          50,
			contracts.ColTotalForSaleListings: 90,
		}),
	})

	p := &profile.CustomerProfile{}
	p.Preferences.PriceRange.Min = "600000"
	p.Preferences.PriceRange.Max = "900000"
	p.Goals.TargetYield = "4.5"
	p.Preferences.PreferredSuburbs = []string{"Blacktown"}

	out, quality := e.Run(table, p)

	require.Equal(t, 4, out.Len())

	// Imputation: growth is a rate column (0), population uses the median.
	assert.Equal(t, 0.0, out.Record(1).MetricOr(contracts.ColGrowth10Yr, -1))
	assert.Equal(t, 25000.0, out.Record(2).MetricOr(contracts.ColPopulation, -1))
	assert.Equal(t, 1, quality.ImputedCells[contracts.ColGrowth10Yr])
	assert.Equal(t, 1, quality.ImputedCells[contracts.ColPopulation])
	assert.Equal(t, 2, quality.TotalImputed())

	// Derived columns whose sources are all present.
	assert.True(t, out.HasColumn(contracts.ColDemandSupplyPressure))
	assert.True(t, out.HasColumn(contracts.ColInvestmentAttractiveness))
	assert.True(t, out.HasColumn(contracts.ColPricePerCapita))
	assert.False(t, out.HasColumn(contracts.ColMarketMomentum))
	assert.InDelta(t, 120.0/41.0, out.Record(0).MetricOr(contracts.ColDemandSupplyPressure, -1), 1e-12)

	// Per-state z-scores for the columns that exist.
	assert.True(t, out.HasColumn(contracts.ColMedianPrice+contracts.StateNormalizedSuffix))
	assert.True(t, out.HasColumn(contracts.ColRentalYieldHouses+contracts.StateNormalizedSuffix))
	assert.True(t, out.HasColumn(contracts.ColPopulation+contracts.StateNormalizedSuffix))

	// Alignment columns.
	assert.Equal(t, 1.0, out.Record(0).MetricOr(contracts.ColBudgetAlignment, -1))
	assert.Equal(t, 1.0, out.Record(1).MetricOr(contracts.ColBudgetAlignment, -1))
	assert.Equal(t, 0.0, out.Record(2).MetricOr(contracts.ColBudgetAlignment, -1))
	assert.Equal(t, 0.0, out.Record(3).MetricOr(contracts.ColBudgetAlignment, -1))
	assert.InDelta(t, 1/(1+0.3), out.Record(0).MetricOr(contracts.ColYieldPreference, -1), 1e-12)
	assert.Equal(t, 1.0, out.Record(1).MetricOr(contracts.ColSuburbPreference, -1))
	assert.Equal(t, 0.0, out.Record(0).MetricOr(contracts.ColSuburbPreference, -1))
	assert.InDelta(t, 0.6, out.Record(0).MetricOr(contracts.ColLifestyleScore, -1), 1e-12)
}
