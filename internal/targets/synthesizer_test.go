package targets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
)

func record(suburb string, metrics map[string]float64) *contracts.SuburbRecord {
	r := contracts.NewSuburbRecord(suburb, "NSW")
	for k, v := range metrics {
		r.SetMetric(k, v)
	}
	return r
}

func TestSynthesizer_GrowthTarget(t *testing.T) {
	table := dataset.New([]*contracts.SuburbRecord{
		record("A", map[string]float64{
			contracts.ColGrowth10Yr:           4,
			contracts.ColPriceChange12Mo:      2,
			contracts.ColDemandSupplyPressure: 1,
		}),
		record("B", map[string]float64{
			contracts.ColGrowth10Yr:           8,
			contracts.ColPriceChange12Mo:      0,
			contracts.ColDemandSupplyPressure: 3,
		}),
		record("C", map[string]float64{
			contracts.ColGrowth10Yr:           6,
			contracts.ColPriceChange12Mo:      -1,
			contracts.ColDemandSupplyPressure: 2,
		}),
		record("D", map[string]float64{
			contracts.ColGrowth10Yr:           2,
			contracts.ColPriceChange12Mo:      3,
			contracts.ColDemandSupplyPressure: 1,
		}),
	})

	s := NewSynthesizer(42)
	got, real := s.Build(table, contracts.TargetGrowth)

	require.True(t, real)
	require.Len(t, got, 4)

	// growth norm: [1/3, 1, 2/3, 0]; change norm: [0.75, 0.25, 0, 1];
	// pressure norm: [0, 1, 0.5, 0]. Blend 0.4/0.3/0.3.
	assert.InDelta(t, 0.4/3+0.3*0.75, got[0], 1e-12)
	assert.InDelta(t, 0.4+0.3*0.25+0.3, got[1], 1e-12)
	assert.InDelta(t, 0.4*2/3+0.3*0.5, got[2], 1e-12)
	assert.InDelta(t, 0.3, got[3], 1e-12)
}

func TestSynthesizer_YieldTarget_RawPreference(t *testing.T) {
	// Yield_Preference_Score enters the blend raw, not re-normalized.
	table := dataset.New([]*contracts.SuburbRecord{
		record("A", map[string]float64{
			contracts.ColRentalYieldHouses: 3,
			contracts.ColRenterPct:         20,
			contracts.ColYieldPreference:   0.8,
		}),
		record("B", map[string]float64{
			contracts.ColRentalYieldHouses: 5,
			contracts.ColRenterPct:         40,
			contracts.ColYieldPreference:   0.4,
		}),
	})

	s := NewSynthesizer(42)
	got, real := s.Build(table, contracts.TargetYield)

	require.True(t, real)
	assert.InDelta(t, 0.2*0.8, got[0], 1e-12)
	assert.InDelta(t, 0.5+0.3+0.2*0.4, got[1], 1e-12)
}

func TestSynthesizer_RiskTarget(t *testing.T) {
	table := dataset.New([]*contracts.SuburbRecord{
		record("A", map[string]float64{
			contracts.ColVacancyRate:       1,
			contracts.ColSalesDaysOnMarket: 20,
			contracts.ColStockOnMarketPct:  0.5,
		}),
		record("B", map[string]float64{
			contracts.ColVacancyRate:       3,
			contracts.ColSalesDaysOnMarket: 40,
			contracts.ColStockOnMarketPct:  1.5,
		}),
	})

	s := NewSynthesizer(42)
	got, real := s.Build(table, contracts.TargetRisk)

	require.True(t, real)
	assert.InDelta(t, 0.0, got[0], 1e-12)
	assert.InDelta(t, 1.0, got[1], 1e-12)
}

func TestSynthesizer_PartialSources(t *testing.T) {
	// Only one proxy column: the blend is just that component, so the
	// target tops out at its weight.
	table := dataset.New([]*contracts.SuburbRecord{
		record("A", map[string]float64{contracts.ColGrowth10Yr: 2}),
		record("B", map[string]float64{contracts.ColGrowth10Yr: 8}),
	})

	s := NewSynthesizer(42)
	got, real := s.Build(table, contracts.TargetGrowth)

	require.True(t, real)
	assert.InDelta(t, 0.0, got[0], 1e-12)
	assert.InDelta(t, 0.4, got[1], 1e-12)
}

func TestSynthesizer_ConstantColumnNormalizesToZero(t *testing.T) {
	table := dataset.New([]*contracts.SuburbRecord{
		record("A", map[string]float64{contracts.ColGrowth10Yr: 5}),
		record("B", map[string]float64{contracts.ColGrowth10Yr: 5}),
		record("C", map[string]float64{contracts.ColGrowth10Yr: 5}),
	})

	s := NewSynthesizer(42)
	got, real := s.Build(table, contracts.TargetGrowth)

	require.True(t, real)
	for _, v := range got {
		assert.Equal(t, 0.0, v)
	}
}

func TestSynthesizer_FallbackIsSeededAndPerTarget(t *testing.T) {
	records := make([]*contracts.SuburbRecord, 20)
	for i := range records {
		records[i] = record(string(rune('A'+i)), map[string]float64{"Unrelated": float64(i)})
	}
	table := dataset.New(records)

	s := NewSynthesizer(42)

	growth1, real := s.Build(table, contracts.TargetGrowth)
	require.False(t, real)
	growth2, _ := s.Build(table, contracts.TargetGrowth)
	yield1, _ := s.Build(table, contracts.TargetYield)

	// Deterministic per target, distinct across targets.
	assert.Equal(t, growth1, growth2)
	assert.NotEqual(t, growth1, yield1)

	for _, v := range growth1 {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSourceColumns(t *testing.T) {
	assert.Equal(t, []string{
		contracts.ColGrowth10Yr,
		contracts.ColPriceChange12Mo,
		contracts.ColDemandSupplyPressure,
	}, SourceColumns(contracts.TargetGrowth))

	assert.Len(t, SourceColumns(contracts.TargetYield), 3)
	assert.Len(t, SourceColumns(contracts.TargetRisk), 3)
}

func TestNormalize01(t *testing.T) {
	assert.Equal(t, []float64{0, 0.25, 1}, normalize01([]float64{10, 15, 30}))
	assert.Equal(t, []float64{0, 0, 0}, normalize01([]float64{7, 7, 7}))
	assert.Empty(t, normalize01(nil))
}
