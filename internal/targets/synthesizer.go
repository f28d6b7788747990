// Package targets synthesizes the training targets. No ground-truth
// label for "good investment" exists, so each target is a weighted
// blend of min-max normalized proxy columns over the current table.
// Absent proxies simply drop out of the blend; when a target has no
// proxies at all it falls back to seeded uniform noise so training
// still completes with a documented, non-informative model.
package targets

import (
	"math/rand"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
)

// component is one weighted source column of a synthesized target.
type component struct {
	column    string
	weight    float64
	normalize bool
}

// targetComponents defines the proxy blend per target. Values are
// min-max normalized before weighting except where normalize is
// false (Yield_Preference_Score is already in [0,1]).
var targetComponents = map[contracts.Target][]component{
	contracts.TargetGrowth: {
		{contracts.ColGrowth10Yr, 0.4, true},
		{contracts.ColPriceChange12Mo, 0.3, true},
		{contracts.ColDemandSupplyPressure, 0.3, true},
	},
	contracts.TargetYield: {
		{contracts.ColRentalYieldHouses, 0.5, true},
		{contracts.ColRenterPct, 0.3, true},
		{contracts.ColYieldPreference, 0.2, false},
	},
	contracts.TargetRisk: {
		{contracts.ColVacancyRate, 0.3, true},
		{contracts.ColSalesDaysOnMarket, 0.3, true},
		{contracts.ColStockOnMarketPct, 0.4, true},
	},
}

// Synthesizer builds per-target training vectors from a feature table.
type Synthesizer struct {
	seed int64
}

// NewSynthesizer creates a synthesizer. The seed only matters for the
// random fallback; the proxy blends are fully deterministic.
func NewSynthesizer(seed int64) *Synthesizer {
	return &Synthesizer{seed: seed}
}

// Build returns the synthesized target vector for the table. The
// second return is false when none of the target's source columns
// exist and the random fallback was used.
func (s *Synthesizer) Build(table *dataset.Table, target contracts.Target) ([]float64, bool) {
	n := table.Len()
	sum := make([]float64, n)
	found := false

	for _, c := range targetComponents[target] {
		if !table.HasColumn(c.column) {
			continue
		}
		found = true
		values := table.ValuesOr(c.column, 0)
		if c.normalize {
			values = normalize01(values)
		}
		for i, v := range values {
			sum[i] += v * c.weight
		}
	}

	if !found {
		return s.fallback(n, target), false
	}
	return sum, true
}

// SourceColumns returns the proxy columns a target draws on, in blend
// order.
func SourceColumns(target contracts.Target) []string {
	comps := targetComponents[target]
	cols := make([]string, len(comps))
	for i, c := range comps {
		cols[i] = c.column
	}
	return cols
}

// fallback fills a uniform random target. It carries no signal, but
// training completes instead of failing. Each target gets its own
// stream so identical inputs reproduce identical runs without the
// three fallbacks collapsing into one vector.
func (s *Synthesizer) fallback(n int, target contracts.Target) []float64 {
	rng := rand.New(rand.NewSource(s.seed + targetOffset(target)))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()
	}
	return out
}

func targetOffset(target contracts.Target) int64 {
	switch target {
	case contracts.TargetGrowth:
		return 0
	case contracts.TargetYield:
		return 1
	default:
		return 2
	}
}

// normalize01 rescales values to [0,1]. A constant column maps to all
// zeros rather than dividing by zero.
func normalize01(values []float64) []float64 {
	min, max := dataset.MinMax(values)
	out := make([]float64, len(values))
	if max == min {
		return out
	}
	span := max - min
	for i, v := range values {
		out[i] = (v - min) / span
	}
	return out
}
