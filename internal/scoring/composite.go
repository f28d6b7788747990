package scoring

import (
	"strings"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
)

// riskWeight is the same for every purpose; only the growth/yield
// split varies. The lookup below is a compatibility contract and must
// not be reweighted.
const riskWeight = 0.2

// WeightsFor maps the customer's primary purpose onto the composite
// weight triple. Matching is by substring on the lowercased purpose,
// growth first, so "growth and rental income" lands on the growth
// profile.
func WeightsFor(purpose string) contracts.ScoreWeights {
	p := strings.ToLower(purpose)
	switch {
	case strings.Contains(p, "growth"):
		return contracts.ScoreWeights{Growth: 0.6, Yield: 0.3, Risk: riskWeight}
	case strings.Contains(p, "income"), strings.Contains(p, "rental"):
		return contracts.ScoreWeights{Growth: 0.3, Yield: 0.6, Risk: riskWeight}
	default:
		return contracts.ScoreWeights{Growth: 0.4, Yield: 0.4, Risk: riskWeight}
	}
}

// Overall folds the three model scores into the composite. Risk is
// inverted so that safer suburbs score higher, and the result is
// clipped into [0, 1] because tilted weight profiles sum above 1.
func Overall(growth, yield, risk float64, w contracts.ScoreWeights) float64 {
	score := growth*w.Growth + yield*w.Yield + (1-risk)*w.Risk
	return dataset.Clip(score, 0, 1)
}
