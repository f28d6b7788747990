package scoring

import (
	"sort"

	"github.com/proplens/scout/internal/contracts"
)

// topFeatureCount bounds the per-model feature list in insights.
const topFeatureCount = 5

// Insights is the operator-facing summary of the engine's state.
type Insights struct {
	Trained       bool                          `json:"trained"`
	FeatureCounts map[contracts.Target]int      `json:"feature_counts,omitempty"`
	TopFeatures   map[contracts.Target][]string `json:"top_features,omitempty"`
	LatestRun     *contracts.TrainReport        `json:"latest_run,omitempty"`
	RunsRetained  int                           `json:"runs_retained"`
}

// Insights summarizes the trained models: per-target feature counts,
// each model's most important features and the latest training report.
// An untrained engine reports only its state and retained runs.
func (e *Engine) Insights() *Insights {
	out := &Insights{
		Trained:      e.trained,
		RunsRetained: len(e.history),
	}
	if len(e.history) > 0 {
		out.LatestRun = e.history[len(e.history)-1]
	}
	if !e.trained {
		return out
	}

	out.FeatureCounts = make(map[contracts.Target]int, len(e.featureSets))
	for target, fs := range e.featureSets {
		out.FeatureCounts[target] = len(fs.Columns)
	}

	out.TopFeatures = make(map[contracts.Target][]string, len(e.models))
	for target, m := range e.models {
		out.TopFeatures[target] = topFeatures(m.importances(), topFeatureCount)
	}

	return out
}

// topFeatures returns the n highest-importance columns, ties broken
// alphabetically so the output is stable.
func topFeatures(importances map[string]float64, n int) []string {
	cols := make([]string, 0, len(importances))
	for col := range importances {
		cols = append(cols, col)
	}
	sort.Slice(cols, func(i, j int) bool {
		if importances[cols[i]] != importances[cols[j]] {
			return importances[cols[i]] > importances[cols[j]]
		}
		return cols[i] < cols[j]
	})
	if len(cols) > n {
		cols = cols[:n]
	}
	return cols
}
