package selection

import (
	"sort"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/pkg/logger"
)

// Ranker orders scored suburbs into the final shortlist. Ordering is
// fully deterministic: descending overall score, with ties broken by
// suburb then state so repeated runs produce identical output.
type Ranker struct {
	logger *logger.Logger
}

// NewRanker creates a new ranker
func NewRanker(logger *logger.Logger) *Ranker {
	return &Ranker{
		logger: logger,
	}
}

// Rank sorts by overall score and assigns 1-based ranks. When topN > 0
// the result is truncated to at most topN entries; topN <= 0 keeps all.
// The input slice is not modified.
func (r *Ranker) Rank(scored []contracts.ScoredSuburb, topN int) []contracts.ScoredSuburb {
	ranked := make([]contracts.ScoredSuburb, len(scored))
	copy(ranked, scored)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].OverallScore != ranked[j].OverallScore {
			return ranked[i].OverallScore > ranked[j].OverallScore
		}
		if ranked[i].Suburb != ranked[j].Suburb {
			return ranked[i].Suburb < ranked[j].Suburb
		}
		return ranked[i].State < ranked[j].State
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	fields := map[string]interface{}{
		"total_ranked": len(ranked),
	}
	if len(ranked) > 0 {
		fields["top_score"] = ranked[0].OverallScore
		fields["top_suburb"] = ranked[0].Suburb
	}
	r.logger.WithFields(fields).Info("Ranking completed")

	return ranked
}
