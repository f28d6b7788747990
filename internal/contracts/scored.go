package contracts

import (
	"strings"
	"time"
)

// ScoredSuburb is a suburb with model predictions attached.
// All scores are in [0, 1]. Ephemeral: recomputed per scoring run,
// persisted only as part of a run for audit.
type ScoredSuburb struct {
	Suburb       string        `json:"suburb"`
	State        string        `json:"state"`
	Rank         int           `json:"rank,omitempty"` // 1-based, set by the shortlist builder
	GrowthScore  float64       `json:"growth_score"`
	YieldScore   float64       `json:"yield_score"`
	RiskScore    float64       `json:"risk_score"` // higher = riskier
	OverallScore float64       `json:"overall_score"`
	Reasons      []string      `json:"reasons"`
	Narratives   []string      `json:"narratives,omitempty"` // longer report lines, one per metric
	Confidence   string        `json:"confidence"`           // High / Medium / Low
	Record       *SuburbRecord `json:"record,omitempty"`
}

// ReasonText joins the reason codes the way reports print them.
func (s *ScoredSuburb) ReasonText() string {
	if len(s.Reasons) == 0 {
		return ""
	}
	return strings.Join(s.Reasons, ", ")
}

// MedianPrice is a convenience accessor for the most used metric.
func (s *ScoredSuburb) MedianPrice() (float64, bool) {
	if s.Record == nil {
		return 0, false
	}
	return s.Record.Metric(ColMedianPrice)
}

// ScoreWeights is the purpose-dependent weight triple applied to the
// composite score. The risk weight is always 0.2; tilted purposes sum
// above 1.0, which is why the composite is clipped back into [0, 1].
type ScoreWeights struct {
	Growth float64 `json:"growth"`
	Yield  float64 `json:"yield"`
	Risk   float64 `json:"risk"`
}

// Sum returns the weight total.
func (w ScoreWeights) Sum() float64 {
	return w.Growth + w.Yield + w.Risk
}

// Shortlist is the ranked recommendation output: at most the requested
// top-N suburbs, ordered by strictly non-increasing OverallScore.
// TotalScored and Filtered record how the candidate pool shrank so a
// run can be audited after the fact.
type Shortlist struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Purpose     string         `json:"purpose"`
	Weights     ScoreWeights   `json:"weights"`
	TotalScored int            `json:"total_scored"`
	Filtered    map[string]int `json:"filtered,omitempty"`
	Entries     []ScoredSuburb `json:"entries"`
}

// Empty reports whether the shortlist has no entries. An empty
// shortlist is an expected state, not an error.
func (s *Shortlist) Empty() bool {
	return s == nil || len(s.Entries) == 0
}

// Len returns the number of entries.
func (s *Shortlist) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}
