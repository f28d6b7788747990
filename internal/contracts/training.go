package contracts

import "time"

// MinFeaturesPerTarget is the usability floor for a feature set.
// A target with fewer available columns is skipped, not errored.
const MinFeaturesPerTarget = 3

// FeatureSet is the ordered list of columns assigned to one target's
// model. Order is part of the model contract: prediction matrices are
// rebuilt in this exact order.
type FeatureSet struct {
	Target  Target   `json:"target"`
	Columns []string `json:"columns"`
}

// Usable reports whether the set has enough columns to train on.
func (fs *FeatureSet) Usable() bool {
	return len(fs.Columns) >= MinFeaturesPerTarget
}

// Contains checks membership of a column in the set.
func (fs *FeatureSet) Contains(col string) bool {
	for _, c := range fs.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// TargetState is the per-target training outcome: trained, or skipped
// with a reason. Replaces silent failure with an inspectable value.
type TargetState struct {
	Target       Target `json:"target"`
	Trained      bool   `json:"trained"`
	FeatureCount int    `json:"feature_count"`
	Reason       string `json:"reason,omitempty"` // set when skipped
}

// ModelEvaluation holds the held-out evaluation recorded at training
// time. Holdout is false when the table was too small to split and the
// model was evaluated on its own training rows.
type ModelEvaluation struct {
	R2        float64 `json:"r2"`
	MSE       float64 `json:"mse"`
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
	Holdout   bool    `json:"holdout"`
}

// TrainReport summarizes one training run. Trained is true only when
// all three targets trained; any skip makes the whole engine untrained.
type TrainReport struct {
	RunID       string                     `json:"run_id"`
	TrainedAt   time.Time                  `json:"trained_at"`
	Trained     bool                       `json:"trained"`
	States      map[Target]TargetState     `json:"states"`
	Evaluations map[Target]ModelEvaluation `json:"evaluations,omitempty"`
	Quality     *QualityReport             `json:"quality,omitempty"`
	Duration    time.Duration              `json:"duration_ms"`
}

// SkippedTargets lists the targets that did not train, in canonical
// order, for logging and run persistence.
func (r *TrainReport) SkippedTargets() []Target {
	var out []Target
	for _, t := range AllTargets() {
		if st, ok := r.States[t]; ok && !st.Trained {
			out = append(out, t)
		}
	}
	return out
}
