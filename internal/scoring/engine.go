// Package scoring trains the three investment models and turns market
// tables into ranked, explained shortlists. The engine owns the full
// path: feature engineering, target synthesis, training with held-out
// evaluation, composite scoring, rule filtering and ranking.
package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
	"github.com/proplens/scout/internal/explain"
	"github.com/proplens/scout/internal/features"
	"github.com/proplens/scout/internal/profile"
	"github.com/proplens/scout/internal/selection"
	"github.com/proplens/scout/internal/targets"
	"github.com/proplens/scout/pkg/logger"
)

// Config holds the model hyperparameters. Seed drives every shuffle,
// bootstrap and noise fallback downstream, so equal seeds give equal
// runs end to end.
type Config struct {
	NumTrees     int
	MaxDepth     int
	Seed         int64
	TestFraction float64
	MinSplitRows int
	HistorySize  int
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		NumTrees:     100,
		MaxDepth:     10,
		Seed:         42,
		TestFraction: 0.2,
		MinSplitRows: 10,
		HistorySize:  10,
	}
}

// Engine scores suburbs for one customer at a time. It is not safe
// for concurrent use; callers construct one engine per request or
// guard it externally.
type Engine struct {
	config      Config
	logger      *logger.Logger
	engineer    *features.Engineer
	synthesizer *targets.Synthesizer
	screener    *selection.Screener
	ranker      *selection.Ranker

	featureSets map[contracts.Target]*contracts.FeatureSet
	models      map[contracts.Target]*targetModel
	trained     bool
	history     []*contracts.TrainReport
}

// NewEngine creates an untrained engine, substituting defaults for
// zero config values.
func NewEngine(cfg Config, log *logger.Logger) *Engine {
	if cfg.NumTrees <= 0 {
		cfg.NumTrees = 100
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 10
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = 0.2
	}
	if cfg.MinSplitRows <= 0 {
		cfg.MinSplitRows = 10
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 10
	}
	return &Engine{
		config:      cfg,
		logger:      log,
		engineer:    features.NewEngineer(log),
		synthesizer: targets.NewSynthesizer(cfg.Seed),
		screener:    selection.NewScreener(log),
		ranker:      selection.NewRanker(log),
	}
}

// Train engineers features, synthesizes targets and fits all three
// models. A target that cannot train is recorded as skipped rather
// than aborting the run; the engine counts as trained only when every
// target trained. Only context cancellation returns an error.
func (e *Engine) Train(ctx context.Context, table *dataset.Table, p *profile.CustomerProfile) (*contracts.TrainReport, error) {
	start := time.Now()

	report := &contracts.TrainReport{
		RunID:       uuid.New().String(),
		TrainedAt:   start,
		States:      make(map[contracts.Target]contracts.TargetState),
		Evaluations: make(map[contracts.Target]contracts.ModelEvaluation),
	}

	engineered, quality := e.engineer.Run(table, p)
	report.Quality = quality

	if engineered.Len() == 0 {
		for _, target := range contracts.AllTargets() {
			report.States[target] = contracts.TargetState{Target: target, Reason: "no rows after cleaning"}
		}
		e.models = nil
		e.trained = false
		report.Duration = time.Since(start)
		e.appendHistory(report)
		e.logger.WithFields(map[string]interface{}{
			"run_id": report.RunID,
		}).Warn("Training skipped: no rows after cleaning")
		return report, nil
	}

	e.featureSets = BuildFeatureSets(engineered)
	models := make(map[contracts.Target]*targetModel, len(e.featureSets))

	for _, target := range contracts.AllTargets() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("training canceled: %w", err)
		}

		fs := e.featureSets[target]
		state := contracts.TargetState{Target: target, FeatureCount: len(fs.Columns)}

		if !fs.Usable() {
			state.Reason = fmt.Sprintf("%d features available, need %d", len(fs.Columns), contracts.MinFeaturesPerTarget)
			report.States[target] = state
			continue
		}

		y, real := e.synthesizer.Build(engineered, target)
		if !real {
			e.logger.WithFields(map[string]interface{}{
				"target": target.String(),
			}).Warn("No target sources available, training on noise fallback")
		}

		model, eval, err := trainTargetModel(e.config, fs, engineered, y)
		if err != nil {
			state.Reason = err.Error()
			report.States[target] = state
			e.logger.WithError(err).WithFields(map[string]interface{}{
				"target": target.String(),
			}).Warn("Target training failed")
			continue
		}

		models[target] = model
		state.Trained = true
		report.States[target] = state
		report.Evaluations[target] = eval
	}

	e.models = models
	e.trained = len(models) == len(contracts.AllTargets())
	report.Trained = e.trained
	report.Duration = time.Since(start)
	e.appendHistory(report)

	e.logger.WithFields(map[string]interface{}{
		"run_id":   report.RunID,
		"trained":  report.Trained,
		"rows":     engineered.Len(),
		"skipped":  len(report.SkippedTargets()),
		"duration": report.Duration.String(),
	}).Info("Training completed")

	return report, nil
}

// Trained reports whether all three models are fitted.
func (e *Engine) Trained() bool {
	return e.trained
}

// Predict scores every row of the table for this customer. The result
// is empty, not an error, when the engine is untrained.
func (e *Engine) Predict(ctx context.Context, table *dataset.Table, p *profile.CustomerProfile) ([]contracts.ScoredSuburb, error) {
	if !e.trained {
		e.logger.Warn("Predict called on untrained engine")
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engineered, _ := e.engineer.Run(table, p)
	if engineered.Len() == 0 {
		return nil, nil
	}

	scores := make(map[contracts.Target][]float64, len(e.models))
	for _, target := range contracts.AllTargets() {
		s, err := e.models[target].predictScores(engineered)
		if err != nil {
			return nil, err
		}
		scores[target] = s
	}

	weights := WeightsFor(p.Purpose())
	cohort := explain.NewCohortStats(engineered)

	scored := make([]contracts.ScoredSuburb, engineered.Len())
	for i, rec := range engineered.Records() {
		g := scores[contracts.TargetGrowth][i]
		yl := scores[contracts.TargetYield][i]
		r := scores[contracts.TargetRisk][i]

		sc := contracts.ScoredSuburb{
			Suburb:       rec.Suburb,
			State:        rec.State,
			GrowthScore:  g,
			YieldScore:   yl,
			RiskScore:    r,
			OverallScore: Overall(g, yl, r, weights),
			Confidence:   explain.Confidence(g, yl, r),
			Record:       rec,
		}
		sc.Reasons = explain.Reasons(&sc, cohort)
		sc.Narratives = explain.Narrative(rec, p)
		scored[i] = sc
	}

	e.logger.WithFields(map[string]interface{}{
		"suburbs": len(scored),
		"purpose": p.Purpose(),
	}).Info("Scoring completed")

	return scored, nil
}

// Shortlist runs the whole path: predict, rule-filter, rank, truncate.
// An empty shortlist is a valid outcome, not an error.
func (e *Engine) Shortlist(ctx context.Context, table *dataset.Table, p *profile.CustomerProfile, topN int) (*contracts.Shortlist, error) {
	scored, err := e.Predict(ctx, table, p)
	if err != nil {
		return nil, err
	}

	shortlist := &contracts.Shortlist{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now(),
		Purpose:     p.Purpose(),
		Weights:     WeightsFor(p.Purpose()),
		TotalScored: len(scored),
	}
	if len(scored) == 0 {
		return shortlist, nil
	}

	screened := e.screener.Screen(scored, p)
	shortlist.Filtered = screened.Filtered
	shortlist.Entries = e.ranker.Rank(screened.Passed, topN)

	e.logger.WithFields(map[string]interface{}{
		"run_id":      shortlist.RunID,
		"scored":      len(scored),
		"passed":      len(screened.Passed),
		"shortlisted": len(shortlist.Entries),
	}).Info("Shortlist generated")

	return shortlist, nil
}

// FeatureImportance returns the normalized importances for one
// target's model, empty when that model is not trained.
func (e *Engine) FeatureImportance(target contracts.Target) map[string]float64 {
	m, ok := e.models[target]
	if !ok {
		return map[string]float64{}
	}
	return m.importances()
}

// AllFeatureImportances returns importances for every trained model.
func (e *Engine) AllFeatureImportances() map[contracts.Target]map[string]float64 {
	out := make(map[contracts.Target]map[string]float64, len(e.models))
	for target, m := range e.models {
		out[target] = m.importances()
	}
	return out
}

// History returns the retained training reports, oldest first.
func (e *Engine) History() []*contracts.TrainReport {
	out := make([]*contracts.TrainReport, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Engine) appendHistory(report *contracts.TrainReport) {
	e.history = append(e.history, report)
	if len(e.history) > e.config.HistorySize {
		e.history = e.history[len(e.history)-e.config.HistorySize:]
	}
}
