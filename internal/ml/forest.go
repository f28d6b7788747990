package ml

import (
	"errors"
	"math/rand"
)

// ForestConfig configures the random-forest regressor.
type ForestConfig struct {
	// NumTrees is the ensemble size. Default: 100.
	NumTrees int

	// MaxDepth bounds each tree. Default: 10.
	MaxDepth int

	// MinSamplesSplit is the smallest node that may split further.
	// Default: 2.
	MinSamplesSplit int

	// MinSamplesLeaf is the smallest allowed leaf. Default: 1.
	MinSamplesLeaf int

	// Seed drives bootstrap sampling. Trees are built sequentially
	// from one seeded source, so equal seeds give equal forests.
	// Default: 42.
	Seed int64
}

// DefaultForestConfig returns the production configuration.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NumTrees:        100,
		MaxDepth:        10,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Seed:            42,
	}
}

// Forest is a bagged ensemble of regression trees. Every tree trains
// on a bootstrap resample and considers all features at every split.
// Predictions are the ensemble mean.
type Forest struct {
	config     ForestConfig
	trees      []*regressionTree
	importance []float64
	features   int
}

// NewForest creates an untrained forest, substituting defaults for
// zero config values.
func NewForest(cfg ForestConfig) *Forest {
	if cfg.NumTrees <= 0 {
		cfg.NumTrees = 100
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 10
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	if cfg.MinSamplesLeaf < 1 {
		cfg.MinSamplesLeaf = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	return &Forest{config: cfg}
}

var (
	// ErrNoData is returned when Fit is called with an empty matrix.
	ErrNoData = errors.New("ml: no training data")
	// ErrShape is returned when X and y lengths disagree or rows are ragged.
	ErrShape = errors.New("ml: inconsistent matrix shape")
	// ErrNotFitted is returned by Predict before a successful Fit.
	ErrNotFitted = errors.New("ml: forest not fitted")
)

// Fit trains the ensemble. A second Fit fully replaces the first.
func (f *Forest) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 {
		return ErrNoData
	}
	if len(x) != len(y) {
		return ErrShape
	}
	features := len(x[0])
	for _, row := range x {
		if len(row) != features {
			return ErrShape
		}
	}

	rng := rand.New(rand.NewSource(f.config.Seed))
	params := treeParams{
		maxDepth:        f.config.MaxDepth,
		minSamplesSplit: f.config.MinSamplesSplit,
		minSamplesLeaf:  f.config.MinSamplesLeaf,
	}

	f.features = features
	f.trees = make([]*regressionTree, 0, f.config.NumTrees)
	f.importance = make([]float64, features)

	n := len(x)
	for t := 0; t < f.config.NumTrees; t++ {
		// Bootstrap: n draws with replacement.
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		f.trees = append(f.trees, buildTree(x, y, sample, params, f.importance))
	}

	normalize(f.importance)
	return nil
}

// Fitted reports whether the forest has trained trees.
func (f *Forest) Fitted() bool {
	return len(f.trees) > 0
}

// Predict returns the ensemble mean for each row.
func (f *Forest) Predict(x [][]float64) ([]float64, error) {
	if !f.Fitted() {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != f.features {
			return nil, ErrShape
		}
		sum := 0.0
		for _, t := range f.trees {
			sum += t.predict(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}

// FeatureImportances returns the impurity-based importances,
// normalized to sum to 1.0 (all zeros when no split ever improved a
// node). The slice is a copy.
func (f *Forest) FeatureImportances() []float64 {
	out := make([]float64, len(f.importance))
	copy(out, f.importance)
	return out
}

func normalize(values []float64) {
	total := 0.0
	for _, v := range values {
		total += v
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
