package scoring

import (
	"fmt"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
	"github.com/proplens/scout/internal/ml"
)

// targetModel is one trained pipeline: the ordered feature columns, a
// scaler fitted on that run's training rows only, and the forest.
type targetModel struct {
	target  contracts.Target
	columns []string
	scaler  *ml.StandardScaler
	forest  *ml.Forest
}

// matrix assembles model input rows in feature-set order. Missing
// cells become 0, at training and prediction time alike.
func matrix(table *dataset.Table, columns []string) [][]float64 {
	x := make([][]float64, table.Len())
	for i, rec := range table.Records() {
		row := make([]float64, len(columns))
		for j, col := range columns {
			row[j] = rec.MetricOr(col, 0)
		}
		x[i] = row
	}
	return x
}

// trainTargetModel fits scaler and forest for one target and evaluates
// on the held-out rows. Tables below the split threshold are evaluated
// on their own training rows, flagged by Holdout=false.
func trainTargetModel(cfg Config, fs *contracts.FeatureSet, table *dataset.Table, y []float64) (*targetModel, contracts.ModelEvaluation, error) {
	x := matrix(table, fs.Columns)

	var trainIdx, testIdx []int
	holdout := len(x) >= cfg.MinSplitRows
	if holdout {
		trainIdx, testIdx = ml.TrainTestSplit(len(x), cfg.TestFraction, cfg.Seed)
	} else {
		trainIdx = allIndices(len(x))
		testIdx = trainIdx
	}

	scaler := ml.NewStandardScaler()
	xTrain := scaler.FitTransform(ml.Rows(x, trainIdx))
	xTest := scaler.Transform(ml.Rows(x, testIdx))
	yTrain := ml.Take(y, trainIdx)
	yTest := ml.Take(y, testIdx)

	forest := ml.NewForest(ml.ForestConfig{
		NumTrees: cfg.NumTrees,
		MaxDepth: cfg.MaxDepth,
		Seed:     cfg.Seed,
	})
	if err := forest.Fit(xTrain, yTrain); err != nil {
		return nil, contracts.ModelEvaluation{}, fmt.Errorf("failed to fit %s model: %w", fs.Target, err)
	}

	pred, err := forest.Predict(xTest)
	if err != nil {
		return nil, contracts.ModelEvaluation{}, fmt.Errorf("failed to evaluate %s model: %w", fs.Target, err)
	}

	eval := contracts.ModelEvaluation{
		R2:        ml.R2(yTest, pred),
		MSE:       ml.MSE(yTest, pred),
		TrainRows: len(trainIdx),
		TestRows:  len(testIdx),
		Holdout:   holdout,
	}

	return &targetModel{
		target:  fs.Target,
		columns: fs.Columns,
		scaler:  scaler,
		forest:  forest,
	}, eval, nil
}

// predictScores scores every table row with this model, clipped into
// [0, 1].
func (m *targetModel) predictScores(table *dataset.Table) ([]float64, error) {
	x := m.scaler.Transform(matrix(table, m.columns))
	scores, err := m.forest.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("failed to predict %s scores: %w", m.target, err)
	}
	for i, v := range scores {
		scores[i] = dataset.Clip(v, 0, 1)
	}
	return scores, nil
}

// importances pairs feature columns with the forest's normalized
// importances.
func (m *targetModel) importances() map[string]float64 {
	values := m.forest.FeatureImportances()
	out := make(map[string]float64, len(m.columns))
	for i, col := range m.columns {
		if i < len(values) {
			out[col] = values[i]
		}
	}
	return out
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
