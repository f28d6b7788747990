// Package ml implements the numeric models behind the scoring engine:
// a feature scaler and a deterministic random-forest regressor. The
// models are small-data tools: tables here are hundreds of suburbs,
// not millions of rows, so everything is plain float64 slices and
// training is sequential for bit-for-bit reproducibility.
package ml

import "math"

// StandardScaler centers each feature to zero mean and unit variance.
// Fit on the training split only; the same fitted parameters are
// reapplied at prediction time.
type StandardScaler struct {
	Means []float64
	Stds  []float64
}

// NewStandardScaler returns an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fitted reports whether Fit has been called.
func (s *StandardScaler) Fitted() bool {
	return len(s.Means) > 0
}

// Fit learns per-column mean and population standard deviation.
// Columns with zero variance scale by 1 so constant features pass
// through centered instead of exploding.
func (s *StandardScaler) Fit(x [][]float64) {
	if len(x) == 0 {
		s.Means, s.Stds = nil, nil
		return
	}
	cols := len(x[0])
	s.Means = make([]float64, cols)
	s.Stds = make([]float64, cols)

	n := float64(len(x))
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := range x {
			sum += x[i][j]
		}
		mean := sum / n

		variance := 0.0
		for i := range x {
			d := x[i][j] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / n)
		if std == 0 {
			std = 1
		}

		s.Means[j] = mean
		s.Stds[j] = std
	}
}

// Transform scales a matrix with the fitted parameters. The input is
// not modified. Calling Transform before Fit returns a copy unchanged.
func (s *StandardScaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			if j < len(s.Means) {
				scaled[j] = (v - s.Means[j]) / s.Stds[j]
			} else {
				scaled[j] = v
			}
		}
		out[i] = scaled
	}
	return out
}

// FitTransform fits on x and returns the scaled copy.
func (s *StandardScaler) FitTransform(x [][]float64) [][]float64 {
	s.Fit(x)
	return s.Transform(x)
}
