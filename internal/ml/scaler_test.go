package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScaler_FitTransform(t *testing.T) {
	x := [][]float64{
		{1, 100},
		{2, 100},
		{3, 100},
	}

	s := NewStandardScaler()
	scaled := s.FitTransform(x)

	require.True(t, s.Fitted())
	assert.InDelta(t, 2.0, s.Means[0], 1e-9)

	// Column 0 centered: mean 0 after scaling.
	sum := scaled[0][0] + scaled[1][0] + scaled[2][0]
	assert.InDelta(t, 0.0, sum, 1e-9)

	// Zero-variance column scales by 1 so it centers without blowing up.
	assert.Equal(t, 1.0, s.Stds[1])
	assert.InDelta(t, 0.0, scaled[0][1], 1e-9)
}

func TestStandardScaler_PopulationStd(t *testing.T) {
	x := [][]float64{{2}, {4}, {4}, {4}, {5}, {5}, {7}, {9}}

	s := NewStandardScaler()
	s.Fit(x)

	// Population (not sample) standard deviation: 2.0 for this set.
	assert.InDelta(t, 2.0, s.Stds[0], 1e-9)
}

func TestStandardScaler_TransformDoesNotMutate(t *testing.T) {
	x := [][]float64{{10}, {20}}

	s := NewStandardScaler()
	s.Fit(x)
	_ = s.Transform(x)

	assert.Equal(t, 10.0, x[0][0])
	assert.Equal(t, 20.0, x[1][0])
}

func TestStandardScaler_ReuseOnNewData(t *testing.T) {
	train := [][]float64{{0}, {10}}
	s := NewStandardScaler()
	s.Fit(train)

	// Parameters learned on train apply unchanged to unseen rows.
	out := s.Transform([][]float64{{5}, {15}})
	assert.InDelta(t, 0.0, out[0][0], 1e-9)
	assert.InDelta(t, 2.0, out[1][0], 1e-9)
}

func TestStandardScaler_UnfittedPassthrough(t *testing.T) {
	s := NewStandardScaler()
	out := s.Transform([][]float64{{3, 4}})
	assert.Equal(t, []float64{3, 4}, out[0])
}
