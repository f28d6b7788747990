package ml

import (
	"math"
	"math/rand"
)

// TrainTestSplit shuffles row indices with the given seed and carves
// off ceil(n*testFraction) rows as the held-out set. Equal seeds give
// equal splits.
func TrainTestSplit(n int, testFraction float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	nTest := int(math.Ceil(float64(n) * testFraction))
	if nTest > n {
		nTest = n
	}
	test = perm[:nTest]
	train = perm[nTest:]
	return train, test
}

// Rows materializes a row subset of a matrix.
func Rows(x [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for i, idx := range indices {
		out[i] = x[idx]
	}
	return out
}

// Take materializes an element subset of a vector.
func Take(y []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = y[idx]
	}
	return out
}

// R2 is the coefficient of determination of predictions against
// actuals. A constant actual vector scores 0 by convention.
func R2(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}
	mean := 0.0
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	ssRes, ssTot := 0.0, 0.0
	for i := range actual {
		dr := actual[i] - predicted[i]
		dt := actual[i] - mean
		ssRes += dr * dr
		ssTot += dt * dt
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// MSE is the mean squared error of predictions against actuals.
func MSE(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}
	sum := 0.0
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return sum / float64(len(actual))
}
