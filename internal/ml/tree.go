package ml

import "sort"

// regressionTree is one CART regressor inside the forest: binary
// splits chosen by variance reduction, mean-of-leaf prediction.
type regressionTree struct {
	nodes []treeNode
}

// treeNode is stored in a flat slice; left/right index into it.
// A node with left == -1 is a leaf.
type treeNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
}

type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
}

// buildTree grows a tree on the sample index set. The indices slice is
// reordered in place while partitioning. importance accumulates the
// unnormalized impurity decrease per feature across the whole tree,
// weighted by node size.
func buildTree(x [][]float64, y []float64, indices []int, p treeParams, importance []float64) *regressionTree {
	t := &regressionTree{}
	t.grow(x, y, indices, 0, p, importance, len(indices))
	return t
}

func (t *regressionTree) grow(x [][]float64, y []float64, indices []int, depth int, p treeParams, importance []float64, total int) int {
	mean, variance := meanVariance(y, indices)

	leaf := func() int {
		t.nodes = append(t.nodes, treeNode{feature: -1, left: -1, right: -1, value: mean})
		return len(t.nodes) - 1
	}

	if depth >= p.maxDepth || len(indices) < p.minSamplesSplit || variance == 0 {
		return leaf()
	}

	feature, threshold, gain, ok := bestSplit(x, y, indices, variance, p.minSamplesLeaf)
	if !ok {
		return leaf()
	}

	// Impurity decrease weighted by the fraction of samples reaching
	// this node, matching the usual MDI feature-importance definition.
	importance[feature] += float64(len(indices)) / float64(total) * gain

	mid := partition(x, indices, feature, threshold)
	left, right := indices[:mid], indices[mid:]

	// Reserve this node's slot before recursing so children land after it.
	id := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{feature: feature, threshold: threshold})
	leftID := t.grow(x, y, left, depth+1, p, importance, total)
	rightID := t.grow(x, y, right, depth+1, p, importance, total)
	t.nodes[id].left = leftID
	t.nodes[id].right = rightID
	return id
}

// predict walks one row from the root to a leaf.
func (t *regressionTree) predict(row []float64) float64 {
	id := 0
	for t.nodes[id].left != -1 {
		n := t.nodes[id]
		if row[n.feature] <= n.threshold {
			id = n.left
		} else {
			id = n.right
		}
	}
	return t.nodes[id].value
}

// bestSplit scans every feature and every boundary between distinct
// sorted values, keeping the split with the largest variance
// reduction. Features are visited in index order and only strictly
// better gains replace the current best, so the choice is
// deterministic.
func bestSplit(x [][]float64, y []float64, indices []int, parentVariance float64, minLeaf int) (feature int, threshold, gain float64, ok bool) {
	n := len(indices)
	if n < 2*minLeaf {
		return 0, 0, 0, false
	}

	sorted := make([]int, n)
	bestGain := 0.0

	for f := 0; f < len(x[indices[0]]); f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool {
			return x[sorted[a]][f] < x[sorted[b]][f]
		})

		// Running sums from the left let each candidate split be
		// evaluated in O(1).
		leftSum, leftSq := 0.0, 0.0
		totalSum, totalSq := 0.0, 0.0
		for _, i := range sorted {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		for i := 0; i < n-1; i++ {
			yi := y[sorted[i]]
			leftSum += yi
			leftSq += yi * yi

			if x[sorted[i]][f] == x[sorted[i+1]][f] {
				continue // same value, not a valid boundary
			}
			nl, nr := i+1, n-i-1
			if nl < minLeaf || nr < minLeaf {
				continue
			}

			leftVar := leftSq/float64(nl) - (leftSum/float64(nl))*(leftSum/float64(nl))
			rightSum, rightSq := totalSum-leftSum, totalSq-leftSq
			rightVar := rightSq/float64(nr) - (rightSum/float64(nr))*(rightSum/float64(nr))
			if leftVar < 0 {
				leftVar = 0
			}
			if rightVar < 0 {
				rightVar = 0
			}

			weighted := (float64(nl)*leftVar + float64(nr)*rightVar) / float64(n)
			g := parentVariance - weighted
			if g > bestGain {
				bestGain = g
				feature = f
				threshold = (x[sorted[i]][f] + x[sorted[i+1]][f]) / 2
				ok = true
			}
		}
	}

	return feature, threshold, bestGain, ok
}

// partition reorders indices so rows with value <= threshold come
// first, returning the boundary.
func partition(x [][]float64, indices []int, feature int, threshold float64) int {
	mid := 0
	for i, idx := range indices {
		if x[idx][feature] <= threshold {
			indices[i], indices[mid] = indices[mid], indices[i]
			mid++
		}
	}
	return mid
}

func meanVariance(y []float64, indices []int) (mean, variance float64) {
	n := float64(len(indices))
	if n == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, i := range indices {
		sum += y[i]
	}
	mean = sum / n

	sq := 0.0
	for _, i := range indices {
		d := y[i] - mean
		sq += d * d
	}
	variance = sq / n
	return mean, variance
}
