package core

import (
	"errors"
	"sort"
	"wellprod-backend/internal/core/utils"
)

// TreeNode is one node of a fitted regression tree. Leaves have Feature == -1.
// Internal nodes send x[Feature] <= Threshold to Left, everything else to Right.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
	Samples   int
}

// RegressionTree is a CART tree stored as a flat node slice, root at index 0.
type RegressionTree struct {
	Nodes []TreeNode
}

func (t *RegressionTree) PredictRow(x []float64) float64 {
	i := 0
	for {
		node := t.Nodes[i]
		if node.Feature < 0 {
			return node.Value
		}
		if x[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// Depth returns the number of edges on the longest root to leaf path.
func (t *RegressionTree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		node := t.Nodes[i]
		if node.Feature < 0 {
			return 0
		}
		return 1 + max(walk(node.Left), walk(node.Right))
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	return walk(0)
}

type treeBuilder struct {
	X               [][]float64
	y               []float64
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	workers         int

	nodes []TreeNode
}

type candidateSplit struct {
	ok        bool
	feature   int
	threshold float64
	gain      float64
}

type sortedSample struct {
	x float64
	y float64
}

func fitRegressionTree(X [][]float64, y []float64, maxDepth, minSamplesSplit, minSamplesLeaf, workers int) (RegressionTree, error) {
	if len(X) == 0 {
		return RegressionTree{}, errors.New("cannot fit tree on empty data")
	}

	b := &treeBuilder{
		X:               X,
		y:               y,
		maxDepth:        maxDepth,
		minSamplesSplit: max(minSamplesSplit, 2),
		minSamplesLeaf:  max(minSamplesLeaf, 1),
		workers:         workers,
	}

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}

	if _, err := b.build(idx, 0); err != nil {
		return RegressionTree{}, err
	}

	return RegressionTree{Nodes: b.nodes}, nil
}

func (b *treeBuilder) build(idx []int, depth int) (int, error) {
	sum := 0.0
	for _, i := range idx {
		sum += b.y[i]
	}

	pos := len(b.nodes)
	b.nodes = append(b.nodes, TreeNode{Feature: -1, Value: sum / float64(len(idx)), Samples: len(idx)})

	if b.maxDepth > 0 && depth >= b.maxDepth {
		return pos, nil
	}
	if len(idx) < b.minSamplesSplit || len(idx) < 2*b.minSamplesLeaf {
		return pos, nil
	}

	best, err := b.bestSplit(idx, sum)
	if err != nil {
		return 0, err
	}
	if !best.ok {
		return pos, nil
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if b.X[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l, err := b.build(left, depth+1)
	if err != nil {
		return 0, err
	}
	r, err := b.build(right, depth+1)
	if err != nil {
		return 0, err
	}

	b.nodes[pos].Feature = best.feature
	b.nodes[pos].Threshold = best.threshold
	b.nodes[pos].Left = l
	b.nodes[pos].Right = r

	return pos, nil
}

// bestSplit evaluates every feature on the worker pool. Ties go to the lowest
// feature index so the fitted tree does not depend on scheduling.
func (b *treeBuilder) bestSplit(idx []int, sum float64) (candidateSplit, error) {
	features := make([]int, len(b.X[0]))
	for f := range features {
		features[f] = f
	}

	splits, err := utils.MapInPool(features, b.workers, func(f int) (candidateSplit, error) {
		return b.splitOnFeature(idx, f, sum), nil
	})
	if err != nil {
		return candidateSplit{}, err
	}

	var best candidateSplit
	for _, s := range splits {
		if s.ok && (!best.ok || s.gain > best.gain) {
			best = s
		}
	}
	return best, nil
}

// splitOnFeature scans thresholds between adjacent distinct values and keeps
// the one with the largest decrease in squared error.
func (b *treeBuilder) splitOnFeature(idx []int, f int, sum float64) candidateSplit {
	samples := make([]sortedSample, len(idx))
	for k, i := range idx {
		samples[k] = sortedSample{x: b.X[i][f], y: b.y[i]}
	}
	sort.SliceStable(samples, func(a, c int) bool { return samples[a].x < samples[c].x })

	n := len(samples)
	parent := sum * sum / float64(n)
	best := candidateSplit{feature: f}

	leftSum := 0.0
	for s := 1; s < n; s++ {
		leftSum += samples[s-1].y
		if samples[s].x == samples[s-1].x {
			continue
		}
		if s < b.minSamplesLeaf || n-s < b.minSamplesLeaf {
			continue
		}

		rightSum := sum - leftSum
		gain := leftSum*leftSum/float64(s) + rightSum*rightSum/float64(n-s) - parent
		if gain <= 0 || (best.ok && gain <= best.gain) {
			continue
		}

		lo, hi := samples[s-1].x, samples[s].x
		threshold := lo + (hi-lo)/2
		if threshold >= hi {
			threshold = lo
		}
		best = candidateSplit{ok: true, feature: f, threshold: threshold, gain: gain}
	}

	return best
}
