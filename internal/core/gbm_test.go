package core

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() RegressorParams {
	return RegressorParams{
		NEstimators:     200,
		MaxDepth:        5,
		LearningRate:    0.1,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
}

func TestRegressionTreeStepFunction(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{0, 0, 10, 10}

	tree, err := fitRegressionTree(X, y, 1, 2, 1, 2)
	require.NoError(t, err)

	require.Len(t, tree.Nodes, 3)
	assert.Equal(t, 0, tree.Nodes[0].Feature)
	assert.InDelta(t, 2.5, tree.Nodes[0].Threshold, 1e-12)
	assert.Equal(t, 1, tree.Depth())

	for i, row := range X {
		assert.InDelta(t, y[i], tree.PredictRow(row), 1e-12)
	}
}

func TestRegressionTreeTiesPreferLowestFeature(t *testing.T) {
	// Both columns separate the labels equally well.
	X := [][]float64{{1, 1}, {2, 2}, {3, 3}, {4, 4}}
	y := []float64{0, 0, 10, 10}

	for _, workers := range []int{1, 2, 8} {
		tree, err := fitRegressionTree(X, y, 1, 2, 1, workers)
		require.NoError(t, err)
		assert.Equal(t, 0, tree.Nodes[0].Feature)
	}
}

func TestRegressionTreeMinSamplesLeaf(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []float64{100, 0, 0, 0, 0}

	tree, err := fitRegressionTree(X, y, 5, 2, 2, 1)
	require.NoError(t, err)

	for _, node := range tree.Nodes {
		assert.GreaterOrEqual(t, node.Samples, 2)
	}
}

func TestRegressionTreeConstantTarget(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	y := []float64{4, 4, 4}

	tree, err := fitRegressionTree(X, y, 5, 2, 1, 1)
	require.NoError(t, err)
	require.Len(t, tree.Nodes, 1)
	assert.Equal(t, 4.0, tree.Nodes[0].Value)
}

func TestGradientBoostingDepthBound(t *testing.T) {
	X := make([][]float64, 200)
	y := make([]float64, 200)
	for i := range X {
		X[i] = []float64{float64(i), float64(i % 7), float64(i % 3)}
		y[i] = math.Sin(float64(i)/10) * 100
	}

	gbm := NewGradientBoostingRegressor(testParams(), WithNEstimators(20))
	require.NoError(t, gbm.Fit(context.Background(), X, y))

	require.Len(t, gbm.Trees, 20)
	for _, tree := range gbm.Trees {
		assert.LessOrEqual(t, tree.Depth(), 5)
	}
}

func TestGradientBoostingConstantLabel(t *testing.T) {
	X := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	y := []float64{7, 7, 7}

	gbm := NewGradientBoostingRegressor(testParams())
	require.NoError(t, gbm.Fit(context.Background(), X, y))

	assert.Equal(t, 7.0, gbm.Init)
	pred, err := gbm.PredictRow([]float64{100, 100})
	require.NoError(t, err)
	assert.InDelta(t, 7.0, pred, 1e-9)
}

func TestGradientBoostingReducesError(t *testing.T) {
	X := make([][]float64, 50)
	y := make([]float64, 50)
	for i := range X {
		X[i] = []float64{float64(i)}
		y[i] = 2 * float64(i)
	}

	gbm := NewGradientBoostingRegressor(testParams())
	require.NoError(t, gbm.Fit(context.Background(), X, y))

	baseline := make([]float64, len(y))
	for i := range baseline {
		baseline[i] = gbm.Init
	}

	preds, err := gbm.Predict(X)
	require.NoError(t, err)
	assert.Less(t, RMSE(y, preds), RMSE(y, baseline)/10)
}

func TestGradientBoostingDeterministic(t *testing.T) {
	X := make([][]float64, 60)
	y := make([]float64, 60)
	for i := range X {
		X[i] = []float64{float64(i % 5), float64(i % 5), float64((i * 7) % 11)}
		y[i] = float64((i*13)%17) + float64(i%5)
	}

	a := NewGradientBoostingRegressor(testParams(), WithNEstimators(30), WithWorkers(1))
	b := NewGradientBoostingRegressor(testParams(), WithNEstimators(30), WithWorkers(8))
	require.NoError(t, a.Fit(context.Background(), X, y))
	require.NoError(t, b.Fit(context.Background(), X, y))

	assert.Equal(t, a.Trees, b.Trees)
	assert.Equal(t, a.Init, b.Init)
}

func TestGradientBoostingProgress(t *testing.T) {
	var stages []int
	gbm := NewGradientBoostingRegressor(testParams(), WithNEstimators(5), WithProgress(func(stage, total int) {
		assert.Equal(t, 5, total)
		stages = append(stages, stage)
	}))

	require.NoError(t, gbm.Fit(context.Background(), [][]float64{{1}, {2}}, []float64{1, 2}))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, stages)
}

func TestGradientBoostingInvalidInput(t *testing.T) {
	gbm := NewGradientBoostingRegressor(testParams())

	assert.Error(t, gbm.Fit(context.Background(), nil, nil))
	assert.Error(t, gbm.Fit(context.Background(), [][]float64{{1}, {2}}, []float64{1}))
	assert.Error(t, gbm.Fit(context.Background(), [][]float64{{1}, {2, 3}}, []float64{1, 2}))
	assert.Error(t, gbm.Fit(context.Background(), [][]float64{{1}}, []float64{math.NaN()}))
	assert.Error(t, gbm.Fit(context.Background(), [][]float64{{1}, {math.Inf(1)}}, []float64{1, 2}))

	bad := NewGradientBoostingRegressor(testParams(), WithNEstimators(0))
	assert.Error(t, bad.Fit(context.Background(), [][]float64{{1}}, []float64{1}))

	require.NoError(t, gbm.Fit(context.Background(), [][]float64{{1}, {2}}, []float64{1, 2}))
	_, err := gbm.PredictRow([]float64{1, 2})
	assert.Error(t, err)
}

func TestRMSE(t *testing.T) {
	assert.InDelta(t, 0.0, RMSE([]float64{1, 2}, []float64{1, 2}), 1e-12)
	assert.InDelta(t, 2.0, RMSE([]float64{0, 0}, []float64{2, -2}), 1e-12)
	assert.Equal(t, 0.0, RMSE(nil, nil))
}

func TestGradientBoostingStopsOnCancel(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{1, 2, 3, 4}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stages := 0
	gbm := NewGradientBoostingRegressor(testParams(), WithProgress(func(stage, total int) {
		stages = stage
		if stage == 3 {
			cancel()
		}
	}))

	err := gbm.Fit(ctx, X, y)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, stages)
	assert.Len(t, gbm.Trees, 3)
}
