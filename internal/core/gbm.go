package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GradientBoostingRegressor is an additive ensemble of regression trees fitted
// stage by stage to the residuals of squared-error loss.
type GradientBoostingRegressor struct {
	Params    RegressorParams
	NFeatures int
	Init      float64
	Trees     []RegressionTree

	workers  int
	progress func(stage, total int)
}

type GBMOption func(*GradientBoostingRegressor)

func WithNEstimators(n int) GBMOption {
	return func(g *GradientBoostingRegressor) { g.Params.NEstimators = n }
}

func WithMaxDepth(d int) GBMOption {
	return func(g *GradientBoostingRegressor) { g.Params.MaxDepth = d }
}

func WithLearningRate(lr float64) GBMOption {
	return func(g *GradientBoostingRegressor) { g.Params.LearningRate = lr }
}

func WithMinSamplesSplit(n int) GBMOption {
	return func(g *GradientBoostingRegressor) { g.Params.MinSamplesSplit = n }
}

func WithMinSamplesLeaf(n int) GBMOption {
	return func(g *GradientBoostingRegressor) { g.Params.MinSamplesLeaf = n }
}

// WithWorkers bounds the goroutines used for the split search.
func WithWorkers(n int) GBMOption {
	return func(g *GradientBoostingRegressor) { g.workers = n }
}

// WithProgress registers a callback invoked after every boosting stage.
func WithProgress(fn func(stage, total int)) GBMOption {
	return func(g *GradientBoostingRegressor) { g.progress = fn }
}

func NewGradientBoostingRegressor(params RegressorParams, opts ...GBMOption) *GradientBoostingRegressor {
	g := &GradientBoostingRegressor{
		Params:  params,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GradientBoostingRegressor) validate() error {
	if g.Params.NEstimators < 1 {
		return fmt.Errorf("n_estimators must be positive, got %d", g.Params.NEstimators)
	}
	if g.Params.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive, got %d", g.Params.MaxDepth)
	}
	if g.Params.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be positive, got %v", g.Params.LearningRate)
	}
	return nil
}

// Fit stops between stages once ctx is done and returns ctx.Err().
func (g *GradientBoostingRegressor) Fit(ctx context.Context, X [][]float64, y []float64) error {
	if err := g.validate(); err != nil {
		return err
	}
	if len(X) == 0 {
		return errors.New("cannot fit regressor on empty data")
	}
	if len(X) != len(y) {
		return fmt.Errorf("feature rows (%d) and labels (%d) differ in length", len(X), len(y))
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("row %d has %d features, expected %d", i, len(row), width)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("feature %d at row %d is not finite", j, i)
			}
		}
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("label at row %d is not finite", i)
		}
	}

	g.NFeatures = width
	g.Init = stat.Mean(y, nil)
	g.Trees = make([]RegressionTree, 0, g.Params.NEstimators)

	current := make([]float64, len(y))
	for i := range current {
		current[i] = g.Init
	}
	residuals := make([]float64, len(y))

	for stage := 0; stage < g.Params.NEstimators; stage++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fitting stopped after %d of %d stages: %w", stage, g.Params.NEstimators, err)
		}

		floats.SubTo(residuals, y, current)

		tree, err := fitRegressionTree(X, residuals, g.Params.MaxDepth, g.Params.MinSamplesSplit, g.Params.MinSamplesLeaf, g.workers)
		if err != nil {
			return fmt.Errorf("error fitting stage %d: %w", stage, err)
		}
		g.Trees = append(g.Trees, tree)

		for i, row := range X {
			current[i] += g.Params.LearningRate * tree.PredictRow(row)
		}

		if g.progress != nil {
			g.progress(stage+1, g.Params.NEstimators)
		}
	}

	return nil
}

func (g *GradientBoostingRegressor) PredictRow(x []float64) (float64, error) {
	if len(x) != g.NFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", g.NFeatures, len(x))
	}
	pred := g.Init
	for i := range g.Trees {
		pred += g.Params.LearningRate * g.Trees[i].PredictRow(x)
	}
	return pred, nil
}

func (g *GradientBoostingRegressor) Predict(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, row := range X {
		pred, err := g.PredictRow(row)
		if err != nil {
			return nil, fmt.Errorf("error predicting row %d: %w", i, err)
		}
		out[i] = pred
	}
	return out, nil
}

// RMSE is the root mean squared error between y and yPred.
func RMSE(y, yPred []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	return floats.Distance(y, yPred, 2) / math.Sqrt(float64(len(y)))
}
