package core

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"math"
)

// Pipeline chains the column transformer and the boosted regressor so they are
// fitted, persisted and invoked as one unit.
type Pipeline struct {
	Spec        FeatureSpec
	Transformer *ColumnTransformer
	Regressor   *GradientBoostingRegressor
}

func NewPipeline(spec FeatureSpec, opts ...GBMOption) *Pipeline {
	return &Pipeline{
		Spec:        spec,
		Transformer: NewColumnTransformer(spec),
		Regressor:   NewGradientBoostingRegressor(spec.Regressor, opts...),
	}
}

func (p *Pipeline) Fit(ctx context.Context, ds *Dataset) error {
	if ds == nil || ds.Len() == 0 {
		return errors.New("cannot fit pipeline on empty dataset")
	}

	if err := p.Transformer.Fit(ds.Rows); err != nil {
		return fmt.Errorf("error fitting column transformer: %w", err)
	}

	X, err := p.Transformer.Transform(ds.Rows)
	if err != nil {
		return err
	}

	if err := p.Regressor.Fit(ctx, X, ds.Labels); err != nil {
		return fmt.Errorf("error fitting regressor: %w", err)
	}

	return nil
}

func (p *Pipeline) Predict(f WellFeatures) (float64, error) {
	x, err := p.Transformer.TransformRow(f)
	if err != nil {
		return 0, err
	}

	pred, err := p.Regressor.PredictRow(x)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(pred) || math.IsInf(pred, 0) {
		return 0, fmt.Errorf("model produced a non-finite prediction: %v", pred)
	}

	return pred, nil
}

// Evaluate returns the RMSE of the pipeline on ds.
func (p *Pipeline) Evaluate(ds *Dataset) (float64, error) {
	preds := make([]float64, ds.Len())
	for i, row := range ds.Rows {
		pred, err := p.Predict(row)
		if err != nil {
			return 0, fmt.Errorf("error predicting row %d: %w", i, err)
		}
		preds[i] = pred
	}
	return RMSE(ds.Labels, preds), nil
}

func (p *Pipeline) Save(w io.Writer) error {
	if p.Regressor == nil || len(p.Regressor.Trees) == 0 {
		return errors.New("cannot save a pipeline that has not been fitted")
	}
	if err := gob.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("error encoding pipeline: %w", err)
	}
	return nil
}

func LoadPipeline(r io.Reader) (*Pipeline, error) {
	var p Pipeline
	if err := gob.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("error decoding pipeline: %w", err)
	}

	if p.Transformer == nil || p.Regressor == nil {
		return nil, errors.New("pipeline artifact is incomplete")
	}
	if p.Transformer.Width() != p.Regressor.NFeatures {
		return nil, fmt.Errorf("pipeline artifact is inconsistent: transformer emits %d features, regressor expects %d", p.Transformer.Width(), p.Regressor.NFeatures)
	}
	for _, enc := range p.Transformer.Encoders {
		enc.rebuildIndex()
	}

	return &p, nil
}
