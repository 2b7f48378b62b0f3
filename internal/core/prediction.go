package core

const (
	LowerBoundFactor = 0.85
	UpperBoundFactor = 1.15
)

// PredictionResult is a point estimate with fixed ±15% bounds around it. The
// bounds are a deterministic transform, not fitted quantiles.
type PredictionResult struct {
	P50 float64
	P10 float64
	P90 float64
}

func NewPredictionResult(p50 float64) PredictionResult {
	return PredictionResult{
		P50: p50,
		P10: p50 * LowerBoundFactor,
		P90: p50 * UpperBoundFactor,
	}
}
