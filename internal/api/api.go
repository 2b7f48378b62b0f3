package api

import (
	"log/slog"
	"net/http"

	"wellprod-backend/internal/core"
	"wellprod-backend/pkg/api"

	"github.com/go-chi/chi/v5"
)

// Predictor is the read-only view of a fitted pipeline used by the handlers.
// Implementations must be safe for concurrent use.
type Predictor interface {
	Predict(f core.WellFeatures) (float64, error)
}

type PredictionService struct {
	predictor    Predictor
	mode         core.FeatureMode
	strictFields bool
}

func NewPredictionService(predictor Predictor, mode core.FeatureMode, strictFields bool) *PredictionService {
	return &PredictionService{
		predictor:    predictor,
		mode:         mode,
		strictFields: strictFields,
	}
}

func (s *PredictionService) AddRoutes(r chi.Router) {
	r.Post("/predict", RestHandler(s.Predict))
}

func (s *PredictionService) Predict(r *http.Request) (any, error) {
	req, err := ParseRequest[api.WellRecord](r, s.strictFields)
	if err != nil {
		return nil, err
	}

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	features := s.mode.Project(toWellFeatures(req))

	p50, err := s.predictor.Predict(features)
	if err != nil {
		slog.Error("error running prediction", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error running prediction")
	}

	res := core.NewPredictionResult(p50)

	return api.PredictResponse{P50: res.P50, P10: res.P10, P90: res.P90}, nil
}

// toWellFeatures keeps the six model columns. horizontal_flag, the surface
// coordinates and field are accepted but never reach the model.
func toWellFeatures(req api.WellRecord) core.WellFeatures {
	return core.WellFeatures{
		MdM:              *req.MdM,
		TvdM:             *req.TvdM,
		ProppantTonnes:   *req.ProppantTonnes,
		PrimaryFormation: *req.PrimaryFormation,
		Operator:         *req.Operator,
		SpudMonth:        float64(*req.SpudMonth),
	}
}
