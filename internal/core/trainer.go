package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"wellprod-backend/internal/database"
	"wellprod-backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ObjectLocation addresses a blob through a storage.Provider.
type ObjectLocation struct {
	Bucket string
	Key    string
}

func (l ObjectLocation) String() string {
	if l.Bucket == "" {
		return l.Key
	}
	return l.Bucket + "/" + l.Key
}

// Trainer runs the training job end to end: it reads the dataset, fits the
// pipeline on every row and overwrites the artifact.
type Trainer struct {
	db       *gorm.DB
	storage  storage.Provider
	spec     FeatureSpec
	dataset  ObjectLocation
	artifact ObjectLocation
	opts     []GBMOption
}

func NewTrainer(db *gorm.DB, storage storage.Provider, spec FeatureSpec, dataset, artifact ObjectLocation, opts ...GBMOption) *Trainer {
	return &Trainer{
		db:       db,
		storage:  storage,
		spec:     spec,
		dataset:  dataset,
		artifact: artifact,
		opts:     opts,
	}
}

// TrainingSummary describes a successful run.
type TrainingSummary struct {
	RunId     uuid.UUID
	Rows      int
	Features  int
	TrainRMSE float64
	Duration  time.Duration
}

func (t *Trainer) Run(ctx context.Context) (TrainingSummary, error) {
	pipeline := NewPipeline(t.spec, t.opts...)

	params, err := json.Marshal(pipeline.Regressor.Params)
	if err != nil {
		return TrainingSummary{}, fmt.Errorf("error serializing hyperparameters: %w", err)
	}

	run := database.TrainingRun{
		Id:             uuid.New(),
		DatasetBucket:  t.dataset.Bucket,
		DatasetKey:     t.dataset.Key,
		ArtifactBucket: t.artifact.Bucket,
		ArtifactKey:    t.artifact.Key,
		Status:         database.JobQueued,
		Params:         datatypes.JSON(params),
		CreationTime:   time.Now().UTC(),
	}
	if err := t.db.WithContext(ctx).Create(&run).Error; err != nil {
		slog.Error("error creating training run", "error", err)
		return TrainingSummary{}, fmt.Errorf("error creating training run: %w", err)
	}

	if err := database.UpdateTrainingRunStatus(ctx, t.db, run.Id, database.JobRunning); err != nil {
		return TrainingSummary{}, fmt.Errorf("error updating training run status: %w", err)
	}

	start := time.Now()
	summary, trainErr := t.train(ctx, pipeline)
	if trainErr != nil {
		slog.Error("training failed", "run_id", run.Id, "error", trainErr)
		if err := database.FailTrainingRun(context.WithoutCancel(ctx), t.db, run.Id, trainErr.Error()); err != nil {
			return TrainingSummary{}, fmt.Errorf("%w (also failed to record failure: %v)", trainErr, err)
		}
		return TrainingSummary{}, trainErr
	}
	summary.RunId = run.Id
	summary.Duration = time.Since(start)

	if err := database.CompleteTrainingRun(ctx, t.db, run.Id, summary.Rows, summary.TrainRMSE); err != nil {
		return TrainingSummary{}, fmt.Errorf("error completing training run: %w", err)
	}

	slog.Info("training completed", "run_id", run.Id, "rows", summary.Rows, "features", summary.Features, "train_rmse", summary.TrainRMSE, "duration", summary.Duration)

	return summary, nil
}

func (t *Trainer) train(ctx context.Context, pipeline *Pipeline) (TrainingSummary, error) {
	raw, err := t.storage.GetObject(ctx, t.dataset.Bucket, t.dataset.Key)
	if err != nil {
		return TrainingSummary{}, fmt.Errorf("error reading dataset %s: %w", t.dataset, err)
	}

	ds, err := ParseDataset(bytes.NewReader(raw), t.spec)
	if err != nil {
		return TrainingSummary{}, fmt.Errorf("error parsing dataset %s: %w", t.dataset, err)
	}
	slog.Info("loaded dataset", "location", t.dataset.String(), "rows", ds.Len())

	if err := pipeline.Fit(ctx, ds); err != nil {
		return TrainingSummary{}, err
	}

	rmse, err := pipeline.Evaluate(ds)
	if err != nil {
		return TrainingSummary{}, fmt.Errorf("error evaluating pipeline: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return TrainingSummary{}, err
	}

	var buf bytes.Buffer
	if err := pipeline.Save(&buf); err != nil {
		return TrainingSummary{}, err
	}

	if err := t.storage.CreateBucket(ctx, t.artifact.Bucket); err != nil {
		return TrainingSummary{}, fmt.Errorf("error creating artifact bucket: %w", err)
	}
	if err := t.storage.PutObject(ctx, t.artifact.Bucket, t.artifact.Key, &buf); err != nil {
		return TrainingSummary{}, fmt.Errorf("error writing artifact %s: %w", t.artifact, err)
	}
	slog.Info("wrote model artifact", "location", t.artifact.String())

	return TrainingSummary{
		Rows:      ds.Len(),
		Features:  pipeline.Transformer.Width(),
		TrainRMSE: rmse,
	}, nil
}

// LoadArtifact reads and decodes a pipeline previously written by a Trainer.
func LoadArtifact(ctx context.Context, provider storage.Provider, artifact ObjectLocation) (*Pipeline, error) {
	raw, err := provider.GetObject(ctx, artifact.Bucket, artifact.Key)
	if err != nil {
		return nil, fmt.Errorf("error reading artifact %s: %w", artifact, err)
	}
	return LoadPipeline(bytes.NewReader(raw))
}
