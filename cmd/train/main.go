package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"runtime"
	"syscall"

	"wellprod-backend/cmd"
	"wellprod-backend/internal/config"
	"wellprod-backend/internal/core"
	"wellprod-backend/internal/database"

	"github.com/caarlos0/env/v11"
	"github.com/schollz/progressbar/v3"
)

func main() {
	log.Println("Starting training job...")

	cmd.LoadEnvFile()

	var cfg config.TrainConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	spec, err := core.LoadFeatureSpec()
	if err != nil {
		log.Fatalf("error loading feature spec: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	provider := cmd.CreateStorageProvider(cfg.Storage)

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	opts := []core.GBMOption{core.WithWorkers(workers)}

	if cfg.Progress {
		bar := progressbar.NewOptions(spec.Regressor.NEstimators,
			progressbar.OptionSetDescription("boosting"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		opts = append(opts, core.WithProgress(func(stage, total int) {
			_ = bar.Set(stage)
		}))
		defer bar.Finish() //nolint:errcheck
	}

	trainer := core.NewTrainer(db, provider, spec,
		core.ObjectLocation{Bucket: cfg.DatasetBucket, Key: cfg.DatasetKey},
		core.ObjectLocation{Bucket: cfg.Artifact.ArtifactBucket, Key: cfg.Artifact.ArtifactKey},
		opts...,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := trainer.Run(ctx)
	if err != nil {
		stop()
		log.Fatalf("training failed: %v", err)
	}

	slog.Info("model trained", "run_id", summary.RunId, "rows", summary.Rows, "train_rmse", summary.TrainRMSE, "duration", summary.Duration)
	log.Printf("Model saved to %s", core.ObjectLocation{Bucket: cfg.Artifact.ArtifactBucket, Key: cfg.Artifact.ArtifactKey})
}
