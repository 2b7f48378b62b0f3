package database

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func UpdateTrainingRunStatus(ctx context.Context, txn *gorm.DB, runId uuid.UUID, status string) error {
	updates := map[string]any{"status": status}
	if status == JobCompleted || status == JobFailed {
		updates["completion_time"] = time.Now().UTC()
	}

	if err := txn.WithContext(ctx).Model(&TrainingRun{Id: runId}).Updates(updates).Error; err != nil {
		slog.Error("error updating training run status", "run_id", runId, "status", status, "error", err)
		return err
	}
	return nil
}

func CompleteTrainingRun(ctx context.Context, txn *gorm.DB, runId uuid.UUID, rows int, rmse float64) error {
	updates := map[string]any{
		"status":          JobCompleted,
		"dataset_rows":    rows,
		"train_rmse":      sql.NullFloat64{Float64: rmse, Valid: true},
		"completion_time": time.Now().UTC(),
	}

	if err := txn.WithContext(ctx).Model(&TrainingRun{Id: runId}).Updates(updates).Error; err != nil {
		slog.Error("error completing training run", "run_id", runId, "error", err)
		return err
	}
	return nil
}

func FailTrainingRun(ctx context.Context, txn *gorm.DB, runId uuid.UUID, errorMessage string) error {
	updates := map[string]any{
		"status":          JobFailed,
		"error":           sql.NullString{String: errorMessage, Valid: true},
		"completion_time": time.Now().UTC(),
	}

	if err := txn.WithContext(ctx).Model(&TrainingRun{Id: runId}).Updates(updates).Error; err != nil {
		slog.Error("error marking training run failed", "run_id", runId, "error", err)
		return err
	}
	return nil
}

func LatestTrainingRun(ctx context.Context, txn *gorm.DB) (TrainingRun, error) {
	var run TrainingRun
	err := txn.WithContext(ctx).Order("creation_time DESC").First(&run).Error
	return run, err
}
