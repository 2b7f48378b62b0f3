package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	JobQueued    string = "QUEUED"
	JobRunning   string = "RUNNING"
	JobCompleted string = "COMPLETED"
	JobFailed    string = "FAILED"
)

// TrainingRun records the outcome of one invocation of the training job. It is
// bookkeeping only, the serving process never reads it.
type TrainingRun struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	DatasetBucket  string `gorm:"not null"`
	DatasetKey     string `gorm:"not null"`
	ArtifactBucket string `gorm:"not null"`
	ArtifactKey    string `gorm:"not null"`

	Status      string          `gorm:"size:20;not null"`
	DatasetRows int             `gorm:"default:0"`
	TrainRMSE   sql.NullFloat64 `gorm:"column:train_rmse"`
	Params      datatypes.JSON
	Error       sql.NullString

	CreationTime   time.Time
	CompletionTime sql.NullTime
}
