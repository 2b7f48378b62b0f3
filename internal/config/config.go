package config

import (
	"fmt"
	"strings"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type StorageConfig struct {
	Backend           string `env:"STORAGE_BACKEND" envDefault:"local"`
	LocalDir          string `env:"STORAGE_DIR" envDefault:"."`
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
}

func (c StorageConfig) Validate() error {
	switch c.Backend {
	case StorageLocal:
		return nil
	case StorageS3:
		if c.S3EndpointURL != "" && (c.S3AccessKeyID == "" || c.S3SecretAccessKey == "") {
			return fmt.Errorf("S3_ENDPOINT_URL is set but AWS_ACCESS_KEY_ID or AWS_SECRET_ACCESS_KEY is missing")
		}
		return nil
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND '%s': must be '%s' or '%s'", c.Backend, StorageLocal, StorageS3)
	}
}

// ArtifactConfig locates the serialized pipeline. With the local backend and
// the default empty bucket it resolves to ./model.gob.
type ArtifactConfig struct {
	ArtifactBucket string `env:"ARTIFACT_BUCKET" envDefault:""`
	ArtifactKey    string `env:"ARTIFACT_KEY" envDefault:"model.gob"`
}

type TrainConfig struct {
	Storage  StorageConfig
	Artifact ArtifactConfig

	DatabaseURL   string `env:"DATABASE_URL" envDefault:"training_runs.db"`
	DatasetBucket string `env:"DATASET_BUCKET" envDefault:""`
	DatasetKey    string `env:"DATASET_KEY" envDefault:"aer_wells.csv"`
	Workers       int    `env:"TRAIN_WORKERS" envDefault:"0"`
	Progress      bool   `env:"TRAIN_PROGRESS" envDefault:"true"`
}

type ServeConfig struct {
	Storage  StorageConfig
	Artifact ArtifactConfig

	Port                int      `env:"PORT" envDefault:"8000"`
	FeatureMode         string   `env:"FEATURE_MODE" envDefault:"pipeline"`
	StrictRequestFields bool     `env:"STRICT_REQUEST_FIELDS" envDefault:"false"`
	AllowedOrigins      []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

func (c ServeConfig) Origins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c TrainConfig) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.Storage.Backend == StorageS3 && (c.DatasetBucket == "" || c.Artifact.ArtifactBucket == "") {
		return fmt.Errorf("DATASET_BUCKET and ARTIFACT_BUCKET must be set when STORAGE_BACKEND is '%s'", StorageS3)
	}
	return nil
}

func (c ServeConfig) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.Storage.Backend == StorageS3 && c.Artifact.ArtifactBucket == "" {
		return fmt.Errorf("ARTIFACT_BUCKET must be set when STORAGE_BACKEND is '%s'", StorageS3)
	}
	return nil
}
