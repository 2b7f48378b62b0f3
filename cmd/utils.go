package cmd

import (
	"flag"
	"log"
	"log/slog"

	"wellprod-backend/internal/config"
	"wellprod-backend/internal/storage"

	"github.com/joho/godotenv"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

func CreateStorageProvider(cfg config.StorageConfig) storage.Provider {
	switch cfg.Backend {
	case config.StorageS3:
		provider, err := storage.NewS3Provider(&storage.S3ProviderConfig{
			S3EndpointURL:     cfg.S3EndpointURL,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
			S3Region:          cfg.S3Region,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 storage provider: %v", err)
		}
		slog.Info("using s3 storage", "endpoint", cfg.S3EndpointURL, "region", cfg.S3Region)
		return provider
	default:
		slog.Info("using local storage", "dir", cfg.LocalDir)
		return storage.NewLocalProvider(cfg.LocalDir)
	}
}
