package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wellprod-backend/cmd"
	"wellprod-backend/internal/api"
	"wellprod-backend/internal/config"
	"wellprod-backend/internal/core"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func createServer(predictor api.Predictor, cfg config.ServeConfig, mode core.FeatureMode) *http.Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Origins(),
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300, // Cache preflight response for 5 minutes
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Log requests
	r.Use(middleware.Recoverer) // Recover from panics

	service := api.NewPredictionService(predictor, mode, cfg.StrictRequestFields)
	service.AddRoutes(r)

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}
}

func main() {
	log.Println("Starting prediction service...")

	cmd.LoadEnvFile()

	var cfg config.ServeConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	mode, err := core.ParseFeatureMode(cfg.FeatureMode)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	provider := cmd.CreateStorageProvider(cfg.Storage)

	artifact := core.ObjectLocation{Bucket: cfg.Artifact.ArtifactBucket, Key: cfg.Artifact.ArtifactKey}
	pipeline, err := core.LoadArtifact(context.Background(), provider, artifact)
	if err != nil {
		log.Fatalf("Failed to load model artifact: %v", err)
	}
	slog.Info("loaded model artifact", "location", artifact.String(), "features", pipeline.Transformer.Width(), "trees", len(pipeline.Regressor.Trees), "feature_mode", mode)

	server := createServer(pipeline, cfg, mode)

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("Prediction server listening on port %d", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v\n", cfg.Port, err)
	}

	log.Println("Server stopped.")
}
