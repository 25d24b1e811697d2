package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"data-pipeline/internal/config"
	"data-pipeline/internal/middleware/logger"
	"data-pipeline/internal/pipeline"
	"data-pipeline/internal/pipeline/api"
	"data-pipeline/internal/pipeline/model"
	"data-pipeline/internal/storage"
)

func main() {
	once := flag.Bool("once", false, "run a single invocation and exit instead of serving HTTP")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	log.Info("Starting data pipeline",
		zap.String("backend", cfg.StorageBackend),
		zap.String("api_url", cfg.ExternalAPIURL+cfg.ResourcePath),
		zap.Int("retry_max_attempts", cfg.RetryMaxAttempts),
		zap.Duration("retry_delay", cfg.RetryDelay),
		zap.Int("batch_size", cfg.BatchSize),
	)

	store, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn("Failed to close store", zap.Error(err))
		}
	}()

	p := pipeline.New(log, cfg, store)

	if *once {
		summary := p.Run(ctx)
		_ = json.NewEncoder(os.Stdout).Encode(summary)
		if summary.Status == model.RunFailure {
			os.Exit(1)
		}
		return
	}

	srv := &api.Server{Log: log, Pipeline: p, Store: store}
	r := srv.Router()
	_ = r.SetTrustedProxies(nil)
	log.Info("Data pipeline trigger is listening", zap.String("address", cfg.ServerAddr))
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
