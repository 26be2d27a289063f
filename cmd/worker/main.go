package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/listing-service/internal/app"
	"github.com/listing-service/internal/config"
	"github.com/listing-service/internal/pkg/logger"
	"github.com/listing-service/internal/worker"
	"github.com/listing-service/internal/worker/geocode"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Listing Geocode Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Int("batch_size", cfg.Worker.BatchSize))

	// 3. Connect dependencies
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	container, err := app.Build(initCtx, cfg, log)
	initCancel()
	if err != nil {
		log.Fatal("Failed to initialize dependencies", zap.Error(err))
	}
	defer container.Close()

	// 4. Initialize workers
	regeocodeWorker := geocode.NewRegeocodeWorker(
		container.Streams,
		container.ListingUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		cfg.Worker.MaxRetries,
		log,
	)

	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(regeocodeWorker)

	// 5. Start workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Stop сначала даёт воркерам закончить текущий batch, затем отменяем контекст
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
