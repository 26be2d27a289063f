package main

// @title Listing Service API
// @version 1.0.0
// @description Сервис объявлений об аренде: создание, просмотр, редактирование и удаление объявлений.
// @description
// @description Основные возможности:
// @description - Список объявлений с фильтром по категории
// @description - Геокодирование адреса "location, country" при создании и обновлении
// @description - Изображения во внешнем blob storage
// @description - Изменение и удаление только владельцем

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/listing-service/docs"
	"github.com/listing-service/internal/app"
	"github.com/listing-service/internal/config"
	httpDelivery "github.com/listing-service/internal/delivery/http"
	"github.com/listing-service/internal/delivery/http/handler"
	"github.com/listing-service/internal/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Listing Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("storage", cfg.Storage.Driver),
	)

	// 3. Connect dependencies and build use cases
	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	container, err := app.Build(initCtx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize dependencies", zap.Error(err))
	}
	defer container.Close()

	// 4. Initialize HTTP Handlers
	listingHandler := handler.NewListingHandler(container.ListingUC, log)
	healthHandler := handler.NewHealthHandler(container.HealthChecks, log)

	// 5. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		container.Metrics,
		container.Guard,
		listingHandler,
		healthHandler,
	)

	// 6. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
