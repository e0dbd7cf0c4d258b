package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/bank-products/internal/app/service"
	"github.com/mrops-br/bank-products/internal/domain"
	"github.com/mrops-br/bank-products/internal/infrastructure/config"
	"github.com/mrops-br/bank-products/internal/infrastructure/http"
	"github.com/mrops-br/bank-products/internal/infrastructure/http/handler"
	"github.com/mrops-br/bank-products/internal/infrastructure/repository/memory"
	"github.com/mrops-br/bank-products/internal/infrastructure/telemetry"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize OpenTelemetry; Prometheus backs /metrics in both modes
	telem, err := telemetry.Setup(&cfg.OTLP, telemetry.Options{
		Level:      cfg.LogLevel,
		Prometheus: true,
	})
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("bank-products-api")
	meter := telem.MeterProvider.Meter("bank-products-api")
	logger := telem.Logger

	logger.Info("Starting bank products API")

	var seed []domain.Product
	if cfg.SeedFile != "" {
		seed, err = memory.LoadSeed(cfg.SeedFile)
		if err != nil {
			logger.Error("Failed to load seed file",
				slog.String("path", cfg.SeedFile),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		logger.Info("Seed loaded",
			slog.String("path", cfg.SeedFile),
			slog.Int("count", len(seed)),
		)
	}

	repo := memory.NewProductRepository(tracer, logger, seed...)
	productService := service.NewProductService(repo, tracer, meter, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	server := http.NewServer(&cfg.Server, productHandler, telem.MeterProvider, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}
