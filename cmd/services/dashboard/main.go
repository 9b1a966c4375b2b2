package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heliodash/heliodash/internal/config"
	"github.com/heliodash/heliodash/internal/display"
	"github.com/heliodash/heliodash/internal/forecast"
	"github.com/heliodash/heliodash/internal/ingest"
	"github.com/heliodash/heliodash/internal/logging"
	"github.com/heliodash/heliodash/internal/metrics"
	"github.com/heliodash/heliodash/internal/router"
	"github.com/heliodash/heliodash/internal/series"
	"github.com/heliodash/heliodash/internal/subscriber"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Dashboard service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	// Register Prometheus collectors
	metrics.Init()

	// Day boundaries and forecast stamps follow the configured wall clock
	loc := cfg.Display.Location()

	// Setup forecast source when enabled
	var source series.EstimateSource
	if cfg.Forecast.Enabled {
		client := forecast.NewClient(cfg.Forecast, logger)
		source = forecast.NewFetcher(client, logger)
		logger.Info("Forecast fetching enabled",
			"base_url", cfg.Forecast.BaseURL,
			"kwp", cfg.Forecast.KilowattPeak)
	}

	// Build the day accumulator
	acc, err := series.New(series.Config{
		CapacityWatts:   cfg.Display.CapacityWatts,
		RefreshMinutes:  cfg.Display.RefreshMinutes,
		ForecastEnabled: cfg.Forecast.Enabled,
	}, source, logger)
	if err != nil {
		logger.Fatal("Failed to create accumulator", "error", err)
	}

	renderer := display.NewLogRenderer(display.Options{
		HighExportWatts: cfg.Display.HighExportWatts,
		MaxChartPoints:  cfg.Display.MaxChartPoints,
	}, logger)

	dispatcher := ingest.NewDispatcher(cfg.Queue.Topics, acc, renderer, loc, logger)

	// Connect to the broker and subscribe all telemetry channels
	logger.Info("Connecting to broker", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
	sub, err := subscriber.NewSubscriber(cfg.Queue)
	if err != nil {
		logger.Fatal("Failed to connect to broker", "error", err)
	}
	defer func() { _ = sub.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, topic := range cfg.Queue.Topics.All() {
		if err := sub.Subscribe(ctx, topic, dispatcher.Handle); err != nil {
			logger.Fatal("Failed to subscribe", "topic", topic, "error", err)
		}
		logger.Info("Subscribed", "topic", topic)
	}

	// Start status API server
	app := router.New(logger, acc, *cfg, Version)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort)
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	// Graceful shutdown with 10 second timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
