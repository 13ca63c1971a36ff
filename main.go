package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tour-guide-server/config"
	"tour-guide-server/di"
	"tour-guide-server/logger"
)

const SERVICE_NAME = "tour-guide-server"
const DEFAULT_CONFIG_PATH = "config.yaml"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = DEFAULT_CONFIG_PATH
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if err := logger.Init(SERVICE_NAME, cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	err = run(cfg)
	if err != nil {
		logger.L().Error("Server exited with error", zap.Error(err))
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run owns every resource it opens; returning runs their deferred cleanup.
func run(cfg *config.Config) error {
	container, err := di.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("build container: %w", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.L().Info("Running initial refresh")
	if err := container.SpotsRefresherService.RefreshSpotsData(ctx); err != nil {
		logger.L().Error("Initial refresh failed, serving the cached snapshot", zap.Error(err))
	}

	if err := container.SpotsRefresherService.Start(cfg.Refresh.Cron); err != nil {
		return fmt.Errorf("start refresher: %w", err)
	}
	defer container.SpotsRefresherService.Stop()

	if err := container.TourGuideHttpServer.Start(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
