package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"raidash/adapters/backend"
	"raidash/adapters/fixtures"
	"raidash/internal/config"
	"raidash/internal/container"
	"raidash/internal/testkit"
)

// The fixture backend answers /predict, /matrix, /tree and /importances for
// the configured dataset so a live dashboard can run without a model server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Close()
	logger := appContainer.Logger.With("component", "backend")

	kit := testkit.NewTestKitWithConfig(testkit.GeneratorConfig{
		Rows: appConfig.Dashboard.Rows,
		Seed: appConfig.Dashboard.Seed,
	})
	data, err := kit.Dataset(appConfig.Dashboard.Dataset)
	if err != nil {
		logger.Error("Failed to generate dataset %s: %v", appConfig.Dashboard.Dataset, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := backend.NewServer(fixtures.NewProvider(data, logger), logger, appContainer.Metrics)
	if err := server.Start(ctx, ":"+appConfig.Backend.Port); err != nil {
		logger.Error("Backend failed: %v", err)
		os.Exit(1)
	}
}
