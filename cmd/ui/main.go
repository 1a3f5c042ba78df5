package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"raidash/internal/config"
	"raidash/internal/container"
	"raidash/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Close()

	if err := appContainer.Init(ctx); err != nil {
		appContainer.Logger.Error("Failed to initialize container: %v", err)
		os.Exit(1)
	}

	server, err := ui.NewServer(appContainer.Dashboard, appContainer.Catalog, ui.Options{
		Logger:      appContainer.Logger,
		Metrics:     appContainer.Metrics,
		Language:    appConfig.Dashboard.Language,
		TopN:        appConfig.Dashboard.TopN,
		Spreadsheet: appContainer.Spreadsheet,
	})
	if err != nil {
		appContainer.Logger.Error("Failed to initialize server: %v", err)
		os.Exit(1)
	}

	if err := server.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		appContainer.Logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
	appContainer.Logger.Info("Dashboard stopped")
}
