package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/tomtap1997/dashbord-tr/internal/app"
	"github.com/tomtap1997/dashbord-tr/internal/config"
	"github.com/tomtap1997/dashbord-tr/internal/infrastructure"
)

func main() {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := context.Background()
	application, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}
