package main

import (
	"fmt"
	"os"

	"github.com/wanderlust-cottage/booking-api/config"
	"github.com/wanderlust-cottage/booking-api/pkg/db"
	"github.com/wanderlust-cottage/booking-api/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: "booking-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Database.URL == "" {
		logger.Fatal("DATABASE_URL is required to run migrations")
	}

	source := "file://migrations"
	if len(os.Args) > 1 {
		source = os.Args[1]
	}

	logger.Info("Starting database migrations",
		zap.String("database", db.MaskURL(cfg.Database.URL)),
		zap.String("source", source))

	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.CACertPath, source); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed successfully")
}
