package main

import (
	"log"

	"go.uber.org/zap"

	"bloodbank/pkg/config"
	"bloodbank/pkg/database"
	"bloodbank/pkg/server"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("starting blood bank service", zap.String("port", cfg.HTTPPort))
	if cfg.SecretIsDefault() {
		logger.Warn("SECRET_KEY is the insecure default, set it before deploying")
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
	if err := database.Seed(db, logger); err != nil {
		logger.Fatal("database seeding failed", zap.Error(err))
	}

	srv := server.New(db, cfg, logger)
	if err := srv.Router().Run(":" + cfg.HTTPPort); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	return logger
}
