package main

import (
	"context"
	"os"

	"ganak-service/src/app"
	"ganak-service/src/config"
	"ganak-service/src/logger"
	"ganak-service/src/server"
)

const (
	// Define the environment variable prefix as a constant
	SERVICE_PREFIX = "GANAK"
)

func main() {
	// Pick the env file, defaulting to the one next to the binary
	envFile := os.Getenv(SERVICE_PREFIX + "_ENV_FILE")
	if envFile == "" {
		envFile = config.DefaultEnvFile
	}
	if err := config.LoadEnvFile(envFile, false); err != nil {
		logger.NewLogger(logger.WARN).Warn("⚠️ Could not load env file " + envFile + ": " + err.Error())
	}

	// Load configuration from environment with the defined prefix
	cfg, err := config.NewConfig(SERVICE_PREFIX)
	if err != nil {
		logger.NewLogger(logger.ERROR).Fatalf("❌ CONFIGURATION FATAL ERROR: %v", err)
	}

	// Compose the application; only the fail-fast policy returns an error here
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		cfg.Logger.Fatalf("❌ DATABASE FATAL ERROR: %v", err)
	}

	// Pass the application to the server
	server.StartServer(a)
}
