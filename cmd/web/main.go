package main

import (
	"memberflow_backend/internal/app"
	"memberflow_backend/internal/config"
	"memberflow_backend/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err.Error())
	}

	if err := app.Run(cfg); err != nil {
		logger.Fatal("server exited with error", "error", err.Error())
	}
}
