package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"tyrezone/internal/config"
	"tyrezone/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init("tyrezone", cfg.IsDevelopment())
	logger.SetLevel(cfg.Log.Level)

	// --- Wiring ---
	app, err := NewApp(cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize application")
	}

	// --- Start HTTP Server ---
	logger.Logger.Info().
		Str("port", cfg.App.Port).
		Str("storage", cfg.Storage.Driver).
		Str("cart", cfg.Cart.Driver).
		Str("events", cfg.Events.Driver).
		Msg("Starting server")

	go func() {
		if err := app.Fiber.Listen(cfg.App.Port); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Logger.Info().Msg("Shutting down server...")

	// in-flight checkout submissions finish before resources close
	if err := app.Fiber.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Logger.Error().Err(err).Msg("Error during Fiber shutdown")
	}
	if err := app.Close(); err != nil {
		logger.Logger.Error().Err(err).Msg("Error closing resources")
	}
	logger.Logger.Info().Msg("Server gracefully stopped")
}
