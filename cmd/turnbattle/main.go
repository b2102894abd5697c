// Package main is the entry point for TurnBattle.
package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/samdwyer/turnbattle/internal/game"
	"github.com/samdwyer/turnbattle/internal/logger"
	"github.com/samdwyer/turnbattle/internal/telemetry"
)

func main() {
	// Load .env file for local development.
	// This makes HONEYCOMB_TURNBATTLE_API_KEY available.
	envErr := godotenv.Load()

	cfg, err := game.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid configuration.")
	}

	// The terminal owns stdout, so logs go to a file.
	out, closeLog := openLogFile(cfg.LogFile)
	defer closeLog()
	logger.Init(cfg.LoggerOptions(out))
	log := logger.Component("main")

	if envErr != nil {
		// Not fatal - env vars might be set directly
		log.WithError(envErr).Debug(".env file not loaded.")
	}

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx, cfg.TelemetryOptions())
	switch {
	case errors.Is(err, telemetry.ErrDisabled):
		log.Info("Telemetry disabled.")
	case err != nil:
		log.WithError(err).Warn("Telemetry setup failed; running without observability.")
	default:
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.WithError(err).Error("Error shutting down telemetry.")
			}
		}()
	}

	g, err := game.New(cfg)
	if err != nil {
		log.WithError(err).Error("Failed to initialize game.")
		os.Exit(1)
	}

	if err := g.Run(ctx); err != nil {
		log.WithError(err).Error("Game error.")
		os.Exit(1)
	}
}

// openLogFile opens path for appending. An empty path discards logs.
func openLogFile(path string) (io.Writer, func()) {
	if path == "" {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.Log.WithError(err).Warnf("Cannot open log file %s; logging to stderr.", path)
		return os.Stderr, func() {}
	}
	return f, func() { f.Close() }
}
