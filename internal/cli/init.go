// Package cli holds the start-up steps shared by cmd/freela and cmd/freela-worker.
package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"freela/internal/config"
	"freela/internal/log"
)

// LoadEnvFile loads .env (or the given files) for local development.
// A missing file is not an error.
func LoadEnvFile(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// LoadConfig loads and validates the configuration. worker adds the checks
// only the report worker needs.
func LoadConfig(worker bool) (*config.Config, error) {
	cfg := config.Load()
	validate := cfg.Validate
	if worker {
		validate = cfg.ValidateWorker
	}
	if err := validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the process logger from cfg and installs it as the slog default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	logger := log.New(cfg.LoggerConfig(component))
	log.SetDefault(logger)
	return logger
}

// MustStart loads .env and the configuration and sets up logging, exiting on failure.
func MustStart(component string, worker bool) (*config.Config, *log.Logger) {
	if err := LoadEnvFile(); err != nil {
		slog.Error("Failed to load .env file", "error", err)
		os.Exit(1)
	}
	cfg, err := LoadConfig(worker)
	if err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg, SetupLogger(cfg, component)
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
	}()
	return ctx, stop
}
