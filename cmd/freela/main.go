package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"freela/internal/backend"
	"freela/internal/cli"
	apphttp "freela/internal/http"
)

func main() {
	cfg, logger := cli.MustStart("app", false)

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendConfig)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", backendConfig.Type)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, res.Services, logger)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting freela server",
			"port", cfg.Port,
			"backend", backendConfig.Type,
			"notifications", res.Notifier != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("Server error", "error", err, "port", cfg.Port)
			_ = res.Cleanup()
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped gracefully")
}
