package main

import (
	"context"
	"errors"
	"os"

	"freela/internal/amqp"
	"freela/internal/backend"
	"freela/internal/cli"
	"freela/internal/log"
	"freela/internal/worker"
)

func main() {
	cfg, logger := cli.MustStart("worker", true)
	logger.Info("Starting freela-worker")

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	if backendConfig.Type == backend.MemoryBackend {
		logger.Warn("Worker runs on the memory backend; it will not see events stored by the server",
			"hint", "set DATA_BACKEND=sqlite on both processes")
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	factory := backend.NewFactory(logger.Logger)
	// Reports are read only; status changes are not republished.
	backendConfig.AMQPURL = ""
	res, err := factory.CreateBackend(ctx, backendConfig)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", backendConfig.Type)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	writer, err := factory.CreateReportWriter(ctx, backendConfig)
	if err != nil {
		logger.Error("Failed to initialize report writer", "error", err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	reports := worker.NewReportSyncWorker(res.Services.GenerateEventReport, writer)
	ctx = log.NewContext(ctx, logger.WithComponent(log.ComponentWorker))
	err = client.ConsumeStatusChanged(ctx, reports.HandleStatusChanged)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
