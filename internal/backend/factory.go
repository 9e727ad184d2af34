package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"freela/internal/amqp"
	"freela/internal/log"
	"freela/internal/services"
	"freela/internal/sheets"
	gsheet "freela/internal/sheets/google"
	"freela/internal/sheets/memory"
	"freela/internal/storage"
)

// DefaultFactory implements Factory.
type DefaultFactory struct {
	logger *slog.Logger
	clock  func() time.Time
}

func NewFactory(logger *slog.Logger) *DefaultFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger.With(log.FieldComponent, log.ComponentBackend), clock: time.Now}
}

var _ Factory = (*DefaultFactory)(nil)

// CreateBackend opens the store, wires the repositories and, when configured,
// the AMQP notifier. An unreachable broker only disables notifications.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.openStore(config)
	if err != nil {
		return nil, err
	}

	var client *amqp.Client
	if config.AMQPURL != "" {
		client, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without notifications", "error", err)
			client = nil
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	repos := storage.NewRepositories(store, f.clock)
	deps := services.Deps{
		Events:       repos.Events,
		Transactions: repos.Transactions,
		Settings:     repos.Settings,
		Clock:        f.clock,
	}
	res := &BackendResult{Store: store}
	if client != nil {
		deps.Notifier = client
		res.Notifier = client
	}
	res.Services = services.New(deps)
	res.Cleanup = func() error {
		var errs []error
		if client != nil {
			errs = append(errs, client.Close())
		}
		errs = append(errs, store.Close())
		return errors.Join(errs...)
	}

	f.logger.InfoContext(ctx, "Initialized backend",
		"type", config.Type,
		"amqp_enabled", client != nil)
	return res, nil
}

func (f *DefaultFactory) openStore(config Config) (storage.Store, error) {
	switch config.Type {
	case SQLiteBackend:
		s, err := storage.NewSQLiteStore(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Opened SQLite store", "db_path", config.SQLiteDBPath)
		return s, nil
	case MemoryBackend:
		f.logger.Info("Using in-memory store; data is lost on exit")
		return storage.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
}

// CreateReportWriter returns the Google Sheets writer, or the in-memory one
// when no spreadsheet is configured.
func (f *DefaultFactory) CreateReportWriter(ctx context.Context, config Config) (sheets.ReportWriter, error) {
	if config.GoogleSpreadsheetID == "" {
		f.logger.WarnContext(ctx, "GOOGLE_SPREADSHEET_ID not set, keeping reports in memory")
		return memory.New(), nil
	}
	w, err := gsheet.Dial(ctx, config.GoogleSpreadsheetID, config.ReportsSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	return w, nil
}
