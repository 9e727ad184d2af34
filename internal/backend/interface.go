// Package backend assembles storage, notifications and use cases from configuration.
package backend

import (
	"context"

	"freela/internal/ports"
	"freela/internal/services"
	"freela/internal/sheets"
	"freela/internal/storage"
)

// CleanupFunc releases the resources held by a backend.
type CleanupFunc func() error

// BackendResult is a ready-to-serve set of use cases plus what backs them.
type BackendResult struct {
	Services *services.Services
	Store    storage.Store
	// Notifier is nil when AMQP is disabled or unreachable.
	Notifier ports.StatusNotifier
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	CreateReportWriter(ctx context.Context, config Config) (sheets.ReportWriter, error)
}

// Config holds what backend creation needs from the application config.
type Config struct {
	Type         BackendType
	SQLiteDBPath string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	GoogleSpreadsheetID string
	ReportsSheetName    string
}

// BackendType names a storage backend.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
