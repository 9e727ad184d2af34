// Package ports declares the contracts the use cases depend on.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

import (
	"context"
	"time"

	"freela/internal/core"
)

type (
	// EventRepository persists events. FindByID returns a core.ErrNotFound error when absent.
	EventRepository interface {
		Save(ctx context.Context, e core.Event) error
		FindByID(ctx context.Context, id string) (core.Event, error)
		FindAll(ctx context.Context) ([]core.Event, error)
		Delete(ctx context.Context, id string) error
		DeleteAll(ctx context.Context) error
	}

	// TransactionRepository persists transactions.
	TransactionRepository interface {
		Save(ctx context.Context, t core.Transaction) error
		FindByID(ctx context.Context, id string) (core.Transaction, error)
		FindAll(ctx context.Context) ([]core.Transaction, error)
		FindByEventID(ctx context.Context, eventID string) ([]core.Transaction, error)
		Delete(ctx context.Context, id string) error
		DeleteAll(ctx context.Context) error
		CountByEvent(ctx context.Context, eventID string) (int, error)
		// TotalsByEvent aggregates expenses and income per event id.
		TotalsByEvent(ctx context.Context) (map[string]core.EventTotals, error)
	}

	// SettingsRepository stores the settings singleton. Get creates and persists
	// the defaults on first use.
	SettingsRepository interface {
		Get(ctx context.Context) (core.Settings, error)
		Save(ctx context.Context, s core.Settings) error
	}
)

// StatusChanged describes an event status transition.
type StatusChanged struct {
	EventID   string           `json:"eventId"`
	From      core.EventStatus `json:"from"`
	To        core.EventStatus `json:"to"`
	Timestamp time.Time        `json:"timestamp"`
}

// StatusNotifier publishes status transitions to other processes.
type StatusNotifier interface {
	PublishStatusChanged(ctx context.Context, msg StatusChanged) error
}
