// Package worker reacts to event status messages outside the request path.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"freela/internal/cache"
	"freela/internal/core"
	"freela/internal/log"
	"freela/internal/ports"
	"freela/internal/services"
	"freela/internal/sheets"
)

// ReportGenerator produces the invoice view of an event.
type ReportGenerator interface {
	Execute(ctx context.Context, in services.EventIDInput) services.Result[core.EventReport]
}

// ReportSyncWorker appends an event report to the reports sheet each time an
// event enters REPORT_SENT.
type ReportSyncWorker struct {
	reports ReportGenerator
	writer  sheets.ReportWriter
	// synced maps a delivered status change to the rows it produced.
	synced *cache.LRU[string]
}

const (
	syncedCacheSize = 1024
	syncedCacheTTL  = 24 * time.Hour
)

func NewReportSyncWorker(reports ReportGenerator, writer sheets.ReportWriter) *ReportSyncWorker {
	return &ReportSyncWorker{
		reports: reports,
		writer:  writer,
		synced:  cache.NewLRU[string](syncedCacheSize, syncedCacheTTL, nil),
	}
}

// syncKey identifies one status change; redeliveries of it share the key.
func syncKey(msg ports.StatusChanged) string {
	return msg.EventID + "@" + msg.Timestamp.UTC().Format(time.RFC3339Nano)
}

// HandleStatusChanged processes one status message. A returned error asks the
// consumer to redeliver; events that vanished or were cancelled are skipped.
func (w *ReportSyncWorker) HandleStatusChanged(ctx context.Context, msg ports.StatusChanged) error {
	logger := log.FromContext(ctx)
	fields := func() log.LogFields {
		return log.NewFields().
			WithEvent(msg.EventID, "").
			WithStatusChange(string(msg.From), string(msg.To))
	}

	if msg.To != core.StatusReportSent {
		logger.LogFields(ctx, slog.LevelDebug, "Ignoring status change", fields())
		return nil
	}

	key := syncKey(msg)
	if ref, ok := w.synced.Get(key); ok {
		f := fields()
		f[log.FieldSheetsRef] = ref
		logger.LogFields(ctx, slog.LevelInfo, "Report already synced for this status change, skipping", f)
		return nil
	}

	logger.LogFields(ctx, slog.LevelInfo, "Syncing event report", fields())

	report, err := w.reports.Execute(ctx, services.EventIDInput{EventID: msg.EventID}).Unwrap()
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			logger.LogFields(ctx, slog.LevelWarn, "Event no longer exists, skipping report", fields().WithError(err))
			return nil
		}
		return fmt.Errorf("generate report for %s: %w", msg.EventID, err)
	}
	if report.Event.Status == core.StatusCancelled {
		logger.LogFields(ctx, slog.LevelWarn, "Event was cancelled, skipping report", fields())
		return nil
	}

	ref, err := w.writer.AppendEventReport(ctx, report)
	if err != nil {
		return fmt.Errorf("append report for %s: %w", msg.EventID, err)
	}
	w.synced.Set(key, ref)

	f := fields()
	f[log.FieldSheetsRef] = ref
	f[log.FieldAmountCents] = report.Total.Cents
	logger.LogFields(ctx, slog.LevelInfo, "Event report synced", f)
	return nil
}
