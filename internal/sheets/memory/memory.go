// Package memory keeps written reports in process, for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"freela/internal/core"
	"freela/internal/sheets"
)

// Writer records every appended report and its rows.
type Writer struct {
	mu      sync.Mutex
	reports []core.EventReport
	rows    [][]any
}

var _ sheets.ReportWriter = (*Writer)(nil)

func New() *Writer { return &Writer{} }

// AppendEventReport stores the report and returns a synthetic row reference.
func (w *Writer) AppendEventReport(_ context.Context, r core.EventReport) (string, error) {
	if r.Event.ID == "" {
		return "", fmt.Errorf("report without event")
	}
	rows := sheets.ReportRows(r)

	w.mu.Lock()
	defer w.mu.Unlock()
	first := len(w.rows) + 1
	w.reports = append(w.reports, r)
	w.rows = append(w.rows, rows...)
	return fmt.Sprintf("mem:%d-%d", first, len(w.rows)), nil
}

// Reports returns a copy of the reports written so far.
func (w *Writer) Reports() []core.EventReport {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]core.EventReport(nil), w.reports...)
}

// Rows returns a copy of the rows written so far.
func (w *Writer) Rows() [][]any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([][]any(nil), w.rows...)
}
