package memory

import (
	"context"
	"testing"

	"freela/internal/core"
)

func TestWriterAppendEventReport(t *testing.T) {
	w := New()
	ctx := context.Background()
	r := core.EventReport{
		Event:    core.Event{ID: "ev-1", Name: "Festival X", Date: core.NewDate(2025, 5, 3)},
		Services: []core.ReportLine{{Description: "diária", Amount: core.Money{Cents: 300_00}}},
		Total:    core.Money{Cents: 300_00},
	}

	ref, err := w.AppendEventReport(ctx, r)
	if err != nil || ref != "mem:1-2" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}
	ref, err = w.AppendEventReport(ctx, r)
	if err != nil || ref != "mem:3-4" {
		t.Fatalf("unexpected second append: ref=%q err=%v", ref, err)
	}
	if got := len(w.Reports()); got != 2 {
		t.Errorf("Reports() = %d, want 2", got)
	}
	if got := len(w.Rows()); got != 4 {
		t.Errorf("Rows() = %d, want 4", got)
	}

	if _, err := w.AppendEventReport(ctx, core.EventReport{}); err == nil {
		t.Error("expected error for a report without event")
	}
}
