package services

import (
	"context"

	"freela/internal/core"
)

// EventIDInput addresses the event a read model is built for.
type EventIDInput struct {
	EventID string `json:"eventId"`
}

// GetEventSummary computes the financial summary of one event.
type GetEventSummary struct{ Deps }

func (uc *GetEventSummary) Execute(ctx context.Context, in EventIDInput) Result[core.EventSummary] {
	return execute(ctx, "get_event_summary", func() (core.EventSummary, error) {
		e, txs, settings, err := loadLedger(ctx, uc.Deps, in.EventID)
		if err != nil {
			return core.EventSummary{}, err
		}
		return core.SummarizeEvent(e, txs, settings), nil
	})
}

// loadLedger fetches an event, its transactions and the settings.
func loadLedger(ctx context.Context, d Deps, eventID string) (core.Event, []core.Transaction, core.Settings, error) {
	id, err := requireID(eventID, "eventId")
	if err != nil {
		return core.Event{}, nil, core.Settings{}, err
	}
	e, err := d.Events.FindByID(ctx, id)
	if err != nil {
		return core.Event{}, nil, core.Settings{}, err
	}
	txs, err := d.Transactions.FindByEventID(ctx, id)
	if err != nil {
		return core.Event{}, nil, core.Settings{}, err
	}
	settings, err := d.Settings.Get(ctx)
	if err != nil {
		return core.Event{}, nil, core.Settings{}, err
	}
	return e, txs, settings, nil
}

// PeriodInput selects a year and month. Zero values widen the period.
type PeriodInput struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// GetConsolidatedSummary adds up the summaries of every non-cancelled event in a period.
type GetConsolidatedSummary struct{ Deps }

func (uc *GetConsolidatedSummary) Execute(ctx context.Context, in PeriodInput) Result[core.ConsolidatedSummary] {
	return execute(ctx, "get_consolidated_summary", func() (core.ConsolidatedSummary, error) {
		if err := validatePeriod(in.Year, in.Month, false); err != nil {
			return core.ConsolidatedSummary{}, err
		}
		events, err := uc.Events.FindAll(ctx)
		if err != nil {
			return core.ConsolidatedSummary{}, err
		}
		all, err := uc.Transactions.FindAll(ctx)
		if err != nil {
			return core.ConsolidatedSummary{}, err
		}
		settings, err := uc.Settings.Get(ctx)
		if err != nil {
			return core.ConsolidatedSummary{}, err
		}

		byEvent := make(map[string][]core.Transaction)
		for _, t := range all {
			byEvent[t.EventID] = append(byEvent[t.EventID], t)
		}
		out := core.NewConsolidatedSummary(in.Year, in.Month)
		for _, e := range events {
			if e.Status == core.StatusCancelled || !inPeriod(e.Date, in.Year, in.Month) {
				continue
			}
			out.Add(e.Status, core.SummarizeEvent(e, byEvent[e.ID], settings))
		}
		return out, nil
	})
}
