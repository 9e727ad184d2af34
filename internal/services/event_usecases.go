package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"freela/internal/core"
	"freela/internal/log"
	"freela/internal/ports"
)

// EventInput carries the editable fields of an event.
type EventInput struct {
	Name        string    `json:"name"`
	Date        core.Date `json:"date"`
	Description string    `json:"description"`
	Client      string    `json:"client"`
	City        string    `json:"city"`
	StartDate   core.Date `json:"startDate"`
	EndDate     core.Date `json:"endDate"`
}

func (in EventInput) details() core.EventDetails {
	return core.EventDetails{
		Name:        in.Name,
		Date:        in.Date,
		Description: in.Description,
		Client:      in.Client,
		City:        in.City,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
}

// CreateEvent registers a new PLANNED event.
type CreateEvent struct{ Deps }

func (uc *CreateEvent) Execute(ctx context.Context, in EventInput) Result[core.Event] {
	return execute(ctx, "create_event", func() (core.Event, error) {
		e, err := core.NewEvent(in.details(), uc.now())
		if err != nil {
			return core.Event{}, err
		}
		if err := uc.Events.Save(ctx, e); err != nil {
			return core.Event{}, err
		}
		slog.InfoContext(ctx, "Event created", "event_id", e.ID, "name", e.Name, "date", e.Date.String())
		return e, nil
	})
}

// IDInput addresses a single entity.
type IDInput struct {
	ID string `json:"id"`
}

func requireID(id, field string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", core.Validation("%s is required", field)
	}
	return id, nil
}

// GetEvent loads one event.
type GetEvent struct{ Deps }

func (uc *GetEvent) Execute(ctx context.Context, in IDInput) Result[core.Event] {
	return execute(ctx, "get_event", func() (core.Event, error) {
		id, err := requireID(in.ID, "id")
		if err != nil {
			return core.Event{}, err
		}
		return uc.Events.FindByID(ctx, id)
	})
}

// ListEventsInput filters the event listing. Cancelled events are hidden unless
// IncludeCancelled is set or Status asks for them.
type ListEventsInput struct {
	Status           string `json:"status"`
	IncludeCancelled bool   `json:"includeCancelled"`
	Year             int    `json:"year"`
	Month            int    `json:"month"`
}

// EventListItem is an event with its transaction totals.
type EventListItem struct {
	core.Event
	Totals core.EventTotals `json:"totals"`
}

// ListEvents returns events newest first.
type ListEvents struct{ Deps }

func (uc *ListEvents) Execute(ctx context.Context, in ListEventsInput) Result[[]EventListItem] {
	return execute(ctx, "list_events", func() ([]EventListItem, error) {
		if err := validatePeriod(in.Year, in.Month, false); err != nil {
			return nil, err
		}
		var status core.EventStatus
		if strings.TrimSpace(in.Status) != "" {
			st, err := core.ParseEventStatus(in.Status)
			if err != nil {
				return nil, err
			}
			status = st
		}
		events, err := uc.Events.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		totals, err := uc.Transactions.TotalsByEvent(ctx)
		if err != nil {
			return nil, err
		}

		items := []EventListItem{}
		for _, e := range events {
			if status != "" && e.Status != status {
				continue
			}
			if e.Status == core.StatusCancelled && !in.IncludeCancelled && status != core.StatusCancelled {
				continue
			}
			if !inPeriod(e.Date, in.Year, in.Month) {
				continue
			}
			items = append(items, EventListItem{Event: e, Totals: totals[e.ID]})
		}
		sort.SliceStable(items, func(i, j int) bool {
			if !items[i].Date.Equal(items[j].Date.Time) {
				return items[i].Date.After(items[j].Date)
			}
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
		return items, nil
	})
}

// UpdateEventInput replaces the editable fields of an event.
type UpdateEventInput struct {
	ID string `json:"id"`
	EventInput
}

// UpdateEvent edits a PLANNED or DONE event.
type UpdateEvent struct{ Deps }

func (uc *UpdateEvent) Execute(ctx context.Context, in UpdateEventInput) Result[core.Event] {
	return execute(ctx, "update_event", func() (core.Event, error) {
		id, err := requireID(in.ID, "id")
		if err != nil {
			return core.Event{}, err
		}
		e, err := uc.Events.FindByID(ctx, id)
		if err != nil {
			return core.Event{}, err
		}
		if err := e.UpdateDetails(in.details(), uc.now()); err != nil {
			return core.Event{}, err
		}
		if err := uc.Events.Save(ctx, e); err != nil {
			return core.Event{}, err
		}
		return e, nil
	})
}

// DeleteEventOutput reports the cascade. FailedTransactions lists the ids that
// could not be removed.
type DeleteEventOutput struct {
	DeletedTransactions int      `json:"deletedTransactions"`
	FailedTransactions  []string `json:"failedTransactions"`
}

// DeleteEvent removes a PLANNED event and, best effort, its transactions.
type DeleteEvent struct{ Deps }

func (uc *DeleteEvent) Execute(ctx context.Context, in IDInput) Result[DeleteEventOutput] {
	return execute(ctx, "delete_event", func() (DeleteEventOutput, error) {
		out := DeleteEventOutput{FailedTransactions: []string{}}
		id, err := requireID(in.ID, "id")
		if err != nil {
			return out, err
		}
		e, err := uc.Events.FindByID(ctx, id)
		if err != nil {
			return out, err
		}
		if e.Status != core.StatusPlanned {
			return out, core.InvalidState("only PLANNED events can be deleted; event is %s", e.Status)
		}
		txs, err := uc.Transactions.FindByEventID(ctx, id)
		if err != nil {
			return out, err
		}
		for _, t := range txs {
			if err := uc.Transactions.Delete(ctx, t.ID); err != nil {
				slog.WarnContext(ctx, "Failed to delete transaction of deleted event",
					"event_id", id, "transaction_id", t.ID, "error", err)
				out.FailedTransactions = append(out.FailedTransactions, t.ID)
				continue
			}
			out.DeletedTransactions++
		}
		if err := uc.Events.Delete(ctx, id); err != nil {
			return out, err
		}
		slog.InfoContext(ctx, "Event deleted",
			"event_id", id,
			"deleted_transactions", out.DeletedTransactions,
			"failed_transactions", len(out.FailedTransactions))
		return out, nil
	})
}

// UpdateEventStatusInput moves an event through its workflow. ReportSentDate
// defaults to today when entering REPORT_SENT.
type UpdateEventStatusInput struct {
	EventID        string    `json:"eventId"`
	Status         string    `json:"status"`
	ReportSentDate core.Date `json:"reportSentDate"`
}

// UpdateEventStatus applies a status transition and notifies listeners.
type UpdateEventStatus struct{ Deps }

func (uc *UpdateEventStatus) Execute(ctx context.Context, in UpdateEventStatusInput) Result[core.Event] {
	return execute(ctx, "update_event_status", func() (core.Event, error) {
		id, err := requireID(in.EventID, "eventId")
		if err != nil {
			return core.Event{}, err
		}
		to, err := core.ParseEventStatus(in.Status)
		if err != nil {
			return core.Event{}, err
		}
		return uc.transition(ctx, id, to, in.ReportSentDate)
	})
}

func (uc *UpdateEventStatus) transition(ctx context.Context, id string, to core.EventStatus, sent core.Date) (core.Event, error) {
	e, err := uc.Events.FindByID(ctx, id)
	if err != nil {
		return core.Event{}, err
	}
	count, err := uc.Transactions.CountByEvent(ctx, id)
	if err != nil {
		return core.Event{}, err
	}
	settings, err := uc.Settings.Get(ctx)
	if err != nil {
		return core.Event{}, err
	}

	now := uc.now()
	from := e.Status
	changed, err := e.TransitionTo(to, core.StatusChange{
		TransactionCount:  count,
		ReportSentDate:    sent,
		ReimbursementDays: settings.DefaultReimbursementDays,
		Now:               now,
	})
	if err != nil {
		return core.Event{}, err
	}
	if !changed {
		return e, nil
	}
	if err := uc.Events.Save(ctx, e); err != nil {
		return core.Event{}, err
	}
	slog.InfoContext(ctx, "Event status changed",
		log.FieldEventID, id,
		log.FieldStatusFrom, from,
		log.FieldStatusTo, to)

	if from != to {
		uc.notify(ctx, ports.StatusChanged{EventID: id, From: from, To: to, Timestamp: now.UTC()})
	}
	return e, nil
}

func (uc *UpdateEventStatus) notify(ctx context.Context, msg ports.StatusChanged) {
	if uc.Notifier == nil {
		slog.DebugContext(ctx, "Status notifier not configured, skipping notification", "event_id", msg.EventID)
		return
	}
	if err := uc.Notifier.PublishStatusChanged(ctx, msg); err != nil {
		// The status is already persisted.
		slog.ErrorContext(ctx, "Failed to publish status change",
			"event_id", msg.EventID, "to", msg.To, "error", err)
	}
}

// CancelEvent moves an event to CANCELLED.
type CancelEvent struct {
	status *UpdateEventStatus
}

func (uc *CancelEvent) Execute(ctx context.Context, in IDInput) Result[core.Event] {
	return uc.status.Execute(ctx, UpdateEventStatusInput{EventID: in.ID, Status: string(core.StatusCancelled)})
}
