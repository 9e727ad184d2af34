package core

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	StatusPlanned    EventStatus = "PLANNED"
	StatusDone       EventStatus = "DONE"
	StatusReportSent EventStatus = "REPORT_SENT"
	StatusPaid       EventStatus = "PAID"
	StatusCancelled  EventStatus = "CANCELLED"
)

// EventStatuses lists every status in workflow order.
var EventStatuses = []EventStatus{StatusPlanned, StatusDone, StatusReportSent, StatusPaid, StatusCancelled}

func (s EventStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusDone, StatusReportSent, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// ParseEventStatus accepts a status name in any case.
func ParseEventStatus(s string) (EventStatus, error) {
	st := EventStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", Validation("invalid status %q", s)
	}
	return st, nil
}

const (
	minEventNameLen    = 3
	maxEventNameLen    = 200
	maxEventDescLen    = 1000
	maxEventPartyLen   = 200
	eventYearsInPast   = 10
	eventYearsInFuture = 5
)

// EventDetails holds the user-editable fields of an event.
type EventDetails struct {
	Name        string
	Date        Date
	Description string
	Client      string
	City        string
	StartDate   Date
	EndDate     Date
}

// Event is a billable engagement that owns a ledger of transactions.
type Event struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Date                Date        `json:"date"`
	Status              EventStatus `json:"status"`
	Description         string      `json:"description"`
	ExpectedPaymentDate Date        `json:"expectedPaymentDate"`
	Client              string      `json:"client"`
	City                string      `json:"city"`
	StartDate           Date        `json:"startDate"`
	EndDate             Date        `json:"endDate"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

func (d EventDetails) normalized() EventDetails {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.Client = strings.TrimSpace(d.Client)
	d.City = strings.TrimSpace(d.City)
	return d
}

func (d EventDetails) validate(now time.Time) error {
	if err := validateEventFields(d); err != nil {
		return err
	}
	if d.Date.IsZero() {
		return Validation("event date is required")
	}
	today := Today(now)
	earliest := Date{Time: today.AddDate(-eventYearsInPast, 0, 0)}
	latest := Date{Time: today.AddDate(eventYearsInFuture, 0, 0)}
	if d.Date.Before(earliest) || d.Date.After(latest) {
		return Validation("event date must be between %s and %s", earliest, latest)
	}
	return nil
}

// validateEventFields checks the rules that do not depend on the current time.
func validateEventFields(d EventDetails) error {
	n := utf8.RuneCountInString(d.Name)
	if n < minEventNameLen || n > maxEventNameLen {
		return Validation("event name must have between %d and %d characters", minEventNameLen, maxEventNameLen)
	}
	if utf8.RuneCountInString(d.Description) > maxEventDescLen {
		return Validation("event description must have at most %d characters", maxEventDescLen)
	}
	if utf8.RuneCountInString(d.Client) > maxEventPartyLen {
		return Validation("client must have at most %d characters", maxEventPartyLen)
	}
	if utf8.RuneCountInString(d.City) > maxEventPartyLen {
		return Validation("city must have at most %d characters", maxEventPartyLen)
	}
	if !d.StartDate.IsZero() && !d.EndDate.IsZero() && d.EndDate.Before(d.StartDate) {
		return Validation("end date must not be before start date")
	}
	return nil
}

// NewEvent creates a PLANNED event.
func NewEvent(d EventDetails, now time.Time) (Event, error) {
	d = d.normalized()
	if err := d.validate(now); err != nil {
		return Event{}, err
	}
	ts := now.UTC()
	return Event{
		ID:          uuid.NewString(),
		Name:        d.Name,
		Date:        d.Date,
		Status:      StatusPlanned,
		Description: d.Description,
		Client:      d.Client,
		City:        d.City,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// Details returns the editable fields of e.
func (e Event) Details() EventDetails {
	return EventDetails{
		Name:        e.Name,
		Date:        e.Date,
		Description: e.Description,
		Client:      e.Client,
		City:        e.City,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
	}
}

// IsEditable reports whether the event details may still change.
func (e Event) IsEditable() bool {
	return e.Status == StatusPlanned || e.Status == StatusDone
}

// IsFrozen reports whether the event and its transactions are closed for mutation.
func (e Event) IsFrozen() bool {
	return e.Status == StatusPaid || e.Status == StatusCancelled
}

// EnsureTransactionsMutable returns an InvalidState error when transactions of e
// can no longer be created, edited or deleted.
func (e Event) EnsureTransactionsMutable() error {
	switch e.Status {
	case StatusPaid:
		return InvalidState("event %q is paid; its transactions can no longer change", e.Name)
	case StatusCancelled:
		return InvalidState("event %q is cancelled; its transactions can no longer change", e.Name)
	}
	return nil
}

// UpdateDetails replaces the editable fields.
func (e *Event) UpdateDetails(d EventDetails, now time.Time) error {
	if !e.IsEditable() {
		return InvalidState("event with status %s cannot be edited", e.Status)
	}
	d = d.normalized()
	if err := d.validate(now); err != nil {
		return err
	}
	e.Name = d.Name
	e.Date = d.Date
	e.Description = d.Description
	e.Client = d.Client
	e.City = d.City
	e.StartDate = d.StartDate
	e.EndDate = d.EndDate
	e.UpdatedAt = now.UTC()
	return nil
}

// ValidateStored checks the invariants of a persisted event. The date window is not
// enforced so that old records stay loadable.
func (e Event) ValidateStored() error {
	if strings.TrimSpace(e.ID) == "" {
		return Validation("event id is required")
	}
	if !e.Status.Valid() {
		return Validation("event %s has invalid status %q", e.ID, e.Status)
	}
	if e.Date.IsZero() {
		return Validation("event %s has no date", e.ID)
	}
	return validateEventFields(e.Details().normalized())
}

// StatusChange carries what a transition needs besides the target status.
type StatusChange struct {
	TransactionCount  int
	ReportSentDate    Date
	ReimbursementDays int
	Now               time.Time
}

var allowedTransitions = map[EventStatus][]EventStatus{
	StatusPlanned:    {StatusDone, StatusCancelled},
	StatusDone:       {StatusReportSent, StatusCancelled},
	StatusReportSent: {StatusPaid, StatusCancelled},
}

// CanTransition reports whether from -> to is a move of the workflow, returning the
// rejection reason otherwise. Same-status no-ops are not moves and are handled by TransitionTo.
func CanTransition(from, to EventStatus) error {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return nil
		}
	}
	switch {
	case from == StatusPaid:
		return InvalidState("event is paid and can no longer change")
	case from == StatusCancelled:
		return InvalidState("event is cancelled and can no longer change")
	case to == StatusReportSent:
		return InvalidState("event must pass through DONE before REPORT_SENT")
	case to == StatusPaid && from == StatusPlanned:
		return InvalidState("event must pass through DONE and REPORT_SENT before PAID")
	case to == StatusPaid:
		return InvalidState("event must pass through REPORT_SENT before PAID")
	default:
		return InvalidState("cannot move event back from %s to %s", from, to)
	}
}

// TransitionTo moves the event to status to. It reports whether the event changed.
// Setting PLANNED or DONE again is a no-op; setting REPORT_SENT again recomputes the
// expected payment date.
func (e *Event) TransitionTo(to EventStatus, c StatusChange) (bool, error) {
	if !to.Valid() {
		return false, Validation("invalid status %q", to)
	}
	if to == e.Status {
		switch to {
		case StatusPlanned, StatusDone:
			return false, nil
		case StatusReportSent:
			e.applyReportSent(c)
			return true, nil
		}
		return false, CanTransition(e.Status, to)
	}
	if err := CanTransition(e.Status, to); err != nil {
		return false, err
	}
	switch to {
	case StatusDone:
		if c.TransactionCount < 1 {
			return false, InvalidState("cannot mark event as DONE: it has no transactions")
		}
	case StatusReportSent:
		e.applyReportSent(c)
	case StatusPaid:
		e.ExpectedPaymentDate = Date{}
	}
	e.Status = to
	e.UpdatedAt = c.Now.UTC()
	return true, nil
}

func (e *Event) applyReportSent(c StatusChange) {
	sent := c.ReportSentDate
	if sent.IsZero() {
		sent = Today(c.Now)
	}
	e.ExpectedPaymentDate = sent.AddDays(c.ReimbursementDays)
	e.UpdatedAt = c.Now.UTC()
}
