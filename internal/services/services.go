// Package services implements the bookkeeping use cases on top of the repository ports.
package services

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"freela/internal/core"
	"freela/internal/ports"
)

// Deps are the collaborators shared by every use case. Notifier is optional.
type Deps struct {
	Events       ports.EventRepository
	Transactions ports.TransactionRepository
	Settings     ports.SettingsRepository
	Notifier     ports.StatusNotifier
	Clock        func() time.Time
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock()
}

// Services groups one instance of each use case.
type Services struct {
	CreateEvent            *CreateEvent
	GetEvent               *GetEvent
	ListEvents             *ListEvents
	UpdateEvent            *UpdateEvent
	DeleteEvent            *DeleteEvent
	UpdateEventStatus      *UpdateEventStatus
	CancelEvent            *CancelEvent
	AddTransaction         *AddTransaction
	UpdateTransaction      *UpdateTransaction
	DeleteTransaction      *DeleteTransaction
	ListTransactions       *ListTransactions
	GetEventSummary        *GetEventSummary
	GetConsolidatedSummary *GetConsolidatedSummary
	GenerateEventReport    *GenerateEventReport
	GenerateMonthlyReport  *GenerateMonthlyReport
	GetSettings            *GetSettings
	UpdateSettings         *UpdateSettings
	ExportBackup           *ExportBackup
	ImportBackup           *ImportBackup
	ExportCSV              *ExportCSV
}

func New(d Deps) *Services {
	status := &UpdateEventStatus{d}
	return &Services{
		CreateEvent:            &CreateEvent{d},
		GetEvent:               &GetEvent{d},
		ListEvents:             &ListEvents{d},
		UpdateEvent:            &UpdateEvent{d},
		DeleteEvent:            &DeleteEvent{d},
		UpdateEventStatus:      status,
		CancelEvent:            &CancelEvent{status: status},
		AddTransaction:         &AddTransaction{d},
		UpdateTransaction:      &UpdateTransaction{d},
		DeleteTransaction:      &DeleteTransaction{d},
		ListTransactions:       &ListTransactions{d},
		GetEventSummary:        &GetEventSummary{d},
		GetConsolidatedSummary: &GetConsolidatedSummary{d},
		GenerateEventReport:    &GenerateEventReport{d},
		GenerateMonthlyReport:  &GenerateMonthlyReport{d},
		GetSettings:            &GetSettings{d},
		UpdateSettings:         &UpdateSettings{d},
		ExportBackup:           &ExportBackup{d},
		ImportBackup:           &ImportBackup{d},
		ExportCSV:              &ExportCSV{d},
	}
}

// Number is a finite quantity that decodes from a JSON number or a numeric string.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return core.Validation("invalid number %s", string(b))
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return core.Validation("invalid number %s", string(b))
	}
	*n = Number(v)
	return nil
}

func (n *Number) ptr() *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}

// inPeriod reports whether d falls in year/month. Zero year matches everything,
// zero month matches the whole year.
func inPeriod(d core.Date, year, month int) bool {
	if year == 0 {
		return true
	}
	if d.IsZero() || d.Year() != year {
		return false
	}
	return month == 0 || d.Month() == month
}

func validatePeriod(year, month int, required bool) error {
	if required && (year == 0 || month == 0) {
		return core.Validation("year and month are required")
	}
	if year < 0 || (year == 0 && month != 0) {
		return core.Validation("invalid year %d", year)
	}
	if month < 0 || month > 12 {
		return core.Validation("month must be between 1 and 12")
	}
	return nil
}
