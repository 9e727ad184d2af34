package core

import (
	"sort"
	"time"
)

// ReportLine is one transaction as it appears on a report.
type ReportLine struct {
	TransactionID string    `json:"transactionId"`
	Description   string    `json:"description"`
	Category      Category  `json:"category,omitempty"`
	Quantity      float64   `json:"quantity,omitempty"`
	Unit          string    `json:"unit,omitempty"`
	Amount        Money     `json:"amount"`
	HasReceipt    bool      `json:"hasReceipt,omitempty"`
	Origin        string    `json:"origin,omitempty"`
	Destination   string    `json:"destination,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// EventReport is the invoice-ready view of one event.
type EventReport struct {
	Event           Event        `json:"event"`
	Services        []ReportLine `json:"services"`
	Expenses        []ReportLine `json:"expenses"`
	Travel          []ReportLine `json:"travel"`
	TravelTime      []ReportLine `json:"travelTime"`
	TotalServices   Money        `json:"totalServices"`
	TotalExpenses   Money        `json:"totalExpenses"`
	TotalTravel     Money        `json:"totalTravel"`
	TotalTravelTime Money        `json:"totalTravelTime"`
	Total           Money        `json:"total"`
	Summary         EventSummary `json:"summary"`
	GeneratedAt     time.Time    `json:"generatedAt"`
}

// MonthlyEventRow is one event inside a monthly report.
type MonthlyEventRow struct {
	Event         Event        `json:"event"`
	Services      []ReportLine `json:"services"`
	Expenses      []ReportLine `json:"expenses"`
	Travel        []ReportLine `json:"travel"`
	TotalServices Money        `json:"totalServices"`
	TotalExpenses Money        `json:"totalExpenses"`
	TotalTravel   Money        `json:"totalTravel"`
	Total         Money        `json:"total"`
	Hours         float64      `json:"hours"`
	Km            float64      `json:"km"`
}

// MonthlyReport aggregates the non-cancelled events dated in one month.
type MonthlyReport struct {
	Year          int               `json:"year"`
	Month         int               `json:"month"`
	Events        []MonthlyEventRow `json:"events"`
	TotalServices Money             `json:"totalServices"`
	TotalExpenses Money             `json:"totalExpenses"`
	TotalTravel   Money             `json:"totalTravel"`
	Total         Money             `json:"total"`
	TotalHours    float64           `json:"totalHours"`
	TotalKm       float64           `json:"totalKm"`
	GeneratedAt   time.Time         `json:"generatedAt"`
}

// SortByCreation orders transactions oldest first, keeping input order on ties.
func SortByCreation(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.Before(txs[j].CreatedAt)
	})
}

// hoursOf re-derives the hours of a time-based income, falling back to amount / rate.
func hoursOf(t Transaction, rate Money) float64 {
	if m, ok := t.Income(); ok && m.Hours != nil {
		return *m.Hours
	}
	return rate.QuantityFor(t.Amount)
}

func lineFor(t Transaction, s Settings) ReportLine {
	l := ReportLine{
		TransactionID: t.ID,
		Description:   t.Description,
		Category:      t.Category(),
		Amount:        t.Amount,
		CreatedAt:     t.CreatedAt,
	}
	switch m := t.Metadata.(type) {
	case ExpenseMetadata:
		l.HasReceipt = m.HasReceipt
	case IncomeMetadata:
		switch m.Category {
		case CategoryKm:
			if m.Distance != nil {
				l.Quantity = *m.Distance
			}
			l.Unit = "km"
			l.Origin = m.Origin
			l.Destination = m.Destination
		case CategoryHoraExtra, CategoryTempoViagem:
			l.Quantity = hoursOf(t, s.OvertimeRate)
			l.Unit = "h"
		case CategoryDiaria:
			l.Quantity = 1
			l.Unit = "diária"
		}
	}
	return l
}

func sumLines(lines []ReportLine) Money {
	var total Money
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

// BuildEventReport partitions the transactions of e into report sections.
// Uncategorized income is listed under services.
func BuildEventReport(e Event, txs []Transaction, s Settings, now time.Time) EventReport {
	sorted := append([]Transaction(nil), txs...)
	SortByCreation(sorted)

	r := EventReport{
		Event:       e,
		Services:    []ReportLine{},
		Expenses:    []ReportLine{},
		Travel:      []ReportLine{},
		TravelTime:  []ReportLine{},
		GeneratedAt: now.UTC(),
	}
	for _, t := range sorted {
		l := lineFor(t, s)
		switch {
		case t.Type == TypeExpense:
			r.Expenses = append(r.Expenses, l)
		case l.Category == CategoryKm:
			r.Travel = append(r.Travel, l)
		case l.Category == CategoryTempoViagem:
			r.TravelTime = append(r.TravelTime, l)
		default:
			r.Services = append(r.Services, l)
		}
	}
	r.TotalServices = sumLines(r.Services)
	r.TotalExpenses = sumLines(r.Expenses)
	r.TotalTravel = sumLines(r.Travel)
	r.TotalTravelTime = sumLines(r.TravelTime)
	r.Total = r.TotalServices.Add(r.TotalExpenses).Add(r.TotalTravel).Add(r.TotalTravelTime)
	r.Summary = SummarizeEvent(e, sorted, s)
	return r
}

// BuildMonthlyRow groups the transactions of e for a monthly report. Travel holds
// both km and travel time lines.
func BuildMonthlyRow(e Event, txs []Transaction, s Settings) MonthlyEventRow {
	sorted := append([]Transaction(nil), txs...)
	SortByCreation(sorted)

	row := MonthlyEventRow{
		Event:    e,
		Services: []ReportLine{},
		Expenses: []ReportLine{},
		Travel:   []ReportLine{},
	}
	for _, t := range sorted {
		l := lineFor(t, s)
		switch {
		case t.Type == TypeExpense:
			row.Expenses = append(row.Expenses, l)
		case l.Category == CategoryKm:
			row.Travel = append(row.Travel, l)
			row.Km += l.Quantity
		case l.Category == CategoryTempoViagem:
			row.Travel = append(row.Travel, l)
			row.Hours += l.Quantity
		default:
			row.Services = append(row.Services, l)
			if l.Category == CategoryHoraExtra {
				row.Hours += l.Quantity
			}
		}
	}
	row.TotalServices = sumLines(row.Services)
	row.TotalExpenses = sumLines(row.Expenses)
	row.TotalTravel = sumLines(row.Travel)
	row.Total = row.TotalServices.Add(row.TotalExpenses).Add(row.TotalTravel)
	return row
}

// NewMonthlyReport assembles rows ordered by event date into a report with grand totals.
func NewMonthlyReport(year, month int, rows []MonthlyEventRow, now time.Time) MonthlyReport {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Event.Date.Before(rows[j].Event.Date)
	})
	r := MonthlyReport{Year: year, Month: month, Events: rows, GeneratedAt: now.UTC()}
	if r.Events == nil {
		r.Events = []MonthlyEventRow{}
	}
	for _, row := range rows {
		r.TotalServices = r.TotalServices.Add(row.TotalServices)
		r.TotalExpenses = r.TotalExpenses.Add(row.TotalExpenses)
		r.TotalTravel = r.TotalTravel.Add(row.TotalTravel)
		r.Total = r.Total.Add(row.Total)
		r.TotalHours += row.Hours
		r.TotalKm += row.Km
	}
	return r
}
