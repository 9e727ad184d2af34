// Package sheets turns event reports into spreadsheet rows.
package sheets

import (
	"context"

	"freela/internal/core"
)

// ReportWriter appends a generated event report to an outbound sheet.
type ReportWriter interface {
	AppendEventReport(ctx context.Context, r core.EventReport) (rowRef string, err error)
}

// Header is the column row of the reports sheet.
var Header = []any{"Data", "Evento", "Cliente", "Seção", "Descrição", "Quantidade", "Valor", "Total"}

// Section names as written in the Seção column.
const (
	SectionServices   = "Serviços"
	SectionExpenses   = "Despesas"
	SectionTravel     = "Deslocamento"
	SectionTravelTime = "Tempo de viagem"
	SectionTotal      = "Total"
)

// ReportRows flattens r into one row per line plus a closing total row.
// Amounts are plain numbers so the sheet can format and sum them.
func ReportRows(r core.EventReport) [][]any {
	date := ""
	if !r.Event.Date.IsZero() {
		date = r.Event.Date.Format("02/01/2006")
	}
	prefix := func() []any { return []any{date, r.Event.Name, r.Event.Client} }

	sections := []struct {
		name  string
		lines []core.ReportLine
	}{
		{SectionServices, r.Services},
		{SectionExpenses, r.Expenses},
		{SectionTravel, r.Travel},
		{SectionTravelTime, r.TravelTime},
	}

	var rows [][]any
	for _, s := range sections {
		for _, l := range s.lines {
			var qty any = ""
			if l.Quantity > 0 {
				qty = l.Quantity
			}
			rows = append(rows, append(prefix(), s.name, l.Description, qty, l.Amount.Reais(), ""))
		}
	}
	rows = append(rows, append(prefix(), SectionTotal, "", "", "", r.Total.Reais()))
	return rows
}
