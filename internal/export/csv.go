// Package export renders ledgers as CSV and defines the backup file format.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"freela/internal/core"
)

// CSVHeader is the column row of the CSV export.
var CSVHeader = []string{"Data", "Evento", "Tipo", "Descrição", "Valor", "Nota Fiscal", "Origem", "Destino"}

const utf8BOM = "\ufeff"

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders m as Brazilian currency, e.g. "R$ 1.234,56".
func FormatBRL(m core.Money) string {
	return "R$ " + brPrinter.Sprintf("%.2f", m.Reais())
}

// FormatDateBR renders d as dd/mm/yyyy.
func FormatDateBR(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006")
}

// Ledger is an event with the transactions to export.
type Ledger struct {
	Event        core.Event
	Transactions []core.Transaction
}

func typeLabel(t core.Transaction) string {
	label := "Receita"
	if t.Type == core.TypeExpense {
		label = "Despesa"
	}
	if c := t.Category().Label(); c != "" {
		label += " - " + c
	}
	return label
}

// WriteCSV writes a semicolon separated file with a UTF-8 BOM, one row per transaction.
func WriteCSV(w io.Writer, ledgers []Ledger) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, l := range ledgers {
		for _, t := range l.Transactions {
			receipt, origin, destination := "", "", ""
			switch m := t.Metadata.(type) {
			case core.ExpenseMetadata:
				receipt = "Não"
				if m.HasReceipt {
					receipt = "Sim"
				}
			case core.IncomeMetadata:
				origin, destination = m.Origin, m.Destination
			}
			row := []string{
				FormatDateBR(l.Event.Date),
				l.Event.Name,
				typeLabel(t),
				t.Description,
				FormatBRL(t.Amount),
				receipt,
				origin,
				destination,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write row %s: %w", t.ID, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
