package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"

	"freela/internal/core"
	"freela/internal/export"
)

// ExportBackup snapshots every collection.
type ExportBackup struct{ Deps }

func (uc *ExportBackup) Execute(ctx context.Context, _ struct{}) Result[export.Backup] {
	return execute(ctx, "export_backup", func() (export.Backup, error) {
		events, err := uc.Events.FindAll(ctx)
		if err != nil {
			return export.Backup{}, err
		}
		txs, err := uc.Transactions.FindAll(ctx)
		if err != nil {
			return export.Backup{}, err
		}
		settings, err := uc.Settings.Get(ctx)
		if err != nil {
			return export.Backup{}, err
		}
		return export.NewBackup(events, txs, settings, uc.now()), nil
	})
}

// ImportBackupInput wraps a decoded backup file.
type ImportBackupInput struct {
	Backup export.Backup `json:"backup"`
}

// ImportBackupOutput counts what was restored.
type ImportBackupOutput struct {
	Events           int  `json:"events"`
	Transactions     int  `json:"transactions"`
	SettingsRestored bool `json:"settingsRestored"`
}

// ImportBackup replaces all data with the backup content. Nothing is deleted
// unless every record validates.
type ImportBackup struct{ Deps }

func (uc *ImportBackup) Execute(ctx context.Context, in ImportBackupInput) Result[ImportBackupOutput] {
	return execute(ctx, "import_backup", func() (ImportBackupOutput, error) {
		txs, err := in.Backup.Validate()
		if err != nil {
			return ImportBackupOutput{}, err
		}

		if err := uc.Transactions.DeleteAll(ctx); err != nil {
			return ImportBackupOutput{}, err
		}
		if err := uc.Events.DeleteAll(ctx); err != nil {
			return ImportBackupOutput{}, err
		}

		var out ImportBackupOutput
		for _, e := range in.Backup.Events {
			if err := uc.Events.Save(ctx, e); err != nil {
				return out, fmt.Errorf("restore event %s: %w", e.ID, err)
			}
			out.Events++
		}
		for _, t := range txs {
			if err := uc.Transactions.Save(ctx, t); err != nil {
				return out, fmt.Errorf("restore transaction %s: %w", t.ID, err)
			}
			out.Transactions++
		}
		if in.Backup.Settings != nil {
			if err := uc.Settings.Save(ctx, *in.Backup.Settings); err != nil {
				return out, fmt.Errorf("restore settings: %w", err)
			}
			out.SettingsRestored = true
		}
		slog.InfoContext(ctx, "Backup imported",
			"version", in.Backup.Version,
			"events", out.Events,
			"transactions", out.Transactions)
		return out, nil
	})
}

// CSVOutput is a rendered CSV file.
type CSVOutput struct {
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
}

// ExportCSV renders the transactions of non-cancelled events in a period.
type ExportCSV struct{ Deps }

func (uc *ExportCSV) Execute(ctx context.Context, in PeriodInput) Result[CSVOutput] {
	return execute(ctx, "export_csv", func() (CSVOutput, error) {
		if err := validatePeriod(in.Year, in.Month, false); err != nil {
			return CSVOutput{}, err
		}
		events, err := uc.Events.FindAll(ctx)
		if err != nil {
			return CSVOutput{}, err
		}
		all, err := uc.Transactions.FindAll(ctx)
		if err != nil {
			return CSVOutput{}, err
		}
		byEvent := make(map[string][]core.Transaction)
		for _, t := range all {
			byEvent[t.EventID] = append(byEvent[t.EventID], t)
		}

		var ledgers []export.Ledger
		for _, e := range events {
			if e.Status == core.StatusCancelled || !inPeriod(e.Date, in.Year, in.Month) {
				continue
			}
			txs := byEvent[e.ID]
			core.SortByCreation(txs)
			ledgers = append(ledgers, export.Ledger{Event: e, Transactions: txs})
		}
		sort.SliceStable(ledgers, func(i, j int) bool {
			return ledgers[i].Event.Date.Before(ledgers[j].Event.Date)
		})

		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, ledgers); err != nil {
			return CSVOutput{}, err
		}
		return CSVOutput{Filename: csvFilename(in), Content: buf.Bytes()}, nil
	})
}

func csvFilename(in PeriodInput) string {
	switch {
	case in.Year != 0 && in.Month != 0:
		return fmt.Sprintf("freela-%04d-%02d.csv", in.Year, in.Month)
	case in.Year != 0:
		return fmt.Sprintf("freela-%04d.csv", in.Year)
	}
	return "freela.csv"
}
