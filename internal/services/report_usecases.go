package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"freela/internal/core"
)

// reportLoadConcurrency bounds the parallel transaction loads of a monthly report.
const reportLoadConcurrency = 4

// GenerateEventReport builds the invoice view of one event.
type GenerateEventReport struct{ Deps }

func (uc *GenerateEventReport) Execute(ctx context.Context, in EventIDInput) Result[core.EventReport] {
	return execute(ctx, "generate_event_report", func() (core.EventReport, error) {
		e, txs, settings, err := loadLedger(ctx, uc.Deps, in.EventID)
		if err != nil {
			return core.EventReport{}, err
		}
		return core.BuildEventReport(e, txs, settings, uc.now()), nil
	})
}

// GenerateMonthlyReport aggregates the non-cancelled events dated in a month.
type GenerateMonthlyReport struct{ Deps }

func (uc *GenerateMonthlyReport) Execute(ctx context.Context, in PeriodInput) Result[core.MonthlyReport] {
	return execute(ctx, "generate_monthly_report", func() (core.MonthlyReport, error) {
		if err := validatePeriod(in.Year, in.Month, true); err != nil {
			return core.MonthlyReport{}, err
		}
		events, err := uc.Events.FindAll(ctx)
		if err != nil {
			return core.MonthlyReport{}, err
		}
		settings, err := uc.Settings.Get(ctx)
		if err != nil {
			return core.MonthlyReport{}, err
		}

		var selected []core.Event
		for _, e := range events {
			if e.Status != core.StatusCancelled && e.Date.InMonth(in.Year, in.Month) {
				selected = append(selected, e)
			}
		}

		rows := make([]core.MonthlyEventRow, len(selected))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(reportLoadConcurrency)
		for i, e := range selected {
			g.Go(recovered(ctx, "generate_monthly_report", func() error {
				txs, err := uc.Transactions.FindByEventID(gctx, e.ID)
				if err != nil {
					return err
				}
				rows[i] = core.BuildMonthlyRow(e, txs, settings)
				return nil
			}))
		}
		if err := g.Wait(); err != nil {
			return core.MonthlyReport{}, err
		}

		report := core.NewMonthlyReport(in.Year, in.Month, rows, uc.now())
		slog.DebugContext(ctx, "Monthly report generated",
			"year", in.Year, "month", in.Month, "events", len(rows), "total", report.Total.String())
		return report, nil
	})
}
