package services

import (
	"context"
	"log/slog"
	"strings"

	"freela/internal/core"
)

// AddTransactionInput describes a new ledger line. Amount is ignored for km and
// tempo_viagem income, which are priced from the current settings.
type AddTransactionInput struct {
	EventID         string      `json:"eventId"`
	Type            string      `json:"type"`
	Description     string      `json:"description"`
	Amount          *core.Money `json:"amount"`
	Category        string      `json:"category"`
	Distance        *Number     `json:"distance"`
	Hours           *Number     `json:"hours"`
	HasReceipt      bool        `json:"hasReceipt"`
	IsReimbursement *bool       `json:"isReimbursement"`
	Origin          string      `json:"origin"`
	Destination     string      `json:"destination"`
	CheckIn         core.Date   `json:"checkIn"`
	CheckOut        core.Date   `json:"checkOut"`
}

func parseCategory(s string) core.Category {
	return core.Category(strings.ToLower(strings.TrimSpace(s)))
}

// isTimeOrDistance reports whether income of category c is priced from settings.
func isTimeOrDistance(c core.Category) bool {
	return c == core.CategoryKm || c == core.CategoryTempoViagem
}

// priceIncome computes the snapshot amount of km and tempo_viagem income.
func priceIncome(c core.Category, distance, hours *float64, s core.Settings) (core.Money, error) {
	switch c {
	case core.CategoryKm:
		if distance == nil {
			return core.Money{}, core.Validation("distance is required for km income")
		}
		if *distance < 0 {
			return core.Money{}, core.Validation("distance must not be negative")
		}
		return s.RateKm.MulQuantity(*distance)
	case core.CategoryTempoViagem:
		if hours == nil || *hours <= 0 {
			return core.Money{}, core.Validation("hours must be greater than zero for travel time income")
		}
		return s.OvertimeRate.MulQuantity(*hours)
	}
	return core.Money{}, core.Validation("category %q is not priced from settings", c)
}

// AddTransaction adds an expense or income to an event that is still open.
type AddTransaction struct{ Deps }

func (uc *AddTransaction) Execute(ctx context.Context, in AddTransactionInput) Result[core.Transaction] {
	return execute(ctx, "add_transaction", func() (core.Transaction, error) {
		eventID, err := requireID(in.EventID, "eventId")
		if err != nil {
			return core.Transaction{}, err
		}
		if strings.TrimSpace(in.Type) == "" {
			return core.Transaction{}, core.Validation("type is required")
		}
		typ, err := core.ParseTransactionType(in.Type)
		if err != nil {
			return core.Transaction{}, err
		}
		if strings.TrimSpace(in.Description) == "" {
			return core.Transaction{}, core.Validation("description is required")
		}

		e, err := uc.Events.FindByID(ctx, eventID)
		if err != nil {
			return core.Transaction{}, err
		}
		if err := e.EnsureTransactionsMutable(); err != nil {
			return core.Transaction{}, err
		}

		category := parseCategory(in.Category)
		var (
			amount core.Money
			md     core.Metadata
		)
		if typ == core.TypeExpense {
			if in.Amount == nil {
				return core.Transaction{}, core.Validation("amount is required")
			}
			amount = *in.Amount
			md = core.NewExpenseMetadata(category, in.HasReceipt, in.CheckIn, in.CheckOut)
		} else {
			distance, hours := in.Distance.ptr(), in.Hours.ptr()
			reimbursement := isTimeOrDistance(category)
			if in.IsReimbursement != nil {
				reimbursement = *in.IsReimbursement
			}
			if isTimeOrDistance(category) {
				settings, err := uc.Settings.Get(ctx)
				if err != nil {
					return core.Transaction{}, err
				}
				if amount, err = priceIncome(category, distance, hours, settings); err != nil {
					return core.Transaction{}, err
				}
			} else {
				if in.Amount == nil {
					return core.Transaction{}, core.Validation("amount is required")
				}
				amount = *in.Amount
			}
			md = core.NewIncomeMetadata(category, reimbursement, distance, hours, in.Origin, in.Destination)
		}

		t, err := core.NewTransaction(core.TransactionDraft{
			EventID:     e.ID,
			Description: in.Description,
			Amount:      amount,
			Metadata:    md,
		}, uc.now())
		if err != nil {
			return core.Transaction{}, err
		}
		if err := uc.Transactions.Save(ctx, t); err != nil {
			return core.Transaction{}, err
		}
		slog.InfoContext(ctx, "Transaction added",
			"transaction_id", t.ID,
			"event_id", t.EventID,
			"type", t.Type,
			"category", t.Category(),
			"amount", t.Amount.String())
		return t, nil
	})
}

// UpdateTransactionInput lists the fields to change; nil keeps the current value.
type UpdateTransactionInput struct {
	ID              string      `json:"id"`
	Description     *string     `json:"description"`
	Amount          *core.Money `json:"amount"`
	HasReceipt      *bool       `json:"hasReceipt"`
	IsReimbursement *bool       `json:"isReimbursement"`
	Category        *string     `json:"category"`
	Distance        *Number     `json:"distance"`
	Hours           *Number     `json:"hours"`
	Origin          *string     `json:"origin"`
	Destination     *string     `json:"destination"`
	CheckIn         *core.Date  `json:"checkIn"`
	CheckOut        *core.Date  `json:"checkOut"`
}

// UpdateTransaction edits a transaction of an open event. The type never changes.
// Changing the distance or hours of priced income recomputes its amount from the
// current settings.
type UpdateTransaction struct{ Deps }

func (uc *UpdateTransaction) Execute(ctx context.Context, in UpdateTransactionInput) Result[core.Transaction] {
	return execute(ctx, "update_transaction", func() (core.Transaction, error) {
		id, err := requireID(in.ID, "id")
		if err != nil {
			return core.Transaction{}, err
		}
		t, err := uc.Transactions.FindByID(ctx, id)
		if err != nil {
			return core.Transaction{}, err
		}
		e, err := uc.Events.FindByID(ctx, t.EventID)
		if err != nil {
			return core.Transaction{}, err
		}
		if err := e.EnsureTransactionsMutable(); err != nil {
			return core.Transaction{}, err
		}

		description := t.Description
		if in.Description != nil {
			description = *in.Description
		}
		amount := t.Amount
		if in.Amount != nil {
			amount = *in.Amount
		}

		var md core.Metadata
		switch cur := t.Metadata.(type) {
		case core.ExpenseMetadata:
			md = uc.patchExpense(cur, in)
		case core.IncomeMetadata:
			next := uc.patchIncome(cur, in)
			recompute := (next.Category == core.CategoryKm && (in.Distance != nil || cur.Category != core.CategoryKm)) ||
				(next.Category == core.CategoryTempoViagem && (in.Hours != nil || cur.Category != core.CategoryTempoViagem))
			if recompute {
				settings, err := uc.Settings.Get(ctx)
				if err != nil {
					return core.Transaction{}, err
				}
				if amount, err = priceIncome(next.Category, next.Distance, next.Hours, settings); err != nil {
					return core.Transaction{}, err
				}
			}
			md = next
		default:
			return core.Transaction{}, core.Validation("transaction %s has no metadata", t.ID)
		}

		if err := t.Update(description, amount, md, uc.now()); err != nil {
			return core.Transaction{}, err
		}
		if err := uc.Transactions.Save(ctx, t); err != nil {
			return core.Transaction{}, err
		}
		return t, nil
	})
}

func (uc *UpdateTransaction) patchExpense(cur core.ExpenseMetadata, in UpdateTransactionInput) core.ExpenseMetadata {
	category, hasReceipt, checkIn, checkOut := cur.Category, cur.HasReceipt, cur.CheckIn, cur.CheckOut
	if in.Category != nil {
		category = parseCategory(*in.Category)
	}
	if in.HasReceipt != nil {
		hasReceipt = *in.HasReceipt
	}
	if in.CheckIn != nil {
		checkIn = *in.CheckIn
	}
	if in.CheckOut != nil {
		checkOut = *in.CheckOut
	}
	return core.NewExpenseMetadata(category, hasReceipt, checkIn, checkOut)
}

func (uc *UpdateTransaction) patchIncome(cur core.IncomeMetadata, in UpdateTransactionInput) core.IncomeMetadata {
	category, reimbursement := cur.Category, cur.IsReimbursement
	distance, hours := cur.Distance, cur.Hours
	origin, destination := cur.Origin, cur.Destination
	if in.Category != nil {
		category = parseCategory(*in.Category)
	}
	if in.IsReimbursement != nil {
		reimbursement = *in.IsReimbursement
	}
	if in.Distance != nil {
		distance = in.Distance.ptr()
	}
	if in.Hours != nil {
		hours = in.Hours.ptr()
	}
	if in.Origin != nil {
		origin = *in.Origin
	}
	if in.Destination != nil {
		destination = *in.Destination
	}
	return core.NewIncomeMetadata(category, reimbursement, distance, hours, origin, destination)
}

// DeleteTransaction removes a transaction of an open event.
type DeleteTransaction struct{ Deps }

func (uc *DeleteTransaction) Execute(ctx context.Context, in IDInput) Result[IDInput] {
	return execute(ctx, "delete_transaction", func() (IDInput, error) {
		id, err := requireID(in.ID, "id")
		if err != nil {
			return IDInput{}, err
		}
		t, err := uc.Transactions.FindByID(ctx, id)
		if err != nil {
			return IDInput{}, err
		}
		e, err := uc.Events.FindByID(ctx, t.EventID)
		switch {
		case err == nil:
			if err := e.EnsureTransactionsMutable(); err != nil {
				return IDInput{}, err
			}
		case core.KindOf(err) == "not_found":
			slog.WarnContext(ctx, "Deleting orphan transaction", "transaction_id", id, "event_id", t.EventID)
		default:
			return IDInput{}, err
		}
		if err := uc.Transactions.Delete(ctx, id); err != nil {
			return IDInput{}, err
		}
		return IDInput{ID: id}, nil
	})
}

// ListTransactionsInput selects the transactions of one event.
type ListTransactionsInput struct {
	EventID string `json:"eventId"`
}

// ListTransactions returns an event's transactions oldest first.
type ListTransactions struct{ Deps }

func (uc *ListTransactions) Execute(ctx context.Context, in ListTransactionsInput) Result[[]core.Transaction] {
	return execute(ctx, "list_transactions", func() ([]core.Transaction, error) {
		id, err := requireID(in.EventID, "eventId")
		if err != nil {
			return nil, err
		}
		if _, err := uc.Events.FindByID(ctx, id); err != nil {
			return nil, err
		}
		txs, err := uc.Transactions.FindByEventID(ctx, id)
		if err != nil {
			return nil, err
		}
		core.SortByCreation(txs)
		return txs, nil
	})
}
