package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TransactionType separates money advanced from money received.
type TransactionType string

const (
	TypeExpense TransactionType = "EXPENSE"
	TypeIncome  TransactionType = "INCOME"
)

func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// ParseTransactionType accepts a type name in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", Validation("transaction type must be EXPENSE or INCOME")
	}
	return t, nil
}

// Category refines a transaction type. The empty category is valid for both types.
type Category string

const (
	CategoryNone          Category = ""
	CategoryAccommodation Category = "accommodation"
	CategoryDiaria        Category = "diaria"
	CategoryHoraExtra     Category = "hora_extra"
	CategoryKm            Category = "km"
	CategoryTempoViagem   Category = "tempo_viagem"
)

// Label is the pt-BR display name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryAccommodation:
		return "Hospedagem"
	case CategoryDiaria:
		return "Diária"
	case CategoryHoraExtra:
		return "Hora extra"
	case CategoryKm:
		return "Km"
	case CategoryTempoViagem:
		return "Tempo de viagem"
	}
	return ""
}

// IsFee reports whether income of this category counts as earned profit.
func (c Category) IsFee() bool {
	switch c {
	case CategoryNone, CategoryDiaria, CategoryHoraExtra, CategoryTempoViagem:
		return true
	}
	return false
}

const (
	minTxDescLen = 3
	maxTxDescLen = 500
)

// Metadata is the type-specific payload of a transaction. Implementations are
// ExpenseMetadata and IncomeMetadata.
type Metadata interface {
	TransactionType() TransactionType
	TransactionCategory() Category
	validate() error
}

// ExpenseMetadata describes an expense advanced by the worker.
type ExpenseMetadata struct {
	HasReceipt bool
	Category   Category
	CheckIn    Date
	CheckOut   Date
}

func (ExpenseMetadata) TransactionType() TransactionType { return TypeExpense }

func (m ExpenseMetadata) TransactionCategory() Category { return m.Category }

func (m ExpenseMetadata) validate() error {
	switch m.Category {
	case CategoryNone:
		if !m.CheckIn.IsZero() || !m.CheckOut.IsZero() {
			return Validation("check-in and check-out are only allowed for accommodation expenses")
		}
	case CategoryAccommodation:
		if !m.CheckIn.IsZero() && !m.CheckOut.IsZero() && m.CheckOut.Before(m.CheckIn) {
			return Validation("check-out must not be before check-in")
		}
	default:
		return Validation("invalid expense category %q", m.Category)
	}
	return nil
}

// IncomeMetadata describes money received for an event.
type IncomeMetadata struct {
	IsReimbursement bool
	Category        Category
	Distance        *float64
	Origin          string
	Destination     string
	Hours           *float64
}

func (IncomeMetadata) TransactionType() TransactionType { return TypeIncome }

func (m IncomeMetadata) TransactionCategory() Category { return m.Category }

func isFinite(v *float64) bool {
	return v == nil || !(math.IsNaN(*v) || math.IsInf(*v, 0))
}

func (m IncomeMetadata) validate() error {
	if !isFinite(m.Distance) {
		return Validation("distance must be a finite number")
	}
	if !isFinite(m.Hours) {
		return Validation("hours must be a finite number")
	}
	switch m.Category {
	case CategoryKm:
		if m.Distance == nil {
			return Validation("distance is required for km income")
		}
		if *m.Distance < 0 {
			return Validation("distance must not be negative")
		}
	case CategoryTempoViagem:
		if m.Hours == nil || *m.Hours <= 0 {
			return Validation("hours must be greater than zero for travel time income")
		}
	case CategoryHoraExtra:
		if m.Hours != nil && *m.Hours <= 0 {
			return Validation("hours must be greater than zero")
		}
	case CategoryNone, CategoryDiaria:
	default:
		return Validation("invalid income category %q", m.Category)
	}
	if m.Category != CategoryKm && (m.Distance != nil || m.Origin != "" || m.Destination != "") {
		return Validation("distance, origin and destination are only allowed for km income")
	}
	if m.Hours != nil && m.Category != CategoryTempoViagem && m.Category != CategoryHoraExtra {
		return Validation("hours are only allowed for hora_extra and tempo_viagem income")
	}
	return nil
}

// NewIncomeMetadata keeps only the fields that belong to category.
func NewIncomeMetadata(category Category, isReimbursement bool, distance, hours *float64, origin, destination string) IncomeMetadata {
	m := IncomeMetadata{IsReimbursement: isReimbursement, Category: category}
	switch category {
	case CategoryKm:
		m.Distance = distance
		m.Origin = strings.TrimSpace(origin)
		m.Destination = strings.TrimSpace(destination)
	case CategoryTempoViagem, CategoryHoraExtra:
		m.Hours = hours
	}
	return m
}

// NewExpenseMetadata drops the stay dates unless category is accommodation.
func NewExpenseMetadata(category Category, hasReceipt bool, checkIn, checkOut Date) ExpenseMetadata {
	m := ExpenseMetadata{HasReceipt: hasReceipt, Category: category}
	if category == CategoryAccommodation {
		m.CheckIn = checkIn
		m.CheckOut = checkOut
	}
	return m
}

// DefaultMetadata returns the empty payload for a transaction type.
func DefaultMetadata(t TransactionType) Metadata {
	if t == TypeIncome {
		return IncomeMetadata{}
	}
	return ExpenseMetadata{}
}

// Transaction is a single ledger line owned by one event.
type Transaction struct {
	ID          string
	EventID     string
	Type        TransactionType
	Description string
	Amount      Money
	Metadata    Metadata
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TransactionDraft is the input of NewTransaction.
type TransactionDraft struct {
	EventID     string
	Description string
	Amount      Money
	Metadata    Metadata
}

// NewTransaction validates d and creates a transaction with a fresh id.
func NewTransaction(d TransactionDraft, now time.Time) (Transaction, error) {
	ts := now.UTC()
	t := Transaction{
		ID:          uuid.NewString(),
		EventID:     strings.TrimSpace(d.EventID),
		Description: strings.TrimSpace(d.Description),
		Amount:      d.Amount,
		Metadata:    d.Metadata,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if t.Metadata != nil {
		t.Type = t.Metadata.TransactionType()
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// RestoreTransaction rebuilds a transaction from persisted fields, keeping its identity.
func RestoreTransaction(t Transaction) (Transaction, error) {
	t.Description = strings.TrimSpace(t.Description)
	if t.Metadata == nil && t.Type.Valid() {
		t.Metadata = DefaultMetadata(t.Type)
	}
	if strings.TrimSpace(t.ID) == "" {
		return Transaction{}, Validation("transaction id is required")
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// Validate checks every transaction invariant.
func (t Transaction) Validate() error {
	if t.EventID == "" {
		return Validation("event id is required")
	}
	if !t.Type.Valid() {
		return Validation("transaction type must be EXPENSE or INCOME")
	}
	if t.Metadata == nil {
		return Validation("transaction metadata is required")
	}
	if t.Metadata.TransactionType() != t.Type {
		return Validation("metadata does not match transaction type %s", t.Type)
	}
	n := utf8.RuneCountInString(t.Description)
	if n == 0 {
		return &Error{Kind: ErrValidation, Msg: "description is required", Err: ErrEmptyDescription}
	}
	if n < minTxDescLen || n > maxTxDescLen {
		return Validation("description must have between %d and %d characters", minTxDescLen, maxTxDescLen)
	}
	if err := t.Amount.ValidateAmount(); err != nil {
		return err
	}
	return t.Metadata.validate()
}

// Update replaces description, amount and metadata. The type cannot change.
func (t *Transaction) Update(description string, amount Money, md Metadata, now time.Time) error {
	if md == nil {
		md = t.Metadata
	}
	if md.TransactionType() != t.Type {
		return Validation("transaction type cannot change")
	}
	next := *t
	next.Description = strings.TrimSpace(description)
	next.Amount = amount
	next.Metadata = md
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now.UTC()
	*t = next
	return nil
}

// Category returns the metadata category, or CategoryNone.
func (t Transaction) Category() Category {
	if t.Metadata == nil {
		return CategoryNone
	}
	return t.Metadata.TransactionCategory()
}

// Expense returns the expense payload, if any.
func (t Transaction) Expense() (ExpenseMetadata, bool) {
	m, ok := t.Metadata.(ExpenseMetadata)
	return m, ok
}

// Income returns the income payload, if any.
func (t Transaction) Income() (IncomeMetadata, bool) {
	m, ok := t.Metadata.(IncomeMetadata)
	return m, ok
}

type expenseMetadataJSON struct {
	HasReceipt bool     `json:"hasReceipt"`
	Category   Category `json:"category,omitempty"`
	CheckIn    *Date    `json:"checkIn,omitempty"`
	CheckOut   *Date    `json:"checkOut,omitempty"`
}

type incomeMetadataJSON struct {
	IsReimbursement bool     `json:"isReimbursement"`
	Category        Category `json:"category,omitempty"`
	Distance        *float64 `json:"distance,omitempty"`
	Origin          string   `json:"origin,omitempty"`
	Destination     string   `json:"destination,omitempty"`
	Hours           *float64 `json:"hours,omitempty"`
}

func datePtr(d Date) *Date {
	if d.IsZero() {
		return nil
	}
	return &d
}

func dateVal(d *Date) Date {
	if d == nil {
		return Date{}
	}
	return *d
}

func (m ExpenseMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(expenseMetadataJSON{
		HasReceipt: m.HasReceipt,
		Category:   m.Category,
		CheckIn:    datePtr(m.CheckIn),
		CheckOut:   datePtr(m.CheckOut),
	})
}

func (m IncomeMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(incomeMetadataJSON(m))
}

type transactionJSON struct {
	ID          string          `json:"id"`
	EventID     string          `json:"eventId"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Amount      Money           `json:"amount"`
	Metadata    json.RawMessage `json:"metadata"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	md := t.Metadata
	if md == nil {
		md = DefaultMetadata(t.Type)
	}
	raw, err := json.Marshal(md)
	if err != nil {
		return nil, err
	}
	return json.Marshal(transactionJSON{
		ID:          t.ID,
		EventID:     t.EventID,
		Type:        t.Type,
		Description: t.Description,
		Amount:      t.Amount,
		Metadata:    raw,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	})
}

// UnmarshalJSON decodes the metadata variant selected by the type field.
func (t *Transaction) UnmarshalJSON(b []byte) error {
	var rec transactionJSON
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	out := Transaction{
		ID:          rec.ID,
		EventID:     rec.EventID,
		Type:        rec.Type,
		Description: rec.Description,
		Amount:      rec.Amount,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	empty := len(rec.Metadata) == 0 || bytes.Equal(rec.Metadata, []byte("null"))
	switch rec.Type {
	case TypeExpense:
		var m expenseMetadataJSON
		if !empty {
			if err := json.Unmarshal(rec.Metadata, &m); err != nil {
				return err
			}
		}
		out.Metadata = ExpenseMetadata{
			HasReceipt: m.HasReceipt,
			Category:   m.Category,
			CheckIn:    dateVal(m.CheckIn),
			CheckOut:   dateVal(m.CheckOut),
		}
	case TypeIncome:
		var m incomeMetadataJSON
		if !empty {
			if err := json.Unmarshal(rec.Metadata, &m); err != nil {
				return err
			}
		}
		out.Metadata = IncomeMetadata(m)
	default:
		return Validation("unknown transaction type %q", rec.Type)
	}
	*t = out
	return nil
}
