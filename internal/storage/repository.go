package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"freela/internal/core"
	"freela/internal/ports"
)

// Repositories bundles the repositories sharing one Store.
type Repositories struct {
	Events       *EventRepository
	Transactions *TransactionRepository
	Settings     *SettingsRepository
}

// NewRepositories builds every repository on top of store. now stamps quarantine keys
// and lazily created settings.
func NewRepositories(store Store, now func() time.Time) Repositories {
	if now == nil {
		now = time.Now
	}
	return Repositories{
		Events:       &EventRepository{doc: document[[]core.Event]{store: store, key: KeyEvents, now: now}},
		Transactions: &TransactionRepository{doc: document[[]core.Transaction]{store: store, key: KeyTransactions, now: now}},
		Settings:     &SettingsRepository{doc: document[core.Settings]{store: store, key: KeySettings, now: now}},
	}
}

// EventRepository stores all events as one JSON array.
type EventRepository struct {
	mu  sync.Mutex
	doc document[[]core.Event]
}

var _ ports.EventRepository = (*EventRepository)(nil)

func (r *EventRepository) all(ctx context.Context) ([]core.Event, error) {
	events, _, err := r.doc.load(ctx)
	return events, err
}

func (r *EventRepository) Save(ctx context.Context, e core.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	events, err := r.all(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range events {
		if events[i].ID == e.ID {
			events[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		events = append(events, e)
	}
	return r.doc.save(ctx, events)
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (core.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	events, err := r.all(ctx)
	if err != nil {
		return core.Event{}, err
	}
	for _, e := range events {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Event{}, core.NotFound("event", id)
}

func (r *EventRepository) FindAll(ctx context.Context) ([]core.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	events, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []core.Event{}
	}
	return events, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	events, err := r.all(ctx)
	if err != nil {
		return err
	}
	kept := events[:0]
	for _, e := range events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(events) {
		return core.NotFound("event", id)
	}
	return r.doc.save(ctx, kept)
}

func (r *EventRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.save(ctx, []core.Event{})
}

// TransactionRepository stores all transactions as one JSON array.
type TransactionRepository struct {
	mu  sync.Mutex
	doc document[[]core.Transaction]
}

var _ ports.TransactionRepository = (*TransactionRepository)(nil)

func (r *TransactionRepository) all(ctx context.Context) ([]core.Transaction, error) {
	txs, _, err := r.doc.load(ctx)
	return txs, err
}

func (r *TransactionRepository) Save(ctx context.Context, t core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	txs, err := r.all(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range txs {
		if txs[i].ID == t.ID {
			txs[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		txs = append(txs, t)
	}
	return r.doc.save(ctx, txs)
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txs, err := r.all(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, t := range txs {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, core.NotFound("transaction", id)
}

func (r *TransactionRepository) FindAll(ctx context.Context) ([]core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txs, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs, nil
}

func (r *TransactionRepository) FindByEventID(ctx context.Context, eventID string) ([]core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txs, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	out := []core.Transaction{}
	for _, t := range txs {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	txs, err := r.all(ctx)
	if err != nil {
		return err
	}
	kept := txs[:0]
	for _, t := range txs {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(txs) {
		return core.NotFound("transaction", id)
	}
	return r.doc.save(ctx, kept)
}

func (r *TransactionRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.save(ctx, []core.Transaction{})
}

func (r *TransactionRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txs, err := r.all(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range txs {
		if t.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (r *TransactionRepository) TotalsByEvent(ctx context.Context) (map[string]core.EventTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txs, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]core.EventTotals)
	for _, t := range txs {
		et := totals[t.EventID]
		switch t.Type {
		case core.TypeExpense:
			et.Expenses = et.Expenses.Add(t.Amount)
		case core.TypeIncome:
			et.Income = et.Income.Add(t.Amount)
		}
		et.TransactionCount++
		totals[t.EventID] = et
	}
	return totals, nil
}

// SettingsRepository stores the settings singleton.
type SettingsRepository struct {
	mu  sync.Mutex
	doc document[core.Settings]
}

var _ ports.SettingsRepository = (*SettingsRepository)(nil)

func (r *SettingsRepository) Get(ctx context.Context) (core.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok, err := r.doc.load(ctx)
	if err != nil {
		return core.Settings{}, err
	}
	if ok {
		return s, nil
	}
	s = core.DefaultSettings(r.doc.now())
	if err := r.doc.save(ctx, s); err != nil {
		return core.Settings{}, err
	}
	slog.InfoContext(ctx, "Default settings created")
	return s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s core.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := s.Validate(); err != nil {
		return err
	}
	return r.doc.save(ctx, s)
}
