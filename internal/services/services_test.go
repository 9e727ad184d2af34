package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"freela/internal/core"
	"freela/internal/storage"
)

var testNow = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Services
	store *storage.MemoryStore
	clock *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := testNow
	f := &fixture{store: storage.NewMemoryStore(), clock: &now}
	clock := func() time.Time {
		*f.clock = f.clock.Add(time.Second)
		return *f.clock
	}
	repos := storage.NewRepositories(f.store, clock)
	f.svc = New(Deps{
		Events:       repos.Events,
		Transactions: repos.Transactions,
		Settings:     repos.Settings,
		Clock:        clock,
	})
	return f
}

func must[T any](t *testing.T, r Result[T]) T {
	t.Helper()
	if !r.Success {
		t.Fatalf("unexpected failure: %s", r.Error)
	}
	return r.Data
}

func money(s string) *core.Money {
	var m core.Money
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		panic(err)
	}
	return &m
}

func num(v float64) *Number { n := Number(v); return &n }

func (f *fixture) festival(t *testing.T) core.Event {
	t.Helper()
	return must(t, f.svc.CreateEvent.Execute(context.Background(), EventInput{
		Name: "Festival X",
		Date: core.Today(testNow),
	}))
}

func TestCreateEvent(t *testing.T) {
	f := newFixture(t)
	e := f.festival(t)
	if e.Status != core.StatusPlanned || !e.IsEditable() {
		t.Fatalf("new event should be PLANNED and editable: %+v", e)
	}
	r := f.svc.CreateEvent.Execute(context.Background(), EventInput{Name: "X", Date: core.Today(testNow)})
	if r.Success || !errors.Is(r.Err, core.ErrValidation) {
		t.Fatalf("expected validation failure, got %+v", r)
	}
}

// Scenarios 1 to 3: the summary follows each added transaction.
func TestSummaryScenarios(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.festival(t)

	must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{
		EventID: e.ID, Type: "EXPENSE", Description: "ingredientes", Amount: money("150.00"),
	}))
	sum := must(t, f.svc.GetEventSummary.Execute(ctx, EventIDInput{EventID: e.ID}))
	if sum.UpfrontCost.Cents != 150_00 || sum.TotalToReceive.Cents != 150_00 || sum.NetProfit.Cents != 0 {
		t.Fatalf("scenario 1: %+v", sum)
	}

	km := must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{
		EventID: e.ID, Type: "INCOME", Description: "deslocamento", Category: "km", Distance: num(100),
	}))
	if km.Amount.Cents != 90_00 {
		t.Fatalf("scenario 2: km amount should be 90.00, got %s", km.Amount)
	}
	if md, _ := km.Income(); !md.IsReimbursement {
		t.Fatalf("km income should default to reimbursement")
	}
	sum = must(t, f.svc.GetEventSummary.Execute(ctx, EventIDInput{EventID: e.ID}))
	if sum.UpfrontCost.Cents != 240_00 {
		t.Fatalf("scenario 2: upfront should be 240.00, got %s", sum.UpfrontCost)
	}

	reimb := false
	must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{
		EventID: e.ID, Type: "INCOME", Description: "diária", Category: "diaria", Amount: money("300.00"), IsReimbursement: &reimb,
	}))
	sum = must(t, f.svc.GetEventSummary.Execute(ctx, EventIDInput{EventID: e.ID}))
	if sum.NetProfit.Cents != 300_00 || sum.TotalToReceive.Cents != 540_00 {
		t.Fatalf("scenario 3: %+v", sum)
	}
	if want := core.Today(testNow).AddDays(21); !sum.ExpectedReceiptDate.Equal(want.Time) {
		t.Fatalf("expected receipt date %s, got %s", want, sum.ExpectedReceiptDate)
	}
}

// Scenario 4: an event without transactions cannot be marked DONE.
func TestDoneRequiresTransactions(t *testing.T) {
	f := newFixture(t)
	e := f.festival(t)
	r := f.svc.UpdateEventStatus.Execute(context.Background(), UpdateEventStatusInput{EventID: e.ID, Status: "DONE"})
	if r.Success || !strings.Contains(r.Error, "no transactions") {
		t.Fatalf("expected failure mentioning transactions, got %+v", r)
	}
}

// Scenario 5 plus the PAID freeze.
func TestPaidEventIsFrozen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.festival(t)
	tx := must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{
		EventID: e.ID, Type: "EXPENSE", Description: "ingredientes", Amount: money("150"),
	}))

	for _, st := range []string{"DONE", "REPORT_SENT", "PAID"} {
		must(t, f.svc.UpdateEventStatus.Execute(ctx, UpdateEventStatusInput{EventID: e.ID, Status: st}))
	}

	checks := map[string]Result[core.Transaction]{
		"add": f.svc.AddTransaction.Execute(ctx, AddTransactionInput{
			EventID: e.ID, Type: "EXPENSE", Description: "gelo", Amount: money("10"),
		}),
		"update": f.svc.UpdateTransaction.Execute(ctx, UpdateTransactionInput{ID: tx.ID, Amount: money("20")}),
	}
	for name, r := range checks {
		if r.Success || !errors.Is(r.Err, core.ErrInvalidState) {
			t.Fatalf("%s on paid event should fail with invalid state, got %+v", name, r)
		}
	}
	if r := f.svc.DeleteTransaction.Execute(ctx, IDInput{ID: tx.ID}); r.Success {
		t.Fatalf("delete transaction on paid event should fail")
	}
	if r := f.svc.UpdateEventStatus.Execute(ctx, UpdateEventStatusInput{EventID: e.ID, Status: "DONE"}); r.Success {
		t.Fatalf("PAID -> DONE should fail")
	}
	if r := f.svc.UpdateEventStatus.Execute(ctx, UpdateEventStatusInput{EventID: e.ID, Status: "PAID"}); r.Success {
		t.Fatalf("PAID -> PAID should fail")
	}
	if r := f.svc.DeleteEvent.Execute(ctx, IDInput{ID: e.ID}); r.Success || !errors.Is(r.Err, core.ErrInvalidState) {
		t.Fatalf("delete of paid event should fail, got %+v", r)
	}
	if r := f.svc.UpdateEvent.Execute(ctx, UpdateEventInput{ID: e.ID, EventInput: EventInput{Name: "Outro", Date: e.Date}}); r.Success {
		t.Fatalf("paid event details should not change")
	}
}

// Scenario 6: a corrupted transactions blob is quarantined and reads as empty.
func TestCorruptedTransactionsRecover(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.festival(t)
	if err := f.store.Put(ctx, storage.KeyTransactions, []byte("[{oops")); err != nil {
		t.Fatal(err)
	}
	txs := must(t, f.svc.ListTransactions.Execute(ctx, ListTransactionsInput{EventID: e.ID}))
	if len(txs) != 0 {
		t.Fatalf("expected empty list, got %d", len(txs))
	}
	keys, _ := f.store.Keys(ctx, storage.KeyTransactions+":corrupted:")
	if len(keys) != 1 {
		t.Fatalf("expected a backup key, got %v", keys)
	}
}

func TestStatusIdempotence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.festival(t)
	same := must(t, f.svc.UpdateEventStatus.Execute(ctx, UpdateEventStatusInput{EventID: e.ID, Status: "PLANNED"}))
	if same.Status != core.StatusPlanned || !same.UpdatedAt.Equal(e.UpdatedAt) {
		t.Fatalf("PLANNED -> PLANNED should leave the event unchanged")
	}

	must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "cachê", Amount: money("100")}))
	must(t, f.svc.UpdateEventStatus.Execute(ctx, UpdateEventStatusInput{EventID: e.ID, Status: "DONE"}))
	first := must(t, f.svc.UpdateEventStatus.Execute(ctx, UpdateEventStatusInput{
		EventID: e.ID, Status: "REPORT_SENT", ReportSentDate: core.NewDate(2025, 5, 1),
	}))
	second := must(t, f.svc.UpdateEventStatus.Execute(ctx, UpdateEventStatusInput{
		EventID: e.ID, Status: "REPORT_SENT", ReportSentDate: core.NewDate(2025, 5, 9),
	}))
	if first.ExpectedPaymentDate.String() != "2025-05-22" || second.ExpectedPaymentDate.String() != "2025-05-30" {
		t.Fatalf("re-entry should recompute: %s then %s", first.ExpectedPaymentDate, second.ExpectedPaymentDate)
	}
	if r := f.svc.UpdateEventStatus.Execute(ctx, UpdateEventStatusInput{EventID: e.ID, Status: "DONE"}); r.Success {
		t.Fatalf("REPORT_SENT -> DONE should fail")
	}
}

func TestAddTransactionValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.festival(t)

	cases := []struct {
		name string
		in   AddTransactionInput
		kind error
	}{
		{"missing event", AddTransactionInput{Type: "EXPENSE", Description: "gelo", Amount: money("1")}, core.ErrValidation},
		{"missing type", AddTransactionInput{EventID: e.ID, Description: "gelo", Amount: money("1")}, core.ErrValidation},
		{"bad type", AddTransactionInput{EventID: e.ID, Type: "GIFT", Description: "gelo", Amount: money("1")}, core.ErrValidation},
		{"blank description", AddTransactionInput{EventID: e.ID, Type: "EXPENSE", Description: "  ", Amount: money("1")}, core.ErrValidation},
		{"unknown event", AddTransactionInput{EventID: "nope", Type: "EXPENSE", Description: "gelo", Amount: money("1")}, core.ErrNotFound},
		{"expense without amount", AddTransactionInput{EventID: e.ID, Type: "EXPENSE", Description: "gelo"}, core.ErrValidation},
		{"zero amount", AddTransactionInput{EventID: e.ID, Type: "EXPENSE", Description: "gelo", Amount: money("0")}, core.ErrValidation},
		{"amount above max", AddTransactionInput{EventID: e.ID, Type: "EXPENSE", Description: "gelo", Amount: money("10000000.01")}, core.ErrValidation},
		{"negative amount", AddTransactionInput{EventID: e.ID, Type: "EXPENSE", Description: "gelo", Amount: money("-10")}, core.ErrValidation},
		{"negative fee", AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "cachê", Amount: money("-0.01")}, core.ErrValidation},
		{"km negative distance", AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "km", Category: "km", Distance: num(-5)}, core.ErrValidation},
		{"km distance beyond any amount", AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "km", Category: "km", Distance: num(2.0496382304121725e17)}, core.ErrValidation},
		{"km infinite distance", AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "km", Category: "km", Distance: num(math.Inf(1))}, core.ErrValidation},
		{"travel time NaN hours", AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "viagem", Category: "tempo_viagem", Hours: num(math.NaN())}, core.ErrValidation},
		{"overtime NaN hours", AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "hora extra", Category: "hora_extra", Hours: num(math.NaN()), Amount: money("75")}, core.ErrValidation},
		{"km without distance", AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "km", Category: "km"}, core.ErrValidation},
		{"km with zero distance", AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "km", Category: "km", Distance: num(0)}, core.ErrValidation},
		{"travel time without hours", AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "viagem", Category: "tempo_viagem"}, core.ErrValidation},
		{"travel time zero hours", AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "viagem", Category: "tempo_viagem", Hours: num(0)}, core.ErrValidation},
		{"diaria without amount", AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "diária", Category: "diaria"}, core.ErrValidation},
	}
	for _, tc := range cases {
		r := f.svc.AddTransaction.Execute(ctx, tc.in)
		if r.Success || !errors.Is(r.Err, tc.kind) {
			t.Errorf("%s: expected %v, got success=%v err=%v", tc.name, tc.kind, r.Success, r.Err)
		}
	}

	okMax := f.svc.AddTransaction.Execute(ctx, AddTransactionInput{EventID: e.ID, Type: "EXPENSE", Description: "gelo", Amount: money("10000000")})
	if !okMax.Success {
		t.Fatalf("10,000,000 should be accepted: %s", okMax.Error)
	}
	viagem := must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{
		EventID: e.ID, Type: "income", Description: "viagem", Category: "tempo_viagem", Hours: num(2.5),
	}))
	if viagem.Amount.Cents != 187_50 {
		t.Fatalf("travel time should be hours x overtime rate, got %s", viagem.Amount)
	}
}

func TestAddTransactionRejectsOutOfRangeInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.festival(t)

	bodies := []string{
		`{"type":"EXPENSE","description":"gelo","amount":184467440737095516.17}`,
		`{"type":"EXPENSE","description":"gelo","amount":-184467440737095516.06}`,
		`{"type":"EXPENSE","description":"gelo","amount":"184467440737095516,17"}`,
		`{"type":"INCOME","category":"tempo_viagem","description":"viagem","hours":"NaN"}`,
		`{"type":"INCOME","category":"km","description":"km","distance":"Infinity"}`,
		`{"type":"INCOME","category":"hora_extra","description":"hora extra","hours":"-Inf","amount":75}`,
	}
	for _, body := range bodies {
		var in AddTransactionInput
		err := json.Unmarshal([]byte(body), &in)
		if err == nil {
			in.EventID = e.ID
			r := f.svc.AddTransaction.Execute(ctx, in)
			t.Errorf("%s: decoded and executed with success=%v amount=%s", body, r.Success, r.Data.Amount)
			continue
		}
		if !errors.Is(err, core.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", body, err)
		}
	}

	txs := must(t, f.svc.ListTransactions.Execute(ctx, ListTransactionsInput{EventID: e.ID}))
	if len(txs) != 0 {
		t.Fatalf("nothing should be stored, got %d transactions", len(txs))
	}
}

func TestUpdateTransactionRejectsNegativeValues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.festival(t)
	exp := must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{EventID: e.ID, Type: "EXPENSE", Description: "gelo", Amount: money("15")}))
	km := must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "km", Category: "km", Distance: num(10)}))

	cases := []struct {
		name string
		in   UpdateTransactionInput
	}{
		{"negative amount", UpdateTransactionInput{ID: exp.ID, Amount: money("-15")}},
		{"negative distance", UpdateTransactionInput{ID: km.ID, Distance: num(-10)}},
		{"distance beyond any amount", UpdateTransactionInput{ID: km.ID, Distance: num(2.0496382304121725e17)}},
		{"NaN distance", UpdateTransactionInput{ID: km.ID, Distance: num(math.NaN())}},
	}
	for _, tc := range cases {
		r := f.svc.UpdateTransaction.Execute(ctx, tc.in)
		if r.Success || !errors.Is(r.Err, core.ErrValidation) {
			t.Errorf("%s: expected validation failure, got success=%v err=%v", tc.name, r.Success, r.Err)
		}
	}

	exp2 := must(t, f.svc.ListTransactions.Execute(ctx, ListTransactionsInput{EventID: e.ID}))
	for _, tx := range exp2 {
		if tx.ID == exp.ID && tx.Amount.Cents != 15_00 {
			t.Errorf("expense amount changed to %s", tx.Amount)
		}
		if tx.ID == km.ID && tx.Amount.Cents != 9_00 {
			t.Errorf("km amount changed to %s", tx.Amount)
		}
	}
}

func TestUpdateSettingsRejectsOutOfRangeRates(t *testing.T) {
	var in UpdateSettingsInput
	if err := json.Unmarshal([]byte(`{"rateKm":184467440737095516.17}`), &in); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	f := newFixture(t)
	r := f.svc.UpdateSettings.Execute(context.Background(), UpdateSettingsInput{RateKm: money("-0.90")})
	if r.Success || !errors.Is(r.Err, core.ErrValidation) {
		t.Fatalf("negative rate should fail, got %+v", r)
	}
}

func TestRatesAreSnapshots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.festival(t)
	km := must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{
		EventID: e.ID, Type: "INCOME", Description: "deslocamento", Category: "km", Distance: num(100),
	}))
	must(t, f.svc.UpdateSettings.Execute(ctx, UpdateSettingsInput{RateKm: money("1.50")}))

	same := must(t, f.svc.UpdateTransaction.Execute(ctx, UpdateTransactionInput{ID: km.ID, Description: strPtr("deslocamento ida")}))
	if same.Amount.Cents != 90_00 {
		t.Fatalf("editing the description must keep the snapshot amount, got %s", same.Amount)
	}
	again := must(t, f.svc.UpdateTransaction.Execute(ctx, UpdateTransactionInput{ID: km.ID, Distance: num(10)}))
	if again.Amount.Cents != 15_00 {
		t.Fatalf("editing the distance should reprice with current rate, got %s", again.Amount)
	}
}

func strPtr(s string) *string { return &s }

func TestUpdateTransactionKeepsType(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.festival(t)
	exp := must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{
		EventID: e.ID, Type: "EXPENSE", Description: "hotel", Amount: money("280"), Category: "accommodation",
		CheckIn: core.NewDate(2025, 5, 9), CheckOut: core.NewDate(2025, 5, 11),
	}))
	yes := true
	upd := must(t, f.svc.UpdateTransaction.Execute(ctx, UpdateTransactionInput{ID: exp.ID, HasReceipt: &yes}))
	md, ok := upd.Expense()
	if !ok || !md.HasReceipt || md.CheckOut.String() != "2025-05-11" || upd.Type != core.TypeExpense {
		t.Fatalf("unexpected update result %+v", upd)
	}
	if r := f.svc.UpdateTransaction.Execute(ctx, UpdateTransactionInput{ID: exp.ID, Amount: money("0")}); r.Success {
		t.Fatalf("zero amount update should fail")
	}
}

func TestDeleteEventCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.festival(t)
	other := must(t, f.svc.CreateEvent.Execute(ctx, EventInput{Name: "Casamento", Date: core.Today(testNow)}))
	for _, id := range []string{e.ID, e.ID, other.ID} {
		must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{EventID: id, Type: "EXPENSE", Description: "copos", Amount: money("5")}))
	}
	out := must(t, f.svc.DeleteEvent.Execute(ctx, IDInput{ID: e.ID}))
	if out.DeletedTransactions != 2 || len(out.FailedTransactions) != 0 {
		t.Fatalf("unexpected cascade result %+v", out)
	}
	if r := f.svc.GetEvent.Execute(ctx, IDInput{ID: e.ID}); !errors.Is(r.Err, core.ErrNotFound) {
		t.Fatalf("event should be gone, got %+v", r)
	}
	left := must(t, f.svc.ListTransactions.Execute(ctx, ListTransactionsInput{EventID: other.ID}))
	if len(left) != 1 {
		t.Fatalf("other event transactions should remain, got %d", len(left))
	}
}

func TestListEventsHidesCancelled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.festival(t)
	b := must(t, f.svc.CreateEvent.Execute(ctx, EventInput{Name: "Casamento", Date: core.Today(testNow).AddDays(3)}))
	must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{EventID: a.ID, Type: "EXPENSE", Description: "copos", Amount: money("5")}))
	must(t, f.svc.CancelEvent.Execute(ctx, IDInput{ID: b.ID}))

	items := must(t, f.svc.ListEvents.Execute(ctx, ListEventsInput{}))
	if len(items) != 1 || items[0].ID != a.ID || items[0].Totals.Expenses.Cents != 5_00 {
		t.Fatalf("unexpected listing %+v", items)
	}
	all := must(t, f.svc.ListEvents.Execute(ctx, ListEventsInput{IncludeCancelled: true}))
	if len(all) != 2 || all[0].ID != b.ID {
		t.Fatalf("expected both events newest first, got %+v", all)
	}
	if r := f.svc.AddTransaction.Execute(ctx, AddTransactionInput{EventID: b.ID, Type: "EXPENSE", Description: "copos", Amount: money("5")}); r.Success {
		t.Fatalf("cancelled event should reject transactions")
	}
}

func TestConsolidatedSummaryAndMonthlyReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.festival(t)
	must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{EventID: e.ID, Type: "EXPENSE", Description: "ingredientes", Amount: money("150")}))
	must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "hora extra", Category: "hora_extra", Amount: money("150")}))
	cancelled := must(t, f.svc.CreateEvent.Execute(ctx, EventInput{Name: "Cancelado", Date: core.Today(testNow)}))
	must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{EventID: cancelled.ID, Type: "EXPENSE", Description: "gelo", Amount: money("999")}))
	must(t, f.svc.CancelEvent.Execute(ctx, IDInput{ID: cancelled.ID}))

	c := must(t, f.svc.GetConsolidatedSummary.Execute(ctx, PeriodInput{Year: 2025, Month: 5}))
	if c.EventCount != 1 || c.TotalToReceive.Cents != 300_00 || c.OutstandingReceivable.Cents != 300_00 {
		t.Fatalf("unexpected consolidated summary %+v", c)
	}

	r := must(t, f.svc.GenerateMonthlyReport.Execute(ctx, PeriodInput{Year: 2025, Month: 5}))
	if len(r.Events) != 1 || r.TotalHours != 2 || r.Total.Cents != 300_00 {
		t.Fatalf("unexpected monthly report %+v", r)
	}
	if res := f.svc.GenerateMonthlyReport.Execute(ctx, PeriodInput{Year: 2025, Month: 13}); res.Success {
		t.Fatalf("month 13 should be rejected")
	}
	empty := must(t, f.svc.GenerateMonthlyReport.Execute(ctx, PeriodInput{Year: 2024, Month: 1}))
	if len(empty.Events) != 0 {
		t.Fatalf("expected empty report")
	}
}

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newFixture(t)
	e := src.festival(t)
	must(t, src.svc.AddTransaction.Execute(ctx, AddTransactionInput{EventID: e.ID, Type: "INCOME", Description: "deslocamento", Category: "km", Distance: num(10), Origin: "A", Destination: "B"}))
	backup := must(t, src.svc.ExportBackup.Execute(ctx, struct{}{}))

	dst := newFixture(t)
	stale := dst.festival(t)
	out := must(t, dst.svc.ImportBackup.Execute(ctx, ImportBackupInput{Backup: backup}))
	if out.Events != 1 || out.Transactions != 1 || !out.SettingsRestored {
		t.Fatalf("unexpected import result %+v", out)
	}
	if r := dst.svc.GetEvent.Execute(ctx, IDInput{ID: stale.ID}); r.Success {
		t.Fatalf("import should replace existing data")
	}
	txs := must(t, dst.svc.ListTransactions.Execute(ctx, ListTransactionsInput{EventID: e.ID}))
	if len(txs) != 1 || txs[0].Amount.Cents != 9_00 {
		t.Fatalf("unexpected restored transactions %+v", txs)
	}

	backup.Version = "0.1"
	if r := dst.svc.ImportBackup.Execute(ctx, ImportBackupInput{Backup: backup}); r.Success {
		t.Fatalf("unsupported version should be rejected")
	}
	if events := must(t, dst.svc.ListEvents.Execute(ctx, ListEventsInput{})); len(events) != 1 {
		t.Fatalf("failed import must not delete data, got %d events", len(events))
	}
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.festival(t)
	must(t, f.svc.AddTransaction.Execute(ctx, AddTransactionInput{EventID: e.ID, Type: "EXPENSE", Description: "ingredientes", Amount: money("1234.56")}))
	out := must(t, f.svc.ExportCSV.Execute(ctx, PeriodInput{Year: 2025, Month: 5}))
	if out.Filename != "freela-2025-05.csv" {
		t.Fatalf("unexpected filename %s", out.Filename)
	}
	if !strings.Contains(string(out.Content), "10/05/2025;Festival X;Despesa;ingredientes;R$ 1.234,56;Não;;") {
		t.Fatalf("unexpected csv:\n%s", out.Content)
	}
}

func TestResultJSON(t *testing.T) {
	ok, _ := json.Marshal(Result[int]{Success: true, Data: 3})
	if string(ok) != `{"success":true,"data":3}` {
		t.Fatalf("unexpected %s", ok)
	}
	bad, _ := json.Marshal(Result[int]{Error: "boom", Err: errors.New("boom")})
	if string(bad) != `{"success":false,"error":"boom"}` {
		t.Fatalf("unexpected %s", bad)
	}
}

func TestExecuteRecoversPanics(t *testing.T) {
	r := execute(context.Background(), "explode", func() (int, error) {
		var m map[string]int
		m["x"] = 1
		return 0, nil
	})
	if r.Success || !strings.Contains(r.Error, "explode") {
		t.Fatalf("panic should become a failed result, got %+v", r)
	}
}
