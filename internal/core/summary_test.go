package core

import (
	"testing"
	"time"
)

func tx(id string, typ TransactionType, cents int64, md Metadata, at time.Time) Transaction {
	return Transaction{ID: id, EventID: "e1", Type: typ, Description: id, Amount: Money{Cents: cents}, Metadata: md, CreatedAt: at}
}

func sampleLedger() []Transaction {
	return []Transaction{
		tx("diaria", TypeIncome, 300_00, IncomeMetadata{Category: CategoryDiaria}, testNow.Add(3*time.Minute)),
		tx("ingredientes", TypeExpense, 150_00, ExpenseMetadata{}, testNow),
		tx("km", TypeIncome, 90_00, IncomeMetadata{IsReimbursement: true, Category: CategoryKm, Distance: ptr(100)}, testNow.Add(time.Minute)),
		tx("viagem", TypeIncome, 150_00, IncomeMetadata{IsReimbursement: true, Category: CategoryTempoViagem, Hours: ptr(2)}, testNow.Add(2*time.Minute)),
		tx("extra", TypeIncome, 75_00, IncomeMetadata{Category: CategoryHoraExtra}, testNow.Add(4*time.Minute)),
		tx("cachê", TypeIncome, 50_00, IncomeMetadata{}, testNow.Add(5*time.Minute)),
	}
}

func TestSummarizeEvent(t *testing.T) {
	e := Event{ID: "e1", Date: NewDate(2025, 5, 10), Status: StatusDone}
	s := DefaultSettings(testNow)
	sum := SummarizeEvent(e, sampleLedger(), s)

	checks := []struct {
		name string
		got  Money
		want int64
	}{
		{"expenses", sum.TotalExpenses, 150_00},
		{"km", sum.TotalKmCost, 90_00},
		{"travel time", sum.TotalTravelTimeCost, 150_00},
		{"fees", sum.TotalFees, 300_00 + 150_00 + 75_00 + 50_00},
		{"upfront", sum.UpfrontCost, 240_00},
		{"reimbursement", sum.ReimbursementValue, 240_00},
		{"net profit", sum.NetProfit, 575_00},
		{"to receive", sum.TotalToReceive, 815_00},
	}
	for _, c := range checks {
		if c.got.Cents != c.want {
			t.Errorf("%s: got %d, want %d", c.name, c.got.Cents, c.want)
		}
	}
	if sum.ExpectedReceiptDate.String() != "2025-05-31" {
		t.Errorf("expected receipt date 2025-05-31, got %s", sum.ExpectedReceiptDate)
	}
	if sum.TransactionCount != 6 {
		t.Errorf("expected 6 transactions, got %d", sum.TransactionCount)
	}
}

func TestConsolidatedSummary(t *testing.T) {
	c := NewConsolidatedSummary(2025, 5)
	c.Add(StatusDone, EventSummary{TotalExpenses: Money{Cents: 100}, TotalToReceive: Money{Cents: 500}})
	c.Add(StatusPaid, EventSummary{TotalFees: Money{Cents: 200}, NetProfit: Money{Cents: 200}, TotalToReceive: Money{Cents: 200}})
	if c.EventCount != 2 || c.ByStatus[StatusDone] != 1 || c.ByStatus[StatusPaid] != 1 {
		t.Fatalf("unexpected counts %+v", c)
	}
	if c.TotalToReceive.Cents != 700 || c.OutstandingReceivable.Cents != 500 || c.NetProfit.Cents != 200 {
		t.Fatalf("unexpected totals %+v", c)
	}
}

func TestBuildEventReport(t *testing.T) {
	e := Event{ID: "e1", Name: "Festival X", Date: NewDate(2025, 5, 10)}
	r := BuildEventReport(e, sampleLedger(), DefaultSettings(testNow), testNow)

	if len(r.Services) != 3 || r.Services[0].TransactionID != "diaria" || r.Services[2].TransactionID != "cachê" {
		t.Fatalf("services should hold diaria, hora_extra and uncategorized income in creation order: %+v", r.Services)
	}
	if len(r.Expenses) != 1 || len(r.Travel) != 1 || len(r.TravelTime) != 1 {
		t.Fatalf("unexpected sections %+v", r)
	}
	if r.Travel[0].Quantity != 100 || r.Travel[0].Unit != "km" {
		t.Fatalf("km line should carry distance, got %+v", r.Travel[0])
	}
	if r.Services[1].Quantity != 1 {
		t.Fatalf("overtime hours should fall back to amount / rate, got %v", r.Services[1].Quantity)
	}
	if r.Total.Cents != 815_00 || r.Summary.TotalToReceive.Cents != 815_00 {
		t.Fatalf("report total should match summary, got %d / %d", r.Total.Cents, r.Summary.TotalToReceive.Cents)
	}
}

func TestMonthlyReport(t *testing.T) {
	s := DefaultSettings(testNow)
	a := BuildMonthlyRow(Event{ID: "a", Date: NewDate(2025, 5, 20)}, sampleLedger(), s)
	b := BuildMonthlyRow(Event{ID: "b", Date: NewDate(2025, 5, 2)}, []Transaction{
		tx("extra", TypeIncome, 150_00, IncomeMetadata{Category: CategoryHoraExtra, Hours: ptr(2)}, testNow),
	}, s)

	if a.Hours != 3 || a.Km != 100 || len(a.Travel) != 2 {
		t.Fatalf("row a: hours=%v km=%v travel=%d", a.Hours, a.Km, len(a.Travel))
	}
	r := NewMonthlyReport(2025, 5, []MonthlyEventRow{a, b}, testNow)
	if r.Events[0].Event.ID != "b" {
		t.Fatalf("rows should be ordered by event date")
	}
	if r.TotalHours != 5 || r.TotalKm != 100 || r.Total.Cents != 815_00+150_00 {
		t.Fatalf("unexpected totals hours=%v km=%v total=%d", r.TotalHours, r.TotalKm, r.Total.Cents)
	}
}

func TestUncategorizedIncomeIsAFee(t *testing.T) {
	e := Event{ID: "e1", Date: NewDate(2025, 5, 10), Status: StatusDone}
	s := DefaultSettings(testNow)
	txs := []Transaction{tx("cachê", TypeIncome, 200_00, IncomeMetadata{}, testNow)}

	sum := SummarizeEvent(e, txs, s)
	if sum.TotalFees.Cents != 200_00 || sum.NetProfit.Cents != 200_00 {
		t.Fatalf("uncategorized income should be a fee, got fees=%s net=%s", sum.TotalFees, sum.NetProfit)
	}
	if sum.ReimbursementValue.Cents != 0 || sum.UpfrontCost.Cents != 0 {
		t.Fatalf("uncategorized income is never reimbursed, got %+v", sum)
	}

	report := BuildEventReport(e, txs, s, testNow)
	if len(report.Services) != 1 || report.TotalServices.Cents != 200_00 {
		t.Fatalf("uncategorized income should be listed under services, got %+v", report.Services)
	}
}
