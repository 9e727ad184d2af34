package core

// EventTotals is the raw per-type aggregate of an event's transactions.
type EventTotals struct {
	Expenses         Money `json:"expenses"`
	Income           Money `json:"income"`
	TransactionCount int   `json:"transactionCount"`
}

// EventSummary splits an event's money into what the worker advanced and what they earned.
type EventSummary struct {
	EventID             string `json:"eventId"`
	TotalExpenses       Money  `json:"totalExpenses"`
	TotalKmCost         Money  `json:"totalKmCost"`
	TotalTravelTimeCost Money  `json:"totalTravelTimeCost"`
	TotalFees           Money  `json:"totalFees"`
	UpfrontCost         Money  `json:"upfrontCost"`
	ReimbursementValue  Money  `json:"reimbursementValue"`
	NetProfit           Money  `json:"netProfit"`
	TotalToReceive      Money  `json:"totalToReceive"`
	ExpectedReceiptDate Date   `json:"expectedReceiptDate"`
	TransactionCount    int    `json:"transactionCount"`
}

// SummarizeEvent computes the summary of e from its transactions.
//
// Travel time is paid as a fee: it is reported in its own bucket and also counted
// in TotalFees, never in the reimbursement.
func SummarizeEvent(e Event, txs []Transaction, s Settings) EventSummary {
	sum := EventSummary{EventID: e.ID, TransactionCount: len(txs)}
	for _, t := range txs {
		if t.Type == TypeExpense {
			sum.TotalExpenses = sum.TotalExpenses.Add(t.Amount)
			continue
		}
		switch c := t.Category(); {
		case c == CategoryKm:
			sum.TotalKmCost = sum.TotalKmCost.Add(t.Amount)
		case c == CategoryTempoViagem:
			sum.TotalTravelTimeCost = sum.TotalTravelTimeCost.Add(t.Amount)
			sum.TotalFees = sum.TotalFees.Add(t.Amount)
		case c.IsFee():
			sum.TotalFees = sum.TotalFees.Add(t.Amount)
		}
	}
	sum.UpfrontCost = sum.TotalExpenses.Add(sum.TotalKmCost)
	sum.ReimbursementValue = sum.TotalExpenses.Add(sum.TotalKmCost)
	sum.NetProfit = sum.TotalFees
	sum.TotalToReceive = sum.ReimbursementValue.Add(sum.NetProfit)
	if !e.Date.IsZero() {
		sum.ExpectedReceiptDate = e.Date.AddDays(s.DefaultReimbursementDays)
	}
	return sum
}

// ConsolidatedSummary aggregates event summaries over a period.
type ConsolidatedSummary struct {
	Year                  int                 `json:"year,omitempty"`
	Month                 int                 `json:"month,omitempty"`
	EventCount            int                 `json:"eventCount"`
	ByStatus              map[EventStatus]int `json:"byStatus"`
	TotalExpenses         Money               `json:"totalExpenses"`
	TotalKmCost           Money               `json:"totalKmCost"`
	TotalTravelTimeCost   Money               `json:"totalTravelTimeCost"`
	TotalFees             Money               `json:"totalFees"`
	UpfrontCost           Money               `json:"upfrontCost"`
	ReimbursementValue    Money               `json:"reimbursementValue"`
	NetProfit             Money               `json:"netProfit"`
	TotalToReceive        Money               `json:"totalToReceive"`
	OutstandingReceivable Money               `json:"outstandingReceivable"`
}

// NewConsolidatedSummary returns an empty summary for the period.
func NewConsolidatedSummary(year, month int) ConsolidatedSummary {
	return ConsolidatedSummary{Year: year, Month: month, ByStatus: map[EventStatus]int{}}
}

// Add folds one event summary in. Events not yet paid count towards the outstanding receivable.
func (c *ConsolidatedSummary) Add(status EventStatus, s EventSummary) {
	if c.ByStatus == nil {
		c.ByStatus = map[EventStatus]int{}
	}
	c.EventCount++
	c.ByStatus[status]++
	c.TotalExpenses = c.TotalExpenses.Add(s.TotalExpenses)
	c.TotalKmCost = c.TotalKmCost.Add(s.TotalKmCost)
	c.TotalTravelTimeCost = c.TotalTravelTimeCost.Add(s.TotalTravelTimeCost)
	c.TotalFees = c.TotalFees.Add(s.TotalFees)
	c.UpfrontCost = c.UpfrontCost.Add(s.UpfrontCost)
	c.ReimbursementValue = c.ReimbursementValue.Add(s.ReimbursementValue)
	c.NetProfit = c.NetProfit.Add(s.NetProfit)
	c.TotalToReceive = c.TotalToReceive.Add(s.TotalToReceive)
	if status != StatusPaid {
		c.OutstandingReceivable = c.OutstandingReceivable.Add(s.TotalToReceive)
	}
}
