package domain

import "sort"

// BatchKind classifies one write batch as a trading day or a declared
// no-trade day.
type BatchKind string

const (
	BatchKindTradeDay   BatchKind = "TRADE_DAY"
	BatchKindNoTradeDay BatchKind = "NO_TRADE_DAY"
)

// WriteBatch is one atomic write request: journal entries plus optional
// trade records. Each batch targets a single market.
type WriteBatch struct {
	Journals []*JournalEntry `json:"journals"`
	Trades   []*Trade        `json:"trades,omitempty"`
}

// Kind derives the batch classification from the first journal entry's
// trade type. This is a batch-level decision, not per-entry: callers that
// send mixed trade_type journals still get the first entry's rule.
func (b *WriteBatch) Kind() BatchKind {
	if len(b.Journals) > 0 && b.Journals[0].TradeType == JournalTypeTrade {
		return BatchKindTradeDay
	}
	return BatchKindNoTradeDay
}

// MarketType returns the market the batch targets, taken from the first
// journal entry (mixed-market batches are out of scope).
func (b *WriteBatch) MarketType() string {
	if len(b.Journals) > 0 && b.Journals[0].MarketType != "" {
		return b.Journals[0].MarketType
	}
	return DefaultMarketType
}

// ConflictDates returns the distinct, sorted calendar dates the NT/Trade
// mutual-exclusion check must inspect for this batch: the trade dates for a
// trade-day batch, the journal dates for a no-trade-day batch.
func (b *WriteBatch) ConflictDates() []string {
	seen := make(map[string]struct{})
	var dates []string

	add := func(key string) {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			dates = append(dates, key)
		}
	}

	if b.Kind() == BatchKindTradeDay {
		for _, t := range b.Trades {
			add(t.DateKey())
		}
	} else {
		for _, j := range b.Journals {
			add(j.DateKey())
		}
	}

	sort.Strings(dates)
	return dates
}

// SaveResult reports what a committed batch wrote.
type SaveResult struct {
	BatchID      string          `json:"batch_id"`
	JournalCount int             `json:"journal_count"`
	TradeCount   int             `json:"trade_count"`
	Journals     []*JournalEntry `json:"journals"`
	Trades       []*Trade        `json:"trades,omitempty"`
}

// DeleteResult reports how many rows an NT unit deletion removed.
// Zero for both fields is a valid outcome, not an error.
type DeleteResult struct {
	JournalsDeleted int `json:"journals_deleted"`
	TradesDeleted   int `json:"trades_deleted"`
}
