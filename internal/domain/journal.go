package domain

import "time"

// JournalEntry is the daily narrative a trader writes for one market.
// Unique per (user, journal_date, market_type); writes to an existing key
// overwrite the text and trade type.
type JournalEntry struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	JournalDate time.Time `json:"journal_date"`
	JournalText string    `json:"journal_text"`
	TradeType   string    `json:"trade_type"` // TRADE | NT
	MarketType  string    `json:"market_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Journal trade-type constants.
const (
	JournalTypeTrade = "TRADE"
	JournalTypeNT    = "NT"
)

// DateKey returns the entry's calendar date as YYYY-MM-DD.
func (j *JournalEntry) DateKey() string {
	return DateKey(j.JournalDate)
}
