package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade represents one executed trade owned by a single user.
// Rows are immutable except through Update, which rewrites all fields.
type Trade struct {
	ID         int64            `json:"id"`
	UserID     string           `json:"user_id"`
	TradeDate  time.Time        `json:"trade_date"`
	Symbol     string           `json:"symbol"`
	TradeType  string           `json:"trade_type"` // BUY | SELL | NT
	LotSize    decimal.Decimal  `json:"lot_size"`
	EntryPrice decimal.Decimal  `json:"entry_price"`
	ExitPrice  *decimal.Decimal `json:"exit_price"` // nullable: position may still be open
	ProfitLoss decimal.Decimal  `json:"profit_loss"`
	MarketType string           `json:"market_type"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Trade type constants. NT is the sentinel for a declared no-trade day.
const (
	TradeTypeBuy  = "BUY"
	TradeTypeSell = "SELL"
	TradeTypeNT   = "NT"
)

// NTSymbol is the symbol recorded on No-Trade marker rows.
const NTSymbol = "NT"

// DefaultMarketType is applied when a trade or journal omits the market.
const DefaultMarketType = "FOREX"

// DateKey returns the calendar-date component of the trade date as
// YYYY-MM-DD. All date equality in the ledger is done on this string,
// never on timestamp ranges.
func (t *Trade) DateKey() string {
	return DateKey(t.TradeDate)
}

// DateKey formats a timestamp as its YYYY-MM-DD calendar date.
func DateKey(ts time.Time) string {
	return ts.Format("2006-01-02")
}

// IsNTMarker reports whether the trade is a No-Trade marker row.
func (t *Trade) IsNTMarker() bool {
	return t.TradeType == TradeTypeNT
}

// NewNTMarker builds the degenerate trade row declaring no trading
// occurred for (user, date, market). Numeric fields are zeroed.
func NewNTMarker(userID string, date time.Time, marketType string) *Trade {
	return &Trade{
		UserID:     userID,
		TradeDate:  date,
		Symbol:     NTSymbol,
		TradeType:  TradeTypeNT,
		LotSize:    decimal.Zero,
		EntryPrice: decimal.Zero,
		ProfitLoss: decimal.Zero,
		MarketType: marketType,
	}
}
