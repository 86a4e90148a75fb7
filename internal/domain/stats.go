package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bucketing periods for the profit-over-time series.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Named relative windows computed from the current date at request time.
const (
	WindowAll         = "all"
	WindowToday       = "today"
	WindowLastWeek    = "last_week"
	WindowLastMonth   = "last_month"
	WindowLast3Months = "last_3months"
	WindowLast6Months = "last_6months"
)

// DashboardStats is the headline summary for a user's ledger.
type DashboardStats struct {
	TotalTrades    int               `json:"total_trades"`
	ProfitLoss     decimal.Decimal   `json:"profit_loss"`
	WinningTrades  int               `json:"winning_trades"`
	LosingTrades   int               `json:"losing_trades"`
	WinRate        float64           `json:"win_rate"` // percent, 2 decimals, 0 when no trades
	TradesByMarket []MarketBreakdown `json:"trades_by_market"`
}

// MarketBreakdown groups trade count and profit by market type.
type MarketBreakdown struct {
	MarketType  string          `json:"market_type"`
	TradeCount  int             `json:"trade_count"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// DashboardSummary pairs the stats with the most recent trades.
type DashboardSummary struct {
	Stats        *DashboardStats `json:"stats"`
	RecentTrades []*Trade        `json:"recent_trades"`
}

// TradeFilter narrows a trade listing. Market and TradeType match
// case-insensitively; StartDate and EndDate are YYYY-MM-DD calendar dates,
// empty meaning unbounded.
type TradeFilter struct {
	Market    string
	TradeType string
	StartDate string
	EndDate   string
	Limit     int
	Offset    int
}

// TradePage is one page of a filtered listing.
type TradePage struct {
	Trades  []*Trade `json:"trades"`
	Total   int      `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
	HasMore bool     `json:"has_more"`
}

// PeriodBucket is one raw time-bucketed aggregation row as read from the
// store, before enrichment.
type PeriodBucket struct {
	Period      string          // formatted label, e.g. 2024-01-05 or 2024-W02
	PeriodDate  time.Time       // truncated bucket start, ascending order key
	TradeCount  int
	TotalProfit decimal.Decimal
	Wins        int
	Losses      int
	AvgProfit   decimal.Decimal
}

// ProfitPoint is one enriched bucket of the profit-over-time series.
// Monetary values are fixed-point strings with 2 decimal places; the
// cumulative profit is an application-layer fold over buckets in ascending
// chronological order, recomputed on every request.
type ProfitPoint struct {
	Period           string    `json:"period"`
	Date             time.Time `json:"date"`
	TradeCount       int       `json:"trade_count"`
	TotalProfit      string    `json:"total_profit"`
	GrossProfit      string    `json:"gross_profit"`
	WinningTrades    int       `json:"winning_trades"`
	LosingTrades     int       `json:"losing_trades"`
	AvgProfit        string    `json:"avg_profit"`
	CumulativeProfit string    `json:"cumulative_profit"`
	WinRate          float64   `json:"win_rate"`
}

// RawWindowStats is one comparison window as read from the store.
type RawWindowStats struct {
	TradeCount  int
	TotalProfit decimal.Decimal
	Wins        int
}

// WindowStats is one formatted comparison window. Zero-trade windows yield
// all zeroes rather than a division error.
type WindowStats struct {
	TradeCount    int     `json:"trade_count"`
	TotalProfit   string  `json:"total_profit"`
	WinningTrades int     `json:"winning_trades"`
	WinRate       float64 `json:"win_rate"`
}

// Comparison holds the four fixed windows, computed independently.
type Comparison struct {
	Last7Days  WindowStats `json:"last_7_days"`
	Last30Days WindowStats `json:"last_30_days"`
	ThisMonth  WindowStats `json:"this_month"`
	AllTime    WindowStats `json:"all_time"`
}

// DailyPerformance is one day of the monthly performance summary.
type DailyPerformance struct {
	Day         time.Time       `json:"day"`
	TradeCount  int             `json:"trade_count"`
	DailyProfit decimal.Decimal `json:"daily_profit"`
	Wins        int             `json:"wins"`
	Losses      int             `json:"losses"`
}
