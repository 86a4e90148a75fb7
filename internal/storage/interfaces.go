package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"tradejournal/internal/domain"
)

// LedgerStore is the transactional write path over trade_orders and
// journal_entries. Every operation scopes its queries by the owning user.
type LedgerStore interface {
	// SaveBatch persists one write batch atomically: journal upserts, then
	// either the ordinary trade rows (trade-day) or one NT marker per
	// journal date (no-trade-day). The NT/Trade conflict check runs inside
	// the same transaction as the writes; on violation it returns a
	// *domain.ConflictError and nothing is committed.
	SaveBatch(ctx context.Context, userID string, batch *domain.WriteBatch) (*domain.SaveResult, error)

	// DeleteNTUnit removes the NT marker row(s) and journal row(s) for one
	// (user, date, market) in a single transaction. dateKey is a YYYY-MM-DD
	// calendar date; matching compares normalized date strings only. Zero
	// deleted rows is a success.
	DeleteNTUnit(ctx context.Context, userID, dateKey, marketType string) (*domain.DeleteResult, error)

	// DeleteTrade removes one trade by id and owner. Returns ErrNotFound
	// when the row does not exist or belongs to another user.
	DeleteTrade(ctx context.Context, userID string, tradeID int64) (*domain.Trade, error)

	// UpdateTrade rewrites all fields of one trade by id and owner.
	// Returns ErrNotFound when the row does not exist or belongs to
	// another user.
	UpdateTrade(ctx context.Context, userID string, t *domain.Trade) (*domain.Trade, error)
}

// AnalyticsStore is the read-only query surface the aggregator projects
// over. It never mutates state.
type AnalyticsStore interface {
	// CountTrades returns the total number of trades for a user.
	CountTrades(ctx context.Context, userID string) (int, error)

	// SumProfitLoss returns the signed total profit/loss for a user.
	SumProfitLoss(ctx context.Context, userID string) (decimal.Decimal, error)

	// CountWinning returns the number of trades with profit_loss > 0.
	CountWinning(ctx context.Context, userID string) (int, error)

	// CountLosing returns the number of trades with profit_loss < 0.
	CountLosing(ctx context.Context, userID string) (int, error)

	// MarketBreakdown groups trade count and total profit by market type.
	MarketBreakdown(ctx context.Context, userID string) ([]domain.MarketBreakdown, error)

	// RecentTrades returns the most recent trades ordered by
	// (trade_date DESC, created_at DESC).
	RecentTrades(ctx context.Context, userID string, limit int) ([]*domain.Trade, error)

	// ListTrades returns one page of trades matching the filter, ordered by
	// (trade_date DESC, created_at DESC).
	ListTrades(ctx context.Context, userID string, f domain.TradeFilter) ([]*domain.Trade, error)

	// CountFiltered returns the total row count for the same filter,
	// ignoring Limit and Offset.
	CountFiltered(ctx context.Context, userID string, f domain.TradeFilter) (int, error)

	// PeriodBuckets groups trades into truncated time buckets over a
	// lookback window, ordered by bucket start ascending. trunc is the
	// DATE_TRUNC unit (day, week, month) and format the TO_CHAR label
	// pattern. market optionally restricts to one market type.
	PeriodBuckets(ctx context.Context, userID, trunc, format string, daysBack int, market string) ([]domain.PeriodBucket, error)

	// StatsSince aggregates the window trade_date >= today - daysBack.
	StatsSince(ctx context.Context, userID string, daysBack int) (domain.RawWindowStats, error)

	// StatsCurrentMonth aggregates the current calendar month.
	StatsCurrentMonth(ctx context.Context, userID string) (domain.RawWindowStats, error)

	// StatsAllTime aggregates the user's full ledger.
	StatsAllTime(ctx context.Context, userID string) (domain.RawWindowStats, error)

	// DailyPerformance returns per-day buckets, optionally restricted to
	// one year+month (zero values mean no restriction), newest day first.
	DailyPerformance(ctx context.Context, userID string, year, month int) ([]domain.DailyPerformance, error)
}
