package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tradejournal/internal/domain"
	"tradejournal/internal/storage"
)

// AnalyticsStore implements storage.AnalyticsStore using PostgreSQL. It is
// read-only: every method is an independent query scoped by user_id.
type AnalyticsStore struct {
	pool *Pool
}

// NewAnalyticsStore creates a new AnalyticsStore.
func NewAnalyticsStore(pool *Pool) *AnalyticsStore {
	return &AnalyticsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AnalyticsStore = (*AnalyticsStore)(nil)

// CountTrades returns the total number of trades for a user.
func (s *AnalyticsStore) CountTrades(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM trade_orders WHERE user_id = $1
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	return count, nil
}

// SumProfitLoss returns the signed total profit/loss for a user.
func (s *AnalyticsStore) SumProfitLoss(ctx context.Context, userID string) (decimal.Decimal, error) {
	var total string
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(profit_loss), 0)::text FROM trade_orders WHERE user_id = $1
	`, userID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum profit_loss: %w", err)
	}
	return parseDecimal(total)
}

// CountWinning returns the number of trades with profit_loss > 0.
func (s *AnalyticsStore) CountWinning(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM trade_orders WHERE user_id = $1 AND profit_loss > 0
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count winning trades: %w", err)
	}
	return count, nil
}

// CountLosing returns the number of trades with profit_loss < 0.
func (s *AnalyticsStore) CountLosing(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM trade_orders WHERE user_id = $1 AND profit_loss < 0
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count losing trades: %w", err)
	}
	return count, nil
}

// MarketBreakdown groups trade count and total profit by market type.
func (s *AnalyticsStore) MarketBreakdown(ctx context.Context, userID string) ([]domain.MarketBreakdown, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT market_type, COUNT(*), COALESCE(SUM(profit_loss), 0)::text
		FROM trade_orders
		WHERE user_id = $1
		GROUP BY market_type
		ORDER BY market_type ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("market breakdown: %w", err)
	}
	defer rows.Close()

	var breakdown []domain.MarketBreakdown
	for rows.Next() {
		var (
			b     domain.MarketBreakdown
			total string
		)
		if err := rows.Scan(&b.MarketType, &b.TradeCount, &total); err != nil {
			return nil, fmt.Errorf("scan market breakdown row: %w", err)
		}
		if b.TotalProfit, err = parseDecimal(total); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, b)
	}
	return breakdown, rows.Err()
}

// RecentTrades returns the most recent trades ordered by
// (trade_date DESC, created_at DESC).
func (s *AnalyticsStore) RecentTrades(ctx context.Context, userID string, limit int) ([]*domain.Trade, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM trade_orders
		WHERE user_id = $1
		ORDER BY trade_date DESC, created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent trades: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// filterClauses appends the WHERE conditions for a trade filter, returning
// the updated params. Market and trade type match case-insensitively; date
// bounds compare calendar dates only.
func filterClauses(sb *strings.Builder, params []any, f domain.TradeFilter) []any {
	if f.Market != "" {
		params = append(params, f.Market)
		fmt.Fprintf(sb, " AND UPPER(market_type) = UPPER($%d)", len(params))
	}
	if f.TradeType != "" {
		params = append(params, f.TradeType)
		fmt.Fprintf(sb, " AND UPPER(trade_type) = UPPER($%d)", len(params))
	}
	if f.StartDate != "" {
		params = append(params, f.StartDate)
		fmt.Fprintf(sb, " AND trade_date::date >= $%d::date", len(params))
	}
	if f.EndDate != "" {
		params = append(params, f.EndDate)
		fmt.Fprintf(sb, " AND trade_date::date <= $%d::date", len(params))
	}
	return params
}

// ListTrades returns one page of trades matching the filter.
func (s *AnalyticsStore) ListTrades(ctx context.Context, userID string, f domain.TradeFilter) ([]*domain.Trade, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + tradeColumns + ` FROM trade_orders WHERE user_id = $1`)
	params := filterClauses(&sb, []any{userID}, f)

	sb.WriteString(" ORDER BY trade_date DESC, created_at DESC")
	params = append(params, f.Limit)
	sb.WriteString(" LIMIT $" + strconv.Itoa(len(params)))
	params = append(params, f.Offset)
	sb.WriteString(" OFFSET $" + strconv.Itoa(len(params)))

	rows, err := s.pool.Query(ctx, sb.String(), params...)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// CountFiltered returns the total row count for the same filter, ignoring
// Limit and Offset.
func (s *AnalyticsStore) CountFiltered(ctx context.Context, userID string, f domain.TradeFilter) (int, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT COUNT(*) FROM trade_orders WHERE user_id = $1`)
	params := filterClauses(&sb, []any{userID}, f)

	var count int
	if err := s.pool.QueryRow(ctx, sb.String(), params...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count filtered trades: %w", err)
	}
	return count, nil
}

// periodTruncs whitelists DATE_TRUNC units; the unit and label format are
// interpolated into the query because they cannot be bind parameters inside
// an interval expression.
var periodTruncs = map[string]bool{"day": true, "week": true, "month": true}

// PeriodBuckets groups trades into truncated time buckets over a lookback
// window, ordered by bucket start ascending.
func (s *AnalyticsStore) PeriodBuckets(ctx context.Context, userID, trunc, format string, daysBack int, market string) ([]domain.PeriodBucket, error) {
	if !periodTruncs[trunc] {
		return nil, fmt.Errorf("%w: unknown period unit %q", storage.ErrInvalidInput, trunc)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `
		SELECT
			TO_CHAR(DATE_TRUNC('%[1]s', trade_date), $2) AS period,
			DATE_TRUNC('%[1]s', trade_date) AS period_date,
			COUNT(*) AS trade_count,
			COALESCE(SUM(profit_loss), 0)::text AS total_profit,
			SUM(CASE WHEN profit_loss > 0 THEN 1 ELSE 0 END) AS wins,
			SUM(CASE WHEN profit_loss < 0 THEN 1 ELSE 0 END) AS losses,
			COALESCE(AVG(profit_loss), 0)::text AS avg_profit
		FROM trade_orders
		WHERE user_id = $1
		  AND trade_date >= CURRENT_DATE - INTERVAL '%[2]d days'
	`, trunc, daysBack)

	params := []any{userID, format}
	if market != "" {
		params = append(params, market)
		fmt.Fprintf(&sb, " AND UPPER(market_type) = UPPER($%d)", len(params))
	}
	sb.WriteString(" GROUP BY period, period_date ORDER BY period_date ASC")

	rows, err := s.pool.Query(ctx, sb.String(), params...)
	if err != nil {
		return nil, fmt.Errorf("period buckets: %w", err)
	}
	defer rows.Close()

	var buckets []domain.PeriodBucket
	for rows.Next() {
		var (
			b          domain.PeriodBucket
			total, avg string
		)
		err := rows.Scan(&b.Period, &b.PeriodDate, &b.TradeCount, &total, &b.Wins, &b.Losses, &avg)
		if err != nil {
			return nil, fmt.Errorf("scan period bucket row: %w", err)
		}
		if b.TotalProfit, err = parseDecimal(total); err != nil {
			return nil, err
		}
		if b.AvgProfit, err = parseDecimal(avg); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// StatsSince aggregates the window trade_date >= today - daysBack.
func (s *AnalyticsStore) StatsSince(ctx context.Context, userID string, daysBack int) (domain.RawWindowStats, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*), COALESCE(SUM(profit_loss), 0)::text,
		       SUM(CASE WHEN profit_loss > 0 THEN 1 ELSE 0 END)
		FROM trade_orders
		WHERE user_id = $1
		  AND trade_date >= CURRENT_DATE - INTERVAL '%d days'
	`, daysBack)

	return s.scanWindow(ctx, query, userID)
}

// StatsCurrentMonth aggregates the current calendar month.
func (s *AnalyticsStore) StatsCurrentMonth(ctx context.Context, userID string) (domain.RawWindowStats, error) {
	return s.scanWindow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(profit_loss), 0)::text,
		       SUM(CASE WHEN profit_loss > 0 THEN 1 ELSE 0 END)
		FROM trade_orders
		WHERE user_id = $1
		  AND EXTRACT(YEAR FROM trade_date) = EXTRACT(YEAR FROM CURRENT_DATE)
		  AND EXTRACT(MONTH FROM trade_date) = EXTRACT(MONTH FROM CURRENT_DATE)
	`, userID)
}

// StatsAllTime aggregates the user's full ledger.
func (s *AnalyticsStore) StatsAllTime(ctx context.Context, userID string) (domain.RawWindowStats, error) {
	return s.scanWindow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(profit_loss), 0)::text,
		       SUM(CASE WHEN profit_loss > 0 THEN 1 ELSE 0 END)
		FROM trade_orders
		WHERE user_id = $1
	`, userID)
}

// scanWindow runs one comparison-window query. SUM over zero rows yields
// NULL for wins, so the scan goes through a nullable intermediate.
func (s *AnalyticsStore) scanWindow(ctx context.Context, query, userID string) (domain.RawWindowStats, error) {
	var (
		w     domain.RawWindowStats
		total string
		wins  *int
	)
	err := s.pool.QueryRow(ctx, query, userID).Scan(&w.TradeCount, &total, &wins)
	if err != nil {
		return domain.RawWindowStats{}, fmt.Errorf("window stats: %w", err)
	}
	if w.TotalProfit, err = parseDecimal(total); err != nil {
		return domain.RawWindowStats{}, err
	}
	if wins != nil {
		w.Wins = *wins
	}
	return w, nil
}

// DailyPerformance returns per-day buckets, optionally restricted to one
// year+month, newest day first.
func (s *AnalyticsStore) DailyPerformance(ctx context.Context, userID string, year, month int) ([]domain.DailyPerformance, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT
			DATE_TRUNC('day', trade_date) AS day,
			COUNT(*) AS trade_count,
			COALESCE(SUM(profit_loss), 0)::text AS daily_profit,
			SUM(CASE WHEN profit_loss > 0 THEN 1 ELSE 0 END) AS wins,
			SUM(CASE WHEN profit_loss < 0 THEN 1 ELSE 0 END) AS losses
		FROM trade_orders
		WHERE user_id = $1
	`)

	params := []any{userID}
	if year != 0 && month != 0 {
		params = append(params, year)
		fmt.Fprintf(&sb, " AND EXTRACT(YEAR FROM trade_date) = $%d", len(params))
		params = append(params, month)
		fmt.Fprintf(&sb, " AND EXTRACT(MONTH FROM trade_date) = $%d", len(params))
	}
	sb.WriteString(" GROUP BY day ORDER BY day DESC")

	rows, err := s.pool.Query(ctx, sb.String(), params...)
	if err != nil {
		return nil, fmt.Errorf("daily performance: %w", err)
	}
	defer rows.Close()

	var days []domain.DailyPerformance
	for rows.Next() {
		var (
			d     domain.DailyPerformance
			total string
		)
		if err := rows.Scan(&d.Day, &d.TradeCount, &total, &d.Wins, &d.Losses); err != nil {
			return nil, fmt.Errorf("scan daily performance row: %w", err)
		}
		if d.DailyProfit, err = parseDecimal(total); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// parseDecimal converts a numeric column rendered as text.
func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse numeric %q: %w", s, err)
	}
	return d, nil
}
