package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"tradejournal/internal/domain"
)

// setupTestDB creates a PostgreSQL container for testing and applies the
// schema. Returns a cleanup function that must be called after tests
// complete.
func setupTestDB(t *testing.T) (*Pool, func()) {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := NewPool(ctx, dsn, "")
	require.NoError(t, err, "failed to create pool")

	applySchema(t, ctx, pool)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

// applySchema creates the ledger tables. The DDL mirrors the embedded
// migrations; it lives here so the store tests stay independent of the
// migrations package.
func applySchema(t *testing.T, ctx context.Context, pool *Pool) {
	t.Helper()

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS trade_orders (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			trade_date TIMESTAMP NOT NULL,
			symbol TEXT NOT NULL,
			trade_type TEXT NOT NULL DEFAULT 'BUY',
			lot_size NUMERIC(18, 4) NOT NULL DEFAULT 1 CHECK (lot_size >= 0),
			entry_price NUMERIC(18, 8) NOT NULL DEFAULT 0,
			exit_price NUMERIC(18, 8),
			profit_loss NUMERIC(18, 2) NOT NULL DEFAULT 0,
			market_type TEXT NOT NULL DEFAULT 'FOREX',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS uq_trade_orders_nt_day
			ON trade_orders (user_id, (trade_date::date), UPPER(market_type))
			WHERE trade_type = 'NT';

		CREATE TABLE IF NOT EXISTS journal_entries (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			journal_date DATE NOT NULL,
			journal_text TEXT NOT NULL,
			trade_type TEXT NOT NULL DEFAULT 'TRADE',
			market_type TEXT NOT NULL DEFAULT 'FOREX',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS uq_journal_user_date_market
			ON journal_entries (user_id, journal_date, UPPER(market_type));
	`)
	require.NoError(t, err, "failed to apply schema")
}

func testDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 14, 30, 0, 0, time.UTC)
}

func testJournal(date time.Time, text, tradeType string) *domain.JournalEntry {
	return &domain.JournalEntry{
		JournalDate: date,
		JournalText: text,
		TradeType:   tradeType,
		MarketType:  "FOREX",
	}
}

func testTrade(date time.Time, symbol, pl string) *domain.Trade {
	return &domain.Trade{
		TradeDate:  date,
		Symbol:     symbol,
		TradeType:  domain.TradeTypeBuy,
		LotSize:    decimal.NewFromInt(1),
		EntryPrice: decimal.RequireFromString("1.0850"),
		ProfitLoss: decimal.RequireFromString(pl),
		MarketType: "FOREX",
	}
}

func tradeDayBatch(date time.Time, trades ...*domain.Trade) *domain.WriteBatch {
	return &domain.WriteBatch{
		Journals: []*domain.JournalEntry{testJournal(date, "session notes", domain.JournalTypeTrade)},
		Trades:   trades,
	}
}

func noTradeDayBatch(dates ...time.Time) *domain.WriteBatch {
	batch := &domain.WriteBatch{}
	for _, d := range dates {
		batch.Journals = append(batch.Journals, testJournal(d, "no setups worth taking", domain.JournalTypeNT))
	}
	return batch
}

// countRows counts rows in a table for one user.
func countRows(t *testing.T, ctx context.Context, pool *Pool, table, userID string) int {
	t.Helper()

	var count int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table+" WHERE user_id = $1", userID).Scan(&count)
	require.NoError(t, err)
	return count
}
