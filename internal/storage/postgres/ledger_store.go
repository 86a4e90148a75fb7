package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tradejournal/internal/domain"
	"tradejournal/internal/storage"
)

// LedgerStore implements storage.LedgerStore using PostgreSQL. All writes
// for one operation run inside a single transaction; the NT/Trade conflict
// check shares that transaction, and a partial unique index on
// (user_id, trade date, market_type) for NT rows backstops the race between
// concurrent writers.
type LedgerStore struct {
	pool *Pool
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool *Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LedgerStore = (*LedgerStore)(nil)

// SaveBatch persists one write batch atomically. On an NT/Trade conflict it
// returns *domain.ConflictError listing the offending dates and commits
// nothing.
func (s *LedgerStore) SaveBatch(ctx context.Context, userID string, batch *domain.WriteBatch) (*domain.SaveResult, error) {
	if userID == "" || batch == nil || len(batch.Journals) == 0 {
		return nil, storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	kind := batch.Kind()
	market := batch.MarketType()

	// Conflict guard, inside the same transaction as the writes. Both batch
	// kinds are rejected only against existing NT markers: a no-trade
	// declaration is never checked against prior ordinary trades.
	if dates := batch.ConflictDates(); len(dates) > 0 {
		conflicting, err := s.findNTDates(ctx, tx, userID, market, dates)
		if err != nil {
			return nil, fmt.Errorf("check nt conflicts: %w", err)
		}
		if len(conflicting) > 0 {
			return nil, &domain.ConflictError{MarketType: market, Dates: conflicting}
		}
	}

	result := &domain.SaveResult{}

	for _, j := range batch.Journals {
		saved, err := s.upsertJournal(ctx, tx, userID, j)
		if err != nil {
			return nil, fmt.Errorf("upsert journal %s: %w", j.DateKey(), err)
		}
		result.Journals = append(result.Journals, saved)
	}

	switch {
	case kind == domain.BatchKindTradeDay && len(batch.Trades) > 0:
		for _, t := range batch.Trades {
			saved, err := s.insertTrade(ctx, tx, userID, t)
			if err != nil {
				return nil, fmt.Errorf("insert trade %s/%s: %w", t.Symbol, t.DateKey(), err)
			}
			result.Trades = append(result.Trades, saved)
		}

	case kind == domain.BatchKindNoTradeDay:
		// One NT marker per journal date, zero-valued numeric fields.
		for _, j := range batch.Journals {
			marker := domain.NewNTMarker(userID, j.JournalDate, market)
			saved, err := s.insertTrade(ctx, tx, userID, marker)
			if err != nil {
				if isDuplicateKeyError(err) {
					// Unique-index backstop: a concurrent writer declared
					// NT on this date after our guard query ran.
					return nil, &domain.ConflictError{MarketType: market, Dates: []string{j.DateKey()}}
				}
				return nil, fmt.Errorf("insert nt marker %s: %w", j.DateKey(), err)
			}
			result.Trades = append(result.Trades, saved)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	result.JournalCount = len(result.Journals)
	result.TradeCount = len(result.Trades)
	return result, nil
}

// findNTDates returns, sorted, the subset of dates that already carry an NT
// marker for (user, market). Matching compares normalized YYYY-MM-DD strings
// so the time-of-day component and timezone representation cannot shift a
// row across a date boundary.
func (s *LedgerStore) findNTDates(ctx context.Context, tx pgx.Tx, userID, market string, dates []string) ([]string, error) {
	rows, err := tx.Query(ctx, `
		SELECT DISTINCT TO_CHAR(trade_date, 'YYYY-MM-DD') AS day
		FROM trade_orders
		WHERE user_id = $1
		  AND trade_type = 'NT'
		  AND UPPER(market_type) = UPPER($2)
		  AND TO_CHAR(trade_date, 'YYYY-MM-DD') = ANY($3)
		ORDER BY day ASC
	`, userID, market, dates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conflicting []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scan conflict date: %w", err)
		}
		conflicting = append(conflicting, day)
	}
	return conflicting, rows.Err()
}

// upsertJournal inserts a journal entry keyed by (user, date, market); on
// collision it overwrites the text and trade type and bumps updated_at.
func (s *LedgerStore) upsertJournal(ctx context.Context, tx pgx.Tx, userID string, j *domain.JournalEntry) (*domain.JournalEntry, error) {
	row := tx.QueryRow(ctx, `
		INSERT INTO journal_entries (user_id, journal_date, journal_text, trade_type, market_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, journal_date, UPPER(market_type)) DO UPDATE
		SET journal_text = EXCLUDED.journal_text,
		    trade_type = EXCLUDED.trade_type,
		    updated_at = NOW()
		RETURNING `+journalColumns,
		userID, j.JournalDate, j.JournalText, j.TradeType, j.MarketType)

	return scanJournal(row)
}

// insertTrade inserts one trade (ordinary or NT marker) and returns the
// written row.
func (s *LedgerStore) insertTrade(ctx context.Context, tx pgx.Tx, userID string, t *domain.Trade) (*domain.Trade, error) {
	row := tx.QueryRow(ctx, `
		INSERT INTO trade_orders (
			user_id, trade_date, symbol, trade_type,
			lot_size, entry_price, exit_price, profit_loss, market_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+tradeColumns,
		userID, t.TradeDate, t.Symbol, t.TradeType,
		t.LotSize.String(), t.EntryPrice.String(), nullableDecimal(t.ExitPrice),
		t.ProfitLoss.String(), t.MarketType)

	return scanTrade(row)
}

// DeleteNTUnit removes the NT trade row(s) and journal row(s) for one
// (user, date, market) in a single transaction. Zero deleted rows is a
// valid outcome.
func (s *LedgerStore) DeleteNTUnit(ctx context.Context, userID, dateKey, marketType string) (*domain.DeleteResult, error) {
	if userID == "" || dateKey == "" || marketType == "" {
		return nil, storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tradeTag, err := tx.Exec(ctx, `
		DELETE FROM trade_orders
		WHERE user_id = $1
		  AND trade_type = 'NT'
		  AND TO_CHAR(trade_date, 'YYYY-MM-DD') = $2
		  AND UPPER(market_type) = UPPER($3)
	`, userID, dateKey, marketType)
	if err != nil {
		return nil, fmt.Errorf("delete nt trades: %w", err)
	}

	journalTag, err := tx.Exec(ctx, `
		DELETE FROM journal_entries
		WHERE user_id = $1
		  AND TO_CHAR(journal_date, 'YYYY-MM-DD') = $2
		  AND UPPER(market_type) = UPPER($3)
	`, userID, dateKey, marketType)
	if err != nil {
		return nil, fmt.Errorf("delete nt journals: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &domain.DeleteResult{
		JournalsDeleted: int(journalTag.RowsAffected()),
		TradesDeleted:   int(tradeTag.RowsAffected()),
	}, nil
}

// DeleteTrade removes one trade by id and owner. Returns ErrNotFound when
// the row does not exist or belongs to another user.
func (s *LedgerStore) DeleteTrade(ctx context.Context, userID string, tradeID int64) (*domain.Trade, error) {
	if userID == "" {
		return nil, storage.ErrInvalidInput
	}

	row := s.pool.QueryRow(ctx, `
		DELETE FROM trade_orders
		WHERE id = $1 AND user_id = $2
		RETURNING `+tradeColumns,
		tradeID, userID)

	t, err := scanTrade(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("delete trade: %w", err)
	}
	return t, nil
}

// UpdateTrade rewrites all fields of one trade by id and owner.
func (s *LedgerStore) UpdateTrade(ctx context.Context, userID string, t *domain.Trade) (*domain.Trade, error) {
	if userID == "" || t == nil {
		return nil, storage.ErrInvalidInput
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE trade_orders
		SET trade_date = $3,
		    symbol = $4,
		    trade_type = $5,
		    lot_size = $6,
		    entry_price = $7,
		    exit_price = $8,
		    profit_loss = $9,
		    market_type = $10,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+tradeColumns,
		t.ID, userID, t.TradeDate, t.Symbol, t.TradeType,
		t.LotSize.String(), t.EntryPrice.String(), nullableDecimal(t.ExitPrice),
		t.ProfitLoss.String(), t.MarketType)

	updated, err := scanTrade(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("update trade: %w", err)
	}
	return updated, nil
}
