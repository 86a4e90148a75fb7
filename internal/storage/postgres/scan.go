package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"tradejournal/internal/domain"
)

// tradeColumns selects all trade_orders fields. Numeric columns are cast to
// text so they round-trip through shopspring/decimal without binary float
// conversion.
const tradeColumns = `
	id, user_id, trade_date, symbol, trade_type,
	lot_size::text, entry_price::text, exit_price::text, profit_loss::text,
	market_type, created_at, updated_at
`

// journalColumns selects all journal_entries fields.
const journalColumns = `
	id, user_id, journal_date, journal_text, trade_type, market_type,
	created_at, updated_at
`

// scanTrade scans a single row selected with tradeColumns.
func scanTrade(row pgx.Row) (*domain.Trade, error) {
	var (
		t       domain.Trade
		lotSize string
		entry   string
		exit    *string
		profit  string
	)

	err := row.Scan(
		&t.ID, &t.UserID, &t.TradeDate, &t.Symbol, &t.TradeType,
		&lotSize, &entry, &exit, &profit,
		&t.MarketType, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if t.LotSize, err = decimal.NewFromString(lotSize); err != nil {
		return nil, fmt.Errorf("parse lot_size %q: %w", lotSize, err)
	}
	if t.EntryPrice, err = decimal.NewFromString(entry); err != nil {
		return nil, fmt.Errorf("parse entry_price %q: %w", entry, err)
	}
	if exit != nil {
		price, err := decimal.NewFromString(*exit)
		if err != nil {
			return nil, fmt.Errorf("parse exit_price %q: %w", *exit, err)
		}
		t.ExitPrice = &price
	}
	if t.ProfitLoss, err = decimal.NewFromString(profit); err != nil {
		return nil, fmt.Errorf("parse profit_loss %q: %w", profit, err)
	}

	return &t, nil
}

// scanTrades scans multiple rows selected with tradeColumns.
func scanTrades(rows pgx.Rows) ([]*domain.Trade, error) {
	var trades []*domain.Trade

	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}

// scanJournal scans a single row selected with journalColumns.
func scanJournal(row pgx.Row) (*domain.JournalEntry, error) {
	var j domain.JournalEntry

	err := row.Scan(
		&j.ID, &j.UserID, &j.JournalDate, &j.JournalText, &j.TradeType,
		&j.MarketType, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &j, nil
}

// nullableDecimal renders an optional decimal as a driver-friendly value.
func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
