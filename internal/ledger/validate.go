// Package ledger implements the trade-ledger write path: batch validation,
// No-Trade/Trade-day conflict enforcement, and atomic batch persistence.
package ledger

import (
	"strings"
	"time"

	"tradejournal/internal/domain"
)

// ValidateBatch checks one write batch before any store access. It returns
// a *domain.ValidationError naming the offending field, or nil.
func ValidateBatch(batch *domain.WriteBatch) error {
	if batch == nil || len(batch.Journals) == 0 {
		return domain.NewValidationError("journals", "at least one journal entry is required")
	}

	for _, j := range batch.Journals {
		if j == nil {
			return domain.NewValidationError("journals", "entry must not be null")
		}
		if strings.TrimSpace(j.JournalText) == "" {
			return domain.NewValidationError("journal_text", "must not be blank")
		}
		if j.JournalDate.IsZero() {
			return domain.NewValidationError("journal_date", "is required")
		}
		if j.TradeType != "" && j.TradeType != domain.JournalTypeTrade && j.TradeType != domain.JournalTypeNT {
			return domain.NewValidationError("trade_type", "must be TRADE or NT")
		}
	}

	for _, t := range batch.Trades {
		if t == nil {
			return domain.NewValidationError("trades", "entry must not be null")
		}
		if strings.TrimSpace(t.Symbol) == "" {
			return domain.NewValidationError("symbol", "must not be blank")
		}
		if t.TradeType == domain.TradeTypeNT {
			// The NT sentinel is written by the ledger itself, never
			// accepted from a caller's trade row.
			return domain.NewValidationError("trade_type", "NT is reserved for no-trade markers")
		}
		if t.LotSize.IsNegative() {
			return domain.NewValidationError("lot_size", "must not be negative")
		}
	}

	return nil
}

// ValidateTrade checks one standalone trade for the edit operation.
func ValidateTrade(t *domain.Trade) error {
	if t == nil {
		return domain.NewValidationError("trade", "is required")
	}
	if strings.TrimSpace(t.Symbol) == "" {
		return domain.NewValidationError("symbol", "must not be blank")
	}
	if t.TradeType == domain.TradeTypeNT {
		return domain.NewValidationError("trade_type", "NT is reserved for no-trade markers")
	}
	if t.LotSize.IsNegative() {
		return domain.NewValidationError("lot_size", "must not be negative")
	}
	if t.TradeDate.IsZero() {
		return domain.NewValidationError("trade_date", "is required")
	}
	return nil
}

// ApplyDefaults fills absent fields in place, mirroring the write input
// shape's fallbacks: journals default to TRADE on FOREX; trades default to
// BUY, lot size 1, market FOREX, and trade_date now.
func ApplyDefaults(batch *domain.WriteBatch, now time.Time) {
	for _, j := range batch.Journals {
		if j.TradeType == "" {
			j.TradeType = domain.JournalTypeTrade
		}
		if j.MarketType == "" {
			j.MarketType = domain.DefaultMarketType
		}
	}

	for _, t := range batch.Trades {
		if t.TradeType == "" {
			t.TradeType = domain.TradeTypeBuy
		}
		if t.LotSize.IsZero() {
			t.LotSize = decimalOne
		}
		if t.MarketType == "" {
			t.MarketType = domain.DefaultMarketType
		}
		if t.TradeDate.IsZero() {
			t.TradeDate = now
		}
	}
}
