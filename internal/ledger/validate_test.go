package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/domain"
)

func journalEntry(text string) *domain.JournalEntry {
	return &domain.JournalEntry{
		JournalDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		JournalText: text,
		TradeType:   domain.JournalTypeTrade,
		MarketType:  "FOREX",
	}
}

func TestValidateBatch(t *testing.T) {
	cases := []struct {
		name      string
		batch     *domain.WriteBatch
		wantField string
	}{
		{
			name:      "nil batch",
			batch:     nil,
			wantField: "journals",
		},
		{
			name:      "no journals",
			batch:     &domain.WriteBatch{},
			wantField: "journals",
		},
		{
			name: "blank journal text",
			batch: &domain.WriteBatch{
				Journals: []*domain.JournalEntry{journalEntry("   ")},
			},
			wantField: "journal_text",
		},
		{
			name: "missing journal date",
			batch: &domain.WriteBatch{
				Journals: []*domain.JournalEntry{{JournalText: "good session"}},
			},
			wantField: "journal_date",
		},
		{
			name: "unknown journal trade type",
			batch: &domain.WriteBatch{
				Journals: []*domain.JournalEntry{{
					JournalDate: time.Now(),
					JournalText: "good session",
					TradeType:   "MAYBE",
				}},
			},
			wantField: "trade_type",
		},
		{
			name: "blank trade symbol",
			batch: &domain.WriteBatch{
				Journals: []*domain.JournalEntry{journalEntry("good session")},
				Trades:   []*domain.Trade{{Symbol: ""}},
			},
			wantField: "symbol",
		},
		{
			name: "nt reserved on trade rows",
			batch: &domain.WriteBatch{
				Journals: []*domain.JournalEntry{journalEntry("good session")},
				Trades:   []*domain.Trade{{Symbol: "EURUSD", TradeType: domain.TradeTypeNT}},
			},
			wantField: "trade_type",
		},
		{
			name: "negative lot size",
			batch: &domain.WriteBatch{
				Journals: []*domain.JournalEntry{journalEntry("good session")},
				Trades: []*domain.Trade{{
					Symbol:  "EURUSD",
					LotSize: decimal.NewFromInt(-1),
				}},
			},
			wantField: "lot_size",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBatch(tc.batch)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			validation, ok := err.(*domain.ValidationError)
			if !ok {
				t.Fatalf("expected *domain.ValidationError, got %T", err)
			}
			if validation.Field != tc.wantField {
				t.Errorf("field = %q, want %q", validation.Field, tc.wantField)
			}
		})
	}
}

func TestValidateBatch_Valid(t *testing.T) {
	batch := &domain.WriteBatch{
		Journals: []*domain.JournalEntry{journalEntry("clean breakout, took the long")},
		Trades: []*domain.Trade{{
			Symbol:    "EURUSD",
			TradeType: domain.TradeTypeBuy,
			LotSize:   decimal.NewFromFloat(0.5),
		}},
	}

	if err := ValidateBatch(batch); err != nil {
		t.Errorf("expected valid batch, got %v", err)
	}
}

func TestValidateBatch_EmptyTradeTypeAccepted(t *testing.T) {
	// Absent trade_type is filled by ApplyDefaults, not rejected.
	batch := &domain.WriteBatch{
		Journals: []*domain.JournalEntry{{
			JournalDate: time.Now(),
			JournalText: "no setups today",
		}},
	}

	if err := ValidateBatch(batch); err != nil {
		t.Errorf("expected valid batch, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	batch := &domain.WriteBatch{
		Journals: []*domain.JournalEntry{{
			JournalDate: now,
			JournalText: "quiet day",
		}},
		Trades: []*domain.Trade{{Symbol: "EURUSD"}},
	}

	ApplyDefaults(batch, now)

	j := batch.Journals[0]
	if j.TradeType != domain.JournalTypeTrade {
		t.Errorf("journal trade type = %q, want %q", j.TradeType, domain.JournalTypeTrade)
	}
	if j.MarketType != domain.DefaultMarketType {
		t.Errorf("journal market = %q, want %q", j.MarketType, domain.DefaultMarketType)
	}

	tr := batch.Trades[0]
	if tr.TradeType != domain.TradeTypeBuy {
		t.Errorf("trade type = %q, want %q", tr.TradeType, domain.TradeTypeBuy)
	}
	if !tr.LotSize.Equal(decimal.NewFromInt(1)) {
		t.Errorf("lot size = %s, want 1", tr.LotSize)
	}
	if tr.MarketType != domain.DefaultMarketType {
		t.Errorf("trade market = %q, want %q", tr.MarketType, domain.DefaultMarketType)
	}
	if !tr.TradeDate.Equal(now) {
		t.Errorf("trade date = %v, want %v", tr.TradeDate, now)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	now := time.Now()
	explicit := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	batch := &domain.WriteBatch{
		Journals: []*domain.JournalEntry{{
			JournalDate: explicit,
			JournalText: "no trades",
			TradeType:   domain.JournalTypeNT,
			MarketType:  "CRYPTO",
		}},
		Trades: []*domain.Trade{{
			Symbol:     "BTCUSD",
			TradeType:  domain.TradeTypeSell,
			LotSize:    decimal.NewFromFloat(0.25),
			MarketType: "CRYPTO",
			TradeDate:  explicit,
		}},
	}

	ApplyDefaults(batch, now)

	if batch.Journals[0].TradeType != domain.JournalTypeNT {
		t.Errorf("journal trade type overwritten: %q", batch.Journals[0].TradeType)
	}
	if batch.Trades[0].TradeType != domain.TradeTypeSell {
		t.Errorf("trade type overwritten: %q", batch.Trades[0].TradeType)
	}
	if !batch.Trades[0].LotSize.Equal(decimal.NewFromFloat(0.25)) {
		t.Errorf("lot size overwritten: %s", batch.Trades[0].LotSize)
	}
	if !batch.Trades[0].TradeDate.Equal(explicit) {
		t.Errorf("trade date overwritten: %v", batch.Trades[0].TradeDate)
	}
}

func TestValidateTrade(t *testing.T) {
	valid := &domain.Trade{
		Symbol:    "EURUSD",
		TradeType: domain.TradeTypeBuy,
		LotSize:   decimal.NewFromInt(1),
		TradeDate: time.Now(),
	}
	if err := ValidateTrade(valid); err != nil {
		t.Errorf("expected valid trade, got %v", err)
	}

	nt := *valid
	nt.TradeType = domain.TradeTypeNT
	if err := ValidateTrade(&nt); err == nil {
		t.Error("expected NT trade type to be rejected")
	}

	undated := *valid
	undated.TradeDate = time.Time{}
	if err := ValidateTrade(&undated); err == nil {
		t.Error("expected zero trade date to be rejected")
	}
}
