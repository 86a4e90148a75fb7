package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"tradejournal/internal/domain"
	"tradejournal/internal/observability"
	"tradejournal/internal/storage"
)

var decimalOne = decimal.NewFromInt(1)

// Service is the Ledger Writer: it validates a write batch, applies input
// defaults, and delegates the transactional guard+write to the store. It
// holds no state between requests.
type Service struct {
	store   storage.LedgerStore
	logger  zerolog.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewService creates a ledger service. metrics may be nil.
func NewService(store storage.LedgerStore, logger zerolog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		store:   store,
		logger:  logger.With().Str("component", "ledger").Logger(),
		metrics: metrics,
		now:     time.Now,
	}
}

// SaveBatch persists one write batch atomically. Errors are typed:
// *domain.ValidationError (nothing attempted), *domain.ConflictError
// (nothing written), or a wrapped store error (transaction rolled back).
func (s *Service) SaveBatch(ctx context.Context, userID string, batch *domain.WriteBatch) (*domain.SaveResult, error) {
	start := s.now()

	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	if err := ValidateBatch(batch); err != nil {
		if s.metrics != nil {
			s.metrics.ValidationFailures.Inc()
		}
		return nil, err
	}

	ApplyDefaults(batch, s.now())
	batchID := uuid.NewString()
	kind := batch.Kind()

	result, err := s.store.SaveBatch(ctx, userID, batch)
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			if s.metrics != nil {
				s.metrics.BatchConflicts.Inc()
			}
			s.logger.Warn().
				Str("user_id", userID).
				Str("batch_id", batchID).
				Str("market_type", conflict.MarketType).
				Strs("dates", conflict.Dates).
				Msg("batch rejected: no-trade conflict")
			return nil, err
		}

		if s.metrics != nil {
			s.metrics.DBQueryErrors.WithLabelValues("save_batch").Inc()
		}
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("batch_id", batchID).
			Msg("batch save failed")
		return nil, err
	}

	result.BatchID = batchID

	if s.metrics != nil {
		s.metrics.BatchesSaved.WithLabelValues(string(kind)).Inc()
		s.metrics.JournalsWritten.Add(float64(result.JournalCount))
		s.metrics.TradesWritten.Add(float64(result.TradeCount))
		s.metrics.SaveDuration.Observe(s.now().Sub(start).Seconds())
	}
	s.logger.Info().
		Str("user_id", userID).
		Str("batch_id", batchID).
		Str("kind", string(kind)).
		Int("journals", result.JournalCount).
		Int("trades", result.TradeCount).
		Msg("batch saved")

	return result, nil
}

// DeleteNTUnit removes the NT declaration for (user, date, market) as one
// unit. Zero deleted rows is a success.
func (s *Service) DeleteNTUnit(ctx context.Context, userID, dateKey, marketType string) (*domain.DeleteResult, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	if _, err := time.Parse("2006-01-02", dateKey); err != nil {
		return nil, domain.NewValidationError("date", "must be a YYYY-MM-DD calendar date")
	}
	if marketType == "" {
		return nil, domain.NewValidationError("market_type", "is required")
	}

	result, err := s.store.DeleteNTUnit(ctx, userID, dateKey, marketType)
	if err != nil {
		if s.metrics != nil {
			s.metrics.DBQueryErrors.WithLabelValues("delete_nt_unit").Inc()
		}
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("date", dateKey).
			Str("market_type", marketType).
			Msg("nt unit delete failed")
		return nil, err
	}

	if s.metrics != nil && result.TradesDeleted+result.JournalsDeleted > 0 {
		s.metrics.NTUnitsDeleted.Inc()
	}
	s.logger.Info().
		Str("user_id", userID).
		Str("date", dateKey).
		Str("market_type", marketType).
		Int("journals_deleted", result.JournalsDeleted).
		Int("trades_deleted", result.TradesDeleted).
		Msg("nt unit deleted")

	return result, nil
}

// DeleteTrade removes one ordinary trade by id and owner.
func (s *Service) DeleteTrade(ctx context.Context, userID string, tradeID int64) (*domain.Trade, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}

	trade, err := s.store.DeleteTrade(ctx, userID, tradeID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) && s.metrics != nil {
			s.metrics.DBQueryErrors.WithLabelValues("delete_trade").Inc()
		}
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Int64("trade_id", tradeID).
		Msg("trade deleted")
	return trade, nil
}

// UpdateTrade rewrites all fields of one trade by id and owner.
func (s *Service) UpdateTrade(ctx context.Context, userID string, trade *domain.Trade) (*domain.Trade, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	if err := ValidateTrade(trade); err != nil {
		if s.metrics != nil {
			s.metrics.ValidationFailures.Inc()
		}
		return nil, err
	}
	if trade.MarketType == "" {
		trade.MarketType = domain.DefaultMarketType
	}

	updated, err := s.store.UpdateTrade(ctx, userID, trade)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) && s.metrics != nil {
			s.metrics.DBQueryErrors.WithLabelValues("update_trade").Inc()
		}
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Int64("trade_id", trade.ID).
		Msg("trade updated")
	return updated, nil
}
