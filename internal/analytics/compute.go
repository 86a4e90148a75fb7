// Package analytics computes read-only derived views over the trade ledger:
// dashboard statistics, time-bucketed profit series, and fixed-window
// period comparisons. It never mutates state.
package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"tradejournal/internal/domain"
)

// WinRate returns wins/total as a percentage rounded to 2 decimals.
// A zero total yields 0, never a division error.
func WinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(wins) / float64(total) * 100
	return math.Round(rate*100) / 100
}

// formatMoney renders a monetary value as a fixed-point string with
// 2 decimal places.
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// EnrichSeries folds raw period buckets, already ordered by bucket start
// ascending, into the profit-over-time series. The cumulative profit is
// accumulated across buckets in that order; it is a property of the fold,
// not of any single row, and is recomputed on every request.
func EnrichSeries(buckets []domain.PeriodBucket) []domain.ProfitPoint {
	points := make([]domain.ProfitPoint, 0, len(buckets))
	cumulative := decimal.Zero

	for _, b := range buckets {
		cumulative = cumulative.Add(b.TotalProfit)
		points = append(points, domain.ProfitPoint{
			Period:           b.Period,
			Date:             b.PeriodDate,
			TradeCount:       b.TradeCount,
			TotalProfit:      formatMoney(b.TotalProfit),
			GrossProfit:      formatMoney(b.TotalProfit),
			WinningTrades:    b.Wins,
			LosingTrades:     b.Losses,
			AvgProfit:        formatMoney(b.AvgProfit),
			CumulativeProfit: formatMoney(cumulative),
			WinRate:          WinRate(b.Wins, b.TradeCount),
		})
	}

	return points
}

// FormatWindow renders one raw comparison window. Zero-trade windows yield
// all-zero values.
func FormatWindow(raw domain.RawWindowStats) domain.WindowStats {
	return domain.WindowStats{
		TradeCount:    raw.TradeCount,
		TotalProfit:   formatMoney(raw.TotalProfit),
		WinningTrades: raw.Wins,
		WinRate:       WinRate(raw.Wins, raw.TradeCount),
	}
}
