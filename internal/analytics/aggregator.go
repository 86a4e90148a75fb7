package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tradejournal/internal/domain"
	"tradejournal/internal/observability"
	"tradejournal/internal/storage"
)

// recentTradeLimit caps the dashboard's recent-trades list.
const recentTradeLimit = 10

// defaultPageSize is applied when a listing request omits the limit.
const defaultPageSize = 100

// ListQuery narrows a trade listing request. Window, when set, takes
// precedence over the explicit StartDate/EndDate bounds.
type ListQuery struct {
	Market    string
	TradeType string
	StartDate string
	EndDate   string
	Window    string
	Limit     int
	Offset    int
}

// Aggregator computes dashboard views from the analytics store. Each
// request issues independent queries; no state is retained between calls.
type Aggregator struct {
	store   storage.AnalyticsStore
	logger  zerolog.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewAggregator creates an analytics aggregator. metrics may be nil.
func NewAggregator(store storage.AnalyticsStore, logger zerolog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		store:   store,
		logger:  logger.With().Str("component", "analytics").Logger(),
		metrics: metrics,
		now:     time.Now,
	}
}

// observe records one aggregation's duration and outcome.
func (a *Aggregator) observe(view string, start time.Time, err error) {
	if a.metrics == nil {
		return
	}
	if err != nil {
		a.metrics.AggregationErrors.WithLabelValues(view).Inc()
		return
	}
	a.metrics.AggregationDuration.WithLabelValues(view).Observe(a.now().Sub(start).Seconds())
}

// DashboardSummary returns the headline stats plus the 10 most recent
// trades for a user.
func (a *Aggregator) DashboardSummary(ctx context.Context, userID string) (summary *domain.DashboardSummary, err error) {
	start := a.now()
	defer func() { a.observe("dashboard", start, err) }()

	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}

	total, err := a.store.CountTrades(ctx, userID)
	if err != nil {
		return nil, err
	}
	profit, err := a.store.SumProfitLoss(ctx, userID)
	if err != nil {
		return nil, err
	}
	wins, err := a.store.CountWinning(ctx, userID)
	if err != nil {
		return nil, err
	}
	losses, err := a.store.CountLosing(ctx, userID)
	if err != nil {
		return nil, err
	}
	byMarket, err := a.store.MarketBreakdown(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := a.store.RecentTrades(ctx, userID, recentTradeLimit)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardSummary{
		Stats: &domain.DashboardStats{
			TotalTrades:    total,
			ProfitLoss:     profit,
			WinningTrades:  wins,
			LosingTrades:   losses,
			WinRate:        WinRate(wins, total),
			TradesByMarket: byMarket,
		},
		RecentTrades: recent,
	}, nil
}

// ListTrades returns one page of a filtered listing with the total count
// and a has-more flag computed against the same filter.
func (a *Aggregator) ListTrades(ctx context.Context, userID string, q ListQuery) (page *domain.TradePage, err error) {
	start := a.now()
	defer func() { a.observe("list_trades", start, err) }()

	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	if !knownWindows[q.Window] {
		return nil, domain.NewValidationError("time_filter", "unknown relative window")
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, domain.NewValidationError("pagination", "limit and offset must not be negative")
	}
	if q.Limit == 0 {
		q.Limit = defaultPageSize
	}

	filter := domain.TradeFilter{
		Market:    q.Market,
		TradeType: q.TradeType,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	if q.Window != "" && q.Window != domain.WindowAll {
		filter.StartDate, filter.EndDate = resolveWindow(q.Window, a.now())
	}
	for _, bound := range []string{filter.StartDate, filter.EndDate} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", bound); err != nil {
			return nil, domain.NewValidationError("date", "must be a YYYY-MM-DD calendar date")
		}
	}

	trades, err := a.store.ListTrades(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := a.store.CountFiltered(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	return &domain.TradePage{
		Trades:  trades,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		HasMore: filter.Offset+len(trades) < total,
	}, nil
}

// ProfitOverTime returns the time-bucketed profit series with the running
// cumulative total.
func (a *Aggregator) ProfitOverTime(ctx context.Context, userID, period, window, market string) (points []domain.ProfitPoint, err error) {
	start := a.now()
	defer func() { a.observe("profit_over_time", start, err) }()

	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	if period != "" && period != domain.PeriodDaily && period != domain.PeriodWeekly && period != domain.PeriodMonthly {
		return nil, domain.NewValidationError("period", "must be daily, weekly, or monthly")
	}
	if !knownWindows[window] {
		return nil, domain.NewValidationError("time_filter", "unknown relative window")
	}

	spec := resolveSeriesSpec(period, window)
	buckets, err := a.store.PeriodBuckets(ctx, userID, spec.Trunc, spec.Format, spec.DaysBack, market)
	if err != nil {
		return nil, err
	}

	return EnrichSeries(buckets), nil
}

// Comparison computes the four fixed windows (7 days, 30 days, current
// month, all time) independently and concurrently. The windows share no
// computation; each tolerates zero trades.
func (a *Aggregator) Comparison(ctx context.Context, userID string) (cmp *domain.Comparison, err error) {
	start := a.now()
	defer func() { a.observe("comparison", start, err) }()

	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}

	var (
		wg      sync.WaitGroup
		raws    [4]domain.RawWindowStats
		errs    [4]error
		queries = [4]func(context.Context, string) (domain.RawWindowStats, error){
			func(ctx context.Context, uid string) (domain.RawWindowStats, error) {
				return a.store.StatsSince(ctx, uid, 7)
			},
			func(ctx context.Context, uid string) (domain.RawWindowStats, error) {
				return a.store.StatsSince(ctx, uid, 30)
			},
			a.store.StatsCurrentMonth,
			a.store.StatsAllTime,
		}
	)

	wg.Add(len(queries))
	for i, query := range queries {
		go func(i int, query func(context.Context, string) (domain.RawWindowStats, error)) {
			defer wg.Done()
			raws[i], errs[i] = query(ctx, userID)
		}(i, query)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("comparison window: %w", err)
		}
	}

	return &domain.Comparison{
		Last7Days:  FormatWindow(raws[0]),
		Last30Days: FormatWindow(raws[1]),
		ThisMonth:  FormatWindow(raws[2]),
		AllTime:    FormatWindow(raws[3]),
	}, nil
}

// MonthlyPerformance returns per-day trade buckets, optionally restricted
// to one year and month.
func (a *Aggregator) MonthlyPerformance(ctx context.Context, userID string, year, month int) (days []domain.DailyPerformance, err error) {
	start := a.now()
	defer func() { a.observe("monthly_performance", start, err) }()

	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	if (year == 0) != (month == 0) {
		return nil, domain.NewValidationError("month", "year and month must be provided together")
	}
	if month < 0 || month > 12 {
		return nil, domain.NewValidationError("month", "must be between 1 and 12")
	}

	return a.store.DailyPerformance(ctx, userID, year, month)
}
