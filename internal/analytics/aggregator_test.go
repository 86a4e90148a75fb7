package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/domain"
)

// fakeAnalyticsStore serves canned rows and records the filters it was
// queried with. The comparison windows query it from concurrent
// goroutines, so recording fields are guarded by mu.
type fakeAnalyticsStore struct {
	trades      []*domain.Trade
	buckets     []domain.PeriodBucket
	windowStats domain.RawWindowStats
	days        []domain.DailyPerformance
	err         error

	mu            sync.Mutex
	lastFilter    domain.TradeFilter
	lastTrunc     string
	lastDaysBack  int
	lastMarket    string
	statsSinceArg []int
}

func (f *fakeAnalyticsStore) CountTrades(ctx context.Context, userID string) (int, error) {
	return len(f.trades), f.err
}

func (f *fakeAnalyticsStore) SumProfitLoss(ctx context.Context, userID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range f.trades {
		total = total.Add(t.ProfitLoss)
	}
	return total, f.err
}

func (f *fakeAnalyticsStore) CountWinning(ctx context.Context, userID string) (int, error) {
	n := 0
	for _, t := range f.trades {
		if t.ProfitLoss.IsPositive() {
			n++
		}
	}
	return n, f.err
}

func (f *fakeAnalyticsStore) CountLosing(ctx context.Context, userID string) (int, error) {
	n := 0
	for _, t := range f.trades {
		if t.ProfitLoss.IsNegative() {
			n++
		}
	}
	return n, f.err
}

func (f *fakeAnalyticsStore) MarketBreakdown(ctx context.Context, userID string) ([]domain.MarketBreakdown, error) {
	return nil, f.err
}

func (f *fakeAnalyticsStore) RecentTrades(ctx context.Context, userID string, limit int) ([]*domain.Trade, error) {
	if limit > len(f.trades) {
		limit = len(f.trades)
	}
	return f.trades[:limit], f.err
}

func (f *fakeAnalyticsStore) ListTrades(ctx context.Context, userID string, filter domain.TradeFilter) ([]*domain.Trade, error) {
	f.mu.Lock()
	f.lastFilter = filter
	f.mu.Unlock()
	return f.trades, f.err
}

func (f *fakeAnalyticsStore) CountFiltered(ctx context.Context, userID string, filter domain.TradeFilter) (int, error) {
	f.mu.Lock()
	f.lastFilter = filter
	f.mu.Unlock()
	return len(f.trades), f.err
}

func (f *fakeAnalyticsStore) PeriodBuckets(ctx context.Context, userID, trunc, format string, daysBack int, market string) ([]domain.PeriodBucket, error) {
	f.mu.Lock()
	f.lastTrunc = trunc
	f.lastDaysBack = daysBack
	f.lastMarket = market
	f.mu.Unlock()
	return f.buckets, f.err
}

func (f *fakeAnalyticsStore) StatsSince(ctx context.Context, userID string, daysBack int) (domain.RawWindowStats, error) {
	f.mu.Lock()
	f.statsSinceArg = append(f.statsSinceArg, daysBack)
	f.mu.Unlock()
	return f.windowStats, f.err
}

// statsSinceArgs returns a copy of the recorded lookbacks.
func (f *fakeAnalyticsStore) statsSinceArgs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.statsSinceArg...)
}

func (f *fakeAnalyticsStore) StatsCurrentMonth(ctx context.Context, userID string) (domain.RawWindowStats, error) {
	return f.windowStats, f.err
}

func (f *fakeAnalyticsStore) StatsAllTime(ctx context.Context, userID string) (domain.RawWindowStats, error) {
	return f.windowStats, f.err
}

func (f *fakeAnalyticsStore) DailyPerformance(ctx context.Context, userID string, year, month int) ([]domain.DailyPerformance, error) {
	return f.days, f.err
}

func newTestAggregator(store *fakeAnalyticsStore) *Aggregator {
	agg := NewAggregator(store, zerolog.Nop(), nil)
	agg.now = func() time.Time { return testNow }
	return agg
}

func testTrade(pl string) *domain.Trade {
	return &domain.Trade{
		UserID:     "user-1",
		TradeDate:  testNow,
		Symbol:     "EURUSD",
		TradeType:  domain.TradeTypeBuy,
		LotSize:    decimal.NewFromInt(1),
		ProfitLoss: decimal.RequireFromString(pl),
		MarketType: "FOREX",
	}
}

func TestDashboardSummary(t *testing.T) {
	store := &fakeAnalyticsStore{
		trades: []*domain.Trade{testTrade("100"), testTrade("-30"), testTrade("50"), testTrade("0")},
	}
	agg := newTestAggregator(store)

	summary, err := agg.DashboardSummary(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Stats.TotalTrades)
	assert.Equal(t, 2, summary.Stats.WinningTrades)
	assert.Equal(t, 1, summary.Stats.LosingTrades)
	assert.Equal(t, 50.0, summary.Stats.WinRate)
	assert.True(t, summary.Stats.ProfitLoss.Equal(decimal.NewFromInt(120)))
	assert.Len(t, summary.RecentTrades, 4)
}

func TestDashboardSummary_MissingUser(t *testing.T) {
	agg := newTestAggregator(&fakeAnalyticsStore{})

	_, err := agg.DashboardSummary(context.Background(), "")

	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "user_id", validation.Field)
}

func TestListTrades_WindowOverridesExplicitDates(t *testing.T) {
	store := &fakeAnalyticsStore{trades: []*domain.Trade{testTrade("10")}}
	agg := newTestAggregator(store)

	_, err := agg.ListTrades(context.Background(), "user-1", ListQuery{
		StartDate: "2020-01-01",
		EndDate:   "2020-12-31",
		Window:    domain.WindowLastWeek,
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-08", store.lastFilter.StartDate)
	assert.Equal(t, "2024-03-15", store.lastFilter.EndDate)
}

func TestListTrades_UnknownWindow(t *testing.T) {
	agg := newTestAggregator(&fakeAnalyticsStore{})

	_, err := agg.ListTrades(context.Background(), "user-1", ListQuery{Window: "yesterday"})

	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "time_filter", validation.Field)
}

func TestListTrades_MalformedDate(t *testing.T) {
	agg := newTestAggregator(&fakeAnalyticsStore{})

	_, err := agg.ListTrades(context.Background(), "user-1", ListQuery{StartDate: "01/02/2024"})

	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestListTrades_PaginationDefaults(t *testing.T) {
	store := &fakeAnalyticsStore{trades: []*domain.Trade{testTrade("10"), testTrade("20")}}
	agg := newTestAggregator(store)

	page, err := agg.ListTrades(context.Background(), "user-1", ListQuery{})
	require.NoError(t, err)

	assert.Equal(t, defaultPageSize, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.Equal(t, 2, page.Total)
	assert.False(t, page.HasMore)
}

func TestListTrades_HasMore(t *testing.T) {
	store := &fakeAnalyticsStore{trades: []*domain.Trade{testTrade("10")}}
	agg := newTestAggregator(store)

	page, err := agg.ListTrades(context.Background(), "user-1", ListQuery{Limit: 1})
	require.NoError(t, err)
	assert.False(t, page.HasMore)

	_, err = agg.ListTrades(context.Background(), "user-1", ListQuery{Limit: -1})
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestProfitOverTime(t *testing.T) {
	store := &fakeAnalyticsStore{
		buckets: []domain.PeriodBucket{
			{Period: "2024-03-14", TradeCount: 1, TotalProfit: decimal.NewFromInt(10)},
			{Period: "2024-03-15", TradeCount: 1, TotalProfit: decimal.NewFromInt(5)},
		},
	}
	agg := newTestAggregator(store)

	points, err := agg.ProfitOverTime(context.Background(), "user-1", domain.PeriodWeekly, "", "crypto")
	require.NoError(t, err)

	assert.Equal(t, "week", store.lastTrunc)
	assert.Equal(t, 90, store.lastDaysBack)
	assert.Equal(t, "crypto", store.lastMarket)
	require.Len(t, points, 2)
	assert.Equal(t, "15.00", points[1].CumulativeProfit)
}

func TestProfitOverTime_InvalidPeriod(t *testing.T) {
	agg := newTestAggregator(&fakeAnalyticsStore{})

	_, err := agg.ProfitOverTime(context.Background(), "user-1", "hourly", "", "")

	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "period", validation.Field)
}

func TestComparison(t *testing.T) {
	store := &fakeAnalyticsStore{
		windowStats: domain.RawWindowStats{
			TradeCount:  10,
			TotalProfit: decimal.RequireFromString("250.555"),
			Wins:        7,
		},
	}
	agg := newTestAggregator(store)

	cmp, err := agg.Comparison(context.Background(), "user-1")
	require.NoError(t, err)

	for _, w := range []domain.WindowStats{cmp.Last7Days, cmp.Last30Days, cmp.ThisMonth, cmp.AllTime} {
		assert.Equal(t, 10, w.TradeCount)
		assert.Equal(t, "250.56", w.TotalProfit)
		assert.Equal(t, 70.0, w.WinRate)
	}
	assert.ElementsMatch(t, []int{7, 30}, store.statsSinceArgs())
}

func TestComparison_ZeroTrades(t *testing.T) {
	agg := newTestAggregator(&fakeAnalyticsStore{})

	cmp, err := agg.Comparison(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "0.00", cmp.AllTime.TotalProfit)
	assert.Equal(t, 0.0, cmp.AllTime.WinRate)
}

func TestComparison_WindowError(t *testing.T) {
	store := &fakeAnalyticsStore{err: errors.New("connection reset")}
	agg := newTestAggregator(store)

	_, err := agg.Comparison(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "comparison window")
}

func TestMonthlyPerformance_Validation(t *testing.T) {
	agg := newTestAggregator(&fakeAnalyticsStore{})

	_, err := agg.MonthlyPerformance(context.Background(), "user-1", 2024, 0)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = agg.MonthlyPerformance(context.Background(), "user-1", 2024, 13)
	require.ErrorAs(t, err, &validation)

	_, err = agg.MonthlyPerformance(context.Background(), "user-1", 0, 0)
	require.NoError(t, err)
}
