package analytics

import (
	"time"

	"tradejournal/internal/domain"
)

// knownWindows enumerates the accepted relative-window selectors.
var knownWindows = map[string]bool{
	"":                       true,
	domain.WindowAll:         true,
	domain.WindowToday:       true,
	domain.WindowLastWeek:    true,
	domain.WindowLastMonth:   true,
	domain.WindowLast3Months: true,
	domain.WindowLast6Months: true,
}

// resolveWindow turns a named relative window into inclusive YYYY-MM-DD
// bounds computed from now. Empty or "all" yields unbounded dates.
func resolveWindow(window string, now time.Time) (start, end string) {
	today := domain.DateKey(now)

	switch window {
	case domain.WindowToday:
		return today, today
	case domain.WindowLastWeek:
		return domain.DateKey(now.AddDate(0, 0, -7)), today
	case domain.WindowLastMonth:
		return domain.DateKey(now.AddDate(0, -1, 0)), today
	case domain.WindowLast3Months:
		return domain.DateKey(now.AddDate(0, -3, 0)), today
	case domain.WindowLast6Months:
		return domain.DateKey(now.AddDate(0, -6, 0)), today
	default:
		return "", ""
	}
}

// seriesSpec holds the bucketing parameters for one profit-over-time
// request: the DATE_TRUNC unit, the TO_CHAR label pattern, and the lookback
// in days.
type seriesSpec struct {
	Trunc    string
	Format   string
	DaysBack int
}

// resolveSeriesSpec derives bucket granularity and lookback. A non-empty
// window selector takes precedence over the explicit period, mirroring the
// request contract: windows map to day/7, day/30, week/90, month/180 with a
// month/365 fallback; periods map to day/30, week/90, month/365.
func resolveSeriesSpec(period, window string) seriesSpec {
	if window != "" && window != domain.WindowAll {
		switch window {
		case domain.WindowLastWeek:
			return seriesSpec{Trunc: "day", Format: "YYYY-MM-DD", DaysBack: 7}
		case domain.WindowLastMonth:
			return seriesSpec{Trunc: "day", Format: "YYYY-MM-DD", DaysBack: 30}
		case domain.WindowLast3Months:
			return seriesSpec{Trunc: "week", Format: `YYYY-"W"IW`, DaysBack: 90}
		case domain.WindowLast6Months:
			return seriesSpec{Trunc: "month", Format: "YYYY-MM", DaysBack: 180}
		default:
			return seriesSpec{Trunc: "month", Format: "YYYY-MM", DaysBack: 365}
		}
	}

	switch period {
	case domain.PeriodWeekly:
		return seriesSpec{Trunc: "week", Format: `YYYY-"W"IW`, DaysBack: 90}
	case domain.PeriodMonthly:
		return seriesSpec{Trunc: "month", Format: "YYYY-MM", DaysBack: 365}
	default:
		return seriesSpec{Trunc: "day", Format: "YYYY-MM-DD", DaysBack: 30}
	}
}
