package marketdata

import (
	"github.com/moznion/go-optional"

	"github.com/janucaria/himada/internal/types"
)

// LogFunc receives one line of user-facing progress text.
type LogFunc func(line string)

// longPeriods are the periods Yahoo refuses for intraday intervals. An absent
// period counts as long too, see isLongPeriod.
var longPeriods = []string{
	types.PeriodMax,
	types.PeriodYTD,
	types.Period10y,
	types.Period5y,
	types.Period2y,
	types.Period1y,
	types.Period6mo,
	types.Period3mo,
}

const (
	clampOneMinuteWarning = "⚠️ Interval=1m is limited by Yahoo; clamping period to 7d."
	clampIntradayWarning  = "⚠️ Intraday intervals are limited by Yahoo; clamping period to 60d."
)

// EnforceLimits adjusts mode and period to the intraday history Yahoo serves:
// 7 days of 1m bars and 60 days of other intraday bars. Period and max
// requests for a long span are rewritten to a period request of that size
// and a warning is logged. Range requests and non-intraday intervals are
// returned unchanged.
func EnforceLimits(interval types.Interval, mode types.Mode, period optional.Option[string], log LogFunc) (types.Mode, optional.Option[string]) {
	if !interval.IsIntraday() {
		return mode, period
	}

	if mode != types.ModePeriod && mode != types.ModeMax {
		return mode, period
	}

	if !isLongPeriod(period) {
		return mode, period
	}

	if interval == types.IntervalOneMinute {
		emit(log, clampOneMinuteWarning)

		return types.ModePeriod, optional.Some(types.Period7d)
	}

	emit(log, clampIntradayWarning)

	return types.ModePeriod, optional.Some(types.Period60d)
}

func isLongPeriod(period optional.Option[string]) bool {
	if period.IsNone() {
		return true
	}

	value := period.Unwrap()
	for _, long := range longPeriods {
		if value == long {
			return true
		}
	}

	return false
}

func emit(log LogFunc, line string) {
	if log != nil {
		log(line)
	}
}
