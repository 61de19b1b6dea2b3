package types

// Interval is the sampling granularity of a historical series.
type Interval string

const (
	IntervalOneMinute      Interval = "1m"
	IntervalTwoMinutes     Interval = "2m"
	IntervalFiveMinutes    Interval = "5m"
	IntervalFifteenMinutes Interval = "15m"
	IntervalThirtyMinutes  Interval = "30m"
	IntervalSixtyMinutes   Interval = "60m"
	IntervalNinetyMinutes  Interval = "90m"
	IntervalOneHour        Interval = "1h"
	IntervalOneDay         Interval = "1d"
	IntervalFiveDays       Interval = "5d"
	IntervalOneWeek        Interval = "1wk"
	IntervalOneMonth       Interval = "1mo"
	IntervalThreeMonths    Interval = "3mo"
)

// Intervals lists every supported interval, finest first.
var Intervals = []Interval{
	IntervalOneMinute,
	IntervalTwoMinutes,
	IntervalFiveMinutes,
	IntervalFifteenMinutes,
	IntervalThirtyMinutes,
	IntervalSixtyMinutes,
	IntervalNinetyMinutes,
	IntervalOneHour,
	IntervalOneDay,
	IntervalFiveDays,
	IntervalOneWeek,
	IntervalOneMonth,
	IntervalThreeMonths,
}

// IsIntraday reports whether the interval is strictly finer than one day.
func (i Interval) IsIntraday() bool {
	switch i {
	case IntervalOneMinute, IntervalTwoMinutes, IntervalFiveMinutes, IntervalFifteenMinutes,
		IntervalThirtyMinutes, IntervalSixtyMinutes, IntervalNinetyMinutes, IntervalOneHour:
		return true
	default:
		return false
	}
}

// IsValid reports whether the interval is one of Intervals.
func (i Interval) IsValid() bool {
	for _, known := range Intervals {
		if i == known {
			return true
		}
	}

	return false
}

func (i Interval) String() string {
	return string(i)
}
