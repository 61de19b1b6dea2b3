package provider

import (
	"strconv"
	"strings"
	"time"

	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/pkg/errors"
)

// ResolvePeriod converts a named period into the start of the window that
// ends at now. Providers without native period support use it to turn
// period and max requests into date ranges.
//
// Supported forms: Nd, Nwk, Nmo, Ny, ytd and max.
func ResolvePeriod(period string, now time.Time) (time.Time, error) {
	switch period {
	case types.PeriodMax:
		return time.Unix(0, 0).UTC(), nil
	case types.PeriodYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), nil
	}

	for _, unit := range []string{"wk", "mo", "d", "y"} {
		if !strings.HasSuffix(period, unit) {
			continue
		}

		n, err := strconv.Atoi(strings.TrimSuffix(period, unit))
		if err != nil || n <= 0 {
			return time.Time{}, errors.Newf(errors.ErrCodeInvalidPeriod, "invalid period: %q", period)
		}

		switch unit {
		case "d":
			return now.AddDate(0, 0, -n), nil
		case "wk":
			return now.AddDate(0, 0, -7*n), nil
		case "mo":
			return now.AddDate(0, -n, 0), nil
		default:
			return now.AddDate(-n, 0, 0), nil
		}
	}

	return time.Time{}, errors.Newf(errors.ErrCodeInvalidPeriod, "invalid period: %q", period)
}

// requestWindow returns the [start, end) window of a request.
func requestWindow(req types.HistoryRequest, now time.Time) (time.Time, time.Time, error) {
	if req.IsRange() {
		return req.Start, req.End, nil
	}

	start, err := ResolvePeriod(req.Period, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return start, now, nil
}

// floorToDay moves non-intraday bars to midnight in loc.
func floorToDay(t time.Time, interval types.Interval, loc *time.Location) time.Time {
	t = t.In(loc)
	if interval.IsIntraday() {
		return t
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
