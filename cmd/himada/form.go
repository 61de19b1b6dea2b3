package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moznion/go-optional"

	"github.com/janucaria/himada/internal/settings"
	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/pkg/marketdata"
)

// formIntervals are the intervals offered by the form, most common first.
var formIntervals = []types.Interval{
	types.IntervalOneDay,
	types.IntervalOneWeek,
	types.IntervalOneMonth,
	types.IntervalOneHour,
	types.IntervalThirtyMinutes,
	types.IntervalFifteenMinutes,
	types.IntervalFiveMinutes,
	types.IntervalTwoMinutes,
	types.IntervalOneMinute,
}

// formError is a configuration problem reported to the user before any fetch.
type formError struct {
	Title   string
	Message string
}

func (e *formError) Error() string {
	return e.Title + ": " + e.Message
}

// buildConfig turns the form values into a download config. Choosing the
// max period in period mode downloads in max mode.
func buildConfig(values settings.Settings) (marketdata.DownloadConfig, *formError) {
	raw := strings.TrimSpace(values.Tickers)
	if raw == "" {
		return marketdata.DownloadConfig{}, &formError{Title: "Missing tickers", Message: "Please enter at least one ticker."}
	}

	tickers := marketdata.ParseTickers(raw)
	if len(tickers) == 0 {
		return marketdata.DownloadConfig{}, &formError{Title: "Invalid tickers", Message: "Could not parse any tickers."}
	}

	cfg := marketdata.DownloadConfig{
		Tickers:        tickers,
		Interval:       values.Interval,
		IncludeActions: values.Actions,
		AutoAdjust:     values.AutoAdjust,
		OutDir:         expandHome(strings.TrimSpace(values.OutDir)),
		Mode:           values.Mode,
	}

	switch values.Mode {
	case types.ModeRange:
		start, startErr := time.Parse(types.DateLayout, strings.TrimSpace(values.Start))
		end, endErr := time.Parse(types.DateLayout, strings.TrimSpace(values.End))

		if startErr != nil || endErr != nil {
			return marketdata.DownloadConfig{}, &formError{Title: "Invalid dates", Message: "Dates must be written as YYYY-MM-DD."}
		}

		if !start.Before(end) {
			return marketdata.DownloadConfig{}, &formError{Title: "Invalid dates", Message: "Start date must be before end date."}
		}

		cfg.Start = optional.Some(start.Format(types.DateLayout))
		cfg.End = optional.Some(end.Format(types.DateLayout))
	case types.ModePeriod:
		if values.Period == types.PeriodMax {
			cfg.Mode = types.ModeMax
		} else {
			cfg.Period = optional.Some(values.Period)
		}
	}

	return cfg, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
