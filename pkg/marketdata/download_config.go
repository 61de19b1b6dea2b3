package marketdata

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"

	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/pkg/errors"
	"github.com/janucaria/himada/pkg/marketdata/provider"
)

// DownloadConfig describes one download run. Exactly one of Start+End,
// Period or neither is set, as selected by Mode.
type DownloadConfig struct {
	Tickers        []string                `json:"tickers" jsonschema:"title=Tickers,description=Symbols to download in order (e.g. BBCA.JK or AAPL),required" validate:"required,min=1"`
	Interval       types.Interval          `json:"interval" jsonschema:"title=Interval,description=Sampling granularity,required,enum=1m,enum=2m,enum=5m,enum=15m,enum=30m,enum=60m,enum=90m,enum=1h,enum=1d,enum=5d,enum=1wk,enum=1mo,enum=3mo" validate:"required"`
	IncludeActions bool                    `json:"includeActions" jsonschema:"title=Include Actions,description=Add dividend and stock split columns"`
	AutoAdjust     bool                    `json:"autoAdjust" jsonschema:"title=Auto Adjust,description=Adjust prices for splits and dividends"`
	OutDir         string                  `json:"outDir" jsonschema:"title=Output Directory,description=Directory the CSV files are written to; created if absent,required" validate:"required"`
	Mode           types.Mode              `json:"mode" jsonschema:"title=Mode,description=How the time span is expressed,required,enum=range,enum=period,enum=max" validate:"required"`
	Start          optional.Option[string] `json:"start" jsonschema:"title=Start Date,description=First date (range mode only),format=date"`
	End            optional.Option[string] `json:"end" jsonschema:"title=End Date,description=End date exclusive (range mode only),format=date"`
	Period         optional.Option[string] `json:"period" jsonschema:"title=Period,description=Named duration such as 1mo or 5y (period mode only)"`
}

// Validate checks the fields and their consistency with Mode. Errors carry
// a validation code and a message fit for the user.
func (c *DownloadConfig) Validate() error {
	if len(c.Tickers) == 0 {
		return errors.New(errors.ErrCodeMissingTickers, "please enter at least one ticker")
	}

	if !c.Interval.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidInterval, "invalid interval: %q", c.Interval)
	}

	if !c.Mode.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidMode, "invalid mode: %q", c.Mode)
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	switch c.Mode {
	case types.ModeRange:
		return c.validateRange()
	case types.ModePeriod:
		if c.Start.IsSome() || c.End.IsSome() {
			return errors.New(errors.ErrCodeInvalidConfiguration, "start and end are only used in range mode")
		}

		if period := c.Period.TakeOr(""); period != "" {
			if _, err := provider.ResolvePeriod(period, time.Now()); err != nil {
				return err
			}
		}
	case types.ModeMax:
		if c.Start.IsSome() || c.End.IsSome() || c.Period.IsSome() {
			return errors.New(errors.ErrCodeInvalidConfiguration, "max mode takes no start, end or period")
		}
	}

	return nil
}

func (c *DownloadConfig) validateRange() error {
	if c.Period.IsSome() {
		return errors.New(errors.ErrCodeInvalidConfiguration, "period is only used in period mode")
	}

	if c.Start.IsNone() || c.End.IsNone() {
		return errors.New(errors.ErrCodeMissingParameter, "range mode needs a start and an end date")
	}

	start, err := time.Parse(types.DateLayout, c.Start.Unwrap())
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidDate, err, "invalid start date %q, expected YYYY-MM-DD", c.Start.Unwrap())
	}

	end, err := time.Parse(types.DateLayout, c.End.Unwrap())
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidDate, err, "invalid end date %q, expected YYYY-MM-DD", c.End.Unwrap())
	}

	if !start.Before(end) {
		return errors.New(errors.ErrCodeInvalidDateRange, "start date must be before end date")
	}

	return nil
}

// EffectivePeriod is the period sent in period mode; an unset or empty
// period means one month.
func (c *DownloadConfig) EffectivePeriod() string {
	if period := c.Period.TakeOr(""); period != "" {
		return period
	}

	return types.Period1mo
}

// FileTag is the part of the file name that names the time span.
func (c *DownloadConfig) FileTag() string {
	switch c.Mode {
	case types.ModeRange:
		return c.Start.TakeOr("") + "_" + c.End.TakeOr("")
	case types.ModePeriod:
		return c.EffectivePeriod()
	default:
		return types.PeriodMax
	}
}

// HistoryRequest builds the provider call for one ticker. Range dates are
// taken as UTC midnights. The config must have passed Validate.
func (c *DownloadConfig) HistoryRequest(ticker string) types.HistoryRequest {
	switch c.Mode {
	case types.ModeRange:
		start, _ := time.Parse(types.DateLayout, c.Start.TakeOr(""))
		end, _ := time.Parse(types.DateLayout, c.End.TakeOr(""))

		return types.NewRangeRequest(ticker, c.Interval, start, end, c.IncludeActions, c.AutoAdjust)
	case types.ModePeriod:
		return types.NewPeriodRequest(ticker, c.Interval, c.EffectivePeriod(), c.IncludeActions, c.AutoAdjust)
	default:
		return types.NewMaxRequest(ticker, c.Interval, c.IncludeActions, c.AutoAdjust)
	}
}

// ParseDownloadConfig parses and validates a JSON job file.
func ParseDownloadConfig(jsonConfig string) (*DownloadConfig, error) {
	var config DownloadConfig
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse JSON config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ParseTickers splits free text on commas, spaces and newlines. Order and
// duplicates are kept.
func ParseTickers(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
