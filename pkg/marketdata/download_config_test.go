package marketdata

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/pkg/errors"
)

type DownloadConfigTestSuite struct {
	suite.Suite
}

func TestDownloadConfigTestSuite(t *testing.T) {
	suite.Run(t, new(DownloadConfigTestSuite))
}

func validConfig() DownloadConfig {
	return DownloadConfig{
		Tickers:  []string{"BBCA.JK"},
		Interval: types.IntervalOneDay,
		OutDir:   "/tmp/himada",
		Mode:     types.ModeMax,
	}
}

func (suite *DownloadConfigTestSuite) TestValidate() {
	testCases := []struct {
		name   string
		mutate func(c *DownloadConfig)
		code   errors.ErrorCode
	}{
		{name: "max mode", mutate: func(_ *DownloadConfig) {}},
		{name: "period mode", mutate: func(c *DownloadConfig) {
			c.Mode = types.ModePeriod
			c.Period = optional.Some("5y")
		}},
		{name: "period mode without period", mutate: func(c *DownloadConfig) {
			c.Mode = types.ModePeriod
		}},
		{name: "range mode", mutate: func(c *DownloadConfig) {
			c.Mode = types.ModeRange
			c.Start = optional.Some("2024-01-01")
			c.End = optional.Some("2024-06-30")
		}},
		{name: "no tickers", code: errors.ErrCodeMissingTickers, mutate: func(c *DownloadConfig) {
			c.Tickers = nil
		}},
		{name: "bad interval", code: errors.ErrCodeInvalidInterval, mutate: func(c *DownloadConfig) {
			c.Interval = "4h"
		}},
		{name: "bad mode", code: errors.ErrCodeInvalidMode, mutate: func(c *DownloadConfig) {
			c.Mode = "forever"
		}},
		{name: "missing out dir", code: errors.ErrCodeInvalidConfiguration, mutate: func(c *DownloadConfig) {
			c.OutDir = ""
		}},
		{name: "range without end", code: errors.ErrCodeMissingParameter, mutate: func(c *DownloadConfig) {
			c.Mode = types.ModeRange
			c.Start = optional.Some("2024-01-01")
		}},
		{name: "range with bad date", code: errors.ErrCodeInvalidDate, mutate: func(c *DownloadConfig) {
			c.Mode = types.ModeRange
			c.Start = optional.Some("01/02/2024")
			c.End = optional.Some("2024-06-30")
		}},
		{name: "start equals end", code: errors.ErrCodeInvalidDateRange, mutate: func(c *DownloadConfig) {
			c.Mode = types.ModeRange
			c.Start = optional.Some("2024-01-01")
			c.End = optional.Some("2024-01-01")
		}},
		{name: "range with period", code: errors.ErrCodeInvalidConfiguration, mutate: func(c *DownloadConfig) {
			c.Mode = types.ModeRange
			c.Start = optional.Some("2024-01-01")
			c.End = optional.Some("2024-06-30")
			c.Period = optional.Some("1y")
		}},
		{name: "period with dates", code: errors.ErrCodeInvalidConfiguration, mutate: func(c *DownloadConfig) {
			c.Mode = types.ModePeriod
			c.Start = optional.Some("2024-01-01")
		}},
		{name: "unknown period", code: errors.ErrCodeInvalidPeriod, mutate: func(c *DownloadConfig) {
			c.Mode = types.ModePeriod
			c.Period = optional.Some("fortnight")
		}},
		{name: "max with period", code: errors.ErrCodeInvalidConfiguration, mutate: func(c *DownloadConfig) {
			c.Period = optional.Some("max")
		}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			config := validConfig()
			tc.mutate(&config)

			err := config.Validate()
			if tc.code == 0 {
				suite.NoError(err)
				return
			}
			suite.True(errors.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func (suite *DownloadConfigTestSuite) TestDateRangeMessage() {
	config := validConfig()
	config.Mode = types.ModeRange
	config.Start = optional.Some("2024-02-01")
	config.End = optional.Some("2024-01-01")

	suite.Equal("start date must be before end date", errors.Message(config.Validate()))
}

func (suite *DownloadConfigTestSuite) TestFileTag() {
	config := validConfig()
	suite.Equal("max", config.FileTag())

	config.Mode = types.ModePeriod
	suite.Equal("1mo", config.FileTag())
	config.Period = optional.Some("")
	suite.Equal("1mo", config.FileTag())
	config.Period = optional.Some("6mo")
	suite.Equal("6mo", config.FileTag())

	config.Mode = types.ModeRange
	config.Period = optional.None[string]()
	config.Start = optional.Some("2024-01-01")
	config.End = optional.Some("2024-06-30")
	suite.Equal("2024-01-01_2024-06-30", config.FileTag())
}

func (suite *DownloadConfigTestSuite) TestHistoryRequest() {
	config := validConfig()
	config.IncludeActions = true
	suite.Equal(types.NewMaxRequest("X", types.IntervalOneDay, true, false), config.HistoryRequest("X"))

	config.Mode = types.ModeRange
	config.Start = optional.Some("2024-01-01")
	config.End = optional.Some("2024-06-30")
	req := config.HistoryRequest("X")
	suite.True(req.IsRange())
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), req.Start)
	suite.Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), req.End)
}

func (suite *DownloadConfigTestSuite) TestParseDownloadConfig() {
	config, err := ParseDownloadConfig(`{
		"tickers": ["BBCA.JK", "AAPL"],
		"interval": "1h",
		"includeActions": true,
		"autoAdjust": true,
		"outDir": "/tmp/out",
		"mode": "period",
		"period": "60d"
	}`)
	suite.Require().NoError(err)

	suite.Equal([]string{"BBCA.JK", "AAPL"}, config.Tickers)
	suite.Equal(types.IntervalOneHour, config.Interval)
	suite.True(config.IncludeActions)
	suite.Equal(optional.Some("60d"), config.Period)
	suite.True(config.Start.IsNone())
}

func (suite *DownloadConfigTestSuite) TestParseDownloadConfig_Invalid() {
	_, err := ParseDownloadConfig(`{not json`)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = ParseDownloadConfig(`{"tickers": [], "interval": "1d", "outDir": "/tmp", "mode": "max"}`)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingTickers))
}

func (suite *DownloadConfigTestSuite) TestParseTickers() {
	suite.Equal([]string{"BBCA.JK", "AAPL", "MSFT", "AAPL"}, ParseTickers("BBCA.JK, AAPL\nMSFT  AAPL"))
	suite.Equal([]string{"BRK/B"}, ParseTickers(" ,BRK/B,, "))
	suite.Empty(ParseTickers(" , \n\t"))
}
