package provider

import (
	"context"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	DefaultYahooBaseURL   = "https://query2.finance.yahoo.com"
	DefaultYahooUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultYahooTimeout   = 30 * time.Second

	yahooChartPath = "/v8/finance/chart/{symbol}"
	adjustDigits   = 6
)

// YahooConfig configures the Yahoo Finance chart client. Zero fields fall
// back to the defaults above.
type YahooConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// YahooClient fetches history from the Yahoo Finance v8 chart endpoint.
type YahooClient struct {
	client *resty.Client
}

func NewYahooClient(config YahooConfig) *YahooClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultYahooBaseURL
	}

	if config.UserAgent == "" {
		config.UserAgent = DefaultYahooUserAgent
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultYahooTimeout
	}

	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json")

	return &YahooClient{
		client: client,
	}
}

// History implements Provider.
func (c *YahooClient) History(ctx context.Context, req types.HistoryRequest) (*types.Series, error) {
	query := map[string]string{
		"interval":             string(req.Interval),
		"includeAdjustedClose": "true",
	}

	if req.IsRange() {
		query["period1"] = strconv.FormatInt(req.Start.Unix(), 10)
		query["period2"] = strconv.FormatInt(req.End.Unix(), 10)
	} else {
		query["range"] = req.Period
	}

	if req.Actions {
		query["events"] = "div,splits"
	}

	//nolint:exhaustruct // resty fills the response
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", req.Ticker).
		SetQueryParams(query).
		SetResult(&yahooChartResponse{}).
		SetError(&yahooChartResponse{}).
		Get(yahooChartPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to query chart for %s", req.Ticker)
	}

	var body *yahooChartResponse
	if resp.IsError() {
		body, _ = resp.Error().(*yahooChartResponse)
	} else {
		body, _ = resp.Result().(*yahooChartResponse)
	}

	if body != nil && body.Chart.Error != nil {
		code := errors.ErrCodeMarketDataFetchFailed
		if resp.StatusCode() == http.StatusNotFound {
			code = errors.ErrCodeSymbolNotFound
		}

		return nil, errors.Newf(code, "%s: %s", body.Chart.Error.Code, body.Chart.Error.Description)
	}

	if resp.IsError() {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "unexpected status code %d for %s", resp.StatusCode(), req.Ticker)
	}

	if body == nil || len(body.Chart.Result) == 0 {
		return types.NewSeries(req.Ticker, yahooColumns(req, false)...), nil
	}

	return yahooSeries(req, body.Chart.Result[0]), nil
}

func yahooColumns(req types.HistoryRequest, hasAdjClose bool) []string {
	columns := []string{types.ColumnOpen, types.ColumnHigh, types.ColumnLow, types.ColumnClose}
	if hasAdjClose && !req.AutoAdjust {
		columns = append(columns, types.ColumnAdjClose)
	}

	columns = append(columns, types.ColumnVolume)
	if req.Actions {
		columns = append(columns, types.ColumnDividends, types.ColumnStockSplits)
	}

	return columns
}

// yahooSeries converts one chart result into a series. Bars are placed in
// the exchange's zone; daily and coarser bars are floored to midnight there.
func yahooSeries(req types.HistoryRequest, result yahooChartResult) *types.Series {
	loc := loadLocation(result.Meta.ExchangeTimezoneName)

	var adjClose []decimal.NullDecimal
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	hasAdjClose := len(adjClose) > 0 && len(adjClose) == len(result.Timestamp)
	series := types.NewSeries(req.Ticker, yahooColumns(req, hasAdjClose)...)

	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return series
	}

	quote := result.Indicators.Quote[0]
	rows := make([]types.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		open, high, low, closePrice := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if !open.Valid && !high.Valid && !low.Valid && !closePrice.Valid {
			continue
		}

		t := floorToDay(time.Unix(ts, 0), req.Interval, loc)

		adj := at(adjClose, i)
		if req.AutoAdjust && hasAdjClose && adj.Valid && closePrice.Valid && !closePrice.Decimal.IsZero() {
			ratio := adj.Decimal.Div(closePrice.Decimal)
			open = scale(open, ratio)
			high = scale(high, ratio)
			low = scale(low, ratio)
			closePrice = adj
		}

		values := []decimal.NullDecimal{open, high, low, closePrice}
		if hasAdjClose && !req.AutoAdjust {
			values = append(values, adj)
		}

		values = append(values, at(quote.Volume, i))
		rows = append(rows, types.Bar{Time: t, Values: values})
	}

	slices.SortStableFunc(rows, func(a, b types.Bar) int {
		return a.Time.Compare(b.Time)
	})

	if req.Actions {
		dividends, splits := attachEvents(rows, result.Events, loc)
		for i := range rows {
			rows[i].Values = append(rows[i].Values, types.Value(dividends[i]), types.Value(splits[i]))
		}
	}

	for _, row := range rows {
		// column count always matches yahooColumns
		_ = series.Append(row.Time, row.Values...)
	}

	return series
}

// attachEvents assigns every dividend and split to the bar whose period
// contains it, the last bar starting at or before the event. Events before
// the first bar are dropped. Several dividends in one bar add up; several
// splits multiply.
func attachEvents(rows []types.Bar, events yahooEvents, loc *time.Location) ([]decimal.Decimal, []decimal.Decimal) {
	dividends := make([]decimal.Decimal, len(rows))
	splits := make([]decimal.Decimal, len(rows))

	owner := func(unix int64) int {
		at := time.Unix(unix, 0).In(loc)

		return sort.Search(len(rows), func(i int) bool {
			return rows[i].Time.After(at)
		}) - 1
	}

	for _, d := range events.Dividends {
		if i := owner(d.Date); i >= 0 {
			dividends[i] = dividends[i].Add(d.Amount)
		}
	}

	for _, s := range events.Splits {
		if s.Denominator.IsZero() {
			continue
		}

		i := owner(s.Date)
		if i < 0 {
			continue
		}

		ratio := s.Numerator.Div(s.Denominator)
		if splits[i].IsZero() {
			splits[i] = ratio
		} else {
			splits[i] = splits[i].Mul(ratio)
		}
	}

	return dividends, splits
}

func at(values []decimal.NullDecimal, i int) decimal.NullDecimal {
	if i < len(values) {
		return values[i]
	}

	return types.Null()
}

func scale(v decimal.NullDecimal, ratio decimal.Decimal) decimal.NullDecimal {
	if !v.Valid {
		return v
	}

	return types.Value(v.Decimal.Mul(ratio).Round(adjustDigits))
}

// loadLocation resolves an exchange zone name, falling back to UTC when
// the name is empty or unknown to the local tz database.
func loadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}

	return loc
}
