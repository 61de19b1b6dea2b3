package provider

import (
	"context"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/pkg/errors"
)

const binanceKlinesLimit = 1000

// BinanceKlinesService is the subset of the klines service the client uses.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Limit(limit int) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient abstracts the Binance REST client for testing.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

type binanceAPIAdapter struct {
	client *binance.Client
}

func (a *binanceAPIAdapter) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesAdapter{service: a.client.NewKlinesService()}
}

type binanceKlinesAdapter struct {
	service *binance.KlinesService
}

func (a *binanceKlinesAdapter) Symbol(symbol string) BinanceKlinesService {
	a.service = a.service.Symbol(symbol)

	return a
}

func (a *binanceKlinesAdapter) Interval(interval string) BinanceKlinesService {
	a.service = a.service.Interval(interval)

	return a
}

func (a *binanceKlinesAdapter) StartTime(startTime int64) BinanceKlinesService {
	a.service = a.service.StartTime(startTime)

	return a
}

func (a *binanceKlinesAdapter) EndTime(endTime int64) BinanceKlinesService {
	a.service = a.service.EndTime(endTime)

	return a
}

func (a *binanceKlinesAdapter) Limit(limit int) BinanceKlinesService {
	a.service = a.service.Limit(limit)

	return a
}

func (a *binanceKlinesAdapter) Do(ctx context.Context) ([]*binance.Kline, error) {
	return a.service.Do(ctx)
}

type BinanceClient struct {
	apiClient BinanceAPIClient
	now       func() time.Time
}

// NewBinanceClient creates a client for Binance public market data, which
// needs no credentials.
func NewBinanceClient() (Provider, error) {
	return NewBinanceClientWithAPI(&binanceAPIAdapter{client: binance.NewClient("", "")}), nil
}

// NewBinanceClientWithAPI creates a client around an existing API implementation.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return &BinanceClient{
		apiClient: apiClient,
		now:       time.Now,
	}
}

// History implements Provider by paging through klines. Crypto pairs have
// no dividends or splits, so Actions and AutoAdjust do not apply.
func (c *BinanceClient) History(ctx context.Context, req types.HistoryRequest) (*types.Series, error) {
	interval, err := binanceInterval(req.Interval)
	if err != nil {
		return nil, err
	}

	start, end, err := requestWindow(req, c.now())
	if err != nil {
		return nil, err
	}

	series := types.NewSeries(req.Ticker, types.ColumnOpen, types.ColumnHigh, types.ColumnLow, types.ColumnClose, types.ColumnVolume)
	currentStart := start.UnixMilli()
	endMillis := end.UnixMilli() - 1

	for currentStart <= endMillis {
		klines, err := c.apiClient.NewKlinesService().
			Symbol(req.Ticker).
			Interval(interval).
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binanceKlinesLimit).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch klines for %s", req.Ticker)
		}

		if err := appendKlines(series, req.Interval, klines); err != nil {
			return nil, err
		}

		// last page
		if len(klines) < binanceKlinesLimit {
			break
		}

		// close time + 1ms avoids duplicates
		currentStart = klines[len(klines)-1].CloseTime + 1
	}

	return series, nil
}

func appendKlines(series *types.Series, interval types.Interval, klines []*binance.Kline) error {
	for _, k := range klines {
		values := make([]decimal.NullDecimal, 0, 5)

		for _, raw := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline value %q", raw)
			}

			values = append(values, types.Value(d))
		}

		t := floorToDay(time.UnixMilli(k.OpenTime), interval, time.UTC)
		if err := series.Append(t, values...); err != nil {
			return errors.Wrap(errors.ErrCodeColumnMismatch, "failed to append kline", err)
		}
	}

	return nil
}

// binanceInterval maps an interval onto a Binance kline interval.
// Ref: https://binance-docs.github.io/apidocs/spot/en/#kline-candlestick-data
func binanceInterval(interval types.Interval) (string, error) {
	switch interval {
	case types.IntervalOneMinute, types.IntervalFiveMinutes, types.IntervalFifteenMinutes, types.IntervalThirtyMinutes:
		return string(interval), nil
	case types.IntervalSixtyMinutes, types.IntervalOneHour:
		return "1h", nil
	case types.IntervalOneDay:
		return "1d", nil
	case types.IntervalOneWeek:
		return "1w", nil
	case types.IntervalOneMonth:
		return "1M", nil
	default:
		return "", errors.Newf(errors.ErrCodeUnsupportedInterval, "unsupported interval for Binance: %s", interval)
	}
}
