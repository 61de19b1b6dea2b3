package provider

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/janucaria/himada/internal/logger"
	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/pkg/errors"
)

const polygonMarketZone = "America/New_York"

// PolygonAggsIterator is the subset of the polygon aggregates iterator the client uses.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient abstracts the polygon REST client for testing.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonAPIAdapter struct {
	client *polygon.Client
}

func (a *polygonAPIAdapter) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return a.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	apiClient PolygonAPIClient
	logger    *logger.Logger
	location  *time.Location
	now       func() time.Time
}

func NewPolygonClient(apiKey string, log *logger.Logger) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	return NewPolygonClientWithAPI(&polygonAPIAdapter{client: polygon.New(apiKey)}, log), nil
}

// NewPolygonClientWithAPI creates a client around an existing API implementation.
// A nil logger discards warnings.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient, log *logger.Logger) *PolygonClient {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &PolygonClient{
		apiClient: apiClient,
		logger:    log,
		location:  loadLocation(polygonMarketZone),
		now:       time.Now,
	}
}

// History implements Provider. Polygon has no named periods, so period and
// max requests are resolved to a date range first. Corporate actions are
// served by a different Polygon API and are not included; asking for them
// logs a warning and the series is written without those columns.
func (c *PolygonClient) History(ctx context.Context, req types.HistoryRequest) (*types.Series, error) {
	if req.Actions {
		c.logger.Warn("Polygon does not provide corporate actions, Dividends and Stock Splits are omitted",
			zap.String("ticker", req.Ticker),
		)
	}

	multiplier, timespan, err := polygonTimespan(req.Interval)
	if err != nil {
		return nil, err
	}

	start, end, err := requestWindow(req, c.now())
	if err != nil {
		return nil, err
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     req.Ticker,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(start),
		// To is inclusive on Polygon's side
		To: models.Millis(end.Add(-time.Millisecond)),
	}.WithAdjusted(req.AutoAdjust).WithLimit(50000)

	iter := c.apiClient.ListAggs(ctx, params)
	series := types.NewSeries(req.Ticker, types.ColumnOpen, types.ColumnHigh, types.ColumnLow, types.ColumnClose, types.ColumnVolume)

	for iter.Next() {
		agg := iter.Item()
		t := floorToDay(time.Time(agg.Timestamp), req.Interval, c.location)

		err = series.Append(t,
			types.Value(decimal.NewFromFloat(agg.Open)),
			types.Value(decimal.NewFromFloat(agg.High)),
			types.Value(decimal.NewFromFloat(agg.Low)),
			types.Value(decimal.NewFromFloat(agg.Close)),
			types.Value(decimal.NewFromFloat(agg.Volume)),
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeColumnMismatch, "failed to append aggregate", err)
		}
	}

	if iter.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "error iterating polygon aggregates", iter.Err())
	}

	return series, nil
}

// polygonTimespan maps an interval onto Polygon's multiplier and timespan.
func polygonTimespan(interval types.Interval) (int, models.Timespan, error) {
	switch interval {
	case types.IntervalOneMinute:
		return 1, models.Minute, nil
	case types.IntervalTwoMinutes:
		return 2, models.Minute, nil
	case types.IntervalFiveMinutes:
		return 5, models.Minute, nil
	case types.IntervalFifteenMinutes:
		return 15, models.Minute, nil
	case types.IntervalThirtyMinutes:
		return 30, models.Minute, nil
	case types.IntervalSixtyMinutes, types.IntervalOneHour:
		return 1, models.Hour, nil
	case types.IntervalNinetyMinutes:
		return 90, models.Minute, nil
	case types.IntervalOneDay:
		return 1, models.Day, nil
	case types.IntervalFiveDays:
		return 5, models.Day, nil
	case types.IntervalOneWeek:
		return 1, models.Week, nil
	case types.IntervalOneMonth:
		return 1, models.Month, nil
	case types.IntervalThreeMonths:
		return 1, models.Quarter, nil
	default:
		return 0, "", errors.Newf(errors.ErrCodeUnsupportedInterval, "unsupported interval for Polygon: %s", interval)
	}
}
