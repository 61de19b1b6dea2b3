package provider

import (
	"context"

	"github.com/janucaria/himada/internal/logger"
	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderYahoo   ProviderType = "yahoo"
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

type OnDownloadProgress = func(current float64, total float64, message string)

type Provider interface {
	// History fetches the historical series described by req. An unknown
	// ticker or unsupported interval is an error; a valid request that
	// matches no bars returns an empty series.
	// example:
	// History(ctx, types.NewMaxRequest("BBCA.JK", types.IntervalOneDay, false, true))
	History(ctx context.Context, req types.HistoryRequest) (*types.Series, error)
}

// Config carries the settings a provider may need.
type Config struct {
	PolygonApiKey string
	Yahoo         YahooConfig
	// Logger receives provider warnings; nil discards them
	Logger *logger.Logger
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
func NewMarketDataProvider(providerType ProviderType, config Config) (Provider, error) {
	switch providerType {
	case ProviderYahoo:
		return NewYahooClient(config.Yahoo), nil
	case ProviderPolygon:
		return NewPolygonClient(config.PolygonApiKey, config.Logger)
	case ProviderBinance:
		return NewBinanceClient()
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
