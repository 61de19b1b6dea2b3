package marketdata

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/janucaria/himada/internal/logger"
	"github.com/janucaria/himada/pkg/errors"
	"github.com/janucaria/himada/pkg/marketdata/provider"
	"github.com/janucaria/himada/pkg/marketdata/writer"
)

// WriterType defines the type of series writer.
type WriterType string

const (
	WriterCSV WriterType = "csv"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `validate:"required,oneof=yahoo polygon binance"`
	WriterType    WriterType            `validate:"required,oneof=csv"`
	PolygonApiKey string                `validate:"required_if=ProviderType polygon"`
	Yahoo         provider.YahooConfig
}

// WriterFactory creates the writer for the output directory of one run.
type WriterFactory func(outDir string) (writer.SeriesWriter, error)

// Client fetches series from a provider and hands them to a writer, one
// ticker at a time.
type Client struct {
	provider   provider.Provider
	newWriter  WriterFactory
	logger     *logger.Logger
	onProgress provider.OnDownloadProgress
}

// NewClient creates a new market data client with the given configuration.
// onProgress may be nil.
func NewClient(config ClientConfig, log *logger.Logger, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, provider.Config{
		PolygonApiKey: config.PolygonApiKey,
		Yahoo:         config.Yahoo,
		Logger:        log,
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidProvider, err, "failed to create %s client", config.ProviderType)
	}

	newWriter, err := setupWriter(config.WriterType, log)
	if err != nil {
		return nil, err
	}

	return NewClientWithProvider(marketProvider, newWriter, log, onProgress), nil
}

// NewClientWithProvider creates a client around an existing provider and writer factory.
func NewClientWithProvider(marketProvider provider.Provider, newWriter WriterFactory, log *logger.Logger, onProgress provider.OnDownloadProgress) *Client {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		provider:   marketProvider,
		newWriter:  newWriter,
		logger:     log,
		onProgress: onProgress,
	}
}

// Run downloads every ticker of cfg. Progress and per-ticker failures are
// reported through log only; one bad ticker never stops the batch. The
// returned error is either a configuration error, found before anything is
// touched, or a failure to create the output directory.
func (c *Client) Run(ctx context.Context, cfg DownloadConfig, log LogFunc) error {
	if log == nil {
		log = func(string) {}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeOutputDirFailed, err, "failed to create output directory %s", cfg.OutDir)
	}

	runLogger := c.logger.With(zap.String("run_id", uuid.New().String()))

	effective := cfg
	effective.Mode, effective.Period = EnforceLimits(cfg.Interval, cfg.Mode, cfg.Period, log)

	seriesWriter, err := c.newWriter(cfg.OutDir)
	if err != nil {
		return err
	}

	runLogger.Info("Starting download run",
		zap.Int("tickers", len(cfg.Tickers)),
		zap.String("interval", cfg.Interval.String()),
		zap.String("mode", effective.Mode.String()),
		zap.String("out_dir", seriesWriter.GetOutputDir()),
	)

	total := float64(len(cfg.Tickers))
	saved := 0

	for i, raw := range cfg.Tickers {
		ticker := strings.TrimSpace(raw)
		if ticker != "" && c.fetchAndSave(ctx, &effective, ticker, seriesWriter, log, runLogger) {
			saved++
		}

		if c.onProgress != nil {
			c.onProgress(float64(i+1), total, ticker)
		}
	}

	runLogger.Info("Download run finished", zap.Int("saved", saved))

	return nil
}

// fetchAndSave handles one ticker and reports whether a file was written.
// Every outcome produces exactly one line besides the fetch announcement.
func (c *Client) fetchAndSave(ctx context.Context, cfg *DownloadConfig, ticker string, seriesWriter writer.SeriesWriter, log LogFunc, runLogger *zap.Logger) bool {
	tickerLogger := runLogger.With(zap.String("ticker", ticker))

	log(fmt.Sprintf("Fetching: %s | interval=%s | mode=%s", ticker, cfg.Interval, cfg.Mode))

	series, err := c.provider.History(ctx, cfg.HistoryRequest(ticker))
	if err != nil {
		tickerLogger.Warn("Fetch failed", zap.Error(err))
		log(fmt.Sprintf("❌ Error fetching %s: %s", ticker, errors.Message(err)))

		return false
	}

	if series.IsEmpty() {
		tickerLogger.Debug("Empty series")
		log(fmt.Sprintf("⚠️ No data returned for %s.", ticker))

		return false
	}

	name := writer.FileName(ticker, cfg.Interval, cfg.FileTag())

	path, err := seriesWriter.Write(name, series)
	if err != nil {
		tickerLogger.Warn("Save failed", zap.String("file", name), zap.Error(err))
		log(fmt.Sprintf("❌ Error saving %s: %s", ticker, errors.Message(err)))

		return false
	}

	tickerLogger.Debug("Saved series", zap.String("path", path), zap.Int("rows", series.Len()))
	log("✅ Saved: " + path)

	return true
}

// setupWriter returns the factory for the configured writer type.
func setupWriter(writerType WriterType, log *logger.Logger) (WriterFactory, error) {
	switch writerType {
	case WriterCSV:
		return func(outDir string) (writer.SeriesWriter, error) {
			return writer.NewCSVWriter(outDir, log), nil
		}, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported writer type: %s", writerType)
	}
}
