package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/janucaria/himada/internal/logger"
	"github.com/janucaria/himada/internal/settings"
	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/pkg/errors"
	"github.com/janucaria/himada/pkg/marketdata"
	"github.com/janucaria/himada/pkg/marketdata/provider"
)

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:      "download",
		Usage:     "Download one CSV file per ticker",
		ArgsUsage: "[TICKER...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "tickers",
				Aliases: []string{"t"},
				Usage:   "Tickers separated by commas or spaces (e.g. BBCA.JK,AAPL)",
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Bar interval (1m 2m 5m 15m 30m 60m 90m 1h 1d 5d 1wk 1mo 3mo)",
				Value:   string(types.IntervalOneDay),
			},
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "range, period or max; inferred from --start/--end or --period when omitted",
			},
			&cli.StringFlag{
				Name:    "period",
				Aliases: []string{"p"},
				Usage:   "Named duration for period mode (1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max)",
			},
			&cli.StringFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format (range mode)",
			},
			&cli.StringFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format, exclusive (range mode)",
			},
			&cli.BoolFlag{
				Name:  "actions",
				Usage: "Include Dividends and Stock Splits columns",
			},
			&cli.BoolFlag{
				Name:  "auto-adjust",
				Usage: "Adjust prices for splits and dividends",
				Value: true,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory, created if absent",
				Value:   settings.DefaultSettings(time.Now()).OutDir,
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: fmt.Sprintf("Data provider (%s)", strings.Join(marketdata.GetSupportedProviders(), ", ")),
				Value: string(provider.ProviderYahoo),
			},
			&cli.StringFlag{
				Name:    "polygon-api-key",
				Usage:   "API key for the polygon provider",
				Sources: cli.EnvVars("POLYGON_API_KEY"),
			},
			&cli.StringFlag{
				Name:  "yahoo-base-url",
				Usage: "Base URL of the Yahoo chart API",
				Value: provider.DefaultYahooBaseURL,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "JSON job file; replaces the download flags",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Do not draw the progress bar",
			},
		},
		Action: downloadAction,
	}
}

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := downloadConfigFromFlags(cmd, log)
	if err != nil {
		return err
	}

	// checked before the progress bar is drawn
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := writerOf(cmd)

	var onProgress provider.OnDownloadProgress

	if !cmd.Bool("no-progress") {
		errOut := cmd.Root().ErrWriter
		if errOut == nil {
			errOut = os.Stderr
		}

		bar := progressbar.NewOptions(len(cfg.Tickers),
			progressbar.OptionSetWriter(errOut),
			progressbar.OptionSetDescription("Downloading"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()

		onProgress = func(current, _ float64, message string) {
			bar.Describe(message)
			_ = bar.Set(int(current))
		}
	}

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType:  provider.ProviderType(cmd.String("provider")),
		WriterType:    marketdata.WriterCSV,
		PolygonApiKey: cmd.String("polygon-api-key"),
		Yahoo: provider.YahooConfig{
			BaseURL: cmd.String("yahoo-base-url"),
		},
	}, log, onProgress)
	if err != nil {
		return err
	}

	return client.Run(ctx, cfg, func(line string) {
		fmt.Fprintln(out, line)
	})
}

// downloadConfigFromFlags reads a job file when --config is given and
// otherwise assembles the config from the flags and positional tickers.
// With an explicit --mode only that mode's window flags are read; the
// others are ignored with a warning.
func downloadConfigFromFlags(cmd *cli.Command, log *logger.Logger) (marketdata.DownloadConfig, error) {
	if path := cmd.String("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return marketdata.DownloadConfig{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read %s", path)
		}

		cfg, err := marketdata.ParseDownloadConfig(string(data))
		if err != nil {
			return marketdata.DownloadConfig{}, err
		}

		cfg.OutDir = expandHome(cfg.OutDir)

		return *cfg, nil
	}

	raw := append(cmd.StringSlice("tickers"), cmd.Args().Slice()...)

	cfg := marketdata.DownloadConfig{
		Tickers:        marketdata.ParseTickers(strings.Join(raw, " ")),
		Interval:       types.Interval(cmd.String("interval")),
		IncludeActions: cmd.Bool("actions"),
		AutoAdjust:     cmd.Bool("auto-adjust"),
		OutDir:         expandHome(cmd.String("out")),
		Mode:           types.Mode(cmd.String("mode")),
	}

	explicit := cfg.Mode != ""
	useFlag := func(name string, mode types.Mode) (string, bool) {
		value := cmd.String(name)
		if value == "" {
			return "", false
		}

		if explicit && cfg.Mode != mode {
			log.Warn("Ignoring flag not used in this mode",
				zap.String("flag", name),
				zap.String("value", value),
				zap.String("mode", string(cfg.Mode)),
			)

			return "", false
		}

		return value, true
	}

	if start, ok := useFlag("start", types.ModeRange); ok {
		cfg.Start = optional.Some(start)
	}

	if end, ok := useFlag("end", types.ModeRange); ok {
		cfg.End = optional.Some(end)
	}

	if period, ok := useFlag("period", types.ModePeriod); ok {
		cfg.Period = optional.Some(period)
	}

	if cfg.Mode == "" {
		cfg.Mode = inferMode(cfg)
	}

	return cfg, nil
}

func inferMode(cfg marketdata.DownloadConfig) types.Mode {
	switch {
	case cfg.Start.IsSome() || cfg.End.IsSome():
		return types.ModeRange
	case cfg.Period.IsSome():
		return types.ModePeriod
	default:
		return types.ModeMax
	}
}
