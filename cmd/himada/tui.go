package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/janucaria/himada/internal/settings"
	"github.com/janucaria/himada/pkg/marketdata"
	"github.com/janucaria/himada/pkg/marketdata/provider"
)

func tuiCommand() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Open the interactive download form (default)",
		Action: tuiAction,
	}
}

func tuiAction(_ context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	path, err := settings.DefaultPath()
	if err != nil {
		return err
	}

	store := settings.NewStore(path, log)

	values, err := store.Load()
	if err != nil {
		return err
	}

	log.Debug("Loaded settings", zap.String("path", path))

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType:  provider.ProviderType(values.Provider),
		WriterType:    marketdata.WriterCSV,
		PolygonApiKey: os.Getenv("POLYGON_API_KEY"),
	}, log, nil)
	if err != nil {
		return err
	}

	program := tea.NewProgram(NewModel(*values, store, client), tea.WithAltScreen())
	_, err = program.Run()

	return err
}
