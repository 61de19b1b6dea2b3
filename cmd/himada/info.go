package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/janucaria/himada/internal/version"
	"github.com/janucaria/himada/pkg/errors"
	"github.com/janucaria/himada/pkg/marketdata"
	"github.com/janucaria/himada/pkg/marketdata/inspect"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Summarize CSV files produced by a download",
		ArgsUsage: "FILE.csv...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the summaries as JSON",
			},
		},
		Action: inspectAction,
	}
}

func inspectAction(_ context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return errors.New(errors.ErrCodeMissingParameter, "at least one CSV file is required")
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	inspector, err := inspect.NewInspector(log)
	if err != nil {
		return err
	}
	defer func() { _ = inspector.Close() }()

	summaries := make([]inspect.Summary, 0, len(paths))

	for _, path := range paths {
		summary, err := inspector.Summarize(path)
		if err != nil {
			return err
		}

		summaries = append(summaries, summary)
	}

	out := writerOf(cmd)

	if cmd.Bool("json") {
		return printJSON(out, summaries)
	}

	for _, s := range summaries {
		fmt.Fprintf(out, "%s\n  rows: %d\n  dates: %s .. %s\n  columns (%d): %s\n",
			s.Path, s.Rows, s.FirstDate, s.LastDate, len(s.Columns), strings.Join(s.Columns, ", "))
	}

	return nil
}

func providersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "List the supported data providers",
		Action: func(_ context.Context, cmd *cli.Command) error {
			out := writerOf(cmd)

			for _, name := range marketdata.GetSupportedProviders() {
				info, err := marketdata.GetProviderInfo(name)
				if err != nil {
					return err
				}

				auth := ""
				if info.RequiresAuth {
					auth = " (API key required)"
				}

				fmt.Fprintf(out, "%-8s %s%s\n         %s\n", info.Name, info.DisplayName, auth, info.Description)
			}

			return nil
		},
	}
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of a download job file",
		Action: func(_ context.Context, cmd *cli.Command) error {
			schema, err := marketdata.GetDownloadConfigSchema()
			if err != nil {
				return err
			}

			fmt.Fprintln(writerOf(cmd), schema)

			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(_ context.Context, cmd *cli.Command) error {
			fmt.Fprintln(writerOf(cmd), version.GetVersion())

			return nil
		},
	}
}

func writerOf(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func printJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
