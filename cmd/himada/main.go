package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/janucaria/himada/internal/logger"
	"github.com/janucaria/himada/internal/version"
	"github.com/janucaria/himada/pkg/errors"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "himada",
		Usage:   "Download historical market data to one CSV file per ticker",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Diagnostic log level (debug, info, warn, error)",
				Value: "warn",
			},
		},
		Action: tuiAction,
		Commands: []*cli.Command{
			tuiCommand(),
			downloadCommand(),
			inspectCommand(),
			providersCommand(),
			schemaCommand(),
			versionCommand(),
		},
	}
}

// newLogger builds the diagnostic logger from the --log-level flag.
func newLogger(cmd *cli.Command) (*logger.Logger, error) {
	return logger.NewLogger(cmd.String("log-level"))
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errors.Message(err))
		os.Exit(1)
	}
}
