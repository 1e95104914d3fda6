package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-signal/internal/version"
	"github.com/urfave/cli/v3"
)

const envPrefix = "ARGO_SIGNAL_"

func newApp(out io.Writer) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Strategy config `FILE` (YAML); defaults are used when omitted",
		Sources: cli.EnvVars(envPrefix + "CONFIG"),
	}
	symbolFlag := &cli.StringFlag{
		Name:    "symbol",
		Aliases: []string{"s"},
		Usage:   "Symbol to load; CSV files default to the file name, parquet files to every symbol",
		Sources: cli.EnvVars(envPrefix + "SYMBOL"),
	}
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write signals and indicators CSV files below `DIR`",
		Sources: cli.EnvVars(envPrefix + "OUTPUT"),
	}
	logLevelFlag := &cli.StringFlag{
		Name:    "log-level",
		Value:   "warn",
		Usage:   "Log level (debug, info, warn, error)",
		Sources: cli.EnvVars(envPrefix + "LOG_LEVEL"),
	}
	precisionFlag := &cli.IntFlag{
		Name:  "precision",
		Value: 6,
		Usage: "Decimals kept for indicator values in output files",
	}

	return &cli.Command{
		Name:    "signal",
		Usage:   "Generate EMA / PSAR / ADX trading signals from price bars",
		Version: version.GetVersion(),
		Writer:  out,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Compute signals for one data file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Price data `FILE` (.csv or .parquet)",
						Required: true,
						Sources:  cli.EnvVars(envPrefix + "DATA"),
					},
					configFlag,
					symbolFlag,
					outputFlag,
					logLevelFlag,
					precisionFlag,
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Print every bar instead of only the bars with a signal",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runAction(ctx, cmd, out)
				},
			},
			{
				Name:  "batch",
				Usage: "Compute signals for every file matching a glob pattern",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Glob `PATTERN` of price data files",
						Required: true,
						Sources:  cli.EnvVars(envPrefix + "DATA"),
					},
					configFlag,
					symbolFlag,
					outputFlag,
					logLevelFlag,
					precisionFlag,
					&cli.IntFlag{
						Name:  "concurrency",
						Value: 4,
						Usage: "Number of series computed at the same time",
					},
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "Hide the progress bar",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return batchAction(ctx, cmd, out)
				},
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the strategy config",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return schemaAction(out)
				},
			},
			{
				Name:  "indicators",
				Usage: "List the registered indicators",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return indicatorsAction(out)
				},
			},
		},
	}
}

func main() {
	// A missing .env file is not an error
	_ = godotenv.Load()

	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
