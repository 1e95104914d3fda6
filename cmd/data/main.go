package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/urfave/cli/v3"
)

func browseAction(ctx context.Context, cmd *cli.Command) error {
	cfg := strategy.DefaultConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := strategy.LoadConfig(path)
		if err != nil {
			return err
		}

		cfg = loaded
	}

	program := tea.NewProgram(NewModel(cfg, cmd.String("data")), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()

	return err
}

func main() {
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "data",
		Usage: "Browse price bars with their indicators and signals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Price data `FILE` (.csv or .parquet) to open on start",
				Sources: cli.EnvVars("ARGO_SIGNAL_DATA"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Strategy config `FILE` (YAML)",
				Sources: cli.EnvVars("ARGO_SIGNAL_CONFIG"),
			},
		},
		Action: browseAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
