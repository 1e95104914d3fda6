package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-signal/internal/datasource"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/runner"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/writer"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// setup builds the logger and the strategy shared by run and batch.
func setup(cmd *cli.Command) (*logger.Logger, *strategy.Strategy, error) {
	level, err := logger.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid log level", err)
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return nil, nil, err
	}

	cfg := strategy.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		cfg, err = strategy.LoadConfig(path)
		if err != nil {
			return nil, nil, err
		}
	}

	s, err := strategy.NewStrategy(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	return log, s, nil
}

// openSources opens every file and splits multi-symbol parquet files into one source per symbol.
func openSources(ctx context.Context, paths []string, symbol string, log *logger.Logger) ([]datasource.DataSource, error) {
	var sources []datasource.DataSource

	closeAll := func() {
		for _, s := range sources {
			s.Close()
		}
	}

	for _, path := range paths {
		if symbol != "" || strings.ToLower(filepath.Ext(path)) != ".parquet" {
			source, err := datasource.Open(path, symbol, log)
			if err != nil {
				closeAll()

				return nil, err
			}

			sources = append(sources, source)

			continue
		}

		all, err := datasource.NewDuckDBDataSource(path, "", log)
		if err != nil {
			closeAll()

			return nil, err
		}

		symbols, err := all.Symbols(ctx)
		all.Close()

		if err != nil {
			closeAll()

			return nil, err
		}

		for _, sym := range symbols {
			source, err := datasource.NewDuckDBDataSource(path, sym, log)
			if err != nil {
				closeAll()

				return nil, err
			}

			sources = append(sources, source)
		}
	}

	return sources, nil
}

func newWriter(cmd *cli.Command, runID string) (*writer.CSVWriter, error) {
	dir := cmd.String("output")
	if dir == "" {
		return nil, nil
	}

	return writer.NewCSVWriter(dir, runID, int32(cmd.Int("precision")))
}

func runAction(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	log, s, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	runID := uuid.NewString()
	opts := []runner.Option{runner.WithConcurrency(1), runner.WithRunID(runID)}

	w, err := newWriter(cmd, runID)
	if err != nil {
		return err
	}

	if w != nil {
		defer w.Close()

		opts = append(opts, runner.WithWriter(w))
	}

	sources, err := openSources(ctx, []string{cmd.String("data")}, cmd.String("symbol"), log)
	if err != nil {
		return err
	}

	results, err := runner.NewRunner(s, log, opts...).Run(ctx, sources)
	if err != nil {
		return err
	}

	for _, res := range results {
		fmt.Fprintln(out, TitleStyle.Render(res.Symbol))
		fmt.Fprintln(out, RenderResult(res.Result, cmd.Bool("all")))
	}

	if w != nil {
		fmt.Fprintln(out, HelpStyle.Render("Results written to "+w.RunDir()))
	}

	return nil
}

func batchAction(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	log, s, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	paths, err := filepath.Glob(cmd.String("data"))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid glob pattern", err)
	}

	if len(paths) == 0 {
		return errors.Newf(errors.ErrCodeDataNotFound, "no files match %s", cmd.String("data"))
	}

	sort.Strings(paths)

	runID := uuid.NewString()
	opts := []runner.Option{runner.WithConcurrency(int(cmd.Int("concurrency"))), runner.WithRunID(runID)}

	w, err := newWriter(cmd, runID)
	if err != nil {
		return err
	}

	if w != nil {
		defer w.Close()

		opts = append(opts, runner.WithWriter(w))
	}

	sources, err := openSources(ctx, paths, cmd.String("symbol"), log)
	if err != nil {
		return err
	}

	if !cmd.Bool("no-progress") {
		bar := progressbar.NewOptions(len(sources),
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("Computing signals"),
			progressbar.OptionShowCount(),
		)
		defer bar.Finish() //nolint:errcheck

		opts = append(opts, runner.WithProgress(func(done, total int) {
			_ = bar.Set(done)
		}))
	}

	results, err := runner.NewRunner(s, log, opts...).Run(ctx, sources)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderSummary(results))

	if w != nil {
		fmt.Fprintln(out, HelpStyle.Render("Results written to "+w.RunDir()))
	}

	return nil
}

func schemaAction(out io.Writer) error {
	cfg := strategy.DefaultConfig()

	schemaJSON, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, schemaJSON)

	return nil
}

func indicatorsAction(out io.Writer) error {
	registry := indicator.NewDefaultRegistry()

	for _, name := range registry.ListIndicators() {
		ind, err := registry.NewIndicator(name)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s (warm-up %d bars with default parameters)\n", name, ind.WarmUp())
	}

	return nil
}
