// Package runner applies a strategy to many data sources concurrently.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-signal/internal/datasource"
	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/version"
	"github.com/rxtech-lab/argo-signal/internal/writer"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of series computed at the same time.
const DefaultConcurrency = 4

// ProgressFunc is called after each series with the number finished so far.
type ProgressFunc func(done, total int)

// SeriesResult is the output for one data source.
type SeriesResult struct {
	Symbol string
	Result strategy.Result
}

// Runner computes a strategy over a set of data sources.
type Runner struct {
	strategy    *strategy.Strategy
	log         *logger.Logger
	concurrency int
	progress    ProgressFunc
	writer      writer.ResultWriter
	metrics     *Metrics
	runID       string
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency limits the number of series computed at the same time.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithProgress registers a progress callback. It may be called from several goroutines, one call at a time.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithWriter persists every result and a run summary.
func WithWriter(w writer.ResultWriter) Option {
	return func(r *Runner) {
		r.writer = w
	}
}

// WithMetrics records run metrics.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// NewRunner creates a runner for s.
func NewRunner(s *strategy.Strategy, log *logger.Logger, opts ...Option) *Runner {
	if log == nil {
		log = logger.NewNopLogger()
	}

	r := &Runner{
		strategy:    s,
		log:         log,
		concurrency: DefaultConcurrency,
		metrics:     NewMetrics(nil),
		runID:       uuid.NewString(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RunID identifies the run in logs and output directories.
func (r *Runner) RunID() string {
	return r.runID
}

// Run loads and computes every source. Results keep the order of sources.
// The first failure cancels the remaining work and is returned. Every
// source is closed before Run returns.
func (r *Runner) Run(ctx context.Context, sources []datasource.DataSource) ([]SeriesResult, error) {
	startedAt := time.Now()
	results := make([]SeriesResult, len(sources))

	r.log.Info("Starting run",
		zap.String("run_id", r.runID),
		zap.String("strategy", r.strategy.Name()),
		zap.Int("series", len(sources)),
		zap.Int("concurrency", r.concurrency),
	)

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, source := range sources {
		g.Go(func() error {
			defer source.Close()

			result, err := r.runOne(gctx, source)
			if err != nil {
				r.metrics.observeFailure()
				r.log.Error("Series failed", zap.String("run_id", r.runID), zap.String("symbol", source.Symbol()), zap.Error(err))

				return errors.Wrapf(errors.GetCode(err), err, "series %s failed", source.Symbol())
			}

			results[i] = result

			mu.Lock()
			done++
			if r.progress != nil {
				r.progress(done, len(sources))
			}
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.writer != nil {
		if err := r.writeSummary(startedAt, results); err != nil {
			return nil, err
		}
	}

	r.log.Info("Run finished",
		zap.String("run_id", r.runID),
		zap.Duration("elapsed", time.Since(startedAt)),
	)

	return results, nil
}

func (r *Runner) runOne(ctx context.Context, source datasource.DataSource) (SeriesResult, error) {
	series, err := source.Load(ctx)
	if err != nil {
		return SeriesResult{}, err
	}

	if err := ctx.Err(); err != nil {
		return SeriesResult{}, err
	}

	start := time.Now()

	result, err := r.strategy.Run(series)
	if err != nil {
		return SeriesResult{}, err
	}

	summary := writer.NewSymbolSummary(source.Symbol(), result)
	r.metrics.observeSuccess(summary.BuySignals, summary.SellSignals, time.Since(start).Seconds())

	if r.writer != nil {
		if err := r.writer.WriteResult(source.Symbol(), result); err != nil {
			return SeriesResult{}, err
		}
	}

	return SeriesResult{Symbol: source.Symbol(), Result: result}, nil
}

func (r *Runner) writeSummary(startedAt time.Time, results []SeriesResult) error {
	summary := writer.Summary{
		RunID:     r.runID,
		Strategy:  r.strategy.Name(),
		Version:   version.GetVersion(),
		Config:    r.strategy.Config(),
		StartedAt: startedAt.UTC(),
		Symbols:   make([]writer.SymbolSummary, len(results)),
	}

	for i, res := range results {
		summary.Symbols[i] = writer.NewSymbolSummary(res.Symbol, res.Result)
	}

	return r.writer.WriteSummary(summary)
}
