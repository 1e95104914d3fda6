// Package strategy runs the EMA / PSAR / ADX signal strategy end to end:
// validate the config and the bars, build the indicator table, then
// evaluate the signal gates.
package strategy

import (
	"time"

	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/signal"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"go.uber.org/zap"
)

// Name identifies the strategy in logs and output files.
const Name = "ema_psar_adx"

// Result is the full output of one run.
type Result struct {
	Indicators  types.IndicatorTable
	Evaluations []signal.Evaluation
	Signals     types.SignalSeries
}

// Triggered returns only the rows with a buy or sell flag.
func (r Result) Triggered() types.SignalSeries {
	return r.Signals.Triggered()
}

// Compute validates cfg and series and returns the indicators and signals.
// It is a pure function of its inputs.
func Compute(series types.PriceSeries, cfg Config) (Result, error) {
	return compute(series, cfg, nil)
}

func compute(series types.PriceSeries, cfg Config, registry indicator.IndicatorRegistry) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	if err := series.Validate(); err != nil {
		return Result{}, err
	}

	table, err := indicator.NewIndicatorEngine(registry, cfg.Params()).Compute(series)
	if err != nil {
		return Result{}, err
	}

	evaluations, err := signal.NewSignalEngine(cfg.StrengthThreshold).Evaluate(series, table)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Indicators:  table,
		Evaluations: evaluations,
		Signals:     signal.Signals(evaluations),
	}, nil
}

// Strategy binds a validated config to a logger and an indicator registry.
type Strategy struct {
	config   Config
	registry indicator.IndicatorRegistry
	log      *logger.Logger
}

// NewStrategy validates cfg and logs its warnings. A nil log discards output.
func NewStrategy(cfg Config, log *logger.Logger) (*Strategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	for _, warning := range cfg.Warnings() {
		log.Warn("Suspicious strategy config", zap.String("strategy", Name), zap.String("warning", warning))
	}

	return &Strategy{
		config:   cfg,
		registry: indicator.NewDefaultRegistry(),
		log:      log,
	}, nil
}

// Name returns the strategy name.
func (s *Strategy) Name() string {
	return Name
}

// Config returns the strategy config.
func (s *Strategy) Config() Config {
	return s.config
}

// Run computes the strategy over one series.
func (s *Strategy) Run(series types.PriceSeries) (Result, error) {
	start := time.Now()

	result, err := compute(series, s.config, s.registry)
	if err != nil {
		s.log.Error("Strategy run failed", zap.Int("bars", len(series)), zap.Error(err))

		return Result{}, err
	}

	triggered := result.Triggered()
	s.log.Debug("Strategy run finished",
		zap.Int("bars", len(series)),
		zap.Int("signals", len(triggered)),
		zap.Duration("elapsed", time.Since(start)),
	)

	for _, row := range triggered {
		s.log.Info("Signal",
			zap.Time("time", row.Time),
			zap.String("type", string(row.Type())),
		)
	}

	return result, nil
}
