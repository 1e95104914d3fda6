package indicator

import (
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// Params selects the windows and acceleration factors of the indicator set.
type Params struct {
	ShortEMAPeriod int
	LongEMAPeriod  int
	PSARStep       float64
	PSARMaxStep    float64
	ADXPeriod      int
}

// IndicatorEngine computes the short and long EMA, the PSAR and the ADX
// family over one price series and aligns them into a table.
type IndicatorEngine struct {
	registry IndicatorRegistry
	params   Params
}

// NewIndicatorEngine creates an engine drawing its indicators from registry.
// A nil registry falls back to NewDefaultRegistry.
func NewIndicatorEngine(registry IndicatorRegistry, params Params) *IndicatorEngine {
	if registry == nil {
		registry = NewDefaultRegistry()
	}

	return &IndicatorEngine{
		registry: registry,
		params:   params,
	}
}

// Compute runs every indicator over series. Each call builds new indicator
// instances, so an engine may be shared by goroutines working on different series.
func (e *IndicatorEngine) Compute(series types.PriceSeries) (types.IndicatorTable, error) {
	shortEMA, err := e.run(series, types.IndicatorTypeEMA, e.params.ShortEMAPeriod)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIndicatorCalculation, "short ema", err)
	}

	longEMA, err := e.run(series, types.IndicatorTypeEMA, e.params.LongEMAPeriod)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIndicatorCalculation, "long ema", err)
	}

	psar, err := e.run(series, types.IndicatorTypePSAR, e.params.PSARStep, e.params.PSARMaxStep)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIndicatorCalculation, "psar", err)
	}

	adx, err := e.run(series, types.IndicatorTypeADX, e.params.ADXPeriod)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIndicatorCalculation, "adx", err)
	}

	columns := []struct {
		out  Output
		name string
	}{
		{shortEMA, ColumnEMA},
		{longEMA, ColumnEMA},
		{psar, ColumnPSAR},
		{adx, ColumnADX},
		{adx, ColumnADXPos},
		{adx, ColumnADXNeg},
	}

	for _, c := range columns {
		if len(c.out[c.name]) != len(series) {
			return nil, errors.Newf(errors.ErrCodeSeriesLengthMismatch,
				"column %s has %d values for %d bars", c.name, len(c.out[c.name]), len(series))
		}
	}

	table := make(types.IndicatorTable, len(series))
	for i, bar := range series {
		table[i] = types.IndicatorRow{
			Time:     bar.Time,
			ShortEMA: shortEMA[ColumnEMA][i],
			LongEMA:  longEMA[ColumnEMA][i],
			PSAR:     psar[ColumnPSAR][i],
			ADX:      adx[ColumnADX][i],
			ADXPos:   adx[ColumnADXPos][i],
			ADXNeg:   adx[ColumnADXNeg][i],
		}
	}

	return table, nil
}

func (e *IndicatorEngine) run(series types.PriceSeries, name types.IndicatorType, params ...any) (Output, error) {
	ind, err := e.registry.NewIndicator(name)
	if err != nil {
		return nil, err
	}

	if err := ind.Config(params...); err != nil {
		return nil, err
	}

	return ind.Calculate(series)
}
