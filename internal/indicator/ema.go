package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// EMA indicator implements Exponential Moving Average calculation over the close.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &EMA{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: period (int).
func (e *EMA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	e.period = period

	return nil
}

// WarmUp implements Indicator.
func (e *EMA) WarmUp() int {
	return e.period - 1
}

// Calculate implements Indicator.
func (e *EMA) Calculate(series types.PriceSeries) (Output, error) {
	return Output{ColumnEMA: ExponentialMovingAverage(series.Closes(), e.period)}, nil
}

type emaState struct {
	value  float64
	seeded bool
}

// ExponentialMovingAverage returns the EMA of values with alpha = 2/(period+1).
// The first value seeds the recurrence, and indices before period-1 are
// undefined. A period outside [1, len(values)] leaves every value undefined.
func ExponentialMovingAverage(values []float64, period int) []types.Value {
	out := make([]types.Value, len(values))
	if period <= 0 || period > len(values) {
		return out
	}

	alpha := 2.0 / float64(period+1)

	smoothed, _ := Scan(values, emaState{}, func(s emaState, v float64) (emaState, float64) {
		if !s.seeded {
			return emaState{value: v, seeded: true}, v
		}

		// same as alpha*v + (1-alpha)*prev, but exact when v == prev
		next := s.value + alpha*(v-s.value)

		return emaState{value: next, seeded: true}, next
	})

	for i := period - 1; i < len(values); i++ {
		out[i] = optional.Some(smoothed[i])
	}

	return out
}
