package indicator

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// ADX implements Wilder's Average Directional Index together with the
// positive and negative directional indicators.
type ADX struct {
	period int
}

// NewADX creates a new ADX indicator with default configuration.
func NewADX() Indicator {
	return &ADX{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (a *ADX) Name() types.IndicatorType {
	return types.IndicatorTypeADX
}

// Config configures the ADX indicator. Expected parameters: period (int).
func (a *ADX) Config(params ...any) error {
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

	a.period = period

	return nil
}

// WarmUp implements Indicator. One period seeds the DM/TR smoothing and a
// second one seeds the DX smoothing.
func (a *ADX) WarmUp() int {
	return 2 * a.period
}

// directionalMovement is the raw per-bar input of the ADX.
type directionalMovement struct {
	plus  types.Value
	minus types.Value
	tr    types.Value
}

// Calculate implements Indicator. All three columns are undefined before
// bar 2*period; afterwards a bar is undefined only when its smoothed true
// range or DI sum is zero.
func (a *ADX) Calculate(series types.PriceSeries) (Output, error) {
	n := len(series)
	movements := directionalMovements(series)

	plusDM := make([]types.Value, n)
	minusDM := make([]types.Value, n)
	trueRange := make([]types.Value, n)

	for i, m := range movements {
		plusDM[i], minusDM[i], trueRange[i] = m.plus, m.minus, m.tr
	}

	smoothedPlus := WilderSmooth(plusDM, a.period, true)
	smoothedMinus := WilderSmooth(minusDM, a.period, true)
	smoothedTR := WilderSmooth(trueRange, a.period, true)

	plusDI := make([]types.Value, n)
	minusDI := make([]types.Value, n)
	dx := make([]types.Value, n)

	for t := 0; t < n; t++ {
		plusDI[t], minusDI[t] = directionalIndicators(smoothedPlus[t], smoothedMinus[t], smoothedTR[t])
		dx[t] = directionalIndex(plusDI[t], minusDI[t])
	}

	adx := WilderSmooth(dx, a.period, false)

	warmUp := a.WarmUp()
	for t := 0; t < n && t < warmUp; t++ {
		plusDI[t] = optional.None[float64]()
		minusDI[t] = optional.None[float64]()
		adx[t] = optional.None[float64]()
	}

	return Output{
		ColumnADX:    adx,
		ColumnADXPos: plusDI,
		ColumnADXNeg: minusDI,
	}, nil
}

// directionalMovements computes +DM, -DM and the true range. Bar 0 has no
// previous bar and stays undefined.
func directionalMovements(series types.PriceSeries) []directionalMovement {
	out := make([]directionalMovement, len(series))

	for t := 1; t < len(series); t++ {
		cur, prev := series[t], series[t-1]

		up := math.Max(cur.High-prev.High, 0)
		down := math.Max(prev.Low-cur.Low, 0)

		plus, minus := 0.0, 0.0
		if up > down {
			plus = up
		}

		if down > up {
			minus = down
		}

		tr := math.Max(cur.High-cur.Low, math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))

		out[t] = directionalMovement{
			plus:  optional.Some(plus),
			minus: optional.Some(minus),
			tr:    optional.Some(tr),
		}
	}

	return out
}

func directionalIndicators(plus, minus, tr types.Value) (types.Value, types.Value) {
	if plus.IsNone() || minus.IsNone() || tr.IsNone() || tr.Unwrap() == 0 {
		return optional.None[float64](), optional.None[float64]()
	}

	return optional.Some(100 * plus.Unwrap() / tr.Unwrap()), optional.Some(100 * minus.Unwrap() / tr.Unwrap())
}

func directionalIndex(plusDI, minusDI types.Value) types.Value {
	if plusDI.IsNone() || minusDI.IsNone() {
		return optional.None[float64]()
	}

	sum := plusDI.Unwrap() + minusDI.Unwrap()
	if sum == 0 {
		return optional.None[float64]()
	}

	return optional.Some(100 * math.Abs(plusDI.Unwrap()-minusDI.Unwrap()) / sum)
}
