package indicator

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// PSAR implements the Parabolic Stop And Reverse.
type PSAR struct {
	step    float64
	maxStep float64
}

// NewPSAR creates a new PSAR indicator with default configuration.
func NewPSAR() Indicator {
	return &PSAR{
		step:    0.02,
		maxStep: 0.2,
	}
}

// Name returns the name of the indicator.
func (p *PSAR) Name() types.IndicatorType {
	return types.IndicatorTypePSAR
}

// Config configures the PSAR indicator. Expected parameters: step (float64), maxStep (float64).
func (p *PSAR) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: step (float64), maxStep (float64)")
	}

	step, ok := params[0].(float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for step parameter, expected float64")
	}

	maxStep, ok := params[1].(float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for maxStep parameter, expected float64")
	}

	if step <= 0 || maxStep <= 0 {
		return errors.Newf(errors.ErrCodeInvalidStep, "step and maxStep must be positive, got %v and %v", step, maxStep)
	}

	if maxStep < step {
		return errors.Newf(errors.ErrCodeInvalidStep, "maxStep %v must not be below step %v", maxStep, step)
	}

	p.step = step
	p.maxStep = maxStep

	return nil
}

// WarmUp implements Indicator.
func (p *PSAR) WarmUp() int {
	return 2
}

// psarState is carried from bar to bar.
type psarState struct {
	trend types.Direction
	af    float64 // acceleration factor
	ep    float64 // extreme point: highest high in an uptrend, lowest low in a downtrend
	sar   float64
}

// psarWindow is the current bar with the two bars before it.
type psarWindow struct {
	prev2 types.MarketData
	prev  types.MarketData
	cur   types.MarketData
}

// Calculate implements Indicator. Bars 0 and 1 are undefined; bar 1 seeds
// the trend from the first close to close movement.
func (p *PSAR) Calculate(series types.PriceSeries) (Output, error) {
	out := make([]types.Value, len(series))
	if len(series) < 3 {
		return Output{ColumnPSAR: out}, nil
	}

	windows := make([]psarWindow, 0, len(series)-2)
	for t := 2; t < len(series); t++ {
		windows = append(windows, psarWindow{prev2: series[t-2], prev: series[t-1], cur: series[t]})
	}

	sars, _ := Scan(windows, p.seed(series[0], series[1]), p.advance)
	for i, sar := range sars {
		out[i+2] = optional.Some(sar)
	}

	return Output{ColumnPSAR: out}, nil
}

func (p *PSAR) seed(first, second types.MarketData) psarState {
	if second.Close >= first.Close {
		return psarState{
			trend: types.DirectionUp,
			af:    p.step,
			ep:    math.Max(first.High, second.High),
			sar:   math.Min(first.Low, second.Low),
		}
	}

	return psarState{
		trend: types.DirectionDown,
		af:    p.step,
		ep:    math.Min(first.Low, second.Low),
		sar:   math.Max(first.High, second.High),
	}
}

func (p *PSAR) advance(s psarState, w psarWindow) (psarState, float64) {
	sar := s.sar + s.af*(s.ep-s.sar)

	if s.trend == types.DirectionUp {
		sar = math.Min(sar, math.Min(w.prev.Low, w.prev2.Low))

		if w.cur.Low < sar {
			return psarState{trend: types.DirectionDown, af: p.step, ep: w.cur.Low, sar: s.ep}, s.ep
		}

		next := psarState{trend: types.DirectionUp, af: s.af, ep: s.ep, sar: sar}
		if w.cur.High > s.ep {
			next.ep = w.cur.High
			next.af = math.Min(s.af+p.step, p.maxStep)
		}

		return next, sar
	}

	sar = math.Max(sar, math.Max(w.prev.High, w.prev2.High))

	if w.cur.High > sar {
		return psarState{trend: types.DirectionUp, af: p.step, ep: w.cur.High, sar: s.ep}, s.ep
	}

	next := psarState{trend: types.DirectionDown, af: s.af, ep: s.ep, sar: sar}
	if w.cur.Low < s.ep {
		next.ep = w.cur.Low
		next.af = math.Min(s.af+p.step, p.maxStep)
	}

	return next, sar
}
