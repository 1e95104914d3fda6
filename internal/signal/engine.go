// Package signal turns an indicator table into buy and sell flags.
//
// Three gates are combined per bar:
//   - trend bias from the short and long EMA (short below long allows buys,
//     short above long allows sells),
//   - PSAR position flips (price crossing its stop),
//   - a strength filter on ADX and the opposing directional indicator.
//
// Undefined indicator cells never satisfy a gate.
package signal

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// DefaultStrengthThreshold is the minimum ADX or DI that confirms a reversal.
const DefaultStrengthThreshold = 22.5

// Evaluation exposes every intermediate gate for one bar.
type Evaluation struct {
	Time        time.Time
	Bias        optional.Option[types.Direction]
	Position    optional.Option[types.Direction]
	RawBuy      bool
	RawSell     bool
	AllowedBuy  bool
	AllowedSell bool
}

// Signal returns the final flags of the bar.
func (e Evaluation) Signal() types.SignalRow {
	return types.SignalRow{
		Time:       e.Time,
		BuySignal:  e.RawBuy && e.AllowedBuy,
		SellSignal: e.RawSell && e.AllowedSell,
	}
}

// SignalEngine derives signals from a price series and its indicator table.
type SignalEngine struct {
	threshold float64
}

// NewSignalEngine creates an engine using the given strength threshold.
func NewSignalEngine(threshold float64) *SignalEngine {
	return &SignalEngine{threshold: threshold}
}

// signalState carries the previous bar's comparisons.
type signalState struct {
	prevRawBias     optional.Option[types.Direction]
	prevRawPosition optional.Option[types.Direction]
	prevPosition    optional.Option[types.Direction]
}

type signalInput struct {
	bar types.MarketData
	row types.IndicatorRow
}

// Evaluate computes the gates for every bar.
func (e *SignalEngine) Evaluate(series types.PriceSeries, table types.IndicatorTable) ([]Evaluation, error) {
	if len(series) != len(table) {
		return nil, errors.Newf(errors.ErrCodeSeriesLengthMismatch,
			"price series has %d bars but indicator table has %d rows", len(series), len(table))
	}

	inputs := make([]signalInput, len(series))
	for i := range series {
		inputs[i] = signalInput{bar: series[i], row: table[i]}
	}

	evaluations, _ := indicator.Scan(inputs, signalState{}, e.step)

	return evaluations, nil
}

// Generate computes the final signal series.
func (e *SignalEngine) Generate(series types.PriceSeries, table types.IndicatorTable) (types.SignalSeries, error) {
	evaluations, err := e.Evaluate(series, table)
	if err != nil {
		return nil, err
	}

	return Signals(evaluations), nil
}

// Signals extracts the final flags from evaluations.
func Signals(evaluations []Evaluation) types.SignalSeries {
	out := make(types.SignalSeries, len(evaluations))
	for i, ev := range evaluations {
		out[i] = ev.Signal()
	}

	return out
}

func (e *SignalEngine) step(s signalState, in signalInput) (signalState, Evaluation) {
	row := in.row
	closeValue := optional.Some(in.bar.Close)

	rawBias := compare(row.ShortEMA, row.LongEMA)
	bias := rawBias
	// Equal EMAs keep the previous bar's comparison, but only while the
	// short EMA is positive.
	if equal(row.ShortEMA, row.LongEMA) && greaterThanZero(row.ShortEMA) {
		bias = s.prevRawBias
	}

	rawPosition := compare(row.PSAR, closeValue)
	position := rawPosition
	// A stop above a positive close keeps the previous bar's comparison.
	if greater(row.PSAR, closeValue) && in.bar.Close > 0 {
		position = s.prevRawPosition
	}

	rawBuy := is(position, types.DirectionUp) && is(s.prevPosition, types.DirectionDown) &&
		(atLeast(row.ADX, e.threshold) || atLeast(row.ADXNeg, e.threshold))
	rawSell := is(position, types.DirectionDown) && is(s.prevPosition, types.DirectionUp) &&
		(atLeast(row.ADX, e.threshold) || atLeast(row.ADXPos, e.threshold))

	next := signalState{
		prevRawBias:     rawBias,
		prevRawPosition: rawPosition,
		prevPosition:    position,
	}

	return next, Evaluation{
		Time:        in.bar.Time,
		Bias:        bias,
		Position:    position,
		RawBuy:      rawBuy,
		RawSell:     rawSell,
		AllowedBuy:  is(bias, types.DirectionUp),
		AllowedSell: is(bias, types.DirectionDown),
	}
}

// compare returns Up when lhs < rhs, Down when lhs > rhs and None when the
// two are equal or either is undefined.
func compare(lhs, rhs types.Value) optional.Option[types.Direction] {
	if lhs.IsNone() || rhs.IsNone() {
		return optional.None[types.Direction]()
	}

	switch l, r := lhs.Unwrap(), rhs.Unwrap(); {
	case l < r:
		return optional.Some(types.DirectionUp)
	case l > r:
		return optional.Some(types.DirectionDown)
	default:
		return optional.None[types.Direction]()
	}
}

func equal(lhs, rhs types.Value) bool {
	return lhs.IsSome() && rhs.IsSome() && lhs.Unwrap() == rhs.Unwrap()
}

func greater(lhs, rhs types.Value) bool {
	return lhs.IsSome() && rhs.IsSome() && lhs.Unwrap() > rhs.Unwrap()
}

func greaterThanZero(v types.Value) bool {
	return v.IsSome() && v.Unwrap() > 0
}

func atLeast(v types.Value, threshold float64) bool {
	return v.IsSome() && v.Unwrap() >= threshold
}

func is(d optional.Option[types.Direction], want types.Direction) bool {
	return d.IsSome() && d.Unwrap() == want
}
