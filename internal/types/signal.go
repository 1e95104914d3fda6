package types

import "time"

type SignalType string

const (
	// SignalTypeBuyLong is a signal that tells the strategy to enter long
	SignalTypeBuyLong SignalType = "buy_long"
	// SignalTypeSellShort is a signal that tells the strategy to enter short
	SignalTypeSellShort SignalType = "sell_short"
	// SignalTypeNoAction is a signal that tells the strategy to take no action
	SignalTypeNoAction SignalType = "no_action"
)

// Direction is a signed side used for the trend bias and the PSAR position.
type Direction int8

const (
	DirectionUp   Direction = 1
	DirectionDown Direction = -1
)

// SignalRow is the decision for one bar. BuySignal and SellSignal are
// never both true.
type SignalRow struct {
	Time       time.Time `json:"datetime"`
	BuySignal  bool      `json:"buy_signal"`
	SellSignal bool      `json:"sell_signal"`
}

// Type maps the row to a signal type.
func (s SignalRow) Type() SignalType {
	switch {
	case s.BuySignal:
		return SignalTypeBuyLong
	case s.SellSignal:
		return SignalTypeSellShort
	default:
		return SignalTypeNoAction
	}
}

// Triggered reports whether either flag is set.
func (s SignalRow) Triggered() bool {
	return s.BuySignal || s.SellSignal
}

// SignalSeries has one row per input bar in input order.
type SignalSeries []SignalRow

// Triggered returns the rows carrying a buy or sell flag, keeping order.
func (s SignalSeries) Triggered() SignalSeries {
	out := make(SignalSeries, 0)

	for _, row := range s {
		if row.Triggered() {
			out = append(out, row)
		}
	}

	return out
}
