package indicator

import (
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Output column names.
const (
	ColumnEMA    = "ema"
	ColumnPSAR   = "psar"
	ColumnADX    = "adx"
	ColumnADXPos = "adx_pos"
	ColumnADXNeg = "adx_neg"
)

// Output maps column names to per-bar values. Every column has exactly one
// entry per input bar.
type Output map[string][]types.Value

// Indicator interface defines methods that any technical indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config applies indicator specific parameters
	Config(params ...any) error
	// Calculate runs the indicator over the whole series in one pass
	Calculate(series types.PriceSeries) (Output, error)
	// WarmUp returns the number of leading bars that are always undefined
	WarmUp() int
}
