package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type IndicatorType string

const (
	IndicatorTypeEMA  IndicatorType = "ema"
	IndicatorTypePSAR IndicatorType = "psar"
	IndicatorTypeADX  IndicatorType = "adx"
)

// Value is an indicator cell. None marks a bar inside the warm-up period
// or a bar whose computation divided by zero.
type Value = optional.Option[float64]

// IndicatorRow holds every indicator for one bar, aligned by position
// with the price series it was computed from.
type IndicatorRow struct {
	Time     time.Time `json:"datetime"`
	ShortEMA Value     `json:"short_ema"`
	LongEMA  Value     `json:"long_ema"`
	PSAR     Value     `json:"psar"`
	ADX      Value     `json:"adx"`
	ADXPos   Value     `json:"adx_pos"`
	ADXNeg   Value     `json:"adx_neg"`
}

// IndicatorTable has one row per input bar in input order.
type IndicatorTable []IndicatorRow
