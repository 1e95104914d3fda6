package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOptional(t *testing.T) {
	var undefined Value = optional.None[float64]()
	assert.True(t, undefined.IsNone())

	defined := optional.Some(1.5)
	assert.True(t, defined.IsSome())

	v, err := defined.Take()
	require.NoError(t, err)
	assert.InDelta(t, 1.5, v, 1e-12)
}

func TestIndicatorRowJSON(t *testing.T) {
	row := IndicatorRow{
		Time:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ShortEMA: optional.Some(101.0),
		LongEMA:  optional.Some(100.0),
		PSAR:     optional.None[float64](),
		ADX:      optional.None[float64](),
		ADXPos:   optional.None[float64](),
		ADXNeg:   optional.None[float64](),
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.InDelta(t, 101.0, decoded["short_ema"], 1e-12)
	assert.Nil(t, decoded["psar"])
	assert.Contains(t, decoded, "adx_pos")
}
