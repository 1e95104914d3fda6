package indicator

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/stretchr/testify/suite"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// bars builds a series from (high, low, close) triples.
func bars(hlc ...[3]float64) types.PriceSeries {
	series := make(types.PriceSeries, len(hlc))
	for i, v := range hlc {
		series[i] = types.MarketData{
			Symbol: "TEST",
			Time:   testStart.Add(time.Duration(i) * time.Hour),
			Open:   v[2],
			High:   v[0],
			Low:    v[1],
			Close:  v[2],
		}
	}

	return series
}

// linearSeries has close = base + slope*t with a fixed half spread.
func linearSeries(n int, base, slope, spread float64) types.PriceSeries {
	hlc := make([][3]float64, n)
	for t := range hlc {
		c := base + slope*float64(t)
		hlc[t] = [3]float64{c + spread, c - spread, c}
	}

	return bars(hlc...)
}

// assertValues compares a column against expected values where NaN marks an undefined cell.
func assertValues(s *suite.Suite, expected []float64, actual []types.Value) {
	s.Require().Len(actual, len(expected))

	for i, want := range expected {
		if math.IsNaN(want) {
			s.True(actual[i].IsNone(), "index %d should be undefined", i)

			continue
		}

		s.Require().True(actual[i].IsSome(), "index %d should be defined", i)
		s.InDelta(want, actual[i].Unwrap(), 1e-9, "index %d", i)
	}
}
