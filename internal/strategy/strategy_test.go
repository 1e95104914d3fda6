package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type StrategyTestSuite struct {
	suite.Suite
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

var baseTime = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

// barsFromCloses builds one-minute bars with a fixed half-point range around each close.
func barsFromCloses(closes []float64) types.PriceSeries {
	series := make(types.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = types.MarketData{
			Symbol: "TEST",
			Time:   baseTime.Add(time.Duration(i) * time.Minute),
			Open:   c,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
		}
	}

	return series
}

// peakSeries rises by one per bar up to index 149 and falls by one per bar afterwards.
func peakSeries() types.PriceSeries {
	closes := make([]float64, 300)
	for t := range closes {
		if t <= 149 {
			closes[t] = 100 + float64(t)
		} else {
			closes[t] = 249 - float64(t-149)
		}
	}

	return barsFromCloses(closes)
}

func risingSeries(n int) types.PriceSeries {
	closes := make([]float64, n)
	for t := range closes {
		closes[t] = 100 + float64(t)
	}

	return barsFromCloses(closes)
}

func (suite *StrategyTestSuite) TestPeakProducesSingleSell() {
	series := peakSeries()

	result, err := Compute(series, DefaultConfig())
	suite.Require().NoError(err)
	suite.Len(result.Signals, len(series))
	suite.Len(result.Indicators, len(series))
	suite.Len(result.Evaluations, len(series))

	triggered := result.Triggered()
	suite.Require().Len(triggered, 1)
	suite.True(triggered[0].SellSignal)
	suite.False(triggered[0].BuySignal)
	suite.Equal(series[153].Time, triggered[0].Time)
	suite.Equal(types.SignalTypeSellShort, triggered[0].Type())

	for i, row := range result.Signals {
		suite.False(row.BuySignal, "unexpected buy at bar %d", i)
	}
}

func (suite *StrategyTestSuite) TestPeakIndicatorsAtSignalBar() {
	result, err := Compute(peakSeries(), DefaultConfig())
	suite.Require().NoError(err)

	row := result.Indicators[153]
	suite.Require().True(row.ShortEMA.IsSome())
	suite.Require().True(row.LongEMA.IsSome())
	suite.Greater(row.ShortEMA.Unwrap(), row.LongEMA.Unwrap())
	suite.Require().True(row.ADX.IsSome())
	suite.GreaterOrEqual(row.ADX.Unwrap(), DefaultConfig().StrengthThreshold)

	// The stop jumps above price on the reversal bar.
	suite.Require().True(result.Indicators[152].PSAR.IsSome())
	suite.Greater(result.Indicators[152].PSAR.Unwrap(), peakSeries()[152].Close)
	suite.Less(result.Indicators[151].PSAR.Unwrap(), peakSeries()[151].Close)
}

func (suite *StrategyTestSuite) TestRisingSeriesHasNoSignals() {
	result, err := Compute(risingSeries(300), DefaultConfig())
	suite.Require().NoError(err)
	suite.Empty(result.Triggered())
}

func (suite *StrategyTestSuite) TestDeterministic() {
	series := peakSeries()

	first, err := Compute(series, DefaultConfig())
	suite.Require().NoError(err)

	second, err := Compute(series, DefaultConfig())
	suite.Require().NoError(err)

	suite.Equal(first.Signals, second.Signals)
	suite.Equal(first.Indicators, second.Indicators)
}

func (suite *StrategyTestSuite) TestBuyAndSellAreExclusive() {
	closes := make([]float64, 400)
	for t := range closes {
		closes[t] = 200 + 30*math.Sin(float64(t)/15) + 5*math.Sin(float64(t)/3)
	}

	cfg := DefaultConfig()
	cfg.ShortEMAPeriod = 10
	cfg.LongEMAPeriod = 30
	cfg.StrengthThreshold = 0

	result, err := Compute(barsFromCloses(closes), cfg)
	suite.Require().NoError(err)
	suite.NotEmpty(result.Triggered())

	for i, row := range result.Signals {
		suite.False(row.BuySignal && row.SellSignal, "both flags set at bar %d", i)
	}
}

func (suite *StrategyTestSuite) TestRaisingThresholdOnlyRemovesSignals() {
	closes := make([]float64, 400)
	for t := range closes {
		closes[t] = 200 + 30*math.Sin(float64(t)/15) + 5*math.Sin(float64(t)/3)
	}

	series := barsFromCloses(closes)

	low := DefaultConfig()
	low.ShortEMAPeriod = 10
	low.LongEMAPeriod = 30
	low.StrengthThreshold = 10

	high := low
	high.StrengthThreshold = 40

	lowResult, err := Compute(series, low)
	suite.Require().NoError(err)

	highResult, err := Compute(series, high)
	suite.Require().NoError(err)

	lowRaw, highRaw := 0, 0

	for i := range series {
		if highResult.Signals[i].BuySignal {
			suite.True(lowResult.Signals[i].BuySignal, "buy at bar %d lost at lower threshold", i)
		}

		if highResult.Signals[i].SellSignal {
			suite.True(lowResult.Signals[i].SellSignal, "sell at bar %d lost at lower threshold", i)
		}

		lowEval, highEval := lowResult.Evaluations[i], highResult.Evaluations[i]

		if highEval.RawBuy {
			suite.True(lowEval.RawBuy, "raw buy at bar %d lost at lower threshold", i)
		}

		if highEval.RawSell {
			suite.True(lowEval.RawSell, "raw sell at bar %d lost at lower threshold", i)
		}

		// The bias gate does not depend on the threshold.
		suite.Equal(lowEval.AllowedBuy, highEval.AllowedBuy, "allowed buy at bar %d", i)
		suite.Equal(lowEval.AllowedSell, highEval.AllowedSell, "allowed sell at bar %d", i)

		if lowEval.RawBuy || lowEval.RawSell {
			lowRaw++
		}

		if highEval.RawBuy || highEval.RawSell {
			highRaw++
		}
	}

	suite.Positive(lowRaw)
	suite.LessOrEqual(highRaw, lowRaw)
	suite.LessOrEqual(len(highResult.Triggered()), len(lowResult.Triggered()))
}

func (suite *StrategyTestSuite) TestShortSeriesIsAllUndefined() {
	result, err := Compute(risingSeries(20), DefaultConfig())
	suite.Require().NoError(err)
	suite.Len(result.Signals, 20)
	suite.Empty(result.Triggered())

	for _, row := range result.Indicators {
		suite.True(row.ShortEMA.IsNone())
		suite.True(row.LongEMA.IsNone())
		suite.True(row.ADX.IsNone())
	}
}

func (suite *StrategyTestSuite) TestEmptySeries() {
	result, err := Compute(types.PriceSeries{}, DefaultConfig())
	suite.Require().NoError(err)
	suite.Empty(result.Signals)
	suite.Empty(result.Indicators)
}

func (suite *StrategyTestSuite) TestInvalidConfig() {
	cfg := DefaultConfig()
	cfg.ADXPeriod = 0

	_, err := Compute(risingSeries(10), cfg)
	suite.Require().Error(err)
	suite.True(errors.IsConfigError(err))
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
}

func (suite *StrategyTestSuite) TestInvalidInput() {
	tests := []struct {
		name   string
		mutate func(types.PriceSeries)
		code   errors.ErrorCode
		row    int
	}{
		{
			name:   "duplicate timestamp",
			mutate: func(s types.PriceSeries) { s[4].Time = s[3].Time },
			code:   errors.ErrCodeNonMonotonicTime,
			row:    4,
		},
		{
			name:   "decreasing timestamp",
			mutate: func(s types.PriceSeries) { s[6].Time = s[0].Time },
			code:   errors.ErrCodeNonMonotonicTime,
			row:    6,
		},
		{
			name:   "NaN close",
			mutate: func(s types.PriceSeries) { s[2].Close = math.NaN() },
			code:   errors.ErrCodeInvalidInput,
			row:    2,
		},
		{
			name:   "high below low",
			mutate: func(s types.PriceSeries) { s[1].High = s[1].Low - 1 },
			code:   errors.ErrCodeInvalidInput,
			row:    1,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			series := risingSeries(10)
			tc.mutate(series)

			_, err := Compute(series, DefaultConfig())
			suite.Require().Error(err)

			var inputErr *errors.InputError
			suite.Require().True(errors.As(err, &inputErr))
			suite.Equal(tc.code, inputErr.Code)
			suite.Equal(tc.row, inputErr.Row)
		})
	}
}

func (suite *StrategyTestSuite) TestStrategyRun() {
	s, err := NewStrategy(DefaultConfig(), logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.Equal(Name, s.Name())
	suite.Equal(DefaultConfig(), s.Config())

	result, err := s.Run(peakSeries())
	suite.Require().NoError(err)
	suite.Len(result.Triggered(), 1)
}

func (suite *StrategyTestSuite) TestStrategyRunInvalidInput() {
	s, err := NewStrategy(DefaultConfig(), nil)
	suite.Require().NoError(err)

	series := risingSeries(5)
	series[3].Time = time.Time{}

	_, err = s.Run(series)
	suite.Error(err)
	suite.True(errors.IsInputError(err))
}

func (suite *StrategyTestSuite) TestNewStrategyRejectsInvalidConfig() {
	cfg := DefaultConfig()
	cfg.PSARMaxStep = 0.01

	_, err := NewStrategy(cfg, nil)
	suite.Error(err)
	suite.True(errors.IsConfigError(err))
}
