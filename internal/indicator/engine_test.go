package indicator_test

import (
	"testing"

	"github.com/rxtech-lab/argo-signal/internal/indicator"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/mocks"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type EngineTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	params indicator.Params
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.params = indicator.Params{
		ShortEMAPeriod: 50,
		LongEMAPeriod:  100,
		PSARStep:       0.02,
		PSARMaxStep:    0.2,
		ADXPeriod:      12,
	}
}

func (suite *EngineTestSuite) TestPeakSeries() {
	series := mocks.PeakSeries("PEAK")

	table, err := indicator.NewIndicatorEngine(nil, suite.params).Compute(series)
	suite.Require().NoError(err)
	suite.Require().Len(table, len(series))

	for i, row := range table {
		suite.Equal(series[i].Time, row.Time)
	}

	suite.True(table[48].ShortEMA.IsNone())
	suite.True(table[49].ShortEMA.IsSome())
	suite.True(table[98].LongEMA.IsNone())
	suite.True(table[99].LongEMA.IsSome())
	suite.True(table[1].PSAR.IsNone())
	suite.True(table[2].PSAR.IsSome())
	suite.True(table[23].ADX.IsNone())
	suite.True(table[24].ADX.IsSome())

	suite.InDelta(249.5, table[152].PSAR.Unwrap(), 1e-9)
	suite.Greater(table[152].ShortEMA.Unwrap(), table[152].LongEMA.Unwrap())
}

func (suite *EngineTestSuite) TestEmptySeries() {
	table, err := indicator.NewIndicatorEngine(nil, suite.params).Compute(types.PriceSeries{})
	suite.Require().NoError(err)
	suite.Empty(table)
}

func (suite *EngineTestSuite) TestRegistryError() {
	registry := mocks.NewMockIndicatorRegistry(suite.ctrl)
	registry.EXPECT().
		NewIndicator(types.IndicatorTypeEMA).
		Return(nil, errors.New(errors.ErrCodeIndicatorNotFound, "missing"))

	_, err := indicator.NewIndicatorEngine(registry, suite.params).Compute(mocks.PeakSeries("PEAK"))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeIndicatorCalculation, errors.GetCode(err))
	suite.Contains(err.Error(), "missing")
}

func (suite *EngineTestSuite) TestConfigError() {
	registry := indicator.NewDefaultRegistry()
	params := suite.params
	params.PSARMaxStep = 0.01

	_, err := indicator.NewIndicatorEngine(registry, params).Compute(mocks.PeakSeries("PEAK"))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeIndicatorCalculation, errors.GetCode(err))
	suite.Contains(err.Error(), "psar")
}

func (suite *EngineTestSuite) TestColumnLengthMismatch() {
	defaults := indicator.NewDefaultRegistry()

	short := mocks.NewMockIndicator(suite.ctrl)
	short.EXPECT().Config(gomock.Any()).Return(nil).AnyTimes()
	short.EXPECT().Calculate(gomock.Any()).Return(indicator.Output{
		indicator.ColumnEMA: make([]types.Value, 3),
	}, nil).AnyTimes()

	registry := mocks.NewMockIndicatorRegistry(suite.ctrl)
	registry.EXPECT().NewIndicator(gomock.Any()).DoAndReturn(func(name types.IndicatorType) (indicator.Indicator, error) {
		if name == types.IndicatorTypeEMA {
			return short, nil
		}

		return defaults.NewIndicator(name)
	}).AnyTimes()

	_, err := indicator.NewIndicatorEngine(registry, suite.params).Compute(mocks.PeakSeries("PEAK"))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeSeriesLengthMismatch, errors.GetCode(err))
}

func (suite *EngineTestSuite) TestCalculateError() {
	failing := mocks.NewMockIndicator(suite.ctrl)
	failing.EXPECT().Config(50).Return(nil)
	failing.EXPECT().Calculate(gomock.Any()).Return(nil, errors.New(errors.ErrCodeIndicatorCalculation, "boom"))

	registry := mocks.NewMockIndicatorRegistry(suite.ctrl)
	registry.EXPECT().NewIndicator(types.IndicatorTypeEMA).Return(failing, nil)

	_, err := indicator.NewIndicatorEngine(registry, suite.params).Compute(mocks.PeakSeries("PEAK"))
	suite.Require().Error(err)
	suite.Contains(err.Error(), "short ema")
}
