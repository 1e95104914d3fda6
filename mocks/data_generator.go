package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// DataGenerator generates synthetic price bars for tests, benchmarks and the
// generate command.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	Symbol       string
	StartTime    time.Time
	Interval     time.Duration
	Count        int
	InitialPrice float64
	// Volatility is the standard deviation of the per-bar return (0.002 = 0.2%)
	Volatility float64
	// Trend is the total drift spread over the series (-0.5 to 0.5 for bearish to bullish)
	Trend          float64
	VolumeBase     float64
	VolumeVariance float64
}

// DefaultConfig returns a one-minute random walk of 10000 bars.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		Interval:       time.Minute,
		Count:          10000,
		InitialPrice:   100.0,
		Volatility:     0.002,
		Trend:          0.0,
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a random walk following geometric Brownian motion. The
// result always passes PriceSeries.Validate.
func (g *DataGenerator) Generate(config GeneratorConfig) types.PriceSeries {
	series := make(types.PriceSeries, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a standard normal draw
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		closePrice := open * (1 + config.Volatility*z + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		highExtension := g.rng.Float64() * config.Volatility * open * 0.5
		lowExtension := g.rng.Float64() * config.Volatility * open * 0.5

		high := math.Max(open, closePrice) + highExtension
		low := math.Min(open, closePrice) - lowExtension
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		series[i] = types.MarketData{
			Id:     g.id(),
			Symbol: config.Symbol,
			Time:   currentTime,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: roundToDecimals(volume, 2),
		}

		currentPrice = closePrice
		currentTime = currentTime.Add(config.Interval)
	}

	return series
}

// GenerateFromCloses builds bars from a close path with High = close + spread
// and Low = close - spread.
func (g *DataGenerator) GenerateFromCloses(config GeneratorConfig, closes []float64, spread float64) types.PriceSeries {
	series := make(types.PriceSeries, len(closes))
	currentTime := config.StartTime

	for i, c := range closes {
		series[i] = types.MarketData{
			Id:     g.id(),
			Symbol: config.Symbol,
			Time:   currentTime,
			Open:   c,
			High:   c + spread,
			Low:    c - spread,
			Close:  c,
			Volume: config.VolumeBase,
		}
		currentTime = currentTime.Add(config.Interval)
	}

	return series
}

// GeneratePeak returns count bars rising by one per bar from 100 up to index
// peak and falling by one per bar afterwards, with a half-point range.
func (g *DataGenerator) GeneratePeak(config GeneratorConfig, count, peak int) types.PriceSeries {
	closes := make([]float64, count)
	top := 100 + float64(peak)

	for t := range closes {
		if t <= peak {
			closes[t] = 100 + float64(t)
		} else {
			closes[t] = top - float64(t-peak)
		}
	}

	return g.GenerateFromCloses(config, closes, 0.5)
}

// GenerateMultiSymbol generates one series per symbol.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) map[string]types.PriceSeries {
	out := make(map[string]types.PriceSeries, len(symbols))

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		// Vary initial price and volatility slightly per symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		out[symbol] = g.Generate(config)
	}

	return out
}

// Generate10K is a convenience function to generate 10,000 bars
// with default settings for benchmarking.
func Generate10K(symbol string) types.PriceSeries {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Symbol = symbol
	config.Count = 10000

	return gen.Generate(config)
}

// PeakSeries returns the 300-bar series peaking at index 149.
func PeakSeries(symbol string) types.PriceSeries {
	config := DefaultConfig()
	config.Symbol = symbol

	return NewDataGenerator(42).GeneratePeak(config, 300, 149)
}

func (g *DataGenerator) id() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return ""
	}

	return id.String()
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
