package writer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCSVWriter_WriteResult(t *testing.T) {
	tempDir := t.TempDir()

	writer, err := NewCSVWriter(tempDir, "run-1", DefaultDecimalPrecision)
	require.NoError(t, err, "Failed to create CSVWriter")
	assert.Equal(t, filepath.Join(tempDir, "run-1"), writer.RunDir())

	series := mocks.PeakSeries("PEAK")
	result, err := strategy.Compute(series, strategy.DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, writer.WriteResult("PEAK", result))
	require.NoError(t, writer.Close())

	t.Run("signals", func(t *testing.T) {
		file, err := os.Open(filepath.Join(writer.RunDir(), "PEAK_signals.csv"))
		require.NoError(t, err)
		defer file.Close()

		var rows []*signalRecord
		require.NoError(t, gocsv.UnmarshalFile(file, &rows))
		require.Len(t, rows, len(series))

		assert.Equal(t, series[0].Time.Format(time.RFC3339), rows[0].Datetime)
		assert.True(t, rows[153].SellSignal)
		assert.False(t, rows[153].BuySignal)
		assert.False(t, rows[152].SellSignal)
	})

	t.Run("indicators", func(t *testing.T) {
		file, err := os.Open(filepath.Join(writer.RunDir(), "PEAK_indicators.csv"))
		require.NoError(t, err)
		defer file.Close()

		var rows []*indicatorRecord
		require.NoError(t, gocsv.UnmarshalFile(file, &rows))
		require.Len(t, rows, len(series))

		// Undefined cells are empty
		assert.Empty(t, rows[0].ShortEMA)
		assert.Empty(t, rows[0].PSAR)
		assert.Empty(t, rows[23].ADX)
		assert.NotEmpty(t, rows[24].ADX)
		assert.NotEmpty(t, rows[49].ShortEMA)
		assert.Empty(t, rows[98].LongEMA)
		assert.NotEmpty(t, rows[99].LongEMA)
		assert.Equal(t, "249.5", rows[152].PSAR)
	})
}

func TestCSVWriter_WriteAfterClose(t *testing.T) {
	writer, err := NewCSVWriter(t.TempDir(), "closed", DefaultDecimalPrecision)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	err = writer.WriteResult("X", strategy.Result{})
	assert.Error(t, err)
}

func TestCSVWriter_WriteSummary(t *testing.T) {
	writer, err := NewCSVWriter(t.TempDir(), "summary", DefaultDecimalPrecision)
	require.NoError(t, err)

	result, err := strategy.Compute(mocks.PeakSeries("PEAK"), strategy.DefaultConfig())
	require.NoError(t, err)

	summary := Summary{
		RunID:     "summary",
		Strategy:  strategy.Name,
		Version:   "v1.0.0",
		Config:    strategy.DefaultConfig(),
		StartedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Symbols:   []SymbolSummary{NewSymbolSummary("PEAK", result)},
	}
	require.NoError(t, writer.WriteSummary(summary))

	data, err := os.ReadFile(filepath.Join(writer.RunDir(), "summary.yaml"))
	require.NoError(t, err)

	var decoded Summary
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, summary, decoded)
	assert.Equal(t, 300, decoded.Symbols[0].Bars)
	assert.Equal(t, 0, decoded.Symbols[0].BuySignals)
	assert.Equal(t, 1, decoded.Symbols[0].SellSignals)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name      string
		value     optional.Option[float64]
		precision int32
		expected  string
	}{
		{"undefined", optional.None[float64](), 6, ""},
		{"integer", optional.Some(100.0), 6, "100"},
		{"rounded", optional.Some(1.23456789), 4, "1.2346"},
		{"negative", optional.Some(-0.125), 2, "-0.13"},
		{"zero", optional.Some(0.0), 6, "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatValue(tc.value, tc.precision))
		})
	}
}
