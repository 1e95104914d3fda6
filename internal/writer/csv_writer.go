// Package writer persists strategy results.
package writer

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultDecimalPrecision is the number of decimals kept for indicator values.
const DefaultDecimalPrecision int32 = 6

// ResultWriter defines the interface for writing strategy results
type ResultWriter interface {
	// WriteResult writes the signals and indicators of one symbol
	WriteResult(symbol string, result strategy.Result) error
	// WriteSummary writes the run summary
	WriteSummary(summary Summary) error
	// RunDir returns the directory the files are written to
	RunDir() string
	// Close finalizes the writing process
	Close() error
}

// Summary describes a finished run.
type Summary struct {
	RunID     string          `yaml:"run_id"`
	Strategy  string          `yaml:"strategy"`
	Version   string          `yaml:"version"`
	Config    strategy.Config `yaml:"config"`
	StartedAt time.Time       `yaml:"started_at"`
	Symbols   []SymbolSummary `yaml:"symbols"`
}

// SymbolSummary counts the output of one symbol.
type SymbolSummary struct {
	Symbol      string `yaml:"symbol"`
	Bars        int    `yaml:"bars"`
	BuySignals  int    `yaml:"buy_signals"`
	SellSignals int    `yaml:"sell_signals"`
}

// NewSymbolSummary counts the bars and flags of result.
func NewSymbolSummary(symbol string, result strategy.Result) SymbolSummary {
	summary := SymbolSummary{Symbol: symbol, Bars: len(result.Signals)}

	for _, row := range result.Signals {
		if row.BuySignal {
			summary.BuySignals++
		}

		if row.SellSignal {
			summary.SellSignals++
		}
	}

	return summary
}

type signalRecord struct {
	Datetime   string `csv:"datetime"`
	BuySignal  bool   `csv:"buy_signal"`
	SellSignal bool   `csv:"sell_signal"`
}

// indicatorRecord holds formatted cells; undefined values are empty strings.
type indicatorRecord struct {
	Datetime string `csv:"datetime"`
	ShortEMA string `csv:"short_ema"`
	LongEMA  string `csv:"long_ema"`
	PSAR     string `csv:"psar"`
	ADX      string `csv:"adx"`
	ADXPos   string `csv:"adx_pos"`
	ADXNeg   string `csv:"adx_neg"`
}

// CSVWriter implements ResultWriter by writing one signals and one
// indicators CSV file per symbol into a run directory.
type CSVWriter struct {
	runDir    string
	precision int32
	mu        sync.Mutex
	closed    bool
}

// NewCSVWriter creates the run directory baseDir/runID.
func NewCSVWriter(baseDir string, runID string, precision int32) (*CSVWriter, error) {
	runDir := filepath.Join(baseDir, runID)

	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create run directory %s", runDir)
	}

	return &CSVWriter{
		runDir:    runDir,
		precision: precision,
	}, nil
}

// RunDir implements ResultWriter.
func (w *CSVWriter) RunDir() string {
	return w.runDir
}

// WriteResult implements ResultWriter. Files are named <symbol>_signals.csv
// and <symbol>_indicators.csv.
func (w *CSVWriter) WriteResult(symbol string, result strategy.Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errors.New(errors.ErrCodeWriteFailed, "writer is closed")
	}

	signals := make([]*signalRecord, len(result.Signals))
	for i, row := range result.Signals {
		signals[i] = &signalRecord{
			Datetime:   formatTime(row.Time),
			BuySignal:  row.BuySignal,
			SellSignal: row.SellSignal,
		}
	}

	if err := w.writeCSV(symbol+"_signals.csv", &signals); err != nil {
		return err
	}

	indicators := make([]*indicatorRecord, len(result.Indicators))
	for i, row := range result.Indicators {
		indicators[i] = &indicatorRecord{
			Datetime: formatTime(row.Time),
			ShortEMA: FormatValue(row.ShortEMA, w.precision),
			LongEMA:  FormatValue(row.LongEMA, w.precision),
			PSAR:     FormatValue(row.PSAR, w.precision),
			ADX:      FormatValue(row.ADX, w.precision),
			ADXPos:   FormatValue(row.ADXPos, w.precision),
			ADXNeg:   FormatValue(row.ADXNeg, w.precision),
		}
	}

	return w.writeCSV(symbol+"_indicators.csv", &indicators)
}

// WriteSummary implements ResultWriter.
func (w *CSVWriter) WriteSummary(summary Summary) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := yaml.Marshal(summary)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to marshal summary", err)
	}

	path := filepath.Join(w.runDir, "summary.yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write %s", path)
	}

	return nil
}

// Close implements ResultWriter.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true

	return nil
}

func (w *CSVWriter) writeCSV(name string, records any) error {
	path := filepath.Join(w.runDir, name)

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create %s", path)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(records, file); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write %s", path)
	}

	return nil
}

// FormatValue renders a cell rounded to precision decimals, or an empty
// string when the value is undefined.
func FormatValue(v types.Value, precision int32) string {
	if v.IsNone() {
		return ""
	}

	return decimal.NewFromFloat(v.Unwrap()).Round(precision).String()
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
