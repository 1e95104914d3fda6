package types

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// MarketData is one price bar. Open and Volume are carried through but
// never read by the indicator or signal engines; Open is NaN when the
// source has no open price.
type MarketData struct {
	Id     string    `json:"id" yaml:"id"`
	Symbol string    `json:"symbol" yaml:"symbol"`
	Time   time.Time `json:"time" yaml:"time"`
	Open   float64   `json:"open" yaml:"open"`
	High   float64   `json:"high" yaml:"high"`
	Low    float64   `json:"low" yaml:"low"`
	Close  float64   `json:"close" yaml:"close"`
	Volume float64   `json:"volume" yaml:"volume"`
}

// PriceSeries is an ordered run of bars for a single instrument.
type PriceSeries []MarketData

// Closes returns the close column.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, bar := range s {
		closes[i] = bar.Close
	}

	return closes
}

// Validate checks every bar and the ordering of the series. The first
// violation is returned as an *errors.InputError naming the row.
func (s PriceSeries) Validate() error {
	for i, bar := range s {
		if err := bar.validate(i); err != nil {
			return err
		}

		if i == 0 {
			continue
		}

		prev := s[i-1].Time
		if bar.Time.Equal(prev) {
			return errors.NewInputErrorf(errors.ErrCodeNonMonotonicTime, i, "time",
				"duplicate timestamp %s", bar.Time.Format(time.RFC3339))
		}

		if bar.Time.Before(prev) {
			return errors.NewInputErrorf(errors.ErrCodeNonMonotonicTime, i, "time",
				"timestamp %s is earlier than previous bar %s", bar.Time.Format(time.RFC3339), prev.Format(time.RFC3339))
		}
	}

	return nil
}

func (m MarketData) validate(row int) error {
	if m.Time.IsZero() {
		return errors.NewInputError(errors.ErrCodeInvalidInput, row, "time", "missing timestamp")
	}

	// Open is optional and not checked.
	fields := []struct {
		name  string
		value float64
	}{
		{"high", m.High},
		{"low", m.Low},
		{"close", m.Close},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.NewInputErrorf(errors.ErrCodeInvalidInput, row, f.name, "value %v is not finite", f.value)
		}
	}

	if m.High < m.Low {
		return errors.NewInputErrorf(errors.ErrCodeInvalidInput, row, "high",
			"high %v is below low %v", m.High, m.Low)
	}

	return nil
}
