// Package datasource loads price series from files.
package datasource

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// DataSource provides the bars of one instrument.
type DataSource interface {
	// Load reads every bar in time order.
	Load(ctx context.Context) (types.PriceSeries, error)
	// Symbol returns the instrument the source loads.
	Symbol() string
	// Close releases any resources held by the source.
	Close() error
}

// Open picks a data source from the file extension: .csv files are read
// with NewCSVDataSource and .parquet files with NewDuckDBDataSource. An
// empty symbol is derived from the file name for CSV files and selects
// every row for parquet files.
func Open(path string, symbol string, log *logger.Logger) (DataSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVDataSource(path, symbol), nil
	case ".parquet":
		source, err := NewDuckDBDataSource(path, symbol, log)
		if err != nil {
			return nil, err
		}

		return source, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported data file %s: expected .csv or .parquet", path)
	}
}

// SymbolFromPath returns the file name without directory and extension.
func SymbolFromPath(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// MemoryDataSource serves a series that is already in memory.
type MemoryDataSource struct {
	symbol string
	series types.PriceSeries
}

// NewMemoryDataSource wraps series.
func NewMemoryDataSource(symbol string, series types.PriceSeries) *MemoryDataSource {
	return &MemoryDataSource{symbol: symbol, series: series}
}

// Load implements DataSource.
func (m *MemoryDataSource) Load(ctx context.Context) (types.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(types.PriceSeries, len(m.series))
	copy(out, m.series)

	return out, nil
}

// Symbol implements DataSource.
func (m *MemoryDataSource) Symbol() string {
	return m.symbol
}

// Close implements DataSource.
func (m *MemoryDataSource) Close() error {
	return nil
}
