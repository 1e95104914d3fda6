package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBDataSource reads bars from a parquet file through an in-memory DuckDB view.
// The file needs the columns time, symbol, open, high, low, close and volume.
type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	path   string
	symbol string
}

// NewDuckDBDataSource opens path. An empty symbol loads every row of the file.
func NewDuckDBDataSource(path string, symbol string, log *logger.Logger) (*DuckDBDataSource, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	d := &DuckDBDataSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		path:   path,
		symbol: symbol,
	}

	if err := d.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return d, nil
}

func (d *DuckDBDataSource) initialize() error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", d.path))

	// Squirrel has no CREATE VIEW support and read_parquet does not take a placeholder
	query := fmt.Sprintf(`
		CREATE OR REPLACE VIEW market_data AS
		SELECT * FROM read_parquet('%s', file_row_number = true);
	`, strings.ReplaceAll(d.path, "'", "''"))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read parquet file %s", d.path)
	}

	return nil
}

// Load implements DataSource. Rows come back in file order so that
// PriceSeries.Validate sees the ordering the file actually has.
func (d *DuckDBDataSource) Load(ctx context.Context) (types.PriceSeries, error) {
	builder := d.sq.
		Select("time", "symbol", "open", "high", "low", "close", "volume").
		From("market_data").
		OrderBy("file_row_number")

	if d.symbol != "" {
		builder = builder.Where(squirrel.Eq{"symbol": d.symbol})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	var series types.PriceSeries

	for rows.Next() {
		var (
			timestamp             time.Time
			symbol                string
			high, low, closePrice float64
			open, volume          sql.NullFloat64
		)

		if err := rows.Scan(&timestamp, &symbol, &open, &high, &low, &closePrice, &volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to scan row", err)
		}

		bar := types.MarketData{
			Id:     uuid.NewString(),
			Symbol: symbol,
			Time:   timestamp,
			Open:   math.NaN(),
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume.Float64,
		}

		if open.Valid {
			bar.Open = open.Float64
		}

		series = append(series, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read market data", err)
	}

	if len(series) == 0 && d.symbol != "" {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no data found for symbol: %s", d.symbol)
	}

	d.logger.Debug("Loaded market data", zap.String("symbol", d.symbol), zap.Int("bars", len(series)))

	return series, nil
}

// Symbols lists the distinct symbols in the file.
func (d *DuckDBDataSource) Symbols(ctx context.Context) ([]string, error) {
	query, args, err := d.sq.
		Select("DISTINCT symbol").
		From("market_data").
		OrderBy("symbol").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	return symbols, rows.Err()
}

// Symbol implements DataSource.
func (d *DuckDBDataSource) Symbol() string {
	if d.symbol == "" {
		return SymbolFromPath(d.path)
	}

	return d.symbol
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}
