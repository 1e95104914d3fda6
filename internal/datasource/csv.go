package datasource

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// timeLayouts are tried in order when parsing the datetime column.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// csvTime parses the datetime column. Timestamps without a zone are UTC.
type csvTime struct {
	time.Time
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (t *csvTime) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		// Left zero; PriceSeries.Validate reports the row.
		return nil
	}

	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			t.Time = parsed

			return nil
		}
	}

	return errors.Newf(errors.ErrCodeMarketDataParseFailed, "cannot parse datetime %q", value)
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (t csvTime) MarshalCSV() (string, error) {
	return t.Format(time.RFC3339), nil
}

// csvPrice holds the raw text of a price cell. gocsv turns an empty float
// cell into 0, so the number is parsed by parse where the row is known.
type csvPrice struct {
	text    string
	present bool
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (p *csvPrice) UnmarshalCSV(value string) error {
	p.text = strings.TrimSpace(value)
	p.present = p.text != ""

	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (p csvPrice) MarshalCSV() (string, error) {
	return p.text, nil
}

func newCSVPrice(v float64) csvPrice {
	if math.IsNaN(v) {
		return csvPrice{}
	}

	return csvPrice{text: strconv.FormatFloat(v, 'f', -1, 64), present: true}
}

func (p csvPrice) parse(row int, field string) (float64, error) {
	if !p.present {
		return 0, errors.NewInputError(errors.ErrCodeInvalidInput, row, field, "missing value")
	}

	v, err := strconv.ParseFloat(p.text, 64)
	if err != nil {
		return 0, errors.NewInputErrorf(errors.ErrCodeInvalidInput, row, field, "cannot parse %q as a number", p.text)
	}

	return v, nil
}

// requiredColumns must appear in the header. open and volume may be left out.
var requiredColumns = []string{"datetime", "high", "low", "close"}

// csvBar is one row of a bar file: datetime,open,high,low,close[,volume].
type csvBar struct {
	Datetime csvTime  `csv:"datetime"`
	Open     csvPrice `csv:"open"`
	High     csvPrice `csv:"high"`
	Low      csvPrice `csv:"low"`
	Close    csvPrice `csv:"close"`
	Volume   float64  `csv:"volume,omitempty"`
}

// toMarketData converts row number i. A missing open becomes NaN.
func (b *csvBar) toMarketData(i int, symbol string) (types.MarketData, error) {
	bar := types.MarketData{
		Id:     uuid.NewString(),
		Symbol: symbol,
		Time:   b.Datetime.Time,
		Open:   math.NaN(),
		Volume: b.Volume,
	}

	var err error

	if b.Open.present {
		if bar.Open, err = b.Open.parse(i, "open"); err != nil {
			return bar, err
		}
	}

	if bar.High, err = b.High.parse(i, "high"); err != nil {
		return bar, err
	}

	if bar.Low, err = b.Low.parse(i, "low"); err != nil {
		return bar, err
	}

	if bar.Close, err = b.Close.parse(i, "close"); err != nil {
		return bar, err
	}

	return bar, nil
}

// checkHeader reads the header row and rewinds file. A required column that
// is missing is reported against the first bar.
func checkHeader(file *os.File) error {
	header, err := csv.NewReader(file).Read()
	if err != nil {
		if err == io.EOF {
			return errors.New(errors.ErrCodeMarketDataParseFailed, "empty csv file")
		}

		return errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to read header", err)
	}

	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[strings.TrimSpace(name)] = true
	}

	for _, name := range requiredColumns {
		if !present[name] {
			return errors.NewInputErrorf(errors.ErrCodeInvalidInput, 0, name, "column %q is missing", name)
		}
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to rewind", err)
	}

	return nil
}

// CSVDataSource reads bars from a CSV file with a header row.
type CSVDataSource struct {
	path   string
	symbol string
}

// NewCSVDataSource creates a source for path. An empty symbol is taken from the file name.
func NewCSVDataSource(path string, symbol string) *CSVDataSource {
	if symbol == "" {
		symbol = SymbolFromPath(path)
	}

	return &CSVDataSource{path: path, symbol: symbol}
}

// Load implements DataSource. Rows are returned in file order; ordering is
// checked later by PriceSeries.Validate.
func (c *CSVDataSource) Load(ctx context.Context) (types.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(c.path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to open %s", c.path)
	}
	defer file.Close()

	if err := checkHeader(file); err != nil {
		return nil, err
	}

	var rows []*csvBar
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse %s", c.path)
	}

	series := make(types.PriceSeries, len(rows))
	for i, row := range rows {
		bar, err := row.toMarketData(i, c.symbol)
		if err != nil {
			return nil, err
		}

		series[i] = bar
	}

	return series, nil
}

// Symbol implements DataSource.
func (c *CSVDataSource) Symbol() string {
	return c.symbol
}

// Close implements DataSource.
func (c *CSVDataSource) Close() error {
	return nil
}

// WriteCSV writes series to path in the format read by CSVDataSource.
func WriteCSV(path string, series types.PriceSeries) error {
	rows := make([]*csvBar, len(series))
	for i, bar := range series {
		rows[i] = &csvBar{
			Datetime: csvTime{Time: bar.Time},
			Open:     newCSVPrice(bar.Open),
			High:     newCSVPrice(bar.High),
			Low:      newCSVPrice(bar.Low),
			Close:    newCSVPrice(bar.Close),
			Volume:   bar.Volume,
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create %s", path)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write %s", path)
	}

	return nil
}
