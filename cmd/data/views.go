package main

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/internal/writer"
)

const displayPrecision int32 = 4

// listItem implements list.Item interface for the symbol list.
type listItem struct {
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

// NewFileInput creates a new text input for the data file path.
func NewFileInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "./data/AAPL.csv"
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 70
	ti.Prompt = "> "

	return ti
}

// NewSymbolList creates a new list for symbol selection.
func NewSymbolList(symbols []string) list.Model {
	items := make([]list.Item, len(symbols))
	for i, symbol := range symbols {
		items[i] = listItem{name: symbol, description: "Compute signals for " + symbol}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Symbol"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewDataTable creates a new table for displaying bars with their indicators and signals.
func NewDataTable() table.Model {
	columns := []table.Column{
		{Title: "Time", Width: 20},
		{Title: "Close", Width: 14},
		{Title: "Short EMA", Width: 12},
		{Title: "Long EMA", Width: 12},
		{Title: "PSAR", Width: 12},
		{Title: "ADX", Width: 9},
		{Title: "Signal", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateTableRows fills the table with one row per bar.
func UpdateTableRows(t table.Model, series types.PriceSeries, result strategy.Result) table.Model {
	rows := make([]table.Row, 0, len(series))

	for i, bar := range series {
		previous := 0.0
		if i > 0 {
			previous = series[i-1].Close
		}

		row := table.Row{
			bar.Time.Format("2006-01-02 15:04:05"),
			FormatPriceWithColor(bar.Close, previous),
			"", "", "", "", "",
		}

		if i < len(result.Indicators) {
			ind := result.Indicators[i]
			row[2] = writer.FormatValue(ind.ShortEMA, displayPrecision)
			row[3] = writer.FormatValue(ind.LongEMA, displayPrecision)
			row[4] = writer.FormatValue(ind.PSAR, displayPrecision)
			row[5] = writer.FormatValue(ind.ADX, 2)
		}

		if i < len(result.Signals) {
			row[6] = FormatSignal(result.Signals[i])
		}

		rows = append(rows, row)
	}

	t.SetRows(rows)

	return t
}

// SignalIndices returns the positions of the bars carrying a buy or sell flag.
func SignalIndices(result strategy.Result) []int {
	var indices []int

	for i, row := range result.Signals {
		if row.Triggered() {
			indices = append(indices, i)
		}
	}

	return indices
}
