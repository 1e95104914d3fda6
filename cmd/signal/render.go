package main

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-signal/internal/runner"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/internal/writer"
)

const displayPrecision int32 = 4

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	buyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})
}

// signalLabel renders the signal type of a row.
func signalLabel(row types.SignalRow) string {
	switch row.Type() {
	case types.SignalTypeBuyLong:
		return buyStyle.Render("BUY")
	case types.SignalTypeSellShort:
		return sellStyle.Render("SELL")
	default:
		return "-"
	}
}

// RenderResult renders the triggered rows of result, or every row when all is set.
func RenderResult(result strategy.Result, all bool) string {
	t := newTable("DATETIME", "SIGNAL", "SHORT EMA", "LONG EMA", "PSAR", "ADX", "+DI", "-DI")

	count := 0

	for i, row := range result.Signals {
		if !all && !row.Triggered() {
			continue
		}

		ind := result.Indicators[i]
		t.Row(
			row.Time.Format(time.RFC3339),
			signalLabel(row),
			writer.FormatValue(ind.ShortEMA, displayPrecision),
			writer.FormatValue(ind.LongEMA, displayPrecision),
			writer.FormatValue(ind.PSAR, displayPrecision),
			writer.FormatValue(ind.ADX, displayPrecision),
			writer.FormatValue(ind.ADXPos, displayPrecision),
			writer.FormatValue(ind.ADXNeg, displayPrecision),
		)
		count++
	}

	if count == 0 {
		return HelpStyle.Render("No signals")
	}

	return t.String()
}

// RenderSummary renders one line per series with its signal counts.
func RenderSummary(results []runner.SeriesResult) string {
	t := newTable("SYMBOL", "BARS", "BUY", "SELL")

	for _, res := range results {
		summary := writer.NewSymbolSummary(res.Symbol, res.Result)
		t.Row(
			summary.Symbol,
			strconv.Itoa(summary.Bars),
			strconv.Itoa(summary.BuySignals),
			strconv.Itoa(summary.SellSignals),
		)
	}

	return t.String()
}
