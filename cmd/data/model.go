package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-signal/internal/datasource"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// Application states.
const (
	StateFileInput = iota
	StateSymbolSelect
	StateDataDisplay
)

// Model is the main Bubble Tea model for the signal browser.
type Model struct {
	state      int
	fileInput  textinput.Model
	symbolList list.Model
	dataTable  table.Model
	config     strategy.Config
	path       string
	symbol     string
	series     types.PriceSeries
	result     strategy.Result
	signals    []int
	loading    bool
	err        error
	width      int
	height     int
}

// NewModel creates a new Model with initial state. A non-empty path is loaded on start.
func NewModel(cfg strategy.Config, path string) Model {
	m := Model{
		state:      StateFileInput,
		fileInput:  NewFileInput(),
		symbolList: NewSymbolList(nil),
		dataTable:  NewDataTable(),
		config:     cfg,
		path:       path,
	}

	if path != "" {
		m.fileInput.SetValue(path)
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.path != "" {
		return loadSymbols(m.path)
	}

	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			// Only quit on 'q' if not in text input mode
			if m.state != StateFileInput {
				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.symbolList.SetSize(msg.Width, msg.Height-4)
		m.dataTable.SetWidth(msg.Width)
		m.dataTable.SetHeight(msg.Height - 6)

		return m, nil

	case SymbolsLoadedMsg:
		m.err = nil
		m.path = msg.Path

		if len(msg.Symbols) == 1 {
			m.loading = true

			return m, loadSeries(msg.Path, msg.Symbols[0], m.config)
		}

		m.symbolList = NewSymbolList(msg.Symbols)
		m.symbolList.SetSize(m.width, m.height-4)
		m.state = StateSymbolSelect
		m.fileInput.Blur()

		return m, nil

	case SeriesLoadedMsg:
		m.loading = false
		m.err = nil
		m.symbol = msg.Symbol
		m.series = msg.Series
		m.result = msg.Result
		m.signals = SignalIndices(msg.Result)
		m.dataTable = UpdateTableRows(m.dataTable, msg.Series, msg.Result)
		m.dataTable.SetCursor(0)
		m.state = StateDataDisplay
		m.fileInput.Blur()

		return m, nil

	case LoadErrorMsg:
		m.loading = false
		m.err = msg.Err

		return m, nil
	}

	// Delegate to state-specific update
	switch m.state {
	case StateFileInput:
		return m.updateFileInput(msg)
	case StateSymbolSelect:
		return m.updateSymbolSelect(msg)
	case StateDataDisplay:
		return m.updateDataDisplay(msg)
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateSymbolSelect:
		m.state = StateFileInput
		m.fileInput.Focus()

		return m, textinput.Blink
	case StateDataDisplay:
		m.series = nil
		m.result = strategy.Result{}
		m.signals = nil
		m.symbol = ""
		m.err = nil
		m.dataTable.SetRows(nil)
		m.state = StateFileInput
		m.fileInput.Focus()

		return m, textinput.Blink
	}

	return m, nil
}

func (m Model) updateFileInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		path := strings.TrimSpace(m.fileInput.Value())
		if path != "" {
			m.loading = true

			return m, loadSymbols(path)
		}
	}

	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(msg)

	return m, cmd
}

func (m Model) updateSymbolSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.symbolList.SelectedItem().(listItem); ok {
			m.loading = true

			return m, loadSeries(m.path, item.name, m.config)
		}
	}

	var cmd tea.Cmd
	m.symbolList, cmd = m.symbolList.Update(msg)

	return m, cmd
}

func (m Model) updateDataDisplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "n":
			m.jumpToSignal(1)

			return m, nil
		case "p":
			m.jumpToSignal(-1)

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.dataTable, cmd = m.dataTable.Update(msg)

	return m, cmd
}

// jumpToSignal moves the cursor to the next (direction 1) or previous
// (direction -1) bar with a signal. It stays put when there is none.
func (m *Model) jumpToSignal(direction int) {
	cursor := m.dataTable.Cursor()

	if direction > 0 {
		for _, idx := range m.signals {
			if idx > cursor {
				m.dataTable.SetCursor(idx)

				return
			}
		}

		return
	}

	for i := len(m.signals) - 1; i >= 0; i-- {
		if m.signals[i] < cursor {
			m.dataTable.SetCursor(m.signals[i])

			return
		}
	}
}

// loadSymbols returns a command listing the symbols of a data file. CSV files hold one symbol.
func loadSymbols(path string) tea.Cmd {
	return func() tea.Msg {
		if strings.ToLower(filepath.Ext(path)) != ".parquet" {
			if _, err := os.Stat(path); err != nil {
				return LoadErrorMsg{Err: errors.Wrapf(errors.ErrCodeDataNotFound, err, "cannot open %s", path)}
			}

			return SymbolsLoadedMsg{Path: path, Symbols: []string{datasource.SymbolFromPath(path)}}
		}

		source, err := datasource.NewDuckDBDataSource(path, "", nil)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}
		defer source.Close()

		symbols, err := source.Symbols(context.Background())
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		if len(symbols) == 0 {
			return LoadErrorMsg{Err: errors.Newf(errors.ErrCodeDataNotFound, "%s holds no data", path)}
		}

		return SymbolsLoadedMsg{Path: path, Symbols: symbols}
	}
}

// loadSeries returns a command loading one symbol and computing its signals.
func loadSeries(path, symbol string, cfg strategy.Config) tea.Cmd {
	return func() tea.Msg {
		source, err := datasource.Open(path, symbol, nil)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}
		defer source.Close()

		series, err := source.Load(context.Background())
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		result, err := strategy.Compute(series, cfg)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		return SeriesLoadedMsg{Symbol: source.Symbol(), Series: series, Result: result}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateFileInput:
		s.WriteString(TitleStyle.Render("Argo Signal - Data Browser"))
		s.WriteString("\n\n")
		s.WriteString("Enter the path of a .csv or .parquet file:\n\n")
		s.WriteString(m.fileInput.View())
		s.WriteString("\n\n")

		if m.loading {
			s.WriteString("Loading...\n\n")
		}

		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		}

		s.WriteString(HelpStyle.Render("Press Enter to load, ctrl+c to quit"))

	case StateSymbolSelect:
		s.WriteString(TitleStyle.Render("Select Symbol"))
		s.WriteString("\n\n")
		s.WriteString(m.symbolList.View())
		s.WriteString("\n")

		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n")
		}

		s.WriteString(HelpStyle.Render("Press Enter to select, Esc to go back"))

	case StateDataDisplay:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Signals - %s (%d bars, %d signals)", m.symbol, len(m.series), len(m.signals))))
		s.WriteString("\n\n")
		s.WriteString(m.dataTable.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("n/p: next/previous signal | Esc: back | q: quit"))
	}

	return s.String()
}
