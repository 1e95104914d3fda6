package main

import (
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

// SymbolsLoadedMsg lists the symbols found in a data file.
type SymbolsLoadedMsg struct {
	Path    string
	Symbols []string
}

// SeriesLoadedMsg carries a loaded series and its computed signals.
type SeriesLoadedMsg struct {
	Symbol string
	Series types.PriceSeries
	Result strategy.Result
}

// LoadErrorMsg indicates that loading or computing failed.
type LoadErrorMsg struct {
	Err error
}
