// Package testutil provides mocks and factories shared by the package
// tests: a canned market-data provider, a static spreadsheet source and
// chart builders.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rcastaneda/portfolio-dashboard/internal/quote"
)

// MockMarket is a canned implementation of the resolver's MarketData
// interface. Symbols not present in any map return an error, which is
// how the resolver's candidate walk advances.
//
// The mock is safe for concurrent use; the resolver fans out per ticker.
type MockMarket struct {
	mu sync.Mutex

	// Charts serves FiveDayChart and, unless overridden by RangeCharts,
	// ChartByDateRange.
	Charts map[string]quote.PriceChart
	// RangeCharts overrides ChartByDateRange per symbol when set.
	RangeCharts map[string]quote.PriceChart
	// Quotes serves the dividend Quote endpoint.
	Quotes map[string]quote.SymbolQuote
	// Errs forces an error for a symbol on every method.
	Errs map[string]error

	// Requested records every symbol asked for, in call order.
	Requested []string
}

// NewMockMarket creates an empty mock; populate the maps before use.
func NewMockMarket() *MockMarket {
	return &MockMarket{
		Charts:      make(map[string]quote.PriceChart),
		RangeCharts: make(map[string]quote.PriceChart),
		Quotes:      make(map[string]quote.SymbolQuote),
		Errs:        make(map[string]error),
	}
}

// FiveDayChart returns the canned chart for the symbol.
func (m *MockMarket) FiveDayChart(_ context.Context, symbol string) (quote.PriceChart, error) {
	m.record(symbol)
	if err := m.errFor(symbol); err != nil {
		return quote.PriceChart{}, err
	}
	m.mu.Lock()
	chart, ok := m.Charts[symbol]
	m.mu.Unlock()
	if !ok {
		return quote.PriceChart{}, fmt.Errorf("no chart for symbol %s", symbol)
	}
	return chart, nil
}

// ChartByDateRange returns the canned range chart, falling back to the
// five-day chart when no range-specific data is set.
func (m *MockMarket) ChartByDateRange(_ context.Context, symbol string, _, _ time.Time) (quote.PriceChart, error) {
	m.record(symbol)
	if err := m.errFor(symbol); err != nil {
		return quote.PriceChart{}, err
	}
	m.mu.Lock()
	chart, ok := m.RangeCharts[symbol]
	if !ok {
		chart, ok = m.Charts[symbol]
	}
	m.mu.Unlock()
	if !ok {
		return quote.PriceChart{}, fmt.Errorf("no chart for symbol %s", symbol)
	}
	return chart, nil
}

// Quote returns the canned dividend quote for the symbol.
func (m *MockMarket) Quote(_ context.Context, symbol string) (quote.SymbolQuote, error) {
	m.record(symbol)
	if err := m.errFor(symbol); err != nil {
		return quote.SymbolQuote{}, err
	}
	m.mu.Lock()
	q, ok := m.Quotes[symbol]
	m.mu.Unlock()
	if !ok {
		return quote.SymbolQuote{}, fmt.Errorf("no quote for symbol %s", symbol)
	}
	return q, nil
}

// RequestCount returns how many provider calls were made for the symbol.
func (m *MockMarket) RequestCount(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, s := range m.Requested {
		if s == symbol {
			count++
		}
	}
	return count
}

func (m *MockMarket) record(symbol string) {
	m.mu.Lock()
	m.Requested = append(m.Requested, symbol)
	m.mu.Unlock()
}

func (m *MockMarket) errFor(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Errs[symbol]
}

// Chart builds a price chart whose closes end today, one per trading
// day, in the given currency.
func Chart(symbol, currency string, closes ...float64) quote.PriceChart {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(len(closes) - 1))
	return ChartFrom(symbol, currency, start, closes...)
}

// ChartFrom builds a price chart with one close per day starting at the
// given date.
func ChartFrom(symbol, currency string, start time.Time, closes ...float64) quote.PriceChart {
	points := make([]quote.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = quote.PricePoint{
			Date:  start.AddDate(0, 0, i).UTC().Truncate(24 * time.Hour),
			Close: c,
		}
	}
	return quote.PriceChart{
		Symbol:   symbol,
		Currency: currency,
		Points:   points,
	}
}
