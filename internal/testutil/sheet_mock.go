package testutil

import (
	"context"
	"sync"
)

// StaticSheet is a canned spreadsheet source. It counts fetches so cache
// tests can assert the sheet is not re-read within the TTL.
type StaticSheet struct {
	mu      sync.Mutex
	Rows    []map[string]string
	Err     error
	Fetches int
}

// FetchRows returns the canned rows (or error) and bumps the counter.
func (s *StaticSheet) FetchRows(_ context.Context) ([]map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fetches++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Rows, nil
}

// FetchCount returns how many times the sheet was read.
func (s *StaticSheet) FetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Fetches
}

// Row builds one spreadsheet row with the production sheet's Spanish
// headings, the shape most tests want.
func Row(ticker, titulos, costo, sector string) map[string]string {
	return map[string]string{
		"Emisora":        ticker,
		"Titulos":        titulos,
		"Costo Promedio": costo,
		"Sector":         sector,
	}
}
