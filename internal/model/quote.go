package model

import "time"

// Quote is a snapshot of price and dividend data for one ticker, fetched
// once per valuation run and never persisted. Price and DividendRate are
// expressed in the target currency after conversion; DividendYield is a
// ratio and is never converted.
//
// Any upstream field that could not be fetched degrades to 0 rather than
// to a null marker, so downstream arithmetic never has to branch on
// missing data. Resolved distinguishes "worth zero" from "never found".
type Quote struct {
	Ticker         string  // ticker as it appeared in the spreadsheet
	ResolvedSymbol string  // provider symbol of the winning candidate, "" if unresolved
	Price          float64 // latest close (or close on the as-of date)
	DividendRate   float64 // trailing annual dividend per unit
	DividendYield  float64 // trailing dividend yield fraction
	Currency       string  // target currency the price is expressed in
	Resolved       bool
}

// ResolutionFailure records one ticker that degraded to a zero quote after
// exhausting every candidate symbol.
type ResolutionFailure struct {
	Ticker     string   `json:"ticker"`
	Candidates []string `json:"candidates"` // symbols tried, in order
	Reason     string   `json:"reason"`
}

// ResolutionReport summarizes one resolution batch so the presentation
// layer can tell zero-valued quotes apart from unresolved ones.
type ResolutionReport struct {
	RunID    string              `json:"run_id"`
	AsOf     *time.Time          `json:"as_of,omitempty"` // nil for a current-price run
	Resolved int                 `json:"resolved"`
	Failures []ResolutionFailure `json:"failures"`
}
