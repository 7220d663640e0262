package model

// Position is one raw spreadsheet row after normalization by the loader.
// A ticker may appear in multiple rows, one per purchase lot; rows are
// immutable once parsed and are merged later by the valuation engine.
type Position struct {
	Ticker   string  // symbol as typed by the user, trimmed
	Quantity float64 // units held; 0 means watchlist entry
	UnitCost float64 // local-currency cost per unit at acquisition
	Category string  // sector/type classification, defaulted when blank
	Notes    string  // free text, optional
}

// ConsolidatedPosition merges all purchase lots of a single ticker.
//
// TotalInvested is always the sum of per-row quantity*unitCost products,
// never recomputed from WeightedUnitCost, so rounding error does not
// compound through the aggregation.
type ConsolidatedPosition struct {
	Ticker           string
	Category         string // first non-empty value in row order
	Notes            string // first non-empty value in row order
	TotalQuantity    float64
	TotalInvested    float64
	WeightedUnitCost float64 // TotalInvested / TotalQuantity, 0 when quantity is 0
	Lots             int     // number of raw rows merged
}

// IsWatchlist reports whether this position is tracked but not held.
func (c ConsolidatedPosition) IsWatchlist() bool {
	return c.TotalQuantity == 0
}
