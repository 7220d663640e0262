package apperrors

import "errors"

// Schema errors are the only fatal class: without a ticker and a quantity
// column there is no portfolio to value, so the run aborts instead of
// rendering a partial dashboard.
var (
	// ErrTickerColumnNotFound indicates no spreadsheet column matched the ticker synonyms.
	ErrTickerColumnNotFound = errors.New("ticker column not found")

	// ErrQuantityColumnNotFound indicates no spreadsheet column matched the quantity synonyms.
	ErrQuantityColumnNotFound = errors.New("quantity column not found")

	// ErrEmptySheet indicates the spreadsheet source returned no data rows.
	ErrEmptySheet = errors.New("spreadsheet returned no rows")
)

// Resolution errors are recovered per ticker: the affected symbol degrades
// to a zero quote and the batch completes for everything else.
var (
	// ErrSymbolUnresolved indicates no candidate symbol yielded a recent quote.
	ErrSymbolUnresolved = errors.New("symbol unresolved by any candidate")

	// ErrNoQuoteData indicates the provider answered but returned an empty series.
	ErrNoQuoteData = errors.New("no recent quote data")
)

// Operation failure errors represent system-level failures when talking to
// external collaborators.
var (
	// ErrSheetUnavailable indicates the spreadsheet source could not be reached or read.
	ErrSheetUnavailable = errors.New("spreadsheet source unavailable")

	// ErrSnapshotUnavailable indicates the load-resolve-value cycle could not complete.
	ErrSnapshotUnavailable = errors.New("failed to build portfolio snapshot")

	// ErrInvalidDateRange indicates a history request with start after end.
	ErrInvalidDateRange = errors.New("invalid date range")
)
