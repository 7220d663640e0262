// Package loader normalizes raw spreadsheet rows into Position records.
// It is a pure transform: all I/O lives in the sheets package, all market
// enrichment in the resolver.
package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcastaneda/portfolio-dashboard/internal/apperrors"
	"github.com/rcastaneda/portfolio-dashboard/internal/model"
)

// Canonical field names the synonym table maps onto.
const (
	FieldTicker   = "ticker"
	FieldQuantity = "quantity"
	FieldUnitCost = "unit_cost"
	FieldCategory = "category"
	FieldNotes    = "notes"
)

// DefaultSynonyms maps lowercased spreadsheet headings to canonical fields.
// The Spanish entries match the headings the portfolio sheet has used over
// the years; the English ones cover exports from brokers.
var DefaultSynonyms = map[string]string{
	"ticker":         FieldTicker,
	"emisora":        FieldTicker,
	"simbolo":        FieldTicker,
	"símbolo":        FieldTicker,
	"symbol":         FieldTicker,
	"ticker symbol":  FieldTicker,
	"cantidad":       FieldQuantity,
	"titulos":        FieldQuantity,
	"títulos":        FieldQuantity,
	"shares":         FieldQuantity,
	"quantity":       FieldQuantity,
	"costo":          FieldUnitCost,
	"costo promedio": FieldUnitCost,
	"precio compra":  FieldUnitCost,
	"average cost":   FieldUnitCost,
	"cost":           FieldUnitCost,
	"unit cost":      FieldUnitCost,
	"sector":         FieldCategory,
	"tipo":           FieldCategory,
	"type":           FieldCategory,
	"categoria":      FieldCategory,
	"category":       FieldCategory,
	"notas":          FieldNotes,
	"notes":          FieldNotes,
}

// DefaultCategory is applied when a row has no classification.
const DefaultCategory = "Sin Clasificar"

// SchemaError reports that a mandatory column could not be located after
// synonym matching. It aborts the run: without ticker and quantity there
// is nothing to value.
type SchemaError struct {
	Missing string // canonical field that has no matching column
	Headers []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: no column matches %q (headers: %s)",
		e.Missing, strings.Join(e.Headers, ", "))
}

// Unwrap lets callers test for the specific missing column with errors.Is.
func (e *SchemaError) Unwrap() error {
	switch e.Missing {
	case FieldTicker:
		return apperrors.ErrTickerColumnNotFound
	case FieldQuantity:
		return apperrors.ErrQuantityColumnNotFound
	}
	return nil
}

// Warning records one recovered data-quality issue: a numeric cell that
// failed to parse and was coerced to 0, or a blank categorical field that
// was defaulted. Warnings are returned to the caller for logging; they
// never abort the run.
type Warning struct {
	Row     int    `json:"row"` // 1-based data row number
	Column  string `json:"column"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d, column %s: %s (value %q)", w.Row, w.Column, w.Message, w.Value)
}

// Loader turns heterogeneous key/value rows into Position records with a
// fixed schema. The synonym table and category default are injected so
// new spreadsheet layouts can be supported without touching core logic.
type Loader struct {
	synonyms        map[string]string
	defaultCategory string
}

// Options configures a Loader. Zero values fall back to the defaults.
type Options struct {
	Synonyms        map[string]string
	DefaultCategory string
}

// New creates a Loader with the provided options.
func New(opts Options) *Loader {
	synonyms := opts.Synonyms
	if synonyms == nil {
		synonyms = DefaultSynonyms
	}
	defaultCategory := opts.DefaultCategory
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	return &Loader{
		synonyms:        synonyms,
		defaultCategory: defaultCategory,
	}
}

// Load converts raw rows into positions. Column names are matched
// case-insensitively against the synonym table; ticker and quantity are
// mandatory and their absence is a *SchemaError. Rows with an empty
// ticker cell are skipped (spreadsheets accumulate spacer rows).
func (l *Loader) Load(rows []map[string]string) ([]model.Position, []Warning, error) {
	if len(rows) == 0 {
		return nil, nil, apperrors.ErrEmptySheet
	}

	columns, headers := l.resolveColumns(rows[0])
	if _, ok := columns[FieldTicker]; !ok {
		return nil, nil, &SchemaError{Missing: FieldTicker, Headers: headers}
	}
	if _, ok := columns[FieldQuantity]; !ok {
		return nil, nil, &SchemaError{Missing: FieldQuantity, Headers: headers}
	}

	positions := make([]model.Position, 0, len(rows))
	var warnings []Warning

	for i, row := range rows {
		rowNum := i + 1

		ticker := strings.TrimSpace(row[columns[FieldTicker]])
		if ticker == "" {
			continue
		}

		quantity, warn := parseNumericCell(rowNum, columns[FieldQuantity], row[columns[FieldQuantity]])
		if warn != nil {
			warnings = append(warnings, *warn)
		}

		var unitCost float64
		if col, ok := columns[FieldUnitCost]; ok {
			unitCost, warn = parseNumericCell(rowNum, col, row[col])
			if warn != nil {
				warnings = append(warnings, *warn)
			}
		}

		category := ""
		if col, ok := columns[FieldCategory]; ok {
			category = strings.TrimSpace(row[col])
		}
		if category == "" {
			warnings = append(warnings, Warning{
				Row:     rowNum,
				Column:  FieldCategory,
				Message: "blank category, defaulted",
			})
			category = l.defaultCategory
		}

		notes := ""
		if col, ok := columns[FieldNotes]; ok {
			notes = strings.TrimSpace(row[col])
		}

		positions = append(positions, model.Position{
			Ticker:   ticker,
			Quantity: quantity,
			UnitCost: unitCost,
			Category: category,
			Notes:    notes,
		})
	}

	return positions, warnings, nil
}

// resolveColumns maps canonical fields to the actual column names of this
// sheet. First matching header wins per field.
func (l *Loader) resolveColumns(row map[string]string) (map[string]string, []string) {
	columns := make(map[string]string, len(row))
	headers := make([]string, 0, len(row))
	for header := range row {
		headers = append(headers, header)
		canonical, ok := l.synonyms[strings.ToLower(strings.TrimSpace(header))]
		if !ok {
			continue
		}
		if _, taken := columns[canonical]; !taken {
			columns[canonical] = header
		}
	}
	return columns, headers
}

// parseNumericCell coerces one cell to a float. Failure coerces to 0 with
// a warning instead of raising; that leniency is deliberate so one typo
// cannot take down the whole dashboard.
func parseNumericCell(row int, column, raw string) (float64, *Warning) {
	value, err := ParseNumber(raw)
	if err != nil {
		return 0, &Warning{
			Row:     row,
			Column:  column,
			Value:   raw,
			Message: "unparseable number, coerced to 0",
		}
	}
	return value, nil
}

// numericCleaner strips the currency formatting users type into sheets:
// currency symbols, thousands separators, percent signs and spaces.
var numericCleaner = strings.NewReplacer(
	"$", "",
	"€", "",
	"£", "",
	",", "",
	"%", "",
	" ", "",
	" ", "",
)

// ParseNumber converts a currency-formatted string to a float64. An empty
// cell parses as 0 without error; anything else that does not survive
// cleaning is an error the caller downgrades to a warning.
func ParseNumber(raw string) (float64, error) {
	cleaned := numericCleaner.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse number %q: %w", raw, err)
	}
	return value, nil
}
