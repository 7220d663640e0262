package loader_test

import (
	"errors"
	"testing"

	"github.com/rcastaneda/portfolio-dashboard/internal/apperrors"
	"github.com/rcastaneda/portfolio-dashboard/internal/loader"
)

// TestLoader_Load tests row normalization against the synonym table.
//
// WHY: the spreadsheet's column names have drifted over the years
// (Spanish, English, mixed casing). The loader is the only place that
// absorbs that drift, so every synonym path needs coverage.
func TestLoader_Load(t *testing.T) {
	ldr := loader.New(loader.Options{})

	t.Run("matches Spanish headings case-insensitively", func(t *testing.T) {
		rows := []map[string]string{
			{
				"EMISORA":        "WALMEX*",
				"Títulos":        "100",
				"Costo Promedio": "$65.50",
				"Sector":         "Consumo",
				"Notas":          "core holding",
			},
		}

		positions, warnings, err := ldr.Load(rows)
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if len(positions) != 1 {
			t.Fatalf("Expected 1 position, got %d", len(positions))
		}

		p := positions[0]
		if p.Ticker != "WALMEX*" {
			t.Errorf("Expected ticker WALMEX*, got %q", p.Ticker)
		}
		if p.Quantity != 100 {
			t.Errorf("Expected quantity 100, got %v", p.Quantity)
		}
		if p.UnitCost != 65.50 {
			t.Errorf("Expected unit cost 65.50, got %v", p.UnitCost)
		}
		if p.Category != "Consumo" {
			t.Errorf("Expected category Consumo, got %q", p.Category)
		}
		if p.Notes != "core holding" {
			t.Errorf("Expected notes to survive, got %q", p.Notes)
		}
		if len(warnings) != 0 {
			t.Errorf("Expected no warnings, got %v", warnings)
		}
	})

	t.Run("matches English broker export headings", func(t *testing.T) {
		rows := []map[string]string{
			{
				"Ticker Symbol": "AAPL",
				"Shares":        "12",
				"Average Cost":  "145.30",
				"Type":          "Tech",
			},
		}

		positions, _, err := ldr.Load(rows)
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if len(positions) != 1 || positions[0].Ticker != "AAPL" {
			t.Fatalf("Expected AAPL position, got %+v", positions)
		}
		if positions[0].Quantity != 12 {
			t.Errorf("Expected quantity 12, got %v", positions[0].Quantity)
		}
	})

	t.Run("fails with SchemaError when ticker column is missing", func(t *testing.T) {
		rows := []map[string]string{
			{"Titulos": "10", "Costo": "100"},
		}

		_, _, err := ldr.Load(rows)
		if err == nil {
			t.Fatal("Expected error, got nil")
		}

		var schemaErr *loader.SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("Expected *SchemaError, got %T: %v", err, err)
		}
		if !errors.Is(err, apperrors.ErrTickerColumnNotFound) {
			t.Errorf("Expected ErrTickerColumnNotFound, got %v", err)
		}
	})

	t.Run("fails with SchemaError when quantity column is missing", func(t *testing.T) {
		rows := []map[string]string{
			{"Emisora": "AAPL", "Costo": "100"},
		}

		_, _, err := ldr.Load(rows)
		if !errors.Is(err, apperrors.ErrQuantityColumnNotFound) {
			t.Errorf("Expected ErrQuantityColumnNotFound, got %v", err)
		}
	})

	t.Run("fails when the sheet has no rows", func(t *testing.T) {
		_, _, err := ldr.Load(nil)
		if !errors.Is(err, apperrors.ErrEmptySheet) {
			t.Errorf("Expected ErrEmptySheet, got %v", err)
		}
	})

	t.Run("coerces unparseable numbers to zero with a warning", func(t *testing.T) {
		rows := []map[string]string{
			{"Emisora": "AAPL", "Titulos": "diez", "Costo": "100", "Sector": "Tech"},
		}

		positions, warnings, err := ldr.Load(rows)
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if positions[0].Quantity != 0 {
			t.Errorf("Expected coerced quantity 0, got %v", positions[0].Quantity)
		}
		if len(warnings) != 1 {
			t.Fatalf("Expected 1 warning, got %d: %v", len(warnings), warnings)
		}
		if warnings[0].Value != "diez" {
			t.Errorf("Expected warning to carry the raw value, got %q", warnings[0].Value)
		}
	})

	t.Run("defaults blank category with a warning", func(t *testing.T) {
		rows := []map[string]string{
			{"Emisora": "AAPL", "Titulos": "5", "Costo": "100", "Sector": "  "},
		}

		positions, warnings, err := ldr.Load(rows)
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if positions[0].Category != loader.DefaultCategory {
			t.Errorf("Expected default category, got %q", positions[0].Category)
		}
		if len(warnings) != 1 {
			t.Errorf("Expected 1 warning for defaulted category, got %d", len(warnings))
		}
	})

	t.Run("skips spacer rows with a blank ticker", func(t *testing.T) {
		rows := []map[string]string{
			{"Emisora": "AAPL", "Titulos": "5", "Costo": "100", "Sector": "Tech"},
			{"Emisora": "", "Titulos": "", "Costo": "", "Sector": ""},
			{"Emisora": "MSFT", "Titulos": "3", "Costo": "200", "Sector": "Tech"},
		}

		positions, _, err := ldr.Load(rows)
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if len(positions) != 2 {
			t.Errorf("Expected 2 positions after skipping the spacer, got %d", len(positions))
		}
	})

	t.Run("zero quantity loads as a watchlist row, not an error", func(t *testing.T) {
		rows := []map[string]string{
			{"Emisora": "NVDA", "Titulos": "0", "Costo": "", "Sector": "Tech"},
		}

		positions, _, err := ldr.Load(rows)
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if positions[0].Quantity != 0 || positions[0].UnitCost != 0 {
			t.Errorf("Expected zeroed watchlist row, got %+v", positions[0])
		}
	})
}

// TestParseNumber tests currency-string coercion.
//
// WHY: every numeric cell arrives as text formatted by hand ("$1,234.56",
// "15 %"). The cleaning rules decide whether a lot is valued correctly or
// silently zeroed, so the accepted shapes are pinned down here.
func TestParseNumber(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"plain integer", "150", 150, false},
		{"decimal", "65.5", 65.5, false},
		{"dollar sign and thousands separators", "$1,234.56", 1234.56, false},
		{"euro sign", "€99.90", 99.9, false},
		{"percent sign", "3.5%", 3.5, false},
		{"internal spaces", "1 250.75", 1250.75, false},
		{"negative", "-12.5", -12.5, false},
		{"empty is zero", "", 0, false},
		{"whitespace only is zero", "   ", 0, false},
		{"words fail", "diez", 0, true},
		{"double decimal fails", "1.2.3", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := loader.ParseNumber(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseNumber(%q) expected error, got %v", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNumber(%q) returned unexpected error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
