package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rcastaneda/portfolio-dashboard/internal/apperrors"
)

// TestRowsFromTable tests header-keyed record conversion.
//
// WHY: both sources funnel through this conversion, and real sheets are
// messy: padded headers, ragged rows, trailing blank columns. The loader
// downstream assumes every record carries every header.
func TestRowsFromTable(t *testing.T) {
	t.Run("keys records by trimmed headers", func(t *testing.T) {
		table := [][]string{
			{" Emisora ", "Titulos"},
			{"WALMEX", "100"},
		}

		rows := rowsFromTable(table)
		if len(rows) != 1 {
			t.Fatalf("Expected 1 row, got %d", len(rows))
		}
		if rows[0]["Emisora"] != "WALMEX" {
			t.Errorf("Expected trimmed header key, got %+v", rows[0])
		}
	})

	t.Run("pads short rows with empty strings", func(t *testing.T) {
		table := [][]string{
			{"Emisora", "Titulos", "Costo"},
			{"WALMEX", "100"},
		}

		rows := rowsFromTable(table)
		if v, ok := rows[0]["Costo"]; !ok || v != "" {
			t.Errorf("Expected padded empty Costo cell, got %+v", rows[0])
		}
	})

	t.Run("drops cells beyond the header", func(t *testing.T) {
		table := [][]string{
			{"Emisora"},
			{"WALMEX", "stray"},
		}

		rows := rowsFromTable(table)
		if len(rows[0]) != 1 {
			t.Errorf("Expected 1 keyed cell, got %+v", rows[0])
		}
	})

	t.Run("skips unnamed columns", func(t *testing.T) {
		table := [][]string{
			{"Emisora", ""},
			{"WALMEX", "orphan"},
		}

		rows := rowsFromTable(table)
		if _, ok := rows[0][""]; ok {
			t.Errorf("Expected no empty-string key, got %+v", rows[0])
		}
	})

	t.Run("header-only table yields no rows", func(t *testing.T) {
		if rows := rowsFromTable([][]string{{"Emisora"}}); rows != nil {
			t.Errorf("Expected nil, got %+v", rows)
		}
	})
}

// TestCSVSource tests the public CSV export path.
func TestCSVSource(t *testing.T) {
	t.Run("parses the export including ragged rows", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "Emisora,Titulos,Costo\nWALMEX,100,65.50\nNVDA,0\n")
		}))
		defer server.Close()

		source := NewCSVSource(server.URL)
		rows, err := source.FetchRows(context.Background())
		if err != nil {
			t.Fatalf("FetchRows() returned unexpected error: %v", err)
		}

		if len(rows) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(rows))
		}
		if rows[0]["Emisora"] != "WALMEX" || rows[0]["Costo"] != "65.50" {
			t.Errorf("Unexpected first row: %+v", rows[0])
		}
		if rows[1]["Costo"] != "" {
			t.Errorf("Expected the ragged row padded, got %+v", rows[1])
		}
	})

	t.Run("non-200 status fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		source := NewCSVSource(server.URL)
		if _, err := source.FetchRows(context.Background()); err == nil {
			t.Fatal("Expected error on HTTP 403, got nil")
		}
	})
}

// TestGoogleClient_FetchRows tests the Sheets values API path. The
// client is built by hand to point at a test server; the OAuth2
// transport is exercised only in production.
func TestGoogleClient_FetchRows(t *testing.T) {
	newClient := func(baseURL string) *GoogleClient {
		return &GoogleClient{
			httpClient:    &http.Client{Timeout: 5 * time.Second},
			baseURL:       baseURL,
			spreadsheetID: "sheet-123",
			readRange:     "Sheet1",
		}
	}

	t.Run("fetches the configured range", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			want := "/v4/spreadsheets/sheet-123/values/Sheet1"
			if r.URL.Path != want {
				t.Errorf("Expected path %s, got %s", want, r.URL.Path)
			}
			fmt.Fprint(w, `{"values":[["Emisora","Titulos"],["WALMEX","100"]]}`)
		}))
		defer server.Close()

		rows, err := newClient(server.URL).FetchRows(context.Background())
		if err != nil {
			t.Fatalf("FetchRows() returned unexpected error: %v", err)
		}
		if len(rows) != 1 || rows[0]["Emisora"] != "WALMEX" {
			t.Errorf("Unexpected rows: %+v", rows)
		}
	})

	t.Run("API errors wrap ErrSheetUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"status":"PERMISSION_DENIED"}}`)
		}))
		defer server.Close()

		_, err := newClient(server.URL).FetchRows(context.Background())
		if !errors.Is(err, apperrors.ErrSheetUnavailable) {
			t.Errorf("Expected ErrSheetUnavailable, got %v", err)
		}
	})
}
