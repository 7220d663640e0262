// Package sheets reads the portfolio spreadsheet. Two sources are
// supported: the Google Sheets API with service-account credentials, and
// a plain CSV export URL for public sheets. Both return rows as
// string-valued records keyed by the header row; numeric typing is the
// loader's responsibility.
package sheets

import (
	"context"
	"strings"
)

// Source is the boundary the rest of the pipeline consumes: a tabular
// provider returning one map per data row, keyed by header.
type Source interface {
	FetchRows(ctx context.Context) ([]map[string]string, error)
}

// rowsFromTable converts a header-plus-data table into keyed records.
// Short rows are padded with empty strings so every record carries every
// header; extra cells beyond the header are dropped.
func rowsFromTable(table [][]string) []map[string]string {
	if len(table) < 2 {
		return nil
	}

	headers := make([]string, len(table[0]))
	for i, h := range table[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]string, 0, len(table)-1)
	for _, record := range table[1:] {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}
