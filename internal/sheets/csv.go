package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"
)

// CSVSource reads the sheet from its public CSV export URL. Used for
// sheets shared read-only without service-account plumbing.
type CSVSource struct {
	httpClient *http.Client
	url        string
}

// NewCSVSource creates a CSV source for the given export URL.
func NewCSVSource(exportURL string) *CSVSource {
	return &CSVSource{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		url:        exportURL,
	}
}

// FetchRows downloads and parses the CSV export. The first record is the
// header; ragged rows are tolerated since sheets pad unevenly.
func (s *CSVSource) FetchRows(ctx context.Context) ([]map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build CSV request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch CSV export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CSV export returned status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // sheets export ragged rows

	table, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV export: %w", err)
	}

	return rowsFromTable(table), nil
}
