package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/rcastaneda/portfolio-dashboard/internal/apperrors"
)

const (
	sheetsAPIBase = "https://sheets.googleapis.com"
	sheetsScope   = "https://www.googleapis.com/auth/spreadsheets.readonly"
)

// GoogleClient reads a spreadsheet range through the Sheets values API,
// authenticated with a service-account JSON key.
type GoogleClient struct {
	httpClient    *http.Client
	baseURL       string
	spreadsheetID string
	readRange     string
}

// valuesResponse is the subset of the values.get response we consume.
type valuesResponse struct {
	Values [][]string `json:"values"`
}

// NewGoogleClient creates a client from a service-account credentials
// file. The returned client owns an OAuth2-wrapped HTTP client with an
// explicit timeout; token refresh is handled by the oauth2 transport.
func NewGoogleClient(ctx context.Context, credentialsFile, spreadsheetID, readRange string) (*GoogleClient, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, sheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	httpClient := jwtConfig.Client(ctx)
	httpClient.Timeout = 15 * time.Second

	return &GoogleClient{
		httpClient:    httpClient,
		baseURL:       sheetsAPIBase,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}, nil
}

// FetchRows retrieves the configured range and returns keyed records.
// The first row of the range is treated as the header.
func (c *GoogleClient) FetchRows(ctx context.Context) ([]map[string]string, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		c.baseURL,
		url.PathEscape(c.spreadsheetID),
		url.PathEscape(c.readRange),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSheetUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSheetUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: sheets API returned %d: %s",
			apperrors.ErrSheetUnavailable, resp.StatusCode, string(body))
	}

	var values valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&values); err != nil {
		return nil, fmt.Errorf("%w: failed to decode values response: %v",
			apperrors.ErrSheetUnavailable, err)
	}

	return rowsFromTable(values.Values), nil
}
