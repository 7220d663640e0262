// Package quote is the Yahoo Finance client. It exposes recent and
// date-ranged close-price charts plus trailing dividend data, and nothing
// about tickers, candidates or currencies: that policy lives in the
// resolver.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/rcastaneda/portfolio-dashboard/internal/apperrors"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client talks to the Yahoo Finance chart and quote endpoints. Every
// request is bounded by the HTTP client timeout and throttled by the
// shared limiter so a large portfolio cannot trip the provider's
// rate limiting.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host. Tests use it to
// target an httptest server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// NewClient creates a Yahoo Finance client. Defaults: 10s request
// timeout, 4 requests per second with a small burst.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(4), 8),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FiveDayChart fetches the last five trading days of daily closes for a
// symbol. Used to pick up the latest available close.
func (c *Client) FiveDayChart(ctx context.Context, symbol string) (PriceChart, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d",
		c.baseURL, url.PathEscape(symbol))
	return c.fetchChart(ctx, symbol, endpoint)
}

// ChartByDateRange fetches daily closes for a symbol between two dates,
// inclusive. Used for historical as-of lookups and the value-over-time
// series.
func (c *Client) ChartByDateRange(ctx context.Context, symbol string, start, end time.Time) (PriceChart, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL, url.PathEscape(symbol), start.Unix(), end.Unix())
	return c.fetchChart(ctx, symbol, endpoint)
}

// Quote fetches the v7 quote for a symbol, carrying trailing annual
// dividend rate and yield. Symbols without dividend data come back with
// those fields zero, which is exactly what the valuation expects.
func (c *Client) Quote(ctx context.Context, symbol string) (SymbolQuote, error) {
	endpoint := fmt.Sprintf("%s/v7/finance/quote?symbols=%s",
		c.baseURL, url.QueryEscape(symbol))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return SymbolQuote{}, err
	}

	var parsed quoteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return SymbolQuote{}, fmt.Errorf("failed to decode quote response for %s: %w", symbol, err)
	}
	if parsed.QuoteResponse.Error != nil {
		return SymbolQuote{}, fmt.Errorf("quote error for %s: %s",
			symbol, parsed.QuoteResponse.Error.Description)
	}
	if len(parsed.QuoteResponse.Result) == 0 {
		return SymbolQuote{}, fmt.Errorf("%w: %s", apperrors.ErrNoQuoteData, symbol)
	}

	r := parsed.QuoteResponse.Result[0]
	return SymbolQuote{
		Symbol:        r.Symbol,
		Currency:      r.Currency,
		Price:         r.RegularMarketPrice,
		DividendRate:  r.TrailingAnnualDividendRate,
		DividendYield: r.TrailingAnnualDividendYield,
	}, nil
}

// fetchChart executes a chart request and parses it into a PriceChart.
func (c *Client) fetchChart(ctx context.Context, symbol, endpoint string) (PriceChart, error) {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return PriceChart{}, err
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return PriceChart{}, fmt.Errorf("failed to decode chart response for %s: %w", symbol, err)
	}
	if parsed.Chart.Error != nil {
		return PriceChart{}, fmt.Errorf("chart error for %s: %s",
			symbol, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("%w: %s", apperrors.ErrNoQuoteData, symbol)
	}

	result := parsed.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("%w: %s", apperrors.ErrNoQuoteData, symbol)
	}
	if len(result.Indicators.Quote) == 0 {
		return PriceChart{}, fmt.Errorf("%w: %s", apperrors.ErrNoQuoteData, symbol)
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched chart data lengths for %s", symbol)
	}

	points := make([]PricePoint, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		points[i] = PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: closes[i],
		}
	}

	return PriceChart{
		Symbol:   result.Meta.Symbol,
		Currency: result.Meta.Currency,
		Points:   points,
	}, nil
}

// get performs one throttled GET and returns the response body.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	// Yahoo rejects requests without a browser-looking user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}
	return body, nil
}
