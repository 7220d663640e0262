package quote

import "time"

// chartResponse is the raw JSON shape of the Yahoo Finance chart API.
// Only the fields the dashboard consumes are mapped.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency     string `json:"currency"`
				Symbol       string `json:"symbol"`
				ExchangeName string `json:"exchangeName"`
				ShortName    string `json:"shortName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// quoteResponse is the raw JSON shape of the Yahoo v7 quote API, used for
// trailing dividend data.
type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                      string  `json:"symbol"`
			Currency                    string  `json:"currency"`
			RegularMarketPrice          float64 `json:"regularMarketPrice"`
			TrailingAnnualDividendRate  float64 `json:"trailingAnnualDividendRate"`
			TrailingAnnualDividendYield float64 `json:"trailingAnnualDividendYield"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// PricePoint is one trading day's close.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceChart is the parsed internal representation of a chart response:
// symbol metadata plus a close-price series in the quote's native
// currency.
type PriceChart struct {
	Symbol   string
	Currency string
	Points   []PricePoint
}

// LatestClose returns the most recent non-zero close in the chart.
func (c PriceChart) LatestClose() (float64, bool) {
	for i := len(c.Points) - 1; i >= 0; i-- {
		if c.Points[i].Close > 0 {
			return c.Points[i].Close, true
		}
	}
	return 0, false
}

// CloseOn returns the close for the given calendar day, comparing dates
// truncated to midnight UTC.
func (c PriceChart) CloseOn(target time.Time) (float64, bool) {
	targetDay := target.UTC().Truncate(24 * time.Hour)
	for _, p := range c.Points {
		if p.Date.UTC().Truncate(24*time.Hour).Equal(targetDay) && p.Close > 0 {
			return p.Close, true
		}
	}
	return 0, false
}

// CloseOnOrBefore returns the last close at or before the given day.
// History reconstruction uses it to carry prices over non-trading days.
func (c PriceChart) CloseOnOrBefore(target time.Time) (float64, bool) {
	targetDay := target.UTC().Truncate(24 * time.Hour)
	var (
		found bool
		last  float64
	)
	for _, p := range c.Points {
		day := p.Date.UTC().Truncate(24 * time.Hour)
		if day.After(targetDay) {
			break
		}
		if p.Close > 0 {
			last = p.Close
			found = true
		}
	}
	return last, found
}

// SymbolQuote carries the dividend fields of the v7 quote endpoint in the
// quote's native currency.
type SymbolQuote struct {
	Symbol        string
	Currency      string
	Price         float64
	DividendRate  float64
	DividendYield float64
}
