package model

// ValuedPosition is a ConsolidatedPosition joined with its Quote.
// All derived fields are recomputed from scratch on every refresh.
type ValuedPosition struct {
	ConsolidatedPosition
	Price                 float64
	DividendYield         float64 // carried from the quote, useful for watchlist rows
	MarketValue           float64 // TotalQuantity * Price
	Gain                  float64 // MarketValue - TotalInvested
	ReturnPct             float64 // Gain / TotalInvested * 100, 0 when nothing invested
	AnnualDividendIncome  float64 // TotalQuantity * DividendRate
	MonthlyDividendIncome float64 // AnnualDividendIncome / 12
	Unresolved            bool    // held position whose quote never resolved
}

// CategoryAllocation is the market-value share of one category, used by
// the dashboard's diversification chart.
type CategoryAllocation struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Weight   float64 `json:"weight"` // fraction of total held value, 0..1
}

// PortfolioSummary aggregates the whole portfolio for the KPI header.
type PortfolioSummary struct {
	TotalValue            float64
	TotalInvested         float64
	TotalGain             float64
	ReturnPct             float64
	AnnualDividendIncome  float64
	MonthlyDividendIncome float64
	HeldCount             int
	WatchlistCount        int
	UnresolvedCount       int
	Allocation            []CategoryAllocation
}

// HistoryPoint is the portfolio's total market value on one date.
type HistoryPoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Value float64 `json:"value"`
}
