// Package valuation consolidates raw position rows into per-ticker
// aggregates and joins them with resolved market quotes. Pure arithmetic
// over slices and maps; no I/O.
package valuation

import (
	"sort"

	"github.com/rcastaneda/portfolio-dashboard/internal/model"
)

// Consolidate merges purchase-lot rows by ticker, preserving the
// insertion order of first appearance.
//
// Merge policy per field:
//   - quantity: sum
//   - invested capital: sum of per-row quantity*unitCost products
//   - category, notes: first non-empty value wins
//
// The weighted unit cost is recomputed as totalInvested/totalQuantity so
// per-row rounding never compounds; a zero-quantity ticker (watchlist
// entry) keeps a weighted cost of 0.
func Consolidate(positions []model.Position) []model.ConsolidatedPosition {
	index := make(map[string]int, len(positions))
	consolidated := make([]model.ConsolidatedPosition, 0, len(positions))

	for _, p := range positions {
		i, ok := index[p.Ticker]
		if !ok {
			i = len(consolidated)
			index[p.Ticker] = i
			consolidated = append(consolidated, model.ConsolidatedPosition{Ticker: p.Ticker})
		}

		c := &consolidated[i]
		c.TotalQuantity += p.Quantity
		c.TotalInvested += p.Quantity * p.UnitCost
		c.Lots++
		if c.Category == "" {
			c.Category = p.Category
		}
		if c.Notes == "" {
			c.Notes = p.Notes
		}
	}

	for i := range consolidated {
		if consolidated[i].TotalQuantity > 0 {
			consolidated[i].WeightedUnitCost = consolidated[i].TotalInvested / consolidated[i].TotalQuantity
		}
	}
	return consolidated
}

// Value joins consolidated positions with their quotes and derives the
// per-position metrics. Every division is guarded: a position with
// nothing invested reports a 0% return rather than NaN. A held position
// whose quote never resolved is flagged Unresolved so the dashboard can
// tell "worthless" from "not found".
func Value(consolidated []model.ConsolidatedPosition, quotes map[string]model.Quote) []model.ValuedPosition {
	valued := make([]model.ValuedPosition, len(consolidated))
	for i, c := range consolidated {
		q := quotes[c.Ticker]

		v := model.ValuedPosition{
			ConsolidatedPosition: c,
			Price:                q.Price,
			DividendYield:        q.DividendYield,
			MarketValue:          c.TotalQuantity * q.Price,
			AnnualDividendIncome: c.TotalQuantity * q.DividendRate,
			Unresolved:           !q.Resolved && c.TotalQuantity > 0,
		}
		v.Gain = v.MarketValue - c.TotalInvested
		if c.TotalInvested > 0 {
			v.ReturnPct = v.Gain / c.TotalInvested * 100
		}
		v.MonthlyDividendIncome = v.AnnualDividendIncome / 12

		valued[i] = v
	}
	return valued
}

// Partition splits valued positions into held (quantity > 0) and
// watchlist (quantity == 0) without mutating the records. Every position
// lands in exactly one partition.
func Partition(valued []model.ValuedPosition) (held, watchlist []model.ValuedPosition) {
	held = make([]model.ValuedPosition, 0, len(valued))
	watchlist = make([]model.ValuedPosition, 0)
	for _, v := range valued {
		if v.IsWatchlist() {
			watchlist = append(watchlist, v)
		} else {
			held = append(held, v)
		}
	}
	return held, watchlist
}

// Summarize computes the portfolio-level aggregates over the held
// partition, including the per-category allocation the diversification
// chart consumes. Watchlist entries hold no capital and are counted only.
func Summarize(held, watchlist []model.ValuedPosition) model.PortfolioSummary {
	summary := model.PortfolioSummary{
		HeldCount:      len(held),
		WatchlistCount: len(watchlist),
	}

	byCategory := make(map[string]float64)
	for _, v := range held {
		summary.TotalValue += v.MarketValue
		summary.TotalInvested += v.TotalInvested
		summary.TotalGain += v.Gain
		summary.AnnualDividendIncome += v.AnnualDividendIncome
		summary.MonthlyDividendIncome += v.MonthlyDividendIncome
		if v.Unresolved {
			summary.UnresolvedCount++
		}
		byCategory[v.Category] += v.MarketValue
	}

	if summary.TotalInvested > 0 {
		summary.ReturnPct = summary.TotalGain / summary.TotalInvested * 100
	}

	summary.Allocation = make([]model.CategoryAllocation, 0, len(byCategory))
	for category, value := range byCategory {
		weight := 0.0
		if summary.TotalValue > 0 {
			weight = value / summary.TotalValue
		}
		summary.Allocation = append(summary.Allocation, model.CategoryAllocation{
			Category: category,
			Value:    value,
			Weight:   weight,
		})
	}
	sort.Slice(summary.Allocation, func(i, j int) bool {
		return summary.Allocation[i].Value > summary.Allocation[j].Value
	})

	return summary
}
