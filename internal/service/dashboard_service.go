// Package service orchestrates the pull-compute cycle behind the
// dashboard: spreadsheet rows through the loader, resolver and valuation
// into a snapshot the HTTP layer serves.
package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rcastaneda/portfolio-dashboard/internal/apperrors"
	"github.com/rcastaneda/portfolio-dashboard/internal/loader"
	"github.com/rcastaneda/portfolio-dashboard/internal/model"
	"github.com/rcastaneda/portfolio-dashboard/internal/quote"
	"github.com/rcastaneda/portfolio-dashboard/internal/resolver"
	"github.com/rcastaneda/portfolio-dashboard/internal/sheets"
	"github.com/rcastaneda/portfolio-dashboard/internal/valuation"
)

// Snapshot is one complete pass through the pipeline. It is the only
// state the service holds, and it is rebuilt from scratch whenever the
// cache expires or a refresh is requested; nothing is persisted.
type Snapshot struct {
	ID        string // resolution run ID, shared with the report
	FetchedAt time.Time
	Held      []model.ValuedPosition
	Watchlist []model.ValuedPosition
	Summary   model.PortfolioSummary
	Warnings  []loader.Warning
	Report    model.ResolutionReport
}

// DashboardService runs Loader -> Resolver -> Valuation and memoizes the
// result for the cache TTL, so chart interactions in the dashboard do not
// refetch the sheet and the whole quote batch on every click.
type DashboardService struct {
	source   sheets.Source
	loader   *loader.Loader
	resolver *resolver.Resolver
	ttl      time.Duration

	mu     sync.Mutex
	cached *Snapshot
}

// NewDashboardService wires the pipeline stages together.
func NewDashboardService(source sheets.Source, ldr *loader.Loader, rsv *resolver.Resolver, ttl time.Duration) *DashboardService {
	return &DashboardService{
		source:   source,
		loader:   ldr,
		resolver: rsv,
		ttl:      ttl,
	}
}

// Snapshot returns the cached snapshot, rebuilding it when stale. The
// lock is held across the rebuild so concurrent dashboard requests share
// one upstream fetch instead of racing.
func (s *DashboardService) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.cached.FetchedAt) < s.ttl {
		return s.cached, nil
	}

	snap, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	s.cached = snap
	return snap, nil
}

// Refresh discards the cached snapshot and rebuilds immediately. This is
// the "update market" button: cache invalidation plus a fresh run.
func (s *DashboardService) Refresh(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
	snap, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	s.cached = snap
	return snap, nil
}

// build runs one full pull-compute cycle. Only schema and source errors
// abort; every market-side failure has already degraded per ticker by
// the time the resolver returns.
func (s *DashboardService) build(ctx context.Context) (*Snapshot, error) {
	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSnapshotUnavailable, err)
	}

	positions, warnings, err := s.loader.Load(rows)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Printf("data quality: %s", w)
	}

	consolidated := valuation.Consolidate(positions)
	tickers := make([]string, len(consolidated))
	for i, c := range consolidated {
		tickers[i] = c.Ticker
	}

	quotes, report, err := s.resolver.Resolve(ctx, tickers, nil)
	if err != nil {
		return nil, err
	}
	for _, f := range report.Failures {
		log.Printf("unresolved ticker %s (tried %v): %s", f.Ticker, f.Candidates, f.Reason)
	}

	valued := valuation.Value(consolidated, quotes)
	held, watchlist := valuation.Partition(valued)

	return &Snapshot{
		ID:        report.RunID,
		FetchedAt: time.Now(),
		Held:      held,
		Watchlist: watchlist,
		Summary:   valuation.Summarize(held, watchlist),
		Warnings:  warnings,
		Report:    report,
	}, nil
}

// History reconstructs the portfolio's total market value per day over
// [start, end]: one date-ranged resolution per held ticker, then
// currently-held quantity times the date-aligned close, carried forward
// over non-trading days. Dates before the first known price of every
// ticker are omitted.
func (s *DashboardService) History(ctx context.Context, start, end time.Time) ([]model.HistoryPoint, error) {
	if end.Before(start) {
		return nil, apperrors.ErrInvalidDateRange
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(snap.Held) == 0 {
		return []model.HistoryPoint{}, nil
	}

	tickers := make([]string, len(snap.Held))
	quantities := make(map[string]float64, len(snap.Held))
	for i, h := range snap.Held {
		tickers[i] = h.Ticker
		quantities[h.Ticker] = h.TotalQuantity
	}

	series, err := s.resolver.ResolveRange(ctx, tickers, start, end)
	if err != nil {
		return nil, err
	}

	charts := make(map[string]quote.PriceChart, len(series))
	for ticker, points := range series {
		charts[ticker] = quote.PriceChart{Points: points}
	}

	history := []model.HistoryPoint{}
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		var total float64
		priced := false
		for ticker, chart := range charts {
			if px, ok := chart.CloseOnOrBefore(date); ok {
				total += quantities[ticker] * px
				priced = true
			}
		}
		if !priced {
			continue
		}
		history = append(history, model.HistoryPoint{
			Date:  date.Format("2006-01-02"),
			Value: total,
		})
	}
	return history, nil
}
