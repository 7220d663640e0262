// Package resolver maps spreadsheet tickers to market quotes. It owns
// the symbol-resolution heuristic (correction table, domestic-suffix
// candidates) and the currency-conversion step, and knows nothing about
// spreadsheets or HTTP handlers.
package resolver

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rcastaneda/portfolio-dashboard/internal/apperrors"
	"github.com/rcastaneda/portfolio-dashboard/internal/model"
	"github.com/rcastaneda/portfolio-dashboard/internal/quote"
)

// MarketData is the slice of the quote client the resolver consumes.
// Declared here so tests can substitute a mock provider.
type MarketData interface {
	FiveDayChart(ctx context.Context, symbol string) (quote.PriceChart, error)
	ChartByDateRange(ctx context.Context, symbol string, start, end time.Time) (quote.PriceChart, error)
	Quote(ctx context.Context, symbol string) (quote.SymbolQuote, error)
}

// Options configures a Resolver. Zero values fall back to the defaults
// used by the production dashboard.
type Options struct {
	Corrections    map[string]string // spreadsheet spelling -> provider spelling
	Suffix         string            // domestic exchange suffix, e.g. ".MX"
	TargetCurrency string            // currency every price converts into
	DefaultFXRate  float64           // fallback when the FX pair lookup fails
	MaxParallel    int               // concurrent per-ticker lookups
}

// Resolver resolves a set of tickers against the market-data provider.
// It is stateless between calls: resolving the same tickers twice with
// unchanged upstream data yields identical results.
type Resolver struct {
	market        MarketData
	corrections   map[string]string
	suffix        string
	target        string
	defaultFXRate float64
	maxParallel   int
}

// New creates a Resolver around the given market-data provider.
func New(market MarketData, opts Options) *Resolver {
	corrections := opts.Corrections
	if corrections == nil {
		corrections = DefaultCorrections
	}
	suffix := opts.Suffix
	if suffix == "" {
		suffix = ".MX"
	}
	target := opts.TargetCurrency
	if target == "" {
		target = "MXN"
	}
	defaultFXRate := opts.DefaultFXRate
	if defaultFXRate == 0 {
		defaultFXRate = 17.0
	}
	maxParallel := opts.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 4
	}
	return &Resolver{
		market:        market,
		corrections:   corrections,
		suffix:        suffix,
		target:        strings.ToUpper(target),
		defaultFXRate: defaultFXRate,
		maxParallel:   maxParallel,
	}
}

// Resolve maps every ticker to a quote in the target currency. asOf nil
// means "latest close"; otherwise the close on (or last before) that
// date is used and dividend fields stay zero, since the provider only
// reports trailing dividends for the present.
//
// Failures are per-ticker: a symbol that exhausts every candidate
// degrades to an all-zero quote and a report entry, and the batch
// completes for everything else. Only context cancellation aborts.
func (r *Resolver) Resolve(ctx context.Context, tickers []string, asOf *time.Time) (map[string]model.Quote, model.ResolutionReport, error) {
	unique := dedupe(tickers)

	quotes := make([]model.Quote, len(unique))
	failures := make([]*model.ResolutionFailure, len(unique))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxParallel)
	for i, ticker := range unique {
		i, ticker := i, ticker
		g.Go(func() error {
			q, err := r.resolveOne(gctx, ticker, asOf)
			quotes[i] = q
			if err != nil {
				failures[i] = &model.ResolutionFailure{
					Ticker:     ticker,
					Candidates: r.candidates(ticker),
					Reason:     err.Error(),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, model.ResolutionReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, model.ResolutionReport{}, err
	}

	result := make(map[string]model.Quote, len(unique))
	report := model.ResolutionReport{
		RunID: uuid.NewString(),
		AsOf:  asOf,
	}
	for i, ticker := range unique {
		result[ticker] = quotes[i]
		if failures[i] != nil {
			report.Failures = append(report.Failures, *failures[i])
		} else {
			report.Resolved++
		}
	}
	return result, report, nil
}

// resolveOne tries each candidate symbol in order and converts the first
// hit into the target currency. A quote won by the domestic-suffix
// candidate is already target-currency and skips conversion.
func (r *Resolver) resolveOne(ctx context.Context, ticker string, asOf *time.Time) (model.Quote, error) {
	zero := model.Quote{Ticker: ticker, Currency: r.target}

	for _, candidate := range r.candidates(ticker) {
		chart, err := r.chartFor(ctx, candidate, asOf)
		if err != nil {
			continue
		}

		var price float64
		var ok bool
		if asOf == nil {
			price, ok = chart.LatestClose()
		} else {
			price, ok = chart.CloseOnOrBefore(*asOf)
		}
		if !ok {
			continue
		}

		resolved := model.Quote{
			Ticker:         ticker,
			ResolvedSymbol: candidate,
			Price:          price,
			Currency:       r.target,
			Resolved:       true,
		}

		if asOf == nil {
			// Dividend data is best-effort: a symbol without it still resolves.
			if sq, qerr := r.market.Quote(ctx, candidate); qerr == nil {
				resolved.DividendRate = sq.DividendRate
				resolved.DividendYield = sq.DividendYield
			}
		}

		fromSuffix := strings.HasSuffix(candidate, r.suffix)
		if !fromSuffix && chart.Currency != "" && !strings.EqualFold(chart.Currency, r.target) {
			rate := r.fxRate(ctx, chart.Currency, asOf)
			resolved.Price *= rate
			resolved.DividendRate *= rate
			// Yield is a ratio and never converts.
		}

		return resolved, nil
	}

	return zero, fmt.Errorf("%w: %s", apperrors.ErrSymbolUnresolved, ticker)
}

// chartFor fetches the price chart a candidate is judged on: the recent
// five days for current runs, a window ending at the as-of date for
// historical ones.
func (r *Resolver) chartFor(ctx context.Context, symbol string, asOf *time.Time) (quote.PriceChart, error) {
	if asOf == nil {
		return r.market.FiveDayChart(ctx, symbol)
	}
	// A week of lead covers holidays and weekends before the as-of date.
	return r.market.ChartByDateRange(ctx, symbol, asOf.AddDate(0, 0, -7), asOf.AddDate(0, 0, 1))
}

// fxRate returns the conversion rate from the quote currency into the
// target currency, date-aligned when asOf is set. An unavailable pair
// falls back to the configured default rate rather than aborting the
// pipeline.
func (r *Resolver) fxRate(ctx context.Context, from string, asOf *time.Time) float64 {
	pair := fmt.Sprintf("%s%s=X", strings.ToUpper(from), r.target)

	chart, err := r.chartFor(ctx, pair, asOf)
	if err == nil {
		var rate float64
		var ok bool
		if asOf == nil {
			rate, ok = chart.LatestClose()
		} else {
			rate, ok = chart.CloseOnOrBefore(*asOf)
		}
		if ok && rate > 0 {
			return rate
		}
	}

	log.Printf("fx rate %s unavailable, using default %.4f: %v", pair, r.defaultFXRate, err)
	return r.defaultFXRate
}

// ResolveRange resolves each ticker once and returns its daily close
// series over [start, end], converted into the target currency. Tickers
// that resolve to nothing are absent from the result; the history view
// treats them as contributing no value, consistent with the zero-quote
// policy of Resolve.
func (r *Resolver) ResolveRange(ctx context.Context, tickers []string, start, end time.Time) (map[string][]quote.PricePoint, error) {
	if end.Before(start) {
		return nil, apperrors.ErrInvalidDateRange
	}

	unique := dedupe(tickers)
	series := make([][]quote.PricePoint, len(unique))

	// FX series are shared across tickers quoted in the same currency.
	fxCache := struct {
		sync.Mutex
		charts map[string]quote.PriceChart
	}{charts: make(map[string]quote.PriceChart)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxParallel)
	for i, ticker := range unique {
		i, ticker := i, ticker
		g.Go(func() error {
			for _, candidate := range r.candidates(ticker) {
				chart, err := r.market.ChartByDateRange(gctx, candidate, start, end)
				if err != nil || len(chart.Points) == 0 {
					continue
				}

				fromSuffix := strings.HasSuffix(candidate, r.suffix)
				if fromSuffix || chart.Currency == "" || strings.EqualFold(chart.Currency, r.target) {
					series[i] = chart.Points
					return nil
				}

				fxCache.Lock()
				fxChart, cached := fxCache.charts[chart.Currency]
				if !cached {
					pair := fmt.Sprintf("%s%s=X", strings.ToUpper(chart.Currency), r.target)
					fxChart, err = r.market.ChartByDateRange(gctx, pair, start.AddDate(0, 0, -7), end)
					if err != nil {
						log.Printf("fx series %s unavailable, using default %.4f: %v", pair, r.defaultFXRate, err)
						fxChart = quote.PriceChart{}
					}
					fxCache.charts[chart.Currency] = fxChart
				}
				fxCache.Unlock()

				converted := make([]quote.PricePoint, len(chart.Points))
				for j, p := range chart.Points {
					rate, ok := fxChart.CloseOnOrBefore(p.Date)
					if !ok || rate <= 0 {
						rate = r.defaultFXRate
					}
					converted[j] = quote.PricePoint{Date: p.Date, Close: p.Close * rate}
				}
				series[i] = converted
				return nil
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make(map[string][]quote.PricePoint, len(unique))
	for i, ticker := range unique {
		if len(series[i]) > 0 {
			points := series[i]
			sort.Slice(points, func(a, b int) bool { return points[a].Date.Before(points[b].Date) })
			result[ticker] = points
		}
	}
	return result, nil
}

// dedupe preserves first-seen order while dropping repeated tickers.
func dedupe(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	unique := make([]string, 0, len(tickers))
	for _, t := range tickers {
		trimmed := strings.TrimSpace(t)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		unique = append(unique, trimmed)
	}
	return unique
}
