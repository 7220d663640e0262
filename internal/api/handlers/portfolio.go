package handlers

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/rcastaneda/portfolio-dashboard/internal/api/response"
	"github.com/rcastaneda/portfolio-dashboard/internal/apperrors"
	"github.com/rcastaneda/portfolio-dashboard/internal/loader"
	"github.com/rcastaneda/portfolio-dashboard/internal/model"
	"github.com/rcastaneda/portfolio-dashboard/internal/service"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	dashboard *service.DashboardService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(dashboard *service.DashboardService) *PortfolioHandler {
	return &PortfolioHandler{
		dashboard: dashboard,
	}
}

// PositionResponse represents one valued position row
type PositionResponse struct {
	Ticker                string  `json:"ticker"`
	Category              string  `json:"category"`
	Notes                 string  `json:"notes,omitempty"`
	Quantity              float64 `json:"quantity"`
	WeightedUnitCost      float64 `json:"weightedUnitCost"`
	TotalInvested         float64 `json:"totalInvested"`
	Price                 float64 `json:"price"`
	MarketValue           float64 `json:"marketValue"`
	Gain                  float64 `json:"gain"`
	ReturnPct             float64 `json:"returnPct"`
	AnnualDividendIncome  float64 `json:"annualDividendIncome"`
	MonthlyDividendIncome float64 `json:"monthlyDividendIncome"`
	Unresolved            bool    `json:"unresolved"`
}

// Positions returns the held positions, sorted by gain ascending so the
// frontend's ranking chart can render the slice as-is.
func (h *PortfolioHandler) Positions(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboard.Snapshot(r.Context())
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	held := slices.Clone(snap.Held)
	slices.SortStableFunc(held, func(a, b model.ValuedPosition) int {
		switch {
		case a.Gain < b.Gain:
			return -1
		case a.Gain > b.Gain:
			return 1
		}
		return 0
	})

	response.RespondJSON(w, http.StatusOK, toPositionResponses(held))
}

// SummaryResponse represents the portfolio KPI header plus the run
// metadata the dashboard uses to surface unresolved tickers and data
// quality warnings.
type SummaryResponse struct {
	SnapshotID            string                     `json:"snapshotId"`
	FetchedAt             time.Time                  `json:"fetchedAt"`
	TotalValue            float64                    `json:"totalValue"`
	TotalInvested         float64                    `json:"totalInvested"`
	TotalGain             float64                    `json:"totalGain"`
	ReturnPct             float64                    `json:"returnPct"`
	AnnualDividendIncome  float64                    `json:"annualDividendIncome"`
	MonthlyDividendIncome float64                    `json:"monthlyDividendIncome"`
	HeldCount             int                        `json:"heldCount"`
	WatchlistCount        int                        `json:"watchlistCount"`
	UnresolvedCount       int                        `json:"unresolvedCount"`
	Allocation            []model.CategoryAllocation `json:"allocation"`
	ResolutionReport      model.ResolutionReport     `json:"resolutionReport"`
	DataWarnings          []loader.Warning           `json:"dataWarnings"`
}

// Summary returns the portfolio-level aggregates.
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboard.Snapshot(r.Context())
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, SummaryResponse{
		SnapshotID:            snap.ID,
		FetchedAt:             snap.FetchedAt,
		TotalValue:            snap.Summary.TotalValue,
		TotalInvested:         snap.Summary.TotalInvested,
		TotalGain:             snap.Summary.TotalGain,
		ReturnPct:             snap.Summary.ReturnPct,
		AnnualDividendIncome:  snap.Summary.AnnualDividendIncome,
		MonthlyDividendIncome: snap.Summary.MonthlyDividendIncome,
		HeldCount:             snap.Summary.HeldCount,
		WatchlistCount:        snap.Summary.WatchlistCount,
		UnresolvedCount:       snap.Summary.UnresolvedCount,
		Allocation:            snap.Summary.Allocation,
		ResolutionReport:      snap.Report,
		DataWarnings:          snap.Warnings,
	})
}

// History returns the portfolio's value-over-time series. start_date and
// end_date accept "2006-01-02" or RFC3339; the default window is the
// last year.
func (h *PortfolioHandler) History(w http.ResponseWriter, r *http.Request) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(-1, 0, 0)
	var err error

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		start, err = parseDate(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "Failed to parse start_date", err.Error())
			return
		}
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		end, err = parseDate(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "Failed to parse end_date", err.Error())
			return
		}
	}

	history, err := h.dashboard.History(r.Context(), start, end)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDateRange) {
			response.RespondError(w, http.StatusBadRequest, "Invalid date range", err.Error())
			return
		}
		respondSnapshotError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}

// RefreshResponse represents the outcome of a forced refresh
type RefreshResponse struct {
	SnapshotID      string    `json:"snapshotId"`
	FetchedAt       time.Time `json:"fetchedAt"`
	HeldCount       int       `json:"heldCount"`
	WatchlistCount  int       `json:"watchlistCount"`
	UnresolvedCount int       `json:"unresolvedCount"`
}

// Refresh invalidates the cached snapshot and reruns the pipeline.
func (h *PortfolioHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboard.Refresh(r.Context())
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, RefreshResponse{
		SnapshotID:      snap.ID,
		FetchedAt:       snap.FetchedAt,
		HeldCount:       len(snap.Held),
		WatchlistCount:  len(snap.Watchlist),
		UnresolvedCount: snap.Summary.UnresolvedCount,
	})
}

// toPositionResponses maps valued positions onto the wire shape.
func toPositionResponses(positions []model.ValuedPosition) []PositionResponse {
	out := make([]PositionResponse, len(positions))
	for i, p := range positions {
		out[i] = PositionResponse{
			Ticker:                p.Ticker,
			Category:              p.Category,
			Notes:                 p.Notes,
			Quantity:              p.TotalQuantity,
			WeightedUnitCost:      p.WeightedUnitCost,
			TotalInvested:         p.TotalInvested,
			Price:                 p.Price,
			MarketValue:           p.MarketValue,
			Gain:                  p.Gain,
			ReturnPct:             p.ReturnPct,
			AnnualDividendIncome:  p.AnnualDividendIncome,
			MonthlyDividendIncome: p.MonthlyDividendIncome,
			Unresolved:            p.Unresolved,
		}
	}
	return out
}

// respondSnapshotError maps pipeline failures onto HTTP statuses: schema
// problems are the caller's data (422), everything else is upstream.
func respondSnapshotError(w http.ResponseWriter, err error) {
	var schemaErr *loader.SchemaError
	if errors.As(err, &schemaErr) {
		response.RespondError(w, http.StatusUnprocessableEntity, "Spreadsheet schema error", err.Error())
		return
	}
	if errors.Is(err, apperrors.ErrEmptySheet) {
		response.RespondError(w, http.StatusUnprocessableEntity, "Spreadsheet is empty", err.Error())
		return
	}
	response.RespondError(w, http.StatusBadGateway, "Failed to build portfolio snapshot", err.Error())
}

// parseDate parses a date string in "2006-01-02" or RFC3339 format.
func parseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, err
		}
	}
	return parsed.UTC(), nil
}
