package handlers

import (
	"net/http"

	"github.com/rcastaneda/portfolio-dashboard/internal/api/response"
	"github.com/rcastaneda/portfolio-dashboard/internal/service"
)

// WatchlistHandler handles watchlist HTTP requests
type WatchlistHandler struct {
	dashboard *service.DashboardService
}

// NewWatchlistHandler creates a new WatchlistHandler
func NewWatchlistHandler(dashboard *service.DashboardService) *WatchlistHandler {
	return &WatchlistHandler{
		dashboard: dashboard,
	}
}

// WatchlistEntryResponse represents one tracked-but-not-held ticker
type WatchlistEntryResponse struct {
	Ticker        string  `json:"ticker"`
	Category      string  `json:"category"`
	Notes         string  `json:"notes,omitempty"`
	Price         float64 `json:"price"`
	DividendYield float64 `json:"dividendYield"`
	Unresolved    bool    `json:"unresolved"`
}

// Watchlist returns the zero-quantity entries with their current quotes.
// A watchlist row with a zero price and no resolution is still listed,
// marked unresolved, so a typo'd ticker is visible instead of silently
// free.
func (h *WatchlistHandler) Watchlist(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboard.Snapshot(r.Context())
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	failed := make(map[string]bool, len(snap.Report.Failures))
	for _, f := range snap.Report.Failures {
		failed[f.Ticker] = true
	}

	entries := make([]WatchlistEntryResponse, len(snap.Watchlist))
	for i, v := range snap.Watchlist {
		entries[i] = WatchlistEntryResponse{
			Ticker:        v.Ticker,
			Category:      v.Category,
			Notes:         v.Notes,
			Price:         v.Price,
			DividendYield: v.DividendYield,
			Unresolved:    failed[v.Ticker],
		}
	}

	response.RespondJSON(w, http.StatusOK, entries)
}
