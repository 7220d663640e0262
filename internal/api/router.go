package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rcastaneda/portfolio-dashboard/internal/api/handlers"
	custommiddleware "github.com/rcastaneda/portfolio-dashboard/internal/api/middleware"
	"github.com/rcastaneda/portfolio-dashboard/internal/config"
	"github.com/rcastaneda/portfolio-dashboard/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(dashboard *service.DashboardService, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler()
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(dashboard)
			r.Get("/", portfolioHandler.Positions)
			r.Get("/summary", portfolioHandler.Summary)
			r.Get("/history", portfolioHandler.History)
			r.Post("/refresh", portfolioHandler.Refresh)
		})

		r.Route("/watchlist", func(r chi.Router) {
			watchlistHandler := handlers.NewWatchlistHandler(dashboard)
			r.Get("/", watchlistHandler.Watchlist)
		})
	})

	return r
}
