package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rcastaneda/portfolio-dashboard/internal/api"
	"github.com/rcastaneda/portfolio-dashboard/internal/config"
	"github.com/rcastaneda/portfolio-dashboard/internal/jobs"
	"github.com/rcastaneda/portfolio-dashboard/internal/loader"
	"github.com/rcastaneda/portfolio-dashboard/internal/quote"
	"github.com/rcastaneda/portfolio-dashboard/internal/resolver"
	"github.com/rcastaneda/portfolio-dashboard/internal/service"
	"github.com/rcastaneda/portfolio-dashboard/internal/sheets"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Pick the spreadsheet source: CSV export when configured, otherwise
	// the Sheets API with service-account credentials.
	var source sheets.Source
	if cfg.Sheet.CSVURL != "" {
		source = sheets.NewCSVSource(cfg.Sheet.CSVURL)
		log.Printf("Reading positions from CSV export")
	} else {
		source, err = sheets.NewGoogleClient(
			context.Background(),
			cfg.Sheet.CredentialsFile,
			cfg.Sheet.SpreadsheetID,
			cfg.Sheet.Range,
		)
		if err != nil {
			log.Fatalf("Failed to create Sheets client: %v", err)
		}
		log.Printf("Reading positions from spreadsheet %s (%s)", cfg.Sheet.SpreadsheetID, cfg.Sheet.Range)
	}

	// Wire the pipeline
	marketClient := quote.NewClient(quote.WithTimeout(cfg.Market.RequestTimeout))
	marketResolver := resolver.New(marketClient, resolver.Options{
		Suffix:         cfg.Market.ExchangeSuffix,
		TargetCurrency: cfg.Market.TargetCurrency,
		DefaultFXRate:  cfg.Market.DefaultFXRate,
		MaxParallel:    cfg.Market.MaxParallel,
	})
	positionLoader := loader.New(loader.Options{})
	dashboard := service.NewDashboardService(source, positionLoader, marketResolver, cfg.Cache.TTL)

	// Optional background cache warming
	if cfg.Cache.RefreshInterval > 0 {
		refreshCron, err := jobs.ScheduleRefresh(dashboard, cfg.Cache.RefreshInterval)
		if err != nil {
			log.Fatalf("Failed to schedule refresh: %v", err)
		}
		defer refreshCron.Stop()
		log.Printf("Scheduled snapshot refresh every %s", cfg.Cache.RefreshInterval)
	}

	// Create router
	router := api.NewRouter(dashboard, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
