// Package jobs holds the background schedules. There is exactly one: a
// periodic cache-warming refresh so the first dashboard request after a
// quiet stretch does not pay for the full quote batch.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rcastaneda/portfolio-dashboard/internal/service"
)

// refreshTimeout bounds one background rebuild; a stuck provider call
// must not pile up overlapping runs.
const refreshTimeout = 2 * time.Minute

// ScheduleRefresh starts a cron that refreshes the dashboard snapshot at
// the given interval. The returned cron should be stopped on shutdown.
func ScheduleRefresh(svc *service.DashboardService, interval time.Duration) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		snap, err := svc.Refresh(ctx)
		if err != nil {
			log.Printf("scheduled refresh failed: %v", err)
			return
		}
		log.Printf("scheduled refresh %s: %d held, %d watchlist, %d unresolved",
			snap.ID, len(snap.Held), len(snap.Watchlist), len(snap.Report.Failures))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule refresh: %w", err)
	}

	c.Start()
	return c, nil
}
