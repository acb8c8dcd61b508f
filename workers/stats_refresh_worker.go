package workers

import (
	"context"
	"log"
	"time"

	"inventindia-system/services"
)

// PollLiveStats keeps the dashboard counters warm by calling Refresh on a
// fixed interval (30s in production). Runs until the context is cancelled.
func PollLiveStats(ctx context.Context, svc *services.LiveStatsService, pollInterval time.Duration) {
	log.Println("Starting live stats polling...")

	// Prime the counters so the first dashboard render isn't all zeros
	svc.Refresh()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Live stats polling stopped.")
			return
		case <-ticker.C:
			svc.Refresh()
		}
	}
}
