package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher periodically refetches the source in the background so page
// loads are served from a warm cache.
type Refresher struct {
	loader   *CachedLoader
	interval time.Duration
	sched    *cron.Cron
}

func NewRefresher(loader *CachedLoader, interval time.Duration) *Refresher {
	return &Refresher{loader: loader, interval: interval}
}

// Start schedules the refresh job. A non-positive interval disables it.
func (r *Refresher) Start(ctx context.Context) error {
	if r.interval <= 0 {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", r.interval), func() {
		r.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule refresh every %s: %w", r.interval, err)
	}
	c.Start()
	r.sched = c
	slog.Info("background refresh scheduled", "source", r.loader.Locator(), "interval", r.interval)
	return nil
}

func (r *Refresher) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := r.loader.Refresh(ctx); err != nil {
		slog.Warn("background refresh failed", "source", r.loader.Locator(), "error", err)
	}
}

// Stop halts scheduling and waits for a running refresh to finish
func (r *Refresher) Stop() {
	if r.sched == nil {
		return
	}
	<-r.sched.Stop().Done()
	r.sched = nil
}
