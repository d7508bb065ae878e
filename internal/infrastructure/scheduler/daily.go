package scheduler

import (
	"context"
	"time"

	"taskdigest/internal/ports"
)

// Daily triggers the job immediately and then once per interval. Good
// enough for a nightly digest; swap for a real cron driver if schedules get
// more exotic.
type Daily struct {
	interval time.Duration
	done     chan struct{}
}

var _ ports.Scheduler = (*Daily)(nil)

// NewDaily builds a scheduler; a non-positive interval defaults to 24h.
func NewDaily(interval time.Duration) *Daily {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Daily{interval: interval}
}

// Start begins ticking until the context is cancelled or Stop is called.
func (d *Daily) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if d.done != nil {
		return nil
	}

	// the goroutine selects on its own copy so Stop never races a field read
	done := make(chan struct{})
	d.done = done
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (d *Daily) Stop(ctx context.Context) error {
	if d.done == nil {
		return nil
	}
	close(d.done)
	d.done = nil
	return nil
}
