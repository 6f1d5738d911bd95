package scheduler

import (
	"context"
	"time"
)

// Periodic runs a job on a fixed interval in its own goroutine. It drives
// the daily performance review alongside the main scan loop.
type Periodic struct {
	every time.Duration
	stop  chan struct{}
}

// NewPeriodic builds an idle driver; Start launches it.
func NewPeriodic(every time.Duration) *Periodic {
	if every <= 0 {
		every = 24 * time.Hour
	}
	return &Periodic{every: every}
}

// Start begins ticking. The job does not run immediately, only after each
// full interval. Calling Start twice is a no-op.
func (p *Periodic) Start(ctx context.Context, job func(context.Context, time.Time)) {
	if job == nil || p.stop != nil {
		return
	}

	p.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(p.every)
		defer ticker.Stop()
		for {
			select {
			case t := <-ticker.C:
				job(ctx, t)
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			}
		}
	}()
}

// Stop halts the ticker goroutine.
func (p *Periodic) Stop() {
	if p.stop == nil {
		return
	}
	close(p.stop)
	p.stop = nil
}
