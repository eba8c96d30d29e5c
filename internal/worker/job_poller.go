// Package worker runs the background reconciliation loop that keeps scrape
// jobs in sync with the external engine.
package worker

import (
	"context"
	"time"

	"github.com/leadforge/leadforge/internal/pkg/distlock"
	"github.com/leadforge/leadforge/internal/pkg/logger"
)

// Reconciler advances every active scrape job one step. Implemented by the
// scrape service.
type Reconciler interface {
	ReconcileActive(ctx context.Context) error
}

// JobPoller periodically reconciles active scrape jobs. When a lock is
// configured only one poller instance across the fleet runs each cycle;
// without one the poller assumes it is the only instance.
type JobPoller struct {
	reconciler Reconciler
	lock       *distlock.Lock
	interval   time.Duration
}

// NewJobPoller creates a poller. lock may be nil.
func NewJobPoller(reconciler Reconciler, lock *distlock.Lock, interval time.Duration) *JobPoller {
	return &JobPoller{
		reconciler: reconciler,
		lock:       lock,
		interval:   interval,
	}
}

// Run polls until the context is cancelled. The first cycle runs
// immediately so a fresh deploy doesn't wait a full interval.
func (p *JobPoller) Run(ctx context.Context) {
	logger.Info("job poller started", "interval", p.interval.String())

	p.cycle(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("job poller stopped")
			return
		case <-ticker.C:
			p.cycle(ctx)
		}
	}
}

func (p *JobPoller) cycle(ctx context.Context) {
	if p.lock != nil {
		ok, err := p.lock.Acquire(ctx)
		if err != nil {
			logger.Error("poller lock acquire failed", "error", err)
			return
		}
		if !ok {
			// Another instance holds the lock this cycle.
			return
		}
		defer func() {
			if err := p.lock.Release(ctx); err != nil {
				logger.Error("poller lock release failed", "error", err)
			}
		}()
	}

	if err := p.reconciler.ReconcileActive(ctx); err != nil {
		logger.Error("reconcile cycle failed", "error", err)
	}
}
