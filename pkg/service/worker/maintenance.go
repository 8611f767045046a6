package worker

import (
	"context"
	"time"

	"github.com/barriolab/vecino/pkg/utils/logging"
)

// Sweeper is any component that can drop expired state and report how much
// it dropped.
type Sweeper interface {
	Sweep() int
}

// Pruner drops idle per-user state.
type Pruner interface {
	Prune() int
}

// MaintenanceWorker periodically sweeps expired cache entries and prunes
// idle rate limiter windows so long-running processes do not accumulate
// state for users who left.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
type MaintenanceWorker struct {
	sweepers []Sweeper
	pruners  []Pruner
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewMaintenanceWorker creates a worker sweeping the given targets.
func NewMaintenanceWorker(interval time.Duration, sweepers []Sweeper, pruners []Pruner) *MaintenanceWorker {
	return &MaintenanceWorker{
		sweepers: sweepers,
		pruners:  pruners,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background loop. Does not block.
func (w *MaintenanceWorker) Start(ctx context.Context) error {
	logging.Default().Info("maintenance worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion.
func (w *MaintenanceWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("maintenance worker stopped")
}

func (w *MaintenanceWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (w *MaintenanceWorker) sweep(ctx context.Context) {
	var swept, pruned int
	for _, s := range w.sweepers {
		swept += s.Sweep()
	}
	for _, p := range w.pruners {
		pruned += p.Prune()
	}

	if swept > 0 || pruned > 0 {
		logging.From(ctx).Info("maintenance sweep completed",
			"swept", swept,
			"pruned", pruned)
	}
}
