package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/barriolab/vecino/pkg/service/worker"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return 1
}

type countingPruner struct {
	calls atomic.Int32
}

func (p *countingPruner) Prune() int {
	p.calls.Add(1)
	return 0
}

func TestMaintenanceWorker(t *testing.T) {
	sweeper := &countingSweeper{}
	pruner := &countingPruner{}

	w := worker.NewMaintenanceWorker(10*time.Millisecond,
		[]worker.Sweeper{sweeper},
		[]worker.Pruner{pruner})

	gt.NoError(t, w.Start(context.Background())).Required()

	deadline := time.After(2 * time.Second)
	for sweeper.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("worker never ticked")
		case <-time.After(5 * time.Millisecond):
		}
	}

	w.Stop()
	gt.Number(t, pruner.calls.Load()).GreaterOrEqual(int32(2))

	// no further ticks after Stop
	after := sweeper.calls.Load()
	time.Sleep(30 * time.Millisecond)
	gt.Value(t, sweeper.calls.Load()).Equal(after)
}
