package async_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/barriolab/vecino/pkg/utils/async"
)

func awaitDone(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler")
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	done := make(chan struct{})
	async.Dispatch(context.Background(), func(ctx context.Context) error {
		defer close(done)
		panic("handler fault")
	})
	// the panic is recovered inside the dispatched goroutine; an escaped
	// panic would abort the whole test binary
	awaitDone(t, done)
}

func TestDispatchSwallowsError(t *testing.T) {
	done := make(chan struct{})
	async.Dispatch(context.Background(), func(ctx context.Context) error {
		defer close(done)
		return goerr.New("handler failed")
	})
	awaitDone(t, done)
}

func TestDispatchOutlivesCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	async.Dispatch(ctx, func(ctx context.Context) error {
		defer close(done)
		if ctx.Err() != nil {
			t.Error("handler context should not inherit the caller's cancellation")
		}
		return nil
	})
	awaitDone(t, done)
}
