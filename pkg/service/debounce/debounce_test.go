package debounce_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/service/debounce"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{}, 16)}
}

func (r *recorder) handle(_ context.Context, userID types.UserID, payload string) {
	r.mu.Lock()
	r.calls = append(r.calls, string(userID)+":"+payload)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) wait(t *testing.T, n int) []string {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for handler")
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.calls...)
}

func TestCoordinatorCoalesces(t *testing.T) {
	rec := newRecorder()
	c := debounce.New(30*time.Millisecond, rec.handle)
	defer c.Close()

	ctx := context.Background()
	c.Submit(ctx, "u1", "first")
	c.Submit(ctx, "u1", "second")
	c.Submit(ctx, "u1", "third")

	calls := rec.wait(t, 1)
	gt.Array(t, calls).Equal([]string{"u1:third"})

	// quiet period, no further fires
	time.Sleep(60 * time.Millisecond)
	rec.mu.Lock()
	gt.Value(t, len(rec.calls)).Equal(1)
	rec.mu.Unlock()
}

func TestCoordinatorPerUser(t *testing.T) {
	rec := newRecorder()
	c := debounce.New(20*time.Millisecond, rec.handle)
	defer c.Close()

	ctx := context.Background()
	c.Submit(ctx, "a", "hola")
	c.Submit(ctx, "b", "chau")

	calls := rec.wait(t, 2)
	gt.Array(t, calls).Length(2)
	gt.Array(t, calls).Has("a:hola")
	gt.Array(t, calls).Has("b:chau")
}

func TestCoordinatorSeparateBursts(t *testing.T) {
	rec := newRecorder()
	c := debounce.New(20*time.Millisecond, rec.handle)
	defer c.Close()

	ctx := context.Background()
	c.Submit(ctx, "u", "uno")
	_ = rec.wait(t, 1)
	c.Submit(ctx, "u", "dos")
	calls := rec.wait(t, 1)

	gt.Array(t, calls).Equal([]string{"u:uno", "u:dos"})
}

func TestCoordinatorCancel(t *testing.T) {
	rec := newRecorder()
	c := debounce.New(20*time.Millisecond, rec.handle)
	defer c.Close()

	c.Submit(context.Background(), "u", "nunca")
	c.Cancel("u")

	time.Sleep(50 * time.Millisecond)
	rec.mu.Lock()
	gt.Value(t, len(rec.calls)).Equal(0)
	rec.mu.Unlock()
}

func TestCoordinatorClose(t *testing.T) {
	rec := newRecorder()
	c := debounce.New(20*time.Millisecond, rec.handle)

	c.Submit(context.Background(), "u", "pendiente")
	c.Close()
	c.Submit(context.Background(), "u", "tarde")

	time.Sleep(50 * time.Millisecond)
	rec.mu.Lock()
	gt.Value(t, len(rec.calls)).Equal(0)
	rec.mu.Unlock()
}
