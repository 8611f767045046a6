package debounce

import (
	"context"
	"sync"
	"time"

	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/utils/async"
)

// Handler consumes the payload that survived the quiet window.
type Handler func(ctx context.Context, userID types.UserID, payload string)

type pending struct {
	generation uint64
	payload    string
	timer      *time.Timer
}

// Coordinator coalesces message bursts per user. Each Submit replaces the
// pending payload and restarts the quiet window; only the submission that
// survives the full window untouched fires the handler, so a burst produces
// exactly one downstream call carrying the last message.
type Coordinator struct {
	mu      sync.Mutex
	window  time.Duration
	handler Handler
	pending map[types.UserID]*pending
	closed  bool
}

// New creates a coordinator with the given quiet window.
func New(window time.Duration, handler Handler) *Coordinator {
	return &Coordinator{
		window:  window,
		handler: handler,
		pending: map[types.UserID]*pending{},
	}
}

// Submit schedules the payload for the user, replacing any pending one.
// The handler runs on its own goroutine once the window elapses with no
// further submissions from the same user.
func (c *Coordinator) Submit(ctx context.Context, userID types.UserID, payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	p, ok := c.pending[userID]
	if !ok {
		p = &pending{}
		c.pending[userID] = p
	} else {
		p.timer.Stop()
	}

	p.generation++
	p.payload = payload

	gen := p.generation
	p.timer = time.AfterFunc(c.window, func() {
		c.fire(ctx, userID, gen)
	})
}

// Cancel drops the user's pending submission, if any.
func (c *Coordinator) Cancel(userID types.UserID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pending[userID]; ok {
		p.timer.Stop()
		delete(c.pending, userID)
	}
}

// Close cancels all pending submissions. Submissions after Close are
// silently dropped.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for userID, p := range c.pending {
		p.timer.Stop()
		delete(c.pending, userID)
	}
}

// fire runs the handler if the generation is still current. A stale
// generation means a newer Submit superseded this timer between its
// expiry and lock acquisition.
func (c *Coordinator) fire(ctx context.Context, userID types.UserID, gen uint64) {
	c.mu.Lock()
	p, ok := c.pending[userID]
	if !ok || p.generation != gen || c.closed {
		c.mu.Unlock()
		return
	}
	payload := p.payload
	delete(c.pending, userID)
	c.mu.Unlock()

	async.Dispatch(ctx, func(ctx context.Context) error {
		c.handler(ctx, userID, payload)
		return nil
	})
}
