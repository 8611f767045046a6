package ratelimit

import (
	"sync"
	"time"

	"github.com/barriolab/vecino/pkg/domain/types"
)

// Limiter enforces a sliding-window message quota per user. Timestamps
// older than the window are pruned on every check, so a user who sends
// the maximum and then waits regains capacity gradually rather than all
// at once.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[types.UserID][]time.Time
	now     func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates a limiter allowing at most limit events per window per user.
func New(limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		limit:   limit,
		window:  window,
		windows: map[types.UserID][]time.Time{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records an attempt and reports whether it is within quota. Rejected
// attempts are not recorded, so hammering while limited does not extend the
// lockout.
func (l *Limiter) Allow(userID types.UserID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.windows[userID][:0]
	for _, ts := range l.windows[userID] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.limit {
		l.windows[userID] = recent
		return false
	}

	l.windows[userID] = append(recent, now)
	return true
}

// Prune drops users whose whole window has expired and returns how many
// were removed. Called periodically so idle users do not accumulate.
func (l *Limiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	var dropped int
	for userID, stamps := range l.windows {
		idle := true
		for _, ts := range stamps {
			if ts.After(cutoff) {
				idle = false
				break
			}
		}
		if idle {
			delete(l.windows, userID)
			dropped++
		}
	}
	return dropped
}
