package cache_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/barriolab/vecino/pkg/service/cache"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestCacheBasics(t *testing.T) {
	c, err := cache.New[string, int](10, 0)
	gt.NoError(t, err).Required()

	_, ok := c.Get("missing")
	gt.Bool(t, ok).False()

	c.Set("a", 1)
	v, ok := c.Get("a")
	gt.Bool(t, ok).True()
	gt.Value(t, v).Equal(1)

	c.Set("a", 2)
	v, _ = c.Get("a")
	gt.Value(t, v).Equal(2)
	gt.Value(t, c.Len()).Equal(1)
}

func TestCacheTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)}
	c, err := cache.New(10, 5*time.Minute, cache.WithClock[string, string](clock.Now))
	gt.NoError(t, err).Required()

	c.Set("k", "v")

	clock.Advance(4 * time.Minute)
	v, ok := c.Get("k")
	gt.Bool(t, ok).True()
	gt.Value(t, v).Equal("v")

	clock.Advance(2 * time.Minute)
	_, ok = c.Get("k")
	gt.Bool(t, ok).False()
	gt.Value(t, c.Len()).Equal(0)
}

func TestCacheTTLRestartsOnSet(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)}
	c, err := cache.New(10, 5*time.Minute, cache.WithClock[string, string](clock.Now))
	gt.NoError(t, err).Required()

	c.Set("k", "v1")
	clock.Advance(4 * time.Minute)
	c.Set("k", "v2")
	clock.Advance(4 * time.Minute)

	v, ok := c.Get("k")
	gt.Bool(t, ok).True()
	gt.Value(t, v).Equal("v2")
}

func TestCacheZeroTTLNeverExpires(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)}
	c, err := cache.New(10, 0, cache.WithClock[string, int](clock.Now))
	gt.NoError(t, err).Required()

	c.Set("k", 42)
	clock.Advance(1000 * time.Hour)

	v, ok := c.Get("k")
	gt.Bool(t, ok).True()
	gt.Value(t, v).Equal(42)
	gt.Value(t, c.Sweep()).Equal(0)
}

func TestCacheEviction(t *testing.T) {
	c, err := cache.New[int, int](3, 0)
	gt.NoError(t, err).Required()

	c.Set(1, 1)
	c.Set(2, 2)
	c.Set(3, 3)

	// touch 1 so that 2 becomes the eviction victim
	_, _ = c.Get(1)
	c.Set(4, 4)

	_, ok := c.Get(2)
	gt.Bool(t, ok).False()
	_, ok = c.Get(1)
	gt.Bool(t, ok).True()
	gt.Value(t, c.Len()).Equal(3)
}

func TestCacheSweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)}
	c, err := cache.New(10, time.Minute, cache.WithClock[string, int](clock.Now))
	gt.NoError(t, err).Required()

	c.Set("old1", 1)
	c.Set("old2", 2)
	clock.Advance(2 * time.Minute)
	c.Set("fresh", 3)

	gt.Value(t, c.Sweep()).Equal(2)
	gt.Value(t, c.Len()).Equal(1)

	v, ok := c.Get("fresh")
	gt.Bool(t, ok).True()
	gt.Value(t, v).Equal(3)

	// sweeping again finds nothing
	gt.Value(t, c.Sweep()).Equal(0)
}
