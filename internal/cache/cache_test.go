package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source for deterministic expiry tests.
type fakeClock struct {
	current time.Time
}

func (f *fakeClock) now() time.Time {
	return f.current
}

func (f *fakeClock) advance(d time.Duration) {
	f.current = f.current.Add(d)
}

func newTestCache(t *testing.T) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{current: time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)}
	return New(withClock(clock.now)), clock
}

func TestSetThenGet(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("k", "value", time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestGetAfterExpiryPurgesEntry(t *testing.T) {
	c, clock := newTestCache(t)

	c.Set("k", 42, time.Minute)
	clock.advance(time.Minute + time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)

	// Lazy expiry already removed the entry, so a sweep finds nothing.
	assert.Equal(t, 0, c.Cleanup())
	assert.Equal(t, 0, c.Len())
}

func TestExpiryBoundaryIsExclusive(t *testing.T) {
	c, clock := newTestCache(t)

	c.Set("k", "v", time.Minute)
	clock.advance(time.Minute)

	// An entry with expiresAt <= now is logically absent.
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestSetOverwritesExistingEntry(t *testing.T) {
	c, clock := newTestCache(t)

	c.Set("k", "old", time.Second)
	clock.advance(30 * time.Second)
	c.Set("k", "new", time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestZeroTTLUsesDefault(t *testing.T) {
	c, clock := newTestCache(t)

	c.Set("k", "v", 0)

	clock.advance(DefaultTTL - time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry should survive until the default TTL elapses")

	clock.advance(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	c, clock := newTestCache(t)

	assert.False(t, c.Delete("missing"))

	c.Set("live", "v", time.Minute)
	assert.True(t, c.Delete("live"))

	c.Set("dead", "v", time.Second)
	clock.advance(2 * time.Second)
	assert.False(t, c.Delete("dead"), "deleting an expired entry reports no live entry")
}

func TestClear(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCleanupCountsOnlyExpired(t *testing.T) {
	c, clock := newTestCache(t)

	c.Set("short-1", 1, time.Second)
	c.Set("short-2", 2, time.Second)
	c.Set("long", 3, time.Hour)

	clock.advance(2 * time.Second)

	assert.Equal(t, 2, c.Cleanup())
	assert.Equal(t, 1, c.Len())

	got, ok := c.Get("long")
	require.True(t, ok)
	assert.Equal(t, 3, got)
}
