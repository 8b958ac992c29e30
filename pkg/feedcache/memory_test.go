package feedcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func counter(values ...string) (BuildFunc, *int) {
	calls := 0
	return func(ctx context.Context) ([]byte, error) {
		v := values[calls%len(values)]
		calls++
		return []byte(v), nil
	}, &calls
}

func TestMemoryServesCachedValueUntilExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemory(20*time.Second, WithClock(clock.Now))
	build, calls := counter("first", "second")

	got, err := c.Fetch(ctx, "global:1", build)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	clock.Advance(19 * time.Second)
	got, err = c.Fetch(ctx, "global:1", build)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))
	assert.Equal(t, 1, *calls)

	clock.Advance(time.Second)
	got, err = c.Fetch(ctx, "global:1", build)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
	assert.Equal(t, 2, *calls)
}

func TestMemoryInvalidateDropsEntries(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	build, calls := counter("a", "b")

	_, err := c.Fetch(ctx, "k", build)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))
	assert.Equal(t, 0, c.Len())

	got, err := c.Fetch(ctx, "k", build)
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))
	assert.Equal(t, 2, *calls)
}

func TestMemoryDoesNotStoreBuildsThatRacedAnInvalidation(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	_, err := c.Fetch(ctx, "k", func(ctx context.Context) ([]byte, error) {
		require.NoError(t, c.Invalidate(ctx))
		return []byte("stale"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	got, err := c.Fetch(ctx, "k", func(ctx context.Context) ([]byte, error) {
		return []byte("fresh"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(got))
}

func TestMemoryBuildErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	boom := errors.New("boom")

	_, err := c.Fetch(ctx, "k", func(ctx context.Context) ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryZeroTTLDisablesCaching(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0)
	build, calls := counter("x")

	for i := 0; i < 3; i++ {
		_, err := c.Fetch(ctx, "k", build)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, *calls)
}
