package feedcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, "test", ttl), mr
}

func TestRedisFetchCachesUntilTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, 20*time.Second)
	build, calls := counter("first", "second")

	got, err := c.Fetch(ctx, "global:1", build)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	got, err = c.Fetch(ctx, "global:1", build)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))
	assert.Equal(t, 1, *calls)

	mr.FastForward(21 * time.Second)

	got, err = c.Fetch(ctx, "global:1", build)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestRedisInvalidateSwitchesGeneration(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)
	build, calls := counter("a", "b")

	_, err := c.Fetch(ctx, "k", build)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))

	gen, err := mr.Get("test:gen")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	got, err := c.Fetch(ctx, "k", build)
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))
	assert.Equal(t, 2, *calls)
}

func TestRedisFetchFallsBackWhenServerIsDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)
	mr.Close()

	got, err := c.Fetch(ctx, "k", func(ctx context.Context) ([]byte, error) {
		return []byte("built"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "built", string(got))
	assert.Error(t, c.Invalidate(ctx))
}
