package feedcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/blogfeed/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Redis shares cached pages between server instances.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = "feedcache"
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) genKey() string {
	return r.prefix + ":gen"
}

func (r *Redis) entryKey(gen int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", r.prefix, gen, key)
}

func (r *Redis) generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, r.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Fetch falls back to build on any redis failure so the feed keeps working.
func (r *Redis) Fetch(ctx context.Context, key string, build BuildFunc) ([]byte, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("feed cache generation lookup failed")
		return build(ctx)
	}

	k := r.entryKey(gen, key)
	data, err := r.client.Get(ctx, k).Bytes()
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, redis.Nil) {
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("feed cache read failed")
	}

	data, err = build(ctx)
	if err != nil {
		return nil, err
	}

	if r.ttl > 0 {
		if err := r.client.Set(ctx, k, data, r.ttl).Err(); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("feed cache write failed")
		}
	}

	return data, nil
}

// Invalidate moves every reader to a fresh keyspace; stale keys expire on their own.
func (r *Redis) Invalidate(ctx context.Context) error {
	if err := r.client.Incr(ctx, r.genKey()).Err(); err != nil {
		return fmt.Errorf("failed to invalidate feed cache: %w", err)
	}
	return nil
}
