// Package cache provides the Redis-backed projection cache. The application
// runs fine without it; every constructor failure or runtime miss degrades to
// recomputing the projection.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	portsrepo "github.com/FinObraDev/credit_instruments_app/internal/core/ports/repositories"
)

type RedisProjectionCache struct {
	client *redis.Client
}

var _ portsrepo.ProjectionCache = (*RedisProjectionCache)(nil)

// NewRedisProjectionCache connects to Redis and verifies the connection.
func NewRedisProjectionCache(ctx context.Context, addr, password string, db int) (*RedisProjectionCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return &RedisProjectionCache{client: rdb}, nil
}

func (r *RedisProjectionCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		// Treat misses and backend errors the same; the caller recomputes.
		return "", false
	}
	return val, true
}

func (r *RedisProjectionCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Invalidate drops every cached projection for the workspace. Keys follow the
// "projection:<workspaceID>:<anchor>:<months>" layout, so a prefix scan finds
// them all.
func (r *RedisProjectionCache) Invalidate(ctx context.Context, workspaceID string) error {
	pattern := fmt.Sprintf("projection:%s:*", workspaceID)
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan projection keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete projection keys: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (r *RedisProjectionCache) Close() error {
	return r.client.Close()
}
