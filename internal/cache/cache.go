// Package cache implements a Redis-backed blob store.
package cache

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/go-redis/redis/v8"
)

// RedisCache stores serialised blobs under string keys.
type RedisCache struct {
	conn   *redis.Client
	prefix string
}

// NewRedisCache connects to the Redis instance at addr (a redis:// URL) and
// confirms it is reachable. Every key is stored under prefix.
func NewRedisCache(ctx context.Context, addr, prefix string) (*RedisCache, error) {
	opt, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisCache{conn: client, prefix: prefix}, nil
}

func (rc *RedisCache) key(k string) string {
	return rc.prefix + k
}

// Set stores a value in the cache with no expiry.
func (rc *RedisCache) Set(ctx context.Context, key, value string) error {
	if err := rc.conn.Set(ctx, rc.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

// Get retrieves a value from the cache. A missing key is not an error and
// yields an empty string.
func (rc *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := rc.conn.Get(ctx, rc.key(key)).Result()
	if err == nil || errors.Is(err, redis.Nil) {
		return value, nil
	}

	return "", fmt.Errorf("getting %q: %w", key, err)
}

// Remove deletes a key. Removing a missing key is not an error.
func (rc *RedisCache) Remove(ctx context.Context, key string) error {
	if err := rc.conn.Del(ctx, rc.key(key)).Err(); err != nil {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (rc *RedisCache) Close() error {
	return rc.conn.Close()
}
