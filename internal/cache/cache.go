// Package cache provides a small string cache used to serve admin
// aggregates without recomputing them on every request.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache stores computed values under namespaced keys with a TTL.
type Cache interface {
	// Get returns the cached value, or "" on a miss.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Close releases the underlying connection.
	Close() error
}

// Key builds a namespaced cache key.
func Key(parts ...string) string {
	key := "fashion-shop"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// redisCache implements Cache backed by Redis.
type redisCache struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisCache creates a Redis-backed cache and verifies the connection.
func NewRedisCache(ctx context.Context, addr string, logger zerolog.Logger) (Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	logger.Info().Str("addr", addr).Msg("redis cache connected")
	return &redisCache{
		client: client,
		logger: logger.With().Str("component", "redis-cache").Logger(),
	}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	return value, nil
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

// nopCache is used when Redis is disabled; every lookup is a miss.
type nopCache struct{}

// NewNopCache creates a cache that stores nothing.
func NewNopCache() Cache {
	return nopCache{}
}

func (nopCache) Get(context.Context, string) (string, error)              { return "", nil }
func (nopCache) Set(context.Context, string, string, time.Duration) error { return nil }
func (nopCache) Close() error                                             { return nil }
