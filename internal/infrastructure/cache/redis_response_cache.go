package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultScanBatchSize = 100

// RedisResponseCache implements ResponseCache using Redis.
// Suitable for multi-instance deployments sharing one cache.
type RedisResponseCache struct {
	client     *redis.Client
	keyPrefix  string
	defaultTTL time.Duration
}

// NewRedisResponseCache creates a cache with an existing Redis client.
// The caller retains ownership of the client.
func NewRedisResponseCache(client *redis.Client, defaultTTL time.Duration) *RedisResponseCache {
	return &RedisResponseCache{
		client:     client,
		keyPrefix:  KeyPrefix,
		defaultTTL: defaultTTL,
	}
}

func (c *RedisResponseCache) cacheKey(key string) string {
	return c.keyPrefix + key
}

// Get retrieves a cached payload
func (c *RedisResponseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached response: %w", err)
	}
	return data, true, nil
}

// Set stores a payload with TTL
func (c *RedisResponseCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.cacheKey(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}

// InvalidatePrefix deletes matching keys with SCAN so the server is never blocked by KEYS
func (c *RedisResponseCache) InvalidatePrefix(ctx context.Context, prefixes ...string) error {
	for _, prefix := range prefixes {
		pattern := c.cacheKey(prefix) + "*"
		var cursor uint64
		for {
			keys, next, err := c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
			if err != nil {
				return fmt.Errorf("failed to scan cache keys: %w", err)
			}
			if len(keys) > 0 {
				if err := c.client.Del(ctx, keys...).Err(); err != nil {
					return fmt.Errorf("failed to delete cache keys: %w", err)
				}
			}
			cursor = next
			if cursor == 0 {
				break
			}
		}
	}
	return nil
}

var _ ResponseCache = (*RedisResponseCache)(nil)
