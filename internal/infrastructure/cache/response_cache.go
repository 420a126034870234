// Package cache provides the HTTP response cache with prefix invalidation.
package cache

import (
	"context"
	"time"
)

// KeyPrefix namespaces every cached response in a shared store
const KeyPrefix = "maroccart:cache:"

// ResponseCache stores serialized responses by key.
// Keys are grouped by a leading prefix ("products", "search") so that a
// mutation can drop every response derived from the changed data.
type ResponseCache interface {
	// Get returns the cached payload. ok is false on a miss.
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)

	// Set stores payload for ttl. A non-positive ttl uses the cache default.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// InvalidatePrefix removes every key starting with one of the prefixes
	InvalidatePrefix(ctx context.Context, prefixes ...string) error
}

// NoopCache never stores anything; used when caching is disabled
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NoopCache) InvalidatePrefix(context.Context, ...string) error { return nil }

var _ ResponseCache = NoopCache{}
