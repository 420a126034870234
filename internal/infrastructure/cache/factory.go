package cache

import (
	"github.com/maroccart/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// New picks the cache implementation for the configuration.
// A nil client means Redis is disabled or unreachable.
func New(cfg config.CacheConfig, client *redis.Client, logger *zap.Logger) ResponseCache {
	if !cfg.Enabled {
		logger.Info("response cache disabled")
		return NoopCache{}
	}
	if client != nil {
		logger.Info("using Redis response cache", zap.Duration("default_ttl", cfg.DefaultTTL))
		return NewRedisResponseCache(client, cfg.DefaultTTL)
	}
	logger.Warn("Redis unavailable, falling back to in-memory response cache")
	return NewInMemoryResponseCache(cfg.DefaultTTL)
}
