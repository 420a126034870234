package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maroccart/backend/internal/infrastructure/cache"
	"github.com/maroccart/backend/internal/infrastructure/logger"
	"github.com/maroccart/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CacheStatusHeader reports HIT or MISS on cached routes
const CacheStatusHeader = "X-Cache"

// Response cache prefixes
const (
	CachePrefixProducts = "products"
	CachePrefixSearch   = "search"
)

// ResponseCacheConfig configures CacheResponse and InvalidateCache
type ResponseCacheConfig struct {
	Store   cache.ResponseCache
	TTL     time.Duration
	Metrics *telemetry.Metrics
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheResponse serves GET responses from the cache under "<prefix>:<request uri>".
// Only 200 responses are stored. Cache failures degrade to an uncached request.
func CacheResponse(cfg ResponseCacheConfig, prefix string) gin.HandlerFunc {
	if cfg.Store == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := prefix + ":" + c.Request.URL.RequestURI()
		if payload, ok, err := cfg.Store.Get(ctx, key); err != nil {
			logger.FromContext(ctx).Warn("Response cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			cfg.Metrics.CacheLookup(prefix, true)
			c.Header(CacheStatusHeader, "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			c.Abort()
			return
		}
		cfg.Metrics.CacheLookup(prefix, false)

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Header(CacheStatusHeader, "MISS")

		c.Next()

		if recorder.Status() != http.StatusOK || recorder.body.Len() == 0 {
			return
		}
		if err := cfg.Store.Set(ctx, key, recorder.body.Bytes(), cfg.TTL); err != nil {
			logger.FromContext(ctx).Warn("Response cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// InvalidateCache drops every cached response under the given prefixes after
// a successful mutation
func InvalidateCache(cfg ResponseCacheConfig, prefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if cfg.Store == nil || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		ctx := c.Request.Context()
		if err := cfg.Store.InvalidatePrefix(ctx, prefixes...); err != nil {
			logger.FromContext(ctx).Warn("Response cache invalidation failed",
				zap.Strings("prefixes", prefixes), zap.Error(err))
		}
	}
}
