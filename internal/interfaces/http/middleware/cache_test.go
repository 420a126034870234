package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maroccart/backend/internal/infrastructure/cache"
	"github.com/maroccart/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheResponse(t *testing.T) {
	store := cache.NewInMemoryResponseCache(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	metrics := telemetry.NewMetrics()
	cfg := ResponseCacheConfig{Store: store, TTL: time.Minute, Metrics: metrics}

	calls := 0
	router := gin.New()
	router.GET("/api/products", CacheResponse(cfg, CachePrefixProducts), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})
	router.GET("/api/products/missing", CacheResponse(cfg, CachePrefixProducts), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
	})
	router.POST("/api/products", InvalidateCache(cfg, CachePrefixProducts, CachePrefixSearch), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	router.DELETE("/api/products", InvalidateCache(cfg, CachePrefixProducts), func(c *gin.Context) {
		c.Status(http.StatusForbidden)
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/api/products?pageNumber=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get(CacheStatusHeader))
	assert.JSONEq(t, `{"calls":1}`, w.Body.String())

	w = get("/api/products?pageNumber=1")
	assert.Equal(t, "HIT", w.Header().Get(CacheStatusHeader))
	assert.JSONEq(t, `{"calls":1}`, w.Body.String())
	assert.Equal(t, 1, calls)

	t.Run("query string is part of the key", func(t *testing.T) {
		w := get("/api/products?pageNumber=2")
		assert.Equal(t, "MISS", w.Header().Get(CacheStatusHeader))
		assert.Equal(t, 2, calls)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		get("/api/products/missing")
		w := get("/api/products/missing")
		assert.Equal(t, "MISS", w.Header().Get(CacheStatusHeader))
	})

	t.Run("failed mutation keeps entries", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/products", nil))
		assert.Equal(t, "HIT", get("/api/products?pageNumber=1").Header().Get(CacheStatusHeader))
	})

	t.Run("successful mutation invalidates", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/products", nil))
		require.Equal(t, http.StatusCreated, w.Code)

		assert.Equal(t, "MISS", get("/api/products?pageNumber=1").Header().Get(CacheStatusHeader))
	})

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `maroccart_cache_lookups_total{prefix="products",result="hit"} 2`)
}

func TestCacheResponse_NilStore(t *testing.T) {
	router := gin.New()
	router.GET("/", CacheResponse(ResponseCacheConfig{}, CachePrefixSearch), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(CacheStatusHeader))
}
