package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maroccart/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// DatabasePinger is satisfied by persistence.Database
type DatabasePinger interface {
	Ping() error
}

// RedisPinger checks the cache connection. A nil RedisPinger reports "disabled".
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// RedisPingFunc adapts a function to RedisPinger
type RedisPingFunc func(ctx context.Context) error

// Ping calls f(ctx)
func (f RedisPingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves the liveness endpoints
type HealthHandler struct {
	BaseHandler
	db    DatabasePinger
	redis RedisPinger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabasePinger, redis RedisPinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Maroc-Cart Server is running!")
}

// Health handles GET /health. Redis failures degrade the report but only
// a failed database ping answers 503.
func (h *HealthHandler) Health(c *gin.Context) {
	reqLog := logger.FromContext(c.Request.Context())
	resp := HealthResponse{
		Status:   "healthy",
		Time:     time.Now().Format(time.RFC3339),
		Database: "ok",
		Redis:    "disabled",
	}

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		resp.Redis = "ok"
		if err := h.redis.Ping(ctx); err != nil {
			reqLog.Warn("Redis health check failed", zap.Error(err))
			resp.Redis = "error"
		}
	}

	if err := h.db.Ping(); err != nil {
		reqLog.Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "error"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
