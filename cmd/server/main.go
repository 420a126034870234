package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maroccart/backend/api"
	catalogapp "github.com/maroccart/backend/internal/application/catalog"
	identityapp "github.com/maroccart/backend/internal/application/identity"
	inventoryapp "github.com/maroccart/backend/internal/application/inventory"
	"github.com/maroccart/backend/internal/application/media"
	reportapp "github.com/maroccart/backend/internal/application/report"
	"github.com/maroccart/backend/internal/application/seo"
	tradeapp "github.com/maroccart/backend/internal/application/trade"
	"github.com/maroccart/backend/internal/infrastructure/auth"
	"github.com/maroccart/backend/internal/infrastructure/cache"
	"github.com/maroccart/backend/internal/infrastructure/config"
	"github.com/maroccart/backend/internal/infrastructure/logger"
	"github.com/maroccart/backend/internal/infrastructure/persistence"
	"github.com/maroccart/backend/internal/infrastructure/storage"
	"github.com/maroccart/backend/internal/infrastructure/telemetry"
	"github.com/maroccart/backend/internal/interfaces/http/handler"
	"github.com/maroccart/backend/internal/interfaces/http/middleware"
	"github.com/maroccart/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Maroc-Cart backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Tracing exporter; a disabled provider installs a no-op tracer
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database with zap backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry), log).Register(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis is optional; cache and token blacklist fall back to memory without it
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, continuing without it", zap.Error(err))
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Error("Error closing Redis", zap.Error(err))
				}
			}()
			log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	responseCache := cache.New(cfg.Cache, redisClient, log)
	tokenBlacklist := auth.NewTokenBlacklist(redisClient)
	metrics := telemetry.NewMetrics()

	images, err := storage.New(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	// Initialize repositories
	scope := persistence.NewGormTransactionScope(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	stockLedger := persistence.NewGormStockLedger(db.DB)
	analyticsRepo := persistence.NewGormAnalyticsRepository(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, scope, jwtService, tokenBlacklist, log)
	userService := identityapp.NewUserService(userRepo, productRepo, authService, log)
	productService := catalogapp.NewProductService(productRepo, scope, log)
	searchService := catalogapp.NewSearchService(productRepo)
	reviewService := catalogapp.NewReviewService(productRepo, reviewRepo, orderRepo, scope, log)
	orderService := tradeapp.NewOrderService(orderRepo, scope, cfg.Store.TaxRate, log)
	checkoutService := tradeapp.NewCheckoutService(productRepo, scope, cfg.Store.TaxRate, log)
	stockService := inventoryapp.NewStockService(stockLedger, scope, cfg.Store.LowStockThreshold, log)
	analyticsService := reportapp.NewAnalyticsService(
		analyticsRepo, productRepo, userRepo, orderRepo, cfg.Store.AnalyticsStockThreshold, log,
	)
	seoService := seo.NewService(productRepo, seo.Settings{
		SiteURL:  cfg.Store.SiteURL,
		SiteName: cfg.Store.SiteName,
	})
	uploadService := media.NewUploadService(images, media.Policy{
		MaxSize:      cfg.Storage.MaxUploadSize,
		MaxFiles:     cfg.Storage.MaxFiles,
		AllowedTypes: cfg.Storage.AllowedTypes,
	}, log)

	authService.SetMetrics(metrics)
	orderService.SetMetrics(metrics)
	checkoutService.SetMetrics(metrics)
	stockService.SetMetrics(metrics)

	// Redis health is reported only when a client is configured
	var redisPinger handler.RedisPinger
	if redisClient != nil {
		redisPinger = handler.RedisPingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Product:   handler.NewProductHandler(productService),
		User:      handler.NewUserHandler(authService, userService),
		Order:     handler.NewOrderHandler(orderService),
		Checkout:  handler.NewCheckoutHandler(checkoutService),
		Stock:     handler.NewStockHandler(stockService),
		Search:    handler.NewSearchHandler(searchService),
		Review:    handler.NewReviewHandler(reviewService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
		SEO:       handler.NewSEOHandler(seoService),
		Upload:    handler.NewUploadHandler(uploadService, cfg.Storage.MaxUploadSize),
		Health:    handler.NewHealthHandler(db, redisPinger),
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := router.Options{
		HTTP:     cfg.HTTP,
		Security: middleware.DefaultSecurityConfig(),
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		},
		Auth: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: tokenBlacklist,
			Logger:         log,
		},
		Cache: middleware.ResponseCacheConfig{
			Store:   responseCache,
			TTL:     cfg.Cache.DefaultTTL,
			Metrics: metrics,
		},
		OpenAPISpec: api.OpenAPISpec,
		SlowRequest: time.Second,
		Logger:      log,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = metrics
		opts.MetricsPath = cfg.Metrics.Path
	}
	if local, ok := images.(*storage.LocalImageStorage); ok {
		opts.UploadDir = local.Dir()
		opts.UploadPath = cfg.Storage.PublicPath
	}
	// multipart bodies carry every file plus form overhead
	opts.UploadMaxBody = cfg.Storage.MaxUploadSize*int64(cfg.Storage.MaxFiles) + 1<<20

	if cfg.HTTP.RateLimitEnabled {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer opts.RateLimiter.Stop()
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		opts.AuthRateLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer opts.AuthRateLimiter.Stop()
	}

	engine := router.NewEngine(handlers, opts)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
