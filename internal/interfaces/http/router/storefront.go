package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maroccart/backend/internal/infrastructure/config"
	"github.com/maroccart/backend/internal/infrastructure/logger"
	"github.com/maroccart/backend/internal/infrastructure/telemetry"
	"github.com/maroccart/backend/internal/interfaces/http/dto"
	"github.com/maroccart/backend/internal/interfaces/http/handler"
	"github.com/maroccart/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// OpenAPIPath serves the API contract
const OpenAPIPath = "/api/docs/openapi.yaml"

// Handlers groups the HTTP handlers of the storefront
type Handlers struct {
	Product   *handler.ProductHandler
	User      *handler.UserHandler
	Order     *handler.OrderHandler
	Checkout  *handler.CheckoutHandler
	Stock     *handler.StockHandler
	Search    *handler.SearchHandler
	Review    *handler.ReviewHandler
	Analytics *handler.AnalyticsHandler
	SEO       *handler.SEOHandler
	Upload    *handler.UploadHandler
	Health    *handler.HealthHandler
}

// Options configures the middleware chain and the non-API endpoints.
// A nil limiter disables that rate limit.
type Options struct {
	HTTP            config.HTTPConfig
	Security        middleware.SecurityConfig
	Tracing         middleware.TracingConfig
	Auth            middleware.JWTMiddlewareConfig
	Cache           middleware.ResponseCacheConfig
	RateLimiter     *middleware.RateLimiter
	AuthRateLimiter *middleware.RateLimiter
	Metrics         *telemetry.Metrics
	MetricsPath     string
	UploadDir       string
	UploadPath      string
	UploadMaxBody   int64
	OpenAPISpec     []byte
	SlowRequest     time.Duration
	Logger          *zap.Logger
}

// NewEngine builds the storefront engine: global middleware, every API
// route, health, metrics, docs and static uploads.
func NewEngine(h Handlers, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log, opts.SlowRequest))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(opts.Tracing))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(opts.Metrics, opts.MetricsPath, "/health"))
	engine.Use(middleware.Secure(opts.Security))
	engine.Use(middleware.CORS(opts.HTTP))
	if opts.RateLimiter != nil {
		engine.Use(middleware.RateLimit(opts.RateLimiter))
	}

	engine.GET("/", h.Health.Root)
	engine.GET("/health", h.Health.Health)
	if opts.Metrics != nil && opts.MetricsPath != "" {
		engine.GET(opts.MetricsPath, gin.WrapH(opts.Metrics.Handler()))
	}
	if len(opts.OpenAPISpec) > 0 {
		engine.GET(OpenAPIPath, func(c *gin.Context) {
			c.Data(http.StatusOK, "application/yaml", opts.OpenAPISpec)
		})
	}
	if opts.UploadDir != "" && opts.UploadPath != "" {
		engine.Static(opts.UploadPath, opts.UploadDir)
	}

	body := middleware.BodyLimit(opts.HTTP.MaxBodySize)
	protect := middleware.Protect(opts.Auth)
	admin := middleware.Admin()
	authLimit := func(c *gin.Context) { c.Next() }
	if opts.AuthRateLimiter != nil {
		authLimit = middleware.RateLimit(opts.AuthRateLimiter)
	}

	cached := func(prefix string) gin.HandlerFunc {
		return middleware.CacheResponse(opts.Cache, prefix)
	}
	invalidate := middleware.InvalidateCache(opts.Cache, middleware.CachePrefixProducts, middleware.CachePrefixSearch)

	products := NewDomainGroup("catalog", "/products").Use(body)
	products.GET("", cached(middleware.CachePrefixProducts), h.Product.List)
	products.POST("", protect, admin, invalidate, h.Product.Create)
	products.GET("/top", cached(middleware.CachePrefixProducts), h.Product.Top)
	products.GET("/categories", cached(middleware.CachePrefixProducts), h.Product.Categories)
	products.GET("/:id", cached(middleware.CachePrefixProducts), h.Product.GetByID)
	products.PUT("/:id", protect, admin, invalidate, h.Product.Update)
	products.DELETE("/:id", protect, admin, invalidate, h.Product.Delete)
	products.POST("/:id/reviews", protect, invalidate, h.Product.AddReview)

	users := NewDomainGroup("identity", "/users").Use(body)
	users.POST("", authLimit, h.User.Register)
	users.POST("/register", authLimit, h.User.Register)
	users.POST("/login", authLimit, h.User.Login)
	account := users.Group("account", "").Use(protect)
	account.POST("/logout", h.User.Logout)
	account.GET("/profile", h.User.Profile)
	account.PUT("/profile", h.User.UpdateProfile)
	account.GET("/wishlist", h.User.Wishlist)
	account.POST("/wishlist", h.User.AddToWishlist)
	account.DELETE("/wishlist/:id", h.User.RemoveFromWishlist)
	account.GET("/referral", h.User.Referral)

	orders := NewDomainGroup("trade", "/orders").Use(body, protect)
	orders.POST("", h.Order.Create)
	orders.GET("", admin, h.Order.List)
	orders.GET("/myorders", h.Order.MyOrders)
	orders.GET("/:id", h.Order.GetByID)
	orders.PUT("/:id/pay", invalidate, h.Order.Pay)
	orders.PUT("/:id/deliver", admin, h.Order.Deliver)
	orders.PUT("/:id/cancel", invalidate, h.Order.Cancel)
	orders.PUT("/:id/status", admin, invalidate, h.Order.UpdateStatus)
	orders.POST("/:id/delivery-attempts", admin, h.Order.AddDeliveryAttempt)

	checkout := NewDomainGroup("checkout", "/checkout").Use(body, protect)
	checkout.POST("/process", invalidate, h.Checkout.Process)
	checkout.POST("/validate", h.Checkout.Validate)
	checkout.GET("/shipping-options", h.Checkout.ShippingOptions)
	checkout.GET("/tax", h.Checkout.Tax)

	stock := NewDomainGroup("inventory", "/stock").Use(body)
	stock.POST("/check", h.Stock.Check)
	stockAdmin := stock.Group("admin", "").Use(protect, admin)
	stockAdmin.POST("/reserve", invalidate, h.Stock.Reserve)
	stockAdmin.POST("/release", invalidate, h.Stock.Release)
	stockAdmin.POST("/complete", invalidate, h.Stock.Complete)
	stockAdmin.GET("/alerts", h.Stock.Alerts)
	stockAdmin.PUT("/:productId", invalidate, h.Stock.Set)

	search := NewDomainGroup("search", "/search").Use(body, cached(middleware.CachePrefixSearch))
	search.GET("", h.Search.Search)
	search.GET("/suggestions", h.Search.Suggestions)
	search.GET("/filters", h.Search.Filters)

	reviews := NewDomainGroup("reviews", "/reviews").Use(body)
	reviews.GET("/products/:id/reviews", h.Review.ProductReviews)
	reviews.GET("/products/:id/reviews/helpful", h.Review.Helpful)
	reviews.GET("/reviews/user/:userId", h.Review.UserReviews)
	reviews.POST("/products/:id/reviews", protect, invalidate, h.Review.Create)
	reviews.PUT("/products/:id/reviews/:reviewId", protect, invalidate, h.Review.Update)
	reviews.DELETE("/products/:id/reviews/:reviewId", protect, invalidate, h.Review.Delete)

	analytics := NewDomainGroup("report", "/analytics").Use(body, protect, admin)
	analytics.GET("/sales", h.Analytics.Sales)
	analytics.GET("/users", h.Analytics.Users)
	analytics.GET("/products", h.Analytics.Products)
	analytics.GET("/conversion", h.Analytics.Conversion)
	analytics.GET("/dashboard", h.Analytics.Dashboard)

	seo := NewDomainGroup("seo", "/seo").Use(body)
	seo.GET("/product/:id", h.SEO.Product)
	seo.GET("/category/:category", h.SEO.Category)
	seo.GET("/sitemap", h.SEO.Sitemap)
	seo.GET("/robots", h.SEO.Robots)
	seo.POST("/meta", h.SEO.Meta)

	upload := NewDomainGroup("media", "/upload").Use(middleware.BodyLimit(opts.UploadMaxBody), protect, admin)
	upload.POST("/image", h.Upload.UploadImage)
	upload.POST("/images", h.Upload.UploadImages)
	upload.DELETE("/:filename", h.Upload.Delete)

	NewRouter(engine).
		Register(products).
		Register(users).
		Register(orders).
		Register(checkout).
		Register(stock).
		Register(search).
		Register(reviews).
		Register(analytics).
		Register(seo).
		Register(upload).
		Setup()

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NotFoundResponse{Message: "Not Found - " + c.Request.URL.Path})
	})

	return engine
}
