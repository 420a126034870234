package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maroccart/backend/api"
	catalogapp "github.com/maroccart/backend/internal/application/catalog"
	identityapp "github.com/maroccart/backend/internal/application/identity"
	inventoryapp "github.com/maroccart/backend/internal/application/inventory"
	"github.com/maroccart/backend/internal/application/media"
	reportapp "github.com/maroccart/backend/internal/application/report"
	"github.com/maroccart/backend/internal/application/seo"
	tradeapp "github.com/maroccart/backend/internal/application/trade"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/maroccart/backend/internal/infrastructure/auth"
	"github.com/maroccart/backend/internal/infrastructure/cache"
	"github.com/maroccart/backend/internal/infrastructure/config"
	"github.com/maroccart/backend/internal/infrastructure/persistence"
	"github.com/maroccart/backend/internal/infrastructure/persistence/models"
	"github.com/maroccart/backend/internal/infrastructure/storage"
	"github.com/maroccart/backend/internal/infrastructure/telemetry"
	"github.com/maroccart/backend/internal/interfaces/http/handler"
	"github.com/maroccart/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	engine  *gin.Engine
	db      *gorm.DB
	jwt     *auth.JWTService
	metrics *telemetry.Metrics
}

func newTestServer(t *testing.T, mutate ...func(*Options)) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := zaptest.NewLogger(t)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Issuer:     "maroccart-test",
		Expiration: time.Hour,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	metrics := telemetry.NewMetrics()

	scope := persistence.NewGormTransactionScope(db)
	productRepo := persistence.NewGormProductRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	reviewRepo := persistence.NewGormReviewRepository(db)

	authService := identityapp.NewAuthService(userRepo, scope, jwtService, blacklist, log)
	orderService := tradeapp.NewOrderService(orderRepo, scope, 20, log)
	checkoutService := tradeapp.NewCheckoutService(productRepo, scope, 20, log)
	stockService := inventoryapp.NewStockService(persistence.NewGormStockLedger(db), scope, 5, log)
	orderService.SetMetrics(metrics)
	checkoutService.SetMetrics(metrics)
	stockService.SetMetrics(metrics)
	authService.SetMetrics(metrics)

	images, err := storage.NewLocalImageStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	h := Handlers{
		Product:  handler.NewProductHandler(catalogapp.NewProductService(productRepo, scope, log)),
		User:     handler.NewUserHandler(authService, identityapp.NewUserService(userRepo, productRepo, authService, log)),
		Order:    handler.NewOrderHandler(orderService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Stock:    handler.NewStockHandler(stockService),
		Search:   handler.NewSearchHandler(catalogapp.NewSearchService(productRepo)),
		Review:   handler.NewReviewHandler(catalogapp.NewReviewService(productRepo, reviewRepo, orderRepo, scope, log)),
		Analytics: handler.NewAnalyticsHandler(reportapp.NewAnalyticsService(
			persistence.NewGormAnalyticsRepository(db), productRepo, userRepo, orderRepo, 10, log)),
		SEO:    handler.NewSEOHandler(seo.NewService(productRepo, seo.Settings{SiteURL: "https://maroc-cart.test", SiteName: "Maroc-Cart"})),
		Upload: handler.NewUploadHandler(media.NewUploadService(images, media.DefaultPolicy(), log), 5<<20),
		Health: handler.NewHealthHandler(&persistence.Database{DB: db}, nil),
	}

	store := cache.NewInMemoryResponseCache(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	opts := Options{
		HTTP: config.HTTPConfig{
			MaxBodySize:      1 << 20,
			CORSAllowOrigins: []string{"http://localhost:3000"},
			CORSAllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			CORSAllowHeaders: []string{"Authorization", "Content-Type"},
		},
		Security: middleware.DefaultSecurityConfig(),
		Auth: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		},
		Cache:         middleware.ResponseCacheConfig{Store: store, TTL: time.Minute, Metrics: metrics},
		Metrics:       metrics,
		MetricsPath:   "/metrics",
		UploadDir:     images.Dir(),
		UploadPath:    "/uploads",
		UploadMaxBody: 30 << 20,
		OpenAPISpec:   api.OpenAPISpec,
		Logger:        log,
	}
	for _, m := range mutate {
		m(&opts)
	}

	return &testServer{
		engine:  NewEngine(h, opts),
		db:      db,
		jwt:     jwtService,
		metrics: metrics,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) user(t *testing.T, name, email string, admin bool) (*identity.User, string) {
	t.Helper()
	u, err := identity.NewUser(name, email, "Secret123")
	require.NoError(t, err)
	u.IsAdmin = admin
	require.NoError(t, persistence.NewGormUserRepository(s.db).Save(context.Background(), u))
	token, err := s.jwt.GenerateToken(u.ID, admin)
	require.NoError(t, err)
	return u, token.Value
}

func (s *testServer) product(t *testing.T, name string, priceMAD int64, stock int, opts ...func(*catalog.Product)) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductInput{
		Name:         name,
		Description:  "Handmade in Morocco by local artisans",
		Price:        decimal.NewFromInt(priceMAD).Div(decimal.NewFromInt(10)),
		PriceMAD:     decimal.NewFromInt(priceMAD),
		Image:        "/images/product.jpg",
		Category:     "Cosmetics",
		Brand:        "Atlas",
		CountInStock: stock,
	}, nil)
	require.NoError(t, err)
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, persistence.NewGormProductRepository(s.db).Save(context.Background(), p))
	return p
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Code      string `json:"code"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	register := map[string]string{"name": "Amina Tazi", "email": "amina@example.ma", "password": "Secret123"}

	w := s.do(t, http.MethodPost, "/api/users", "", register)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[identityapp.UserResponse](t, w)
	assert.Equal(t, "amina@example.ma", created.Email)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, identity.TierBronze, created.Tier)

	t.Run("duplicate email is rejected with 400", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/users/register", "", register)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[errorBody](t, w)
		assert.Equal(t, "User already exists", body.Message)
		assert.NotEmpty(t, body.Error.RequestID)
	})

	t.Run("wrong password answers 401", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
			"email": "amina@example.ma", "password": "Wrong1234",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decode[errorBody](t, w).Message)
	})

	t.Run("login returns a usable token", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
			"email": "amina@example.ma", "password": "Secret123",
		})
		require.Equal(t, http.StatusOK, w.Code)
		token := decode[identityapp.UserResponse](t, w).Token

		profile := s.do(t, http.MethodGet, "/api/users/profile", token, nil)
		assert.Equal(t, http.StatusOK, profile.Code)
		assert.NotContains(t, profile.Body.String(), `"token"`)
	})

	t.Run("weak password fails validation", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/users", "", map[string]string{
			"name": "Youssef", "email": "youssef@example.ma", "password": "abcdef",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode[errorBody](t, w).Error.Code)
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, "Amina Tazi", "amina@example.ma", false)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/users/profile", token, nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/users/logout", token, nil).Code)

	w := s.do(t, http.MethodGet, "/api/users/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_REVOKED", decode[errorBody](t, w).Error.Code)
}

func TestAuthorization(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.user(t, "Amina Tazi", "amina@example.ma", false)
	_, adminToken := s.user(t, "Admin User", "admin@example.ma", true)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"profile without token", http.MethodGet, "/api/users/profile", "", http.StatusUnauthorized},
		{"analytics as user", http.MethodGet, "/api/analytics/dashboard", userToken, http.StatusForbidden},
		{"analytics as admin", http.MethodGet, "/api/analytics/dashboard", adminToken, http.StatusOK},
		{"stock alerts as user", http.MethodGet, "/api/stock/alerts", userToken, http.StatusForbidden},
		{"stock alerts as admin", http.MethodGet, "/api/stock/alerts", adminToken, http.StatusOK},
		{"all orders as user", http.MethodGet, "/api/orders", userToken, http.StatusForbidden},
		{"all orders as admin", http.MethodGet, "/api/orders", adminToken, http.StatusOK},
		{"delivery attempt as user", http.MethodPost, "/api/orders/00000000-0000-0000-0000-000000000001/delivery-attempts", userToken, http.StatusForbidden},
		{"upload without token", http.MethodPost, "/api/upload/image", "", http.StatusUnauthorized},
		{"public catalog", http.MethodGet, "/api/products", "", http.StatusOK},
		{"public seo", http.MethodGet, "/api/seo/robots", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := s.do(t, http.MethodGet, "/api/stock/alerts", userToken, nil)
	assert.Equal(t, "Not authorized as an admin", decode[errorBody](t, w).Message)
}

func TestCreateOrderWithoutItems(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, "Amina Tazi", "amina@example.ma", false)

	w := s.do(t, http.MethodPost, "/api/orders", token, map[string]any{
		"orderItems": []any{},
		"shippingAddress": map[string]string{
			"address": "12 Rue Mohammed V", "city": "Rabat", "postalCode": "10000",
			"country": "Morocco", "phone": "0612345678",
		},
		"paymentMethod": "cod",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No order items", decode[errorBody](t, w).Message)
}

func TestSearchReturnsOnlyActiveMatches(t *testing.T) {
	s := newTestServer(t)
	s.product(t, "Argan Oil", 150, 10)
	s.product(t, "Argan Soap", 40, 10, func(p *catalog.Product) { p.IsActive = false })
	s.product(t, "Tajine Pot", 300, 3)

	w := s.do(t, http.MethodGet, "/api/search?keyword=argan", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[catalogapp.SearchResponse](t, w)
	require.Len(t, body.Products, 1)
	assert.Equal(t, "Argan Oil", body.Products[0].Name)
	assert.EqualValues(t, 1, body.TotalItems)

	list := s.do(t, http.MethodGet, "/api/products?keyword=ARGAN", "", nil)
	require.Equal(t, http.StatusOK, list.Code)
	products := decode[catalogapp.ProductListResponse](t, list)
	require.Len(t, products.Products, 1)
	assert.Equal(t, "Argan Oil", products.Products[0].Name)
}

func TestReviewRatingOutOfRange(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, "Amina Tazi", "amina@example.ma", false)
	p := s.product(t, "Argan Oil", 150, 10)

	for _, rating := range []int{0, 6} {
		w := s.do(t, http.MethodPost, "/api/products/"+p.ID.String()+"/reviews", token, map[string]any{
			"rating": rating, "comment": "Lovely scent",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d", rating)
		assert.Equal(t, "INVALID_RATING", decode[errorBody](t, w).Error.Code)
	}

	w := s.do(t, http.MethodPost, "/api/products/"+p.ID.String()+"/reviews", token, map[string]any{
		"rating": 5, "comment": "Lovely scent",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Review added"}`, w.Body.String())
}

func TestStockCheck(t *testing.T) {
	s := newTestServer(t)
	oil := s.product(t, "Argan Oil", 150, 10)
	tajine := s.product(t, "Tajine Pot", 300, 2)

	w := s.do(t, http.MethodPost, "/api/stock/check", "", map[string]any{
		"items": []map[string]any{
			{"productId": oil.ID, "quantity": 3},
			{"productId": tajine.ID, "quantity": 5},
			{"productId": uuid.New(), "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[inventoryapp.CheckResponse](t, w)
	assert.False(t, body.AllAvailable)
	require.Len(t, body.StockCheck, 3)
	assert.Equal(t, "In stock", body.StockCheck[0].Message)
	assert.Equal(t, "Only 2 items available", body.StockCheck[1].Message)
	assert.Equal(t, "Product not found", body.StockCheck[2].Message)

	empty := s.do(t, http.MethodPost, "/api/stock/check", "", map[string]any{"items": []any{}})
	require.Equal(t, http.StatusOK, empty.Code, empty.Body.String())
	emptyBody := decode[inventoryapp.CheckResponse](t, empty)
	assert.True(t, emptyBody.AllAvailable)
	assert.Empty(t, emptyBody.StockCheck)

	absent := s.do(t, http.MethodPost, "/api/stock/check", "", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, absent.Code)

	missing := s.do(t, http.MethodPost, "/api/stock/check", "", map[string]any{"items": "oil"})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.Equal(t, "Items array is required", decode[errorBody](t, missing).Message)
}

func TestCheckoutReservesStock(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, "Amina Tazi", "amina@example.ma", false)
	oil := s.product(t, "Argan Oil", 250, 4)

	checkout := func(qty int) *httptest.ResponseRecorder {
		return s.do(t, http.MethodPost, "/api/checkout/process", token, map[string]any{
			"items": []map[string]any{{"productId": oil.ID, "quantity": qty}},
			"shippingAddress": map[string]string{
				"address": "5 Boulevard Anfa", "city": "Casablanca", "postalCode": "20000",
				"country": "Morocco", "phone": "0612345678",
			},
			"paymentMethod": "cod",
			"couponCode":    "MAROC10",
		})
	}

	w := checkout(3)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[tradeapp.OrderResponse](t, w)
	assert.True(t, order.StockReserved)
	assert.True(t, decimal.NewFromInt(75).Equal(order.DiscountAmount), order.DiscountAmount.String())
	assert.True(t, decimal.NewFromInt(20).Equal(order.ShippingPrice))

	w = checkout(2)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Insufficient stock for Argan Oil. Available: 1", decode[errorBody](t, w).Message)

	reloaded, err := persistence.NewGormProductRepository(s.db).FindByID(context.Background(), oil.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.CountInStock)
	assert.Equal(t, 3, reloaded.ReservedStock)
}

func TestProductAdminLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.user(t, "Admin User", "admin@example.ma", true)

	w := s.do(t, http.MethodPost, "/api/products", adminToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sample := decode[catalogapp.ProductResponse](t, w)
	assert.Equal(t, "Sample name", sample.Name)

	path := "/api/products/" + sample.ID.String()
	w = s.do(t, http.MethodPut, path, adminToken, map[string]any{"name": "Amlou Spread", "countInStock": 7})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Amlou Spread", decode[catalogapp.ProductResponse](t, w).Name)

	w = s.do(t, http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Product removed"}`, w.Body.String())

	w = s.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decode[errorBody](t, w).Message)

	w = s.do(t, http.MethodGet, "/api/products/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductCacheInvalidation(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.user(t, "Admin User", "admin@example.ma", true)
	p := s.product(t, "Argan Oil", 150, 10)
	path := "/api/products/" + p.ID.String()

	first := s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get(middleware.CacheStatusHeader))
	assert.Equal(t, "HIT", s.do(t, http.MethodGet, path, "", nil).Header().Get(middleware.CacheStatusHeader))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, path, adminToken, map[string]any{"name": "Argan Oil Deluxe"}).Code)

	after := s.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, "MISS", after.Header().Get(middleware.CacheStatusHeader))
	assert.Equal(t, "Argan Oil Deluxe", decode[catalogapp.ProductResponse](t, after).Name)
}

func TestMiscEndpoints(t *testing.T) {
	s := newTestServer(t)

	t.Run("root", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Maroc-Cart Server is running!", w.Body.String())
	})

	t.Run("health", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		body := decode[handler.HealthResponse](t, w)
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "ok", body.Database)
		assert.Equal(t, "disabled", body.Redis)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/unknown", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Not Found - /api/unknown"}`, w.Body.String())
	})

	t.Run("security headers and request id", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/products", "", nil)
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("openapi document", func(t *testing.T) {
		w := s.do(t, http.MethodGet, OpenAPIPath, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(w.Body.String(), "openapi:"))
	})

	t.Run("metrics", func(t *testing.T) {
		s.do(t, http.MethodGet, "/api/products/categories", "", nil)
		w := s.do(t, http.MethodGet, "/metrics", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `route="/api/products/categories"`)
	})

	t.Run("robots", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/seo/robots", "", nil)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, w.Body.String(), "Sitemap: https://maroc-cart.test/api/seo/sitemap?format=xml")
	})

	t.Run("xml sitemap", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/seo/sitemap?format=xml", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
		assert.Contains(t, w.Body.String(), "<urlset")
	})
}

func TestAuthRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	s := newTestServer(t, func(o *Options) { o.AuthRateLimiter = limiter })

	login := map[string]string{"email": "nobody@example.ma", "password": "Secret123"}
	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodPost, "/api/users/login", "", login)
		assert.Equal(t, http.StatusUnauthorized, w.Code, fmt.Sprintf("attempt %d", i+1))
	}
	w := s.do(t, http.MethodPost, "/api/users/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/products", "", nil).Code)
}
