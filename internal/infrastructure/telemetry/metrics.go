package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const metricsNamespace = "maroccart"

// Metrics holds the Prometheus collectors exposed at the metrics endpoint.
// It uses its own registry so tests can create independent instances.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	ordersCreatedTotal   prometheus.Counter
	orderRevenueTotal    prometheus.Counter
	ordersPaidTotal      prometheus.Counter
	checkoutFailures     *prometheus.CounterVec
	stockReservations    *prometheus.CounterVec
	cacheLookupsTotal    *prometheus.CounterVec
	usersRegisteredTotal prometheus.Counter
}

// NewMetrics creates and registers all collectors
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.ordersCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Orders created.",
	})
	m.orderRevenueTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "orders",
		Name:      "revenue_mad_total",
		Help:      "Total price of created orders in MAD.",
	})
	m.ordersPaidTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "orders",
		Name:      "paid_total",
		Help:      "Orders marked as paid.",
	})
	m.checkoutFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "checkout",
			Name:      "failures_total",
			Help:      "Failed checkouts by error code.",
		},
		[]string{"reason"},
	)
	m.stockReservations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "stock",
			Name:      "operations_total",
			Help:      "Stock ledger operations by kind and result.",
		},
		[]string{"operation", "result"},
	)
	m.cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Response cache lookups by prefix and result.",
		},
		[]string{"prefix", "result"},
	)
	m.usersRegisteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "users",
		Name:      "registered_total",
		Help:      "Registered user accounts.",
	})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.ordersCreatedTotal,
		m.orderRevenueTotal,
		m.ordersPaidTotal,
		m.checkoutFailures,
		m.stockReservations,
		m.cacheLookupsTotal,
		m.usersRegisteredTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records one served request. route is the matched pattern, not the raw path.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// OrderCreated records a placed order and its total
func (m *Metrics) OrderCreated(total decimal.Decimal) {
	if m == nil {
		return
	}
	m.ordersCreatedTotal.Inc()
	m.orderRevenueTotal.Add(total.InexactFloat64())
}

// OrderPaid records a payment
func (m *Metrics) OrderPaid() {
	if m == nil {
		return
	}
	m.ordersPaidTotal.Inc()
}

// CheckoutFailed records a failed checkout with its error code
func (m *Metrics) CheckoutFailed(reason string) {
	if m == nil {
		return
	}
	m.checkoutFailures.WithLabelValues(reason).Inc()
}

// StockOperation records a reserve/release/commit outcome
func (m *Metrics) StockOperation(operation string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.stockReservations.WithLabelValues(operation, result).Inc()
}

// CacheLookup records a response cache hit or miss
func (m *Metrics) CacheLookup(prefix string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookupsTotal.WithLabelValues(prefix, result).Inc()
}

// UserRegistered records a new account
func (m *Metrics) UserRegistered() {
	if m == nil {
		return
	}
	m.usersRegisteredTotal.Inc()
}
