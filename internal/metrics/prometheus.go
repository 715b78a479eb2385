package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route", "status"},
	)
	versionConflictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_version_conflicts_total",
			Help: "Rejected writes carrying a stale version.",
		},
		[]string{"entity"},
	)
	ordersClosedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_orders_closed_total",
			Help: "Orders closed by the payment collaborator.",
		},
	)
	productCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_product_cache_lookups_total",
			Help: "Product cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		versionConflictsTotal,
		ordersClosedTotal,
		productCacheLookupsTotal,
	)
}

// RecordRequest records a finished HTTP request. route is the chi route
// pattern, never the raw path, to keep label cardinality bounded.
func RecordRequest(method, route string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func RecordVersionConflict(entity string) {
	versionConflictsTotal.WithLabelValues(entity).Inc()
}

func RecordOrderClosed() {
	ordersClosedTotal.Inc()
}

func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	productCacheLookupsTotal.WithLabelValues(result).Inc()
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

func Handler() http.Handler {
	return promhttp.Handler()
}
