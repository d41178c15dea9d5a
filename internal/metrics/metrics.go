package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ResolutionCounter counts resolution waterfall results by outcome.
	// The cache_hit / catalog_hit ratio is the cost-control signal the
	// pipeline exists for.
	ResolutionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricelens_resolutions_total",
			Help: "Total number of barcode resolutions by outcome",
		},
		[]string{"outcome"},
	)

	// LookupTierCounter counts individual waterfall tier results
	LookupTierCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricelens_lookup_tier_results_total",
			Help: "Total number of lookup tier executions by tier and status",
		},
		[]string{"tier", "status"},
	)

	// QuotesPersistedCounter counts price quote rows written to the store
	QuotesPersistedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricelens_quotes_persisted_total",
			Help: "Total number of validated price quotes persisted",
		},
	)

	// RequestCounter counts all HTTP requests with labels
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		ResolutionCounter,
		LookupTierCounter,
		QuotesPersistedCounter,
		RequestCounter,
		RequestDurationHistogram,
	)
}

// Middleware records request count and duration for every route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		RequestCounter.WithLabelValues(c.Request.Method, path, status).Inc()
		RequestDurationHistogram.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
