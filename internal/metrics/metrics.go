package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status_code"},
	)

	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		},
		[]string{"method", "route"},
	)

	// Database metrics
	dbConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of database connections in use",
		},
	)

	dbConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// Business metrics
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Total number of accepted public form submissions",
		},
		[]string{"entity"},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of operator notification attempts",
		},
		[]string{"status"}, // sent, failed, skipped
	)

	adminLoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_logins_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"result"}, // success, failure, unconfigured
	)

	feedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "admin_feed_clients",
			Help: "Number of connected admin live-feed clients",
		},
	)
)

// Middleware records request count, latency and response size keyed by
// the matched route template, so path parameters do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		httpRequestsTotal.WithLabelValues(method, route, status).Inc()
		httpRequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
		if size := c.Writer.Size(); size > 0 {
			httpResponseSize.WithLabelValues(method, route).Observe(float64(size))
		}
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordSubmission(entity string) {
	submissionsTotal.WithLabelValues(entity).Inc()
}

func RecordNotification(status string) {
	notificationsTotal.WithLabelValues(status).Inc()
}

func RecordAdminLogin(result string) {
	adminLoginsTotal.WithLabelValues(result).Inc()
}

func FeedClientConnected()    { feedClients.Inc() }
func FeedClientDisconnected() { feedClients.Dec() }

// UpdateDBConnections copies pool statistics into the gauges.
func UpdateDBConnections(stats sql.DBStats) {
	dbConnectionsInUse.Set(float64(stats.InUse))
	dbConnectionsIdle.Set(float64(stats.Idle))
}
