package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks request latency by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "path", "status"},
	)

	// OrdersTotal counts blotter operations by action.
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blotter_orders_total",
			Help: "Total number of order operations by action",
		},
		[]string{"action", "instrument"},
	)

	// TriggersTotal counts orders filled by trigger evaluation.
	TriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blotter_triggers_total",
			Help: "Total number of orders filled by price triggers",
		},
		[]string{"instrument", "order_type"},
	)

	// OpenOrders tracks the number of resting orders.
	OpenOrders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blotter_open_orders",
			Help: "Current number of resting orders",
		},
	)

	// BarsTotal counts price bars consumed by the feed.
	BarsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blotter_bars_total",
			Help: "Total number of price bars consumed",
		},
		[]string{"instrument"},
	)
)

// PrometheusMiddleware records request metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()

		HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Observe(duration)
	}
}
