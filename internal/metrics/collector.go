// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector registers and records the scheduler's Prometheus metrics.
type Collector struct {
	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRequestSize     *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// Coordinator metrics
	messagesTotal       *prometheus.CounterVec
	scheduleRunsTotal   prometheus.Counter
	scheduleRunDuration prometheus.Histogram
	touristsCurrent     prometheus.Gauge
	guidesCurrent       prometheus.Gauge
	assignmentsCurrent  prometheus.Gauge

	// Dashboard metrics
	dashboardNotificationsTotal *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector creates a Collector with all metrics registered under the
// given namespace on the default registry.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	// HTTP metrics
	c.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.httpRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_size_bytes",
			Help:      "HTTP request size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	c.httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// Coordinator metrics
	c.messagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of inbound scheduler messages",
		},
		[]string{"type", "status"},
	)

	c.scheduleRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_runs_total",
			Help:      "Total number of full scheduling runs",
		},
	)

	c.scheduleRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "schedule_run_duration_seconds",
			Help:      "Full scheduling run duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	c.touristsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tourists_registered",
			Help:      "Number of tourist requests currently registered",
		},
	)

	c.guidesCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "guides_registered",
			Help:      "Number of guide offers currently registered",
		},
	)

	c.assignmentsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "assignments_current",
			Help:      "Number of assignments produced by the latest run",
		},
	)

	// Dashboard metrics
	c.dashboardNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_notifications_total",
			Help:      "Total number of dashboard notification attempts",
		},
		[]string{"status"},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// RecordHTTPRequest records one served HTTP request.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration, requestSize, responseSize int64) {
	c.httpRequestsTotal.WithLabelValues(method, path, statusCode(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	c.httpRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	c.httpResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// RecordMessage records one inbound scheduler message.
func (c *Collector) RecordMessage(msgType, status string) {
	c.messagesTotal.WithLabelValues(msgType, status).Inc()
}

// RecordScheduleRun records one full scheduling run and the resulting
// state sizes.
func (c *Collector) RecordScheduleRun(duration time.Duration, tourists, guides, assignments int) {
	c.scheduleRunsTotal.Inc()
	c.scheduleRunDuration.Observe(duration.Seconds())
	c.touristsCurrent.Set(float64(tourists))
	c.guidesCurrent.Set(float64(guides))
	c.assignmentsCurrent.Set(float64(assignments))
}

// RecordDashboardNotification records one dashboard notification attempt.
func (c *Collector) RecordDashboardNotification(status string) {
	c.dashboardNotificationsTotal.WithLabelValues(status).Inc()
}

// statusCode maps an HTTP status code to its class label.
func statusCode(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
