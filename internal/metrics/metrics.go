package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "orcr",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orcr",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "orcr",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orcr",
			Subsystem: "workflow",
			Name:      "transitions_total",
			Help:      "Applied application status transitions.",
		},
		[]string{"action", "to"},
	)

	receiptsIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orcr",
			Subsystem: "receipts",
			Name:      "issued_total",
			Help:      "Receipts issued, by type.",
		},
		[]string{"type"},
	)

	receiptsVoided = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "orcr",
			Subsystem: "receipts",
			Name:      "voided_total",
			Help:      "Receipts voided.",
		},
	)

	applications = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "orcr",
			Subsystem: "workflow",
			Name:      "applications",
			Help:      "Loan applications currently in each status.",
		},
		[]string{"status"},
	)

	numberCollisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orcr",
			Subsystem: "numbering",
			Name:      "collisions_total",
			Help:      "Document number collisions that triggered a retry.",
		},
		[]string{"what"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		transitions,
		receiptsIssued,
		receiptsVoided,
		applications,
		numberCollisions,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted tracks an in-flight request; call the returned func when it completes.
func RequestStarted() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// RecordHTTPRequest records one handled request. route should be the matched
// route template so ids do not explode label cardinality.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordTransition counts a committed workflow transition.
func RecordTransition(action, to string) {
	transitions.WithLabelValues(action, to).Inc()
}

// RecordReceiptIssued counts a committed receipt.
func RecordReceiptIssued(receiptType string) {
	receiptsIssued.WithLabelValues(receiptType).Inc()
}

// RecordReceiptVoided counts a committed void.
func RecordReceiptVoided() {
	receiptsVoided.Inc()
}

// RecordNumberCollision counts a unique-number retry.
func RecordNumberCollision(what string) {
	numberCollisions.WithLabelValues(what).Inc()
}

// SetApplicationsByStatus replaces the per-status application gauge.
func SetApplicationsByStatus(counts map[string]int64) {
	for status, n := range counts {
		applications.WithLabelValues(status).Set(float64(n))
	}
}
