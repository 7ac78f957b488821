// Package metrics provides Prometheus metrics for the wiki client and MCP server.
// It tracks API request counts, latencies, pagination depth, and tool calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const (
	Namespace = "wikiquery"
)

var (
	// RequestsTotal counts total MCP tool calls by tool name and status
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "requests_total",
		Help:      "Total number of MCP tool calls",
	}, []string{"tool", "status"})

	// RequestDuration measures tool latency distribution
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "request_duration_seconds",
		Help:      "Request latency distribution by tool",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"tool"})

	// RequestInFlight tracks currently executing tool calls
	RequestInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "requests_in_flight",
		Help:      "Number of requests currently being processed",
	}, []string{"tool"})

	// PanicsRecovered counts recovered panics
	PanicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "panics_recovered_total",
		Help:      "Number of panics recovered in tool handlers",
	}, []string{"tool"})

	// WikiAPILatency measures wiki API call latency by query kind
	WikiAPILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "wiki_api_latency_seconds",
		Help:      "Wiki API call latency by query kind",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})

	// WikiAPIRequestsTotal counts wiki API requests
	WikiAPIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "wiki_api_requests_total",
		Help:      "Total wiki API requests by query kind and status",
	}, []string{"query", "status"})

	// WikiAPIErrors counts wiki API errors by error code
	WikiAPIErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "wiki_api_errors_total",
		Help:      "Wiki API errors by query kind and error code",
	}, []string{"query", "error_code"})

	// PaginationPages counts pages fetched by the pagination engine
	PaginationPages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "pagination_pages_total",
		Help:      "Pages fetched by paginated queries",
	}, []string{"query"})

	// AggregatedResults observes the size of fully aggregated result lists
	AggregatedResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "aggregated_results",
		Help:      "Number of results returned by an aggregated paginated query",
		Buckets:   []float64{1, 10, 50, 100, 250, 500, 1000, 5000},
	}, []string{"query"})

	// CircuitBreakerRejections counts requests rejected by an open circuit
	CircuitBreakerRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "circuit_breaker_rejections_total",
		Help:      "Wiki API requests rejected by an open circuit breaker",
	})
)

// RecordRequest records a completed tool call with its duration and status
func RecordRequest(tool string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	RequestsTotal.WithLabelValues(tool, status).Inc()
	RequestDuration.WithLabelValues(tool).Observe(duration)
}

// RecordAPICall records a wiki API call
func RecordAPICall(query string, duration float64, success bool, errorCode string) {
	status := "success"
	if !success {
		status = "error"
	}
	WikiAPIRequestsTotal.WithLabelValues(query, status).Inc()
	WikiAPILatency.WithLabelValues(query).Observe(duration)
	if errorCode != "" {
		WikiAPIErrors.WithLabelValues(query, errorCode).Inc()
	}
}

// RecordPage records one fetched page of a paginated query
func RecordPage(query string) {
	PaginationPages.WithLabelValues(query).Inc()
}

// RecordAggregate records the total size of an aggregated result list
func RecordAggregate(query string, results int) {
	AggregatedResults.WithLabelValues(query).Observe(float64(results))
}
