// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Upstream metrics
	ExplorerCallsTotal  *prometheus.CounterVec
	ExplorerCallLatency *prometheus.HistogramVec
	ChainCallsTotal     *prometheus.CounterVec
	ChainCallLatency    *prometheus.HistogramVec
	ChainFieldFallbacks *prometheus.CounterVec
	HolderListDegraded  prometheus.Counter
	AnalysisRequests    *prometheus.CounterVec
	AnalysisDuration    prometheus.Histogram

	// Check metrics
	ChecksTotal   *prometheus.CounterVec
	CheckDuration prometheus.Histogram
	RiskScores    prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_rugcheck"
	}

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by endpoint and status code",
		}, []string{"endpoint", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"endpoint"}),

		// Upstream metrics
		ExplorerCallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "explorer",
			Name:      "calls_total",
			Help:      "Total number of block explorer calls by action and outcome",
		}, []string{"action", "outcome"}),
		ExplorerCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "explorer",
			Name:      "call_latency_seconds",
			Help:      "Block explorer call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		ChainCallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "calls_total",
			Help:      "Total number of contract read calls by method and outcome",
		}, []string{"method", "outcome"}),
		ChainCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "call_latency_seconds",
			Help:      "Contract read call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		ChainFieldFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "field_fallbacks_total",
			Help:      "Total number of token fields replaced by their fallback value",
		}, []string{"field"}),
		HolderListDegraded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "holder_list_degraded_total",
			Help:      "Total number of aggregations that continued without a holder list",
		}),
		AnalysisRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "requests_total",
			Help:      "Total number of LLM analysis requests by status",
		}, []string{"status"}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "LLM analysis duration in seconds",
			Buckets:   []float64{1, 5, 10, 20, 30, 60, 120, 300},
		}),

		// Check metrics
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "check",
			Name:      "runs_total",
			Help:      "Total number of contract checks by status",
		}, []string{"status"}),
		CheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "check",
			Name:      "duration_seconds",
			Help:      "End to end contract check duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		RiskScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "check",
			Name:      "risk_score",
			Help:      "Distribution of risk scores extracted from reports",
			Buckets:   []float64{20, 40, 60, 80, 100},
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(endpoint string, status int, seconds float64) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

// RecordExplorerCall records a block explorer call.
func RecordExplorerCall(action, outcome string, seconds float64) {
	DefaultMetrics.ExplorerCallsTotal.WithLabelValues(action, outcome).Inc()
	DefaultMetrics.ExplorerCallLatency.WithLabelValues(action).Observe(seconds)
}

// RecordChainCall records a contract read call.
func RecordChainCall(method, outcome string, seconds float64) {
	DefaultMetrics.ChainCallsTotal.WithLabelValues(method, outcome).Inc()
	DefaultMetrics.ChainCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordFieldFallback increments the fallback counter for a token field.
func RecordFieldFallback(field string) {
	DefaultMetrics.ChainFieldFallbacks.WithLabelValues(field).Inc()
}

// RecordHolderListDegraded increments the degraded holder list counter.
func RecordHolderListDegraded() {
	DefaultMetrics.HolderListDegraded.Inc()
}

// RecordAnalysis records an LLM analysis request.
func RecordAnalysis(status string, seconds float64) {
	DefaultMetrics.AnalysisRequests.WithLabelValues(status).Inc()
	DefaultMetrics.AnalysisDuration.Observe(seconds)
}

// RecordCheck records a complete contract check.
func RecordCheck(status string, seconds float64) {
	DefaultMetrics.ChecksTotal.WithLabelValues(status).Inc()
	DefaultMetrics.CheckDuration.Observe(seconds)
}

// RecordRiskScore records the score extracted from a report.
func RecordRiskScore(score int) {
	DefaultMetrics.RiskScores.Observe(float64(score))
}
