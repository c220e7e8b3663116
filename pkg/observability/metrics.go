// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the vllm-mcp gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// ToolInvocationsTotal counts MCP tool invocations by tool name and outcome.
	// The status label is "ok" or the error type of the failure.
	ToolInvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vllmmcp_tool_invocations_total",
			Help: "Tool invocations",
		},
		[]string{"tool", "status"},
	)

	// ToolDuration records tool invocation duration in seconds by tool name.
	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vllmmcp_tool_duration_seconds",
			Help:    "Tool invocation duration",
			Buckets: LLMBuckets,
		},
		[]string{"tool"},
	)

	// ProviderRequestsTotal counts requests sent to multimodal backends.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vllmmcp_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"provider", "model", "status"},
	)

	// ProviderLatency records backend provider latency in seconds.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vllmmcp_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	// ProviderTokensTotal counts tokens processed by direction (input/output).
	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vllmmcp_provider_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "model", "direction"},
	)

	// HTTPRequestsTotal counts HTTP requests by method and status class.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vllmmcp_http_requests_total",
			Help: "HTTP requests",
		},
		[]string{"method", "status"},
	)

	// HTTPRequestDuration records HTTP request duration in seconds by method.
	// MCP calls carry LLM round trips, so the LLM buckets apply here too.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vllmmcp_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method"},
	)

	// HTTPRequestsInFlight tracks HTTP requests currently being served.
	// SSE sessions hold their connection for their whole lifetime, so this
	// also bounds-checks the connection cap.
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vllmmcp_http_requests_in_flight",
			Help: "In-flight HTTP requests",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ToolInvocationsTotal,
		ToolDuration,
		ProviderRequestsTotal,
		ProviderLatency,
		ProviderTokensTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestsInFlight,
	)
}
