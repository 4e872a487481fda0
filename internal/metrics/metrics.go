// Package metrics defines the Prometheus collectors shared by the LLM client,
// the tool loop, the routing workflow and the HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	llmRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Chat completion calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)
	llmRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Chat completion latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	toolExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_executions_total",
			Help: "Tool dispatches by tool name and outcome",
		},
		[]string{"tool", "outcome"},
	)
	routingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routing_requests_total",
			Help: "Routing workflow runs by classified category",
		},
		[]string{"category"},
	)
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(llmRequestsTotal)
	prometheus.MustRegister(llmRequestDuration)
	prometheus.MustRegister(toolExecutionsTotal)
	prometheus.MustRegister(routingRequestsTotal)
	prometheus.MustRegister(httpRequestsTotal)
}

func RecordLLMRequest(provider, outcome string, durationSeconds float64) {
	llmRequestsTotal.WithLabelValues(provider, outcome).Inc()
	if outcome == "ok" {
		llmRequestDuration.WithLabelValues(provider).Observe(durationSeconds)
	}
}

func RecordToolExecution(tool, outcome string) {
	toolExecutionsTotal.WithLabelValues(tool, outcome).Inc()
}

func RecordRoutingRequest(category string) {
	routingRequestsTotal.WithLabelValues(category).Inc()
}

func RecordHTTPRequest(method, path, status string) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
}
