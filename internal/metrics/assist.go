package metrics

import "github.com/prometheus/client_golang/prometheus"

// Generation and assist Prometheus metrics.
var (
	GenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcer",
			Name:      "generations_total",
			Help:      "Total number of boolean generations",
		},
		[]string{"source", "platform", "status"},
	)

	AssistRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcer",
			Name:      "assist_requests_total",
			Help:      "Total number of assist provider requests",
		},
		[]string{"provider", "model", "status"},
	)

	AssistRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sourcer",
			Name:      "assist_request_duration_seconds",
			Help:      "Assist provider request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"provider", "model"},
	)

	AssistTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcer",
			Name:      "assist_tokens_total",
			Help:      "Total assist tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	AssistErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcer",
			Name:      "assist_errors_total",
			Help:      "Total assist errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	AssistParseFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sourcer",
			Name:      "assist_parse_fallback_total",
			Help:      "Assist answers that were not JSON and fell back to plain text",
		},
	)
)

var assistMetricsRegistered bool

// RegisterAssistMetrics registers generation and assist metrics. Must be called once from main.
func RegisterAssistMetrics() {
	if assistMetricsRegistered {
		return
	}
	prometheus.MustRegister(GenerationsTotal)
	prometheus.MustRegister(AssistRequestsTotal)
	prometheus.MustRegister(AssistRequestDuration)
	prometheus.MustRegister(AssistTokensTotal)
	prometheus.MustRegister(AssistErrorsTotal)
	prometheus.MustRegister(AssistParseFallbackTotal)
	assistMetricsRegistered = true
}
