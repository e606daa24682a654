package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation, capacity limits.
	HTTPRequestsInFlight prometheus.Gauge

	// IPMA open-data call rate per endpoint. Watch for: error vs success ratio.
	IPMACallsTotal *prometheus.CounterVec

	// IPMA open-data latency per endpoint. Watch for: p95 > 2s (upstream degradation).
	IPMADuration *prometheus.HistogramVec

	// Narrative backend call rate. A local model can be slow; watch error ratio separately.
	NarrativeCallsTotal *prometheus.CounterVec

	// Narrative backend latency. Generation dominates total chat latency.
	NarrativeDuration prometheus.Histogram

	// Chat messages by resolved branch (empty, all_locations, unresolved, not_found, single).
	ChatMessagesTotal *prometheus.CounterVec

	// Location lookups by outcome (exact, fuzzy, none). Watch for: rising "none" = users
	// asking about places the directory does not cover.
	LocationLookupsTotal *prometheus.CounterVec
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	IPMACallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ipmaApiCallsTotal",
			Help: "Total number of IPMA open-data API calls",
		},
		[]string{"endpoint", "status"},
	)
	IPMADuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ipmaApiDurationSeconds",
			Help:    "IPMA open-data API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)
	NarrativeCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narrativeCallsTotal",
			Help: "Total number of narrative backend calls",
		},
		[]string{"status"},
	)
	NarrativeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "narrativeDurationSeconds",
			Help:    "Narrative backend latency in seconds (per request)",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
	ChatMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatMessagesTotal",
			Help: "Chat messages handled, by resolved intent branch",
		},
		[]string{"branch"},
	)
	LocationLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locationLookupsTotal",
			Help: "Location directory lookups by outcome (exact, fuzzy, none)",
		},
		[]string{"outcome"},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		IPMACallsTotal, IPMADuration,
		NarrativeCallsTotal, NarrativeDuration,
		ChatMessagesTotal, LocationLookupsTotal,
	)
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
