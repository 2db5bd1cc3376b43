// Package metrics provides Prometheus metrics for catalog-search.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog_search",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalog_search",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// EventsProcessedTotal counts stream events by type and outcome.
	EventsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog_search",
			Name:      "events_processed_total",
			Help:      "Total number of catalog events consumed",
		},
		[]string{"event_type", "status"},
	)

	// EngineUp tracks search engine reachability.
	EngineUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "catalog_search",
			Name:      "engine_up",
			Help:      "Search engine status (1 = reachable, 0 = unreachable)",
		},
	)
)

// RecordRequest records one HTTP request.
func RecordRequest(method, route, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration)
}

// RecordEvent records one consumed stream event.
func RecordEvent(eventType, status string) {
	EventsProcessedTotal.WithLabelValues(eventType, status).Inc()
}

// SetEngineUp records the result of an engine health check.
func SetEngineUp(up bool) {
	if up {
		EngineUp.Set(1)
		return
	}
	EngineUp.Set(0)
}
