// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.3, 0.5, 1, 3, 5},
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses",
		},
		[]string{"method", "route", "status_code"},
	)

	RecommendationCacheEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_cache_events_total",
			Help: "Recommendation cache hits, misses and evictions",
		},
		[]string{"event"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "recommendation_compute_duration_seconds",
			Help: "Time spent loading and scoring trips on a cache miss",
		},
	)

	TripsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_trips_scored_total",
			Help: "Number of trip candidates scored",
		},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_cache_invalidations_total",
			Help: "Invalidate-all calls by trigger",
		},
		[]string{"trigger"},
	)
)

// CacheObserver feeds cache events into RecommendationCacheEvents.
type CacheObserver struct{}

func (CacheObserver) Hit() {
	RecommendationCacheEvents.WithLabelValues("hit").Inc()
}

func (CacheObserver) Miss() {
	RecommendationCacheEvents.WithLabelValues("miss").Inc()
}

func (CacheObserver) Evicted(n int) {
	RecommendationCacheEvents.WithLabelValues("eviction").Add(float64(n))
}
