// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation outcome labels.
const (
	OutcomePersonalized = "personalized"
	OutcomeColdStart    = "cold_start"
	OutcomeFallback     = "fallback"
)

var (
	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menurec_recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"}, // personalized, cold_start, fallback
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menurec_recommendation_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"outcome"},
	)

	RecommendationItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "menurec_recommendation_items",
			Help:    "Number of items returned per recommendation",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50},
		},
	)

	ScoringErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menurec_scoring_errors_total",
			Help: "Total number of candidates whose scoring failed",
		},
		[]string{"strategy"},
	)

	// Filter Metrics
	CandidatesFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menurec_candidates_filtered_total",
			Help: "Total number of candidates removed by each filter stage",
		},
		[]string{"stage"},
	)

	FilterStagePanics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menurec_filter_stage_panics_total",
			Help: "Total number of recovered panics in filter predicates",
		},
		[]string{"stage"},
	)

	// Feedback Metrics
	FeedbackEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menurec_feedback_events_total",
			Help: "Total number of feedback events processed",
		},
		[]string{"strategy"},
	)

	OrdersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "menurec_orders_total",
			Help: "Total number of order events recorded",
		},
	)

	// Trending Metrics
	TrendingTrackedItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "menurec_trending_tracked_items",
			Help: "Current number of items tracked by the trending aggregator",
		},
	)

	TrendingRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "menurec_trending_refresh_duration_seconds",
			Help:    "Duration of full trending score refreshes",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Profile Metrics
	ProfilesTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "menurec_profiles_tracked",
			Help: "Current number of user profiles in the store",
		},
	)

	// ML Bridge Metrics
	BridgeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menurec_bridge_requests_total",
			Help: "Total number of ML bridge requests by command and result",
		},
		[]string{"command", "result"}, // result: success, error, fallback, rate_limited, cached
	)

	BridgeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menurec_bridge_duration_seconds",
			Help:    "Duration of ML bridge round trips",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menurec_events_published_total",
			Help: "Total number of events published to the bus",
		},
		[]string{"topic"},
	)

	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menurec_events_processed_total",
			Help: "Total number of events consumed from the bus by result",
		},
		[]string{"topic", "result"}, // result: success, error
	)

	// Snapshot Metrics
	SnapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menurec_snapshots_total",
			Help: "Total number of state snapshots by result",
		},
		[]string{"result"},
	)

	SnapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "menurec_snapshot_duration_seconds",
			Help:    "Duration of state snapshots",
			Buckets: prometheus.DefBuckets,
		},
	)

	// HTTP Metrics (serve command)
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menurec_http_requests_total",
			Help: "Total number of HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menurec_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "menurec_http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)
)

// RecordAPIRequest records a completed HTTP request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordRecommendation records a completed recommendation request.
func RecordRecommendation(outcome string, items int, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	RecommendationItems.Observe(float64(items))
}

// RecordScoringError records a candidate that could not be scored.
func RecordScoringError(strategy string) {
	ScoringErrors.WithLabelValues(strategy).Inc()
}

// RecordFilterStage records how many candidates a stage removed.
func RecordFilterStage(stage string, removed int) {
	if removed <= 0 {
		return
	}
	CandidatesFiltered.WithLabelValues(stage).Add(float64(removed))
}

// RecordFilterPanic records a recovered panic in a filter predicate.
func RecordFilterPanic(stage string) {
	FilterStagePanics.WithLabelValues(stage).Inc()
}

// RecordFeedback records a processed feedback event.
func RecordFeedback(strategy string) {
	FeedbackEventsTotal.WithLabelValues(strategy).Inc()
}

// RecordOrder records an order event.
func RecordOrder() {
	OrdersTotal.Inc()
}

// SetTrendingTrackedItems sets the number of tracked trending items.
func SetTrendingTrackedItems(n int) {
	TrendingTrackedItems.Set(float64(n))
}

// RecordTrendingRefresh records the duration of a full trending refresh.
func RecordTrendingRefresh(duration time.Duration) {
	TrendingRefreshDuration.Observe(duration.Seconds())
}

// SetProfilesTracked sets the number of profiles in the store.
func SetProfilesTracked(n int) {
	ProfilesTracked.Set(float64(n))
}

// RecordBridgeRequest records an ML bridge request outcome.
func RecordBridgeRequest(command, result string, duration time.Duration) {
	BridgeRequests.WithLabelValues(command, result).Inc()
	if duration > 0 {
		BridgeDuration.WithLabelValues(command).Observe(duration.Seconds())
	}
}

// RecordEventPublished records an event published to topic.
func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordEventProcessed records an event consumed from topic.
func RecordEventProcessed(topic string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	EventsProcessed.WithLabelValues(topic, result).Inc()
}

// RecordSnapshot records a state snapshot.
func RecordSnapshot(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	SnapshotsTotal.WithLabelValues(result).Inc()
	SnapshotDuration.Observe(duration.Seconds())
}
