// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package metrics provides Prometheus collectors for the recommendation pipeline.

Collectors are registered with the default registry through promauto at
package init. Callers use the Record* helpers rather than touching the
collectors directly.

# Available Metrics

Recommendation Metrics:
  - menurec_recommendations_total: Requests by outcome (counter)
    Labels: outcome (personalized, cold_start, fallback)
  - menurec_recommendation_duration_seconds: Request latency (histogram)
    Labels: outcome
  - menurec_recommendation_items: Items returned per request (histogram)
  - menurec_scoring_errors_total: Candidates whose scoring failed (counter)
    Labels: strategy

Filter Metrics:
  - menurec_candidates_filtered_total: Candidates removed (counter)
    Labels: stage
  - menurec_filter_stage_panics_total: Recovered predicate panics (counter)
    Labels: stage

Feedback and Trending Metrics:
  - menurec_feedback_events_total: Feedback events (counter)
    Labels: strategy
  - menurec_orders_total: Order events (counter)
  - menurec_trending_tracked_items: Tracked items (gauge)
  - menurec_trending_refresh_duration_seconds: Full refresh time (histogram)
  - menurec_profiles_tracked: Profiles in the store (gauge)

ML Bridge Metrics:
  - menurec_bridge_requests_total: Requests (counter)
    Labels: command, result (success, error, fallback, rate_limited, cached)
  - menurec_bridge_duration_seconds: Round trip time (histogram)
    Labels: command

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests (counter)
    Labels: name, result
  - circuit_breaker_consecutive_failures: Consecutive failures (gauge)
  - circuit_breaker_state_transitions_total: Transitions (counter)
    Labels: name, from_state, to_state

Event Bus and Snapshot Metrics:
  - menurec_events_published_total: Published events (counter)
    Labels: topic
  - menurec_events_processed_total: Consumed events (counter)
    Labels: topic, result
  - menurec_snapshots_total: Snapshots (counter)
    Labels: result
  - menurec_snapshot_duration_seconds: Snapshot time (histogram)

# Usage

	start := time.Now()
	outcome := engine.Recommend(ctx, req)
	metrics.RecordRecommendation(metrics.OutcomePersonalized, outcome.Len(), time.Since(start))

# Exposure

`menurec serve --metrics-addr :9090` serves the default registry at /metrics
using promhttp.
*/
package metrics
