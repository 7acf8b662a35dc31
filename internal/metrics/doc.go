// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

/*
Package metrics provides Prometheus metrics collection for observability.

The package instruments the recommendation engine with counters and
histograms covering:

  - End-to-end recommendation request latency and throughput
  - Per-flow latency, option counts, and absorbed failures
  - External scoring collaborator call outcomes
  - Booking-history snapshot store activity

# Available Metrics

Request metrics:
  - recommendation_requests_total: Total recommendation requests (counter)
  - recommendation_request_duration_seconds: End-to-end latency (histogram)
    Buckets: .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5

Flow metrics:
  - recommendation_flow_duration_seconds: Per-flow latency (histogram)
    Labels: flow (mostPopular, tip, direct, match)
  - recommendation_flow_options: Options produced per flow run (histogram)
    Labels: flow
  - recommendation_flow_failures_total: Flow runs absorbed as process
    failures (counter)
    Labels: flow

Collaborator metrics:
  - recommendation_collaborator_calls_total: Scoring collaborator calls
    (counter)
    Labels: outcome (ok, error)

History store metrics:
  - history_store_operations_total: Snapshot store operations (counter)
    Labels: operation (save, load), result (ok, miss, error)

# Usage

	start := time.Now()
	resp, err := eng.Recommend(ctx, req)
	metrics.ObserveRequest(time.Since(start))

Expose the metrics with the standard promhttp handler:

	http.Handle("/metrics", promhttp.Handler())

# Thread Safety

All recording functions are safe for concurrent use; the Prometheus
client library handles synchronization internally.

# Cardinality

Label values are drawn from small fixed sets (four flow names, two
collaborator outcomes, two store operations), so series counts stay
bounded regardless of traffic.
*/
package metrics
