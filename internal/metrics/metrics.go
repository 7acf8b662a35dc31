// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the recommendation engine:
// - End-to-end recommendation latency and throughput
// - Per-flow latency, option counts, and failures
// - Scoring collaborator availability
// - Booking-history snapshot store activity

var (
	// Recommendation Request Metrics
	RequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_request_duration_seconds",
			Help:    "End-to-end duration of recommendation requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	RequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
	)

	// Flow Metrics
	FlowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_flow_duration_seconds",
			Help:    "Duration of individual recommendation flows in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"flow"}, // "mostPopular", "tip", "direct", "match"
	)

	FlowOptions = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_flow_options",
			Help:    "Number of options produced per flow run",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		},
		[]string{"flow"},
	)

	FlowFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_flow_failures_total",
			Help: "Total number of flow runs absorbed as process failures",
		},
		[]string{"flow"},
	)

	// Scoring Collaborator Metrics
	CollaboratorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_collaborator_calls_total",
			Help: "Total number of external scoring collaborator calls",
		},
		[]string{"outcome"}, // "ok", "error"
	)

	// History Store Metrics
	HistoryStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_store_operations_total",
			Help: "Total number of booking-history snapshot store operations",
		},
		[]string{"operation", "result"}, // operation: "save", "load". result: "ok", "miss", "error"
	)
)

// ObserveRequest records one completed recommendation request.
func ObserveRequest(duration time.Duration) {
	RequestsTotal.Inc()
	RequestDuration.Observe(duration.Seconds())
}

// ObserveFlow records one flow run with its option count.
func ObserveFlow(flow string, options int, duration time.Duration) {
	FlowDuration.WithLabelValues(flow).Observe(duration.Seconds())
	FlowOptions.WithLabelValues(flow).Observe(float64(options))
}

// RecordFlowFailure records a flow run absorbed as a process failure.
func RecordFlowFailure(flow string) {
	FlowFailures.WithLabelValues(flow).Inc()
}

// RecordCollaborator records the outcome of a collaborator call.
func RecordCollaborator(outcome string) {
	CollaboratorCalls.WithLabelValues(outcome).Inc()
}

// RecordHistoryStore records a snapshot store operation.
func RecordHistoryStore(operation, result string) {
	HistoryStoreOperations.WithLabelValues(operation, result).Inc()
}
