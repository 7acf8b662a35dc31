// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestObserveRequest tests request metric recording
func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal)

	ObserveRequest(25 * time.Millisecond)
	ObserveRequest(150 * time.Millisecond)

	after := testutil.ToFloat64(RequestsTotal)
	if got := after - before; got != 2 {
		t.Errorf("RequestsTotal delta = %v, want 2", got)
	}
}

// TestObserveFlow tests per-flow metric recording
func TestObserveFlow(t *testing.T) {
	tests := []struct {
		name    string
		flow    string
		options int
	}{
		{name: "most popular flow with options", flow: "mostPopular", options: 3},
		{name: "tip flow empty", flow: "tip", options: 0},
		{name: "direct flow", flow: "direct", options: 2},
		{name: "match flow", flow: "match", options: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Must not panic; histograms accept any non-negative observation.
			ObserveFlow(tt.flow, tt.options, 10*time.Millisecond)
		})
	}
}

// TestRecordFlowFailure tests failure counter recording
func TestRecordFlowFailure(t *testing.T) {
	before := testutil.ToFloat64(FlowFailures.WithLabelValues("direct"))

	RecordFlowFailure("direct")
	RecordFlowFailure("direct")

	after := testutil.ToFloat64(FlowFailures.WithLabelValues("direct"))
	if got := after - before; got != 2 {
		t.Errorf("FlowFailures delta = %v, want 2", got)
	}
}

// TestRecordCollaborator tests collaborator outcome recording
func TestRecordCollaborator(t *testing.T) {
	before := testutil.ToFloat64(CollaboratorCalls.WithLabelValues("error"))

	RecordCollaborator("error")

	after := testutil.ToFloat64(CollaboratorCalls.WithLabelValues("error"))
	if got := after - before; got != 1 {
		t.Errorf("CollaboratorCalls delta = %v, want 1", got)
	}
}

// TestRecordHistoryStore tests store operation recording
func TestRecordHistoryStore(t *testing.T) {
	before := testutil.ToFloat64(HistoryStoreOperations.WithLabelValues("load", "miss"))

	RecordHistoryStore("load", "miss")

	after := testutil.ToFloat64(HistoryStoreOperations.WithLabelValues("load", "miss"))
	if got := after - before; got != 1 {
		t.Errorf("HistoryStoreOperations delta = %v, want 1", got)
	}
}

// TestConcurrentRecording verifies recording is safe under concurrency
func TestConcurrentRecording(t *testing.T) {
	before := testutil.ToFloat64(FlowFailures.WithLabelValues("tip"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordFlowFailure("tip")
			ObserveFlow("tip", 1, time.Millisecond)
			ObserveRequest(time.Millisecond)
		}()
	}
	wg.Wait()

	after := testutil.ToFloat64(FlowFailures.WithLabelValues("tip"))
	if got := after - before; got != 50 {
		t.Errorf("FlowFailures delta = %v, want 50", got)
	}
}
