// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package scoring

import (
	"math"
	"testing"

	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestHistoryPopularity(t *testing.T) {
	items := []recommend.BookingHistoryItem{
		{ProductCode: "A", SameBookingPeriod: 10, TotalHistoryBookingTime: 20},
		{ProductCode: "B", SameBookingPeriod: 5, TotalHistoryBookingTime: 10},
		{ProductCode: "C"},
	}

	pop := HistoryPopularity(items)

	if !almostEqual(pop["A"], 1.0) {
		t.Errorf("pop[A] = %f, want 1.0", pop["A"])
	}
	if !almostEqual(pop["B"], 0.5) {
		t.Errorf("pop[B] = %f, want 0.5", pop["B"])
	}
	if pop["C"] != 0 {
		t.Errorf("pop[C] = %f, want 0", pop["C"])
	}
	if HistoryPopularity(nil) != nil {
		t.Error("empty history must yield nil map")
	}
}

func TestFeaturePopularity_EventInflation(t *testing.T) {
	features := []recommend.Feature{
		{Code: "SAUNA", Popularity: 1.0},
		{Code: "BALCONY", Popularity: 1.0},
	}
	events := []recommend.Event{{Features: []string{"BALCONY"}}}

	pop := FeaturePopularity(features, events)

	if pop["BALCONY"] <= pop["SAUNA"] {
		t.Errorf("event-inflated feature must outrank plain: balcony=%f sauna=%f",
			pop["BALCONY"], pop["SAUNA"])
	}
	if !almostEqual(pop["BALCONY"], 1.0) {
		t.Errorf("max-normalized popularity must be 1.0, got %f", pop["BALCONY"])
	}
}

func TestPreferenceScore_PriceBand(t *testing.T) {
	s := testScorer()
	w := recommend.PreferenceWeights{Price: 1.0}

	tests := []struct {
		name  string
		price float64
		want  float64
	}{
		// Floor 100. Only the 10%-50% band contributes; the 10%-30% band
		// additionally multiplies by (1+ratio).
		{"at floor contributes nothing", 100, 0},
		{"below band", 105, 0},
		{"band start buffed", 110, 1.0 * 1.1},
		{"mid band buffed", 120, 0.75 * 1.2},
		{"past buff band", 140, 0.25},
		{"band end", 150, 0},
		{"above band", 200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.PreferenceScore(PreferenceInputs{Price: tt.price, FloorPrice: 100}, w)
			if !almostEqual(got, tt.want) {
				t.Errorf("PreferenceScore(price=%f) = %f, want %f", tt.price, got, tt.want)
			}
		})
	}
}

func TestPreferenceScore_WeightsAreCallerSupplied(t *testing.T) {
	s := testScorer()
	in := PreferenceInputs{HistoryPopularity: 1.0, FeaturePopularity: 0.5, Price: 100, FloorPrice: 100}

	historyOnly := s.PreferenceScore(in, recommend.PreferenceWeights{History: 1.0})
	featureOnly := s.PreferenceScore(in, recommend.PreferenceWeights{Feature: 1.0})

	if !almostEqual(historyOnly, 1.0) {
		t.Errorf("history-only score = %f, want 1.0", historyOnly)
	}
	if !almostEqual(featureOnly, 0.5) {
		t.Errorf("feature-only score = %f, want 0.5", featureOnly)
	}
}

func TestProductFeaturePopularity(t *testing.T) {
	p := recommend.Product{Features: []string{"A", "B"}}
	pop := map[string]float64{"A": 1.0, "B": 0.5}

	got := ProductFeaturePopularity(p, pop)
	if !almostEqual(got, 0.75) {
		t.Errorf("ProductFeaturePopularity = %f, want 0.75", got)
	}

	if ProductFeaturePopularity(recommend.Product{}, pop) != 0 {
		t.Error("featureless product must score 0")
	}
}

func TestPriceProximity(t *testing.T) {
	if got := PriceProximity(100, 100); !almostEqual(got, 1.0) {
		t.Errorf("floor price proximity = %f, want 1.0", got)
	}
	if got := PriceProximity(150, 100); !almostEqual(got, 0.5) {
		t.Errorf("150 vs floor 100 = %f, want 0.5", got)
	}
	if got := PriceProximity(300, 100); got != 0 {
		t.Errorf("far price proximity = %f, want 0", got)
	}
}
