// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package scoring

import (
	"testing"

	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
)

func intPtr(v int) *int { return &v }

func TestFeatureOverlap_PriorityWeights(t *testing.T) {
	s := testScorer()

	requested := []recommend.Feature{
		{Code: "ST-LOFT", Priority: intPtr(0)},  // weight 4
		{Code: "SAUNA", Priority: intPtr(0)},    // weight 3
		{Code: "BALCONY", Priority: intPtr(1)},  // weight 2
		{Code: "MINIBAR", Priority: intPtr(2)},  // weight 1
		{Code: "SEAVIEW"},                       // weight 1, no priority
	}
	// Total weight 11.

	tests := []struct {
		name     string
		features []string
		want     float64
	}{
		{"space type only", []string{"ST-LOFT"}, 4.0 / 11.0},
		{"plain priority zero", []string{"SAUNA"}, 3.0 / 11.0},
		{"priority one", []string{"BALCONY"}, 2.0 / 11.0},
		{"low priority", []string{"MINIBAR"}, 1.0 / 11.0},
		{"no priority", []string{"SEAVIEW"}, 1.0 / 11.0},
		{"everything", []string{"ST-LOFT", "SAUNA", "BALCONY", "MINIBAR", "SEAVIEW"}, 1.0},
		{"nothing", nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := recommend.Product{Features: tt.features}
			got := s.featureOverlap(p, requested)
			if !almostEqual(got, tt.want) {
				t.Errorf("featureOverlap = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMatchingScore_CapacityFloorVeto(t *testing.T) {
	s := testScorer()
	p := recommend.Product{Features: []string{"SAUNA"}}
	requested := []recommend.Feature{{Code: "SAUNA", Priority: intPtr(0)}}

	_, matched := s.MatchingScore(p, requested, MatchInputs{CapacityScore: 0.14})
	if matched {
		t.Error("capacity score below floor must veto the match")
	}

	_, matched = s.MatchingScore(p, requested, MatchInputs{CapacityScore: 0.15})
	if !matched {
		t.Error("capacity score at floor with overlap must match")
	}
}

func TestMatchingScore_ScaledByCapacity(t *testing.T) {
	s := testScorer()
	p := recommend.Product{Features: []string{"SAUNA"}}
	requested := []recommend.Feature{{Code: "SAUNA"}}

	full, _ := s.MatchingScore(p, requested, MatchInputs{CapacityScore: 1.0})
	half, _ := s.MatchingScore(p, requested, MatchInputs{CapacityScore: 0.5})

	if !almostEqual(half*2, full) {
		t.Errorf("matching score must scale linearly with capacity: full=%f half=%f", full, half)
	}
}

func TestMatchingScore_AIBlendWeight(t *testing.T) {
	// The blend weight is explicit configuration: w=1 keeps the in-house
	// core, w=0 hands the core entirely to the collaborator. Neither
	// extreme is hardcoded.
	p := recommend.Product{Features: []string{"SAUNA"}}
	requested := []recommend.Feature{{Code: "SAUNA"}}
	in := MatchInputs{CapacityScore: 1.0, AIScore: 0.2, HasAIScore: true}

	cfg := recommend.DefaultConfig().Scoring
	cfg.MatchFeatureWeight = 1.0
	cfg.MatchPopularityWeight = 0.0

	cfg.AIBlendWeight = 1.0
	coreOnly, _ := NewScorer(cfg).MatchingScore(p, requested, in)
	if !almostEqual(coreOnly, 1.0) {
		t.Errorf("w=1 must ignore the AI score, got %f", coreOnly)
	}

	cfg.AIBlendWeight = 0.0
	aiOnly, _ := NewScorer(cfg).MatchingScore(p, requested, in)
	if !almostEqual(aiOnly, 0.2) {
		t.Errorf("w=0 must return the AI score, got %f", aiOnly)
	}

	cfg.AIBlendWeight = 0.5
	blended, _ := NewScorer(cfg).MatchingScore(p, requested, in)
	if !almostEqual(blended, 0.6) {
		t.Errorf("w=0.5 must average core and AI, got %f", blended)
	}
}

func TestMatchingScore_NoAIScoreLeavesCoreUntouched(t *testing.T) {
	cfg := recommend.DefaultConfig().Scoring
	cfg.MatchFeatureWeight = 1.0
	cfg.MatchPopularityWeight = 0.0
	cfg.AIBlendWeight = 0.0 // would zero the core if AI were present

	p := recommend.Product{Features: []string{"SAUNA"}}
	requested := []recommend.Feature{{Code: "SAUNA"}}

	score, _ := NewScorer(cfg).MatchingScore(p, requested, MatchInputs{CapacityScore: 1.0})
	if !almostEqual(score, 1.0) {
		t.Errorf("absent AI score must not trigger the blend, got %f", score)
	}
}
