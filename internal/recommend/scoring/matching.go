// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package scoring

import (
	"strings"

	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
)

// Overlap weights by requested-feature priority. Priority 0 space-type
// features dominate, plain priority 0 comes next, priority 1 after
// that, everything else counts once.
const (
	weightSpaceType = 4.0
	weightPriority0 = 3.0
	weightPriority1 = 2.0
	weightDefault   = 1.0
)

// MatchInputs carries the per-candidate signals for matching.
type MatchInputs struct {
	// CapacityScore is the candidate's capacity score.
	CapacityScore float64

	// ProductPopularity is the normalized product popularity.
	ProductPopularity float64

	// AIScore is the optional external-collaborator similarity score.
	AIScore float64

	// HasAIScore reports whether AIScore is present.
	HasAIScore bool
}

// MatchingScore combines priority-weighted feature overlap, product
// popularity, and the optional collaborator score, all scaled by the
// capacity score. Candidates whose capacity score sits below the
// configured floor are forcibly reported as not matched regardless of
// feature overlap.
func (s *Scorer) MatchingScore(p recommend.Product, requested []recommend.Feature, in MatchInputs) (float64, bool) {
	overlap := s.featureOverlap(p, requested)

	core := s.cfg.MatchFeatureWeight*overlap + s.cfg.MatchPopularityWeight*in.ProductPopularity
	if in.HasAIScore {
		core = s.cfg.AIBlendWeight*core + (1.0-s.cfg.AIBlendWeight)*in.AIScore
	}

	score := core * in.CapacityScore

	matched := overlap > 0 && in.CapacityScore >= s.cfg.MatchedCapacityFloor
	return score, matched
}

// featureOverlap returns the priority-weighted share of requested
// features the product carries, in [0, 1].
func (s *Scorer) featureOverlap(p recommend.Product, requested []recommend.Feature) float64 {
	if len(requested) == 0 {
		return 0
	}

	total := 0.0
	hit := 0.0
	for _, f := range requested {
		w := s.overlapWeight(f)
		total += w
		if p.HasFeature(f.Code) {
			hit += w
		}
	}

	if total == 0 {
		return 0
	}
	return hit / total
}

// overlapWeight maps a requested feature to its overlap weight.
func (s *Scorer) overlapWeight(f recommend.Feature) float64 {
	if f.Priority == nil {
		return weightDefault
	}
	switch *f.Priority {
	case 0:
		if strings.HasPrefix(f.Code, s.cfg.SpaceTypePrefix) {
			return weightSpaceType
		}
		return weightPriority0
	case 1:
		return weightPriority1
	default:
		return weightDefault
	}
}
