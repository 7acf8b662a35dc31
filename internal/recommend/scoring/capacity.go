// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

// Package scoring converts allocation results, price, feature overlap,
// and historical popularity into normalized per-candidate scores.
package scoring

import (
	"math"

	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend/allocation"
)

// Scorer computes candidate scores from a fixed configuration.
// It is stateless and safe for concurrent use.
type Scorer struct {
	cfg recommend.ScoringConfig
}

// NewScorer creates a scorer for the given configuration.
func NewScorer(cfg recommend.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// CapacityScore rates how well the product's capacity serves the
// occupancy, in [0, 1]. Products without pet capacity while pets are
// requested are hard-filtered to a near-zero score; failed allocations
// against products that do carry pet capacity score marginally higher.
func (s *Scorer) CapacityScore(occ recommend.Occupancy, p recommend.Product, a allocation.Allocation) float64 {
	if occ.Pets > 0 && allocation.PetCapacity(p) == 0 {
		return s.cfg.PetZeroCapacityScore
	}
	if !a.Satisfied {
		return s.cfg.PetUnsatisfiedScore
	}

	score := s.cfg.FitWeight*fitScore(occ, p.DefaultCapacity) +
		s.cfg.UseExtraWeight*useExtraScore(occ, a) +
		s.cfg.ExcessWeight*excessScore(p, a) +
		s.cfg.BedroomWeight*bedroomScore(occ, p.Bedrooms)

	return clamp01(score)
}

// fitScore rates how many guests the default capacity alone can host,
// independent of the allocator's extra-capacity outcome.
func fitScore(occ recommend.Occupancy, def recommend.Capacity) float64 {
	g := occ.Guests()
	if g == 0 {
		return 1.0
	}

	hostable := min(occ.Adults, def.Adults) + min(occ.Children, def.Children)
	hostable = min(hostable, def.Max)

	return float64(hostable) / float64(g)
}

// useExtraScore penalizes guests placed in extra capacity.
func useExtraScore(occ recommend.Occupancy, a allocation.Allocation) float64 {
	total := occ.Total()
	if total == 0 {
		return 1.0
	}
	return 1.0 - float64(a.Extra.Total())/float64(total)
}

// excessScore penalizes unused capacity, weighing unused default
// capacity twice as heavily as unused extra capacity.
func excessScore(p recommend.Product, a allocation.Allocation) float64 {
	denom := 2*p.DefaultCapacity.Max + p.ExtraCapacity.Max
	if denom == 0 {
		return 1.0
	}

	unusedDefault := min(a.ExcessDefault.Total(), p.DefaultCapacity.Max)
	unusedExtra := min(a.ExcessExtra.Total(), p.ExtraCapacity.Max)
	penalty := float64(2*unusedDefault+unusedExtra) / float64(denom)

	return clamp01(1.0 - penalty)
}

// bedroomScore compares the bedroom count against the ideal count for
// the party: max(ceil(adults/2), ceil((adults+children)/2)).
func bedroomScore(occ recommend.Occupancy, bedrooms int) float64 {
	g := occ.Guests()
	if g == 0 || bedrooms <= 0 {
		// Unknown bedroom data is treated as a mild mismatch.
		return 0.8
	}

	ideal := max(ceilDiv(occ.Adults, 2), ceilDiv(g, 2))

	switch {
	case bedrooms == ideal:
		return 1.0
	case bedrooms == ideal-1:
		return 0.9
	case bedrooms == ideal+1:
		return 0.7
	case bedrooms > ideal+1:
		// Tiered penalty keyed on how well the party still fills the unit.
		utilization := float64(g) / float64(bedrooms)
		switch {
		case utilization >= 1.0:
			return 0.5
		case utilization >= 0.7:
			return 0.3
		default:
			return 0.1
		}
	default:
		return 0.5
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func clamp01(v float64) float64 {
	return math.Min(1.0, math.Max(0.0, v))
}
