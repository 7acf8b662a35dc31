// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

// Package allocation computes the best split of a guest party between a
// product's default and extra capacity.
package allocation

import (
	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
)

// Allocation is the result of splitting one occupancy across one product.
type Allocation struct {
	// Default is the guest split placed in default capacity.
	Default recommend.Occupancy `json:"allocatedDefault"`

	// Extra is the guest split placed in extra capacity.
	Extra recommend.Occupancy `json:"allocatedExtra"`

	// ExcessDefault is the unused default capacity per guest type.
	ExcessDefault recommend.Occupancy `json:"excessDefault"`

	// ExcessExtra is the unused extra capacity per guest type.
	ExcessExtra recommend.Occupancy `json:"excessExtra"`

	// Satisfied is false when no valid split exists for a non-trivial
	// request; all allocated counts are then zero.
	Satisfied bool `json:"satisfied"`
}

// rank orders candidate splits. A split is preferred when it places more
// guests in default capacity, breaking ties by default adults, then
// default children, then default pets. First-found wins exact ties.
type rank struct {
	defaultTotal int
	adults       int
	children     int
	pets         int
}

// betterThan reports whether r strictly outranks o.
func (r rank) betterThan(o rank) bool {
	if r.defaultTotal != o.defaultTotal {
		return r.defaultTotal > o.defaultTotal
	}
	if r.adults != o.adults {
		return r.adults > o.adults
	}
	if r.children != o.children {
		return r.children > o.children
	}
	return r.pets > o.pets
}

// FlexibleExtra reports whether the product's extra capacity is flexible:
// all per-type extra caps are zero while the extra ceiling is positive.
// Flexible extra capacity is only bounded by its total.
func FlexibleExtra(p recommend.Product) bool {
	e := p.ExtraCapacity
	return e.Adults == 0 && e.Children == 0 && e.Pets == 0 && e.Max > 0
}

// PetCapacity returns the product's effective pet allowance.
func PetCapacity(p recommend.Product) int {
	if FlexibleExtra(p) {
		return p.DefaultCapacity.Pets + p.ExtraCapacity.Max
	}
	return p.DefaultCapacity.Pets + p.ExtraCapacity.Pets
}

// Allocate computes the best split of occ across p. The returned
// allocation places every requested guest when Satisfied is true.
func Allocate(occ recommend.Occupancy, p recommend.Product) Allocation {
	if occ.IsZero() {
		return Allocation{
			ExcessDefault: excess(p.DefaultCapacity, recommend.Occupancy{}),
			ExcessExtra:   excess(p.ExtraCapacity, recommend.Occupancy{}),
			Satisfied:     true,
		}
	}

	if occ.Guests() > p.TotalCapacity() || occ.Pets > PetCapacity(p) {
		return Allocation{}
	}

	flexible := FlexibleExtra(p)
	def := p.DefaultCapacity
	ext := p.ExtraCapacity

	var best recommend.Occupancy
	var bestRank rank
	found := false

	for da := 0; da <= min(occ.Adults, def.Adults); da++ {
		for dc := 0; dc <= min(occ.Children, def.Children); dc++ {
			if da+dc > def.Max {
				break
			}
			for dp := 0; dp <= min(occ.Pets, def.Pets); dp++ {
				la := occ.Adults - da
				lc := occ.Children - dc
				lp := occ.Pets - dp

				if !extraFits(la, lc, lp, ext, flexible) {
					continue
				}

				r := rank{defaultTotal: da + dc + dp, adults: da, children: dc, pets: dp}
				if !found || r.betterThan(bestRank) {
					best = recommend.Occupancy{Adults: da, Children: dc, Pets: dp}
					bestRank = r
					found = true
				}
			}
		}
	}

	if !found {
		return Allocation{}
	}

	extra := recommend.Occupancy{
		Adults:   occ.Adults - best.Adults,
		Children: occ.Children - best.Children,
		Pets:     occ.Pets - best.Pets,
	}

	return Allocation{
		Default:       best,
		Extra:         extra,
		ExcessDefault: excess(def, best),
		ExcessExtra:   excess(ext, extra),
		Satisfied:     true,
	}
}

// extraFits checks whether the leftover guests fit the extra capacity.
func extraFits(la, lc, lp int, ext recommend.Capacity, flexible bool) bool {
	total := la + lc + lp
	if flexible {
		return total <= ext.Max
	}
	return la <= ext.Adults && lc <= ext.Children && lp <= ext.Pets && total <= ext.Max
}

// excess returns capacity minus allocation, floored at zero per type.
// Negative values only arise from malformed caller capacities.
func excess(c recommend.Capacity, alloc recommend.Occupancy) recommend.Occupancy {
	return recommend.Occupancy{
		Adults:   max(0, c.Adults-alloc.Adults),
		Children: max(0, c.Children-alloc.Children),
		Pets:     max(0, c.Pets-alloc.Pets),
	}
}
