// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

// Package diversify selects a price-spread subset of scored combinations
// instead of always returning the single best. Combinations are bucketed
// into price clusters and represented by their cluster medians so the
// returned options span the price spectrum.
package diversify

import (
	"math"
	"sort"

	"github.com/javinobile/Gauvendi-sub009/internal/recommend/optimizer"
)

// Preset names a sort criterion stack for ordering combinations.
type Preset string

const (
	// PresetPopular orders by restricted flag, then score descending,
	// then base price ascending.
	PresetPopular Preset = "popular"

	// PresetPrice orders by base price ascending, then score descending.
	PresetPrice Preset = "price"
)

const priceEpsilon = 1e-9

// Select picks up to k price-diverse combinations. Combinations whose
// base price is in the exclusion set are set aside and used only as
// filler when slots remain. Non-restricted combinations are preferred;
// restricted ones fill the remainder via price-cluster medians.
func Select(combos []optimizer.Combination, k int, excludePrices []float64, preset Preset) []optimizer.Combination {
	if len(combos) == 0 || k <= 0 {
		return nil
	}

	var open, restricted, setAside []optimizer.Combination
	for _, c := range combos {
		switch {
		case priceExcluded(c.BasePrice, excludePrices):
			setAside = append(setAside, c)
		case c.Restricted:
			restricted = append(restricted, c)
		default:
			open = append(open, c)
		}
	}

	var out []optimizer.Combination
	if k <= len(open) {
		out = medianSpread(open, k, preset)
	} else {
		out = append(out, open...)
		sortByPreset(out, preset)

		if rem := k - len(out); rem > 0 && len(restricted) > 0 {
			out = append(out, pickRestricted(restricted, rem, preset)...)
		}
	}

	if rem := k - len(out); rem > 0 && len(setAside) > 0 {
		sortByPreset(setAside, preset)
		if rem > len(setAside) {
			rem = len(setAside)
		}
		out = append(out, setAside[:rem]...)
	}

	return out
}

// pickRestricted selects remainder combinations from the restricted
// pool: the single best when one slot remains, cluster medians when more.
func pickRestricted(restricted []optimizer.Combination, rem int, preset Preset) []optimizer.Combination {
	if rem == 1 {
		best := restricted[0]
		for _, c := range restricted[1:] {
			if c.TotalScore > best.TotalScore {
				best = c
			}
		}
		return []optimizer.Combination{best}
	}
	return medianSpread(restricted, rem, preset)
}

// medianSpread picks up to k price-cluster median representatives,
// ordered by cluster price ascending. Duplicate prices can collapse
// clusters below k, so any shortfall is backfilled from the unchosen
// combinations in preset order.
func medianSpread(combos []optimizer.Combination, k int, preset Preset) []optimizer.Combination {
	prices := make([]float64, len(combos))
	for i, c := range combos {
		prices[i] = c.BasePrice
	}

	clusters := clusterPrices(prices, k)
	chosen := make(map[int]struct{}, len(clusters))
	out := make([]optimizer.Combination, 0, k)
	for _, cl := range clusters {
		idx := cl.median()
		chosen[idx] = struct{}{}
		out = append(out, combos[idx])
	}

	if len(out) < k && len(combos) > len(out) {
		rest := make([]optimizer.Combination, 0, len(combos)-len(out))
		for i, c := range combos {
			if _, ok := chosen[i]; !ok {
				rest = append(rest, c)
			}
		}
		sortByPreset(rest, preset)
		if need := k - len(out); need < len(rest) {
			rest = rest[:need]
		}
		out = append(out, rest...)
	}
	return out
}

// sortByPreset orders combinations in place per the named preset.
func sortByPreset(combos []optimizer.Combination, preset Preset) {
	switch preset {
	case PresetPrice:
		sort.SliceStable(combos, func(i, j int) bool {
			if combos[i].BasePrice != combos[j].BasePrice {
				return combos[i].BasePrice < combos[j].BasePrice
			}
			return combos[i].TotalScore > combos[j].TotalScore
		})
	default: // PresetPopular
		sort.SliceStable(combos, func(i, j int) bool {
			if combos[i].Restricted != combos[j].Restricted {
				return !combos[i].Restricted
			}
			if combos[i].TotalScore != combos[j].TotalScore {
				return combos[i].TotalScore > combos[j].TotalScore
			}
			return combos[i].BasePrice < combos[j].BasePrice
		})
	}
}

func priceExcluded(price float64, excluded []float64) bool {
	for _, p := range excluded {
		if math.Abs(price-p) < priceEpsilon {
			return true
		}
	}
	return false
}
