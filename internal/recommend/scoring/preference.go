// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package scoring

import (
	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
)

// eventBoost is the multiplier applied to a feature's popularity while
// an active event lists it.
const eventBoost = 1.5

// HistoryPopularity converts booking history into normalized per-product
// popularity in [0, 1]. Same-period bookings weigh double the all-time
// count; an externally supplied popularity signal scales the blend.
func HistoryPopularity(items []recommend.BookingHistoryItem) map[string]float64 {
	if len(items) == 0 {
		return nil
	}

	raw := make(map[string]float64, len(items))
	maxRaw := 0.0
	for _, item := range items {
		v := float64(2*item.SameBookingPeriod + item.TotalHistoryBookingTime)
		if item.ProductPopularity > 0 {
			v *= 1.0 + item.ProductPopularity
		}
		raw[item.ProductCode] += v
		if raw[item.ProductCode] > maxRaw {
			maxRaw = raw[item.ProductCode]
		}
	}

	if maxRaw == 0 {
		return raw
	}
	for code := range raw {
		raw[code] /= maxRaw
	}
	return raw
}

// FeaturePopularity builds a normalized per-feature popularity map from
// the feature catalog, inflating features listed by active events.
func FeaturePopularity(features []recommend.Feature, events []recommend.Event) map[string]float64 {
	if len(features) == 0 {
		return nil
	}

	boosted := make(map[string]struct{})
	for _, ev := range events {
		for _, code := range ev.Features {
			boosted[code] = struct{}{}
		}
	}

	pop := make(map[string]float64, len(features))
	maxPop := 0.0
	for _, f := range features {
		v := f.Popularity
		if _, ok := boosted[f.Code]; ok {
			v *= eventBoost
		}
		pop[f.Code] = v
		if v > maxPop {
			maxPop = v
		}
	}

	if maxPop == 0 {
		return pop
	}
	for code := range pop {
		pop[code] /= maxPop
	}
	return pop
}

// ProductFeaturePopularity rates a product by the mean popularity of its
// features, using the event-inflated feature popularity map.
func ProductFeaturePopularity(p recommend.Product, featurePop map[string]float64) float64 {
	if len(p.Features) == 0 || len(featurePop) == 0 {
		return 0
	}

	sum := 0.0
	for _, code := range p.Features {
		sum += featurePop[code]
	}
	return sum / float64(len(p.Features))
}

// PreferenceInputs carries the raw signals for one candidate.
type PreferenceInputs struct {
	// HistoryPopularity is the normalized booking-history popularity.
	HistoryPopularity float64

	// FeaturePopularity is the product's feature-match popularity.
	FeaturePopularity float64

	// Price is the candidate's base price.
	Price float64

	// FloorPrice is the lowest price in the candidate pool.
	FloorPrice float64
}

// PreferenceScore blends popularity, feature, and price-proximity
// signals using caller-supplied per-flow weights, then buffs mid-price
// candidates sitting just above the floor price.
func (s *Scorer) PreferenceScore(in PreferenceInputs, w recommend.PreferenceWeights) float64 {
	ratio := priceRatio(in.Price, in.FloorPrice)

	priceScore := 0.0
	if ratio >= s.cfg.PriceBandLow && ratio <= s.cfg.PriceBandHigh {
		priceScore = 1.0 - (ratio-s.cfg.PriceBandLow)/(s.cfg.PriceBandHigh-s.cfg.PriceBandLow)
	}

	score := w.History*in.HistoryPopularity +
		w.Feature*in.FeaturePopularity +
		w.Price*priceScore

	if ratio >= s.cfg.PriceBandLow && ratio <= s.cfg.PriceBuffHigh {
		score *= 1.0 + ratio
	}

	return score
}

// PriceProximity rates how close the price sits to the pool floor, for
// flows without a full preference blend. 1.0 at the floor, linear decay
// to zero at twice the floor.
func PriceProximity(price, floor float64) float64 {
	ratio := priceRatio(price, floor)
	return clamp01(1.0 - ratio)
}

func priceRatio(price, floor float64) float64 {
	if floor <= 0 {
		return 0
	}
	return (price - floor) / floor
}
