// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

// Package optimizer searches the combinatorial space of one-product-per-
// slot assignments for the top-K highest-scoring combinations under
// availability, exclusion, and rate-plan constraints.
package optimizer

import (
	"math"
	"sort"
	"strings"
)

// DefaultTopK is the result buffer size when Options.TopK is zero.
const DefaultTopK = 100

// Candidate is one scored product offered for a slot.
type Candidate struct {
	// Code identifies the product.
	Code string

	// Score is the candidate's score for this slot. Fixed at scoring
	// time and never re-derived here.
	Score float64

	// Price is the product's base price.
	Price float64

	// RatePlan is the rate plan code, empty when undefined.
	RatePlan string

	// Restricted flags inventory-sensitive products.
	Restricted bool

	// Available is the product's availableToSell count.
	Available int
}

// Combination is an ordered product assignment, one code per slot.
type Combination struct {
	// Codes lists the chosen product codes in slot order.
	Codes []string

	// TotalScore is the summed slot scores.
	TotalScore float64

	// BasePrice is the summed base prices.
	BasePrice float64

	// Restricted is true when any constituent product is restricted.
	Restricted bool

	// Matched is true when every constituent code is in the supplied
	// matched-code set.
	Matched bool
}

// Options carries the global search constraints.
type Options struct {
	// TopK bounds the result buffer. Defaults to DefaultTopK.
	TopK int

	// ExcludeCombinations lists code multisets that must be rejected.
	ExcludeCombinations [][]string

	// ExcludeBasePrices lists total base prices that must be rejected
	// for complete assignments.
	ExcludeBasePrices []float64

	// MatchedCodes, when non-nil, tags combinations whose codes are all
	// members as matched.
	MatchedCodes map[string]struct{}
}

const priceEpsilon = 1e-9

// Search runs a depth-first branch-and-bound over the slots in order and
// returns the deduplicated top-K combinations sorted by score
// descending. Returns nil when any slot has no sellable candidate or
// every assignment is excluded.
func Search(slots [][]Candidate, opts Options) []Combination {
	if len(slots) == 0 {
		return nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	// Candidates without availability are never selected.
	sellable := make([][]Candidate, len(slots))
	for i, s := range slots {
		for _, c := range s {
			if c.Available >= 1 {
				sellable[i] = append(sellable[i], c)
			}
		}
		if len(sellable[i]) == 0 {
			return nil
		}
	}

	excluded := make(map[string]struct{}, len(opts.ExcludeCombinations))
	for _, codes := range opts.ExcludeCombinations {
		excluded[multisetKey(codes)] = struct{}{}
	}

	st := &search{
		slots:    sellable,
		opts:     opts,
		topK:     topK,
		excluded: excluded,
		used:     make(map[string]struct{}, len(slots)),
		picks:    make([]Candidate, 0, len(slots)),
		seen:     make(map[string]struct{}),
	}
	st.descend(0, 0)

	if len(st.results) == 0 {
		return nil
	}
	sort.SliceStable(st.results, func(i, j int) bool {
		return st.results[i].TotalScore > st.results[j].TotalScore
	})
	return st.results
}

// search holds the mutable branch-and-bound state.
type search struct {
	slots    [][]Candidate
	opts     Options
	topK     int
	excluded map[string]struct{}

	used    map[string]struct{}
	picks   []Candidate
	seen    map[string]struct{}
	results []Combination
}

// descend explores assignments for slot and deeper.
func (s *search) descend(slot int, acc float64) {
	if slot == len(s.slots) {
		s.complete(acc)
		return
	}

	// Prune when even the optimistic remainder cannot beat the worst
	// kept result. The per-slot maxima are cheap and recomputed per
	// node rather than cached across siblings.
	if len(s.results) >= s.topK && acc+s.bound(slot) <= s.worst() {
		return
	}

	for _, c := range s.slots[slot] {
		if _, taken := s.used[c.Code]; taken {
			continue
		}
		s.used[c.Code] = struct{}{}
		s.picks = append(s.picks, c)

		s.descend(slot+1, acc+c.Score)

		s.picks = s.picks[:len(s.picks)-1]
		delete(s.used, c.Code)
	}
}

// bound returns an optimistic upper bound on the score attainable from
// slot onward: the sum of each remaining slot's best score.
func (s *search) bound(slot int) float64 {
	total := 0.0
	for i := slot; i < len(s.slots); i++ {
		best := math.Inf(-1)
		for _, c := range s.slots[i] {
			if c.Score > best {
				best = c.Score
			}
		}
		total += best
	}
	return total
}

// worst returns the lowest kept score. Call only with a full buffer.
func (s *search) worst() float64 {
	w := math.Inf(1)
	for _, r := range s.results {
		if r.TotalScore < w {
			w = r.TotalScore
		}
	}
	return w
}

// complete validates a full assignment and inserts it into the buffer.
func (s *search) complete(acc float64) {
	codes := make([]string, len(s.picks))
	for i, c := range s.picks {
		codes[i] = c.Code
	}

	key := multisetKey(codes)
	if _, ok := s.excluded[key]; ok {
		return
	}
	if _, ok := s.seen[key]; ok {
		return
	}

	price := 0.0
	restricted := false
	for _, c := range s.picks {
		price += c.Price
		restricted = restricted || c.Restricted
	}

	for _, p := range s.opts.ExcludeBasePrices {
		if math.Abs(price-p) < priceEpsilon {
			return
		}
	}

	if !s.ratePlansCompatible() {
		return
	}

	s.seen[key] = struct{}{}
	s.insert(Combination{
		Codes:      codes,
		TotalScore: acc,
		BasePrice:  price,
		Restricted: restricted,
		Matched:    s.matched(codes),
	})
}

// ratePlansCompatible enforces a uniform rate plan, but only when every
// chosen product carries a defined one.
func (s *search) ratePlansCompatible() bool {
	first := ""
	for _, c := range s.picks {
		if c.RatePlan == "" {
			return true
		}
		if first == "" {
			first = c.RatePlan
		} else if c.RatePlan != first {
			return false
		}
	}
	return true
}

// matched reports whether every code is in the matched-code set.
func (s *search) matched(codes []string) bool {
	if s.opts.MatchedCodes == nil {
		return false
	}
	for _, code := range codes {
		if _, ok := s.opts.MatchedCodes[code]; !ok {
			return false
		}
	}
	return true
}

// insert adds the combination to the top-K buffer, evicting the worst
// entry once full.
func (s *search) insert(c Combination) {
	if len(s.results) < s.topK {
		s.results = append(s.results, c)
		return
	}

	worstIdx := 0
	for i, r := range s.results {
		if r.TotalScore < s.results[worstIdx].TotalScore {
			worstIdx = i
		}
	}
	if c.TotalScore > s.results[worstIdx].TotalScore {
		evicted := s.results[worstIdx]
		delete(s.seen, multisetKey(evicted.Codes))
		s.results[worstIdx] = c
	} else {
		delete(s.seen, multisetKey(c.Codes))
	}
}

// multisetKey builds an order-independent key for a code list.
func multisetKey(codes []string) string {
	sorted := make([]string, len(codes))
	copy(sorted, codes)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
