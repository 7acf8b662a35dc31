// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend/aiscore"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend/allocation"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend/diversify"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend/optimizer"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend/partition"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend/scoring"
)

// flowState carries everything one flow run needs. Built fresh per flow
// and discarded afterward.
type flowState struct {
	flow     recommend.Flow
	rooms    []recommend.RoomRequest
	products []recommend.Product
	types    []string
	features []recommend.Feature

	historyPop map[string]float64
	featurePop map[string]float64
	floorPrice float64
	aiScores   map[int]map[string]aiscore.Result

	excludeCombos [][]string
	excludePrices []float64
}

// newFlowState filters the product pool to the flow's sale-strategy
// allow-list and precomputes the popularity signals.
func (e *Engine) newFlowState(flow recommend.Flow, rooms []recommend.RoomRequest, req recommend.Request, aiScores map[int]map[string]aiscore.Result, usedCombos [][]string, usedPrices []float64) *flowState {
	allowed := req.SaleStrategyTypes[flow.String()]

	products := req.Products
	if len(allowed) > 0 {
		allow := make(map[string]struct{}, len(allowed))
		for _, t := range allowed {
			allow[t] = struct{}{}
		}
		products = make([]recommend.Product, 0, len(req.Products))
		for _, p := range req.Products {
			if _, ok := allow[p.Type]; ok {
				products = append(products, p)
			}
		}
	}

	floor := 0.0
	for _, p := range products {
		if p.AvailableToSell < 1 {
			continue
		}
		if floor == 0 || p.Price < floor {
			floor = p.Price
		}
	}

	// Optimizer runs once per sale-strategy type so combinations stay
	// type-homogeneous. An empty allow-list means one pass over all.
	types := allowed
	if len(types) == 0 {
		types = []string{""}
	}

	return &flowState{
		flow:          flow,
		rooms:         rooms,
		products:      products,
		types:         types,
		features:      req.Features,
		historyPop:    scoring.HistoryPopularity(req.History),
		featurePop:    scoring.FeaturePopularity(req.Features, req.Events),
		floorPrice:    floor,
		aiScores:      aiScores,
		excludeCombos: usedCombos,
		excludePrices: usedPrices,
	}
}

// scoredCandidate is one feasible product for one slot group, with its
// combined score fixed at scoring time.
type scoredCandidate struct {
	product       recommend.Product
	alloc         allocation.Allocation
	score         float64
	matchingScore float64
	matched       bool
}

// comboMeta ties a surviving combination back to the partition whose
// groups it was searched over.
type comboMeta struct {
	combo optimizer.Combination
	part  partition.Partition
}

// runFlow executes the full pipeline for one flow: partition the slots,
// score candidates per group, search combinations per sale-strategy
// type, then diversify into the final options.
func (e *Engine) runFlow(_ context.Context, st *flowState) (recommend.FlowResult, []picked, error) {
	if len(st.products) == 0 || len(st.rooms) == 0 {
		return emptyFlowResult(), nil, nil
	}

	base := []partition.Partition{partition.Singleton(st.rooms)}
	var merged []partition.Partition
	if len(st.rooms) > 1 && len(st.rooms) <= e.cfg.Partition.MaxSlots {
		maxCap := 0
		for _, p := range st.products {
			if c := p.TotalCapacity(); c > maxCap {
				maxCap = c
			}
		}
		merged = partition.Rank(partition.Enumerate(st.rooms), maxCap, e.cfg.Partition.MaxRanked)
	}

	all := make([]partition.Partition, 0, len(base)+len(merged))
	all = append(all, base...)
	all = append(all, merged...)
	cache, err := e.scoreGroups(st, all)
	if err != nil {
		return emptyFlowResult(), nil, err
	}

	return e.searchAndFormat(st, base, merged, cache)
}

// groupKey identifies a slot group across partitions.
func groupKey(slots []int) string {
	var b strings.Builder
	for i, s := range slots {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(s))
	}
	return b.String()
}

// scoreGroups scores every distinct slot group across all partitions.
// Groups are independent, so scoring fans out one goroutine per group.
// A panic in any worker is captured and surfaced as an error so the
// flow fails alone instead of crashing the process.
func (e *Engine) scoreGroups(st *flowState, parts []partition.Partition) (map[string][]scoredCandidate, error) {
	keys := make([]string, 0)
	groups := make([]partition.Group, 0)
	seen := make(map[string]struct{})
	for _, p := range parts {
		for _, g := range p.Groups {
			k := groupKey(g.Slots)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
			groups = append(groups, g)
		}
	}

	results := make([][]scoredCandidate, len(groups))
	panics := make([]any, len(groups))
	var wg sync.WaitGroup
	for i, g := range groups {
		wg.Add(1)
		go func(idx int, grp partition.Group) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panics[idx] = r
				}
			}()
			results[idx] = e.scoreGroup(st, grp)
		}(i, g)
	}
	wg.Wait()

	for i, r := range panics {
		if r != nil {
			return nil, fmt.Errorf("scoring group %s: %v", keys[i], r)
		}
	}

	cache := make(map[string][]scoredCandidate, len(groups))
	for i, k := range keys {
		cache[k] = results[i]
	}
	return cache, nil
}

// scoreGroup scores every product against one slot group's occupancy.
// Infeasible products are dropped here and never reach the optimizer.
func (e *Engine) scoreGroup(st *flowState, g partition.Group) []scoredCandidate {
	out := make([]scoredCandidate, 0, len(st.products))
	for _, p := range st.products {
		a := allocation.Allocate(g.Occupancy, p)
		if !a.Satisfied {
			continue
		}
		capScore := e.scorer.CapacityScore(g.Occupancy, p, a)

		sc := scoredCandidate{product: p, alloc: a}
		switch st.flow {
		case recommend.FlowMostPopular, recommend.FlowTip:
			pref := e.scorer.PreferenceScore(scoring.PreferenceInputs{
				HistoryPopularity: st.historyPop[p.Code],
				FeaturePopularity: scoring.ProductFeaturePopularity(p, st.featurePop),
				Price:             p.Price,
				FloorPrice:        st.floorPrice,
			}, e.cfg.Weights(st.flow))
			w := e.cfg.Flows.PopularCapacityWeight
			sc.score = w*capScore + (1-w)*pref

		case recommend.FlowDirect:
			w := e.cfg.Flows.DirectCapacityWeight
			sc.score = w*capScore + (1-w)*scoring.PriceProximity(p.Price, st.floorPrice)

		case recommend.FlowMatch:
			ai, has := e.groupAIScore(st, g.Slots, p.Code)
			ms, matched := e.scorer.MatchingScore(p, st.features, scoring.MatchInputs{
				CapacityScore:     capScore,
				ProductPopularity: st.historyPop[p.Code],
				AIScore:           ai,
				HasAIScore:        has,
			})
			sc.score = ms
			sc.matchingScore = ms
			sc.matched = matched
		}
		out = append(out, sc)
	}
	return out
}

// groupAIScore averages the collaborator scores of the group's member
// slots for one product. Slots without a score are skipped.
func (e *Engine) groupAIScore(st *flowState, slots []int, code string) (float64, bool) {
	if len(st.aiScores) == 0 {
		return 0, false
	}
	sum := 0.0
	n := 0
	for _, pos := range slots {
		slotIdx := st.rooms[pos].SlotIndex
		if r, ok := st.aiScores[slotIdx][code]; ok {
			sum += r.Score
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// searchAndFormat runs the optimizer per partition and sale-strategy
// type, diversifies the pooled combinations, and formats the options.
func (e *Engine) searchAndFormat(st *flowState, base, merged []partition.Partition, cache map[string][]scoredCandidate) (recommend.FlowResult, []picked, error) {
	// Merged partitions survive only when every group has at least one
	// feasible candidate, then get bucketed by group count.
	merged = partitionsWithCandidates(merged, cache)
	merged = partition.Bucket(merged, e.cfg.Partition.PerClusterSize)
	parts := append(base, merged...)

	matchedSet := e.matchedCodes(st, cache)

	meta := make(map[string]comboMeta)
	for _, part := range parts {
		for _, typ := range st.types {
			slots := e.buildSlots(part, cache, typ)
			if slots == nil {
				continue
			}
			combos := optimizer.Search(slots, optimizer.Options{
				TopK:                e.cfg.Optimizer.TopK,
				ExcludeCombinations: st.excludeCombos,
				ExcludeBasePrices:   st.excludePrices,
				MatchedCodes:        matchedSet,
			})
			for _, c := range combos {
				k := canonicalKey(c.Codes)
				if prev, ok := meta[k]; ok && prev.combo.TotalScore >= c.TotalScore {
					continue
				}
				meta[k] = comboMeta{combo: c, part: part}
			}
		}
	}

	if len(meta) == 0 {
		return emptyFlowResult(), nil, nil
	}

	pool := make([]optimizer.Combination, 0, len(meta))
	for _, m := range meta {
		pool = append(pool, m.combo)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].TotalScore != pool[j].TotalScore {
			return pool[i].TotalScore > pool[j].TotalScore
		}
		return canonicalKey(pool[i].Codes) < canonicalKey(pool[j].Codes)
	})

	selected := diversify.Select(pool, e.cfg.Flows.OptionCount, st.excludePrices, presetFor(st.flow))

	result := recommend.FlowResult{Options: make(map[string]recommend.Option, len(selected))}
	picks := make([]picked, 0, len(selected))
	for i, combo := range selected {
		m := meta[canonicalKey(combo.Codes)]
		opt := e.formatOption(st, m, cache)
		result.Options[strconv.Itoa(i)] = opt
		picks = append(picks, picked{codes: append([]string(nil), combo.Codes...), price: combo.BasePrice})
	}
	return result, picks, nil
}

// partitionsWithCandidates drops partitions where any group scored
// empty for this flow.
func partitionsWithCandidates(parts []partition.Partition, cache map[string][]scoredCandidate) []partition.Partition {
	out := make([]partition.Partition, 0, len(parts))
	for _, p := range parts {
		capable := true
		for _, g := range p.Groups {
			if len(cache[groupKey(g.Slots)]) == 0 {
				capable = false
				break
			}
		}
		if capable {
			out = append(out, p)
		}
	}
	return out
}

// matchedCodes collects the codes that satisfied the feature match in
// every group where they were feasible. Nil outside the match flow.
func (e *Engine) matchedCodes(st *flowState, cache map[string][]scoredCandidate) map[string]struct{} {
	if st.flow != recommend.FlowMatch {
		return nil
	}
	unmatched := make(map[string]struct{})
	seen := make(map[string]struct{})
	for _, candidates := range cache {
		for _, sc := range candidates {
			seen[sc.product.Code] = struct{}{}
			if !sc.matched {
				unmatched[sc.product.Code] = struct{}{}
			}
		}
	}
	out := make(map[string]struct{}, len(seen))
	for code := range seen {
		if _, bad := unmatched[code]; !bad {
			out[code] = struct{}{}
		}
	}
	return out
}

// buildSlots assembles the optimizer input for one partition, one
// candidate list per group, restricted to one sale-strategy type. An
// empty type matches all products. Returns nil when any group has no
// candidate of the type.
func (e *Engine) buildSlots(part partition.Partition, cache map[string][]scoredCandidate, typ string) [][]optimizer.Candidate {
	slots := make([][]optimizer.Candidate, len(part.Groups))
	for i, g := range part.Groups {
		candidates := cache[groupKey(g.Slots)]
		slot := make([]optimizer.Candidate, 0, len(candidates))
		for _, sc := range candidates {
			if typ != "" && sc.product.Type != typ {
				continue
			}
			slot = append(slot, optimizer.Candidate{
				Code:       sc.product.Code,
				Score:      sc.score,
				Price:      sc.product.Price,
				RatePlan:   sc.product.RatePlanCode,
				Restricted: sc.product.Restricted,
				Available:  sc.product.AvailableToSell,
			})
		}
		if len(slot) == 0 {
			return nil
		}
		slots[i] = slot
	}
	return slots
}

// formatOption materializes one combination into a response option.
func (e *Engine) formatOption(st *flowState, m comboMeta, cache map[string][]scoredCandidate) recommend.Option {
	items := make([]recommend.RecommendationItem, len(m.combo.Codes))
	totalMatching := 0.0
	for i, code := range m.combo.Codes {
		g := m.part.Groups[i]
		sc := lookupCandidate(cache, g, code)

		roomIndexes := make([]int, len(g.Slots))
		for j, pos := range g.Slots {
			roomIndexes[j] = st.rooms[pos].SlotIndex
		}
		sort.Ints(roomIndexes)

		item := recommend.RecommendationItem{
			Code:             code,
			AllocatedDefault: sc.alloc.Default,
			AllocatedExtra:   sc.alloc.Extra,
			RoomIndexes:      roomIndexes,
		}
		if len(sc.product.Buildings) > 0 {
			item.Building = sc.product.Buildings[0]
		}
		if st.flow == recommend.FlowMatch {
			item.MatchingScore = sc.matchingScore
			totalMatching += sc.matchingScore
		}
		items[i] = item
	}

	opt := recommend.Option{
		Items:      items,
		BasePrice:  m.combo.BasePrice,
		Restricted: m.combo.Restricted,
		Matched:    m.combo.Matched,
	}
	if st.flow == recommend.FlowMatch && len(items) > 0 {
		opt.AverageMatchingScore = totalMatching / float64(len(items))
	}
	return opt
}

// lookupCandidate finds the scored candidate for a code in one group.
// The optimizer only emits codes it was given, so the scan always hits.
func lookupCandidate(cache map[string][]scoredCandidate, g partition.Group, code string) scoredCandidate {
	for _, sc := range cache[groupKey(g.Slots)] {
		if sc.product.Code == code {
			return sc
		}
	}
	return scoredCandidate{}
}

// canonicalKey builds an order-independent key for a code multiset.
func canonicalKey(codes []string) string {
	sorted := append([]string(nil), codes...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

// presetFor maps a flow to its diversification ordering preset.
func presetFor(f recommend.Flow) diversify.Preset {
	if f == recommend.FlowDirect {
		return diversify.PresetPrice
	}
	return diversify.PresetPopular
}
