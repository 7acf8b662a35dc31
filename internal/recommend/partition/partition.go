// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

// Package partition enumerates ways to merge simultaneous room requests
// into fewer, larger virtual requests sharing one product.
package partition

import (
	"sort"

	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
)

// Group is one merged set of request slots with aggregated occupancy.
type Group struct {
	// Slots lists the request slot positions in this group.
	Slots []int `json:"slots"`

	// Occupancy is the aggregated guest count of the group.
	Occupancy recommend.Occupancy `json:"occupancy"`
}

// Partition is a grouping of request slots into disjoint groups with at
// least one group holding more than one slot. Never mutated once built.
type Partition struct {
	// Groups lists the slot groups, ordered by first slot.
	Groups []Group `json:"groups"`

	// EvenAdultGroups counts groups whose adult count is even, the
	// ranking heuristic favoring couple-friendly merges.
	EvenAdultGroups int `json:"-"`
}

// Enumerate generates every non-trivial partition of the request slots.
// The fully-singleton partition is excluded. Enumeration is iterative
// over restricted growth strings, so no recursion and no intermediate
// partition copies. Returns nil when merging cannot apply (fewer than
// two requests).
func Enumerate(rooms []recommend.RoomRequest) []Partition {
	n := len(rooms)
	if n < 2 {
		return nil
	}

	var out []Partition

	// a is the restricted growth string: a[i] is the group of slot i,
	// valid when a[i] <= max(a[0..i-1]) + 1.
	a := make([]int, n)
	b := make([]int, n) // b[i] = max(a[0..i]) running prefix maximum

	for {
		if groupCount(a, n) < n { // skip the all-singleton partition
			out = append(out, build(rooms, a))
		}

		// Advance to the next restricted growth string.
		i := n - 1
		for i > 0 {
			if a[i] <= b[i-1] {
				break
			}
			i--
		}
		if i == 0 {
			return out
		}
		a[i]++
		for j := i; j < n; j++ {
			if j == 0 {
				b[j] = a[j]
			} else {
				b[j] = max(b[j-1], a[j])
			}
			if j > i {
				a[j] = 0
				b[j] = b[j-1]
			}
		}
	}
}

// groupCount returns the number of groups encoded by the growth string.
func groupCount(a []int, n int) int {
	m := 0
	for i := 0; i < n; i++ {
		if a[i] > m {
			m = a[i]
		}
	}
	return m + 1
}

// build materializes a partition from its growth string.
func build(rooms []recommend.RoomRequest, a []int) Partition {
	groups := make([]Group, groupCount(a, len(a)))
	for slot, g := range a {
		groups[g].Slots = append(groups[g].Slots, slot)
		groups[g].Occupancy = groups[g].Occupancy.Add(rooms[slot].Occupancy())
	}

	even := 0
	for _, g := range groups {
		if g.Occupancy.Adults%2 == 0 {
			even++
		}
	}

	return Partition{Groups: groups, EvenAdultGroups: even}
}

// Valid reports whether the partition can be served at all: its largest
// group must fit the highest-capacity candidate, and no group may
// reduce to a lone single adult (single adults are never merge targets).
func (p Partition) Valid(maxCapacity int) bool {
	for _, g := range p.Groups {
		if g.Occupancy.Guests() > maxCapacity {
			return false
		}
		if g.Occupancy.Adults == 1 && g.Occupancy.Children == 0 && g.Occupancy.Pets == 0 {
			return false
		}
	}
	return true
}

// Rank filters partitions to the valid ones, orders them by the
// even-adult-group heuristic (descending, stable), and truncates to at
// most limit survivors.
func Rank(parts []Partition, maxCapacity, limit int) []Partition {
	valid := make([]Partition, 0, len(parts))
	for _, p := range parts {
		if p.Valid(maxCapacity) {
			valid = append(valid, p)
		}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].EvenAdultGroups > valid[j].EvenAdultGroups
	})

	if len(valid) > limit {
		valid = valid[:limit]
	}
	return valid
}

// Filter keeps only capable partitions: every group must have at least
// one feasible candidate per the supplied check.
func Filter(parts []Partition, feasible func(recommend.Occupancy) bool) []Partition {
	out := make([]Partition, 0, len(parts))
	for _, p := range parts {
		capable := true
		for _, g := range p.Groups {
			if !feasible(g.Occupancy) {
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

// Bucket bounds combinatorial blow-up by keeping at most perBucket
// partitions per group count, preserving the incoming rank order.
func Bucket(parts []Partition, perBucket int) []Partition {
	seen := make(map[int]int)
	out := make([]Partition, 0, len(parts))
	for _, p := range parts {
		k := len(p.Groups)
		if seen[k] >= perBucket {
			continue
		}
		seen[k]++
		out = append(out, p)
	}
	return out
}

// Singleton returns the unmerged partition: one group per request slot.
// It is not part of Enumerate's output but serves as option zero.
func Singleton(rooms []recommend.RoomRequest) Partition {
	groups := make([]Group, len(rooms))
	even := 0
	for i, r := range rooms {
		groups[i] = Group{Slots: []int{i}, Occupancy: r.Occupancy()}
		if r.Adults%2 == 0 {
			even++
		}
	}
	return Partition{Groups: groups, EvenAdultGroups: even}
}
