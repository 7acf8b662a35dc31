// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package diversify

import (
	"math"
	"sort"
)

// maxIterations bounds the Lloyd refinement loop. One-dimensional price
// clustering converges in a handful of passes.
const maxIterations = 25

// cluster is one price bucket with its member indexes, ordered by price.
type cluster struct {
	center  float64
	members []int
}

// clusterPrices groups the given prices into k one-dimensional clusters
// using Lloyd's algorithm with deterministic quantile seeding, and
// returns the clusters ordered by center ascending. Degenerates to one
// cluster per value when k >= len(prices).
func clusterPrices(prices []float64, k int) []cluster {
	n := len(prices)
	if n == 0 || k <= 0 {
		return nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return prices[order[a]] < prices[order[b]] })

	if k >= n {
		out := make([]cluster, n)
		for i, idx := range order {
			out[i] = cluster{center: prices[idx], members: []int{idx}}
		}
		return out
	}

	// Quantile seeds keep the run deterministic and well spread.
	centers := make([]float64, k)
	for i := 0; i < k; i++ {
		pos := (i*2 + 1) * n / (2 * k)
		centers[i] = prices[order[pos]]
	}

	assign := make([]int, n)
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range prices {
			best := 0
			bestDist := math.Abs(p - centers[0])
			for c := 1; c < k; c++ {
				if d := math.Abs(p - centers[c]); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		sums := make([]float64, k)
		counts := make([]int, k)
		for i, c := range assign {
			sums[c] += prices[i]
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] > 0 {
				centers[c] = sums[c] / float64(counts[c])
			}
		}
	}

	out := make([]cluster, 0, k)
	for c := 0; c < k; c++ {
		cl := cluster{center: centers[c]}
		for _, idx := range order {
			if assign[idx] == c {
				cl.members = append(cl.members, idx)
			}
		}
		if len(cl.members) > 0 {
			out = append(out, cl)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].center < out[b].center })
	return out
}

// median returns the price-median member of the cluster.
func (c cluster) median() int {
	return c.members[len(c.members)/2]
}
