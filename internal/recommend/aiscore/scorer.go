// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

// Package aiscore defines the optional external scoring collaborator.
//
// The collaborator is strictly best-effort: any failure, timeout, or
// disabled state falls back silently to the in-house score path. Nothing
// in this package may surface an error to the recommendation caller or
// change the optimizer's behavior.
package aiscore

import (
	"context"

	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
)

// Result is one collaborator score for a (slot, product) pair.
type Result struct {
	// Score is the similarity score in [0, 1].
	Score float64 `json:"score"`

	// Reasoning is an optional human-readable explanation.
	Reasoning string `json:"reasoning,omitempty"`
}

// Scorer scores a batch of room requests against the candidate pool.
// The returned map is keyed by request slot index, then product code.
// Implementations must be safe for concurrent use.
type Scorer interface {
	// Name returns the collaborator identifier.
	Name() string

	// Score rates every (slot, product) pair it can. Missing pairs are
	// fine; the engine falls back to the in-house score for them.
	Score(ctx context.Context, rooms []recommend.RoomRequest, products []recommend.Product) (map[int]map[string]Result, error)
}

// Noop is a Scorer that scores nothing. It stands in wherever a real
// collaborator is not configured.
type Noop struct{}

// Name returns the collaborator identifier.
func (Noop) Name() string { return "noop" }

// Score returns no scores and no error.
func (Noop) Score(_ context.Context, _ []recommend.RoomRequest, _ []recommend.Product) (map[int]map[string]Result, error) {
	return nil, nil
}

var _ Scorer = Noop{}
