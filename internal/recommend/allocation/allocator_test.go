// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package allocation

import (
	"testing"

	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
)

func product(def, ext recommend.Capacity) recommend.Product {
	return recommend.Product{Code: "P1", DefaultCapacity: def, ExtraCapacity: ext}
}

func TestAllocate_PrefersDefaultCapacity(t *testing.T) {
	// Three adults against default 2/max 2 plus extra 2/max 2 must fill
	// default first.
	p := product(
		recommend.Capacity{Adults: 2, Max: 2},
		recommend.Capacity{Adults: 2, Max: 2},
	)

	a := Allocate(recommend.Occupancy{Adults: 3}, p)

	if !a.Satisfied {
		t.Fatal("expected satisfied allocation")
	}
	if a.Default.Adults != 2 {
		t.Errorf("Default.Adults = %d, want 2", a.Default.Adults)
	}
	if a.Extra.Adults != 1 {
		t.Errorf("Extra.Adults = %d, want 1", a.Extra.Adults)
	}
}

func TestAllocate_AllGuestsPlaced(t *testing.T) {
	tests := []struct {
		name string
		occ  recommend.Occupancy
		def  recommend.Capacity
		ext  recommend.Capacity
	}{
		{
			name: "adults and children",
			occ:  recommend.Occupancy{Adults: 2, Children: 2},
			def:  recommend.Capacity{Adults: 2, Children: 1, Max: 3},
			ext:  recommend.Capacity{Adults: 1, Children: 2, Max: 2},
		},
		{
			name: "with pets",
			occ:  recommend.Occupancy{Adults: 2, Pets: 1},
			def:  recommend.Capacity{Adults: 2, Pets: 1, Max: 2},
			ext:  recommend.Capacity{Max: 0},
		},
		{
			name: "flexible extra soaks up overflow",
			occ:  recommend.Occupancy{Adults: 3, Children: 1, Pets: 1},
			def:  recommend.Capacity{Adults: 2, Children: 1, Pets: 0, Max: 3},
			ext:  recommend.Capacity{Max: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Allocate(tt.occ, product(tt.def, tt.ext))
			if !a.Satisfied {
				t.Fatal("expected satisfied allocation")
			}

			got := a.Default.Add(a.Extra)
			if got != tt.occ {
				t.Errorf("allocated %+v, want %+v", got, tt.occ)
			}
		})
	}
}

func TestAllocate_Infeasible(t *testing.T) {
	tests := []struct {
		name string
		occ  recommend.Occupancy
		def  recommend.Capacity
		ext  recommend.Capacity
	}{
		{
			name: "guests exceed total capacity",
			occ:  recommend.Occupancy{Adults: 5},
			def:  recommend.Capacity{Adults: 2, Max: 2},
			ext:  recommend.Capacity{Adults: 2, Max: 2},
		},
		{
			name: "pets exceed pet capacity",
			occ:  recommend.Occupancy{Adults: 1, Pets: 2},
			def:  recommend.Capacity{Adults: 2, Pets: 1, Max: 2},
			ext:  recommend.Capacity{Max: 0},
		},
		{
			name: "per-type extra caps block placement",
			occ:  recommend.Occupancy{Adults: 3, Children: 1},
			def:  recommend.Capacity{Adults: 2, Max: 2},
			ext:  recommend.Capacity{Children: 2, Max: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Allocate(tt.occ, product(tt.def, tt.ext))
			if a.Satisfied {
				t.Fatalf("expected infeasible allocation, got %+v", a)
			}
			if !a.Default.IsZero() || !a.Extra.IsZero() {
				t.Errorf("failed allocation must report zeros, got %+v", a)
			}
		})
	}
}

func TestAllocate_EmptyRequestIsTriviallySatisfied(t *testing.T) {
	p := product(recommend.Capacity{Adults: 2, Max: 2}, recommend.Capacity{})

	a := Allocate(recommend.Occupancy{}, p)

	if !a.Satisfied {
		t.Fatal("empty occupancy must be satisfied")
	}
	if a.ExcessDefault.Adults != 2 {
		t.Errorf("ExcessDefault.Adults = %d, want 2", a.ExcessDefault.Adults)
	}
}

func TestAllocate_LexicographicTieBreak(t *testing.T) {
	// Default can host two guests in several ways; adults win the tie.
	p := product(
		recommend.Capacity{Adults: 2, Children: 2, Max: 2},
		recommend.Capacity{Adults: 2, Children: 2, Max: 2},
	)

	a := Allocate(recommend.Occupancy{Adults: 2, Children: 2}, p)

	if !a.Satisfied {
		t.Fatal("expected satisfied allocation")
	}
	if a.Default.Adults != 2 || a.Default.Children != 0 {
		t.Errorf("Default = %+v, want adults=2 children=0", a.Default)
	}
	if a.Extra.Children != 2 {
		t.Errorf("Extra.Children = %d, want 2", a.Extra.Children)
	}
}

func TestAllocate_ExcessIsZeroFloored(t *testing.T) {
	p := product(
		recommend.Capacity{Adults: 2, Children: 1, Max: 3},
		recommend.Capacity{Adults: 1, Max: 1},
	)

	a := Allocate(recommend.Occupancy{Adults: 1}, p)

	if !a.Satisfied {
		t.Fatal("expected satisfied allocation")
	}
	for name, o := range map[string]recommend.Occupancy{
		"ExcessDefault": a.ExcessDefault,
		"ExcessExtra":   a.ExcessExtra,
	} {
		if o.Adults < 0 || o.Children < 0 || o.Pets < 0 {
			t.Errorf("%s has negative component: %+v", name, o)
		}
	}
	if a.ExcessDefault.Adults != 1 {
		t.Errorf("ExcessDefault.Adults = %d, want 1", a.ExcessDefault.Adults)
	}
}

func TestFlexibleExtra(t *testing.T) {
	tests := []struct {
		name string
		ext  recommend.Capacity
		want bool
	}{
		{"all per-type zero with max", recommend.Capacity{Max: 2}, true},
		{"per-type caps present", recommend.Capacity{Adults: 1, Max: 2}, false},
		{"no extra at all", recommend.Capacity{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlexibleExtra(product(recommend.Capacity{}, tt.ext))
			if got != tt.want {
				t.Errorf("FlexibleExtra = %v, want %v", got, tt.want)
			}
		})
	}
}
