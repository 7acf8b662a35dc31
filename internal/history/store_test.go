// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package history

import (
	"errors"
	"testing"

	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{Path: ""})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func sampleItems() []recommend.BookingHistoryItem {
	return []recommend.BookingHistoryItem{
		{ProductCode: "STD", SameBookingPeriod: 12, TotalHistoryBookingTime: 80, ProductPopularity: 0.4},
		{ProductCode: "DLX", SameBookingPeriod: 5, TotalHistoryBookingTime: 30},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveSnapshot("hotel-1", sampleItems()); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, err := s.LoadSnapshot("hotel-1")
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d items, want 2", len(got))
	}
	if got[0].ProductCode != "STD" || got[0].SameBookingPeriod != 12 {
		t.Errorf("item 0 = %+v", got[0])
	}
	if got[0].ProductPopularity != 0.4 {
		t.Errorf("popularity = %v, want 0.4", got[0].ProductPopularity)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LoadSnapshot("nowhere")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveSnapshot("hotel-1", sampleItems()); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	replacement := []recommend.BookingHistoryItem{{ProductCode: "SUI", SameBookingPeriod: 1}}
	if err := s.SaveSnapshot("hotel-1", replacement); err != nil {
		t.Fatalf("SaveSnapshot (replace): %v", err)
	}

	got, err := s.LoadSnapshot("hotel-1")
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(got) != 1 || got[0].ProductCode != "SUI" {
		t.Errorf("loaded %+v, want single SUI item", got)
	}
}

func TestStore_PropertiesAreIsolated(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveSnapshot("hotel-1", sampleItems()); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	if _, err := s.LoadSnapshot("hotel-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("hotel-2 err = %v, want ErrNotFound", err)
	}
}

func TestStore_RequiresPropertyKey(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveSnapshot("", sampleItems()); err == nil {
		t.Fatal("expected error for empty property key")
	}
}

func TestStore_OnDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(Options{Path: dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SaveSnapshot("hotel-1", sampleItems()); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen and confirm the snapshot survived.
	s2, err := Open(Options{Path: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.LoadSnapshot("hotel-1")
	if err != nil {
		t.Fatalf("LoadSnapshot after reopen: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("loaded %d items after reopen, want 2", len(got))
	}
}
