// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

// Package history persists booking-history snapshots between requests.
// The recommendation core never reads this store directly; callers load
// a snapshot and pass it into the request. BadgerDB keeps the store
// embedded, so no external database is needed.
package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/javinobile/Gauvendi-sub009/internal/metrics"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
)

// Key prefix for snapshot storage
const snapshotKeyPrefix = "history:"

// ErrNotFound is returned when no snapshot exists for a property.
var ErrNotFound = errors.New("history snapshot not found")

// Store persists booking-history snapshots keyed by property.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// Options configures the snapshot store.
type Options struct {
	// Path is the on-disk location. Empty runs BadgerDB in memory.
	Path string

	// TTL expires snapshots after this duration. Zero keeps them forever.
	TTL time.Duration
}

// Open opens or creates the snapshot store.
func Open(opts Options) (*Store, error) {
	var badgerOpts badger.Options
	if opts.Path == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(opts.Path)
	}
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return &Store{db: db, ttl: opts.TTL}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// snapshot is the stored representation.
type snapshot struct {
	Items     []recommend.BookingHistoryItem `json:"items"`
	SavedAt   time.Time                      `json:"savedAt"`
	Property  string                         `json:"property"`
	ItemCount int                            `json:"itemCount"`
}

// SaveSnapshot stores the booking history for one property, replacing
// any previous snapshot.
func (s *Store) SaveSnapshot(property string, items []recommend.BookingHistoryItem) error {
	if property == "" {
		return fmt.Errorf("property key required")
	}

	data, err := json.Marshal(snapshot{
		Items:     items,
		SavedAt:   time.Now().UTC(),
		Property:  property,
		ItemCount: len(items),
	})
	if err != nil {
		metrics.RecordHistoryStore("save", "error")
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(snapshotKeyPrefix+property), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		metrics.RecordHistoryStore("save", "error")
		return fmt.Errorf("save snapshot: %w", err)
	}

	metrics.RecordHistoryStore("save", "ok")
	return nil
}

// LoadSnapshot returns the booking history for one property, or
// ErrNotFound when no live snapshot exists.
func (s *Store) LoadSnapshot(property string) ([]recommend.BookingHistoryItem, error) {
	var snap snapshot

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKeyPrefix + property))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get snapshot: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})

	if errors.Is(err, ErrNotFound) {
		metrics.RecordHistoryStore("load", "miss")
		return nil, err
	}
	if err != nil {
		metrics.RecordHistoryStore("load", "error")
		return nil, err
	}

	metrics.RecordHistoryStore("load", "ok")
	return snap.Items, nil
}
