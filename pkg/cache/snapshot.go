// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package cache persists per-user snapshots of the mission and task
// collections in a local BadgerDB. Commands read the snapshot for an
// instant first paint and when the backend is unreachable; a successful
// full load overwrites it.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/sptm-app/sptm/pkg/hierarchy"
	"github.com/sptm-app/sptm/pkg/tasks"
)

// Snapshot is one user's cached client state.
type Snapshot struct {
	SavedAt  time.Time          `json:"savedAt"`
	Missions []hierarchy.Record `json:"missions"`
	Tasks    []tasks.Task       `json:"tasks"`
}

// Age returns how long ago the snapshot was written.
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.SavedAt)
}

// Store wraps a BadgerDB holding snapshots keyed by user id.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the snapshot database at dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot cache: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a throwaway in-memory store for tests.
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory cache: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database. Safe to call once.
func (s *Store) Close() error {
	return s.db.Close()
}

func snapshotKey(userID int64) []byte {
	return []byte(fmt.Sprintf("snapshot/%d", userID))
}

// Save writes the snapshot for one user, stamping SavedAt.
func (s *Store) Save(userID int64, snap Snapshot) error {
	snap.SavedAt = time.Now().UTC()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey(userID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads one user's snapshot. The second return is false when no
// snapshot exists yet.
func (s *Store) Load(userID int64) (Snapshot, bool, error) {
	var snap Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return snap, true, nil
}

// Clear drops one user's snapshot, e.g. on logout.
func (s *Store) Clear(userID int64) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(snapshotKey(userID))
	})
	if err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}
