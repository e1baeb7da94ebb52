// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sptm-app/sptm/pkg/hierarchy"
	"github.com/sptm-app/sptm/pkg/tasks"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	snap := Snapshot{
		Missions: []hierarchy.Record{
			{ID: "mission-1", RealID: 1, Kind: hierarchy.KindMission, Text: "Health"},
			{ID: "submission-10", RealID: 10, Kind: hierarchy.KindSubmission, ParentID: "mission-1"},
		},
		Tasks: []tasks.Task{{ID: 101, Title: "Run"}},
	}
	require.NoError(t, store.Save(7, snap))

	got, ok, err := store.Load(7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap.Missions, got.Missions)
	assert.Equal(t, snap.Tasks, got.Tasks)
	assert.False(t, got.SavedAt.IsZero())
}

func TestLoadMissing(t *testing.T) {
	store := newTestStore(t)
	_, ok, err := store.Load(404)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotsArePerUser(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(1, Snapshot{Tasks: []tasks.Task{{ID: 1}}}))
	require.NoError(t, store.Save(2, Snapshot{Tasks: []tasks.Task{{ID: 2}}}))

	one, ok, err := store.Load(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, one.Tasks, 1)
	assert.Equal(t, int64(1), one.Tasks[0].ID)
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(7, Snapshot{}))
	require.NoError(t, store.Clear(7))

	_, ok, err := store.Load(7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(7, Snapshot{Tasks: []tasks.Task{{ID: 9, Title: "keep"}}}))
	require.NoError(t, store.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Load(7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "keep", got.Tasks[0].Title)
}
