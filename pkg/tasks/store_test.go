// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sptm-app/sptm/pkg/api"
	"github.com/sptm-app/sptm/pkg/hierarchy"
	"github.com/sptm-app/sptm/pkg/logging"
)

func quietLogger() *logging.Logger {
	return logging.New(logging.Config{Quiet: true})
}

// fakeBackend is a minimal in-memory tasks endpoint.
type fakeBackend struct {
	mu      sync.Mutex
	nextID  int64
	puts    []taskDTO
	deletes []string
	fail    bool
}

func (f *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		switch r.Method {
		case http.MethodPost:
			var dto taskDTO
			json.NewDecoder(r.Body).Decode(&dto)
			f.nextID++
			dto.ID = f.nextID
			json.NewEncoder(w).Encode(dto)
		case http.MethodPut:
			var dto taskDTO
			json.NewDecoder(r.Body).Decode(&dto)
			f.puts = append(f.puts, dto)
			json.NewEncoder(w).Encode(dto)
		case http.MethodDelete:
			f.deletes = append(f.deletes, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.Write([]byte(`[]`))
		}
	})
}

func newTestStore(t *testing.T, backend *fakeBackend) *Store {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	store := NewStore(api.NewClient(srv.URL, nil), quietLogger(), 7)
	store.now = func() time.Time {
		return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	}
	return store
}

func TestResolveSubmissionLink(t *testing.T) {
	id, err := ResolveSubmissionLink("submission-22")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(22), *id)

	id, err = ResolveSubmissionLink("mission-7")
	require.NoError(t, err)
	assert.Nil(t, id, "root missions cannot own tasks")

	id, err = ResolveSubmissionLink("42")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(42), *id)

	id, err = ResolveSubmissionLink("")
	require.NoError(t, err)
	assert.Nil(t, id)

	_, err = ResolveSubmissionLink("garbage-x")
	assert.ErrorIs(t, err, hierarchy.ErrUnknownComposite)
}

// TestCreatePersistsBareSubmissionID is the end-to-end link scenario:
// a caller passing "submission-22" must produce a persisted subMissionId
// of 22, not the composite string and not the parent mission's id.
func TestCreatePersistsBareSubmissionID(t *testing.T) {
	var sentBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sentBody)
		sentBody["id"] = 101
		json.NewEncoder(w).Encode(sentBody)
	}))
	defer srv.Close()

	store := NewStore(api.NewClient(srv.URL, nil), quietLogger(), 7)
	task, err := store.Create(context.Background(), Input{
		Title:      "Buy milk",
		MissionRef: "submission-22",
	})
	require.NoError(t, err)

	assert.Equal(t, float64(22), sentBody["subMissionId"])
	require.NotNil(t, task.MissionID)
	assert.Equal(t, int64(22), *task.MissionID)
	assert.Equal(t, int64(101), task.ID)
}

func TestCreateDropsRootMissionLink(t *testing.T) {
	var sentBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sentBody)
		sentBody["id"] = 102
		json.NewEncoder(w).Encode(sentBody)
	}))
	defer srv.Close()

	store := NewStore(api.NewClient(srv.URL, nil), quietLogger(), 7)
	task, err := store.Create(context.Background(), Input{
		Title:      "Untethered",
		MissionRef: "mission-7",
	})
	require.NoError(t, err)
	assert.Nil(t, sentBody["subMissionId"])
	assert.Nil(t, task.MissionID)
}

func TestCreateValidation(t *testing.T) {
	store := NewStore(api.NewClient("http://127.0.0.1:0", nil), quietLogger(), 7)

	_, err := store.Create(context.Background(), Input{Title: ""})
	assert.Error(t, err, "title is required")

	_, err = store.Create(context.Background(), Input{Title: "x", Context: "home"})
	assert.Error(t, err, "context must start with @")
}

func TestCreateEncodesDueDateAndPriority(t *testing.T) {
	var sentBody taskDTO
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sentBody)
		sentBody.ID = 103
		json.NewEncoder(w).Encode(sentBody)
	}))
	defer srv.Close()

	store := NewStore(api.NewClient(srv.URL, nil), quietLogger(), 7)
	task, err := store.Create(context.Background(), Input{
		Title:   "Plan week",
		DueDate: "2026-09-03",
		Urge:    true,
		Imp:     false,
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-09-03T00:00:00", sentBody.DueDate)
	assert.Equal(t, PriorityUrgentNotImportant, sentBody.Priority)
	assert.Equal(t, "NOT_STARTED", sentBody.Status)
	assert.Equal(t, int64(7), sentBody.UserID)

	// Response decoded back into the boolean pair.
	assert.True(t, task.Urge)
	assert.False(t, task.Imp)
}

func TestUpdateMergesAndSendsFullRecord(t *testing.T) {
	backend := &fakeBackend{}
	store := newTestStore(t, backend)
	store.Replace([]Task{{
		ID: 5, Title: "Original", Context: "@home", Status: StatusTodo, Urge: true, Imp: true,
	}})

	merged, err := store.Update(context.Background(), 5, Patch{Title: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", merged.Title)

	require.Len(t, backend.puts, 1)
	sent := backend.puts[0]
	assert.Equal(t, "Renamed", sent.Title)
	// Unpatched fields survive the merge.
	assert.Equal(t, "@home", sent.Context)
	assert.Equal(t, PriorityUrgentImportant, sent.Priority)
}

// TestUpdateOptimisticNoRollback verifies local state keeps the patch
// after a failed write.
func TestUpdateOptimisticNoRollback(t *testing.T) {
	backend := &fakeBackend{fail: true}
	store := newTestStore(t, backend)
	store.Replace([]Task{{ID: 5, Title: "Original", Status: StatusTodo}})

	_, err := store.Update(context.Background(), 5, Patch{Title: ptr("Changed")})
	require.Error(t, err)

	got, _ := store.Get(5)
	assert.Equal(t, "Changed", got.Title)
}

func TestToggleStatus(t *testing.T) {
	backend := &fakeBackend{}
	store := newTestStore(t, backend)
	store.Replace([]Task{{ID: 5, Title: "t", Status: StatusTodo}})

	done, err := store.ToggleStatus(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, done.Status)
	assert.Equal(t, "2026-09-01T10:00:00Z", done.CompletedAt)

	undone, err := store.ToggleStatus(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, StatusTodo, undone.Status)
	assert.Empty(t, undone.CompletedAt)
}

// TestArchiveUnarchiveReversible covers the archive round trip: after
// unarchive the task is active, open, and unstamped.
func TestArchiveUnarchiveReversible(t *testing.T) {
	backend := &fakeBackend{}
	store := newTestStore(t, backend)
	store.Replace([]Task{{ID: 5, Title: "t", Status: StatusDone}})

	archived, err := store.Archive(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)
	assert.NotEmpty(t, archived.CompletedAt)

	restored, err := store.Unarchive(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, restored.IsArchived)
	assert.Empty(t, restored.CompletedAt)
	assert.Equal(t, StatusTodo, restored.Status)
}

func TestDeletePermanently(t *testing.T) {
	backend := &fakeBackend{}
	store := newTestStore(t, backend)
	store.Replace([]Task{{ID: 5}, {ID: 6}})

	require.NoError(t, store.DeletePermanently(context.Background(), 5))

	_, ok := store.Get(5)
	assert.False(t, ok)
	require.Len(t, backend.deletes, 1)
	assert.Equal(t, "/api/tasks/5", backend.deletes[0])
}

func TestCascadeArchiveBySubmissionIDs(t *testing.T) {
	backend := &fakeBackend{}
	store := newTestStore(t, backend)
	store.Replace([]Task{
		{ID: 1, MissionID: ptr(int64(22))},
		{ID: 2, MissionID: ptr(int64(23))},
		{ID: 3, MissionID: ptr(int64(22))},
		{ID: 4, MissionID: ptr(int64(99))}, // other submission
		{ID: 5},                            // unlinked
	})

	outcome := store.CascadeArchiveBySubmissionIDs(context.Background(), []int64{22, 23})
	assert.Len(t, outcome.Applied, 3)
	assert.Empty(t, outcome.Failed)

	for _, id := range []int64{1, 2, 3} {
		task, _ := store.Get(id)
		assert.True(t, task.IsArchived, "task %d", id)
	}
	untouched, _ := store.Get(4)
	assert.False(t, untouched.IsArchived)
	unlinked, _ := store.Get(5)
	assert.False(t, unlinked.IsArchived)
}

// TestCascadeBestEffort verifies per-item failures are collected without
// aborting the batch, and the optimistic local patches stay applied.
func TestCascadeBestEffort(t *testing.T) {
	backend := &fakeBackend{fail: true}
	store := newTestStore(t, backend)
	store.Replace([]Task{
		{ID: 1, MissionID: ptr(int64(22))},
		{ID: 2, MissionID: ptr(int64(22))},
	})

	outcome := store.CascadeArchiveBySubmissionIDs(context.Background(), []int64{22})
	assert.Empty(t, outcome.Applied)
	assert.Len(t, outcome.Failed, 2)

	for _, id := range []int64{1, 2} {
		task, _ := store.Get(id)
		assert.True(t, task.IsArchived, "local patch kept for task %d", id)
	}
}

func TestCascadeDeleteBySubmissionIDs(t *testing.T) {
	backend := &fakeBackend{}
	store := newTestStore(t, backend)
	store.Replace([]Task{
		{ID: 1, MissionID: ptr(int64(22))},
		{ID: 2, MissionID: ptr(int64(33))},
	})

	outcome := store.CascadeDeleteBySubmissionIDs(context.Background(), []int64{22})
	assert.Equal(t, []int64{1}, outcome.Applied)

	_, ok := store.Get(1)
	assert.False(t, ok)
	_, ok = store.Get(2)
	assert.True(t, ok)
}

func TestFilters(t *testing.T) {
	store := NewStore(api.NewClient("http://127.0.0.1:0", nil), quietLogger(), 7)
	store.Replace([]Task{
		{ID: 1, IsArchived: true},
		{ID: 2, IsInbox: true},
		{ID: 3, MissionID: ptr(int64(22))},
	})

	assert.Len(t, store.Active(), 2)
	assert.Len(t, store.Archived(), 1)
	assert.Len(t, store.Inbox(), 1)
	assert.Len(t, store.Unlinked(), 2)
	assert.Len(t, store.BySubmission(22), 1)
}
