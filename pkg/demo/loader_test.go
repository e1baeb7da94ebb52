// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package demo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sptm-app/sptm/pkg/api"
	"github.com/sptm-app/sptm/pkg/hierarchy"
	"github.com/sptm-app/sptm/pkg/logging"
	"github.com/sptm-app/sptm/pkg/tasks"
)

// seedBackend assigns ids per resource and echoes creations back the
// way the real backend does.
type seedBackend struct {
	mu     sync.Mutex
	nextID int64
}

func (b *seedBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		if r.Method == http.MethodPut {
			w.Write([]byte(`{}`))
			return
		}

		b.nextID++
		path := r.URL.Path
		switch {
		case strings.HasPrefix(path, "/api/core-values"):
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(map[string]any{"id": b.nextID, "text": body["text"]})
		case strings.Contains(path, "/submissions"):
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(map[string]any{"id": b.nextID, "title": body["title"]})
		case strings.HasPrefix(path, "/api/missions"):
			text, _ := io.ReadAll(r.Body)
			json.NewEncoder(w).Encode(map[string]any{"id": b.nextID, "content": strings.Trim(strings.TrimSpace(string(text)), `"`)})
		case strings.HasPrefix(path, "/api/tasks"):
			var dto map[string]any
			json.NewDecoder(r.Body).Decode(&dto)
			dto["id"] = b.nextID
			json.NewEncoder(w).Encode(dto)
		default:
			http.NotFound(w, r)
		}
	})
}

func smallDataSet() DataSet {
	return DataSet{
		Values: []string{"Focus"},
		Missions: []MissionSeed{{
			Text: "Get fit",
			Submissions: []SubmissionSeed{{
				Title: "Run 5k",
				Tasks: []TaskSeed{
					{Title: "First jog", Urge: true, Imp: true, Context: "@anywhere", DueOffset: 1},
					{Title: "Buy shoes", Context: "@errands", DueOffset: -2, Done: true},
				},
			}},
		}},
		Loose: []TaskSeed{{Title: "Pay bill", Urge: true, Context: "@computer"}},
	}
}

func TestLoadSeedsEverything(t *testing.T) {
	srv := httptest.NewServer((&seedBackend{}).handler())
	defer srv.Close()

	log := logging.New(logging.Config{Quiet: true})
	client := api.NewClient(srv.URL, nil)
	missions := hierarchy.NewStore(client, log)
	taskStore := tasks.NewStore(client, log, 7)
	values := hierarchy.NewValueStore(client, log)

	loader := NewLoader(missions, taskStore, values, log, 7)
	loader.now = func() time.Time {
		return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	}

	sum, err := loader.Load(context.Background(), smallDataSet())
	require.NoError(t, err)
	assert.Equal(t, Summary{Values: 1, Missions: 1, Submissions: 1, Tasks: 3}, sum)

	assert.Len(t, values.All(), 1)
	require.Len(t, missions.RootMissions(), 1)
	root := missions.RootMissions()[0]
	subs := missions.SubmissionsOf(root.ID)
	require.Len(t, subs, 1)

	all := taskStore.All()
	require.Len(t, all, 3)

	// Linked tasks carry the submission's bare id.
	var linked, loose []tasks.Task
	for _, task := range all {
		if task.Linked() {
			linked = append(linked, task)
		} else {
			loose = append(loose, task)
		}
	}
	require.Len(t, linked, 2)
	for _, task := range linked {
		assert.Equal(t, subs[0].RealID, *task.MissionID)
	}
	require.Len(t, loose, 1)
	assert.Equal(t, "Pay bill", loose[0].Title)

	// Due dates are relative to load time.
	first, ok := findByTitle(all, "First jog")
	require.True(t, ok)
	assert.Equal(t, "2026-09-02T00:00:00", first.DueDate)

	// Seeds marked done come out completed.
	shoes, ok := findByTitle(all, "Buy shoes")
	require.True(t, ok)
	assert.Equal(t, tasks.StatusDone, shoes.Status)
	assert.NotEmpty(t, shoes.CompletedAt)
}

func TestDefaultDataSetShape(t *testing.T) {
	ds := Default()
	assert.Len(t, ds.Values, 3)
	assert.Len(t, ds.Missions, 5)
	assert.Len(t, ds.Loose, 2)

	// Two fully completed milestones keep the insights demo meaningful.
	fullyDone := 0
	for _, m := range ds.Missions {
		for _, sub := range m.Submissions {
			require.NotEmpty(t, sub.Tasks, "submission %q", sub.Title)
			done := true
			for _, task := range sub.Tasks {
				if !task.Done {
					done = false
				}
				if task.Context != "" {
					assert.True(t, strings.HasPrefix(task.Context, "@"), "task %q", task.Title)
				}
			}
			if done {
				fullyDone++
			}
		}
	}
	assert.Equal(t, 2, fullyDone)
}

func findByTitle(ts []tasks.Task, title string) (tasks.Task, bool) {
	for _, t := range ts {
		if t.Title == title {
			return t, true
		}
	}
	return tasks.Task{}, false
}
