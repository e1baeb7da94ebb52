// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package cascade propagates mission and submission lifecycle changes
// down the hierarchy. An operation on a mission touches the mission, its
// submissions, and every task linked to those submissions; an operation
// on a single submission touches only that submission and its own tasks.
//
// Cascades are best effort. Task-level work runs first, then local
// hierarchy state is patched, then the backend hierarchy calls run in
// sequence. Individual backend failures are collected into the Outcome
// rather than aborting the remaining items.
package cascade

import (
	"context"
	"fmt"
	"time"

	"github.com/sptm-app/sptm/pkg/hierarchy"
	"github.com/sptm-app/sptm/pkg/logging"
	"github.com/sptm-app/sptm/pkg/tasks"
)

// Failure records one failed hierarchy-level backend call.
type Failure struct {
	ID  string
	Err error
}

// Outcome reports everything a cascade touched and every backend call
// that failed. Local state reflects the full cascade regardless of
// failures; the next full reload reconciles.
type Outcome struct {
	Tasks  tasks.CascadeOutcome
	Failed []Failure
}

// OK reports whether every backend call in the cascade succeeded.
func (o Outcome) OK() bool {
	return len(o.Failed) == 0 && len(o.Tasks.Failed) == 0
}

// Err flattens a failed outcome into a single error, or nil when the
// cascade fully succeeded.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	n := len(o.Failed) + len(o.Tasks.Failed)
	var first error
	if len(o.Failed) > 0 {
		first = o.Failed[0].Err
	} else {
		first = o.Tasks.Failed[0].Err
	}
	if n == 1 {
		return first
	}
	return fmt.Errorf("%d cascade calls failed, first: %w", n, first)
}

// Coordinator wires the hierarchy and task stores together for cascade
// operations keyed on composite ids.
type Coordinator struct {
	missions *hierarchy.Store
	tasks    *tasks.Store
	log      *logging.Logger
	now      func() time.Time
}

// New creates a Coordinator over the two stores.
func New(missions *hierarchy.Store, taskStore *tasks.Store, log *logging.Logger) *Coordinator {
	if log == nil {
		log = logging.Default()
	}
	return &Coordinator{missions: missions, tasks: taskStore, log: log, now: time.Now}
}

// Archive archives the record with the given composite id. For a mission
// the cascade covers its submissions and their tasks; for a submission
// only the submission itself and its own tasks.
func (c *Coordinator) Archive(ctx context.Context, id string) (Outcome, error) {
	return c.setArchived(ctx, id, true)
}

// Unarchive restores an archived record and its cascade scope. Restored
// tasks come back with status reset to todo.
func (c *Coordinator) Unarchive(ctx context.Context, id string) (Outcome, error) {
	return c.setArchived(ctx, id, false)
}

func (c *Coordinator) setArchived(ctx context.Context, id string, archived bool) (Outcome, error) {
	rec, ok := c.missions.Get(id)
	if !ok {
		return Outcome{}, fmt.Errorf("no record with id %q", id)
	}

	scope := c.taskScope(rec)
	var out Outcome
	if archived {
		out.Tasks = c.tasks.CascadeArchiveBySubmissionIDs(ctx, scope)
	} else {
		out.Tasks = c.tasks.CascadeUnarchiveBySubmissionIDs(ctx, scope)
	}

	completedAt := c.now().Format("2006-01-02T15:04:05")
	c.missions.MarkArchived(id, rec.Kind == hierarchy.KindMission, archived, completedAt)

	for _, target := range c.hierarchyScope(rec) {
		if err := c.missions.SetArchivedRemote(ctx, target, archived); err != nil {
			c.log.Error("cascade archive call failed", "id", target.ID, "error", err)
			out.Failed = append(out.Failed, Failure{ID: target.ID, Err: err})
		}
	}

	c.log.Info("cascade finished",
		"id", id, "archived", archived,
		"tasks", len(out.Tasks.Applied), "failures", len(out.Failed)+len(out.Tasks.Failed))
	return out, nil
}

// Delete permanently removes the record with the given composite id and
// its cascade scope. Tasks are deleted individually; a root mission
// delete issues a single backend call since the server cascades the
// submissions itself.
func (c *Coordinator) Delete(ctx context.Context, id string) (Outcome, error) {
	rec, ok := c.missions.Get(id)
	if !ok {
		return Outcome{}, fmt.Errorf("no record with id %q", id)
	}

	var out Outcome
	out.Tasks = c.tasks.CascadeDeleteBySubmissionIDs(ctx, c.taskScope(rec))

	c.missions.RemoveLocal(id, rec.Kind == hierarchy.KindMission)

	if err := c.missions.DeleteRemote(ctx, rec); err != nil {
		c.log.Error("cascade delete call failed", "id", rec.ID, "error", err)
		out.Failed = append(out.Failed, Failure{ID: rec.ID, Err: err})
	}

	c.log.Info("cascade delete finished",
		"id", id, "tasks", len(out.Tasks.Applied),
		"failures", len(out.Failed)+len(out.Tasks.Failed))
	return out, nil
}

// taskScope returns the submission real ids whose tasks the cascade
// covers. A submission cascades only to itself, never to siblings.
func (c *Coordinator) taskScope(rec hierarchy.Record) []int64 {
	if rec.Kind == hierarchy.KindSubmission {
		return []int64{rec.RealID}
	}
	return c.missions.SubmissionRealIDs(rec.ID)
}

// hierarchyScope returns the records needing individual backend archive
// calls, root first so the parent flips before its children.
func (c *Coordinator) hierarchyScope(rec hierarchy.Record) []hierarchy.Record {
	if rec.Kind == hierarchy.KindSubmission {
		return []hierarchy.Record{rec}
	}
	return append([]hierarchy.Record{rec}, c.missions.SubmissionsOf(rec.ID)...)
}
