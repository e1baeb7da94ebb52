// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package hierarchy

import (
	"context"
	"fmt"
	"sync"

	"github.com/sptm-app/sptm/pkg/api"
	"github.com/sptm-app/sptm/pkg/logging"
)

// Store holds the flat mission/submission collection and mediates all
// mutations against the backend.
//
// Mutations are optimistic: the local collection is patched first and the
// backend call follows. Per the sync model, a failed write is returned to
// the caller and logged but the local patch is not rolled back; the next
// full Load reconciles. The collection is guarded by a mutex since CLI
// commands may fan out concurrent cascade work.
type Store struct {
	mu      sync.Mutex
	client  *api.Client
	log     *logging.Logger
	records []Record
}

// NewStore creates an empty Store over the gateway.
func NewStore(client *api.Client, log *logging.Logger) *Store {
	if log == nil {
		log = logging.Default()
	}
	return &Store{client: client, log: log}
}

// Load fetches the user's mission tree and replaces the local collection
// with its normalized form.
func (s *Store) Load(ctx context.Context, userID int64) error {
	var raw []RawMission
	if err := s.client.Get(ctx, fmt.Sprintf("missions/user/%d", userID), &raw); err != nil {
		return fmt.Errorf("failed to fetch missions: %w", err)
	}
	flat := Normalize(raw)

	s.mu.Lock()
	s.records = flat
	s.mu.Unlock()

	s.log.Debug("missions loaded", "count", len(flat))
	return nil
}

// Replace swaps in an externally sourced collection (e.g. a cached
// snapshot when the backend is unreachable).
func (s *Store) Replace(records []Record) {
	s.mu.Lock()
	s.records = append([]Record(nil), records...)
	s.mu.Unlock()
}

// All returns a copy of the flat collection.
func (s *Store) All() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}

// Get looks up one record by composite id.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// RootMissions returns the parentless records.
func (s *Store) RootMissions() []Record {
	return RootMissions(s.All())
}

// SubmissionsOf returns the children of one mission.
func (s *Store) SubmissionsOf(missionCompositeID string) []Record {
	return SubmissionsOf(s.All(), missionCompositeID)
}

// SubmissionRealIDs returns the bare server ids of a mission's
// submissions, the id list task cascades key on.
func (s *Store) SubmissionRealIDs(missionCompositeID string) []int64 {
	subs := s.SubmissionsOf(missionCompositeID)
	ids := make([]int64, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.RealID)
	}
	return ids
}

// AddMission creates a root mission for the user and appends the
// server-confirmed record to the collection.
func (s *Store) AddMission(ctx context.Context, userID int64, text string) (Record, error) {
	var raw RawMission
	path := fmt.Sprintf("missions?userId=%d", userID)
	if err := s.client.Post(ctx, path, text, &raw); err != nil {
		return Record{}, fmt.Errorf("failed to add mission: %w", err)
	}

	rec := Record{
		ID:       CompositeID(KindMission, raw.ID),
		RealID:   raw.ID,
		Kind:     KindMission,
		Text:     CleanText(firstNonEmpty(raw.Content, text)),
		ParentID: "",
	}
	s.append(rec)
	s.log.Info("mission created", "id", rec.ID)
	return rec, nil
}

// AddSubmission creates a milestone under the given mission (composite
// id) and appends the server-confirmed record.
func (s *Store) AddSubmission(ctx context.Context, parentCompositeID, title string) (Record, error) {
	parentRealID, err := ToRealID(parentCompositeID)
	if err != nil {
		return Record{}, fmt.Errorf("invalid parent mission id: %w", err)
	}

	payload := map[string]any{
		"title":       title,
		"description": "",
		"parentId":    parentRealID,
	}
	var raw RawSubmission
	path := fmt.Sprintf("missions/%d/submissions", parentRealID)
	if err := s.client.Post(ctx, path, payload, &raw); err != nil {
		return Record{}, fmt.Errorf("failed to add submission: %w", err)
	}

	rec := Record{
		ID:       CompositeID(KindSubmission, raw.ID),
		RealID:   raw.ID,
		Kind:     KindSubmission,
		Text:     firstNonEmpty(raw.Title, title),
		ParentID: CompositeID(KindMission, parentRealID),
	}
	s.append(rec)
	s.log.Info("submission created", "id", rec.ID, "parent", rec.ParentID)
	return rec, nil
}

// UpdateText renames a mission or submission. The local record is patched
// before the backend call; a write failure is returned but not rolled
// back.
func (s *Store) UpdateText(ctx context.Context, id, text string) error {
	rec, ok := s.patch(id, func(r *Record) { r.Text = text })
	if !ok {
		return fmt.Errorf("no record with id %q", id)
	}

	var path string
	if rec.Kind == KindSubmission {
		path = fmt.Sprintf("missions/submissions/%d", rec.RealID)
	} else {
		path = fmt.Sprintf("missions/%d", rec.RealID)
	}
	if err := s.client.Put(ctx, path, text, nil); err != nil {
		s.log.Error("failed to update mission text", "id", id, "error", err)
		return err
	}
	return nil
}

// MarkArchived flips the archive flags on one record (and, when
// withChildren is set, its submissions) in local state only. Backend
// archive calls are issued separately so the cascade coordinator controls
// their ordering.
func (s *Store) MarkArchived(id string, withChildren, archived bool, completedAt string) {
	if !archived {
		completedAt = ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id || (withChildren && s.records[i].ParentID == id) {
			s.records[i].IsArchived = archived
			s.records[i].CompletedAt = completedAt
		}
	}
}

// RemoveLocal drops one record (and, when withChildren is set, its
// submissions) from local state. Used by the delete cascade.
func (s *Store) RemoveLocal(id string, withChildren bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	for _, r := range s.records {
		if r.ID == id || (withChildren && r.ParentID == id) {
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
}

// SetArchivedRemote issues the backend archive or unarchive call for one
// record, against the endpoint matching its kind.
func (s *Store) SetArchivedRemote(ctx context.Context, rec Record, archived bool) error {
	verb := "archive"
	if !archived {
		verb = "unarchive"
	}
	var path string
	if rec.Kind == KindSubmission {
		path = fmt.Sprintf("missions/submissions/%d/%s", rec.RealID, verb)
	} else {
		path = fmt.Sprintf("missions/%d/%s", rec.RealID, verb)
	}
	if err := s.client.Put(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("failed to %s %s: %w", verb, rec.ID, err)
	}
	return nil
}

// DeleteRemote issues the backend delete for one record. Deleting a root
// mission cascades to its submissions server-side; tasks do not cascade
// and are the coordinator's responsibility.
func (s *Store) DeleteRemote(ctx context.Context, rec Record) error {
	var path string
	if rec.Kind == KindSubmission {
		path = fmt.Sprintf("missions/submissions/%d", rec.RealID)
	} else {
		path = fmt.Sprintf("missions/%d", rec.RealID)
	}
	if err := s.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", rec.ID, err)
	}
	return nil
}

func (s *Store) append(rec Record) {
	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
}

// patch applies fn to the record with the given id and returns the
// patched copy.
func (s *Store) patch(id string, fn func(*Record)) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			fn(&s.records[i])
			return s.records[i], true
		}
	}
	return Record{}, false
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
