// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/sptm-app/sptm/pkg/api"
	"github.com/sptm-app/sptm/pkg/hierarchy"
	"github.com/sptm-app/sptm/pkg/logging"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Task is a concrete, schedulable work item.
//
// MissionID, when non-nil, is the linked SUBMISSION's bare server id.
// Tasks never link to root missions; the backend task model has no
// root-mission foreign key. The "submission-" prefix is stripped before
// every write and re-attached (via hierarchy.CompositeID) on every read
// that matches a task back to its submission.
type Task struct {
	ID          int64
	Title       string
	Description string
	DueDate     string
	Context     string
	Status      Status
	Urge        bool
	Imp         bool
	MissionID   *int64
	IsInbox     bool
	IsArchived  bool
	CompletedAt string
	CreatedAt   string
	TimeSpent   int
}

// HasDueDate reports whether the task participates in date-bucketed
// views. Tasks without one remain visible in plain lists.
func (t Task) HasDueDate() bool { return t.DueDate != "" }

// Linked reports whether the task is linked to a submission. Unlinked
// tasks are counted separately in stats aggregations.
func (t Task) Linked() bool { return t.MissionID != nil }

// taskDTO is the backend wire shape.
type taskDTO struct {
	ID          int64  `json:"id,omitempty"`
	UserID      int64  `json:"userId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
	Context     string `json:"context,omitempty"`
	Status      string `json:"status"`
	Priority    string `json:"priority,omitempty"`
	Urgent      bool   `json:"urgent"`
	Important   bool   `json:"important"`
	SubMissionID *int64 `json:"subMissionId"`
	IsInbox     bool   `json:"isInbox"`
	IsArchived  bool   `json:"isArchived"`
	CompletedAt string `json:"completedAt,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	TimeSpent   int    `json:"timeSpent"`
}

// fromDTO decodes the wire shape, including the priority enum into the
// (urge, imp) pair.
func fromDTO(d taskDTO) Task {
	urge, imp := DecodePriority(d.Priority)
	ctx := d.Context
	if ctx == "" {
		ctx = "@home"
	}
	return Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Context:     ctx,
		Status:      decodeStatus(d.Status),
		Urge:        urge,
		Imp:         imp,
		MissionID:   d.SubMissionID,
		IsInbox:     d.IsInbox,
		IsArchived:  d.IsArchived,
		CompletedAt: d.CompletedAt,
		CreatedAt:   d.CreatedAt,
		TimeSpent:   d.TimeSpent,
	}
}

// toDTO encodes a task for a full-record PUT.
func toDTO(t Task, userID int64) taskDTO {
	return taskDTO{
		ID:           t.ID,
		UserID:       userID,
		Title:        t.Title,
		Description:  t.Description,
		DueDate:      NormalizeDueDate(t.DueDate),
		Context:      t.Context,
		Status:       encodeStatus(t.Status),
		Priority:     EncodePriority(t.Urge, t.Imp),
		Urgent:       t.Urge,
		Important:    t.Imp,
		SubMissionID: t.MissionID,
		IsInbox:      t.IsInbox,
		IsArchived:   t.IsArchived,
		CompletedAt:  t.CompletedAt,
		CreatedAt:    t.CreatedAt,
		TimeSpent:    t.TimeSpent,
	}
}

// Input is the caller-facing shape for task creation.
type Input struct {
	Title       string `validate:"required"`
	Description string
	DueDate     string
	Context     string `validate:"omitempty,startswith=@"`
	Urge        bool
	Imp         bool

	// MissionRef links the task to a submission. Accepts a composite
	// submission id ("submission-22"), a bare numeric id, or "". A root
	// mission composite id silently drops the link (root missions cannot
	// own tasks).
	MissionRef string

	IsInbox bool
}

// ResolveSubmissionLink turns a caller-supplied mission reference into
// the bare submission id the backend stores, or nil for no link. Garbage
// references fail with hierarchy.ErrUnknownComposite.
func ResolveSubmissionLink(ref string) (*int64, error) {
	if ref == "" {
		return nil, nil
	}
	if kind, ok := hierarchy.KindOf(ref); ok && kind == hierarchy.KindMission {
		// Root missions cannot own tasks; drop the link.
		return nil, nil
	}
	id, err := hierarchy.ToRealID(ref)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Patch carries partial changes for Update. Nil fields are left alone.
// Clearing a string field is expressed by a pointer to "".
type Patch struct {
	Title       *string
	Description *string
	DueDate     *string
	Context     *string
	Status      *Status
	Urge        *bool
	Imp         *bool
	MissionRef  *string
	IsInbox     *bool
	IsArchived  *bool
	CompletedAt *string
}

// CascadeFailure records one task-level backend failure inside a cascade.
type CascadeFailure struct {
	TaskID int64
	Err    error
}

// CascadeOutcome reports which tasks a cascade touched and which backend
// calls failed. Failures never abort the remaining items; the caller
// decides what to surface.
type CascadeOutcome struct {
	Applied []int64
	Failed  []CascadeFailure
}

// Store holds the in-memory task collection and mediates mutations
// against the backend.
//
// Mutations are optimistic: local state is patched before the backend
// call and is not rolled back on failure; the error is returned and
// logged and the next full Load reconciles.
type Store struct {
	mu     sync.Mutex
	client *api.Client
	log    *logging.Logger
	userID int64
	tasks  []Task
	now    func() time.Time
}

// NewStore creates an empty Store bound to one user id. The explicit
// user id parameter (rather than an ambient lookup per call) keeps the
// store testable and multi-session capable.
func NewStore(client *api.Client, log *logging.Logger, userID int64) *Store {
	if log == nil {
		log = logging.Default()
	}
	return &Store{client: client, log: log, userID: userID, now: time.Now}
}

// Load fetches the user's tasks and replaces the local collection.
func (s *Store) Load(ctx context.Context) error {
	var dtos []taskDTO
	if err := s.client.Get(ctx, fmt.Sprintf("tasks/user/%d", s.userID), &dtos); err != nil {
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}
	fetched := make([]Task, 0, len(dtos))
	for _, d := range dtos {
		fetched = append(fetched, fromDTO(d))
	}

	s.mu.Lock()
	s.tasks = fetched
	s.mu.Unlock()

	s.log.Debug("tasks loaded", "count", len(fetched))
	return nil
}

// Replace swaps in an externally sourced collection (cached snapshot).
func (s *Store) Replace(tasks []Task) {
	s.mu.Lock()
	s.tasks = append([]Task(nil), tasks...)
	s.mu.Unlock()
}

// All returns a copy of the collection.
func (s *Store) All() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.tasks...)
}

// Active returns unarchived tasks.
func (s *Store) Active() []Task {
	return s.filter(func(t Task) bool { return !t.IsArchived })
}

// Archived returns soft-deleted tasks.
func (s *Store) Archived() []Task {
	return s.filter(func(t Task) bool { return t.IsArchived })
}

// Inbox returns untriaged, unarchived tasks.
func (s *Store) Inbox() []Task {
	return s.filter(func(t Task) bool { return t.IsInbox && !t.IsArchived })
}

// Unlinked returns tasks with no submission link.
func (s *Store) Unlinked() []Task {
	return s.filter(func(t Task) bool { return !t.Linked() })
}

// BySubmission returns tasks linked to the given submission server id.
func (s *Store) BySubmission(realID int64) []Task {
	return s.filter(func(t Task) bool { return t.MissionID != nil && *t.MissionID == realID })
}

// Get looks up one task by id.
func (s *Store) Get(id int64) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Create validates the input, encodes it for the backend, POSTs it, and
// appends the server-confirmed record to local state. The returned task
// carries the decoded priority pair and the server-assigned id.
func (s *Store) Create(ctx context.Context, in Input) (Task, error) {
	if err := validate.Struct(in); err != nil {
		return Task{}, fmt.Errorf("invalid task input: %w", err)
	}

	missionID, err := ResolveSubmissionLink(in.MissionRef)
	if err != nil {
		return Task{}, fmt.Errorf("invalid mission link %q: %w", in.MissionRef, err)
	}
	if missionID == nil && strings.HasPrefix(in.MissionRef, "mission-") {
		s.log.Debug("dropping root-mission task link", "ref", in.MissionRef)
	}

	ctxTag := in.Context
	if ctxTag == "" {
		ctxTag = "@home"
	}
	payload := taskDTO{
		UserID:       s.userID,
		Title:        in.Title,
		Description:  in.Description,
		DueDate:      NormalizeDueDate(in.DueDate),
		Context:      ctxTag,
		Status:       backendNotStarted,
		Priority:     EncodePriority(in.Urge, in.Imp),
		Urgent:       in.Urge,
		Important:    in.Imp,
		SubMissionID: missionID,
		IsInbox:      in.IsInbox,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}

	var created taskDTO
	if err := s.client.Post(ctx, "tasks", payload, &created); err != nil {
		return Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	task := fromDTO(created)
	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	s.log.Info("task created", "task_id", task.ID, "linked", task.Linked())
	return task, nil
}

// Update merges the patch onto the current in-memory record (clients
// never diff against server state), applies the local patch first, then
// PUTs the fully merged record. The local patch is not rolled back on
// failure.
func (s *Store) Update(ctx context.Context, id int64, p Patch) (Task, error) {
	merged, err := s.applyPatch(id, p)
	if err != nil {
		return Task{}, err
	}

	if err := s.client.Put(ctx, fmt.Sprintf("tasks/%d", id), toDTO(merged, s.userID), nil); err != nil {
		s.log.Error("failed to update task", "task_id", id, "error", err)
		return merged, err
	}
	return merged, nil
}

// ToggleStatus flips todo<->done, stamping CompletedAt on the done
// transition and clearing it on the undone transition.
func (s *Store) ToggleStatus(ctx context.Context, id int64) (Task, error) {
	current, ok := s.Get(id)
	if !ok {
		return Task{}, fmt.Errorf("no task with id %d", id)
	}

	var p Patch
	if current.Status == StatusDone {
		p.Status = ptr(StatusTodo)
		p.CompletedAt = ptr("")
	} else {
		p.Status = ptr(StatusDone)
		p.CompletedAt = ptr(s.now().UTC().Format(time.RFC3339))
	}
	return s.Update(ctx, id, p)
}

// Archive soft-deletes a task.
func (s *Store) Archive(ctx context.Context, id int64) (Task, error) {
	return s.Update(ctx, id, Patch{
		IsArchived:  ptr(true),
		CompletedAt: ptr(s.now().UTC().Format(time.RFC3339)),
	})
}

// Unarchive restores a task to the active, open state.
func (s *Store) Unarchive(ctx context.Context, id int64) (Task, error) {
	return s.Update(ctx, id, Patch{
		IsArchived:  ptr(false),
		Status:      ptr(StatusTodo),
		CompletedAt: ptr(""),
	})
}

// DeletePermanently removes the task locally, then issues the DELETE.
// There is no rollback on failure; the record reappears on the next full
// Load.
func (s *Store) DeletePermanently(ctx context.Context, id int64) error {
	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.mu.Unlock()

	if err := s.client.Delete(ctx, fmt.Sprintf("tasks/%d", id)); err != nil {
		s.log.Error("failed to delete task", "task_id", id, "error", err)
		return err
	}
	return nil
}

// CascadeArchiveBySubmissionIDs archives every task linked to one of the
// given submission ids. Backend calls are dispatched concurrently;
// per-item failures are logged, collected, and do not abort the rest.
// Used only by the cascade coordinator, never directly by views.
func (s *Store) CascadeArchiveBySubmissionIDs(ctx context.Context, realIDs []int64) CascadeOutcome {
	now := s.now().UTC().Format(time.RFC3339)
	return s.cascade(ctx, realIDs, func(ctx context.Context, id int64) error {
		_, err := s.Update(ctx, id, Patch{IsArchived: ptr(true), CompletedAt: ptr(now)})
		return err
	})
}

// CascadeUnarchiveBySubmissionIDs is the inverse of
// CascadeArchiveBySubmissionIDs.
func (s *Store) CascadeUnarchiveBySubmissionIDs(ctx context.Context, realIDs []int64) CascadeOutcome {
	return s.cascade(ctx, realIDs, func(ctx context.Context, id int64) error {
		_, err := s.Update(ctx, id, Patch{
			IsArchived:  ptr(false),
			Status:      ptr(StatusTodo),
			CompletedAt: ptr(""),
		})
		return err
	})
}

// CascadeDeleteBySubmissionIDs permanently deletes every task linked to
// one of the given submission ids.
func (s *Store) CascadeDeleteBySubmissionIDs(ctx context.Context, realIDs []int64) CascadeOutcome {
	return s.cascade(ctx, realIDs, s.DeletePermanently)
}

// cascade applies op to every task whose MissionID is in realIDs,
// dispatching backend calls concurrently. Any one failure is captured
// per-item and the batch continues.
func (s *Store) cascade(ctx context.Context, realIDs []int64, op func(context.Context, int64) error) CascadeOutcome {
	idSet := make(map[int64]bool, len(realIDs))
	for _, id := range realIDs {
		idSet[id] = true
	}

	var targets []int64
	for _, t := range s.All() {
		if t.MissionID != nil && idSet[*t.MissionID] {
			targets = append(targets, t.ID)
		}
	}

	outcome := CascadeOutcome{}
	var outcomeMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, taskID := range targets {
		g.Go(func() error {
			err := op(gctx, taskID)
			outcomeMu.Lock()
			defer outcomeMu.Unlock()
			if err != nil {
				s.log.Warn("cascade item failed", "task_id", taskID, "error", err)
				outcome.Failed = append(outcome.Failed, CascadeFailure{TaskID: taskID, Err: err})
				return nil // best effort: never abort the batch
			}
			outcome.Applied = append(outcome.Applied, taskID)
			return nil
		})
	}
	g.Wait()
	return outcome
}

func (s *Store) filter(keep func(Task) bool) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Task
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// applyPatch merges p onto the stored task and returns the merged copy.
func (s *Store) applyPatch(id int64, p Patch) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		t := &s.tasks[i]
		if p.Title != nil {
			t.Title = *p.Title
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		if p.DueDate != nil {
			t.DueDate = *p.DueDate
		}
		if p.Context != nil {
			t.Context = *p.Context
		}
		if p.Status != nil {
			t.Status = *p.Status
		}
		if p.Urge != nil {
			t.Urge = *p.Urge
		}
		if p.Imp != nil {
			t.Imp = *p.Imp
		}
		if p.MissionRef != nil {
			missionID, err := ResolveSubmissionLink(*p.MissionRef)
			if err != nil {
				return Task{}, fmt.Errorf("invalid mission link %q: %w", *p.MissionRef, err)
			}
			t.MissionID = missionID
		}
		if p.IsInbox != nil {
			t.IsInbox = *p.IsInbox
		}
		if p.IsArchived != nil {
			t.IsArchived = *p.IsArchived
		}
		if p.CompletedAt != nil {
			t.CompletedAt = *p.CompletedAt
		}
		return *t, nil
	}
	return Task{}, fmt.Errorf("no task with id %d", id)
}

func ptr[T any](v T) *T { return &v }
