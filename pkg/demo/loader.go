// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/sptm-app/sptm/pkg/hierarchy"
	"github.com/sptm-app/sptm/pkg/logging"
	"github.com/sptm-app/sptm/pkg/tasks"
)

// Summary counts what a load created.
type Summary struct {
	Values      int
	Missions    int
	Submissions int
	Tasks       int
}

// Loader seeds the sample data through the regular stores, so every
// record goes through the same validation and encoding as user input.
type Loader struct {
	missions *hierarchy.Store
	tasks    *tasks.Store
	values   *hierarchy.GuideStore
	log      *logging.Logger
	userID   int64
	now      func() time.Time
}

// NewLoader creates a Loader bound to one user.
func NewLoader(missions *hierarchy.Store, taskStore *tasks.Store, values *hierarchy.GuideStore, log *logging.Logger, userID int64) *Loader {
	if log == nil {
		log = logging.Default()
	}
	return &Loader{
		missions: missions,
		tasks:    taskStore,
		values:   values,
		log:      log,
		userID:   userID,
		now:      time.Now,
	}
}

// Load seeds ds in dependency order: values, then each mission with its
// submissions and their tasks, then the loose tasks. Creation stops at
// the first error; records created before it remain.
func (l *Loader) Load(ctx context.Context, ds DataSet) (Summary, error) {
	var sum Summary

	for _, text := range ds.Values {
		if _, err := l.values.Add(ctx, l.userID, text); err != nil {
			return sum, fmt.Errorf("failed to seed value %q: %w", text, err)
		}
		sum.Values++
	}

	for _, m := range ds.Missions {
		root, err := l.missions.AddMission(ctx, l.userID, m.Text)
		if err != nil {
			return sum, fmt.Errorf("failed to seed mission %q: %w", m.Text, err)
		}
		sum.Missions++

		for _, sub := range m.Submissions {
			created, err := l.missions.AddSubmission(ctx, root.ID, sub.Title)
			if err != nil {
				return sum, fmt.Errorf("failed to seed submission %q: %w", sub.Title, err)
			}
			sum.Submissions++

			for _, seed := range sub.Tasks {
				if err := l.seedTask(ctx, seed, created.ID); err != nil {
					return sum, err
				}
				sum.Tasks++
			}
		}
	}

	for _, seed := range ds.Loose {
		if err := l.seedTask(ctx, seed, ""); err != nil {
			return sum, err
		}
		sum.Tasks++
	}

	l.log.Info("demo data loaded",
		"values", sum.Values, "missions", sum.Missions,
		"submissions", sum.Submissions, "tasks", sum.Tasks)
	return sum, nil
}

func (l *Loader) seedTask(ctx context.Context, seed TaskSeed, missionRef string) error {
	due := l.now().AddDate(0, 0, seed.DueOffset).Format("2006-01-02")
	task, err := l.tasks.Create(ctx, tasks.Input{
		Title:      seed.Title,
		Context:    seed.Context,
		DueDate:    due,
		Urge:       seed.Urge,
		Imp:        seed.Imp,
		MissionRef: missionRef,
	})
	if err != nil {
		return fmt.Errorf("failed to seed task %q: %w", seed.Title, err)
	}

	if seed.Done {
		if _, err := l.tasks.ToggleStatus(ctx, task.ID); err != nil {
			return fmt.Errorf("failed to complete seeded task %q: %w", seed.Title, err)
		}
	}
	if seed.Archived {
		if _, err := l.tasks.Archive(ctx, task.ID); err != nil {
			return fmt.Errorf("failed to archive seeded task %q: %w", seed.Title, err)
		}
	}
	return nil
}
