// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package stats derives progress and review figures from the mission
// and task collections. All computation is local; nothing here talks to
// the backend.
package stats

import (
	"time"

	"github.com/sptm-app/sptm/pkg/hierarchy"
	"github.com/sptm-app/sptm/pkg/tasks"
)

// UnlinkedKey is the bucket key for tasks that reference no submission
// or one that is absent from the loaded hierarchy.
const UnlinkedKey = "unlinked"

// Bucket aggregates task completion for one root mission.
type Bucket struct {
	Key   string // mission composite id, or UnlinkedKey
	Label string
	Total int
	Done  int
}

// Percent returns completion as a whole percentage, 0 for an empty
// bucket.
func (b Bucket) Percent() int {
	if b.Total == 0 {
		return 0
	}
	return b.Done * 100 / b.Total
}

// MissionProgress groups every task under its root mission, resolving
// task -> submission -> mission. Tasks with no link, or a link to a
// submission missing from the hierarchy, land in the unlinked bucket.
// Buckets follow hierarchy order; the unlinked bucket comes last and is
// omitted when empty.
func MissionProgress(records []hierarchy.Record, ts []tasks.Task) []Bucket {
	subToMission := make(map[int64]string)
	var order []string
	byMission := make(map[string]*Bucket)
	for _, r := range records {
		switch r.Kind {
		case hierarchy.KindMission:
			order = append(order, r.ID)
			byMission[r.ID] = &Bucket{Key: r.ID, Label: r.Text}
		case hierarchy.KindSubmission:
			subToMission[r.RealID] = r.ParentID
		}
	}

	unlinked := &Bucket{Key: UnlinkedKey, Label: "Unlinked"}
	for _, t := range ts {
		bucket := unlinked
		if t.MissionID != nil {
			if missionID, ok := subToMission[*t.MissionID]; ok {
				if b, ok := byMission[missionID]; ok {
					bucket = b
				}
			}
		}
		bucket.Total++
		if t.Status == tasks.StatusDone {
			bucket.Done++
		}
	}

	out := make([]Bucket, 0, len(order)+1)
	for _, id := range order {
		out = append(out, *byMission[id])
	}
	if unlinked.Total > 0 {
		out = append(out, *unlinked)
	}
	return out
}

// WeekWindow returns the half-open [start, end) window of the week
// containing ref. Weeks start on Sunday at midnight local time.
func WeekWindow(ref time.Time) (time.Time, time.Time) {
	start := time.Date(ref.Year(), ref.Month(), ref.Day()-int(ref.Weekday()),
		0, 0, 0, 0, ref.Location())
	return start, start.AddDate(0, 0, 7)
}

// WeeklyReview summarizes one Sunday-start week of task activity.
type WeeklyReview struct {
	WeekStart time.Time
	WeekEnd   time.Time
	Completed []tasks.Task
	Created   int
	DueInWeek []tasks.Task
	Overdue   []tasks.Task
}

// BuildWeeklyReview computes the review for the week containing ref.
// Overdue collects open tasks whose due date passed before ref,
// including carryover from earlier weeks.
func BuildWeeklyReview(ts []tasks.Task, ref time.Time) WeeklyReview {
	start, end := WeekWindow(ref)
	rev := WeeklyReview{WeekStart: start, WeekEnd: end}

	for _, t := range ts {
		if done, ok := parseStamp(t.CompletedAt, ref.Location()); ok && inWindow(done, start, end) {
			rev.Completed = append(rev.Completed, t)
		}
		if created, ok := parseStamp(t.CreatedAt, ref.Location()); ok && inWindow(created, start, end) {
			rev.Created++
		}
		if t.IsArchived || t.Status == tasks.StatusDone {
			continue
		}
		due, ok := parseStamp(t.DueDate, ref.Location())
		if !ok {
			continue
		}
		if due.Before(ref) {
			rev.Overdue = append(rev.Overdue, t)
		} else if inWindow(due, start, end) {
			rev.DueInWeek = append(rev.DueInWeek, t)
		}
	}
	return rev
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// parseStamp accepts both backend timestamp shapes: the zone-less
// "2006-01-02T15:04:05" due-date form and RFC 3339.
func parseStamp(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}
