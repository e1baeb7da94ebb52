// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sptm-app/sptm/pkg/hierarchy"
	"github.com/sptm-app/sptm/pkg/stats"
	"github.com/sptm-app/sptm/pkg/tasks"
)

// TaskLine renders one task as a single list row.
func TaskLine(t tasks.Task) string {
	box := "[ ]"
	title := t.Title
	if t.Status == tasks.StatusDone {
		box = Styles.Success.Render("[x]")
		title = Styles.Done.Render(title)
	}

	var meta []string
	if t.Context != "" {
		meta = append(meta, t.Context)
	}
	if t.HasDueDate() {
		meta = append(meta, "due "+strings.SplitN(t.DueDate, "T", 2)[0])
	}
	if t.Urge {
		meta = append(meta, Styles.Warning.Render("urgent"))
	}

	line := fmt.Sprintf("%s %-4d %s", box, t.ID, title)
	if len(meta) > 0 {
		line += "  " + Styles.Muted.Render(strings.Join(meta, " · "))
	}
	return line
}

// TaskList renders tasks one per line, with a muted placeholder for an
// empty list.
func TaskList(ts []tasks.Task) string {
	if len(ts) == 0 {
		return Styles.Muted.Render("no tasks")
	}
	lines := make([]string, 0, len(ts))
	for _, t := range ts {
		lines = append(lines, TaskLine(t))
	}
	return strings.Join(lines, "\n")
}

// MissionTree renders the hierarchy as an indented tree, annotating
// each submission with its open/total task counts.
func MissionTree(records []hierarchy.Record, ts []tasks.Task) string {
	bySub := make(map[int64][]tasks.Task)
	for _, t := range ts {
		if t.MissionID != nil {
			bySub[*t.MissionID] = append(bySub[*t.MissionID], t)
		}
	}

	var b strings.Builder
	for _, m := range hierarchy.RootMissions(records) {
		label := m.Text
		if m.IsArchived {
			label = Styles.Muted.Render(label + " (archived)")
		} else {
			label = Styles.Title.Render(label)
		}
		fmt.Fprintf(&b, "%s  %s\n", label, Styles.Muted.Render(m.ID))

		subs := hierarchy.SubmissionsOf(records, m.ID)
		for i, sub := range subs {
			branch := "├─"
			if i == len(subs)-1 {
				branch = "└─"
			}
			done, total := 0, len(bySub[sub.RealID])
			for _, t := range bySub[sub.RealID] {
				if t.Status == tasks.StatusDone {
					done++
				}
			}
			text := sub.Text
			if sub.IsArchived {
				text = Styles.Muted.Render(text + " (archived)")
			}
			fmt.Fprintf(&b, "  %s %s  %s\n", branch, text,
				Styles.Muted.Render(fmt.Sprintf("%s · %d/%d done", sub.ID, done, total)))
		}
	}
	if b.Len() == 0 {
		return Styles.Muted.Render("no missions")
	}
	return strings.TrimRight(b.String(), "\n")
}

var quadrantTitles = [4]string{
	"Do First (urgent + important)",
	"Schedule (important)",
	"Delegate (urgent)",
	"Eliminate",
}

// quadrantIndex maps the priority pair onto the matrix layout.
func quadrantIndex(t tasks.Task) int {
	switch {
	case t.Urge && t.Imp:
		return 0
	case !t.Urge && t.Imp:
		return 1
	case t.Urge && !t.Imp:
		return 2
	default:
		return 3
	}
}

// Matrix renders active tasks as a 2x2 Eisenhower grid.
func Matrix(ts []tasks.Task) string {
	var cells [4][]string
	for _, t := range ts {
		if t.IsArchived {
			continue
		}
		cells[quadrantIndex(t)] = append(cells[quadrantIndex(t)], TaskLine(t))
	}

	rendered := make([]string, 4)
	for i, lines := range cells {
		body := Styles.Muted.Render("empty")
		if len(lines) > 0 {
			body = strings.Join(lines, "\n")
		}
		rendered[i] = Styles.Quadrant.Render(Styles.Subtitle.Render(quadrantTitles[i]) + "\n" + body)
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], rendered[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, rendered[2], rendered[3])
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

const progressWidth = 24

// ProgressBars renders one completion bar per mission bucket.
func ProgressBars(buckets []stats.Bucket) string {
	if len(buckets) == 0 {
		return Styles.Muted.Render("no data")
	}
	var b strings.Builder
	for _, bucket := range buckets {
		filled := bucket.Percent() * progressWidth / 100
		bar := Styles.Success.Render(strings.Repeat("█", filled)) +
			Styles.Muted.Render(strings.Repeat("░", progressWidth-filled))
		fmt.Fprintf(&b, "%-32s %s %3d%%  %s\n",
			bucket.Label, bar, bucket.Percent(),
			Styles.Muted.Render(fmt.Sprintf("%d/%d", bucket.Done, bucket.Total)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Review renders the weekly review summary.
func Review(rev stats.WeeklyReview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Styles.Title.Render(fmt.Sprintf("Week of %s", rev.WeekStart.Format("Mon Jan 2"))))
	fmt.Fprintf(&b, "completed: %d   created: %d\n\n", len(rev.Completed), rev.Created)

	if len(rev.Overdue) > 0 {
		fmt.Fprintf(&b, "%s\n%s\n\n", Styles.Error.Render("Overdue"), TaskList(rev.Overdue))
	}
	if len(rev.DueInWeek) > 0 {
		fmt.Fprintf(&b, "%s\n%s\n\n", Styles.Warning.Render("Due this week"), TaskList(rev.DueInWeek))
	}
	if len(rev.Completed) > 0 {
		fmt.Fprintf(&b, "%s\n%s\n", Styles.Success.Render("Completed"), TaskList(rev.Completed))
	}
	return strings.TrimRight(b.String(), "\n")
}
