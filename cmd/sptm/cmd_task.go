// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sptm-app/sptm/cmd/sptm/config"
	"github.com/sptm-app/sptm/pkg/hierarchy"
	"github.com/sptm-app/sptm/pkg/tasks"
	"github.com/sptm-app/sptm/pkg/ux"
)

func runTaskList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := a.cmdContext()
	defer cancel()
	if err := a.loadData(ctx); err != nil {
		return err
	}

	list := a.tasks.Active()
	switch {
	case showArchived:
		list = a.tasks.Archived()
	case filterInbox:
		list = a.tasks.Inbox()
	case filterUnlinked:
		list = a.tasks.Unlinked()
	case filterSub != "":
		realID, err := hierarchy.ToRealID(filterSub)
		if err != nil {
			return err
		}
		list = a.tasks.BySubmission(realID)
	}
	if filterContext != "" {
		var kept []tasks.Task
		for _, t := range list {
			if t.Context == filterContext {
				kept = append(kept, t)
			}
		}
		list = kept
	}

	ux.Info("%s", ux.TaskList(list))
	return nil
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireAuth(); err != nil {
		return err
	}

	ctx, cancel := a.cmdContext()
	defer cancel()

	task, err := a.tasks.Create(ctx, tasks.Input{
		Title:       strings.Join(args, " "),
		Description: taskDesc,
		DueDate:     taskDue,
		Context:     taskContext,
		Urge:        taskUrgent,
		Imp:         taskImportant,
		MissionRef:  taskMission,
	})
	if err != nil {
		return err
	}
	if taskMission != "" && !task.Linked() {
		ux.Warn("link %q was dropped: tasks attach to milestones, not root missions", taskMission)
	}
	ux.Success("task %d created", task.ID)
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := a.cmdContext()
	defer cancel()
	if err := a.loadData(ctx); err != nil {
		return err
	}

	id, err := parseNumericID(args[0])
	if err != nil {
		return err
	}
	task, err := a.tasks.ToggleStatus(ctx, id)
	if err != nil {
		return err
	}
	a.saveSnapshot()
	if task.Status == tasks.StatusDone {
		ux.Success("task %d done", id)
	} else {
		ux.Success("task %d reopened", id)
	}
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := a.cmdContext()
	defer cancel()
	if err := a.loadData(ctx); err != nil {
		return err
	}

	id, err := parseNumericID(args[0])
	if err != nil {
		return err
	}

	var p tasks.Patch
	flags := cmd.Flags()
	if flags.Changed("title") {
		p.Title = &taskTitle
	}
	if flags.Changed("due") {
		due := tasks.NormalizeDueDate(taskDue)
		p.DueDate = &due
	}
	if flags.Changed("context") {
		p.Context = &taskContext
	}
	if flags.Changed("desc") {
		p.Description = &taskDesc
	}
	if flags.Changed("urgent") {
		p.Urge = &taskUrgent
	}
	if flags.Changed("important") {
		p.Imp = &taskImportant
	}

	if _, err := a.tasks.Update(ctx, id, p); err != nil {
		return err
	}
	a.saveSnapshot()
	ux.Success("task %d updated", id)
	return nil
}

func runTaskArchive(cmd *cobra.Command, args []string) error {
	return runTaskLifecycle(args[0], "archived", func(a *app, id int64) error {
		ctx, cancel := a.cmdContext()
		defer cancel()
		_, err := a.tasks.Archive(ctx, id)
		return err
	})
}

func runTaskUnarchive(cmd *cobra.Command, args []string) error {
	return runTaskLifecycle(args[0], "restored", func(a *app, id int64) error {
		ctx, cancel := a.cmdContext()
		defer cancel()
		_, err := a.tasks.Unarchive(ctx, id)
		return err
	})
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	return runTaskLifecycle(args[0], "deleted", func(a *app, id int64) error {
		ctx, cancel := a.cmdContext()
		defer cancel()
		return a.tasks.DeletePermanently(ctx, id)
	})
}

func runTaskLifecycle(rawID, verb string, op func(*app, int64) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := a.cmdContext()
	defer cancel()
	if err := a.loadData(ctx); err != nil {
		return err
	}

	id, err := parseNumericID(rawID)
	if err != nil {
		return err
	}
	if err := op(a, id); err != nil {
		return err
	}
	a.saveSnapshot()
	ux.Success("task %d %s", id, verb)
	return nil
}

// --- Context tag commands ---

func runContextList(cmd *cobra.Command, args []string) error {
	cl, err := loadContextList()
	if err != nil {
		return err
	}
	for _, tag := range cl.All() {
		ux.Info("%-38s %s %s", tag.ID, tag.Icon, tag.Name)
	}
	return nil
}

func runContextAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	if !strings.HasPrefix(name, "@") {
		name = "@" + name
	}
	cl, err := loadContextList()
	if err != nil {
		return err
	}
	tag, err := cl.Add(name, contextIcon)
	if err != nil {
		return err
	}
	ux.Success("context %s added (%s)", tag.Name, tag.ID)
	return nil
}

func runContextRemove(cmd *cobra.Command, args []string) error {
	cl, err := loadContextList()
	if err != nil {
		return err
	}
	if err := cl.Remove(args[0]); err != nil {
		return err
	}
	ux.Success("context removed")
	return nil
}

func runContextReset(cmd *cobra.Command, args []string) error {
	cl, err := loadContextList()
	if err != nil {
		return err
	}
	if err := cl.Restore(); err != nil {
		return err
	}
	ux.Success("contexts restored to defaults")
	return nil
}

// loadContextList reads the context tag file named by the config, which
// the root command loaded before any RunE fires.
func loadContextList() (*tasks.ContextList, error) {
	return tasks.LoadContexts(config.Global.ContextsFile)
}
