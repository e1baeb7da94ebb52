// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sptm-app/sptm/pkg/cascade"
	"github.com/sptm-app/sptm/pkg/hierarchy"
	"github.com/sptm-app/sptm/pkg/ux"
)

func runMissionList(cmd *cobra.Command, args []string) error {
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

	records := a.missions.All()
	if !showArchived {
		var active []hierarchy.Record
		for _, r := range records {
			if !r.IsArchived {
				active = append(active, r)
			}
		}
		records = active
	}
	ux.Info("%s", ux.MissionTree(records, a.tasks.All()))
	return nil
}

func runMissionAdd(cmd *cobra.Command, args []string) error {
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

	rec, err := a.missions.AddMission(ctx, a.sess.UserID, strings.Join(args, " "))
	if err != nil {
		return err
	}
	ux.Success("mission %s created: %s", rec.ID, rec.Text)
	return nil
}

func runMissionSub(cmd *cobra.Command, args []string) error {
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

	rec, err := a.missions.AddSubmission(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	ux.Success("milestone %s created under %s", rec.ID, rec.ParentID)
	return nil
}

func runMissionRename(cmd *cobra.Command, args []string) error {
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

	if err := a.missions.UpdateText(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
		return err
	}
	a.saveSnapshot()
	ux.Success("%s renamed", args[0])
	return nil
}

func runMissionArchive(cmd *cobra.Command, args []string) error {
	return runMissionCascade(args[0], true)
}

func runMissionUnarchive(cmd *cobra.Command, args []string) error {
	return runMissionCascade(args[0], false)
}

func runMissionCascade(id string, archive bool) error {
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

	var out cascade.Outcome
	if archive {
		out, err = a.cascades.Archive(ctx, id)
	} else {
		out, err = a.cascades.Unarchive(ctx, id)
	}
	if err != nil {
		return err
	}
	a.saveSnapshot()
	reportCascade(out)

	verb := "archived"
	if !archive {
		verb = "restored"
	}
	ux.Success("%s %s (%d tasks)", id, verb, len(out.Tasks.Applied))
	return nil
}

func runMissionDelete(cmd *cobra.Command, args []string) error {
	if !deleteForce {
		return errors.New("permanent deletion requires --force")
	}

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

	out, err := a.cascades.Delete(ctx, args[0])
	if err != nil {
		return err
	}
	a.saveSnapshot()
	reportCascade(out)
	ux.Success("%s deleted (%d tasks removed)", args[0], len(out.Tasks.Applied))
	return nil
}

// guideKind selects which GuideStore a command operates on.
type guideKind int

const (
	guideVision guideKind = iota
	guideValue
)

func (a *app) guides(kind guideKind) *hierarchy.GuideStore {
	if kind == guideVision {
		return a.visions
	}
	return a.values
}

// addGuideCommands wires the shared list/add/edit/rm subcommands onto a
// guide parent command.
func addGuideCommands(parent *cobra.Command, kind guideKind) {
	parent.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGuideList(kind)
		},
	})
	parent.AddCommand(&cobra.Command{
		Use:   "add [text]",
		Short: "Add an entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGuideAdd(kind, strings.Join(args, " "))
		},
	})
	parent.AddCommand(&cobra.Command{
		Use:   "edit [id] [text]",
		Short: "Rewrite an entry",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGuideEdit(kind, args[0], strings.Join(args[1:], " "))
		},
	})
	parent.AddCommand(&cobra.Command{
		Use:   "rm [id]",
		Short: "Remove an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGuideRemove(kind, args[0])
		},
	})
}

func runGuideList(kind guideKind) error {
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
	if err := a.guides(kind).Load(ctx, a.sess.UserID); err != nil {
		return err
	}
	entries := a.guides(kind).All()
	if len(entries) == 0 {
		ux.Info("no entries")
		return nil
	}
	for _, g := range entries {
		ux.Info("%-4d %s", g.ID, g.Text)
	}
	return nil
}

func runGuideAdd(kind guideKind, text string) error {
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
	g, err := a.guides(kind).Add(ctx, a.sess.UserID, text)
	if err != nil {
		return err
	}
	ux.Success("entry %d added", g.ID)
	return nil
}

func runGuideEdit(kind guideKind, rawID, text string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireAuth(); err != nil {
		return err
	}

	id, err := parseNumericID(rawID)
	if err != nil {
		return err
	}
	ctx, cancel := a.cmdContext()
	defer cancel()
	if err := a.guides(kind).Update(ctx, id, text); err != nil {
		return err
	}
	ux.Success("entry %d updated", id)
	return nil
}

func runGuideRemove(kind guideKind, rawID string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireAuth(); err != nil {
		return err
	}

	id, err := parseNumericID(rawID)
	if err != nil {
		return err
	}
	ctx, cancel := a.cmdContext()
	defer cancel()
	if err := a.guides(kind).Delete(ctx, id); err != nil {
		return err
	}
	ux.Success("entry %d removed", id)
	return nil
}

func parseNumericID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: expected a number", raw)
	}
	return id, nil
}
