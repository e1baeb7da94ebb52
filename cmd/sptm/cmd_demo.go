// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/sptm-app/sptm/pkg/demo"
	"github.com/sptm-app/sptm/pkg/ux"
)

func runDemo(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireAuth(); err != nil {
		return err
	}

	ux.Info("seeding sample data, this issues one request per record...")

	// Seeding issues one request per record, so the usual per-command
	// budget is far too small.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	loader := demo.NewLoader(a.missions, a.tasks, a.values, a.log, a.sess.UserID)
	sum, err := loader.Load(ctx, demo.Default())
	if err != nil {
		// Partial progress survives on the backend; say how far we got.
		ux.Warn("seeding stopped early: %d values, %d missions, %d milestones, %d tasks created",
			sum.Values, sum.Missions, sum.Submissions, sum.Tasks)
		return err
	}

	a.saveSnapshot()
	ux.Success("sample data loaded: %d values, %d missions, %d milestones, %d tasks",
		sum.Values, sum.Missions, sum.Submissions, sum.Tasks)
	return nil
}
