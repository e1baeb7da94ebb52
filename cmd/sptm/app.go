// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sptm-app/sptm/cmd/sptm/config"
	"github.com/sptm-app/sptm/pkg/api"
	"github.com/sptm-app/sptm/pkg/cache"
	"github.com/sptm-app/sptm/pkg/cascade"
	"github.com/sptm-app/sptm/pkg/hierarchy"
	"github.com/sptm-app/sptm/pkg/logging"
	"github.com/sptm-app/sptm/pkg/session"
	"github.com/sptm-app/sptm/pkg/tasks"
	"github.com/sptm-app/sptm/pkg/ux"
)

// errNotLoggedIn gates every data command.
var errNotLoggedIn = errors.New("not logged in, run 'sptm login' first")

// app wires the stores for one CLI invocation.
type app struct {
	cfg      config.SPTMConfig
	log      *logging.Logger
	sessions *session.Store
	sess     session.Session
	client   *api.Client

	missions *hierarchy.Store
	tasks    *tasks.Store
	visions  *hierarchy.GuideStore
	values   *hierarchy.GuideStore
	cascades *cascade.Coordinator

	snapshots *cache.Store // nil when the cache is disabled
}

// newApp builds the object graph from the loaded config and the
// persisted session. It does not hit the network.
func newApp() (*app, error) {
	sessions, err := session.DefaultStore()
	if err != nil {
		return nil, err
	}
	sess, err := sessions.Load()
	if err != nil {
		return nil, err
	}

	cfg := config.Global
	client := api.NewClient(cfg.Backend.BaseURL,
		func() string { return sess.Token },
		api.WithTimeout(time.Duration(cfg.Backend.TimeoutSeconds)*time.Second))

	a := &app{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		sess:     sess,
		client:   client,
		missions: hierarchy.NewStore(client, log),
		tasks:    tasks.NewStore(client, log, sess.UserID),
		visions:  hierarchy.NewVisionStore(client, log),
		values:   hierarchy.NewValueStore(client, log),
	}
	a.cascades = cascade.New(a.missions, a.tasks, log)

	if cfg.Cache.Enabled {
		snapshots, err := cache.Open(cfg.Cache.Dir)
		if err != nil {
			// The cache is an optimization, never a blocker.
			log.Warn("snapshot cache unavailable", "error", err)
		} else {
			a.snapshots = snapshots
		}
	}
	return a, nil
}

// Close releases the snapshot database.
func (a *app) Close() {
	if a.snapshots != nil {
		a.snapshots.Close()
	}
}

func (a *app) requireAuth() error {
	if !a.sess.Authenticated() {
		return errNotLoggedIn
	}
	return nil
}

// cmdContext bounds one command's network work.
func (a *app) cmdContext() (context.Context, context.CancelFunc) {
	timeout := time.Duration(a.cfg.Backend.TimeoutSeconds) * time.Second
	// Room for several sequential calls within one command.
	return context.WithTimeout(context.Background(), 4*timeout)
}

// loadData fetches missions and tasks concurrently. When the backend is
// unreachable and a snapshot exists, it falls back to the cached copy
// and tells the user the data may be stale.
func (a *app) loadData(ctx context.Context) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.missions.Load(gctx, a.sess.UserID) })
	g.Go(func() error { return a.tasks.Load(gctx) })
	err := g.Wait()
	if err == nil {
		a.saveSnapshot()
		return nil
	}

	if a.snapshots != nil {
		snap, ok, cacheErr := a.snapshots.Load(a.sess.UserID)
		if cacheErr == nil && ok {
			a.missions.Replace(snap.Missions)
			a.tasks.Replace(snap.Tasks)
			ux.Warn("backend unreachable, showing cached data from %s",
				snap.SavedAt.Local().Format("Jan 2 15:04"))
			a.log.Warn("serving snapshot", "age", snap.Age(time.Now()).Round(time.Second), "error", err)
			return nil
		}
	}
	return fmt.Errorf("failed to load data: %w", err)
}

func (a *app) saveSnapshot() {
	if a.snapshots == nil {
		return
	}
	err := a.snapshots.Save(a.sess.UserID, cache.Snapshot{
		Missions: a.missions.All(),
		Tasks:    a.tasks.All(),
	})
	if err != nil {
		a.log.Warn("failed to write snapshot", "error", err)
	}
}

// reportCascade prints partial-failure detail after a cascade.
func reportCascade(out cascade.Outcome) {
	for _, f := range out.Tasks.Failed {
		ux.Warn("task %d not synced: %v", f.TaskID, f.Err)
	}
	for _, f := range out.Failed {
		ux.Warn("%s not synced: %v", f.ID, f.Err)
	}
	if !out.OK() {
		ux.Warn("local state is updated; a reload will reconcile with the backend")
	}
}
