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

// Guide is a flat, unnested text record: a long-term vision statement or
// a core value. Guides sit above the mission hierarchy and never link to
// tasks.
type Guide struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// GuideStore manages one of the two guide collections. The backend
// resource name ("visions" or "core-values") selects which.
type GuideStore struct {
	mu       sync.Mutex
	client   *api.Client
	log      *logging.Logger
	resource string
	guides   []Guide
}

// NewVisionStore creates a GuideStore over the visions resource.
func NewVisionStore(client *api.Client, log *logging.Logger) *GuideStore {
	return newGuideStore(client, log, "visions")
}

// NewValueStore creates a GuideStore over the core-values resource.
func NewValueStore(client *api.Client, log *logging.Logger) *GuideStore {
	return newGuideStore(client, log, "core-values")
}

func newGuideStore(client *api.Client, log *logging.Logger, resource string) *GuideStore {
	if log == nil {
		log = logging.Default()
	}
	return &GuideStore{client: client, log: log, resource: resource}
}

// Load fetches the user's guides.
func (g *GuideStore) Load(ctx context.Context, userID int64) error {
	var fetched []Guide
	if err := g.client.Get(ctx, fmt.Sprintf("%s/user/%d", g.resource, userID), &fetched); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", g.resource, err)
	}
	g.mu.Lock()
	g.guides = fetched
	g.mu.Unlock()
	return nil
}

// All returns a copy of the collection.
func (g *GuideStore) All() []Guide {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Guide(nil), g.guides...)
}

// Add creates a guide and appends the server-confirmed record.
func (g *GuideStore) Add(ctx context.Context, userID int64, text string) (Guide, error) {
	var created Guide
	path := fmt.Sprintf("%s?userId=%d", g.resource, userID)
	if err := g.client.Post(ctx, path, map[string]string{"text": text}, &created); err != nil {
		return Guide{}, fmt.Errorf("failed to add %s entry: %w", g.resource, err)
	}
	g.mu.Lock()
	g.guides = append(g.guides, created)
	g.mu.Unlock()
	return created, nil
}

// Update rewrites a guide's text, optimistically.
func (g *GuideStore) Update(ctx context.Context, id int64, text string) error {
	g.mu.Lock()
	for i := range g.guides {
		if g.guides[i].ID == id {
			g.guides[i].Text = text
			break
		}
	}
	g.mu.Unlock()

	path := fmt.Sprintf("%s/%d", g.resource, id)
	if err := g.client.Put(ctx, path, map[string]string{"text": text}, nil); err != nil {
		g.log.Error("failed to update guide", "resource", g.resource, "id", id, "error", err)
		return err
	}
	return nil
}

// Delete removes a guide, optimistically.
func (g *GuideStore) Delete(ctx context.Context, id int64) error {
	g.mu.Lock()
	kept := g.guides[:0]
	for _, v := range g.guides {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	g.guides = kept
	g.mu.Unlock()

	if err := g.client.Delete(ctx, fmt.Sprintf("%s/%d", g.resource, id)); err != nil {
		g.log.Error("failed to delete guide", "resource", g.resource, "id", id, "error", err)
		return err
	}
	return nil
}
