// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tasks

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ContextTag is a free-form GTD context such as "@home" or "@work".
// Context tags live client-side only; the backend has no entity for them.
type ContextTag struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

// DefaultContexts returns the seed context list.
func DefaultContexts() []ContextTag {
	return []ContextTag{
		{ID: "c1", Name: "@home", Icon: "🏠"},
		{ID: "c2", Name: "@work", Icon: "💼"},
		{ID: "c3", Name: "@computer", Icon: "💻"},
		{ID: "c4", Name: "@phone", Icon: "📱"},
		{ID: "c5", Name: "@errands", Icon: "🚗"},
		{ID: "c6", Name: "@waiting", Icon: "⏳"},
		{ID: "c7", Name: "@anywhere", Icon: "🌍"},
	}
}

// ContextList persists the user's context tags to a YAML file.
type ContextList struct {
	path string
	tags []ContextTag
}

// LoadContexts reads the context file, falling back to defaults when it
// does not exist yet.
func LoadContexts(path string) (*ContextList, error) {
	cl := &ContextList{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cl.tags = DefaultContexts()
		return cl, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read contexts file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cl.tags); err != nil {
		return nil, fmt.Errorf("failed to parse contexts file: %w", err)
	}
	return cl, nil
}

// All returns a copy of the tags.
func (cl *ContextList) All() []ContextTag {
	return append([]ContextTag(nil), cl.tags...)
}

// Add appends a custom tag with a generated id and persists the list.
func (cl *ContextList) Add(name, icon string) (ContextTag, error) {
	if icon == "" {
		icon = "🏷️"
	}
	tag := ContextTag{ID: uuid.NewString(), Name: name, Icon: icon}
	cl.tags = append(cl.tags, tag)
	return tag, cl.save()
}

// Remove drops a tag by id and persists the list.
func (cl *ContextList) Remove(id string) error {
	kept := cl.tags[:0]
	for _, t := range cl.tags {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	cl.tags = kept
	return cl.save()
}

// Restore resets the list to the defaults and persists it.
func (cl *ContextList) Restore() error {
	cl.tags = DefaultContexts()
	return cl.save()
}

func (cl *ContextList) save() error {
	if err := os.MkdirAll(filepath.Dir(cl.path), 0750); err != nil {
		return fmt.Errorf("failed to create contexts directory: %w", err)
	}
	data, err := yaml.Marshal(cl.tags)
	if err != nil {
		return fmt.Errorf("failed to encode contexts: %w", err)
	}
	if err := os.WriteFile(cl.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write contexts file: %w", err)
	}
	return nil
}
