// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session persists the authenticated user's identity between CLI
// invocations: the bearer token and the numeric user id.
//
// The pair lives in ~/.sptm/session.yaml, the CLI analog of the browser's
// local storage in the original web client. Presence of both values gates
// all data fetches; there is no server-side validation round-trip on
// restore beyond normal request auth failures.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Session is the persisted identity.
type Session struct {
	// Token is the bearer token attached to backend requests.
	Token string `yaml:"token"`

	// UserID is the backend's numeric id for the authenticated user.
	UserID int64 `yaml:"user_id"`
}

// Authenticated reports whether the session can gate data fetches.
func (s Session) Authenticated() bool {
	return s.UserID != 0
}

// Store reads and writes the session file.
type Store struct {
	path string
}

// NewStore creates a Store over an explicit file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore creates a Store over ~/.sptm/session.yaml.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return NewStore(filepath.Join(home, ".sptm", "session.yaml")), nil
}

// Load reads the persisted session. A missing file is not an error; it
// returns a zero session, meaning "not logged in".
func (st *Store) Load() (Session, error) {
	data, err := os.ReadFile(st.path)
	if os.IsNotExist(err) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session file: %w", err)
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("failed to parse session file: %w", err)
	}
	return s, nil
}

// Save writes the session, creating the parent directory if needed. The
// file holds a credential, so it is written 0600.
func (st *Store) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0750); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(st.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent session is a no-op.
func (st *Store) Clear() error {
	err := os.Remove(st.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
