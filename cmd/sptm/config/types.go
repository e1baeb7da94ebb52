// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
)

type SPTMConfig struct {
	// Backend: where the planning API lives
	Backend BackendConfig `yaml:"backend"`

	// Logging: level and destination for the CLI's own logs
	Logging LoggingConfig `yaml:"logging"`

	// Cache: local snapshot store for offline reads
	Cache CacheConfig `yaml:"cache"`

	// ContextsFile: where custom GTD context tags are stored
	ContextsFile string `yaml:"contexts_file"`
}

type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`        // e.g. https://sptm-backend.example.com
	TimeoutSeconds int    `yaml:"timeout_seconds"` // per-request timeout, 0 means the default
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Dir   string `yaml:"dir"`   // empty disables file logging
	JSON  bool   `yaml:"json"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

func DefaultConfig() SPTMConfig {
	base := ".sptm"
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, ".sptm")
	}
	return SPTMConfig{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   filepath.Join(base, "logs"),
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     filepath.Join(base, "cache"),
		},
		ContextsFile: filepath.Join(base, "contexts.yaml"),
	}
}
