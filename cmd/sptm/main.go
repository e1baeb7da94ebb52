// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"

	"github.com/sptm-app/sptm/pkg/logging"
	"github.com/sptm-app/sptm/pkg/ux"
)

// log is the process-wide logger, initialized in the root command's
// PersistentPreRunE once the config is loaded.
var log = logging.Default()

func main() {
	defer func() { log.Close() }()
	if err := rootCmd.Execute(); err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}
}
