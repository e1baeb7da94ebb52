// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/sptm-app/sptm/pkg/ux"
)

func runMatrix(cmd *cobra.Command, args []string) error {
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

	ux.Info("%s", ux.Matrix(a.tasks.Active()))
	return nil
}
