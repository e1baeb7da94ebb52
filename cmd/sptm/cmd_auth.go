// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sptm-app/sptm/pkg/session"
	"github.com/sptm-app/sptm/pkg/ux"
)

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var email, password string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Email").
			Value(&email).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("email is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Validate(func(s string) error {
				if s == "" {
					return errors.New("password is required")
				}
				return nil
			}),
	))
	if err := form.Run(); err != nil {
		return err
	}

	ctx, cancel := a.cmdContext()
	defer cancel()

	acct, err := session.Login(ctx, a.client, strings.TrimSpace(email), password)
	if err != nil {
		return err
	}
	if err := a.sessions.Save(session.Session{Token: acct.Token, UserID: acct.ID}); err != nil {
		return err
	}

	a.log.Info("logged in", "user_id", acct.ID)
	ux.Success("logged in as %s (user %d)", acct.Username, acct.ID)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var username, email, password, confirm string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Username").Value(&username).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("username is required")
				}
				return nil
			}),
		huh.NewInput().Title("Email").Value(&email).
			Validate(func(s string) error {
				if !strings.Contains(s, "@") {
					return errors.New("enter a valid email")
				}
				return nil
			}),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password).
			Validate(func(s string) error {
				if len(s) < 4 {
					return errors.New("password is too short")
				}
				return nil
			}),
		huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	ctx, cancel := a.cmdContext()
	defer cancel()

	if err := session.Register(ctx, a.client, strings.TrimSpace(username), strings.TrimSpace(email), password); err != nil {
		return err
	}
	ux.Success("account created, run 'sptm login' to sign in")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.snapshots != nil && a.sess.Authenticated() {
		if err := a.snapshots.Clear(a.sess.UserID); err != nil {
			a.log.Warn("failed to clear snapshot", "error", err)
		}
	}
	if err := a.sessions.Clear(); err != nil {
		return err
	}
	ux.Success("logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.sess.Authenticated() {
		ux.Info("not logged in")
		return nil
	}
	ux.Info("user %d @ %s", a.sess.UserID, a.cfg.Backend.BaseURL)
	return nil
}
