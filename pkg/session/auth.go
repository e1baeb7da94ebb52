// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"fmt"

	"github.com/sptm-app/sptm/pkg/api"
)

// Account is the backend's response to a successful login.
type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// Login exchanges credentials for an account with a bearer token. The
// client must be unauthenticated; the token comes from the response.
func Login(ctx context.Context, client *api.Client, email, password string) (Account, error) {
	var acct Account
	body := map[string]string{"email": email, "password": password}
	if err := client.Post(ctx, "auth/login", body, &acct); err != nil {
		return Account{}, fmt.Errorf("login failed: %w", err)
	}
	if acct.Token == "" || acct.ID == 0 {
		return Account{}, fmt.Errorf("login response missing token or user id")
	}
	return acct, nil
}

// Register creates a new account. The backend expects a follow-up login;
// no token is returned.
func Register(ctx context.Context, client *api.Client, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := client.Post(ctx, "auth/register", body, nil); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}
