// Copyright (C) 2025 SPTM Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package api implements the remote data gateway: a uniform JSON
// GET/POST/PUT/DELETE wrapper over the planning backend's REST API.
//
// Every request carries "Authorization: Bearer <token>" when the token
// source yields one; a missing token is not an error at this level since
// some endpoints are public. Non-2xx responses surface as *api.Error with
// the HTTP status and, when the body parses as JSON with an "error" field,
// the server-supplied message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request. The backend free tier sleeps when
// idle and can take tens of seconds to wake, so this is deliberately long.
const DefaultTimeout = 30 * time.Second

// TokenSource yields the current bearer token, or "" when the user has no
// session. Injected so the gateway never reads ambient session state.
type TokenSource func() string

// Error is the typed failure returned for non-2xx responses.
type Error struct {
	// StatusCode is the HTTP status code of the failed response.
	StatusCode int

	// Status is the HTTP status text, e.g. "404 Not Found".
	Status string

	// Message is the server-supplied error detail extracted from a JSON
	// {"error": "..."} body, or the raw body when it is short plain text.
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: %s - %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Status)
}

// IsNotFound reports whether err is an *Error with status 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is the gateway to the backend REST API.
//
// Client is safe for concurrent use; it holds no mutable state beyond the
// shared http.Client.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Used by tests and
// by callers that need a custom timeout or transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout overrides DefaultTimeout on the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a gateway rooted at baseURL (e.g.
// "https://backend.example.com"). The "/api" prefix is appended here so
// call sites use bare resource paths like "tasks/user/7".
func NewClient(baseURL string, token TokenSource, opts ...Option) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		http:    &http.Client{Timeout: DefaultTimeout},
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches path and decodes the JSON response into out. Pass nil to
// discard the body.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the created record into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put sends body as JSON and decodes the updated record into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE. The response body, if any, is discarded.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return fmt.Errorf("request timeout - backend may be waking up, please try again: %w", err)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// decodeError builds an *Error from a non-2xx response, preferring the
// backend's JSON {"error": "..."} detail when present.
func decodeError(resp *http.Response) error {
	apiErr := &Error{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		apiErr.Message = payload.Error
		return apiErr
	}

	text := strings.TrimSpace(string(raw))
	if text != "" {
		apiErr.Message = text
	}
	return apiErr
}
