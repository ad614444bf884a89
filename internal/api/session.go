// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jeranaias/parley-tui/internal/model"
)

// =============================================================================
// SESSION ENDPOINTS
// =============================================================================

// Session probe, refresh, and logout share the credentialed client with
// the conversation endpoints so there is exactly one cookie jar. The
// auth manager owns the policy (timers, state, broadcast); these are
// just the wires.

// Me probes the current session. A 200 returns the user; any non-200 or
// transport failure returns (nil, nil) — "not authenticated" is a state,
// not an error.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	if err := c.wait(ctx); err != nil {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/auth/me"), nil)
	if err != nil {
		return nil, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var user model.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, nil
	}
	return &user, nil
}

// RefreshToken extends the server-side session. Returns false when the
// server refused (or was unreachable), which the caller treats as
// session expiry.
func (c *Client) RefreshToken(ctx context.Context) bool {
	if err := c.wait(ctx); err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("/auth/refresh-token"), nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer drainAndClose(resp.Body)

	return resp.StatusCode == http.StatusOK
}

// Logout ends the server-side session. Best-effort: the caller clears
// local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("/auth/logout"), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransportError(err)
	}
	drainAndClose(resp.Body)
	return nil
}

// GoogleLoginURL returns the backend-hosted OAuth initiation URL. The
// authorization-code + PKCE exchange happens entirely server-side; the
// client only needs to land a browser there.
func (c *Client) GoogleLoginURL() string {
	return c.apiURL("/auth/google-login")
}
