// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// =============================================================================
// SYSTEM PROMPT
// =============================================================================

// The backend stores one system prompt per user, injected ahead of
// every conversation it proxies. Reading follows the client's read
// policy (absence is not an error); saving follows the write taxonomy.

// GetSystemPrompt fetches the user's saved system prompt. 401 and 404
// both resolve to ("", nil): not logged in and never saved read the
// same to a settings screen.
func (c *Client) GetSystemPrompt(ctx context.Context) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/system-prompt"), nil)
	if err != nil {
		return "", nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logf("system prompt unavailable: %v", err)
		return "", nil
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusNotFound {
			c.logf("system prompt request failed: %s", resp.Status)
		}
		return "", nil
	}

	var result systemPromptResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logf("system prompt decode failed: %v", err)
		return "", nil
	}
	return result.SystemPrompt, nil
}

// SetSystemPrompt saves the user's system prompt. Writes surface
// failures: 401 is ErrAuthRequired, everything else carries the server
// detail.
func (c *Client) SetSystemPrompt(ctx context.Context, prompt string) error {
	if err := c.wait(ctx); err != nil {
		return wrapTransportError(err)
	}

	body, err := json.Marshal(systemPromptRequest{SystemPrompt: prompt})
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("/system-prompt"), bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransportError(err)
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuthRequired
	default:
		return c.serverError(resp)
	}
}
