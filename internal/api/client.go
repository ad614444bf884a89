// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/parley-tui/internal/model"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the API client.
type ClientConfig struct {
	// BaseURL is the backend origin (default: http://127.0.0.1:8000).
	// The API path prefix "/api" is appended per request.
	BaseURL string

	// Timeout for non-streaming requests (default: 30s, 0 disables).
	// The source this client replaces had no timeout at all; a bounded
	// default is a deliberate deviation, configurable back to unbounded.
	Timeout time.Duration

	// Jar carries the session cookies. When nil an in-memory jar is
	// created; the auth package supplies a persisted jar instead.
	Jar http.CookieJar

	// RequestsPerSecond caps outgoing request rate so background pollers
	// cannot stampede the backend (default: 10, 0 disables).
	RequestsPerSecond float64

	// Logf receives degraded-path diagnostics (non-critical read
	// failures that are absorbed rather than surfaced). Nil discards.
	Logf func(format string, args ...any)
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:8000",
		Timeout:           30 * time.Second,
		RequestsPerSecond: 10,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the parley backend.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client

	// streamClient has no client-level timeout: a live event stream is
	// expected to outlast any sane request deadline. Cancellation is the
	// caller's context.
	streamClient *http.Client

	limiter *rate.Limiter
	logf    func(format string, args ...any)
}

// NewClient creates a new API client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new API client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Jar == nil {
		// cookiejar.New only errors on bad PublicSuffixList options.
		jar, _ := cookiejar.New(nil)
		config.Jar = jar
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), int(config.RequestsPerSecond)+1)
	}

	logf := config.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Jar:     config.Jar,
		},
		streamClient: &http.Client{
			Jar: config.Jar,
		},
		limiter: limiter,
		logf:    logf,
	}
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// apiURL joins the backend origin, the API prefix, and a path.
func (c *Client) apiURL(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/api" + path
}

// wait applies the client rate limit, if any.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// =============================================================================
// CONVERSATION READS
// =============================================================================

// ListConversations fetches the sidebar metadata list.
//
// Absence is not an error: 401 and 404 both mean "nothing to show yet"
// and resolve to an empty list. Other failures also resolve to an empty
// list after logging, since the sidebar is non-critical.
func (c *Client) ListConversations(ctx context.Context) ([]model.ConversationMeta, error) {
	if err := c.wait(ctx); err != nil {
		return []model.ConversationMeta{}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/conversations/metadata"), nil)
	if err != nil {
		return []model.ConversationMeta{}, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logf("conversation list unavailable: %v", err)
		return []model.ConversationMeta{}, nil
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusNotFound:
		return []model.ConversationMeta{}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logf("conversation list request failed: %s", resp.Status)
		return []model.ConversationMeta{}, nil
	}

	var result metadataResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logf("conversation list decode failed: %v", err)
		return []model.ConversationMeta{}, nil
	}
	if result.Conversations == nil {
		return []model.ConversationMeta{}, nil
	}
	return result.Conversations, nil
}

// GetConversation fetches a single conversation with its transcript.
//
// 401/404 resolve to (nil, nil): the caller must treat a nil
// conversation as "switch to a fresh conversation", not as a fault.
func (c *Client) GetConversation(ctx context.Context, id string) (*model.Conversation, error) {
	if err := c.wait(ctx); err != nil {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/conversations/"+id), nil)
	if err != nil {
		return nil, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logf("conversation %s unavailable: %v", id, err)
		return nil, nil
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusNotFound {
			c.logf("conversation %s request failed: %s", id, resp.Status)
		}
		return nil, nil
	}

	var result conversationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logf("conversation %s decode failed: %v", id, err)
		return nil, nil
	}
	return result.Conversation, nil
}

// DeleteConversation removes a conversation server-side. Absence is
// absorbed like the other read paths.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(conversationIDRequest{ConversationID: id})
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.apiURL("/chat"), bytes.NewReader(body))
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
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusNotFound:
		return nil
	default:
		return c.serverError(resp)
	}
}

// =============================================================================
// MODEL CATALOG
// =============================================================================

// ListModels fetches the selectable model catalog. On any failure it
// returns the hardcoded fallback pair so the UI always has options.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	fallback := func() []string {
		models := make([]string, len(FallbackModels))
		copy(models, FallbackModels)
		return models
	}

	if err := c.wait(ctx); err != nil {
		return fallback(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/models"), nil)
	if err != nil {
		return fallback(), nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logf("model catalog unavailable: %v", err)
		return fallback(), nil
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logf("model catalog request failed: %s", resp.Status)
		return fallback(), nil
	}

	var result modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || len(result.Models) == 0 {
		return fallback(), nil
	}
	return result.Models, nil
}

// =============================================================================
// BUFFERED SEND
// =============================================================================

// SendMessage posts a message and waits for the complete reply.
// conversationID may be empty for a brand-new conversation: the server
// mints an id and returns it in the reply. An empty model transmits
// DefaultModel.
func (c *Client) SendMessage(ctx context.Context, content, conversationID, modelID string) (*model.ChatReply, error) {
	if err := c.wait(ctx); err != nil {
		return nil, wrapTransportError(err)
	}

	resp, err := c.postChat(ctx, c.httpClient, "/chat", content, conversationID, modelID, "application/json")
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if err := c.checkSendStatus(resp); err != nil {
		return nil, err
	}

	var reply model.ChatReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return &reply, nil
}

// =============================================================================
// STREAMING SEND
// =============================================================================

// SendMessageStream posts a message and consumes the event-stream reply,
// dispatching through the handler. Pre-stream failures (request errors,
// non-2xx status) return an error without touching the handler, exactly
// like SendMessage. Mid-stream failures are delivered through the
// handler's error callback. The response body is released on every exit
// path.
func (c *Client) SendMessageStream(ctx context.Context, content, conversationID, modelID string, handler StreamHandler) error {
	if err := c.wait(ctx); err != nil {
		return wrapTransportError(err)
	}

	resp, err := c.postChat(ctx, c.streamClient, "/chat/stream", content, conversationID, modelID, "text/event-stream")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkSendStatus(resp); err != nil {
		return err
	}

	return consumeStream(ctx, resp.Body, handler)
}

// =============================================================================
// SEND HELPERS
// =============================================================================

// postChat builds and issues the chat POST shared by both send variants.
func (c *Client) postChat(ctx context.Context, hc *http.Client, path, content, conversationID, modelID, accept string) (*http.Response, error) {
	if modelID == "" {
		modelID = DefaultModel
	}

	body, err := json.Marshal(chatRequest{
		Content:        content,
		ConversationID: conversationID,
		Model:          modelID,
	})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL(path), bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	return resp, nil
}

// checkSendStatus maps non-2xx send responses to typed errors. The
// response body is consumed for error detail but the caller still owns
// closing it.
func (c *Client) checkSendStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuthRequired
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return c.serverError(resp)
	}
}

// serverError extracts the most specific failure message available:
// the JSON `detail` field, else raw body text, else the status line.
func (c *Client) serverError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))

	var detail errorDetail
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
		return &ClientError{Type: ErrTypeServer, Message: detail.Detail}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return &ClientError{Type: ErrTypeServer, Message: text}
	}
	return &ClientError{Type: ErrTypeServer, Message: "request failed: " + resp.Status}
}

// wrapTransportError classifies a failed round trip.
func wrapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: ErrTimeout.Message, Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: "unable to reach the server", Cause: err}
}

// drainAndClose consumes any remainder so the connection can be reused.
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, io.LimitReader(r, 1<<20))
	r.Close()
}
