// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/util"
)

// =============================================================================
// AUTH STATUS
// =============================================================================

// Status is the authentication state visible to the UI and to sibling
// processes through the broadcast file.
type Status string

const (
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager owns the session: who is logged in, the background probe and
// refresh timers, and the cross-process broadcast. All network failures
// are absorbed into the unauthenticated state; nothing here returns an
// error to its caller for a failed probe.
type Manager struct {
	client *api.Client

	mu       sync.Mutex
	user     *model.User
	loading  bool
	listener []func(Status)

	probeInterval   time.Duration
	refreshInterval time.Duration

	broadcast *Broadcast

	cancel context.CancelFunc
	done   chan struct{}
}

// Config holds configuration for the session manager.
type Config struct {
	// ProbeInterval is how often the session is re-probed
	// (default: 60 seconds).
	ProbeInterval time.Duration

	// RefreshInterval is how often an authenticated session's token is
	// refreshed (default: 45 minutes, undercutting the server's
	// 60-minute token lifetime).
	RefreshInterval time.Duration

	// BroadcastPath is the shared auth state file. Empty disables the
	// cross-process broadcast.
	BroadcastPath string
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		ProbeInterval:   60 * time.Second,
		RefreshInterval: 45 * time.Minute,
	}
}

// NewManager creates a session manager around an API client.
func NewManager(client *api.Client, cfg Config) *Manager {
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = 60 * time.Second
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 45 * time.Minute
	}

	m := &Manager{
		client:          client,
		loading:         true,
		probeInterval:   cfg.ProbeInterval,
		refreshInterval: cfg.RefreshInterval,
		done:            make(chan struct{}),
	}
	if cfg.BroadcastPath != "" {
		m.broadcast = NewBroadcast(cfg.BroadcastPath)
	}
	return m
}

// =============================================================================
// STATE ACCESS
// =============================================================================

// User returns the authenticated user, nil when logged out.
func (m *Manager) User() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Authenticated reports whether a user session is live.
func (m *Manager) Authenticated() bool {
	return m.User() != nil
}

// Loading reports whether the initial probe has not yet resolved.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Status returns the current auth status.
func (m *Manager) Status() Status {
	if m.Authenticated() {
		return StatusAuthenticated
	}
	return StatusUnauthenticated
}

// OnChange registers a listener notified on every login/logout
// transition. Listeners run synchronously on the goroutine that
// observed the change.
func (m *Manager) OnChange(fn func(Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = append(m.listener, fn)
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Start performs the initial session probe, then runs the probe and
// refresh timers and the broadcast watcher until ctx is cancelled or
// Close is called.
func (m *Manager) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	m.Probe(ctx)
	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()

	if m.broadcast != nil {
		m.broadcast.Watch(ctx, func(status Status) {
			m.onBroadcast(ctx, status)
		})
	}

	go m.run(ctx)
}

// Close stops the timers and the broadcast watcher.
func (m *Manager) Close() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
		<-m.done
	}
}

// run drives the two background timers. Both tick independently of any
// in-flight send.
func (m *Manager) run(ctx context.Context) {
	defer close(m.done)

	probe := time.NewTicker(m.probeInterval)
	defer probe.Stop()
	refresh := time.NewTicker(m.refreshInterval)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-probe.C:
			m.Probe(ctx)
		case <-refresh.C:
			m.refreshToken(ctx)
		}
	}
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// Probe re-checks the session against the backend and adopts the
// result. Any failure reads as logged-out.
func (m *Manager) Probe(ctx context.Context) {
	user, _ := m.client.Me(ctx)
	m.setUser(user)
}

// refreshToken extends the session server-side. A refused refresh means
// the session is gone.
func (m *Manager) refreshToken(ctx context.Context) {
	if !m.Authenticated() {
		return
	}
	if !m.client.RefreshToken(ctx) {
		m.Logout(ctx)
	}
}

// Login opens the backend's OAuth initiation URL in the system browser.
// The next probe picks up the resulting session cookie.
func (m *Manager) Login() error {
	return util.OpenBrowser(m.client.GoogleLoginURL())
}

// Logout ends the session. The server call is best-effort; local state
// and the broadcast flag are cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.client.Logout(ctx)
	m.setUser(nil)
}

// setUser adopts a probe result, publishing and notifying only on an
// actual transition.
func (m *Manager) setUser(user *model.User) {
	m.mu.Lock()
	was := m.user != nil
	now := user != nil
	m.user = user
	listeners := append([]func(Status){}, m.listener...)
	m.mu.Unlock()

	if was == now {
		return
	}

	status := StatusUnauthenticated
	if now {
		status = StatusAuthenticated
	}
	if m.broadcast != nil {
		m.broadcast.Publish(status)
	}
	for _, fn := range listeners {
		fn(status)
	}
}

// onBroadcast reacts to a status published by a sibling process.
func (m *Manager) onBroadcast(ctx context.Context, status Status) {
	switch status {
	case StatusUnauthenticated:
		// A sibling logged out; our cookie is dead too. Drop local
		// state without re-publishing a redundant server logout.
		m.setUser(nil)
	case StatusAuthenticated:
		if !m.Authenticated() {
			m.Probe(ctx)
		}
	}
}
