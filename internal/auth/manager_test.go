// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jeranaias/parley-tui/internal/api"
)

// authServer fakes the backend's session endpoints. loggedIn is flipped
// to simulate login/expiry between probes.
type authServer struct {
	loggedIn atomic.Bool
	refresh  atomic.Bool
}

func (a *authServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !a.loggedIn.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"u1","email":"a@b.c","name":"Ada"}`))
	})
	mux.HandleFunc("/api/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		if !a.refresh.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func newTestManager(t *testing.T, backend *authServer, cfg Config) *Manager {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	apiCfg := api.DefaultConfig()
	apiCfg.BaseURL = server.URL
	apiCfg.RequestsPerSecond = 0
	return NewManager(api.NewClientWithConfig(apiCfg), cfg)
}

func TestManager_InitialProbeAdoptsUser(t *testing.T) {
	backend := &authServer{}
	backend.loggedIn.Store(true)

	m := newTestManager(t, backend, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Close()

	if !m.Authenticated() {
		t.Fatal("manager should be authenticated after initial probe")
	}
	if user := m.User(); user == nil || user.Name != "Ada" {
		t.Errorf("User() = %v", user)
	}
	if m.Loading() {
		t.Error("loading should clear after the initial probe")
	}
}

func TestManager_ProbeFailureReadsAsLoggedOut(t *testing.T) {
	backend := &authServer{} // loggedIn = false

	m := newTestManager(t, backend, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Close()

	if m.Authenticated() {
		t.Error("unauthenticated backend should read as logged out")
	}
	if m.Status() != StatusUnauthenticated {
		t.Errorf("Status() = %v", m.Status())
	}
}

func TestManager_PeriodicProbePicksUpLogin(t *testing.T) {
	backend := &authServer{} // starts logged out

	cfg := DefaultConfig()
	cfg.ProbeInterval = 20 * time.Millisecond
	m := newTestManager(t, backend, cfg)

	changes := make(chan Status, 4)
	m.OnChange(func(s Status) { changes <- s })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Close()

	// The user completes the browser OAuth flow.
	backend.loggedIn.Store(true)

	select {
	case status := <-changes:
		if status != StatusAuthenticated {
			t.Errorf("transition = %v, want authenticated", status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("probe ticker never picked up the login")
	}
}

func TestManager_RefusedRefreshLogsOut(t *testing.T) {
	backend := &authServer{}
	backend.loggedIn.Store(true)
	backend.refresh.Store(false)

	cfg := DefaultConfig()
	cfg.ProbeInterval = time.Hour // keep the probe out of the way
	cfg.RefreshInterval = 20 * time.Millisecond
	m := newTestManager(t, backend, cfg)

	changes := make(chan Status, 4)
	m.OnChange(func(s Status) { changes <- s })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Close()

	if !m.Authenticated() {
		t.Fatal("precondition: authenticated")
	}

	// The initial probe's own transition lands first.
	if status := <-changes; status != StatusAuthenticated {
		t.Fatalf("initial transition = %v, want authenticated", status)
	}

	select {
	case status := <-changes:
		if status != StatusUnauthenticated {
			t.Errorf("transition = %v, want unauthenticated", status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("refused refresh never logged out")
	}
}

func TestManager_SiblingLogoutPropagates(t *testing.T) {
	backend := &authServer{}
	backend.loggedIn.Store(true)

	statePath := filepath.Join(t.TempDir(), "auth_state.json")
	cfg := DefaultConfig()
	cfg.BroadcastPath = statePath
	m := newTestManager(t, backend, cfg)

	changes := make(chan Status, 4)
	m.OnChange(func(s Status) { changes <- s })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Close()

	if !m.Authenticated() {
		t.Fatal("precondition: authenticated")
	}

	// The initial probe's own transition lands first.
	if status := <-changes; status != StatusAuthenticated {
		t.Fatalf("initial transition = %v, want authenticated", status)
	}

	// A sibling process logs out and publishes the fact.
	NewBroadcast(statePath).Publish(StatusUnauthenticated)

	select {
	case status := <-changes:
		if status != StatusUnauthenticated {
			t.Errorf("transition = %v, want unauthenticated", status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sibling logout never propagated")
	}
	if m.Authenticated() {
		t.Error("manager should be logged out after sibling broadcast")
	}
}

func TestManager_LogoutClearsStateDespiteServer(t *testing.T) {
	backend := &authServer{}
	backend.loggedIn.Store(true)

	m := newTestManager(t, backend, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Close()

	m.Logout(ctx)
	if m.Authenticated() {
		t.Error("Logout should clear local state")
	}
}
