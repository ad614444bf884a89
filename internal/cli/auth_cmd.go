// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, logout, and status commands.

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/auth"
	"github.com/jeranaias/parley-tui/internal/config"
	"github.com/jeranaias/parley-tui/internal/util"
)

// loginPollInterval and loginTimeout bound the wait for the browser
// flow to complete.
const (
	loginPollInterval = 2 * time.Second
	loginTimeout      = 2 * time.Minute
)

// =============================================================================
// LOGIN
// =============================================================================

// HandleLogin opens the Google login page in the browser and waits for
// the session cookie to land, polling the identity endpoint. On success
// the new state is broadcast so running TUI siblings pick it up.
func HandleLogin(ctx context.Context, client *api.Client, broadcast *auth.Broadcast) error {
	loginURL := client.GoogleLoginURL()
	fmt.Println("Opening browser for Google login...")
	fmt.Printf("If nothing happens, open: %s\n\n", loginURL)

	if err := util.OpenBrowser(loginURL); err != nil {
		fmt.Println("Could not open a browser automatically; use the URL above.")
	}

	deadline := time.Now().Add(loginTimeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(loginPollInterval):
		}

		user, err := client.Me(ctx)
		if err != nil || user == nil {
			continue
		}

		fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
		if broadcast != nil {
			broadcast.Publish(auth.StatusAuthenticated)
		}
		return nil
	}

	return errors.New("login timed out; run `parley login` again after completing the browser flow")
}

// =============================================================================
// LOGOUT
// =============================================================================

// HandleLogout ends the session. Local state is cleared even when the
// server call fails, matching the TUI's logout semantics.
func HandleLogout(ctx context.Context, client *api.Client, jar *auth.PersistentJar, broadcast *auth.Broadcast) error {
	err := client.Logout(ctx)

	if jar != nil {
		jar.Clear()
	}
	if broadcast != nil {
		broadcast.Publish(auth.StatusUnauthenticated)
	}

	if err != nil {
		fmt.Println("Server logout failed; local session cleared anyway.")
		return nil
	}
	fmt.Println("Logged out.")
	return nil
}

// =============================================================================
// STATUS
// =============================================================================

// HandleStatus prints configuration and live session state.
func HandleStatus(ctx context.Context, client *api.Client, cfg *config.Config) error {
	fmt.Printf("parley %s\n\n", Version)
	fmt.Printf("  backend:    %s\n", client.BaseURL())
	fmt.Printf("  model:      %s\n", cfg.DefaultModel)
	fmt.Printf("  streaming:  %v\n", cfg.Streaming)
	fmt.Printf("  cache:      %v\n", cfg.Cache.Enabled)

	if dir, err := config.ConfigDir(); err == nil {
		fmt.Printf("  config dir: %s\n", dir)
	}

	user, err := client.Me(ctx)
	switch {
	case err == nil && user != nil:
		fmt.Printf("\n  session:    logged in as %s <%s>\n", user.Name, user.Email)
	default:
		fmt.Printf("\n  session:    logged out (run `parley login`)\n")
	}
	return nil
}
