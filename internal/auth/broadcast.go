// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/parley-tui/internal/util"
)

// =============================================================================
// CROSS-PROCESS AUTH BROADCAST
// =============================================================================

// A single shared file carries the authentication status between parley
// processes. Publishing is an atomic write; observing is an fsnotify
// watch. The file is an eventually-consistent broadcast channel, not a
// lock: a process that sees "unauthenticated" logs itself out, one that
// sees "authenticated" re-probes the session.

// broadcastState is the entire schema of the shared file. Nothing else
// goes in it.
type broadcastState struct {
	Status Status `json:"status"`
}

// Broadcast publishes and observes auth status changes across parley
// processes through a shared state file.
type Broadcast struct {
	path string
}

// NewBroadcast creates a broadcast around the given state file path.
func NewBroadcast(path string) *Broadcast {
	return &Broadcast{path: path}
}

// Publish atomically replaces the shared state file. Readers never see
// a partial write.
func (b *Broadcast) Publish(status Status) error {
	data, err := json.Marshal(broadcastState{Status: status})
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(b.path, data, 0600)
}

// Read returns the currently-published status. The second return is
// false when the file is missing or unreadable.
func (b *Broadcast) Read() (Status, bool) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return StatusUnauthenticated, false
	}
	var state broadcastState
	if err := json.Unmarshal(data, &state); err != nil {
		return StatusUnauthenticated, false
	}
	if state.Status != StatusAuthenticated && state.Status != StatusUnauthenticated {
		return StatusUnauthenticated, false
	}
	return state.Status, true
}

// Watch invokes fn with each status published by any process until ctx
// is cancelled. The parent directory is watched rather than the file
// itself: atomic writes replace the file by rename, which would drop a
// direct file watch.
func (b *Broadcast) Watch(ctx context.Context, fn func(Status)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		watcher.Close()
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(b.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if status, ok := b.Read(); ok {
					fn(status)
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Watch errors are non-fatal: the next poll cycle
				// still converges on the right state.
			}
		}
	}()

	return nil
}
