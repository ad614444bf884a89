// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package route models the client's location: which conversation the
// user is "at", with history. It is the terminal stand-in for a browser
// URL bar, and exists so that location and conversation state can be
// reconciled explicitly.
//
// Every navigation carries its source. Internal navigations originate
// from the conversation store itself (adopting a server-minted id,
// clearing to root); External navigations originate outside it
// (back/forward, a startup deep-link). Subscribers see the source and
// can ignore self-caused changes outright, with no one-shot suppression
// flags to juggle.
package route

import (
	"strings"
	"sync"
)

// =============================================================================
// NAVIGATION SOURCE
// =============================================================================

// Source identifies who initiated a navigation.
type Source int

const (
	// SourceInternal marks a navigation performed by the conversation
	// store to reflect its own state. Subscribers reconciling location
	// against state must skip these.
	SourceInternal Source = iota

	// SourceExternal marks a navigation from outside the store:
	// back/forward history movement or a startup deep-link.
	SourceExternal
)

func (s Source) String() string {
	if s == SourceInternal {
		return "internal"
	}
	return "external"
}

// Event is one observed navigation.
type Event struct {
	Path   string
	Source Source
}

// Listener receives navigation events. Listeners run synchronously on
// the navigating goroutine, outside the navigator's lock.
type Listener func(Event)

// =============================================================================
// NAVIGATOR
// =============================================================================

// RootPath is the fresh-conversation location.
const RootPath = "/"

// chatPrefix precedes a conversation id in the path.
const chatPrefix = "/chat/"

// Navigator tracks the current path and a linear history stack.
// It is safe for concurrent use.
type Navigator struct {
	mu        sync.Mutex
	history   []string
	index     int
	listeners []Listener
}

// New creates a navigator at the root path.
func New() *Navigator {
	return &Navigator{history: []string{RootPath}}
}

// Path returns the current location path.
func (n *Navigator) Path() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.history[n.index]
}

// ConversationID extracts the id from a current path of the form
// "/chat/{id}", or "" when the path carries none.
func (n *Navigator) ConversationID() string {
	return ConversationIDFromPath(n.Path())
}

// ConversationIDFromPath extracts the id from any "/chat/{id}" path.
func ConversationIDFromPath(path string) string {
	if !strings.HasPrefix(path, chatPrefix) {
		return ""
	}
	id := strings.TrimPrefix(path, chatPrefix)
	id = strings.TrimSuffix(id, "/")
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

// PathForConversation returns the location path of a conversation id.
func PathForConversation(id string) string {
	if id == "" {
		return RootPath
	}
	return chatPrefix + id
}

// Subscribe registers a listener for subsequent navigations.
func (n *Navigator) Subscribe(l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

// Navigate moves to path, truncating any forward history. Navigating to
// the current path is a no-op and emits nothing.
func (n *Navigator) Navigate(path string, source Source) {
	if path == "" {
		path = RootPath
	}

	n.mu.Lock()
	if n.history[n.index] == path {
		n.mu.Unlock()
		return
	}
	n.history = append(n.history[:n.index+1], path)
	n.index = len(n.history) - 1
	listeners := append([]Listener(nil), n.listeners...)
	n.mu.Unlock()

	event := Event{Path: path, Source: source}
	for _, l := range listeners {
		l(event)
	}
}

// Back moves one step back in history, emitting an External event.
// Returns false at the start of history.
func (n *Navigator) Back() bool {
	return n.step(-1)
}

// Forward moves one step forward in history, emitting an External
// event. Returns false at the end of history.
func (n *Navigator) Forward() bool {
	return n.step(+1)
}

func (n *Navigator) step(delta int) bool {
	n.mu.Lock()
	next := n.index + delta
	if next < 0 || next >= len(n.history) {
		n.mu.Unlock()
		return false
	}
	n.index = next
	path := n.history[n.index]
	listeners := append([]Listener(nil), n.listeners...)
	n.mu.Unlock()

	// History movement is user intent, never store-caused.
	event := Event{Path: path, Source: SourceExternal}
	for _, l := range listeners {
		l(event)
	}
	return true
}
