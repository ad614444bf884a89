// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package route

import (
	"testing"
)

func collect(n *Navigator) *[]Event {
	events := &[]Event{}
	n.Subscribe(func(e Event) { *events = append(*events, e) })
	return events
}

func TestNavigator_StartsAtRoot(t *testing.T) {
	n := New()
	if n.Path() != RootPath {
		t.Errorf("Path() = %q, want %q", n.Path(), RootPath)
	}
	if n.ConversationID() != "" {
		t.Errorf("ConversationID() = %q, want empty", n.ConversationID())
	}
}

func TestNavigator_NavigateCarriesSource(t *testing.T) {
	n := New()
	events := collect(n)

	n.Navigate("/chat/abc", SourceInternal)
	n.Navigate("/chat/def", SourceExternal)

	want := []Event{
		{Path: "/chat/abc", Source: SourceInternal},
		{Path: "/chat/def", Source: SourceExternal},
	}
	if len(*events) != 2 || (*events)[0] != want[0] || (*events)[1] != want[1] {
		t.Errorf("events = %v, want %v", *events, want)
	}
}

func TestNavigator_SamePathIsNoOp(t *testing.T) {
	n := New()
	n.Navigate("/chat/abc", SourceInternal)

	events := collect(n)
	n.Navigate("/chat/abc", SourceInternal)
	n.Navigate("/chat/abc", SourceExternal)

	if len(*events) != 0 {
		t.Errorf("same-path navigation emitted %v", *events)
	}
}

func TestNavigator_BackForwardEmitExternal(t *testing.T) {
	n := New()
	n.Navigate("/chat/a", SourceInternal)
	n.Navigate("/chat/b", SourceInternal)

	events := collect(n)

	if !n.Back() {
		t.Fatal("Back() should succeed")
	}
	if n.Path() != "/chat/a" {
		t.Errorf("after Back, Path() = %q", n.Path())
	}
	if !n.Forward() {
		t.Fatal("Forward() should succeed")
	}
	if n.Path() != "/chat/b" {
		t.Errorf("after Forward, Path() = %q", n.Path())
	}

	for _, e := range *events {
		if e.Source != SourceExternal {
			t.Errorf("history movement emitted source %v", e.Source)
		}
	}
}

func TestNavigator_BackAtStartFails(t *testing.T) {
	n := New()
	if n.Back() {
		t.Error("Back() at history start should fail")
	}
	if n.Forward() {
		t.Error("Forward() at history end should fail")
	}
}

func TestNavigator_NavigateTruncatesForwardHistory(t *testing.T) {
	n := New()
	n.Navigate("/chat/a", SourceInternal)
	n.Navigate("/chat/b", SourceInternal)
	n.Back() // at /chat/a

	n.Navigate("/chat/c", SourceInternal)
	if n.Forward() {
		t.Error("forward history should be gone after a new navigation")
	}
	if n.Path() != "/chat/c" {
		t.Errorf("Path() = %q, want /chat/c", n.Path())
	}
}

func TestConversationIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", ""},
		{"", ""},
		{"/chat/abc123", "abc123"},
		{"/chat/abc123/", "abc123"},
		{"/chat/", ""},
		{"/chat/a/b", ""},
		{"/other/abc", ""},
	}
	for _, tt := range tests {
		if got := ConversationIDFromPath(tt.path); got != tt.want {
			t.Errorf("ConversationIDFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPathForConversation(t *testing.T) {
	if got := PathForConversation("abc"); got != "/chat/abc" {
		t.Errorf("PathForConversation(abc) = %q", got)
	}
	if got := PathForConversation(""); got != RootPath {
		t.Errorf("PathForConversation(\"\") = %q", got)
	}
}
