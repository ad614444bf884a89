// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewWithDark(true)
}

// =============================================================================
// SIDEBAR
// =============================================================================

func sidebarMetas() []model.ConversationMeta {
	return []model.ConversationMeta{
		{ID: "c1", Title: "First"},
		{ID: "c2", Title: "Second"},
		{ID: "c3", Title: ""},
	}
}

func TestSidebar_CursorNavigation(t *testing.T) {
	s := NewSidebar(testTheme())
	s.SetMetas(sidebarMetas())

	if s.Selected().ID != "c1" {
		t.Fatalf("initial selection = %s", s.Selected().ID)
	}

	s.CursorDown()
	s.CursorDown()
	if s.Selected().ID != "c3" {
		t.Errorf("after two downs selection = %s", s.Selected().ID)
	}

	// Bounded at the ends.
	s.CursorDown()
	if s.Selected().ID != "c3" {
		t.Errorf("cursor ran past the end: %s", s.Selected().ID)
	}
	s.CursorUp()
	s.CursorUp()
	s.CursorUp()
	if s.Selected().ID != "c1" {
		t.Errorf("cursor ran past the start: %s", s.Selected().ID)
	}
}

func TestSidebar_EmptyList(t *testing.T) {
	s := NewSidebar(testTheme())
	if s.Selected() != nil {
		t.Error("empty sidebar should have no selection")
	}
	if !strings.Contains(s.View(), "No conversations yet") {
		t.Error("empty sidebar should say so")
	}
}

func TestSidebar_CursorClampsOnShrink(t *testing.T) {
	s := NewSidebar(testTheme())
	s.SetMetas(sidebarMetas())
	s.CursorDown()
	s.CursorDown()

	s.SetMetas(sidebarMetas()[:1])
	if s.Selected().ID != "c1" {
		t.Errorf("cursor should clamp to the shorter list, got %s", s.Selected().ID)
	}
}

func TestSidebar_UntitledConversationsGetPlaceholder(t *testing.T) {
	s := NewSidebar(testTheme())
	s.SetMetas([]model.ConversationMeta{{ID: "c3", Title: ""}})
	if !strings.Contains(s.View(), "New Chat") {
		t.Error("untitled conversation should render as New Chat")
	}
}

// =============================================================================
// MESSAGE BUBBLES
// =============================================================================

func TestMessageBubble_UserAndAssistant(t *testing.T) {
	theme := testTheme()

	user := NewMessageBubble(model.Message{Content: "hello", IsUser: true, Timestamp: time.Now()}, theme)
	user.SetWidth(60)
	if !strings.Contains(user.View(), "you") {
		t.Error("user bubble should carry the role indicator")
	}

	assistant := NewMessageBubble(model.Message{Content: "plain reply"}, theme)
	assistant.SetWidth(60)
	out := assistant.View()
	if !strings.Contains(out, "assistant") {
		t.Error("assistant bubble should carry the role indicator")
	}
	if !strings.Contains(out, "plain reply") {
		t.Error("assistant bubble should contain the content")
	}
}

func TestMessageBubble_ErrorCarriesIndicator(t *testing.T) {
	bubble := NewMessageBubble(model.NewErrorMessage("The request timed out. Please try again."), testTheme())
	bubble.SetWidth(60)
	out := bubble.View()
	if !strings.Contains(out, styles.StatusIndicators.Error) {
		t.Error("error bubble should carry the error indicator")
	}
	if !strings.Contains(out, "timed out") {
		t.Error("error bubble should contain the failure text")
	}
}

func TestMessageBubble_StreamingCursor(t *testing.T) {
	bubble := NewMessageBubble(model.Message{Content: "partial"}, testTheme())
	bubble.SetWidth(60)
	bubble.Streaming = true
	if !strings.Contains(bubble.View(), "▌") {
		t.Error("streaming bubble should show the cursor")
	}
}

func TestMessageBubble_RTLContentRenders(t *testing.T) {
	bubble := NewMessageBubble(model.Message{Content: "سلام دنیا", IsUser: true}, testTheme())
	bubble.SetWidth(60)
	if !strings.Contains(bubble.View(), "سلام") {
		t.Error("RTL content should survive rendering")
	}
}

// =============================================================================
// MODEL PICKER
// =============================================================================

func TestModelPicker_StartsOnSelectedModel(t *testing.T) {
	p := NewModelPicker([]string{"gpt-3.5-turbo", "gpt-4"}, "gpt-4", testTheme())
	if p.Selected() != "gpt-4" {
		t.Errorf("picker should start on the selected model, got %s", p.Selected())
	}
}

func TestModelPicker_Navigation(t *testing.T) {
	p := NewModelPicker([]string{"gpt-3.5-turbo", "gpt-4"}, "gpt-3.5-turbo", testTheme())

	p.CursorDown()
	if p.Selected() != "gpt-4" {
		t.Errorf("after down, selection = %s", p.Selected())
	}
	p.CursorDown()
	if p.Selected() != "gpt-4" {
		t.Errorf("cursor ran past the end: %s", p.Selected())
	}
	p.CursorUp()
	if p.Selected() != "gpt-3.5-turbo" {
		t.Errorf("after up, selection = %s", p.Selected())
	}
}

func TestModelPicker_Empty(t *testing.T) {
	p := NewModelPicker(nil, "", testTheme())
	if p.Selected() != "" {
		t.Error("empty picker should select nothing")
	}
	if !strings.Contains(p.View(), "No models available") {
		t.Error("empty picker should say so")
	}
}

// =============================================================================
// STATUS BAR AND BANNER
// =============================================================================

func TestStatusBar_SessionStates(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetWidth(100)

	in := bar.View(true, "Ada", "gpt-4")
	if !strings.Contains(in, "Ada") || !strings.Contains(in, "gpt-4") {
		t.Errorf("authenticated bar missing user or model: %q", in)
	}

	out := bar.View(false, "", "")
	if !strings.Contains(out, "logged out") {
		t.Errorf("unauthenticated bar should say logged out: %q", out)
	}
}

func TestErrorBanner(t *testing.T) {
	b := NewErrorBanner(testTheme())
	b.SetWidth(80)

	if b.View("") != "" {
		t.Error("empty message should render nothing")
	}
	out := b.View("Unable to reach the server. Please check your connection.")
	if !strings.Contains(out, "Unable to reach the server") {
		t.Errorf("banner missing message: %q", out)
	}
}
