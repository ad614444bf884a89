// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/auth"
	"github.com/jeranaias/parley-tui/internal/route"
	"github.com/jeranaias/parley-tui/internal/store"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// newTestModel wires a model against an unstarted session manager and a
// client pointed at nothing. Nothing here touches the network: reads
// absorb failures and the manager is never started.
func newTestModel(t *testing.T) *Model {
	t.Helper()

	cfg := api.DefaultConfig()
	cfg.BaseURL = "http://127.0.0.1:1"
	cfg.RequestsPerSecond = 0
	client := api.NewClientWithConfig(cfg)

	session := auth.NewManager(client, auth.DefaultConfig())
	nav := route.New()
	st := store.New(client, session, nav, store.Options{})

	return New(st, session, nav, client, styles.NewWithDark(true))
}

func TestModel_ViewBeforeFirstResize(t *testing.T) {
	m := newTestModel(t)
	if !strings.Contains(m.View(), "Starting parley") {
		t.Error("zero-width view should show the startup placeholder")
	}
}

func TestModel_ViewAfterResize(t *testing.T) {
	m := newTestModel(t)
	m.resize(100, 30)

	out := m.View()
	if !strings.Contains(out, "parley") {
		t.Error("view should carry the brand header")
	}
	if !strings.Contains(out, "logged out") {
		t.Error("unstarted session should render as logged out")
	}
	if !strings.Contains(out, "log in with Google") {
		t.Error("logged-out welcome should point at login")
	}
}

func TestModel_WindowSizeMsgResizes(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got := updated.(*Model)
	if got.width != 120 || got.height != 40 {
		t.Errorf("size = %dx%d", got.width, got.height)
	}
}

func TestModel_ModelPickerToggle(t *testing.T) {
	m := newTestModel(t)
	m.resize(100, 30)
	m.picker.SetModels([]string{"gpt-3.5-turbo", "gpt-4"})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = updated.(*Model)
	if !m.showPicker {
		t.Fatal("C-o should open the model picker")
	}
	if !strings.Contains(m.View(), "Select model") {
		t.Error("picker overlay should be visible")
	}

	// Choose the second entry.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(*Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)

	if m.showPicker {
		t.Error("enter should close the picker")
	}
	if m.store.Model() != "gpt-4" {
		t.Errorf("store model = %q, want gpt-4", m.store.Model())
	}
}

func TestModel_FocusSwitching(t *testing.T) {
	m := newTestModel(t)
	m.resize(100, 30)

	if m.focus != focusInput {
		t.Fatal("input should start focused")
	}
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(*Model)
	if m.focus != focusSidebar {
		t.Error("tab should move focus to the sidebar")
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(*Model)
	if m.focus != focusInput {
		t.Error("tab again should move focus back")
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
	if cmd == nil {
		t.Fatal("C-q should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("C-q command should be tea.Quit")
	}
}

func TestModel_TypingReachesInput(t *testing.T) {
	m := newTestModel(t)
	m.resize(100, 30)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	m = updated.(*Model)
	if m.input.Value() != "hi" {
		t.Errorf("input value = %q", m.input.Value())
	}
}

func TestDefaultKeyMap_HelpGroups(t *testing.T) {
	k := DefaultKeyMap()
	if len(k.ShortHelp()) == 0 {
		t.Error("short help should not be empty")
	}
	for _, group := range k.FullHelp() {
		if len(group) == 0 {
			t.Error("full help group should not be empty")
		}
	}
}
