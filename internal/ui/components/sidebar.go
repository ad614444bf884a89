// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/textdir"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
	"github.com/jeranaias/parley-tui/internal/util"
)

// =============================================================================
// CONVERSATION SIDEBAR
// =============================================================================

// Sidebar lists conversations in the order the server returned them.
// It tracks a cursor independently of the active conversation so the
// user can browse without loading each entry.
type Sidebar struct {
	Width  int
	Height int

	metas    []model.ConversationMeta
	cursor   int
	activeID string
	theme    *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{
		Width:  28,
		Height: 20,
		theme:  theme,
	}
}

// SetMetas replaces the listed conversations, clamping the cursor.
func (s *Sidebar) SetMetas(metas []model.ConversationMeta) {
	s.metas = metas
	if s.cursor >= len(metas) {
		s.cursor = len(metas) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// SetActive marks the conversation currently open in the main pane.
func (s *Sidebar) SetActive(id string) {
	s.activeID = id
}

// SetSize updates the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// CursorUp moves the cursor one entry up.
func (s *Sidebar) CursorUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// CursorDown moves the cursor one entry down.
func (s *Sidebar) CursorDown() {
	if s.cursor < len(s.metas)-1 {
		s.cursor++
	}
}

// Selected returns the conversation under the cursor, or nil when the
// list is empty.
func (s *Sidebar) Selected() *model.ConversationMeta {
	if len(s.metas) == 0 {
		return nil
	}
	return &s.metas[s.cursor]
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	var b strings.Builder
	b.WriteString(s.theme.SidebarTitle.Render("Conversations"))
	b.WriteString("\n\n")

	if len(s.metas) == 0 {
		b.WriteString(s.theme.SidebarEmpty.Render("No conversations yet"))
		return s.theme.Sidebar.Width(s.Width).Height(s.Height).Render(b.String())
	}

	// Scroll window keeping the cursor visible.
	visible := s.Height - 3
	if visible < 1 {
		visible = 1
	}
	start := 0
	if s.cursor >= visible {
		start = s.cursor - visible + 1
	}
	end := minInt(start+visible, len(s.metas))

	titleWidth := s.Width - 4
	for i := start; i < end; i++ {
		meta := s.metas[i]
		title := util.TruncateWidth(meta.GetTitle(), titleWidth)

		style := s.theme.SidebarItem
		switch {
		case i == s.cursor:
			style = s.theme.SidebarItemSelected
		case meta.ID == s.activeID:
			style = s.theme.SidebarItemActive
		}
		if textdir.IsRTL(title) {
			style = style.Align(lipgloss.Right)
		}

		b.WriteString(style.Width(titleWidth).Render(title))
		b.WriteString("\n")
	}

	return s.theme.Sidebar.Width(s.Width).Height(s.Height).Render(b.String())
}
