// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the TUI.
//
// This file contains all rendering for the application shell:
// header, sidebar + transcript row, error banner, input area, and
// status bar.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/textdir"
	"github.com/jeranaias/parley-tui/internal/ui/components"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the complete application.
// Layout: header (1 line) + main row (sidebar | transcript) +
// [banner] + input + status (1 line).
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Starting parley..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		m.sidebar.View(),
		m.viewport.View())
	if m.showPicker {
		main = lipgloss.Place(m.width, lipgloss.Height(main),
			lipgloss.Center, lipgloss.Center, m.picker.View())
	}
	sections = append(sections, main)

	if banner := m.banner.View(m.store.Banner()); banner != "" {
		sections = append(sections, banner)
	}

	sections = append(sections, m.renderInput())
	sections = append(sections, m.renderStatusBar())

	return strings.Join(sections, "\n")
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m *Model) renderHeader() string {
	brand := m.theme.HeaderBrand.Render("parley")
	title := "New Chat"
	for _, meta := range m.store.Metas() {
		if meta.ID == m.store.ActiveID() {
			title = meta.GetTitle()
		}
	}
	return m.theme.Header.Width(m.width).Render(
		brand + "  " + m.theme.HeaderTitle.Render(title))
}

func (m *Model) renderInput() string {
	if m.store.Sending() {
		thinking := m.spinner.View() + " " +
			m.theme.ThinkingText.Render("waiting for reply...")
		return m.theme.InputContainer.Width(m.width).Render(thinking)
	}
	// Right-to-left input reads from the right edge, like the bubbles
	// it will become.
	style := m.theme.InputContainer.Width(m.width)
	if textdir.IsRTL(m.input.Value()) {
		style = style.Align(lipgloss.Right)
	}
	return style.Render(m.input.View())
}

func (m *Model) renderStatusBar() string {
	var name string
	if user := m.session.User(); user != nil {
		name = user.Name
	}
	return m.statusBar.View(m.session.Authenticated(), name, m.store.Model())
}

// renderMessages builds the transcript pane content.
func (m *Model) renderMessages() string {
	msgs := m.store.Messages()
	if len(msgs) == 0 {
		return m.renderWelcome()
	}

	sending := m.store.Sending()
	var parts []string
	for i, msg := range msgs {
		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.SetWidth(m.viewport.Width)
		// The last assistant bubble shows a cursor while its reply is
		// still streaming in.
		if sending && i == len(msgs)-1 && !msg.IsUser && !msg.IsError {
			bubble.Streaming = true
		}
		parts = append(parts, bubble.View())
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderWelcome() string {
	pad := lipgloss.NewStyle().Padding(1, 2)
	if !m.session.Authenticated() {
		return pad.Render(m.theme.ThinkingText.Render(
			"Welcome to parley. Press C-g to log in with Google, then start chatting."))
	}
	return pad.Render(m.theme.ThinkingText.Render(
		"Start a conversation, or pick one from the sidebar."))
}
