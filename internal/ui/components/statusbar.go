// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar is the single-line footer: session state, selected model,
// and the most useful shortcuts.
type StatusBar struct {
	Width int
	theme *styles.Theme
}

// NewStatusBar creates a status bar renderer.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// shortcut pairs a key with what it does.
type shortcut struct {
	key  string
	desc string
}

var statusShortcuts = []shortcut{
	{"C-n", "new"},
	{"C-o", "models"},
	{"C-b/C-f", "back/fwd"},
	{"C-q", "quit"},
}

// View renders the status bar.
func (s *StatusBar) View(authenticated bool, userName, modelID string) string {
	var left string
	if authenticated {
		name := userName
		if name == "" {
			name = "signed in"
		}
		left = s.theme.StatusLoggedIn.Render("● " + name)
	} else {
		left = s.theme.StatusLoggedOut.Render("○ logged out  C-g to log in")
	}
	if modelID != "" {
		left += s.theme.ShortcutDesc.Render("  " + modelID)
	}

	var parts []string
	for _, sc := range statusShortcuts {
		parts = append(parts,
			s.theme.ShortcutKey.Render(sc.key)+s.theme.ShortcutDesc.Render(" "+sc.desc))
	}
	right := strings.Join(parts, "  ")

	gap := s.Width - runewidth.StringWidth(stripANSI(left)) - runewidth.StringWidth(stripANSI(right)) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.Width(s.Width).
		Render(left + strings.Repeat(" ", gap) + right)
}

// stripANSI removes SGR escape sequences so width math sees only the
// visible characters.
func stripANSI(str string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range str {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
