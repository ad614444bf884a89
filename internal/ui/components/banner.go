// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// ERROR BANNER
// =============================================================================

// ErrorBanner shows the store's banner error above the input area. The
// message is already normalized to user-facing wording; this component
// only dresses it.
type ErrorBanner struct {
	Width int
	theme *styles.Theme
}

// NewErrorBanner creates a banner renderer.
func NewErrorBanner(theme *styles.Theme) *ErrorBanner {
	return &ErrorBanner{Width: 80, theme: theme}
}

// SetWidth sets the banner width.
func (e *ErrorBanner) SetWidth(width int) {
	e.Width = width
}

// View renders the banner for the given message, or "" when there is
// nothing to show.
func (e *ErrorBanner) View(message string) string {
	if message == "" {
		return ""
	}

	text := e.theme.BannerText.Render(styles.StatusIndicators.Error + " " + message)
	dismiss := e.theme.BannerDismiss.Render("esc to dismiss")

	body := lipgloss.JoinHorizontal(lipgloss.Top, text, "  ", dismiss)
	return e.theme.BannerBox.Width(e.Width - 2).Render(body)
}
