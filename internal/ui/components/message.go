// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the parley TUI.
package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/textdir"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one chat message. User messages hug the right
// edge, assistant messages the left. Assistant content is rendered as
// markdown; right-to-left content is right-aligned inside its bubble
// regardless of who sent it.
type MessageBubble struct {
	Message   model.Message
	Width     int
	Streaming bool
	theme     *styles.Theme
}

// NewMessageBubble creates a bubble for the given message.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message: msg,
		Width:   80,
		theme:   theme,
	}
}

// SetWidth sets the total width the bubble may occupy.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch {
	case b.Message.IsError:
		return b.renderErrorBubble()
	case b.Message.IsUser:
		return b.renderUserBubble()
	default:
		return b.renderAssistantBubble()
	}
}

func (b *MessageBubble) contentWidth() int {
	w := b.Width - 12
	if w < 20 {
		w = 20
	}
	return w
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}
	wrapped := wordWrap(content, b.contentWidth())
	width := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	style := b.theme.UserBubble.Width(width)
	if textdir.IsRTL(content) {
		style = style.Align(lipgloss.Right)
	}
	bubble := style.Render(wrapped)

	header := b.theme.BubbleRole.Render("you")
	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	leftMargin := b.Width - width - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	margin := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		margin.Render(header),
		margin.Render(bubble))
}

// ==========================================================================
// ASSISTANT BUBBLE - Purple tones, left-aligned, markdown body
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	content := b.Message.Content
	rtl := textdir.IsRTL(content)

	// Markdown rendering garbles bidirectional text; RTL content is
	// shown verbatim and right-aligned instead.
	if !rtl && content != "" {
		if rendered, err := renderMarkdown(content, b.contentWidth()); err == nil {
			content = rendered
		} else {
			content = HighlightFences(content)
		}
	} else {
		content = wordWrap(content, b.contentWidth())
	}

	if b.Streaming {
		content += "▌"
	}
	if content == "" {
		content = "..."
	}

	width := minInt(maxLineWidth(content)+4, b.Width-8)

	style := b.theme.AssistantBubble.Width(width)
	if rtl {
		style = style.Align(lipgloss.Right)
	}
	bubble := style.Render(content)

	header := b.theme.BubbleRole.Render("assistant")
	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// ERROR BUBBLE - Rose tones for synthetic failure messages
// ==========================================================================

func (b *MessageBubble) renderErrorBubble() string {
	content := wordWrap(b.Message.Content, b.contentWidth())
	width := minInt(maxLineWidth(content)+4, b.Width-8)

	bubble := b.theme.ErrorBubble.Width(width).
		Render(styles.StatusIndicators.Error + " " + content)
	header := b.theme.BubbleRole.Render("assistant")

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

func (b *MessageBubble) renderTimestamp() string {
	if b.Message.Timestamp.IsZero() {
		return ""
	}
	return b.theme.BubbleTimestamp.Render(b.Message.Timestamp.Format("15:04"))
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// Glamour renderer construction is expensive; cache one per wrap width.
var (
	mdMu        sync.Mutex
	mdRenderers = map[int]*glamour.TermRenderer{}
)

func renderMarkdown(content string, width int) (string, error) {
	mdMu.Lock()
	renderer, ok := mdRenderers[width]
	if !ok {
		var err error
		renderer, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdMu.Unlock()
			return "", err
		}
		mdRenderers[width] = renderer
	}
	mdMu.Unlock()

	out, err := renderer.Render(content)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}
