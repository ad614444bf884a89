// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the parley TUI.

This package contains styled components built on Lip Gloss, each
consistent with the parley design language and accepting a
*styles.Theme.

# Components

Sidebar (sidebar.go) - Conversation list with its own browse cursor,
independent of the active conversation.

MessageBubble (message.go) - Chat bubbles: user messages right-hugged
in blue, assistant messages left-hugged in purple with markdown
rendering, synthetic error messages in rose. Right-to-left content is
right-aligned inside its bubble.

ErrorBanner (banner.go) - The banner strip above the input carrying
normalized failure messages.

StatusBar (statusbar.go) - Bottom bar with session state, selected
model, and shortcuts.

ModelPicker (modelpicker.go) - Overlay for choosing the model used by
subsequent sends.

# Theme Integration

All components accept a *styles.Theme:

	theme := styles.New()
	bar := components.NewStatusBar(theme)
	bar.SetWidth(80)
	view := bar.View(true, "Ada", "gpt-4")
*/
package components
