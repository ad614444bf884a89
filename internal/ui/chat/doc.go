// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view for the parley TUI.

The chat package implements the whole application shell using the
Bubble Tea framework: a conversation sidebar, the transcript pane, the
message input, an error banner, and the session/status footer.

# Key Components

## Model (model.go)

The Model struct is the central Bubble Tea model. It owns no
conversation state itself: everything is read from the store on each
render, and the store's change notifications are converted into Bubble
Tea messages through a coalescing wakeup channel.

## View Rendering (view.go)

Rendering for the complete interface:
  - Header with the active conversation title
  - Sidebar listing conversations
  - Message bubbles with markdown rendering and right-to-left support
  - Error banner carrying normalized failure messages
  - Status bar with session state, model, and shortcuts

## Keyboard (keys.go)

The KeyMap defines every binding: scrolling, send, new conversation,
model picker, browser login/logout, history back/forward, and sidebar
focus switching.

# Usage

Wire the domain objects and run the model as a Bubble Tea program:

	model := chat.New(store, session, nav, client, styles.New())
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
*/
package chat
