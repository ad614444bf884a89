// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the parley TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark
terminal detection.

# Color System (colors.go)

Primary accents:

  - Purple - Assistant messages and selections
  - Cyan - Brand color, user highlights
  - Emerald - Authenticated indicator
  - Amber - Warnings, logged-out indicator
  - Rose - Errors

Message bubbles and surfaces use semantic tokens (UserBubbleBg,
AssistantBubbleFg, Surface, Overlay, ...), and text has a three-level
hierarchy (TextPrimary, TextSecondary, TextMuted).

# Theme System (theme.go)

The Theme struct holds every pre-built style the components render
with, probing the terminal's capabilities at construction:

	theme := styles.New()
	if theme.IsDark {
		// Dark terminal detected
	}

NewWithDark bypasses detection for config-forced themes and tests.
*/
package styles
