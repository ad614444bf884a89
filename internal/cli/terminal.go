// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - TTY detection for the parley CLI.
//
// One-shot commands behave differently when piped: no markdown
// rendering, no colors, no interactive prompts.

package cli

import (
	"os"

	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal, meaning interactive
// prompts are possible.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal, meaning styled
// output should be used.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// DefaultTerminalWidth is the fallback wrap width when detection fails.
const DefaultTerminalWidth = 80

// TerminalWidth returns the current terminal width, clamped to a sane
// range for text wrapping.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < 40 {
		return 40
	}
	if width > 120 {
		return 120
	}
	return width
}
