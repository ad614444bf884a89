// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the parley TUI.
package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// wordWrap wraps text at word boundaries to fit the given display width.
// Words longer than the width are broken mid-word. Existing newlines are
// preserved.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var wrapped []string
	var current strings.Builder
	currentWidth := 0

	for _, word := range strings.Fields(line) {
		w := runewidth.StringWidth(word)

		// Break words that cannot fit on a line of their own.
		for w > width {
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				break
			}
			if currentWidth > 0 {
				wrapped = append(wrapped, current.String())
				current.Reset()
				currentWidth = 0
			}
			wrapped = append(wrapped, head)
			word = strings.TrimPrefix(word, head)
			w = runewidth.StringWidth(word)
		}
		if word == "" {
			continue
		}

		needed := w
		if currentWidth > 0 {
			needed++ // separating space
		}
		if currentWidth+needed > width {
			wrapped = append(wrapped, current.String())
			current.Reset()
			currentWidth = 0
		}
		if currentWidth > 0 {
			current.WriteByte(' ')
			currentWidth++
		}
		current.WriteString(word)
		currentWidth += w
	}
	if currentWidth > 0 {
		wrapped = append(wrapped, current.String())
	}
	if len(wrapped) == 0 {
		wrapped = []string{""}
	}
	return wrapped
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	max := 0
	for _, line := range strings.Split(text, "\n") {
		if w := runewidth.StringWidth(line); w > max {
			max = w
		}
	}
	return max
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
