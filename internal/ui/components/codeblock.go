// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// =============================================================================
// CODE FENCE HIGHLIGHTING
// =============================================================================

// HighlightFences syntax-highlights fenced code blocks in markdown text
// using ANSI colors, leaving prose untouched. It is the fallback when
// full markdown rendering is unavailable (renderer construction failed,
// or plain CLI output).
//
// The fence language tag selects the lexer; an unknown or missing tag
// falls back to chroma's analysis, and on any highlight failure the
// block passes through unstyled.
func HighlightFences(content string) string {
	if !strings.Contains(content, "```") {
		return content
	}

	var (
		out    strings.Builder
		code   strings.Builder
		lang   string
		inside bool
	)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if inside {
				out.WriteString(highlightBlock(code.String(), lang))
				code.Reset()
				inside = false
			} else {
				lang = strings.TrimPrefix(trimmed, "```")
				inside = true
			}
			continue
		}

		if inside {
			code.WriteString(line)
			code.WriteString("\n")
		} else {
			out.WriteString(line)
			out.WriteString("\n")
		}
	}

	// Unterminated fence: emit what accumulated.
	if inside {
		out.WriteString(highlightBlock(code.String(), lang))
	}

	return strings.TrimRight(out.String(), "\n")
}

func highlightBlock(code, lang string) string {
	var sb strings.Builder
	if err := quick.Highlight(&sb, code, lang, "terminal256", "monokai"); err != nil {
		return code
	}
	return sb.String()
}
