// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// =============================================================================
// STREAM CONSUMPTION
// =============================================================================

// dataPrefix is the strict wire framing: every event payload line starts
// with these 6 bytes. Blank lines separate events and carry nothing.
const dataPrefix = "data: "

// consumeStream reads the event stream line by line and dispatches each
// decoded event through the handler. The buffered reader tolerates a
// JSON payload split across network chunks: a line is only processed
// once its newline has arrived (or the stream ended on a partial tail).
//
// Reading stops at the first done or error event, at EOF, or when ctx is
// cancelled. Malformed payload lines are skipped, never fatal.
func consumeStream(ctx context.Context, body io.Reader, handler StreamHandler) error {
	reader := bufio.NewReader(body)

	for {
		select {
		case <-ctx.Done():
			handler.fail(Normalize(ctx.Err()))
			return ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if stop := dispatchLine(line, handler); stop {
				return nil
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			handler.fail(Normalize(err))
			return nil
		}
	}
}

// dispatchLine decodes one stream line and invokes the matching
// callback. Returns true when the stream is finished (done or error
// event) and no further reads should occur.
func dispatchLine(line string, handler StreamHandler) bool {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, dataPrefix) {
		return false
	}

	var event streamEvent
	if err := json.Unmarshal([]byte(line[len(dataPrefix):]), &event); err != nil {
		// Malformed payloads are skipped, not fatal.
		return false
	}

	switch event.Type {
	case eventConversationID:
		handler.conversationID(event.ConversationID)
	case eventContent:
		handler.content(event.Content)
	case eventTitle:
		handler.title(event.Title)
	case eventDone:
		handler.done(event.ModelUsed)
		return true
	case eventError:
		handler.fail(event.Error)
		return true
	}
	return false
}
