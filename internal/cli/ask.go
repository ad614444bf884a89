// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command.
//
// `parley ask <question>` sends a single message and prints the reply
// to stdout, markdown-rendered when stdout is a terminal and raw when
// piped. With no question on the command line it prompts interactively.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/config"
	"github.com/jeranaias/parley-tui/internal/textdir"
	"github.com/jeranaias/parley-tui/internal/ui/components"
)

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAsk sends one question and prints the reply. The conversation
// the server mints for it is real: its id is printed so the user can
// reopen it in the TUI.
func HandleAsk(ctx context.Context, client *api.Client, args Args) error {
	question := strings.TrimSpace(args.Question)
	if question == "" {
		var err error
		question, err = promptQuestion()
		if err != nil {
			return err
		}
	}
	if question == "" {
		return errors.New("nothing to ask")
	}

	styled := IsStdoutTTY() && !args.Plain

	// Streaming to a pipe prints chunks as they arrive. Styled output
	// has to buffer: markdown cannot be rendered incrementally.
	if !styled && !args.NoStream {
		return askStreaming(ctx, client, question, args.Model)
	}
	return askBuffered(ctx, client, question, args.Model, styled)
}

func askBuffered(ctx context.Context, client *api.Client, question, modelID string, styled bool) error {
	reply, err := client.SendMessage(ctx, question, "", modelID)
	if err != nil {
		return errors.New(api.Normalize(err))
	}

	fmt.Println(displayReply(reply.Response, styled))
	if reply.ConversationID != "" {
		fmt.Fprintf(os.Stderr, "\nconversation: /chat/%s\n", reply.ConversationID)
	}
	return nil
}

func askStreaming(ctx context.Context, client *api.Client, question, modelID string) error {
	var (
		conversationID string
		streamErr      string
	)

	err := client.SendMessageStream(ctx, question, "", modelID, api.StreamHandler{
		OnConversationID: func(id string) { conversationID = id },
		OnContent:        func(chunk string) { fmt.Print(chunk) },
		OnError:          func(message string) { streamErr = message },
	})
	if err != nil {
		return errors.New(api.Normalize(err))
	}
	if streamErr != "" {
		return errors.New(streamErr)
	}

	fmt.Println()
	if conversationID != "" {
		fmt.Fprintf(os.Stderr, "\nconversation: /chat/%s\n", conversationID)
	}
	return nil
}

// displayReply renders the reply for the terminal. Right-to-left text
// skips markdown rendering the same way the TUI bubbles do.
func displayReply(text string, styled bool) string {
	if !styled {
		return text
	}
	if textdir.IsRTL(text) {
		return text
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(TerminalWidth()),
	)
	if err != nil {
		return components.HighlightFences(text)
	}
	out, err := renderer.Render(text)
	if err != nil {
		return components.HighlightFences(text)
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// INTERACTIVE PROMPT
// =============================================================================

// promptQuestion reads a question from the terminal with line editing
// and persistent history.
func promptQuestion() (string, error) {
	if !IsTTY() {
		return "", errors.New("no question given and stdin is not a terminal")
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath, _ := config.FilePath("ask_history")
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	input, err := line.Prompt("ask> ")
	if err != nil {
		if err == liner.ErrPromptAborted {
			return "", errors.New("aborted")
		}
		return "", err
	}

	input = strings.TrimSpace(input)
	if input != "" && historyPath != "" {
		line.AppendHistory(input)
		if err := config.EnsureConfigDir(); err == nil {
			if f, err := os.OpenFile(historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}
	}

	return input, nil
}
