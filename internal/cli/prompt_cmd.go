// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// prompt_cmd.go - system prompt command.
//
// The backend keeps one system prompt per user and injects it ahead of
// every conversation. `parley prompt` shows it, `parley prompt <text>`
// replaces it.

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/parley-tui/internal/api"
)

// HandlePrompt shows or sets the user's system prompt.
func HandlePrompt(ctx context.Context, client *api.Client, args Args) error {
	text := strings.TrimSpace(args.Prompt)
	if text == "" {
		prompt, err := client.GetSystemPrompt(ctx)
		if err != nil {
			return errors.New(api.Normalize(err))
		}
		if prompt == "" {
			fmt.Println("(no system prompt set)")
			return nil
		}
		fmt.Println(prompt)
		return nil
	}

	if err := client.SetSystemPrompt(ctx, text); err != nil {
		return errors.New(api.Normalize(err))
	}
	fmt.Println("System prompt saved.")
	return nil
}
