// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the one-shot commands
// for parley.
//
// The TUI is the default; everything here is the thin surface around
// it:
//
//	args := cli.Parse(os.Args[1:])
//	switch args.Cmd {
//	case cli.CmdAsk:
//	    return cli.HandleAsk(ctx, client, args)
//	case cli.CmdLogin:
//	    return cli.HandleLogin(ctx, client, broadcast)
//	// ...
//	}
//
// Commands:
//   - ask: single question, markdown-rendered reply when stdout is a
//     terminal, raw streaming when piped
//   - login / logout: browser-based session management, broadcast to
//     running siblings
//   - status: configuration and live session state
//   - prompt: show or replace the per-user system prompt the backend
//     injects ahead of every conversation
//
// A positional argument of the form /chat/<id> deep-links the TUI into
// that conversation.
package cli
