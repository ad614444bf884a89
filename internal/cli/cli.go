// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"
)

// Version is the parley release string, stamped at build time.
var Version = "dev"

// =============================================================================
// COMMANDS
// =============================================================================

// Command identifies which parley subcommand was requested.
type Command int

const (
	// CmdTUI launches the full-screen chat interface. This is the
	// default when no subcommand is given.
	CmdTUI Command = iota

	// CmdAsk sends a single question and prints the reply.
	CmdAsk

	// CmdLogin starts the browser-based Google login flow.
	CmdLogin

	// CmdLogout ends the session everywhere.
	CmdLogout

	// CmdStatus prints session and configuration state.
	CmdStatus

	// CmdPrompt shows or replaces the user's system prompt.
	CmdPrompt

	// CmdVersion prints the version string.
	CmdVersion

	// CmdHelp prints usage.
	CmdHelp
)

// Args carries the parsed invocation.
type Args struct {
	Cmd Command

	// Path is the conversation deep link ("/chat/<id>") to open on
	// startup, "" for a fresh chat. TUI only.
	Path string

	// Model overrides the configured default model for this run.
	Model string

	// NoStream forces the buffered send path.
	NoStream bool

	// Plain disables markdown rendering for ask output.
	Plain bool

	// Question is the joined ask prompt, "" to prompt interactively.
	Question string

	// Prompt is the system prompt text to save, "" to show the current
	// one.
	Prompt string
}

// =============================================================================
// PARSING
// =============================================================================

// Parse interprets os.Args[1:]. The first positional selects the
// subcommand; a positional that looks like a conversation path
// ("/chat/<id>") deep-links the TUI instead.
func Parse(raw []string) Args {
	p := NewArgParser(raw)

	args := Args{
		Model:    p.Flag("model"),
		NoStream: p.BoolFlag("no-stream"),
		Plain:    p.BoolFlag("plain"),
	}

	if p.BoolFlag("version") || p.BoolFlag("v") {
		args.Cmd = CmdVersion
		return args
	}
	if p.BoolFlag("help") || p.BoolFlag("h") {
		args.Cmd = CmdHelp
		return args
	}

	// Flag spellings of the subcommands also work: --login, --logout,
	// --ask "question".
	switch {
	case p.BoolFlag("login"):
		args.Cmd = CmdLogin
		return args
	case p.BoolFlag("logout"):
		args.Cmd = CmdLogout
		return args
	case p.BoolFlag("status"):
		args.Cmd = CmdStatus
		return args
	case p.Flag("ask") != "" || p.BoolFlag("ask"):
		args.Cmd = CmdAsk
		parts := append([]string{p.Flag("ask")}, p.PositionalFrom(0)...)
		args.Question = strings.TrimSpace(strings.Join(parts, " "))
		return args
	}

	first := p.Positional(0)
	switch {
	case first == "":
		args.Cmd = CmdTUI
	case strings.HasPrefix(first, "/"):
		args.Cmd = CmdTUI
		args.Path = first
	case first == "ask":
		args.Cmd = CmdAsk
		args.Question = strings.Join(p.PositionalFrom(1), " ")
	case first == "login":
		args.Cmd = CmdLogin
	case first == "logout":
		args.Cmd = CmdLogout
	case first == "status":
		args.Cmd = CmdStatus
	case first == "prompt":
		args.Cmd = CmdPrompt
		args.Prompt = strings.Join(p.PositionalFrom(1), " ")
	case first == "version":
		args.Cmd = CmdVersion
	case first == "help":
		args.Cmd = CmdHelp
	default:
		// Unknown word: treat it as the start of an ask question, so
		// `parley what is a monad` just works.
		args.Cmd = CmdAsk
		args.Question = strings.Join(p.PositionalFrom(0), " ")
	}

	return args
}

// Usage returns the help text.
func Usage() string {
	return strings.TrimLeft(`
parley - conversational AI chat in your terminal

Usage:
  parley                     Launch the chat interface
  parley /chat/<id>          Launch with a conversation open
  parley ask <question>      One-shot question, answer to stdout
  parley login               Log in with Google
  parley logout              Log out everywhere
  parley status              Show session and configuration
  parley prompt [text]       Show or replace your system prompt
  parley version             Show version

Flags:
  --model <id>   Model for this run (overrides config)
  --no-stream    Use the buffered send path
  --plain        Disable markdown rendering of ask output
`, "\n")
}

// PrintUsage writes usage to stdout.
func PrintUsage() {
	fmt.Print(Usage())
}
