// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// parley - conversational AI chat in your terminal.
//
// Run bare for the full-screen interface, or see `parley help` for the
// one-shot commands.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/auth"
	"github.com/jeranaias/parley-tui/internal/cache"
	"github.com/jeranaias/parley-tui/internal/cli"
	"github.com/jeranaias/parley-tui/internal/config"
	"github.com/jeranaias/parley-tui/internal/route"
	"github.com/jeranaias/parley-tui/internal/store"
	"github.com/jeranaias/parley-tui/internal/ui/chat"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	args := cli.Parse(os.Args[1:])

	// Fast paths that need no backend wiring.
	switch args.Cmd {
	case cli.CmdVersion:
		fmt.Printf("parley %s\n", cli.Version)
		return nil
	case cli.CmdHelp:
		cli.PrintUsage()
		return nil
	}

	cfg := config.Global()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logf := debugLogger()

	jar := sessionJar(cfg, logf)
	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:           cfg.APIURL,
		Timeout:           cfg.RequestTimeout(),
		Jar:               jar.http,
		RequestsPerSecond: 10,
		Logf:              logf,
	})

	broadcastPath, _ := config.FilePath("auth_state.json")

	switch args.Cmd {
	case cli.CmdAsk:
		return cli.HandleAsk(ctx, client, args)
	case cli.CmdLogin:
		return cli.HandleLogin(ctx, client, auth.NewBroadcast(broadcastPath))
	case cli.CmdLogout:
		return cli.HandleLogout(ctx, client, jar.persistent, auth.NewBroadcast(broadcastPath))
	case cli.CmdStatus:
		return cli.HandleStatus(ctx, client, cfg)
	case cli.CmdPrompt:
		return cli.HandlePrompt(ctx, client, args)
	}

	return runTUI(ctx, cfg, client, broadcastPath, args, logf)
}

// =============================================================================
// TUI WIRING
// =============================================================================

func runTUI(ctx context.Context, cfg *config.Config, client *api.Client, broadcastPath string, args cli.Args, logf func(string, ...any)) error {
	session := auth.NewManager(client, auth.Config{
		ProbeInterval:   cfg.ProbeInterval(),
		RefreshInterval: cfg.RefreshInterval(),
		BroadcastPath:   broadcastPath,
	})
	session.Start(ctx)
	defer session.Close()

	nav := route.New()

	var metaCache *cache.MetadataCache
	if cfg.Cache.Enabled {
		if path, err := config.FilePath("cache.db"); err == nil && config.EnsureConfigDir() == nil {
			if c, err := cache.Open(path); err == nil {
				metaCache = c
				defer c.Close()
			} else if logf != nil {
				logf("cache disabled: %v", err)
			}
		}
	}

	modelID := cfg.DefaultModel
	if args.Model != "" {
		modelID = args.Model
	}

	st := store.New(client, session, nav, store.Options{
		Streaming: cfg.Streaming && !args.NoStream,
		Model:     modelID,
		Cache:     metaCache,
		Logf:      logf,
	})

	m := chat.New(st, session, nav, client, themeFor(cfg))

	// A /chat/<id> argument behaves like opening that URL: the store
	// reconciles it as an outside navigation and loads the transcript.
	if args.Path != "" {
		nav.Navigate(args.Path, route.SourceExternal)
	}

	program := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func themeFor(cfg *config.Config) *styles.Theme {
	switch cfg.UI.Theme {
	case "dark":
		return styles.NewWithDark(true)
	case "light":
		return styles.NewWithDark(false)
	default:
		return styles.New()
	}
}

// =============================================================================
// SUPPORTING WIRING
// =============================================================================

// jarPair carries the cookie jar under both types: the client wants
// http.CookieJar, logout wants the concrete persistent jar to clear.
type jarPair struct {
	http       http.CookieJar
	persistent *auth.PersistentJar
}

// sessionJar builds the cookie jar, sealed to disk when persistence is
// enabled. A jar failure degrades to in-memory cookies rather than
// refusing to start.
func sessionJar(cfg *config.Config, logf func(string, ...any)) jarPair {
	if !cfg.Auth.PersistCookies {
		return jarPair{}
	}
	path, err := config.FilePath("cookies")
	if err != nil {
		return jarPair{}
	}
	if err := config.EnsureConfigDir(); err != nil {
		if logf != nil {
			logf("cookie persistence disabled: %v", err)
		}
		return jarPair{}
	}
	jar, err := auth.NewPersistentJar(cfg.APIURL, path)
	if err != nil {
		if logf != nil {
			logf("cookie persistence disabled: %v", err)
		}
		return jarPair{}
	}
	return jarPair{http: jar, persistent: jar}
}

// debugLogger returns a diagnostics sink, nil unless PARLEY_DEBUG is
// set. A TUI cannot log to its own stdout, so diagnostics append to
// ~/.parley/parley.log.
func debugLogger() func(string, ...any) {
	if os.Getenv("PARLEY_DEBUG") == "" {
		return nil
	}
	path, err := config.FilePath("parley.log")
	if err != nil {
		return nil
	}
	if err := config.EnsureConfigDir(); err != nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil
	}
	logger := log.New(f, "", log.LstdFlags)
	return logger.Printf
}
