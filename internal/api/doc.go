// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the typed HTTP boundary to the parley backend.
//
// Every request is credentialed: the client carries a cookie jar and the
// backend authenticates via the session cookie. Read paths never fail
// for "absence" (401/404 collapse to empty/nil); write paths surface
// typed errors. The streaming send consumes a text/event-stream response
// line by line and dispatches events through a StreamHandler.
package api
