// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth owns the user session: probe, refresh, login/logout,
// cross-process status broadcast, and cookie persistence.
//
// # Session lifecycle
//
// The Manager probes GET /auth/me on startup and every 60 seconds
// after. While a user is present it refreshes the session token every
// 45 minutes, undercutting the server's 60-minute token lifetime; a
// refused refresh logs out. All network failures collapse to the
// unauthenticated state — the manager never surfaces an error.
//
// # Cross-process broadcast
//
// Multiple parley processes share one session cookie, so they must
// agree on its state. A single shared file
// (~/.parley/auth_state.json) holds {"status": ...}; each process
// publishes its transitions atomically and watches the file with
// fsnotify. Seeing "unauthenticated" drops the local session; seeing
// "authenticated" triggers a fresh probe.
//
// # Cookie persistence
//
// PersistentJar seals the backend's cookies to disk under a
// machine-scoped key (scrypt + XChaCha20-Poly1305, 0600), keeping the
// user logged in across runs without storing the credential in the
// clear.
package auth
