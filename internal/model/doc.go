// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the API
// client, the conversation store, and the UI.
//
// Two message representations exist on purpose:
//
//   - TranscriptEntry is the persisted, role-tagged form the backend
//     stores and returns ({role: "user"|"assistant", content}).
//   - Message is the UI form ({content, isUser, timestamp}), rebuilt
//     from the persisted transcript whenever a conversation is loaded.
//
// The conversion between the two lives here so the mapping
// (role "user" <-> IsUser=true) is defined in exactly one place.
package model
