// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// CONVERSATION TYPES
// =============================================================================

// Conversation is the canonical persisted form the backend returns from
// GET /conversations/{id}: metadata plus the full role-tagged transcript.
type Conversation struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	UserID    string            `json:"user_id"`
	Messages  []TranscriptEntry `json:"messages"`
}

// ConversationMeta is the lightweight summary record used to populate
// the sidebar without fetching message bodies. List ordering is
// server-determined (reverse-chronological by updated_at).
type ConversationMeta struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `json:"user_id"`
}

// =============================================================================
// CONVERSATION METHODS
// =============================================================================

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Chat"
}

// GetTitle returns the summary title or a default. The server leaves
// the title empty until it generates one from the first exchange.
func (m ConversationMeta) GetTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return "New Chat"
}

// MessageCount returns the number of transcript entries.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Preview returns a short preview from the first user message.
func (c *Conversation) Preview(maxLen int) string {
	for _, e := range c.Messages {
		if e.Role == RoleUser && e.Content != "" {
			content := strings.ReplaceAll(e.Content, "\n", " ")
			runes := []rune(content)
			if len(runes) > maxLen {
				return string(runes[:maxLen-3]) + "..."
			}
			return content
		}
	}
	return ""
}

// Meta returns the summary record for this conversation.
func (c *Conversation) Meta() ConversationMeta {
	return ConversationMeta{
		ID:        c.ID,
		Title:     c.GetTitle(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		UserID:    c.UserID,
	}
}

// =============================================================================
// CHAT REPLY
// =============================================================================

// ChatReply is the buffered response from POST /chat. The streaming
// variant supersedes it with an event stream.
type ChatReply struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
	ModelUsed      string `json:"model_used,omitempty"`
}
