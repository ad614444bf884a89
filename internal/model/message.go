// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role tags an entry in the persisted transcript.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// TRANSCRIPT ENTRY (PERSISTED FORM)
// =============================================================================

// TranscriptEntry is one message as the backend persists it.
type TranscriptEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// =============================================================================
// MESSAGE (UI FORM)
// =============================================================================

// Message is a single chat bubble as the UI renders it. It is ephemeral:
// it lives only in the active conversation store and is rebuilt from the
// persisted transcript on load.
type Message struct {
	// Identity
	ID string `json:"id"`

	// Content
	Content string `json:"content"`
	IsUser  bool   `json:"is_user"`

	// Timestamp is when this message entered the local transcript.
	Timestamp time.Time `json:"timestamp,omitempty"`

	// IsError marks a synthetic assistant-role bubble that carries a
	// normalized failure message instead of a model reply. Failures stay
	// visible in-transcript by design, not only in the error banner.
	IsError bool `json:"-"`
}

// NewUserMessage creates a user message with a generated ID.
func NewUserMessage(content string) Message {
	return Message{
		ID:        generateMessageID(),
		Content:   content,
		IsUser:    true,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message with a generated ID.
func NewAssistantMessage(content string) Message {
	return Message{
		ID:        generateMessageID(),
		Content:   content,
		IsUser:    false,
		Timestamp: time.Now(),
	}
}

// NewErrorMessage creates a synthetic assistant bubble carrying a
// failure description.
func NewErrorMessage(text string) Message {
	msg := NewAssistantMessage(text)
	msg.IsError = true
	return msg
}

// Role returns the transcript role this message maps to.
func (m Message) Role() Role {
	if m.IsUser {
		return RoleUser
	}
	return RoleAssistant
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// MessagesFromTranscript rebuilds the UI transcript from the persisted
// role-tagged form, preserving order. role "user" maps to IsUser=true,
// everything else renders as an assistant bubble.
func MessagesFromTranscript(entries []TranscriptEntry) []Message {
	msgs := make([]Message, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, Message{
			ID:      generateMessageID(),
			Content: e.Content,
			IsUser:  e.Role == RoleUser,
		})
	}
	return msgs
}

// TranscriptFromMessages converts UI messages back to the role-tagged
// form. Synthetic error bubbles are skipped: they were never part of
// the persisted conversation.
func TranscriptFromMessages(msgs []Message) []TranscriptEntry {
	entries := make([]TranscriptEntry, 0, len(msgs))
	for _, m := range msgs {
		if m.IsError {
			continue
		}
		entries = append(entries, TranscriptEntry{
			Role:    m.Role(),
			Content: m.Content,
		})
	}
	return entries
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateMessageID creates a unique message ID.
func generateMessageID() string {
	return "msg_" + uuid.NewString()
}
