// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"github.com/jeranaias/parley-tui/internal/model"
)

// =============================================================================
// MODEL SELECTION
// =============================================================================

// DefaultModel is transmitted whenever the caller does not pick a model.
const DefaultModel = "gpt-3.5-turbo"

// FallbackModels is returned by ListModels when the catalog endpoint is
// unavailable, so the UI is never without a selectable option.
var FallbackModels = []string{"gpt-3.5-turbo", "gpt-4"}

// =============================================================================
// REQUEST BODIES
// =============================================================================

// chatRequest is the body of POST /chat and POST /chat/stream.
type chatRequest struct {
	Content        string `json:"content"`
	ConversationID string `json:"conversation_id,omitempty"`
	Model          string `json:"model"`
}

// conversationIDRequest is the body of DELETE /chat.
type conversationIDRequest struct {
	ConversationID string `json:"conversation_id"`
}

// systemPromptRequest is the body of POST /system-prompt.
type systemPromptRequest struct {
	SystemPrompt string `json:"system_prompt"`
}

// =============================================================================
// RESPONSE BODIES
// =============================================================================

// metadataResponse wraps the sidebar listing.
type metadataResponse struct {
	Conversations []model.ConversationMeta `json:"conversations"`
}

// conversationResponse wraps a single full conversation.
type conversationResponse struct {
	Conversation *model.Conversation `json:"conversation"`
}

// modelsResponse wraps the model catalog.
type modelsResponse struct {
	Models []string `json:"models"`
}

// systemPromptResponse wraps the user's saved system prompt.
type systemPromptResponse struct {
	SystemPrompt string `json:"system_prompt"`
	UserID       string `json:"user_id"`
}

// errorDetail is the backend's error body shape.
type errorDetail struct {
	Detail string `json:"detail"`
}

// =============================================================================
// STREAM EVENTS
// =============================================================================

// Stream event type discriminators, one per `data:` line.
const (
	eventConversationID = "conversation_id"
	eventContent        = "content"
	eventTitle          = "title"
	eventDone           = "done"
	eventError          = "error"
)

// streamEvent is one decoded event payload from the chat stream.
type streamEvent struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
	Content        string `json:"content,omitempty"`
	Title          string `json:"title,omitempty"`
	ModelUsed      string `json:"model_used,omitempty"`
	Error          string `json:"error,omitempty"`
}

// StreamHandler receives events from a streaming send. Any nil callback
// is skipped. Callbacks run synchronously, in stream order, on the
// goroutine that called SendMessageStream.
type StreamHandler struct {
	// OnConversationID delivers the server-minted id. The server may
	// repeat the event; adopting the id must be idempotent.
	OnConversationID func(id string)

	// OnContent delivers an incremental text chunk. The caller owns
	// concatenation.
	OnContent func(chunk string)

	// OnTitle delivers a (re)generated conversation title.
	OnTitle func(title string)

	// OnDone signals completion with the model actually used. No further
	// events follow.
	OnDone func(modelUsed string)

	// OnError delivers a normalized failure message that arrived
	// mid-stream. No further events follow.
	OnError func(message string)
}

func (h StreamHandler) conversationID(id string) {
	if h.OnConversationID != nil {
		h.OnConversationID(id)
	}
}

func (h StreamHandler) content(chunk string) {
	if h.OnContent != nil {
		h.OnContent(chunk)
	}
}

func (h StreamHandler) title(title string) {
	if h.OnTitle != nil {
		h.OnTitle(title)
	}
}

func (h StreamHandler) done(modelUsed string) {
	if h.OnDone != nil {
		h.OnDone(modelUsed)
	}
}

func (h StreamHandler) fail(message string) {
	if h.OnError != nil {
		h.OnError(message)
	}
}
