// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns all conversation state: the active conversation
// and its transcript, the sidebar metadata list, send/load progress,
// and the error banner. State is mutated only through the store's own
// methods under one mutex; the UI observes via change listeners and
// reads consistent snapshots.
//
// The store keeps one invariant above all: the active conversation id
// and the location path always agree. Both user navigation and the
// store's own id adoption can change the path, so every navigation
// carries its source — the store reconciles External navigations
// (back/forward, deep-links) against its state and ignores its own
// Internal ones entirely.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/cache"
	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/route"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Backend is the slice of the API client the store consumes.
// *api.Client satisfies it.
type Backend interface {
	ListConversations(ctx context.Context) ([]model.ConversationMeta, error)
	GetConversation(ctx context.Context, id string) (*model.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	SendMessage(ctx context.Context, content, conversationID, modelID string) (*model.ChatReply, error)
	SendMessageStream(ctx context.Context, content, conversationID, modelID string, handler api.StreamHandler) error
}

// Authorizer reports whether a user session is live. *auth.Manager
// satisfies it.
type Authorizer interface {
	Authenticated() bool
}

// Options configures a Store.
type Options struct {
	// Streaming selects the event-stream send path; off means every
	// send is buffered.
	Streaming bool

	// Model is the initially selected model id. Empty defers to the
	// server default.
	Model string

	// Cache optionally accelerates the sidebar with the last-known
	// metadata list. Nil disables.
	Cache *cache.MetadataCache

	// Logf receives degraded-path diagnostics. Nil discards.
	Logf func(format string, args ...any)
}

// =============================================================================
// STORE
// =============================================================================

// Store is the conversation state machine. Safe for concurrent use.
type Store struct {
	backend   Backend
	auth      Authorizer
	nav       *route.Navigator
	cache     *cache.MetadataCache
	streaming bool
	logf      func(format string, args ...any)

	mu         sync.Mutex
	phase      Phase
	activeID   string
	loadingID  string // transcript fetch in flight for this id
	generation uint64 // bumped per load; stale results are discarded
	messages   []model.Message
	metas      []model.ConversationMeta
	sending    bool
	banner     string
	modelID    string
	listeners  []func()
}

// New creates a store and subscribes it to the navigator's External
// navigation events.
func New(backend Backend, auth Authorizer, nav *route.Navigator, opts Options) *Store {
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	s := &Store{
		backend:   backend,
		auth:      auth,
		nav:       nav,
		cache:     opts.Cache,
		streaming: opts.Streaming,
		logf:      logf,
		phase:     PhaseIdle,
		modelID:   opts.Model,
	}
	if nav != nil {
		nav.Subscribe(s.onNavigate)
	}
	return s
}

// =============================================================================
// OBSERVATION
// =============================================================================

// Subscribe registers a change listener, invoked after every state
// mutation, outside the store's lock.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// ActiveID returns the active conversation id, "" when fresh.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Phase returns the lifecycle phase of the active conversation.
func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Messages returns a copy of the transcript.
func (s *Store) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Metas returns a copy of the sidebar metadata list.
func (s *Store) Metas() []model.ConversationMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ConversationMeta, len(s.metas))
	copy(out, s.metas)
	return out
}

// Sending reports whether a send is in flight.
func (s *Store) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// Banner returns the current banner error, "" when none.
func (s *Store) Banner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner
}

// ClearBanner dismisses the banner error.
func (s *Store) ClearBanner() {
	s.mu.Lock()
	s.banner = ""
	s.mu.Unlock()
	s.notify()
}

// Model returns the selected model id, "" meaning server default.
func (s *Store) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelID
}

// SetModel selects the model for subsequent sends.
func (s *Store) SetModel(id string) {
	s.mu.Lock()
	s.modelID = id
	s.mu.Unlock()
	s.notify()
}

// =============================================================================
// METADATA
// =============================================================================

// LoadCachedMetadata seeds the sidebar from the local cache, for
// instant startup rendering. The live list replaces it when it lands.
func (s *Store) LoadCachedMetadata(ctx context.Context) {
	if s.cache == nil {
		return
	}
	metas, err := s.cache.List(ctx)
	if err != nil || len(metas) == 0 {
		return
	}

	s.mu.Lock()
	if len(s.metas) == 0 {
		s.metas = metas
	}
	s.mu.Unlock()
	s.notify()
}

// LoadMetadata fetches the sidebar list. When unauthenticated the list
// is cleared without touching the network.
func (s *Store) LoadMetadata(ctx context.Context) {
	if !s.auth.Authenticated() {
		s.mu.Lock()
		s.metas = []model.ConversationMeta{}
		s.mu.Unlock()
		s.notify()
		return
	}

	metas, _ := s.backend.ListConversations(ctx)
	if metas == nil {
		metas = []model.ConversationMeta{}
	}

	s.mu.Lock()
	s.metas = metas
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Replace(ctx, metas); err != nil {
			s.logf("metadata cache update failed: %v", err)
		}
	}
	s.notify()
}

// DeleteConversation removes a conversation. Deleting the active one
// resets to a fresh conversation.
func (s *Store) DeleteConversation(ctx context.Context, id string) {
	if err := s.backend.DeleteConversation(ctx, id); err != nil {
		s.mu.Lock()
		s.banner = api.Normalize(err)
		s.mu.Unlock()
		s.notify()
		return
	}

	s.mu.Lock()
	kept := s.metas[:0]
	for _, meta := range s.metas {
		if meta.ID != id {
			kept = append(kept, meta)
		}
	}
	s.metas = kept
	wasActive := s.activeID == id
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.logf("metadata cache delete failed: %v", err)
		}
	}

	if wasActive {
		s.NewChat()
	} else {
		s.notify()
	}
}

// =============================================================================
// CONVERSATION SELECTION
// =============================================================================

// SelectConversation activates a conversation: navigates to its path
// and loads the transcript. Selecting the already-active id is a
// no-op. Unauthenticated selection surfaces a banner and does not
// navigate.
func (s *Store) SelectConversation(ctx context.Context, id string) {
	s.mu.Lock()
	if id == s.activeID {
		s.mu.Unlock()
		return
	}
	if !s.auth.Authenticated() {
		s.banner = api.ErrAuthRequired.Message
		s.mu.Unlock()
		s.notify()
		return
	}
	s.applyLocked(EventSelect)
	s.mu.Unlock()

	if s.nav != nil {
		s.nav.Navigate(route.PathForConversation(id), route.SourceInternal)
	}
	s.loadConversation(ctx, id)
}

// NewChat clears to a fresh conversation at the root path. Already
// fresh at root is a no-op.
func (s *Store) NewChat() {
	s.mu.Lock()
	fresh := s.activeID == "" && len(s.messages) == 0 && s.banner == ""
	atRoot := s.nav == nil || s.nav.Path() == route.RootPath
	if fresh && atRoot {
		s.mu.Unlock()
		return
	}
	s.resetLocked()
	s.mu.Unlock()

	if s.nav != nil {
		s.nav.Navigate(route.RootPath, route.SourceInternal)
	}
	s.notify()
}

// loadConversation fetches a transcript and activates it.
//
// Re-entrancy: a second call for the id already in flight is a no-op;
// a call for a different id proceeds and the superseded fetch's result
// is discarded when it lands. An unauthenticated load clears all
// conversation state instead of fetching. A nil result (missing or
// inaccessible conversation) resets to a fresh conversation — user
// intent to start over, not a fault.
func (s *Store) loadConversation(ctx context.Context, id string) {
	if !s.auth.Authenticated() {
		s.mu.Lock()
		s.resetLocked()
		s.mu.Unlock()
		s.goRoot()
		s.notify()
		return
	}

	s.mu.Lock()
	if s.loadingID == id {
		s.mu.Unlock()
		return
	}
	s.loadingID = id
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	conv, err := s.backend.GetConversation(ctx, id)

	s.mu.Lock()
	if s.generation != gen {
		// A later load superseded this one; drop the result.
		s.mu.Unlock()
		return
	}
	s.loadingID = ""

	if err != nil {
		s.banner = api.Normalize(err)
		s.applyLocked(EventLoadFailed)
		s.mu.Unlock()
		s.notify()
		return
	}

	if conv == nil {
		s.resetLocked()
		s.mu.Unlock()
		s.goRoot()
		s.notify()
		return
	}

	s.activeID = conv.ID
	s.messages = model.MessagesFromTranscript(conv.Messages)
	s.banner = ""
	s.applyLocked(EventLoadSucceeded)
	s.mu.Unlock()
	s.notify()
}

// =============================================================================
// SENDING
// =============================================================================

// SendMessage sends content to the active conversation (or mints a new
// one when none is active). Blank content is a no-op. Unauthenticated
// sends fail fast with a banner and never touch the network.
//
// The user message is appended optimistically before the network call.
// On failure the normalized error is appended as a synthetic
// assistant-role transcript entry as well as set on the banner, so the
// failed exchange stays visible in context.
func (s *Store) SendMessage(ctx context.Context, content string) {
	if strings.TrimSpace(content) == "" {
		return
	}

	s.mu.Lock()
	if !s.auth.Authenticated() {
		s.banner = api.ErrAuthRequired.Message
		s.mu.Unlock()
		s.notify()
		return
	}
	if s.sending {
		s.mu.Unlock()
		return
	}
	s.sending = true
	s.banner = ""
	s.messages = append(s.messages, model.NewUserMessage(content))
	convID := s.activeID
	modelID := s.modelID
	gen := s.generation
	s.mu.Unlock()
	s.notify()

	if s.streaming {
		s.sendStreaming(ctx, content, convID, modelID, gen)
	} else {
		s.sendBuffered(ctx, content, convID, modelID, gen)
	}
}

// sendBuffered posts and waits for the complete reply.
func (s *Store) sendBuffered(ctx context.Context, content, convID, modelID string, gen uint64) {
	reply, err := s.backend.SendMessage(ctx, content, convID, modelID)
	if err != nil {
		s.failSend(gen, api.Normalize(err))
		return
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	s.sending = false
	adopted := s.adoptIDLocked(reply.ConversationID)
	s.messages = append(s.messages, model.NewAssistantMessage(reply.Response))
	s.mu.Unlock()

	if adopted != "" && s.nav != nil {
		s.nav.Navigate(route.PathForConversation(adopted), route.SourceInternal)
	}
	s.notify()
	s.LoadMetadata(ctx)
}

// sendStreaming posts and assembles the reply incrementally from the
// event stream.
func (s *Store) sendStreaming(ctx context.Context, content, convID, modelID string, gen uint64) {
	// Index of this exchange's assistant bubble, once the first chunk
	// arrives. Guarded by s.mu.
	assistantAt := -1

	handler := api.StreamHandler{
		OnConversationID: func(id string) {
			s.mu.Lock()
			if s.generation != gen {
				s.mu.Unlock()
				return
			}
			adopted := s.adoptIDLocked(id)
			s.mu.Unlock()
			if adopted != "" && s.nav != nil {
				s.nav.Navigate(route.PathForConversation(adopted), route.SourceInternal)
			}
			s.notify()
		},
		OnContent: func(chunk string) {
			s.mu.Lock()
			if s.generation != gen {
				s.mu.Unlock()
				return
			}
			if assistantAt < 0 {
				s.messages = append(s.messages, model.NewAssistantMessage(chunk))
				assistantAt = len(s.messages) - 1
			} else {
				s.messages[assistantAt].Content += chunk
			}
			s.mu.Unlock()
			s.notify()
		},
		OnTitle: func(title string) {
			s.mu.Lock()
			id := s.activeID
			for i := range s.metas {
				if s.metas[i].ID == id {
					s.metas[i].Title = title
				}
			}
			s.mu.Unlock()
			if s.cache != nil && id != "" {
				if err := s.cache.Touch(ctx, id, title); err != nil {
					s.logf("metadata cache title update failed: %v", err)
				}
			}
			s.notify()
		},
		OnDone: func(modelUsed string) {
			s.mu.Lock()
			if s.generation != gen {
				s.mu.Unlock()
				return
			}
			s.sending = false
			s.mu.Unlock()
			s.notify()
			s.LoadMetadata(ctx)
		},
		OnError: func(message string) {
			s.failSend(gen, message)
		},
	}

	// Pre-stream failures return here without touching the handler.
	if err := s.backend.SendMessageStream(ctx, content, convID, modelID, handler); err != nil {
		s.failSend(gen, api.Normalize(err))
	}
}

// failSend records a send failure: the error becomes both a synthetic
// assistant-role transcript entry and the banner.
func (s *Store) failSend(gen uint64, message string) {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	s.sending = false
	s.banner = message
	s.messages = append(s.messages, model.NewErrorMessage(message))
	s.mu.Unlock()
	s.notify()
}

// adoptIDLocked adopts a server-minted conversation id for a
// brand-new conversation. Returns the id when the caller must reflect
// it into the route, "" otherwise. Idempotent: the server may repeat
// the id. Called with s.mu held.
func (s *Store) adoptIDLocked(id string) string {
	if id == "" || s.activeID == id {
		return ""
	}
	if s.activeID != "" {
		// Replies for an existing conversation echo its id; nothing to
		// adopt.
		return ""
	}
	s.activeID = id
	s.applyLocked(EventAdoptID)
	return id
}

// =============================================================================
// ROUTE RECONCILIATION
// =============================================================================

// onNavigate reconciles the store against location changes that did
// not originate from the store itself. Internal navigations carry
// their origin and are skipped outright.
func (s *Store) onNavigate(e route.Event) {
	if e.Source != route.SourceExternal {
		return
	}

	id := route.ConversationIDFromPath(e.Path)

	s.mu.Lock()
	if id == s.activeID {
		s.mu.Unlock()
		return
	}
	if id == "" {
		// Back to root with a conversation active: reset.
		s.resetLocked()
		s.mu.Unlock()
		s.notify()
		return
	}
	s.applyLocked(EventExternalNavigation)
	s.mu.Unlock()

	s.loadConversation(context.Background(), id)
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// applyLocked moves the lifecycle machine. Called with s.mu held.
func (s *Store) applyLocked(e Event) {
	if to, ok := next(s.phase, e); ok {
		s.phase = to
	}
}

// resetLocked clears to a fresh empty conversation. Called with s.mu
// held.
func (s *Store) resetLocked() {
	s.activeID = ""
	s.loadingID = ""
	s.generation++ // invalidate any in-flight load or stream
	s.messages = nil
	s.banner = ""
	s.applyLocked(EventReset)
}

// goRoot points the location at the root path as a self-caused change.
func (s *Store) goRoot() {
	if s.nav != nil {
		s.nav.Navigate(route.RootPath, route.SourceInternal)
	}
}
