// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "fmt"

// =============================================================================
// CONVERSATION LIFECYCLE STATE MACHINE
// =============================================================================

// The active conversation moves through an explicit lifecycle. Every
// transition is driven by a named event through one table, so there is
// exactly one place where "what may follow what" lives — no scattered
// boolean flags deciding reachability.

// Phase is the lifecycle state of the active conversation.
type Phase int

const (
	// PhaseIdle: no conversation selected; a send from here mints a new
	// conversation server-side.
	PhaseIdle Phase = iota

	// PhaseLoading: a transcript fetch is in flight for the target id.
	PhaseLoading

	// PhaseReady: a conversation is active with its transcript loaded.
	PhaseReady

	// PhaseError: the last lifecycle operation failed; a banner is set.
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Event names a lifecycle transition cause.
type Event int

const (
	// EventSelect: the user picked a conversation (sidebar, deep-link).
	EventSelect Event = iota

	// EventLoadSucceeded: the transcript fetch landed for the current
	// target.
	EventLoadSucceeded

	// EventLoadFailed: the transcript fetch failed for the current
	// target.
	EventLoadFailed

	// EventExternalNavigation: the location changed from outside the
	// store (back/forward) and points at a different conversation.
	EventExternalNavigation

	// EventReset: clear to a fresh, empty conversation.
	EventReset

	// EventAdoptID: a send from Idle received its server-minted
	// conversation id.
	EventAdoptID
)

func (e Event) String() string {
	switch e {
	case EventSelect:
		return "select"
	case EventLoadSucceeded:
		return "load-succeeded"
	case EventLoadFailed:
		return "load-failed"
	case EventExternalNavigation:
		return "external-navigation"
	case EventReset:
		return "reset"
	case EventAdoptID:
		return "adopt-id"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// transitions is the complete lifecycle table. An event absent from a
// phase's row does not move the machine.
var transitions = map[Phase]map[Event]Phase{
	PhaseIdle: {
		EventSelect:             PhaseLoading,
		EventExternalNavigation: PhaseLoading,
		EventAdoptID:            PhaseReady,
		EventReset:              PhaseIdle,
	},
	PhaseLoading: {
		EventLoadSucceeded:      PhaseReady,
		EventLoadFailed:         PhaseError,
		EventSelect:             PhaseLoading,
		EventExternalNavigation: PhaseLoading,
		EventReset:              PhaseIdle,
	},
	PhaseReady: {
		EventSelect:             PhaseLoading,
		EventExternalNavigation: PhaseLoading,
		EventReset:              PhaseIdle,
	},
	PhaseError: {
		EventSelect:             PhaseLoading,
		EventExternalNavigation: PhaseLoading,
		EventReset:              PhaseIdle,
	},
}

// next returns the phase after applying event, and whether the event
// moves the machine at all from the current phase.
func next(current Phase, event Event) (Phase, bool) {
	row, ok := transitions[current]
	if !ok {
		return current, false
	}
	to, ok := row[event]
	return to, ok
}
