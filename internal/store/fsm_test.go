// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "testing"

func TestLifecycleTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  Phase
		event Event
		want  Phase
		moves bool
	}{
		{"select from idle starts loading", PhaseIdle, EventSelect, PhaseLoading, true},
		{"adopt id from idle goes straight to ready", PhaseIdle, EventAdoptID, PhaseReady, true},
		{"load success lands ready", PhaseLoading, EventLoadSucceeded, PhaseReady, true},
		{"load failure lands error", PhaseLoading, EventLoadFailed, PhaseError, true},
		{"reselect while loading stays loading", PhaseLoading, EventSelect, PhaseLoading, true},
		{"select from ready reloads", PhaseReady, EventSelect, PhaseLoading, true},
		{"external navigation from ready reloads", PhaseReady, EventExternalNavigation, PhaseLoading, true},
		{"select recovers from error", PhaseError, EventSelect, PhaseLoading, true},
		{"reset always lands idle", PhaseError, EventReset, PhaseIdle, true},
		{"load success is meaningless when ready", PhaseReady, EventLoadSucceeded, PhaseReady, false},
		{"adopt id is meaningless when ready", PhaseReady, EventAdoptID, PhaseReady, false},
		{"load failure is meaningless when idle", PhaseIdle, EventLoadFailed, PhaseIdle, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, moved := next(tt.from, tt.event)
			if moved != tt.moves {
				t.Fatalf("next(%v, %v) moved=%v, want %v", tt.from, tt.event, moved, tt.moves)
			}
			if moved && got != tt.want {
				t.Errorf("next(%v, %v) = %v, want %v", tt.from, tt.event, got, tt.want)
			}
		})
	}
}

func TestPhaseAndEventStrings(t *testing.T) {
	if PhaseLoading.String() != "loading" {
		t.Errorf("Phase string = %q", PhaseLoading.String())
	}
	if EventExternalNavigation.String() != "external-navigation" {
		t.Errorf("Event string = %q", EventExternalNavigation.String())
	}
}
