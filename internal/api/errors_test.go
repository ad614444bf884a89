// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"testing"
)

// =============================================================================
// ERROR NORMALIZER TESTS
// =============================================================================

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"auth required keeps its wording", ErrAuthRequired, ErrAuthRequired.Message},
		{
			"wrapped auth required",
			&ClientError{Type: ErrTypeAuthRequired, Message: "anything"},
			ErrAuthRequired.Message,
		},
		{
			"dial failure remapped",
			errors.New(`Post "http://127.0.0.1:8000/api/chat": dial tcp 127.0.0.1:8000: connect: connection refused`),
			"Unable to reach the server. Please check your connection.",
		},
		{
			"dns failure remapped",
			errors.New("dial tcp: lookup api.example.invalid: no such host"),
			"Unable to reach the server. Please check your connection.",
		},
		{
			"deadline remapped to timeout copy",
			context.DeadlineExceeded,
			"The request timed out. Please try again.",
		},
		{
			"timeout keyword remapped",
			errors.New("net/http: request canceled (Client.Timeout exceeded while awaiting headers)"),
			"The request timed out. Please try again.",
		},
		{
			"server detail passes through",
			&ClientError{Type: ErrTypeServer, Message: "model overloaded, retry later"},
			"model overloaded, retry later",
		},
		{"blank message gets generic copy", errors.New("   "), genericFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.err); got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSentinelMatching(t *testing.T) {
	wrapped := &ClientError{Type: ErrTypeAuthRequired, Message: "session expired", Cause: errors.New("401")}
	if !errors.Is(wrapped, ErrAuthRequired) {
		t.Error("type-matched client errors should satisfy errors.Is")
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Error("different error types must not match")
	}
}

func TestIsTimeout(t *testing.T) {
	if !IsTimeout(context.DeadlineExceeded) {
		t.Error("context.DeadlineExceeded should read as a timeout")
	}
	if !IsTimeout(&ClientError{Type: ErrTypeTimeout, Message: "x"}) {
		t.Error("typed timeout should read as a timeout")
	}
	if IsTimeout(errors.New("plain")) {
		t.Error("plain errors are not timeouts")
	}
}
