// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"strings"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is against the sentinel values below: two client
// errors match when their types match.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeAuthRequired
	ErrTypeNotFound
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeServer
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrAuthRequired = &ClientError{Type: ErrTypeAuthRequired, Message: "You must be logged in to send messages"}
	ErrNotFound     = &ClientError{Type: ErrTypeNotFound, Message: "API endpoint not found. Please check the server configuration"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// IsAuthRequired checks if an error is an authentication-required error.
func IsAuthRequired(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeAuthRequired
	}
	return false
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// =============================================================================
// ERROR NORMALIZER
// =============================================================================

// genericFailure is the fallback copy when an error carries no usable
// message of its own.
const genericFailure = "Something went wrong. Please try again."

// connectionKeywords identify transport-level failures that should be
// remapped to friendlier copy instead of leaking dial errors at users.
var connectionKeywords = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"failed to fetch",
	"network error",
	"broken pipe",
	"unexpected eof",
}

// timeoutKeywords identify slow-server failures.
var timeoutKeywords = []string{
	"timeout",
	"timed out",
	"deadline exceeded",
}

// Normalize maps heterogeneous failure values to a single stable,
// user-facing string. Known transport and timeout failures get friendly
// copy; an auth-required error keeps its distinct wording; everything
// else passes its raw message through.
func Normalize(err error) string {
	if err == nil {
		return ""
	}

	if IsAuthRequired(err) {
		return ErrAuthRequired.Message
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	for _, kw := range timeoutKeywords {
		if strings.Contains(lower, kw) {
			return "The request timed out. Please try again."
		}
	}
	for _, kw := range connectionKeywords {
		if strings.Contains(lower, kw) {
			return "Unable to reach the server. Please check your connection."
		}
	}

	if strings.TrimSpace(msg) == "" {
		return genericFailure
	}
	return msg
}
