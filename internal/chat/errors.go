// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// ValidationError rejects a submit before anything is dispatched.
// These rejections are silent in the UI: no state changes, no transcript
// entry, the input simply stays put.
type ValidationError struct {
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Reason
}

// Is implements errors.Is support for comparing validation errors.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Reason == t.Reason
}

// Sentinel validation errors for the submit guards.
var (
	// ErrEmptyQuery rejects empty or whitespace-only input.
	ErrEmptyQuery = &ValidationError{Reason: "query is empty"}

	// ErrExchangeInFlight rejects a submit while another exchange is
	// dispatched. Concurrent submits are rejected, not queued.
	ErrExchangeInFlight = &ValidationError{Reason: "an exchange is already in flight"}

	// ErrNoCodebase rejects a submit when the backend holds no codebase.
	ErrNoCodebase = &ValidationError{Reason: "no codebase is loaded"}
)
