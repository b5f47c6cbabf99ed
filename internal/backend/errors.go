// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import "strconv"

// =============================================================================
// ERROR TYPES
// =============================================================================

// TransportError indicates the backend was unreachable: connection refused,
// DNS failure, or the request could not be issued at all.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return "backend unreachable: " + e.Cause.Error()
	}
	return "backend unreachable"
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// RemoteError indicates the backend was reachable but answered with a
// non-2xx status. Body carries the response body read as text.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	msg := "backend returned status " + strconv.Itoa(e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Summarize renders an error as a short human-readable line for inline
// display in the transcript.
func Summarize(err error) string {
	if err == nil {
		return ""
	}
	switch e := err.(type) {
	case *TransportError:
		return "Could not reach the backend. Is the server running?"
	case *RemoteError:
		body := e.Body
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		if body == "" {
			return "The backend returned an error (status " + strconv.Itoa(e.StatusCode) + ")."
		}
		return "The backend returned an error (status " + strconv.Itoa(e.StatusCode) + "): " + body
	default:
		return "Request failed: " + err.Error()
	}
}
