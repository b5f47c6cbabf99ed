// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
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
// CHAT MESSAGE
// =============================================================================

// ChatMessage represents a single entry in the transcript.
//
// An assistant message starts out Pending with empty content and is later
// resolved (content + result) or failed (error text) in place, matched by ID.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Result holds the structured answer once the message resolves.
	Result *QueryResponse `json:"result,omitempty"`

	// Pending is true from creation until resolution (success or error).
	Pending bool `json:"pending"`
}

// NewExchange creates the {user message, pending assistant placeholder} pair
// for one exchange. The pair is created in a single call so callers can
// append both in one transition: a user message must never be observable
// without its in-progress counterpart.
//
// IDs are derived from the shared creation time plus a role disambiguator,
// keeping the pair distinguishable while sorting with the transcript.
func NewExchange(query string) (user, placeholder *ChatMessage) {
	now := time.Now()
	base := strconv.FormatInt(now.UnixNano(), 10)

	user = &ChatMessage{
		ID:        "msg_" + base + "_u",
		Role:      RoleUser,
		Content:   query,
		CreatedAt: now,
	}
	placeholder = &ChatMessage{
		ID:        "msg_" + base + "_a",
		Role:      RoleAssistant,
		CreatedAt: now,
		Pending:   true,
	}
	return user, placeholder
}

// Resolve fills the placeholder with the answer and clears Pending.
// Resolving an already settled message is a no-op.
func (m *ChatMessage) Resolve(resp *QueryResponse) {
	if !m.Pending {
		return
	}
	m.Content = resp.Answer
	m.Result = resp
	m.Pending = false
}

// Fail replaces the placeholder content with a human-readable error summary.
// No result is attached. Failing an already settled message is a no-op.
func (m *ChatMessage) Fail(summary string) {
	if !m.Pending {
		return
	}
	m.Content = summary
	m.Result = nil
	m.Pending = false
}

// IsError reports whether this is a failed assistant message.
func (m *ChatMessage) IsError() bool {
	return m.Role == RoleAssistant && !m.Pending && m.Result == nil && m.Content != ""
}

// Preview returns a truncated single-line preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *ChatMessage) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
