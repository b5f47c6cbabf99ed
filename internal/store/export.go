// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jeranaias/codechat-tui/internal/model"
)

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

// ExportMarkdown renders the transcript as a Markdown formatted string.
// Includes role labels, timestamps, and retrieved-source footnotes.
func (s *SessionStore) ExportMarkdown() string {
	messages := s.Messages()

	var sb strings.Builder
	sb.WriteString("# codechat transcript\n\n")
	sb.WriteString("Exported: " + time.Now().Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range messages {
		role := "**User**"
		if msg.Role == model.RoleAssistant {
			role = "**Assistant**"
		}
		sb.WriteString(role + " (" + msg.CreatedAt.Format("15:04") + "):\n\n")
		if msg.Pending {
			sb.WriteString("_Waiting for a response..._")
		} else {
			sb.WriteString(msg.Content)
		}
		sb.WriteString("\n\n")

		if msg.Result != nil && len(msg.Result.RetrievedContext) > 0 {
			sb.WriteString("Sources:\n\n")
			for _, chunk := range msg.Result.RetrievedContext {
				sb.WriteString("- `" + chunk.Source + "`")
				if sym := chunk.Symbol(); sym != "" {
					sb.WriteString(" (" + sym + ")")
				}
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}

		sb.WriteString("---\n\n")
	}

	return sb.String()
}

// ExportJSON renders the transcript as a pretty-printed JSON byte array.
func (s *SessionStore) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.Messages(), "", "  ")
}
