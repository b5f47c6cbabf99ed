// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jeranaias/codechat-tui/internal/model"
)

func TestExportMarkdown(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	user, placeholder := model.NewExchange("where is the parser?")
	if err := s.AppendExchange(user, placeholder); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateMessage(placeholder.ID, func(m *model.ChatMessage) {
		m.Resolve(&model.QueryResponse{
			Answer: "in parser.py",
			RetrievedContext: []model.CodeChunk{
				{Source: "parser.py", FunctionName: "parse"},
			},
		})
	}); err != nil {
		t.Fatal(err)
	}

	md := s.ExportMarkdown()

	for _, want := range []string{
		"# codechat transcript",
		"**User**",
		"**Assistant**",
		"where is the parser?",
		"in parser.py",
		"Sources:",
		"`parser.py` (parse)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown export missing %q", want)
		}
	}
}

func TestExportMarkdown_PendingPlaceholder(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	user, placeholder := model.NewExchange("q")
	if err := s.AppendExchange(user, placeholder); err != nil {
		t.Fatal(err)
	}

	md := s.ExportMarkdown()
	if !strings.Contains(md, "_Waiting for a response..._") {
		t.Error("pending placeholder should export as a waiting marker")
	}
}

func TestExportJSON(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	user, placeholder := model.NewExchange("q")
	if err := s.AppendExchange(user, placeholder); err != nil {
		t.Fatal(err)
	}

	data, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var msgs []model.ChatMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("exported %d messages, want 2", len(msgs))
	}
}
