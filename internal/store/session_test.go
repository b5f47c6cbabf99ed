// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/codechat-tui/internal/model"
)

// =============================================================================
// SESSION STORE TESTS
// =============================================================================

func TestOpen_FreshDirectory(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if len(s.Messages()) != 0 {
		t.Errorf("fresh store should have no messages, got %d", len(s.Messages()))
	}
	if s.Settings() != model.DefaultSettings() {
		t.Errorf("fresh store settings = %+v, want defaults", s.Settings())
	}
	if s.Mode() != model.ModePrimary {
		t.Errorf("fresh store mode = %q, want primary", s.Mode())
	}
	if s.Epoch() != 0 {
		t.Errorf("fresh store epoch = %d, want 0", s.Epoch())
	}
}

func TestSessionStore_PersistReloadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	user, placeholder := model.NewExchange("why is the indexer slow? 日本語テスト")
	if err := s.AppendExchange(user, placeholder); err != nil {
		t.Fatalf("AppendExchange failed: %v", err)
	}

	dist := 0.12
	resp := &model.QueryResponse{
		Answer: "because of the **embedding** step",
		RetrievedContext: []model.CodeChunk{
			{Content: "def embed():", Source: "indexer.py", StartLine: 42, FunctionName: "embed", Distance: &dist},
		},
		DebugInfo: &model.DebugInfo{ChunkCount: 1, Temperature: 0.2, TopK: 5},
	}
	found, err := s.UpdateMessage(placeholder.ID, func(m *model.ChatMessage) {
		m.Resolve(resp)
	})
	if err != nil {
		t.Fatalf("UpdateMessage failed: %v", err)
	}
	if !found {
		t.Fatal("placeholder not found by ID")
	}

	if err := s.ReplaceSettings(model.Settings{Temperature: 0.9, TopK: 8, SimilarityThreshold: 0.5}); err != nil {
		t.Fatalf("ReplaceSettings failed: %v", err)
	}
	if err := s.SetMode(model.ModeLocal); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}

	// Reopen from the same directory.
	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	msgs := s2.Messages()
	if len(msgs) != 2 {
		t.Fatalf("reloaded message count = %d, want 2", len(msgs))
	}
	if msgs[0].Content != "why is the indexer slow? 日本語テスト" {
		t.Errorf("non-ASCII content did not survive: %q", msgs[0].Content)
	}
	if msgs[1].Pending {
		t.Error("resolved message reloaded as pending")
	}
	if msgs[1].Result == nil || len(msgs[1].Result.RetrievedContext) != 1 {
		t.Fatal("result did not survive the round trip")
	}
	chunk := msgs[1].Result.RetrievedContext[0]
	if chunk.Source != "indexer.py" || chunk.StartLine != 42 || chunk.Symbol() != "embed" {
		t.Errorf("chunk metadata did not survive: %+v", chunk)
	}
	if chunk.Distance == nil || *chunk.Distance != 0.12 {
		t.Error("distance did not survive")
	}

	// Timestamps travel as RFC 3339 text and come back as real times.
	if msgs[0].CreatedAt.IsZero() {
		t.Error("timestamp reloaded as zero")
	}
	if !msgs[0].CreatedAt.Equal(user.CreatedAt) {
		t.Errorf("timestamp drifted: %v vs %v", msgs[0].CreatedAt, user.CreatedAt)
	}

	if got := s2.Settings(); got.Temperature != 0.9 || got.TopK != 8 {
		t.Errorf("settings did not survive: %+v", got)
	}
	if s2.Mode() != model.ModeLocal {
		t.Errorf("mode did not survive, got %q", s2.Mode())
	}
}

func TestSessionStore_MalformedSettingsFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Settings() != model.DefaultSettings() {
		t.Errorf("malformed settings should load as defaults, got %+v", s.Settings())
	}
}

func TestSessionStore_MalformedTimestampDegradesToZero(t *testing.T) {
	dir := t.TempDir()
	raw := `[{"id":"m1","role":"user","content":"hi","created_at":"not-a-time","pending":false}]`
	if err := os.WriteFile(filepath.Join(dir, "messages.json"), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("message count = %d, want 1", len(msgs))
	}
	if !msgs[0].CreatedAt.IsZero() {
		t.Errorf("malformed timestamp should degrade to zero, got %v", msgs[0].CreatedAt)
	}
}

func TestSessionStore_ClearMessagesAdvancesEpoch(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	user, placeholder := model.NewExchange("q")
	if err := s.AppendExchange(user, placeholder); err != nil {
		t.Fatal(err)
	}

	before := s.Epoch()
	if err := s.ClearMessages(); err != nil {
		t.Fatalf("ClearMessages failed: %v", err)
	}

	if len(s.Messages()) != 0 {
		t.Error("transcript should be empty after clear")
	}
	if s.Epoch() != before+1 {
		t.Errorf("epoch = %d, want %d", s.Epoch(), before+1)
	}
}

func TestSessionStore_HasPending(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if s.HasPending() {
		t.Error("empty store should have no pending messages")
	}

	user, placeholder := model.NewExchange("q")
	if err := s.AppendExchange(user, placeholder); err != nil {
		t.Fatal(err)
	}
	if !s.HasPending() {
		t.Error("placeholder should register as pending")
	}

	if _, err := s.UpdateMessage(placeholder.ID, func(m *model.ChatMessage) {
		m.Fail("x")
	}); err != nil {
		t.Fatal(err)
	}
	if s.HasPending() {
		t.Error("settled placeholder should not register as pending")
	}
}

func TestSessionStore_UpdateMessageUnknownID(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	found, err := s.UpdateMessage("missing", func(m *model.ChatMessage) {})
	if err != nil {
		t.Fatalf("UpdateMessage returned error: %v", err)
	}
	if found {
		t.Error("unknown ID should report not found")
	}
}

func TestSessionStore_SettingsNormalizedOnReplace(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceSettings(model.Settings{Temperature: -3, TopK: 0, SimilarityThreshold: 9}); err != nil {
		t.Fatal(err)
	}
	got := s.Settings()
	if got.Temperature != 0 || got.TopK != 1 || got.SimilarityThreshold != 1 {
		t.Errorf("settings not normalized: %+v", got)
	}
}

func TestSessionStore_FileMirrorRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	files := []model.FileRecord{
		{Name: "main.py", Type: "python"},
		{Name: "util.go", Type: "go"},
	}
	if err := s.ReplaceFileMirror(files); err != nil {
		t.Fatalf("ReplaceFileMirror failed: %v", err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	got := s2.FileMirror()
	if len(got) != 2 || got[0].Name != "main.py" || got[1].Type != "go" {
		t.Errorf("mirror did not survive: %+v", got)
	}
}

func TestSessionStore_AtomicFilesOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	user, placeholder := model.NewExchange("q")
	if err := s.AppendExchange(user, placeholder); err != nil {
		t.Fatal(err)
	}

	// The write must land under the final name, with no temp file left over.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "messages.json" {
			t.Errorf("unexpected file in store dir: %s", e.Name())
		}
	}

	// Round-trip timestamp formatting sanity: text form parses back.
	data, err := os.ReadFile(filepath.Join(dir, "messages.json"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := time.Parse(time.RFC3339Nano, user.CreatedAt.Format(time.RFC3339Nano)); err != nil {
		t.Errorf("timestamp text form does not parse: %v", err)
	}
	if len(data) == 0 {
		t.Error("messages.json is empty")
	}
}
