// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/codechat-tui/internal/chat"
	"github.com/jeranaias/codechat-tui/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"), nil)
	if err != nil {
		t.Fatalf("failed to open history store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_InitializesSchema(t *testing.T) {
	s := openTestStore(t)

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats on empty store failed: %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("fresh store total = %d, want 0", stats.Total)
	}
}

func TestExchangeResolved_RecordsSuccessAndFailure(t *testing.T) {
	s := openTestStore(t)

	s.ExchangeResolved(chat.Record{
		Query: "what does main do?",
		Response: &model.QueryResponse{
			Answer: "starts the server",
			RetrievedContext: []model.CodeChunk{
				{Source: "main.py"}, {Source: "app.py"},
			},
		},
		Mode:       model.ModePrimary,
		ResolvedAt: time.Now(),
		Duration:   1200 * time.Millisecond,
	})
	s.ExchangeResolved(chat.Record{
		Query:      "broken question",
		ErrSummary: "Could not reach the backend. Is the server running?",
		Mode:       model.ModeLocal,
		ResolvedAt: time.Now().Add(time.Second),
		Duration:   300 * time.Millisecond,
	})

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	// Newest first.
	if entries[0].Query != "broken question" {
		t.Errorf("entries[0].Query = %q, want the newer record", entries[0].Query)
	}
	if entries[0].OK {
		t.Error("failed exchange recorded as ok")
	}
	if entries[0].Error == "" {
		t.Error("failed exchange should carry an error summary")
	}

	if !entries[1].OK {
		t.Error("successful exchange recorded as failed")
	}
	if entries[1].Answer != "starts the server" {
		t.Errorf("answer = %q", entries[1].Answer)
	}
	if entries[1].ChunkCount != 2 {
		t.Errorf("chunk count = %d, want 2", entries[1].ChunkCount)
	}
	if entries[1].Duration != 1200*time.Millisecond {
		t.Errorf("duration = %v", entries[1].Duration)
	}
	if entries[1].CreatedAt.IsZero() {
		t.Error("created_at did not round-trip")
	}
}

func TestRecent_LimitAndDefault(t *testing.T) {
	s := openTestStore(t)

	base := time.Now()
	for i := 0; i < 5; i++ {
		s.ExchangeResolved(chat.Record{
			Query:      "q",
			Response:   &model.QueryResponse{Answer: "a"},
			Mode:       model.ModePrimary,
			ResolvedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	entries, err := s.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("limited entries = %d, want 3", len(entries))
	}

	// Non-positive limit falls back to the default window.
	entries, err = s.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Errorf("default-window entries = %d, want 5", len(entries))
	}
}

func TestStats_Aggregates(t *testing.T) {
	s := openTestStore(t)

	now := time.Now()
	s.ExchangeResolved(chat.Record{
		Query: "a", Response: &model.QueryResponse{Answer: "x"},
		Mode: model.ModePrimary, ResolvedAt: now, Duration: 100 * time.Millisecond,
	})
	s.ExchangeResolved(chat.Record{
		Query: "b", Response: &model.QueryResponse{Answer: "y"},
		Mode: model.ModePrimary, ResolvedAt: now.Add(time.Second), Duration: 300 * time.Millisecond,
	})
	s.ExchangeResolved(chat.Record{
		Query: "c", ErrSummary: "failed",
		Mode: model.ModeLocal, ResolvedAt: now.Add(2 * time.Second), Duration: 200 * time.Millisecond,
	})

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.Succeeded != 2 {
		t.Errorf("Succeeded = %d, want 2", stats.Succeeded)
	}
	if stats.Failed != 1 {
		t.Errorf("Failed = %d, want 1", stats.Failed)
	}
	if stats.ByMode["primary"] != 2 || stats.ByMode["local"] != 1 {
		t.Errorf("ByMode = %v", stats.ByMode)
	}
	if stats.AvgDurationMs != 200 {
		t.Errorf("AvgDurationMs = %d, want 200", stats.AvgDurationMs)
	}
}
