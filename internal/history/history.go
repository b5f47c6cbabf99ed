// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history records resolved exchanges in a local SQLite database.
//
// It implements the interaction controller's observer: one row per
// resolution, success or failure. Recording is best-effort; a failed
// insert is logged and never disturbs the transcript.
package history

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/codechat-tui/internal/chat"
)

const schema = `
CREATE TABLE IF NOT EXISTS exchanges (
	id          TEXT PRIMARY KEY,
	query       TEXT NOT NULL,
	answer      TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT '',
	mode        TEXT NOT NULL,
	ok          INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	chunk_count INTEGER NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exchanges_created ON exchanges(created_at);
`

// Entry is one recorded exchange.
type Entry struct {
	ID         string
	Query      string
	Answer     string
	Error      string
	Mode       string
	OK         bool
	Duration   time.Duration
	ChunkCount int
	CreatedAt  time.Time
}

// Stats summarizes the recorded history for the performance view.
type Stats struct {
	Total         int            `json:"total"`
	Succeeded     int            `json:"succeeded"`
	Failed        int            `json:"failed"`
	ByMode        map[string]int `json:"by_mode"`
	AvgDurationMs int64          `json:"avg_duration_ms"`
}

// Store is the SQLite-backed exchange history.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens (and if needed initializes) the history database at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ExchangeResolved implements chat.Observer.
func (s *Store) ExchangeResolved(rec chat.Record) {
	ok := 0
	answer := ""
	chunks := 0
	if rec.Response != nil {
		ok = 1
		answer = rec.Response.Answer
		chunks = len(rec.Response.RetrievedContext)
	}

	_, err := s.db.Exec(
		`INSERT INTO exchanges (id, query, answer, error, mode, ok, duration_ms, chunk_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		rec.Query,
		answer,
		rec.ErrSummary,
		rec.Mode.String(),
		ok,
		rec.Duration.Milliseconds(),
		chunks,
		rec.ResolvedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.log.Warn("failed to record exchange", zap.Error(err))
	}
}

// Recent returns the n most recently recorded exchanges, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.Query(
		`SELECT id, query, answer, error, mode, ok, duration_ms, chunk_count, created_at
		 FROM exchanges ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			ok         int
			durationMs int64
			createdAt  string
		)
		if err := rows.Scan(&e.ID, &e.Query, &e.Answer, &e.Error, &e.Mode, &ok, &durationMs, &e.ChunkCount, &createdAt); err != nil {
			return nil, err
		}
		e.OK = ok != 0
		e.Duration = time.Duration(durationMs) * time.Millisecond
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats aggregates the recorded history.
func (s *Store) Stats() (Stats, error) {
	stats := Stats{ByMode: make(map[string]int)}

	row := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(ok), 0), COALESCE(AVG(duration_ms), 0) FROM exchanges`)
	var avg float64
	if err := row.Scan(&stats.Total, &stats.Succeeded, &avg); err != nil {
		return stats, err
	}
	stats.Failed = stats.Total - stats.Succeeded
	stats.AvgDurationMs = int64(avg)

	rows, err := s.db.Query(`SELECT mode, COUNT(*) FROM exchanges GROUP BY mode`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var mode string
		var count int
		if err := rows.Scan(&mode, &count); err != nil {
			return stats, err
		}
		stats.ByMode[mode] = count
	}
	return stats, rows.Err()
}
