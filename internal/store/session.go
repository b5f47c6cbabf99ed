// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides durable local persistence for the chat session:
// the transcript, the query settings, the file inventory mirror and the
// selected backend mode, each under its own file.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jeranaias/codechat-tui/internal/model"
	"github.com/jeranaias/codechat-tui/internal/util"
)

// File names for the independently persisted keys.
const (
	messagesFile = "messages.json"
	settingsFile = "settings.json"
	filesFile    = "files.json"
	modeFile     = "mode.json"
)

// =============================================================================
// STORED MIRROR TYPES
// =============================================================================

// storedMessage is the on-disk form of a ChatMessage. Durable storage has no
// native timestamp type, so CreatedAt travels as RFC 3339 text and is
// reconstructed into a time.Time on every load.
type storedMessage struct {
	ID        string               `json:"id"`
	Role      string               `json:"role"`
	Content   string               `json:"content"`
	CreatedAt string               `json:"created_at"`
	Result    *model.QueryResponse `json:"result,omitempty"`
	Pending   bool                 `json:"pending"`
}

// storedMode is the on-disk form of the backend mode selector.
type storedMode struct {
	Mode string `json:"mode"`
}

func toStored(m *model.ChatMessage) storedMessage {
	return storedMessage{
		ID:        m.ID,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt.Format(time.RFC3339Nano),
		Result:    m.Result,
		Pending:   m.Pending,
	}
}

func fromStored(s storedMessage) *model.ChatMessage {
	created, err := time.Parse(time.RFC3339Nano, s.CreatedAt)
	if err != nil {
		// Malformed timestamps degrade to the zero time rather than
		// failing the whole load.
		created = time.Time{}
	}
	return &model.ChatMessage{
		ID:        s.ID,
		Role:      model.Role(s.Role),
		Content:   s.Content,
		CreatedAt: created,
		Result:    s.Result,
		Pending:   s.Pending,
	}
}

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore owns the persisted session state. Replacement calls take
// whole values, never patches, and every replacement is written through to
// disk before the call returns. Decode failures and missing files load as
// empty/default state, never as a hard failure.
type SessionStore struct {
	baseDir string

	mu       sync.Mutex
	messages []*model.ChatMessage
	settings model.Settings
	files    []model.FileRecord
	mode     model.Mode

	// epoch counts transcript generations. It is bumped whenever the
	// transcript is cleared so that resolutions dispatched against an
	// earlier generation can be recognized as stale and discarded.
	epoch uint64
}

// Open loads (or initializes) the session state under baseDir.
func Open(baseDir string) (*SessionStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	s := &SessionStore{
		baseDir:  baseDir,
		settings: model.DefaultSettings(),
		mode:     model.ModePrimary,
	}
	s.loadAll()
	return s, nil
}

// loadAll reads every key, tolerating absence and malformed content.
func (s *SessionStore) loadAll() {
	var stored []storedMessage
	if readJSON(s.path(messagesFile), &stored) {
		msgs := make([]*model.ChatMessage, 0, len(stored))
		for _, sm := range stored {
			msgs = append(msgs, fromStored(sm))
		}
		s.messages = msgs
	}

	var settings model.Settings
	if readJSON(s.path(settingsFile), &settings) {
		s.settings = settings.Normalize()
	}

	var files []model.FileRecord
	if readJSON(s.path(filesFile), &files) {
		s.files = files
	}

	var mode storedMode
	if readJSON(s.path(modeFile), &mode) {
		s.mode = model.ParseMode(mode.Mode)
	}
}

// readJSON reports whether the file existed and decoded cleanly.
func readJSON(path string, out any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (s *SessionStore) path(name string) string {
	return filepath.Join(s.baseDir, name)
}

// writeJSON persists one key atomically (fsync + rename).
func (s *SessionStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path(name), data, 0644)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Messages returns the current transcript. The returned slice is a copy;
// the messages themselves are shared.
func (s *SessionStore) Messages() []*model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// ReplaceMessages replaces the whole transcript and writes it through to
// disk. The write error is returned so persistence failures stay observable.
func (s *SessionStore) ReplaceMessages(msgs []*model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceMessagesLocked(msgs)
}

func (s *SessionStore) replaceMessagesLocked(msgs []*model.ChatMessage) error {
	s.messages = make([]*model.ChatMessage, len(msgs))
	copy(s.messages, msgs)

	stored := make([]storedMessage, 0, len(msgs))
	for _, m := range msgs {
		stored = append(stored, toStored(m))
	}
	return s.writeJSON(messagesFile, stored)
}

// AppendExchange appends the {user, placeholder} pair as one transition.
// A render between the two appends would show a user message with no
// in-progress indicator, so there is no single-message append.
func (s *SessionStore) AppendExchange(user, placeholder *model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]*model.ChatMessage, 0, len(s.messages)+2)
	next = append(next, s.messages...)
	next = append(next, user, placeholder)
	return s.replaceMessagesLocked(next)
}

// UpdateMessage applies fn to the message with the given ID, matched by
// identity rather than position, then writes the transcript through.
// Returns false if no message with that ID exists.
func (s *SessionStore) UpdateMessage(id string, fn func(*model.ChatMessage)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.ID == id {
			fn(m)
			return true, s.replaceMessagesLocked(s.messages)
		}
	}
	return false, nil
}

// ClearMessages empties the transcript and advances the session epoch.
func (s *SessionStore) ClearMessages() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	return s.replaceMessagesLocked(nil)
}

// Epoch returns the current transcript generation.
func (s *SessionStore) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// HasPending reports whether any assistant message is still pending.
func (s *SessionStore) HasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.Pending {
			return true
		}
	}
	return false
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings returns the current query settings.
func (s *SessionStore) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// ReplaceSettings replaces the settings in full (last-write-wins, no
// partial updates) and writes them through to disk.
func (s *SessionStore) ReplaceSettings(settings model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings.Normalize()
	return s.writeJSON(settingsFile, s.settings)
}

// =============================================================================
// FILE INVENTORY MIRROR
// =============================================================================

// FileMirror returns the last known codebase inventory.
func (s *SessionStore) FileMirror() []model.FileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.FileRecord, len(s.files))
	copy(out, s.files)
	return out
}

// ReplaceFileMirror replaces the inventory mirror and writes it through.
func (s *SessionStore) ReplaceFileMirror(files []model.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make([]model.FileRecord, len(files))
	copy(s.files, files)
	return s.writeJSON(filesFile, s.files)
}

// =============================================================================
// BACKEND MODE
// =============================================================================

// Mode returns the persisted backend mode selector.
func (s *SessionStore) Mode() model.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode persists a new backend mode. Already-resolved messages are
// unaffected; only future dispatches see the change.
func (s *SessionStore) SetMode(mode model.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !mode.Valid() {
		mode = model.ModePrimary
	}
	s.mode = mode
	return s.writeJSON(modeFile, storedMode{Mode: string(mode)})
}
