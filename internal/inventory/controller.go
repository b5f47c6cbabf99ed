// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package inventory tracks the server-held codebase: whether the backend
// currently has files, a local mirror of their metadata, and a staleness
// watcher over an optional local checkout.
//
// The server is the source of truth. The durable mirror is a best-effort
// fallback cache used only when the listing call fails.
package inventory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/codechat-tui/internal/model"
	"github.com/jeranaias/codechat-tui/internal/store"
)

// Backend is the slice of the backend client the inventory needs.
type Backend interface {
	ListFiles(ctx context.Context) ([]model.FileRecord, error)
	UploadFile(ctx context.Context, name string, content []byte) error
	ClearFiles(ctx context.Context) error
}

// UploadItem is one file queued for upload.
type UploadItem struct {
	Name    string
	Content []byte
}

// Controller owns the local view of the backend's codebase inventory.
type Controller struct {
	store   *store.SessionStore
	backend Backend
	log     *zap.Logger

	mu       sync.Mutex
	files    []model.FileRecord
	hasFiles bool
	stale    bool
}

// NewController creates an inventory controller seeded from the durable
// mirror, so a previously known inventory shows up before the first
// refresh completes.
func NewController(s *store.SessionStore, b Backend, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	mirror := s.FileMirror()
	return &Controller{
		store:    s,
		backend:  b,
		log:      log,
		files:    mirror,
		hasFiles: len(mirror) > 0,
	}
}

// HasFiles reports whether the backend is believed to hold a codebase.
// The flag is only ever set from a confirmed server listing, never
// optimistically.
func (c *Controller) HasFiles() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasFiles
}

// Files returns the current local file list.
func (c *Controller) Files() []model.FileRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.FileRecord, len(c.files))
	copy(out, c.files)
	return out
}

// Stale reports whether the watched local checkout has changed since the
// last upload, meaning the server-side index may be out of date.
func (c *Controller) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}

// Refresh replaces the local list and flag from a fresh server listing and
// mirrors the result to durable storage. A listing failure falls back to
// the last durable snapshot and logs the desync; it is not raised to the
// caller.
func (c *Controller) Refresh(ctx context.Context) {
	files, err := c.backend.ListFiles(ctx)
	if err != nil {
		mirror := c.store.FileMirror()
		c.mu.Lock()
		c.files = mirror
		c.hasFiles = len(mirror) > 0
		c.mu.Unlock()
		c.log.Warn("file listing failed, serving durable mirror",
			zap.Int("mirror_size", len(mirror)), zap.Error(err))
		return
	}

	c.mu.Lock()
	c.files = files
	c.hasFiles = len(files) > 0
	c.mu.Unlock()

	if err := c.store.ReplaceFileMirror(files); err != nil {
		c.log.Warn("failed to persist inventory mirror", zap.Error(err))
	}
}

// Upload forwards each file to the backend, then refreshes from the server.
// The first upload failure aborts and propagates so the caller can surface
// it; nothing local is touched until the server confirms via the listing.
func (c *Controller) Upload(ctx context.Context, items []UploadItem) error {
	for _, item := range items {
		if err := c.backend.UploadFile(ctx, item.Name, item.Content); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.stale = false
	c.mu.Unlock()

	c.Refresh(ctx)
	return nil
}

// Clear asks the backend to discard its codebase. On success the local
// list, flag, durable mirror and the chat transcript are all cleared:
// answers grounded in a discarded codebase are no longer valid. On failure
// every piece of state is left exactly as it was and the error propagates.
func (c *Controller) Clear(ctx context.Context) error {
	if err := c.backend.ClearFiles(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.files = nil
	c.hasFiles = false
	c.stale = false
	c.mu.Unlock()

	if err := c.store.ReplaceFileMirror(nil); err != nil {
		c.log.Warn("failed to clear inventory mirror", zap.Error(err))
	}
	if err := c.store.ClearMessages(); err != nil {
		c.log.Warn("failed to clear transcript", zap.Error(err))
	}
	return nil
}

// markStale flags the inventory as out of date with the local checkout.
func (c *Controller) markStale(path string) {
	c.mu.Lock()
	already := c.stale
	c.stale = true
	c.mu.Unlock()
	if !already {
		c.log.Info("local checkout changed, inventory marked stale", zap.String("path", path))
	}
}
