// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interaction controller: the state machine
// that turns a submitted question into a dispatched exchange and reconciles
// the pending placeholder with the asynchronous outcome.
//
// States per exchange:
//
//	Composing -> Dispatched -> {Resolved | Failed}
//
// Composing is implicit (the input buffer). Dispatch atomically appends the
// {user, placeholder} pair; resolution replaces the placeholder in place,
// matched by message identity, exactly once.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/codechat-tui/internal/backend"
	"github.com/jeranaias/codechat-tui/internal/diagram"
	"github.com/jeranaias/codechat-tui/internal/model"
	"github.com/jeranaias/codechat-tui/internal/store"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Backend is the slice of the backend client the controller needs.
type Backend interface {
	Ask(ctx context.Context, mode model.Mode, query string, settings model.Settings) (*model.QueryResponse, error)
	GenerateChunkDiagram(ctx context.Context, chunk model.CodeChunk) (string, error)
	GenerateModuleDiagram(ctx context.Context, files []model.FileRecord, retrieved []model.CodeChunk) (string, error)
}

// CodebasePresence reports whether the backend currently holds a codebase.
type CodebasePresence interface {
	HasFiles() bool
}

// Observer is notified after every resolution, success or failure. It feeds
// history and analytics collaborators outside this core; observer failures
// never disturb the transcript.
type Observer interface {
	ExchangeResolved(rec Record)
}

// Record describes one resolved exchange for observers.
type Record struct {
	Query      string
	Response   *model.QueryResponse // nil on failure
	ErrSummary string               // empty on success
	Mode       model.Mode
	ResolvedAt time.Time
	Duration   time.Duration
}

// =============================================================================
// EXCHANGE
// =============================================================================

// Exchange is one dispatched question with the context captured at dispatch
// time. Settings and mode are snapshotted when the exchange begins, so
// edits made while the request is outstanding never retroactively alter
// the request's recorded parameters.
type Exchange struct {
	Query         string
	UserID        string
	PlaceholderID string
	Mode          model.Mode
	Settings      model.Settings

	// Epoch is the transcript generation at dispatch. A resolution whose
	// epoch no longer matches the store is stale (the codebase and
	// transcript were cleared mid-flight) and is discarded.
	Epoch uint64

	StartedAt time.Time

	done bool
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller orchestrates ask operations against the session store.
// Only one exchange may be dispatched at a time; concurrent submits are
// rejected by Begin, not buffered.
type Controller struct {
	store    *store.SessionStore
	backend  Backend
	presence CodebasePresence
	observer Observer
	log      *zap.Logger

	mu       sync.Mutex
	inflight bool
}

// NewController creates a controller. observer may be nil; log may be nil
// (it defaults to a no-op logger).
func NewController(s *store.SessionStore, b Backend, presence CodebasePresence, observer Observer, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{
		store:    s,
		backend:  b,
		presence: presence,
		observer: observer,
		log:      log,
	}
	c.recoverInterrupted()
	return c
}

// recoverInterrupted settles placeholders left pending by a previous
// process: their request died with that process, so they can never resolve.
func (c *Controller) recoverInterrupted() {
	for _, m := range c.store.Messages() {
		if m.Pending {
			id := m.ID
			if _, err := c.store.UpdateMessage(id, func(msg *model.ChatMessage) {
				msg.Fail("This question was interrupted before a response arrived.")
			}); err != nil {
				c.log.Warn("failed to persist interrupted message", zap.String("id", id), zap.Error(err))
			}
		}
	}
}

// InFlight reports whether an exchange is currently dispatched.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight
}

// Begin validates a submit and performs the Dispatched transition.
//
// Guards (any failure leaves every piece of state untouched):
//   - empty/whitespace-only input       -> ErrEmptyQuery
//   - an exchange already dispatched    -> ErrExchangeInFlight
//   - no codebase loaded on the backend -> ErrNoCodebase
//
// On success the {user, placeholder} pair is appended to the transcript as
// a single transition and the mode/settings/epoch snapshot is captured.
func (c *Controller) Begin(query string) (*Exchange, error) {
	query = norm.NFC.String(strings.TrimSpace(query))
	if query == "" {
		return nil, ErrEmptyQuery
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight {
		return nil, ErrExchangeInFlight
	}
	if c.presence != nil && !c.presence.HasFiles() {
		return nil, ErrNoCodebase
	}

	user, placeholder := model.NewExchange(query)
	if err := c.store.AppendExchange(user, placeholder); err != nil {
		// The pair is live in memory either way; the write failure is
		// surfaced to logs rather than dropped.
		c.log.Warn("failed to persist dispatched exchange", zap.Error(err))
	}

	c.inflight = true
	return &Exchange{
		Query:         query,
		UserID:        user.ID,
		PlaceholderID: placeholder.ID,
		Mode:          c.store.Mode(),
		Settings:      c.store.Settings(),
		Epoch:         c.store.Epoch(),
		StartedAt:     time.Now(),
	}, nil
}

// Run invokes the backend with the exchange's dispatch-time snapshot and
// reconciles the outcome. Ask failures are recovered here into a visible
// failed message; they never propagate to the caller.
func (c *Controller) Run(ctx context.Context, ex *Exchange) {
	resp, err := c.backend.Ask(ctx, ex.Mode, ex.Query, ex.Settings)
	if err != nil {
		c.FailWith(ex, err)
		return
	}
	c.Complete(ex, resp)
}

// Complete applies a successful resolution to the placeholder, matched by
// ID. Applied at most once per exchange; stale-epoch resolutions are
// discarded without touching the transcript.
func (c *Controller) Complete(ex *Exchange, resp *model.QueryResponse) {
	c.settle(ex, resp, "")
}

// FailWith applies a failed resolution: the placeholder becomes a visible
// error-flavored assistant message with no result attached.
func (c *Controller) FailWith(ex *Exchange, err error) {
	c.settle(ex, nil, backend.Summarize(err))
}

func (c *Controller) settle(ex *Exchange, resp *model.QueryResponse, errSummary string) {
	c.mu.Lock()
	if ex.done {
		c.mu.Unlock()
		return
	}
	ex.done = true
	c.inflight = false
	c.mu.Unlock()

	resolvedAt := time.Now()

	if c.store.Epoch() != ex.Epoch {
		// The transcript this exchange belongs to was cleared while the
		// request was outstanding. The resolution is stale; drop it.
		c.log.Info("discarding stale resolution",
			zap.String("placeholder_id", ex.PlaceholderID),
			zap.Uint64("dispatch_epoch", ex.Epoch))
	} else {
		found, err := c.store.UpdateMessage(ex.PlaceholderID, func(m *model.ChatMessage) {
			if resp != nil {
				m.Resolve(resp)
			} else {
				m.Fail(errSummary)
			}
		})
		if err != nil {
			c.log.Warn("failed to persist resolution", zap.Error(err))
		}
		if !found {
			c.log.Warn("placeholder missing at resolution", zap.String("id", ex.PlaceholderID))
		}
	}

	if c.observer != nil {
		c.observer.ExchangeResolved(Record{
			Query:      ex.Query,
			Response:   resp,
			ErrSummary: errSummary,
			Mode:       ex.Mode,
			ResolvedAt: resolvedAt,
			Duration:   resolvedAt.Sub(ex.StartedAt),
		})
	}
}

// =============================================================================
// DIAGRAMS
// =============================================================================

// ChunkDiagram returns Mermaid source for a chunk's structure. Under local
// mode it asks the local backend; under primary mode, which offers no such
// endpoint, it returns the fixed locally synthesized placeholder. The
// fallback path makes no network call and cannot fail.
func (c *Controller) ChunkDiagram(ctx context.Context, mode model.Mode, chunk model.CodeChunk) (string, error) {
	if mode == model.ModeLocal {
		return c.backend.GenerateChunkDiagram(ctx, chunk)
	}
	return diagram.Placeholder(chunk), nil
}

// ModuleDiagram returns Mermaid source for the codebase structure. Under
// local mode it asks the local backend; otherwise it renders the inventory
// mirror locally.
func (c *Controller) ModuleDiagram(ctx context.Context, mode model.Mode, files []model.FileRecord, retrieved []model.CodeChunk) (string, error) {
	if mode == model.ModeLocal {
		return c.backend.GenerateModuleDiagram(ctx, files, retrieved)
	}
	return diagram.ModuleGraph(files), nil
}
