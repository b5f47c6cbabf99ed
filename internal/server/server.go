// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jeranaias/codechat-tui/internal/config"
	"github.com/jeranaias/codechat-tui/internal/history"
	"github.com/jeranaias/codechat-tui/internal/inventory"
	"github.com/jeranaias/codechat-tui/internal/model"
	"github.com/jeranaias/codechat-tui/internal/store"
)

// HealthChecker probes the primary backend for liveness.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// Server exposes the running session read-only over HTTP for inspection
// and export. It never mutates session state.
type Server struct {
	store     *store.SessionStore
	inventory *inventory.Controller
	history   *history.Store // may be nil when recording is disabled
	checker   HealthChecker
	config    *config.ServerConfig
	log       *zap.Logger

	startedAt time.Time
	server    *http.Server
}

// New creates an inspection server with the given dependencies.
func New(
	s *store.SessionStore,
	inv *inventory.Controller,
	hist *history.Store,
	checker HealthChecker,
	cfg *config.ServerConfig,
	log *zap.Logger,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		store:     s,
		inventory: inv,
		history:   hist,
		checker:   checker,
		config:    cfg,
		log:       log,
		startedAt: time.Now(),
	}
}

// Router builds the chi router with all routes and middleware attached.
// Split from Start so tests can drive it through httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(RequestLogger(s.log))
	if s.config.RateLimitRPS > 0 {
		r.Use(RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
	}

	r.Get("/health", s.handleHealth)
	r.Get("/api/v1/transcript", s.handleTranscript)
	r.Get("/api/v1/inventory", s.handleInventory)
	r.Get("/api/v1/stats", s.handleStats)
	r.Get("/api/v1/export", s.handleExport)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.log.Info("starting inspection server", zap.String("addr", s.config.Addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// =============================================================================
// HANDLERS
// =============================================================================

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSecs    int64  `json:"uptime_secs"`
	BackendOnline bool   `json:"backend_online"`
	HasCodebase   bool   `json:"has_codebase"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:     "ok",
		UptimeSecs: int64(time.Since(s.startedAt).Seconds()),
	}
	if s.checker != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		resp.BackendOnline = s.checker.CheckHealth(ctx) == nil
	}
	if s.inventory != nil {
		resp.HasCodebase = s.inventory.HasFiles()
	}
	writeJSON(w, http.StatusOK, resp)
}

type transcriptResponse struct {
	Mode     model.Mode           `json:"mode"`
	Settings model.Settings       `json:"settings"`
	Messages []*model.ChatMessage `json:"messages"`
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, transcriptResponse{
		Mode:     s.store.Mode(),
		Settings: s.store.Settings(),
		Messages: s.store.Messages(),
	})
}

type inventoryResponse struct {
	HasFiles bool               `json:"has_files"`
	Stale    bool               `json:"stale"`
	Files    []model.FileRecord `json:"files"`
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	resp := inventoryResponse{Files: []model.FileRecord{}}
	if s.inventory != nil {
		resp.HasFiles = s.inventory.HasFiles()
		resp.Stale = s.inventory.Stale()
		resp.Files = s.inventory.Files()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, history.Stats{ByMode: map[string]int{}})
		return
	}
	stats, err := s.history.Stats()
	if err != nil {
		s.log.Warn("stats query failed", zap.Error(err))
		http.Error(w, "stats unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("format") {
	case "json":
		data, err := s.store.ExportJSON()
		if err != nil {
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	default:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(s.store.ExportMarkdown()))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
