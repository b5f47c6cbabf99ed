// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/jeranaias/codechat-tui/internal/backend"
	"github.com/jeranaias/codechat-tui/internal/chat"
	"github.com/jeranaias/codechat-tui/internal/config"
	"github.com/jeranaias/codechat-tui/internal/history"
	"github.com/jeranaias/codechat-tui/internal/inventory"
	"github.com/jeranaias/codechat-tui/internal/store"
	"github.com/jeranaias/codechat-tui/internal/ui/components"
	"github.com/jeranaias/codechat-tui/internal/ui/styles"
)

// =============================================================================
// TABS
// =============================================================================

// Tab identifies a dashboard view.
type Tab int

const (
	TabChat Tab = iota
	TabFiles
	TabDiagrams
	TabPerformance

	tabCount
)

// Label returns the display label for a tab.
func (t Tab) Label() string {
	switch t {
	case TabChat:
		return "Chat"
	case TabFiles:
		return "Files"
	case TabDiagrams:
		return "Diagrams"
	case TabPerformance:
		return "Performance"
	default:
		return "?"
	}
}

// =============================================================================
// DASHBOARD MODEL
// =============================================================================

// Model is the Bubble Tea model for the dashboard shell.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Collaborators
	store     *store.SessionStore
	chat      *chat.Controller
	inventory *inventory.Controller
	backend   *backend.Client
	history   *history.Store // may be nil
	cfg       *config.Config
	log       *zap.Logger

	// UI components
	transcript  viewport.Model
	diagramView viewport.Model
	input       textinput.Model
	spin        spinner.Model
	statusBar   *components.StatusBar
	tabBar      *components.TabBar
	fileTable   *components.FileTable

	// Markdown rendering for resolved answers
	markdown *glamour.TermRenderer

	// State
	activeTab     Tab
	thinking      bool
	thinkingSince time.Time
	backendOnline bool
	uploadPrompt  bool // input captures a path instead of a question
	statusNote    string
	diagram       string
	stats         history.Stats
	recent        []history.Entry
	keys          KeyMap
}

// New creates the dashboard model wired to its collaborators.
func New(
	s *store.SessionStore,
	chatCtrl *chat.Controller,
	inv *inventory.Controller,
	client *backend.Client,
	hist *history.Store,
	cfg *config.Config,
	log *zap.Logger,
) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Ask a question about the codebase..."
	input.Prompt = "> "
	input.CharLimit = 4000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	md, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)

	m := &Model{
		theme:     theme,
		store:     s,
		chat:      chatCtrl,
		inventory: inv,
		backend:   client,
		history:   hist,
		cfg:       cfg,
		log:       log,
		input:     input,
		spin:      spin,
		statusBar: components.NewStatusBar(theme),
		fileTable: components.NewFileTable(theme),
		markdown:  md,
		keys:      DefaultKeyMap(),
	}

	labels := make([]string, 0, int(tabCount))
	for t := Tab(0); t < tabCount; t++ {
		labels = append(labels, t.Label())
	}
	m.tabBar = components.NewTabBar(theme, labels...)

	return m
}

// Init starts the health poll and the initial inventory refresh.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		checkHealthCmd(m.backend),
		healthTickCmd(),
		refreshInventoryCmd(m.inventory),
		statsCmd(m.history),
	)
}

// requestTimeout returns the configured per-ask timeout.
func (m *Model) requestTimeout() time.Duration {
	if m.cfg == nil || m.cfg.Backend.TimeoutSecs <= 0 {
		return 0
	}
	return time.Duration(m.cfg.Backend.TimeoutSecs) * time.Second
}
