// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/codechat-tui/internal/backend"
	"github.com/jeranaias/codechat-tui/internal/chat"
	"github.com/jeranaias/codechat-tui/internal/model"
	"github.com/jeranaias/codechat-tui/internal/ui/components"
)

// Update handles all incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case exchangeDoneMsg:
		m.thinking = false
		m.refreshTranscript()
		return m, statsCmd(m.history)

	case healthMsg:
		m.backendOnline = msg.online
		m.syncStatusBar()
		return m, nil

	case healthTickMsg:
		return m, tea.Batch(checkHealthCmd(m.backend), healthTickCmd())

	case inventoryMsg:
		m.fileTable.SetFiles(m.inventory.Files())
		m.syncStatusBar()
		return m, nil

	case uploadDoneMsg:
		if msg.err != nil {
			m.statusNote = "upload failed: " + backend.Summarize(msg.err)
			return m, nil
		}
		m.statusNote = fmt.Sprintf("uploaded %d files", msg.count)
		return m, refreshInventoryCmd(m.inventory)

	case clearDoneMsg:
		if msg.err != nil {
			m.statusNote = "clear failed: " + backend.Summarize(msg.err)
			return m, nil
		}
		m.statusNote = "codebase cleared"
		m.refreshTranscript()
		m.fileTable.SetFiles(nil)
		m.syncStatusBar()
		return m, refreshInventoryCmd(m.inventory)

	case diagramMsg:
		if msg.err != nil {
			m.diagram = ""
			m.statusNote = "diagram failed: " + backend.Summarize(msg.err)
		} else {
			m.diagram = msg.source
			m.statusNote = ""
		}
		m.diagramView.SetContent(m.renderDiagram())
		return m, nil

	case statsMsg:
		if msg.err != nil {
			m.log.Warn("failed to load history stats", zap.Error(msg.err))
		}
		m.stats = msg.stats
		m.recent = msg.recent
		return m, nil
	}

	return m, nil
}

// handleResize recomputes the layout for the new terminal size.
func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	contentHeight := msg.Height - chromeHeight
	if contentHeight < 3 {
		contentHeight = 3
	}

	m.transcript.Width = msg.Width
	m.transcript.Height = contentHeight
	m.diagramView.Width = msg.Width
	m.diagramView.Height = contentHeight
	m.input.Width = msg.Width - 4
	m.statusBar.Width = msg.Width
	m.fileTable.Width = msg.Width - 2
	m.fileTable.Height = contentHeight

	m.refreshTranscript()
	return m, nil
}

// handleKey dispatches keyboard input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextTab):
		m.activeTab = (m.activeTab + 1) % tabCount
		m.tabBar.Active = int(m.activeTab)
		return m.enterTab()

	case key.Matches(msg, m.keys.PrevTab):
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		m.tabBar.Active = int(m.activeTab)
		return m.enterTab()

	case key.Matches(msg, m.keys.ToggleMode):
		mode := m.store.Mode().Toggle()
		if err := m.store.SetMode(mode); err != nil {
			m.log.Warn("failed to persist mode", zap.Error(err))
		}
		m.syncStatusBar()
		return m, nil

	case key.Matches(msg, m.keys.ClearChat):
		if err := m.store.ClearMessages(); err != nil {
			m.log.Warn("failed to clear transcript", zap.Error(err))
		}
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.uploadPrompt {
			m.exitUploadPrompt()
		}
		return m, nil
	}

	switch m.activeTab {
	case TabChat:
		return m.handleChatKey(msg)
	case TabFiles:
		return m.handleFilesKey(msg)
	case TabDiagrams:
		return m.handleDiagramsKey(msg)
	}
	return m, nil
}

// enterTab performs per-tab setup when a view becomes active.
func (m *Model) enterTab() (tea.Model, tea.Cmd) {
	switch m.activeTab {
	case TabFiles:
		return m, refreshInventoryCmd(m.inventory)
	case TabPerformance:
		return m, statsCmd(m.history)
	}
	return m, nil
}

// handleChatKey handles keys while the chat view is active.
func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit validates and dispatches the typed question (or upload path).
func (m *Model) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	if m.uploadPrompt {
		m.exitUploadPrompt()
		if value == "" {
			return m, nil
		}
		m.statusNote = "uploading " + value + "..."
		return m, uploadCmd(m.inventory, value)
	}

	ex, err := m.chat.Begin(value)
	if err != nil {
		var verr *chat.ValidationError
		if errors.As(err, &verr) {
			// Guarded submits change nothing; the input stays put.
			m.statusNote = verr.Reason
			return m, nil
		}
		m.statusNote = backend.Summarize(err)
		return m, nil
	}

	m.input.Reset()
	m.thinking = true
	m.thinkingSince = time.Now()
	m.statusNote = ""
	m.refreshTranscript()
	m.transcript.GotoBottom()

	return m, runExchangeCmd(m.chat, ex, m.requestTimeout())
}

// handleFilesKey handles keys while the files view is active.
func (m *Model) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.uploadPrompt {
		if key.Matches(msg, m.keys.Submit) {
			return m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Upload):
		m.uploadPrompt = true
		m.input.Reset()
		m.input.Placeholder = "Path to file or directory to upload..."
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, refreshInventoryCmd(m.inventory)

	case key.Matches(msg, m.keys.ClearFiles):
		m.statusNote = "clearing codebase..."
		return m, clearFilesCmd(m.inventory)

	case key.Matches(msg, m.keys.ScrollUp):
		m.fileTable.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.fileTable.MoveDown()
		return m, nil
	}
	return m, nil
}

// handleDiagramsKey handles keys while the diagrams view is active.
func (m *Model) handleDiagramsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Diagram):
		mode := m.store.Mode()
		return m, moduleDiagramCmd(m.chat, mode, m.inventory.Files(), m.lastRetrieved())

	case key.Matches(msg, m.keys.ChunkView):
		retrieved := m.lastRetrieved()
		if len(retrieved) == 0 {
			m.statusNote = "no retrieved context yet; ask a question first"
			return m, nil
		}
		return m, chunkDiagramCmd(m.chat, m.store.Mode(), retrieved[0])

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.diagramView, cmd = m.diagramView.Update(msg)
		return m, cmd
	}
	return m, nil
}

// exitUploadPrompt restores the input to question mode.
func (m *Model) exitUploadPrompt() {
	m.uploadPrompt = false
	m.input.Reset()
	m.input.Placeholder = "Ask a question about the codebase..."
}

// lastRetrieved returns the retrieved context of the newest resolved answer.
func (m *Model) lastRetrieved() []model.CodeChunk {
	msgs := m.store.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Result != nil && len(msgs[i].Result.RetrievedContext) > 0 {
			return msgs[i].Result.RetrievedContext
		}
	}
	return nil
}

// syncStatusBar pushes the latest session state into the status bar.
func (m *Model) syncStatusBar() {
	m.statusBar.Mode = m.store.Mode()
	m.statusBar.Settings = m.store.Settings()
	m.statusBar.BackendOnline = m.backendOnline
	m.statusBar.FileCount = len(m.inventory.Files())
	m.statusBar.Stale = m.inventory.Stale()
	if m.thinking {
		m.statusBar.Status = components.StatusThinking
	} else {
		m.statusBar.Status = components.StatusReady
	}
}
