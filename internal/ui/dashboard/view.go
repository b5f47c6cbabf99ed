// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/codechat-tui/internal/model"
	"github.com/jeranaias/codechat-tui/internal/ui/components"
	"github.com/jeranaias/codechat-tui/internal/util"
)

// chromeHeight is the number of rows consumed by the header, tab strip,
// input area, and status bar.
const chromeHeight = 7

// View renders the full dashboard.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	m.syncStatusBar()

	header := m.theme.Header.Width(m.width).Render("codechat")
	tabs := m.tabBar.Render()

	var content string
	switch m.activeTab {
	case TabChat:
		content = m.transcript.View()
	case TabFiles:
		content = m.viewFiles()
	case TabDiagrams:
		content = m.diagramView.View()
	case TabPerformance:
		content = m.viewPerformance()
	}

	var footer []string
	if m.activeTab == TabChat || m.uploadPrompt {
		footer = append(footer, m.theme.InputContainer.Width(m.width).Render(m.input.View()))
	}
	if m.statusNote != "" {
		footer = append(footer, m.theme.PendingText.Render(m.statusNote))
	}
	footer = append(footer, m.statusBar.Render())

	sections := append([]string{header, tabs, content}, footer...)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// CHAT VIEW
// =============================================================================

// refreshTranscript re-renders the transcript into the viewport.
func (m *Model) refreshTranscript() {
	msgs := m.store.Messages()
	if len(msgs) == 0 {
		m.transcript.SetContent(m.theme.PendingText.Render(
			"No messages yet. Upload a codebase, then ask a question."))
		return
	}

	width := m.width
	if width < 40 {
		width = 80
	}
	bubbleWidth := width - 8

	var sb strings.Builder
	for _, msg := range msgs {
		sb.WriteString(m.renderMessage(msg, bubbleWidth))
		sb.WriteString("\n\n")
	}
	m.transcript.SetContent(sb.String())
}

// renderMessage renders one transcript entry.
func (m *Model) renderMessage(msg *model.ChatMessage, width int) string {
	ts := m.theme.StatsLabel.Render(msg.CreatedAt.Format("15:04"))

	if msg.Role == model.RoleUser {
		body := m.theme.UserBubble.MaxWidth(width).Render(msg.Content)
		return ts + " " + msg.Role.DisplayName() + "\n" + body
	}

	if msg.Pending {
		body := m.spin.View() + " " + m.theme.ThinkingText.Render(msg.Content)
		return ts + " " + msg.Role.DisplayName() + "\n" + body
	}

	if msg.IsError() {
		body := m.theme.ErrorBubble.MaxWidth(width).Render(msg.Content)
		return ts + " " + msg.Role.DisplayName() + "\n" + body
	}

	content := msg.Content
	if m.markdown != nil {
		if rendered, err := m.markdown.Render(content); err == nil {
			content = strings.TrimRight(rendered, "\n")
		}
	}
	body := m.theme.AssistantBubble.MaxWidth(width).Render(content)

	var extra string
	if msg.Result != nil {
		if m.cfg != nil && m.cfg.UI.ShowDebug {
			if debug := components.RenderDebugInfo(m.theme, msg.Result.DebugInfo); debug != "" {
				extra += "\n" + debug
			}
		}
		if sources := components.RenderSources(m.theme, msg.Result.RetrievedContext, width); sources != "" {
			extra += "\n" + sources
		}
	}

	return ts + " " + msg.Role.DisplayName() + "\n" + body + extra
}

// =============================================================================
// FILES VIEW
// =============================================================================

func (m *Model) viewFiles() string {
	var sb strings.Builder
	sb.WriteString(m.fileTable.Render())
	sb.WriteString("\n")
	sb.WriteString(m.theme.ShortcutKey.Render("u") + m.theme.ShortcutDesc.Render(":upload  "))
	sb.WriteString(m.theme.ShortcutKey.Render("r") + m.theme.ShortcutDesc.Render(":refresh  "))
	sb.WriteString(m.theme.ShortcutKey.Render("x") + m.theme.ShortcutDesc.Render(":clear codebase"))
	return sb.String()
}

// =============================================================================
// DIAGRAMS VIEW
// =============================================================================

// renderDiagram renders the current Mermaid source, or the empty-state hint.
func (m *Model) renderDiagram() string {
	if m.diagram == "" {
		return m.theme.PendingText.Render(
			"No diagram yet. Press 'd' for the module structure, " +
				"or 'c' for the top retrieved chunk.")
	}
	block := components.NewCodeBlock("mermaid", m.diagram)
	block.MaxWidth = m.width
	return m.theme.SourceHeader.Render("Mermaid source") + "\n\n" + block.Render()
}

// =============================================================================
// PERFORMANCE VIEW
// =============================================================================

func (m *Model) viewPerformance() string {
	var sb strings.Builder

	row := func(label, value string) {
		sb.WriteString(m.theme.StatsLabel.Render(fmt.Sprintf("%-18s", label)))
		sb.WriteString(m.theme.StatsValue.Render(value))
		sb.WriteString("\n")
	}

	row("Total exchanges", fmt.Sprintf("%d", m.stats.Total))
	row("Succeeded", fmt.Sprintf("%d", m.stats.Succeeded))
	row("Failed", fmt.Sprintf("%d", m.stats.Failed))
	row("Avg duration", fmt.Sprintf("%d ms", m.stats.AvgDurationMs))
	for mode, count := range m.stats.ByMode {
		row("Mode "+mode, fmt.Sprintf("%d", count))
	}

	if len(m.recent) > 0 {
		sb.WriteString("\n")
		sb.WriteString(m.theme.SourceHeader.Render("Recent exchanges"))
		sb.WriteString("\n")
		for _, e := range m.recent {
			status := "ok"
			if !e.OK {
				status = "failed"
			}
			line := fmt.Sprintf("%s  %-6s  %-7s  %6dms  %s",
				e.CreatedAt.Format("15:04:05"), e.Mode, status,
				e.Duration.Milliseconds(), util.TruncateRunes(util.Flatten(e.Query), 50))
			sb.WriteString(m.theme.TableRow.Render(line))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
