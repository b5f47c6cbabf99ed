// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/codechat-tui/internal/model"
	"github.com/jeranaias/codechat-tui/internal/ui/styles"
	"github.com/jeranaias/codechat-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status.
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusThinking:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// StatusBar is the bottom status bar: active mode, backend reachability,
// inventory state, retrieval settings, and keyboard shortcuts.
type StatusBar struct {
	Mode          model.Mode
	Settings      model.Settings
	BackendOnline bool
	FileCount     int
	Stale         bool
	Status        Status
	Width         int
	ShowShortcuts bool

	theme *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Mode:          model.ModePrimary,
		Settings:      model.DefaultSettings(),
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// Render renders the status bar for the current width.
func (b *StatusBar) Render() string {
	var parts []string

	modeStyle := b.theme.ModePrimary
	if b.Mode == model.ModeLocal {
		modeStyle = b.theme.ModeLocal
	}
	parts = append(parts, modeStyle.Render(strings.ToUpper(b.Mode.String())))

	backend := b.theme.BackendDown.Render(styles.StatusIndicators.Error + " offline")
	if b.BackendOnline {
		backend = b.theme.BackendOnline.Render(styles.StatusIndicators.Active + " online")
	}
	parts = append(parts, backend)

	files := fmt.Sprintf("%d files", b.FileCount)
	if b.FileCount == 0 {
		files = "no codebase"
	}
	parts = append(parts, files)
	if b.Stale {
		parts = append(parts, b.theme.StaleBadge.Render("STALE"))
	}

	parts = append(parts, fmt.Sprintf("t=%.1f k=%d s=%.2f",
		b.Settings.Temperature, b.Settings.TopK, b.Settings.SimilarityThreshold))

	parts = append(parts, b.Status.Icon()+" "+b.Status.String())

	left := strings.Join(parts, "  |  ")

	var right string
	if b.ShowShortcuts && b.Width >= 100 {
		right = b.renderShortcuts()
	}

	gap := b.Width - util.StringWidth(left) - util.StringWidth(right) - 2
	if gap < 1 {
		gap = 1
		left = util.TruncateWidth(left, b.Width-util.StringWidth(right)-3)
	}

	return b.theme.StatusBar.Width(b.Width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderShortcuts renders the keyboard shortcut hints.
func (b *StatusBar) renderShortcuts() string {
	shortcuts := []struct{ key, desc string }{
		{"tab", "switch"},
		{"^t", "mode"},
		{"^l", "clear"},
		{"^c", "quit"},
	}
	var parts []string
	for _, sc := range shortcuts {
		parts = append(parts,
			b.theme.ShortcutKey.Render(sc.key)+b.theme.ShortcutDesc.Render(":"+sc.desc))
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// TAB BAR COMPONENT
// =============================================================================

// TabBar renders the dashboard's view tabs.
type TabBar struct {
	Tabs   []string
	Active int
	theme  *styles.Theme
}

// NewTabBar creates a tab bar with the given labels.
func NewTabBar(theme *styles.Theme, tabs ...string) *TabBar {
	return &TabBar{Tabs: tabs, theme: theme}
}

// Render renders the tab strip.
func (t *TabBar) Render() string {
	var rendered []string
	for i, label := range t.Tabs {
		if i == t.Active {
			rendered = append(rendered, t.theme.TabActive.Render(label))
		} else {
			rendered = append(rendered, t.theme.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
