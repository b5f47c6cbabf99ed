// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/codechat-tui/internal/model"
	"github.com/jeranaias/codechat-tui/internal/ui/styles"
	"github.com/jeranaias/codechat-tui/internal/util"
)

// =============================================================================
// FILE TABLE COMPONENT
// =============================================================================

// FileTable renders the uploaded codebase inventory as a selectable table.
type FileTable struct {
	Files    []model.FileRecord
	Selected int
	Width    int
	Height   int

	theme *styles.Theme
}

// NewFileTable creates a file table.
func NewFileTable(theme *styles.Theme) *FileTable {
	return &FileTable{
		Width:  80,
		Height: 20,
		theme:  theme,
	}
}

// SetFiles replaces the table contents, clamping the selection.
func (t *FileTable) SetFiles(files []model.FileRecord) {
	t.Files = files
	if t.Selected >= len(files) {
		t.Selected = len(files) - 1
	}
	if t.Selected < 0 {
		t.Selected = 0
	}
}

// MoveUp moves the selection up one row.
func (t *FileTable) MoveUp() {
	if t.Selected > 0 {
		t.Selected--
	}
}

// MoveDown moves the selection down one row.
func (t *FileTable) MoveDown() {
	if t.Selected < len(t.Files)-1 {
		t.Selected++
	}
}

// SelectedFile returns the currently selected file, or nil when empty.
func (t *FileTable) SelectedFile() *model.FileRecord {
	if len(t.Files) == 0 {
		return nil
	}
	return &t.Files[t.Selected]
}

// Render renders the table.
func (t *FileTable) Render() string {
	if len(t.Files) == 0 {
		return t.theme.SourceMeta.Render("No codebase uploaded. Press 'u' to upload files.")
	}

	nameWidth := t.Width - 24
	if nameWidth < 20 {
		nameWidth = 20
	}

	var sb strings.Builder
	header := util.PadRight("NAME", nameWidth) + util.PadRight("TYPE", 12) + "SIZE"
	sb.WriteString(t.theme.TableHeader.Render(header))
	sb.WriteString("\n")

	// Keep the selection in view when the list is taller than the panel.
	visible := t.Height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if t.Selected >= visible {
		start = t.Selected - visible + 1
	}

	for i := start; i < len(t.Files) && i < start+visible; i++ {
		f := t.Files[i]
		row := util.PadRight(util.TruncateWidth(f.Name, nameWidth-1), nameWidth) +
			util.PadRight(f.Type, 12) +
			formatSize(len(f.Content))
		if i == t.Selected {
			sb.WriteString(t.theme.TableRowSelected.Render(row))
		} else {
			sb.WriteString(t.theme.TableRow.Render(row))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatSize renders a byte count human-readably.
func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
