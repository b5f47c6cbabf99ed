// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/codechat-tui/internal/model"
	"github.com/jeranaias/codechat-tui/internal/ui/styles"
)

// =============================================================================
// RETRIEVED SOURCES RENDERER
// =============================================================================

// RenderSources renders the retrieved context chunks attached to an answer:
// source path, symbol, similarity, and the highlighted chunk body.
func RenderSources(theme *styles.Theme, chunks []model.CodeChunk, width int) string {
	if len(chunks) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(theme.SourceHeader.Render(fmt.Sprintf("Sources (%d)", len(chunks))))
	sb.WriteString("\n\n")

	for i, chunk := range chunks {
		line := theme.SourcePath.Render(chunk.Source)
		if sym := chunk.Symbol(); sym != "" {
			line += " " + theme.SourceMeta.Render(sym)
		}
		if chunk.StartLine > 0 {
			line += " " + theme.SourceMeta.Render(fmt.Sprintf("line %d", chunk.StartLine))
		}
		if chunk.Distance != nil {
			line += " " + theme.SourceMeta.Render(fmt.Sprintf("distance %.3f", *chunk.Distance))
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, line))

		block := NewCodeBlock(LanguageForFile(chunk.Source), chunk.Content)
		block.StartLine = chunk.StartLine
		block.MaxWidth = width
		sb.WriteString(block.Render())
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// RenderDebugInfo renders the retrieval debug block shown when debug display
// is enabled.
func RenderDebugInfo(theme *styles.Theme, info *model.DebugInfo) string {
	if info == nil {
		return ""
	}
	var parts []string
	if info.ChunkCount > 0 {
		parts = append(parts, fmt.Sprintf("chunks=%d", info.ChunkCount))
	}
	parts = append(parts, fmt.Sprintf("t=%.1f k=%d s=%.2f",
		info.Temperature, info.TopK, info.SimilarityThreshold))
	return theme.SourceMeta.Render("debug: " + strings.Join(parts, " "))
}
