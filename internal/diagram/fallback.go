// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diagram synthesizes placeholder Mermaid diagrams locally.
//
// The primary backend offers no diagram endpoint, so under primary mode the
// dashboard falls back to a fixed, locally generated skeleton keyed on
// coarse chunk heuristics. Nothing in this package performs network calls
// and nothing here can fail.
package diagram

import (
	"strings"

	"github.com/jeranaias/codechat-tui/internal/model"
)

// Placeholder returns a fixed skeleton diagram for a retrieved chunk:
// a flowchart when the chunk names a function, a class diagram when it
// carries class/struct markers, and a generic stub otherwise.
func Placeholder(chunk model.CodeChunk) string {
	if chunk.FunctionName != "" {
		return flowchartSkeleton(chunk.FunctionName)
	}
	if name, ok := classMarker(chunk); ok {
		return classSkeleton(name)
	}
	return genericStub(chunk.Source)
}

// classMarker reports whether the chunk looks like a class or struct
// definition, and picks the best available name for it.
func classMarker(chunk model.CodeChunk) (string, bool) {
	name := chunk.ClassName
	if name == "" {
		name = chunk.StructName
	}
	if name != "" {
		return name, true
	}
	if strings.EqualFold(chunk.ChunkType, "class") {
		return "UnnamedType", true
	}
	content := chunk.Content
	if strings.Contains(content, "class ") || strings.Contains(content, "struct ") {
		return "UnnamedType", true
	}
	return "", false
}

func flowchartSkeleton(functionName string) string {
	name := sanitizeLabel(functionName)
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("N1[Start " + name + "]\n")
	sb.WriteString("N2[" + name + " body]\n")
	sb.WriteString("N3[End " + name + "]\n")
	sb.WriteString("N1 --> N2\n")
	sb.WriteString("N2 --> N3")
	return sb.String()
}

func classSkeleton(className string) string {
	name := sanitizeIdent(className)
	var sb strings.Builder
	sb.WriteString("classDiagram\n")
	sb.WriteString("class " + name + " {\n")
	sb.WriteString("  +fields\n")
	sb.WriteString("  +methods()\n")
	sb.WriteString("}")
	return sb.String()
}

func genericStub(source string) string {
	label := "code chunk"
	if source != "" {
		label = sanitizeLabel(source)
	}
	return "graph TD\nN1[" + label + "]\nN2[no structural information available]\nN1 --> N2"
}

// sanitizeLabel makes text safe inside a Mermaid node label.
// Square brackets would terminate the node early.
func sanitizeLabel(s string) string {
	s = strings.ReplaceAll(s, "[", "(")
	s = strings.ReplaceAll(s, "]", ")")
	return strings.ReplaceAll(s, "\n", " ")
}

// sanitizeIdent makes text safe as a Mermaid identifier.
func sanitizeIdent(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "UnnamedType"
	}
	return sb.String()
}
