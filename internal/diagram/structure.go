// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diagram

import (
	"path"
	"strings"

	"github.com/jeranaias/codechat-tui/internal/model"
)

// ModuleGraph renders the codebase inventory as a Mermaid graph: one node
// per file, labelled with its name and type. Used as the offline rendering
// of the modules tab when the local backend is not selected or the file
// list is all that is known.
func ModuleGraph(files []model.FileRecord) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	if len(files) == 0 {
		sb.WriteString("empty[no codebase loaded]")
		return sb.String()
	}

	for i, f := range files {
		id := nodeID(f.Name, i)
		label := sanitizeLabel(f.Name)
		if f.Type != "" {
			label += "<br/>(" + sanitizeLabel(f.Type) + ")"
		}
		sb.WriteString(id + "[" + label + "]")
		if i < len(files)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// nodeID derives a Mermaid-safe node identifier from a file name.
// Dots would read as Mermaid syntax, and duplicated basenames need the
// index suffix to stay distinct.
func nodeID(name string, index int) string {
	base := path.Base(name)
	id := sanitizeIdent(strings.ReplaceAll(base, ".", "_"))
	if id == "UnnamedType" {
		id = "file"
	}
	return id + "_" + itoa(index)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
