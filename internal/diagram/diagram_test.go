// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diagram

import (
	"strings"
	"testing"

	"github.com/jeranaias/codechat-tui/internal/model"
)

// =============================================================================
// PLACEHOLDER TESTS
// =============================================================================

func TestPlaceholder_FunctionChunkRendersFlowchart(t *testing.T) {
	src := Placeholder(model.CodeChunk{FunctionName: "process_upload"})

	if !strings.HasPrefix(src, "graph TD") {
		t.Errorf("flowchart should start with graph TD, got %q", src)
	}
	if !strings.Contains(src, "process_upload") {
		t.Error("flowchart should name the function")
	}
	if !strings.Contains(src, "-->") {
		t.Error("flowchart should connect its nodes")
	}
}

func TestPlaceholder_ClassChunkRendersClassDiagram(t *testing.T) {
	src := Placeholder(model.CodeChunk{ClassName: "QueryEngine"})

	if !strings.HasPrefix(src, "classDiagram") {
		t.Errorf("class chunk should render a class diagram, got %q", src)
	}
	if !strings.Contains(src, "class QueryEngine") {
		t.Error("class diagram should name the class")
	}
}

func TestPlaceholder_StructNameAlsoCounts(t *testing.T) {
	src := Placeholder(model.CodeChunk{StructName: "Config"})
	if !strings.HasPrefix(src, "classDiagram") {
		t.Errorf("struct chunk should render a class diagram, got %q", src)
	}
}

func TestPlaceholder_ContentHeuristic(t *testing.T) {
	src := Placeholder(model.CodeChunk{Content: "class Foo:\n    pass"})
	if !strings.HasPrefix(src, "classDiagram") {
		t.Errorf("class-looking content should render a class diagram, got %q", src)
	}
}

func TestPlaceholder_GenericStub(t *testing.T) {
	src := Placeholder(model.CodeChunk{Source: "README.md", Content: "plain text"})

	if !strings.HasPrefix(src, "graph TD") {
		t.Errorf("generic stub should be a flowchart, got %q", src)
	}
	if !strings.Contains(src, "README.md") {
		t.Error("generic stub should reference the source")
	}
}

func TestPlaceholder_Deterministic(t *testing.T) {
	chunk := model.CodeChunk{FunctionName: "run", Source: "main.py"}
	if Placeholder(chunk) != Placeholder(chunk) {
		t.Error("the placeholder must be fixed for a given chunk")
	}
}

func TestPlaceholder_SanitizesBrackets(t *testing.T) {
	src := Placeholder(model.CodeChunk{FunctionName: "get[item]"})
	// Unescaped brackets would terminate the Mermaid node early.
	if strings.Contains(src, "get[item]") {
		t.Errorf("brackets must be sanitized inside labels: %q", src)
	}
	if !strings.Contains(src, "get(item)") {
		t.Errorf("brackets should become parens: %q", src)
	}
}

// =============================================================================
// MODULE GRAPH TESTS
// =============================================================================

func TestModuleGraph_Empty(t *testing.T) {
	src := ModuleGraph(nil)
	if !strings.Contains(src, "no codebase loaded") {
		t.Errorf("empty inventory should render a placeholder node, got %q", src)
	}
}

func TestModuleGraph_OneNodePerFile(t *testing.T) {
	files := []model.FileRecord{
		{Name: "app/main.py", Type: "python"},
		{Name: "app/util.py", Type: "python"},
	}
	src := ModuleGraph(files)

	if !strings.HasPrefix(src, "graph TD") {
		t.Errorf("module graph should be a flowchart, got %q", src)
	}
	if !strings.Contains(src, "app/main.py") || !strings.Contains(src, "app/util.py") {
		t.Error("every file should appear as a labelled node")
	}
	if !strings.Contains(src, "(python)") {
		t.Error("node labels should carry the file type")
	}
}

func TestModuleGraph_DuplicateBasenamesStayDistinct(t *testing.T) {
	files := []model.FileRecord{
		{Name: "a/main.py"},
		{Name: "b/main.py"},
	}
	src := ModuleGraph(files)

	if !strings.Contains(src, "main_py_0") || !strings.Contains(src, "main_py_1") {
		t.Errorf("duplicate basenames need distinct node IDs, got %q", src)
	}
}
