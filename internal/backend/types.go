// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import "github.com/jeranaias/codechat-tui/internal/model"

// =============================================================================
// WIRE TYPES
// =============================================================================
//
// The two backends expose "the same" ask operation under different request
// schemas. The asymmetry is an external contract, so it is kept as two
// distinct encoder types rather than unified into one internal model.

// primaryAskRequest is the request body for POST /ask/ on the primary
// backend. The question travels under the field name "query".
type primaryAskRequest struct {
	Query               string  `json:"query"`
	Temperature         float64 `json:"temperature"`
	TopK                int     `json:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	FilterType          string  `json:"filter_type,omitempty"`
}

// localAskRequest is the request body for POST /ask_model on the local
// backend. The question travels under the field name "question" - a
// deliberate server-contract difference, not a bug to fix.
type localAskRequest struct {
	Question            string  `json:"question"`
	Temperature         float64 `json:"temperature"`
	TopK                int     `json:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

// messageResponse is the generic acknowledgement body {"message": ...}
// returned by health, upload and clear.
type messageResponse struct {
	Message string `json:"message"`
}

// chunkDiagramRequest is the request body for POST /generate_chunk_diagram.
type chunkDiagramRequest struct {
	Chunk model.CodeChunk `json:"chunk"`
}

// moduleDiagramRequest is the request body for POST /generate_module_diagram.
// Files and retrieved context are both optional; the server uses whichever
// is present.
type moduleDiagramRequest struct {
	Files            []model.FileRecord `json:"files,omitempty"`
	Chunk            *model.CodeChunk   `json:"chunk,omitempty"`
	RetrievedContext []model.CodeChunk  `json:"retrieved_context,omitempty"`
}

// diagramResponse carries generated Mermaid source text.
type diagramResponse struct {
	MermaidSyntax string `json:"mermaid_syntax"`
}
