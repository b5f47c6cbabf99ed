// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// SETTINGS
// =============================================================================

// Default retrieval parameters, matching the server-side defaults.
const (
	DefaultTemperature         = 0.2
	DefaultTopK                = 5
	DefaultSimilarityThreshold = 0.7
)

// Settings are the tunable query parameters sent with every ask.
//
// A settings snapshot is captured at dispatch time, so edits made while a
// request is in flight never alter that request's recorded parameters.
type Settings struct {
	Temperature         float64 `json:"temperature"`
	TopK                int     `json:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// FilterType restricts retrieval to one chunk type on the primary
	// backend (e.g. "code", "class"). Empty means no filter.
	FilterType string `json:"filter_type,omitempty"`
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		Temperature:         DefaultTemperature,
		TopK:                DefaultTopK,
		SimilarityThreshold: DefaultSimilarityThreshold,
	}
}

// Normalize clamps out-of-range values into their valid domain.
// Temperature is clamped to [0, 2], TopK to >= 1, and the similarity
// threshold to [0, 1].
func (s Settings) Normalize() Settings {
	if s.Temperature < 0 {
		s.Temperature = 0
	}
	if s.Temperature > 2 {
		s.Temperature = 2
	}
	if s.TopK < 1 {
		s.TopK = 1
	}
	if s.SimilarityThreshold < 0 {
		s.SimilarityThreshold = 0
	}
	if s.SimilarityThreshold > 1 {
		s.SimilarityThreshold = 1
	}
	return s
}

// =============================================================================
// QUERY RESPONSE (server-defined, consumed verbatim)
// =============================================================================

// QueryResponse is the structured answer returned by either backend.
// RetrievedContext keeps the server's relevance order; it is never
// re-sorted locally.
type QueryResponse struct {
	Answer           string      `json:"answer"`
	RetrievedContext []CodeChunk `json:"retrieved_context"`
	DebugInfo        *DebugInfo  `json:"debug_info,omitempty"`
}

// DebugInfo echoes the effective query parameters and retrieval counts.
type DebugInfo struct {
	ChunkCount          int     `json:"chunk_count,omitempty"`
	Temperature         float64 `json:"temperature,omitempty"`
	TopK                int     `json:"top_k,omitempty"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
}

// CodeChunk is a retrieved snippet of source material with provenance
// metadata. Immutable once received: the UI only displays chunks or
// forwards them to the diagram generator.
type CodeChunk struct {
	Content   string `json:"content"`
	Source    string `json:"source"`
	StartLine int    `json:"start_line"`
	ChunkType string `json:"chunk_type,omitempty"`

	// Distance is the similarity score when present; lower is better
	// by display convention.
	Distance *float64 `json:"distance,omitempty"`

	FunctionName string `json:"function_name,omitempty"`
	ClassName    string `json:"class_name,omitempty"`
	StructName   string `json:"struct_name,omitempty"`
}

// Symbol returns the most specific symbol name the chunk carries.
func (c CodeChunk) Symbol() string {
	switch {
	case c.FunctionName != "":
		return c.FunctionName
	case c.ClassName != "":
		return c.ClassName
	case c.StructName != "":
		return c.StructName
	default:
		return ""
	}
}

// =============================================================================
// FILE RECORD
// =============================================================================

// FileRecord mirrors one entry of the server-held codebase inventory.
// The local copy is a best-effort cache, not authoritative.
type FileRecord struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Type    string `json:"type"`
}
