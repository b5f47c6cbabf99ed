// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "testing"

// =============================================================================
// SETTINGS TESTS
// =============================================================================

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Temperature != 0.2 {
		t.Errorf("Temperature = %g, want 0.2", s.Temperature)
	}
	if s.TopK != 5 {
		t.Errorf("TopK = %d, want 5", s.TopK)
	}
	if s.SimilarityThreshold != 0.7 {
		t.Errorf("SimilarityThreshold = %g, want 0.7", s.SimilarityThreshold)
	}
	if s.FilterType != "" {
		t.Errorf("FilterType = %q, want empty", s.FilterType)
	}
}

func TestSettings_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{
			name: "in range untouched",
			in:   Settings{Temperature: 0.5, TopK: 3, SimilarityThreshold: 0.4},
			want: Settings{Temperature: 0.5, TopK: 3, SimilarityThreshold: 0.4},
		},
		{
			name: "negative temperature clamps to zero",
			in:   Settings{Temperature: -1, TopK: 5, SimilarityThreshold: 0.7},
			want: Settings{Temperature: 0, TopK: 5, SimilarityThreshold: 0.7},
		},
		{
			name: "temperature above two clamps",
			in:   Settings{Temperature: 5, TopK: 5, SimilarityThreshold: 0.7},
			want: Settings{Temperature: 2, TopK: 5, SimilarityThreshold: 0.7},
		},
		{
			name: "zero top_k clamps to one",
			in:   Settings{Temperature: 0.2, TopK: 0, SimilarityThreshold: 0.7},
			want: Settings{Temperature: 0.2, TopK: 1, SimilarityThreshold: 0.7},
		},
		{
			name: "threshold above one clamps",
			in:   Settings{Temperature: 0.2, TopK: 5, SimilarityThreshold: 1.5},
			want: Settings{Temperature: 0.2, TopK: 5, SimilarityThreshold: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// CODE CHUNK TESTS
// =============================================================================

func TestCodeChunk_Symbol(t *testing.T) {
	tests := []struct {
		name  string
		chunk CodeChunk
		want  string
	}{
		{"function wins", CodeChunk{FunctionName: "parse", ClassName: "Parser"}, "parse"},
		{"class next", CodeChunk{ClassName: "Parser", StructName: "Node"}, "Parser"},
		{"struct last", CodeChunk{StructName: "Node"}, "Node"},
		{"nothing", CodeChunk{Source: "a.py"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.chunk.Symbol(); got != tt.want {
				t.Errorf("Symbol() = %q, want %q", got, tt.want)
			}
		})
	}
}
