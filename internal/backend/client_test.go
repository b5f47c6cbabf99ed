// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jeranaias/codechat-tui/internal/model"
)

// =============================================================================
// ASK WIRE CONTRACT TESTS
// =============================================================================

func TestAsk_PrimaryEncodesQueryField(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		json.NewEncoder(w).Encode(model.QueryResponse{Answer: "ok"})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{PrimaryURL: srv.URL})
	settings := model.Settings{Temperature: 0.4, TopK: 7, SimilarityThreshold: 0.6, FilterType: "code"}

	resp, err := c.Ask(context.Background(), model.ModePrimary, "where is main?", settings)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if resp.Answer != "ok" {
		t.Errorf("answer = %q", resp.Answer)
	}

	if gotPath != "/ask/" {
		t.Errorf("path = %q, want /ask/", gotPath)
	}
	// The primary contract names the question "query".
	if gotBody["query"] != "where is main?" {
		t.Errorf(`body["query"] = %v`, gotBody["query"])
	}
	if _, present := gotBody["question"]; present {
		t.Error(`primary body must not carry "question"`)
	}
	if gotBody["top_k"] != float64(7) {
		t.Errorf(`body["top_k"] = %v`, gotBody["top_k"])
	}
	if gotBody["filter_type"] != "code" {
		t.Errorf(`body["filter_type"] = %v`, gotBody["filter_type"])
	}
}

func TestAsk_LocalEncodesQuestionField(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		json.NewEncoder(w).Encode(model.QueryResponse{Answer: "local answer"})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{LocalURL: srv.URL})

	resp, err := c.Ask(context.Background(), model.ModeLocal, "where is main?", model.DefaultSettings())
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if resp.Answer != "local answer" {
		t.Errorf("answer = %q", resp.Answer)
	}

	if gotPath != "/ask_model" {
		t.Errorf("path = %q, want /ask_model", gotPath)
	}
	// The local contract names the question "question". Deliberate asymmetry.
	if gotBody["question"] != "where is main?" {
		t.Errorf(`body["question"] = %v`, gotBody["question"])
	}
	if _, present := gotBody["query"]; present {
		t.Error(`local body must not carry "query"`)
	}
	if _, present := gotBody["filter_type"]; present {
		t.Error("local body must not carry a filter")
	}
}

func TestAsk_RemoteErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index not ready", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{PrimaryURL: srv.URL})
	_, err := c.Ask(context.Background(), model.ModePrimary, "q", model.DefaultSettings())

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("error = %v, want RemoteError", err)
	}
	if remote.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", remote.StatusCode)
	}
	if remote.Body != "index not ready" {
		t.Errorf("body = %q", remote.Body)
	}
}

func TestAsk_UnreachableBackendIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Immediately closed: connection refused.

	c := NewClientWithConfig(&ClientConfig{PrimaryURL: srv.URL})
	_, err := c.Ask(context.Background(), model.ModePrimary, "q", model.DefaultSettings())

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("error = %v, want TransportError", err)
	}
}

// =============================================================================
// INVENTORY ENDPOINT TESTS
// =============================================================================

func TestUploadFile_MultipartFieldFile(t *testing.T) {
	var gotName, gotContent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload_codebase" {
			t.Errorf("path = %q", r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("multipart field 'file' missing: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotName = header.Filename
		data, _ := io.ReadAll(file)
		gotContent = string(data)
		json.NewEncoder(w).Encode(map[string]string{"message": "uploaded"})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{PrimaryURL: srv.URL})
	if err := c.UploadFile(context.Background(), "pkg/util.py", []byte("pass")); err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if gotName != "pkg/util.py" {
		t.Errorf("filename = %q", gotName)
	}
	if gotContent != "pass" {
		t.Errorf("content = %q", gotContent)
	}
}

func TestListFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/list_codebase" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]model.FileRecord{
			{Name: "b.py", Type: "python"},
			{Name: "a.py", Type: "python"},
		})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{PrimaryURL: srv.URL})
	files, err := c.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	// Server order is preserved, never re-sorted locally.
	if len(files) != 2 || files[0].Name != "b.py" {
		t.Errorf("files = %+v", files)
	}
}

func TestClearFiles(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clear_codebase" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		called = true
		json.NewEncoder(w).Encode(map[string]string{"message": "cleared"})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{PrimaryURL: srv.URL})
	if err := c.ClearFiles(context.Background()); err != nil {
		t.Fatalf("ClearFiles failed: %v", err)
	}
	if !called {
		t.Error("clear endpoint was not called")
	}
}

func TestCheckHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{PrimaryURL: srv.URL})
	if err := c.CheckHealth(context.Background()); err != nil {
		t.Errorf("CheckHealth failed: %v", err)
	}
}

// =============================================================================
// DIAGRAM ENDPOINT TESTS
// =============================================================================

func TestGenerateChunkDiagram(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate_chunk_diagram" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req struct {
			Chunk model.CodeChunk `json:"chunk"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Chunk.FunctionName != "run" {
			t.Errorf("chunk function = %q", req.Chunk.FunctionName)
		}
		json.NewEncoder(w).Encode(map[string]string{"mermaid_syntax": "graph TD\nA-->B"})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{LocalURL: srv.URL})
	src, err := c.GenerateChunkDiagram(context.Background(), model.CodeChunk{FunctionName: "run"})
	if err != nil {
		t.Fatalf("GenerateChunkDiagram failed: %v", err)
	}
	if src != "graph TD\nA-->B" {
		t.Errorf("mermaid = %q", src)
	}
}

func TestGenerateModuleDiagram(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate_module_diagram" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"mermaid_syntax": "graph TD\nM"})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{LocalURL: srv.URL})
	src, err := c.GenerateModuleDiagram(context.Background(),
		[]model.FileRecord{{Name: "m.py"}}, nil)
	if err != nil {
		t.Fatalf("GenerateModuleDiagram failed: %v", err)
	}
	if src != "graph TD\nM" {
		t.Errorf("mermaid = %q", src)
	}
}

// =============================================================================
// ERROR SUMMARY TESTS
// =============================================================================

func TestSummarize(t *testing.T) {
	if got := Summarize(nil); got != "" {
		t.Errorf("Summarize(nil) = %q", got)
	}
	if got := Summarize(&TransportError{Cause: errors.New("dial tcp: refused")}); got != "Could not reach the backend. Is the server running?" {
		t.Errorf("transport summary = %q", got)
	}
	got := Summarize(&RemoteError{StatusCode: 503, Body: "overloaded"})
	if got != "The backend returned an error (status 503): overloaded" {
		t.Errorf("remote summary = %q", got)
	}
}
