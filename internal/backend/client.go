// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the two remote services:
// the primary RAG API and the local model API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/jeranaias/codechat-tui/internal/model"
)

// Default base addresses for the two services.
// Note: explicit IPv4 addresses avoid IPv6 resolution issues on Windows.
const (
	DefaultPrimaryURL = "http://127.0.0.1:8000"
	DefaultLocalURL   = "http://127.0.0.1:8001"

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// PrimaryURL is the base URL of the primary RAG service.
	PrimaryURL string

	// LocalURL is the base URL of the local model service.
	LocalURL string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		PrimaryURL: DefaultPrimaryURL,
		LocalURL:   DefaultLocalURL,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with both backend services. One method per
// remote capability; each resolves its base address purely from the mode
// argument at call time. The client owns no other state and is safe for
// concurrent use.
//
// There are no retries and no client-imposed timeout: the caller decides
// UI behavior on failure and controls deadlines through the context.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.PrimaryURL == "" {
		config.PrimaryURL = DefaultPrimaryURL
	}
	if config.LocalURL == "" {
		config.LocalURL = DefaultLocalURL
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{},
	}
}

// baseFor resolves the base address for a mode. No routing decision is
// cached between calls.
func (c *Client) baseFor(mode model.Mode) string {
	if mode == model.ModeLocal {
		return strings.TrimRight(c.config.LocalURL, "/")
	}
	return strings.TrimRight(c.config.PrimaryURL, "/")
}

// =============================================================================
// HEALTH
// =============================================================================

// CheckHealth verifies that the primary backend is reachable.
// Used only for the status indicator.
func (c *Client) CheckHealth(ctx context.Context) error {
	var ack messageResponse
	return c.getJSON(ctx, c.baseFor(model.ModePrimary)+"/health", &ack)
}

// =============================================================================
// FILE INVENTORY
// =============================================================================

// ListFiles returns the server-held codebase inventory, in server order.
func (c *Client) ListFiles(ctx context.Context) ([]model.FileRecord, error) {
	var files []model.FileRecord
	if err := c.getJSON(ctx, c.baseFor(model.ModePrimary)+"/list_codebase", &files); err != nil {
		return nil, err
	}
	return files, nil
}

// UploadFile sends a single file to the primary backend as multipart form
// data. Callers loop over this for multiple files.
func (c *Client) UploadFile(ctx context.Context, name string, content []byte) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return &TransportError{Cause: err}
	}
	if _, err := part.Write(content); err != nil {
		return &TransportError{Cause: err}
	}
	if err := mw.Close(); err != nil {
		return &TransportError{Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseFor(model.ModePrimary)+"/upload_codebase", &body)
	if err != nil {
		return &TransportError{Cause: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var ack messageResponse
	return c.do(req, &ack)
}

// ClearFiles asks the primary backend to discard its codebase.
func (c *Client) ClearFiles(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseFor(model.ModePrimary)+"/clear_codebase", nil)
	if err != nil {
		return &TransportError{Cause: err}
	}
	var ack messageResponse
	return c.do(req, &ack)
}

// =============================================================================
// ASK
// =============================================================================

// Ask sends a query to the backend selected by mode and returns the
// structured answer.
//
// The two services take different request schemas for the same operation:
// primary posts {"query": ...} to /ask/ while local posts {"question": ...}
// to /ask_model. Both asymmetric encodings are reproduced exactly.
func (c *Client) Ask(ctx context.Context, mode model.Mode, query string, settings model.Settings) (*model.QueryResponse, error) {
	var (
		url     string
		reqBody any
	)

	switch mode {
	case model.ModeLocal:
		url = c.baseFor(model.ModeLocal) + "/ask_model"
		reqBody = localAskRequest{
			Question:            query,
			Temperature:         settings.Temperature,
			TopK:                settings.TopK,
			SimilarityThreshold: settings.SimilarityThreshold,
		}
	default:
		url = c.baseFor(model.ModePrimary) + "/ask/"
		reqBody = primaryAskRequest{
			Query:               query,
			Temperature:         settings.Temperature,
			TopK:                settings.TopK,
			SimilarityThreshold: settings.SimilarityThreshold,
			FilterType:          settings.FilterType,
		}
	}

	var result model.QueryResponse
	if err := c.postJSON(ctx, url, reqBody, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// DIAGRAMS (local backend only)
// =============================================================================

// GenerateChunkDiagram asks the local backend for a Mermaid diagram of a
// single retrieved chunk.
func (c *Client) GenerateChunkDiagram(ctx context.Context, chunk model.CodeChunk) (string, error) {
	var result diagramResponse
	err := c.postJSON(ctx, c.baseFor(model.ModeLocal)+"/generate_chunk_diagram", chunkDiagramRequest{Chunk: chunk}, &result)
	if err != nil {
		return "", err
	}
	return result.MermaidSyntax, nil
}

// GenerateModuleDiagram asks the local backend for a Mermaid diagram of the
// module structure, built from the file inventory and optional retrieved
// context.
func (c *Client) GenerateModuleDiagram(ctx context.Context, files []model.FileRecord, retrieved []model.CodeChunk) (string, error) {
	var result diagramResponse
	err := c.postJSON(ctx, c.baseFor(model.ModeLocal)+"/generate_module_diagram", moduleDiagramRequest{
		Files:            files,
		RetrievedContext: retrieved,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.MermaidSyntax, nil
}

// =============================================================================
// HTTP PLUMBING
// =============================================================================

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &TransportError{Cause: err}
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &TransportError{Cause: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do executes the request and decodes a 2xx JSON body into out.
// Non-2xx responses are read as text and surfaced as RemoteError.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, MaxResponseSize)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(limited)
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(limited).Decode(out); err != nil {
		return &TransportError{Cause: err}
	}
	return nil
}
