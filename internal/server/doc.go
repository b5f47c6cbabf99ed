// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides a read-only HTTP API over the running session.
//
// Endpoints:
//   - GET /health            - liveness plus backend reachability
//   - GET /api/v1/transcript - current transcript with mode and settings
//   - GET /api/v1/inventory  - uploaded file inventory and staleness
//   - GET /api/v1/stats      - aggregated exchange history
//   - GET /api/v1/export     - transcript export (markdown, ?format=json)
//
// The server is an inspection surface only; it never mutates session state.
// All mutation flows through the dashboard and CLI.
package server
