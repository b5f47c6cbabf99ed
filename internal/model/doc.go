// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript and
// the backend query contract.
//
// # Key Types
//
//   - ChatMessage: single transcript entry with role, content and lifecycle state
//   - Settings: tunable retrieval parameters sent with every ask
//   - QueryResponse / CodeChunk: server-defined answer payload, consumed verbatim
//   - FileRecord: one entry of the server-held codebase inventory
//   - Mode: selector for the primary or local backend
//
// # Usage
//
// Create an exchange pair (user question plus pending assistant slot):
//
//	user, placeholder := model.NewExchange("where is the parser entry point?")
//
// The pair shares a creation timestamp; the placeholder stays Pending until
// it is resolved or failed by the interaction controller.
package model
