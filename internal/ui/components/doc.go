// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the codechat
// dashboard: status bar, tab strip, file table, code blocks with chroma
// syntax highlighting, and retrieved-source rendering.
//
// Components are pure renderers. They hold display state only; all session
// state lives in the store and controllers.
package components
