// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard implements the Bubble Tea shell for codechat: a tabbed
// terminal dashboard over the chat, files, diagrams, and performance views.
//
// The shell owns no session state. Everything it displays comes from the
// session store and the chat/inventory controllers; key presses translate
// into controller calls, and asynchronous outcomes arrive as Bubble Tea
// messages.
package dashboard
