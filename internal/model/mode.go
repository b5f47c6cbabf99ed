// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Mode selects which backend base address a request targets.
//
// The mode is a process-wide selector persisted independently of chat state.
// It is not part of any message and may change between any two requests
// without affecting already-resolved messages.
type Mode string

const (
	// ModePrimary targets the main REST service: file inventory plus the
	// primary retrieval flavor.
	ModePrimary Mode = "primary"

	// ModeLocal targets the local model service: the alternate retrieval
	// flavor plus diagram generation.
	ModeLocal Mode = "local"
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModePrimary || m == ModeLocal
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModePrimary {
		return ModeLocal
	}
	return ModePrimary
}

// ParseMode returns the mode named by s, or ModePrimary for anything
// unrecognized (missing or malformed persisted state must not fail).
func ParseMode(s string) Mode {
	if Mode(s) == ModeLocal {
		return ModeLocal
	}
	return ModePrimary
}
