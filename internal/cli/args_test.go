// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestArgParser_LongFlags(t *testing.T) {
	p := NewArgParser([]string{"--temp", "0.5", "--filter=code", "--json"})

	if got := p.Flag("temp"); got != "0.5" {
		t.Errorf("Flag(temp) = %q", got)
	}
	if got := p.Flag("filter"); got != "code" {
		t.Errorf("Flag(filter) = %q", got)
	}
	if !p.BoolFlag("json") {
		t.Error("trailing value-less flag should be boolean")
	}
}

func TestArgParser_TypedFlags(t *testing.T) {
	p := NewArgParser([]string{"--temp", "0.9", "--top-k", "8", "--bad", "xyz"})

	if got := p.FloatFlag("temp", 0.2); got != 0.9 {
		t.Errorf("FloatFlag = %g", got)
	}
	if got := p.IntFlag("top-k", 5); got != 8 {
		t.Errorf("IntFlag = %d", got)
	}
	// Malformed values fall back to the default.
	if got := p.IntFlag("bad", 42); got != 42 {
		t.Errorf("malformed int should use default, got %d", got)
	}
	if got := p.FloatFlag("missing", 1.5); got != 1.5 {
		t.Errorf("missing float should use default, got %g", got)
	}
}

func TestArgParser_ExplicitBoolValues(t *testing.T) {
	p := NewArgParser([]string{"--verbose=true", "--quiet=false"})

	if !p.BoolFlag("verbose") {
		t.Error("--verbose=true should be set")
	}
	if p.BoolFlag("quiet") {
		t.Error("--quiet=false should be unset")
	}
}

func TestArgParser_SubcommandAndPositional(t *testing.T) {
	p := NewArgParser([]string{"upload", "/repo/src", "--yes"})

	if p.Subcommand() != "upload" {
		t.Errorf("Subcommand = %q", p.Subcommand())
	}
	rest := p.PositionalAfterSubcommand()
	if len(rest) != 1 || rest[0] != "/repo/src" {
		t.Errorf("PositionalAfterSubcommand = %v", rest)
	}
	if !p.BoolFlag("yes", "y") {
		t.Error("--yes should register under either alias")
	}
}

func TestArgParser_FlagOrDefault(t *testing.T) {
	p := NewArgParser([]string{"--filter", "class"})
	if got := p.FlagOrDefault("filter", "none"); got != "class" {
		t.Errorf("FlagOrDefault = %q", got)
	}
	if got := p.FlagOrDefault("missing", "none"); got != "none" {
		t.Errorf("FlagOrDefault for missing flag = %q", got)
	}
}
