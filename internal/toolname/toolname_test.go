// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolname maps raw tool identifiers to canonical dispatch keys.
package toolname

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"read_file", "read-file"},
		{"read-file", "read-file"},
		{"Read_File", "read-file"},
		{"  web_search ", "web-search"},
		{"browser_navigate_to", "browser-navigate-to"},
		{"", ""},
		{"ask", "ask"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

// Underscore and hyphen spellings of any identifier must land on the same
// canonical key; this is the wire contract with the platform.
func TestNormalizeSeparatorEquivalence(t *testing.T) {
	names := []string{
		"execute_command", "create_file", "make_phone_call",
		"some_brand_new_tool", "mixed-separator_name",
	}

	for _, name := range names {
		hyphenated := strings.ReplaceAll(name, "_", "-")
		if Normalize(name) != Normalize(hyphenated) {
			t.Errorf("Normalize(%q) != Normalize(%q)", name, hyphenated)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"read_file", "Read File"},
		{"full-file-rewrite", "Rewrite File"},
		{"make_phone_call", "Phone Call"},
		{"some_new_tool", "Some New Tool"}, // generated fallback
		{"mcp-github-list-issues", "Github List Issues"},
		{"sb_expose_port", "Expose Port"},
		{"", "Tool"},
	}

	for _, tt := range tests {
		if got := DisplayName(tt.raw); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
