// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract pulls the user-meaningful fragment out of an in-flight
// tool call's argument blob for live preview.
package extract

import (
	"strings"
	"testing"
)

func TestExtractWellFormed(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		family    Family
		plain     string
		annotated string
	}{
		{
			name:      "command",
			raw:       `{"command":"ls -la","session_name":"main"}`,
			family:    FamilyCommand,
			plain:     "ls -la",
			annotated: "**Command:** ls -la",
		},
		{
			name:      "browser url",
			raw:       `{"url":"https://example.com"}`,
			family:    FamilyBrowser,
			plain:     "https://example.com",
			annotated: "**URL:** https://example.com",
		},
		{
			name:      "browser instruction wins over url",
			raw:       `{"url":"https://example.com","instruction":"click Login"}`,
			family:    FamilyBrowser,
			plain:     "click Login",
			annotated: "**Action:** click Login",
		},
		{
			name:      "search query",
			raw:       `{"query":"golang generics"}`,
			family:    FamilySearch,
			plain:     "golang generics",
			annotated: "**Query:** golang generics",
		},
		{
			name:      "file contents unlabeled",
			raw:       `{"file_path":"a.txt","file_contents":"hello world"}`,
			family:    FamilyFile,
			plain:     "hello world",
			annotated: "hello world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.raw, tt.family)
			if got.Plain != tt.plain {
				t.Errorf("Plain = %q, want %q", got.Plain, tt.plain)
			}
			if got.Annotated != tt.annotated {
				t.Errorf("Annotated = %q, want %q", got.Annotated, tt.annotated)
			}
		})
	}
}

// A truncated prefix of a well-formed document that still contains the
// field's key/value sequence must recover the same value via the regex
// fallback path.
func TestExtractTruncatedMatchesWellFormed(t *testing.T) {
	full := `{"command":"go test ./...","blocking":true}`
	want := Extract(full, FamilyCommand).Plain

	// Cut after the field value but before the closing brace.
	truncated := full[:strings.Index(full, `","blocking`)+1]
	got := Extract(truncated, FamilyCommand).Plain

	if got != want {
		t.Errorf("truncated extraction = %q, well-formed = %q", got, want)
	}
}

func TestExtractPartialNumericField(t *testing.T) {
	got := Extract(`{"session_name":"main","seconds": 30`, FamilyCommand)
	// session_name is complete, so it wins over the numeric field.
	if got.Plain != "main" {
		t.Errorf("Plain = %q, want %q", got.Plain, "main")
	}

	got = Extract(`{"seconds": 30`, FamilyCommand)
	if got.Plain != "30" {
		t.Errorf("Plain = %q, want %q", got.Plain, "30")
	}
	if got.Annotated != "**Waiting:** 30" {
		t.Errorf("Annotated = %q", got.Annotated)
	}
}

func TestExtractGrowingFileContents(t *testing.T) {
	// Mid-stream file write: contents still growing, no closing quote yet.
	raw := `{"file_path":"notes.md","file_contents":"# Title\n\nFirst paragraph`
	got := Extract(raw, FamilyFile)

	if got.Plain != "# Title\n\nFirst paragraph" {
		t.Errorf("Plain = %q", got.Plain)
	}
}

func TestExtractEscapesInPartialCapture(t *testing.T) {
	raw := `{"command":"echo \"hi\" && ls`
	got := Extract(raw, FamilyCommand)

	if got.Plain != `echo "hi" && ls` {
		t.Errorf("Plain = %q", got.Plain)
	}
}

func TestExtractLastResortReturnsInput(t *testing.T) {
	raw := "plain text, not json at all"
	got := Extract(raw, FamilyCommand)

	if got.Plain != raw || got.Annotated != raw {
		t.Errorf("last resort must return input unchanged, got %+v", got)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	if got := Extract("", FamilyGeneric); got != (Fragment{}) {
		t.Errorf("empty input should yield empty fragment, got %+v", got)
	}
}

// Extraction must be idempotent: re-invocation on every render pass is the
// expected calling pattern.
func TestExtractIdempotent(t *testing.T) {
	raw := `{"command":"make bu`
	first := Extract(raw, FamilyCommand)
	for range 5 {
		if got := Extract(raw, FamilyCommand); got != first {
			t.Fatalf("extraction not stable: %+v vs %+v", got, first)
		}
	}
}

func TestFamilyFor(t *testing.T) {
	tests := []struct {
		key  string
		want Family
	}{
		{"execute-command", FamilyCommand},
		{"create-file", FamilyFile},
		{"browser-act", FamilyBrowser},
		{"web-search", FamilySearch},
		{"never-heard-of-it", FamilyGeneric},
		{"", FamilyGeneric},
	}

	for _, tt := range tests {
		if got := FamilyFor(tt.key); got != tt.want {
			t.Errorf("FamilyFor(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
