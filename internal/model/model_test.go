// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for agent threads.
package model

import (
	"encoding/json"
	"testing"
)

// =============================================================================
// UNIFIED MESSAGE TESTS
// =============================================================================

func TestParsedContentWellFormed(t *testing.T) {
	m := UnifiedMessage{Content: `{"role":"assistant","content":"hello"}`}

	mc := m.ParsedContent()
	if mc.Role != "assistant" {
		t.Errorf("Role = %q, want %q", mc.Role, "assistant")
	}
	if mc.Content != "hello" {
		t.Errorf("Content = %q, want %q", mc.Content, "hello")
	}
}

func TestParsedContentMalformedFallsBack(t *testing.T) {
	raw := `{"role":"assistant","content":"trunca`
	m := UnifiedMessage{Content: raw}

	mc := m.ParsedContent()
	if mc.Content != raw {
		t.Errorf("malformed content should fall back to raw string, got %q", mc.Content)
	}
}

func TestParsedContentBareString(t *testing.T) {
	m := UnifiedMessage{Content: `"just text"`}

	mc := m.ParsedContent()
	if mc.Content != "just text" {
		t.Errorf("Content = %q, want %q", mc.Content, "just text")
	}
}

func TestParsedMetadata(t *testing.T) {
	m := UnifiedMessage{Metadata: `{"assistant_message_id":"abc123"}`}
	if got := m.ParsedMetadata().AssistantMessageID; got != "abc123" {
		t.Errorf("AssistantMessageID = %q, want %q", got, "abc123")
	}

	// Malformed metadata must not panic and must return the zero value.
	m = UnifiedMessage{Metadata: `{"assistant_message_id": tru`}
	if got := m.ParsedMetadata(); got != (MessageMetadata{}) {
		t.Errorf("malformed metadata should yield zero value, got %+v", got)
	}

	m = UnifiedMessage{}
	if got := m.ParsedMetadata(); got != (MessageMetadata{}) {
		t.Errorf("empty metadata should yield zero value, got %+v", got)
	}
}

func TestIsSynthetic(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{StreamingTextID, true},
		{StreamingToolCallID, true},
		{PlaybackStreamID, true},
		{"msg_0001", false},
		{"", false},
	}

	for _, tt := range tests {
		m := UnifiedMessage{ID: tt.id}
		if got := m.IsSynthetic(); got != tt.want {
			t.Errorf("IsSynthetic(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

// =============================================================================
// TOOL CALL TESTS
// =============================================================================

func TestToolCallArgs(t *testing.T) {
	tc := &ToolCall{
		FunctionName: "read_file",
		Arguments:    json.RawMessage(`{"file_path":"src/main.go","limit":100}`),
	}

	args := tc.Args()
	if args["file_path"] != "src/main.go" {
		t.Errorf("file_path = %v, want src/main.go", args["file_path"])
	}
	if tc.StringArg("file_path") != "src/main.go" {
		t.Errorf("StringArg(file_path) = %q", tc.StringArg("file_path"))
	}
	if tc.PathArg() != "src/main.go" {
		t.Errorf("PathArg() = %q", tc.PathArg())
	}
}

func TestToolCallArgsFromRawString(t *testing.T) {
	tc := &ToolCall{
		FunctionName: "execute_command",
		RawArguments: `{"command":"ls -la"}`,
	}

	if tc.StringArg("command") != "ls -la" {
		t.Errorf("StringArg(command) = %q, want %q", tc.StringArg("command"), "ls -la")
	}
}

func TestToolCallTruncatedArgsDoNotError(t *testing.T) {
	tc := &ToolCall{
		FunctionName: "create_file",
		RawArguments: `{"file_path":"a.txt","file_contents":"partial con`,
	}

	if got := tc.Args(); len(got) != 0 {
		t.Errorf("truncated args should decode to empty map, got %v", got)
	}
	if tc.ArgString() == "" {
		t.Error("ArgString should preserve the raw streaming payload")
	}
}

func TestNilToolCallAccessors(t *testing.T) {
	var tc *ToolCall
	if tc.ArgString() != "" || len(tc.Args()) != 0 || tc.PathArg() != "" {
		t.Error("nil tool call accessors must degrade to zero values")
	}
}

// =============================================================================
// TOOL RESULT TESTS
// =============================================================================

func TestToolResultSucceeded(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name string
		tr   *ToolResult
		want bool
	}{
		{"nil", nil, false},
		{"explicit success", &ToolResult{Success: &yes}, true},
		{"explicit failure", &ToolResult{Success: &no}, false},
		{"implicit success", &ToolResult{}, true},
		{"implicit failure via error", &ToolResult{Error: "boom"}, false},
	}

	for _, tt := range tests {
		if got := tt.tr.Succeeded(); got != tt.want {
			t.Errorf("%s: Succeeded() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestToolResultOutputShapes(t *testing.T) {
	// Plain JSON string output.
	tr := &ToolResult{Output: json.RawMessage(`"file written"`)}
	if tr.OutputString() != "file written" {
		t.Errorf("OutputString = %q", tr.OutputString())
	}

	// Structured object output.
	tr = &ToolResult{Output: json.RawMessage(`{"url":"https://example.com"}`)}
	m, ok := tr.OutputMap()
	if !ok || m["url"] != "https://example.com" {
		t.Errorf("OutputMap = %v, %v", m, ok)
	}

	// JSON-encoded string holding an object: unwrap then decode.
	tr = &ToolResult{Output: json.RawMessage(`"{\"slide_number\":3}"`)}
	m, ok = tr.OutputMap()
	if !ok || m["slide_number"] != float64(3) {
		t.Errorf("nested OutputMap = %v, %v", m, ok)
	}

	// Truncated JSON must not panic and must report ok=false.
	tr = &ToolResult{Output: json.RawMessage(`{"results": [`)}
	if _, ok := tr.OutputMap(); ok {
		t.Error("truncated output should not decode")
	}
	if tr.OutputString() != `{"results": [` {
		t.Errorf("OutputString should fall back to raw bytes, got %q", tr.OutputString())
	}
}
