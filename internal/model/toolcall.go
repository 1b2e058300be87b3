// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for agent threads.
package model

import (
	"encoding/json"
)

// =============================================================================
// TOOL CALL
// =============================================================================

// ToolCall is a structured request the agent issued to invoke a capability.
// Arguments may arrive already parsed or as a raw JSON-encoded string; while
// the call is still streaming the raw form may be truncated mid-token.
type ToolCall struct {
	FunctionName string          `json:"function_name"`
	Arguments    json.RawMessage `json:"arguments,omitempty"`
	RawArguments string          `json:"raw_arguments,omitempty"`
	ID           string          `json:"tool_call_id,omitempty"`
}

// ArgString returns the best available textual form of the arguments:
// the raw streaming string when present, otherwise the encoded mapping.
func (tc *ToolCall) ArgString() string {
	if tc == nil {
		return ""
	}
	if tc.RawArguments != "" {
		return tc.RawArguments
	}
	return string(tc.Arguments)
}

// Args decodes the arguments into a map. Truncated or malformed JSON yields
// an empty map, never an error; streaming callers fall back to ArgString.
func (tc *ToolCall) Args() map[string]any {
	if tc == nil {
		return map[string]any{}
	}
	out := map[string]any{}
	if len(tc.Arguments) > 0 {
		if err := json.Unmarshal(tc.Arguments, &out); err == nil {
			return out
		}
	}
	if tc.RawArguments != "" {
		if err := json.Unmarshal([]byte(tc.RawArguments), &out); err != nil {
			return map[string]any{}
		}
	}
	return out
}

// StringArg returns the named argument as a string, or "" when absent or
// not a string.
func (tc *ToolCall) StringArg(name string) string {
	v, _ := tc.Args()[name].(string)
	return v
}

// PathArg returns the first path-like argument found on the call. Tool
// families disagree on the field name, so the common spellings are probed
// in order.
func (tc *ToolCall) PathArg() string {
	for _, key := range []string{"file_path", "target_file", "path", "canvas_path"} {
		if v := tc.StringArg(key); v != "" {
			return v
		}
	}
	return ""
}

// =============================================================================
// TOOL RESULT
// =============================================================================

// ToolResult is the outcome of an executed tool call. Output is a
// discriminated shape: a plain string, a JSON-encoded string, or a
// structured object depending on the tool family.
type ToolResult struct {
	Success *bool           `json:"success,omitempty"`
	Output  json.RawMessage `json:"output,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Succeeded reports whether the result indicates success. An absent success
// flag with no error counts as success, matching the platform's envelope.
func (tr *ToolResult) Succeeded() bool {
	if tr == nil {
		return false
	}
	if tr.Success != nil {
		return *tr.Success
	}
	return tr.Error == ""
}

// OutputString returns the output as text. A JSON string is unquoted, any
// other JSON value is returned in its encoded form, and malformed bytes are
// returned verbatim.
func (tr *ToolResult) OutputString() string {
	if tr == nil || len(tr.Output) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(tr.Output, &s); err == nil {
		return s
	}
	return string(tr.Output)
}

// OutputMap attempts to decode the output as an object, following the
// attempted-parse-then-fallback contract: a JSON object decodes directly, a
// JSON string holding an object is unwrapped first, and anything else
// yields ok=false.
func (tr *ToolResult) OutputMap() (map[string]any, bool) {
	if tr == nil || len(tr.Output) == 0 {
		return nil, false
	}
	out := map[string]any{}
	if err := json.Unmarshal(tr.Output, &out); err == nil {
		return out, true
	}
	var s string
	if err := json.Unmarshal(tr.Output, &s); err == nil {
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return out, true
		}
	}
	return nil, false
}
