// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for agent threads.
package model

import (
	"encoding/json"
	"time"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// MessageType identifies the kind of a unified message.
type MessageType string

const (
	TypeUser         MessageType = "user"
	TypeAssistant    MessageType = "assistant"
	TypeTool         MessageType = "tool"
	TypeBrowserState MessageType = "browser_state"
	TypeStatus       MessageType = "status"
)

// Reserved message IDs for synthetic streaming overlays. The grouping
// pipeline appends these to the trailing assistant group while content is
// still being delivered; they must never collide with persisted IDs.
const (
	StreamingTextID     = "streamingTextContent"
	StreamingToolCallID = "streamingToolCall"
	PlaybackStreamID    = "playbackStreamingText"
)

// =============================================================================
// UNIFIED MESSAGE
// =============================================================================

// UnifiedMessage is a single entry in a thread as delivered by the platform.
// Content and Metadata are JSON-encoded strings; use ParsedContent and
// ParsedMetadata rather than decoding them directly.
type UnifiedMessage struct {
	ID        string      `json:"message_id"`
	ThreadID  string      `json:"thread_id,omitempty"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	Metadata  string      `json:"metadata,omitempty"`
	AgentID   string      `json:"agent_id,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	Sequence  int64       `json:"sequence"`
}

// MessageContent is the structural fallback shape for message content.
// Well-formed payloads decode into it directly; malformed payloads land in
// Content as the raw string.
type MessageContent struct {
	Role      string     `json:"role,omitempty"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// MessageMetadata carries auxiliary fields recorded alongside a message.
// AssistantMessageID links a tool message back to the assistant message
// whose tool call produced it.
type MessageMetadata struct {
	AssistantMessageID string `json:"assistant_message_id,omitempty"`
	ToolCallID         string `json:"tool_call_id,omitempty"`
	ParsingDetails     string `json:"parsing_details,omitempty"`
}

// ParsedContent decodes the message content. Malformed JSON never escapes:
// the raw string is wrapped as plain content instead.
func (m *UnifiedMessage) ParsedContent() MessageContent {
	var mc MessageContent
	if err := json.Unmarshal([]byte(m.Content), &mc); err != nil {
		return MessageContent{Content: m.Content}
	}
	// A bare JSON string ("hello") decodes to the zero struct; treat it as
	// plain content too.
	if mc.Content == "" && mc.Role == "" && len(mc.ToolCalls) == 0 {
		var s string
		if err := json.Unmarshal([]byte(m.Content), &s); err == nil {
			return MessageContent{Content: s}
		}
	}
	return mc
}

// ParsedMetadata decodes the message metadata, returning the zero value on
// malformed or empty input.
func (m *UnifiedMessage) ParsedMetadata() MessageMetadata {
	var md MessageMetadata
	if m.Metadata == "" {
		return md
	}
	if err := json.Unmarshal([]byte(m.Metadata), &md); err != nil {
		return MessageMetadata{}
	}
	return md
}

// ParsedToolResult decodes a tool message's content as a tool result.
// Content that is not a result envelope is wrapped as plain output so the
// card still renders something.
func (m *UnifiedMessage) ParsedToolResult() *ToolResult {
	var tr ToolResult
	if err := json.Unmarshal([]byte(m.Content), &tr); err == nil {
		if tr.Success != nil || len(tr.Output) > 0 || tr.Error != "" {
			return &tr
		}
	}
	encoded, err := json.Marshal(m.Content)
	if err != nil {
		return &ToolResult{}
	}
	return &ToolResult{Output: json.RawMessage(encoded)}
}

// IsSynthetic reports whether the message carries a reserved streaming
// overlay ID rather than a persisted one.
func (m *UnifiedMessage) IsSynthetic() bool {
	switch m.ID {
	case StreamingTextID, StreamingToolCallID, PlaybackStreamID:
		return true
	}
	return false
}
