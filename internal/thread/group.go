// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package thread turns a flat ordered message list into renderable groups.
//
// A thread renders as alternating user messages and "assistant groups": a
// maximal run of consecutive assistant/tool/browser-state messages from one
// agent, drawn as a single visual block. Groups are rebuilt from scratch on
// every message-list change; they carry no identity across rebuilds beyond
// a key derived from their first message ID.
package thread

import (
	"encoding/json"

	"github.com/jeranaias/strand-tui/internal/model"
)

// =============================================================================
// GROUP TYPES
// =============================================================================

// GroupType discriminates the two kinds of render groups.
type GroupType string

const (
	GroupUser      GroupType = "user"
	GroupAssistant GroupType = "assistant_group"
)

// Group is one visual block of the thread. A user group always holds
// exactly one message; an assistant group holds one or more consecutive
// assistant/tool/browser-state messages from the same agent.
type Group struct {
	Type     GroupType
	Messages []model.UnifiedMessage
	Key      string
	AgentID  string
}

// Overlay carries live streaming state to interleave into the last group.
// Zero value means nothing is streaming.
type Overlay struct {
	// Live mode: assistant text and/or a tool call still being delivered.
	StreamingText     string
	StreamingToolCall *model.ToolCall

	// Playback mode: replayed text plus an explicit streaming flag, since
	// replay can pause with text present but not growing.
	PlaybackText      string
	PlaybackStreaming bool
}

func (o Overlay) empty() bool {
	return o.StreamingText == "" && o.StreamingToolCall == nil &&
		o.PlaybackText == "" && !o.PlaybackStreaming
}

// =============================================================================
// GROUPING PIPELINE
// =============================================================================

// GroupMessages builds render groups from msgs in arrival order, then
// interleaves the streaming overlay. Malformed message payloads never
// propagate: content parsing happens lazily at render time through the safe
// accessors on model.UnifiedMessage.
func GroupMessages(msgs []model.UnifiedMessage, overlay Overlay) []Group {
	groups := mergeAdjacent(buildGroups(msgs))
	return appendOverlay(groups, overlay)
}

// buildGroups is the single forward pass. User messages each form a
// singleton group and close any open assistant group. Assistant, tool, and
// browser-state messages extend the open assistant group; an assistant
// message with a different agent identity starts a new one. Status messages
// close the open group without contributing content, and unknown types
// close it and are dropped.
func buildGroups(msgs []model.UnifiedMessage) []Group {
	var groups []Group
	var open *Group

	flush := func() {
		if open != nil {
			groups = append(groups, *open)
			open = nil
		}
	}

	for _, m := range msgs {
		switch m.Type {
		case model.TypeUser:
			flush()
			groups = append(groups, Group{
				Type:     GroupUser,
				Messages: []model.UnifiedMessage{m},
				Key:      groupKey(m),
			})

		case model.TypeAssistant:
			// Agent identity decides whether this extends the open run.
			// Missing agent IDs all map to one default identity.
			if open != nil && open.AgentID != m.AgentID {
				flush()
			}
			if open == nil {
				open = &Group{Type: GroupAssistant, Key: groupKey(m), AgentID: m.AgentID}
			}
			open.Messages = append(open.Messages, m)

		case model.TypeTool, model.TypeBrowserState:
			if open == nil {
				open = &Group{Type: GroupAssistant, Key: groupKey(m), AgentID: m.AgentID}
			}
			open.Messages = append(open.Messages, m)

		case model.TypeStatus:
			flush()

		default:
			flush()
		}
	}
	flush()
	return groups
}

// mergeAdjacent rejoins assistant groups that a closing condition split.
// After this pass the only reasons two assistant groups stay separate are
// an intervening user message or a genuine agent-identity change.
func mergeAdjacent(groups []Group) []Group {
	if len(groups) < 2 {
		return groups
	}
	merged := groups[:0]
	for _, g := range groups {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if last.Type == GroupAssistant && g.Type == GroupAssistant && last.AgentID == g.AgentID {
				last.Messages = append(last.Messages, g.Messages...)
				continue
			}
		}
		merged = append(merged, g)
	}
	return merged
}

// appendOverlay interleaves live streaming content as synthetic assistant
// messages carrying reserved sentinel IDs, so re-renders never duplicate
// them against persisted messages.
func appendOverlay(groups []Group, overlay Overlay) []Group {
	if overlay.empty() {
		return groups
	}

	var synthetic []model.UnifiedMessage
	if overlay.StreamingText != "" {
		synthetic = append(synthetic, syntheticText(model.StreamingTextID, overlay.StreamingText))
	}
	if overlay.PlaybackText != "" || overlay.PlaybackStreaming {
		synthetic = append(synthetic, syntheticText(model.PlaybackStreamID, overlay.PlaybackText))
	}
	if overlay.StreamingToolCall != nil {
		synthetic = append(synthetic, syntheticToolCall(*overlay.StreamingToolCall))
	}
	if len(synthetic) == 0 {
		return groups
	}

	if n := len(groups); n > 0 && groups[n-1].Type == GroupAssistant {
		groups[n-1].Messages = append(groups[n-1].Messages, synthetic...)
		return groups
	}
	return append(groups, Group{
		Type:     GroupAssistant,
		Messages: synthetic,
		Key:      "group-" + synthetic[0].ID,
	})
}

// syntheticText builds the overlay message for streaming assistant text.
func syntheticText(id, text string) model.UnifiedMessage {
	content, err := json.Marshal(model.MessageContent{Role: "assistant", Content: text})
	if err != nil {
		content = []byte(text)
	}
	return model.UnifiedMessage{
		ID:      id,
		Type:    model.TypeAssistant,
		Content: string(content),
	}
}

// syntheticToolCall builds the overlay message for an in-flight tool call.
func syntheticToolCall(tc model.ToolCall) model.UnifiedMessage {
	content, err := json.Marshal(model.MessageContent{
		Role:      "assistant",
		ToolCalls: []model.ToolCall{tc},
	})
	if err != nil {
		content = []byte("{}")
	}
	return model.UnifiedMessage{
		ID:      model.StreamingToolCallID,
		Type:    model.TypeAssistant,
		Content: string(content),
	}
}

// groupKey derives the rebuild-stable key for a group from its first
// message.
func groupKey(m model.UnifiedMessage) string {
	return "group-" + m.ID
}

// =============================================================================
// TOOL RESULT ASSOCIATION
// =============================================================================

// IndexToolResults maps assistant message IDs to the tool messages they
// produced, using the assistant_message_id recorded in each tool message's
// metadata. Tool messages with unparsable or absent metadata are skipped,
// never fatal.
func IndexToolResults(msgs []model.UnifiedMessage) map[string][]model.UnifiedMessage {
	index := make(map[string][]model.UnifiedMessage)
	for _, m := range msgs {
		if m.Type != model.TypeTool {
			continue
		}
		if id := m.ParsedMetadata().AssistantMessageID; id != "" {
			index[id] = append(index[id], m)
		}
	}
	return index
}
