// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package thread

import (
	"encoding/json"
	"testing"

	"github.com/jeranaias/strand-tui/internal/model"
)

func msg(id string, t model.MessageType, agentID string) model.UnifiedMessage {
	return model.UnifiedMessage{ID: id, Type: t, AgentID: agentID, Content: `{"role":"x","content":"body"}`}
}

func TestUserAssistantUserYieldsThreeGroups(t *testing.T) {
	// [user, assistant, tool, assistant, user] with one agent identity
	// must collapse to exactly three groups.
	msgs := []model.UnifiedMessage{
		msg("m1", model.TypeUser, ""),
		msg("m2", model.TypeAssistant, "agent-1"),
		msg("m3", model.TypeTool, "agent-1"),
		msg("m4", model.TypeAssistant, "agent-1"),
		msg("m5", model.TypeUser, ""),
	}

	groups := GroupMessages(msgs, Overlay{})
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	if groups[0].Type != GroupUser || groups[2].Type != GroupUser {
		t.Errorf("outer groups should be user groups, got %v and %v", groups[0].Type, groups[2].Type)
	}
	if groups[1].Type != GroupAssistant {
		t.Errorf("middle group type = %v, want assistant", groups[1].Type)
	}
	if len(groups[1].Messages) != 3 {
		t.Errorf("assistant group holds %d messages, want 3", len(groups[1].Messages))
	}
}

func TestUserMessagesAreSingletons(t *testing.T) {
	msgs := []model.UnifiedMessage{
		msg("m1", model.TypeUser, ""),
		msg("m2", model.TypeUser, ""),
	}
	groups := GroupMessages(msgs, Overlay{})
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	for i, g := range groups {
		if len(g.Messages) != 1 {
			t.Errorf("group %d has %d messages, want 1", i, len(g.Messages))
		}
	}
}

func TestAgentIdentityChangeStartsNewGroup(t *testing.T) {
	msgs := []model.UnifiedMessage{
		msg("m1", model.TypeAssistant, "agent-1"),
		msg("m2", model.TypeAssistant, "agent-2"),
	}
	groups := GroupMessages(msgs, Overlay{})
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].AgentID != "agent-1" || groups[1].AgentID != "agent-2" {
		t.Errorf("agent IDs = %q, %q", groups[0].AgentID, groups[1].AgentID)
	}
}

func TestMissingAgentIDIsOneIdentity(t *testing.T) {
	msgs := []model.UnifiedMessage{
		msg("m1", model.TypeAssistant, ""),
		msg("m2", model.TypeAssistant, ""),
	}
	groups := GroupMessages(msgs, Overlay{})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
}

func TestStatusClosesButAdjacentSameAgentGroupsMerge(t *testing.T) {
	// A status message closes the open group, but the merge pass rejoins
	// the split halves since the agent identity never changed.
	msgs := []model.UnifiedMessage{
		msg("m1", model.TypeAssistant, "agent-1"),
		msg("m2", model.TypeStatus, ""),
		msg("m3", model.TypeAssistant, "agent-1"),
	}
	groups := GroupMessages(msgs, Overlay{})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 after merge", len(groups))
	}
	if len(groups[0].Messages) != 2 {
		t.Errorf("merged group holds %d messages, want 2", len(groups[0].Messages))
	}
}

func TestStatusContributesNoContent(t *testing.T) {
	msgs := []model.UnifiedMessage{
		msg("m1", model.TypeAssistant, "a"),
		msg("m2", model.TypeStatus, ""),
	}
	groups := GroupMessages(msgs, Overlay{})
	for _, g := range groups {
		for _, m := range g.Messages {
			if m.Type == model.TypeStatus {
				t.Fatal("status message leaked into a group")
			}
		}
	}
}

func TestUnknownTypeClosesAndIsDropped(t *testing.T) {
	msgs := []model.UnifiedMessage{
		msg("m1", model.TypeAssistant, "agent-1"),
		msg("m2", model.MessageType("mystery"), "agent-1"),
		msg("m3", model.TypeAssistant, "agent-2"),
	}
	groups := GroupMessages(msgs, Overlay{})
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	total := 0
	for _, g := range groups {
		total += len(g.Messages)
	}
	if total != 2 {
		t.Errorf("groups hold %d messages, want 2 (unknown type dropped)", total)
	}
}

func TestToolWithoutOpenGroupStartsOne(t *testing.T) {
	msgs := []model.UnifiedMessage{
		msg("m1", model.TypeTool, ""),
		msg("m2", model.TypeBrowserState, ""),
	}
	groups := GroupMessages(msgs, Overlay{})
	if len(groups) != 1 || groups[0].Type != GroupAssistant {
		t.Fatalf("got %+v, want one assistant group", groups)
	}
}

func TestOverlayExtendsTrailingAssistantGroup(t *testing.T) {
	msgs := []model.UnifiedMessage{
		msg("m1", model.TypeUser, ""),
		msg("m2", model.TypeAssistant, "agent-1"),
	}
	groups := GroupMessages(msgs, Overlay{StreamingText: "partial reply"})
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	last := groups[1].Messages[len(groups[1].Messages)-1]
	if last.ID != model.StreamingTextID {
		t.Errorf("trailing message ID = %q, want sentinel %q", last.ID, model.StreamingTextID)
	}
	if !last.IsSynthetic() {
		t.Error("overlay message should report synthetic")
	}
	if got := last.ParsedContent().Content; got != "partial reply" {
		t.Errorf("overlay content = %q", got)
	}
}

func TestOverlayAfterUserGroupStartsNewGroup(t *testing.T) {
	msgs := []model.UnifiedMessage{msg("m1", model.TypeUser, "")}
	groups := GroupMessages(msgs, Overlay{StreamingText: "thinking"})
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[1].Type != GroupAssistant {
		t.Errorf("overlay group type = %v, want assistant", groups[1].Type)
	}
}

func TestOverlayToolCallRoundTrips(t *testing.T) {
	tc := model.ToolCall{FunctionName: "execute-command", Arguments: json.RawMessage(`{"command":"ls"}`)}
	groups := GroupMessages(nil, Overlay{StreamingToolCall: &tc})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	m := groups[0].Messages[0]
	if m.ID != model.StreamingToolCallID {
		t.Errorf("ID = %q, want sentinel %q", m.ID, model.StreamingToolCallID)
	}
	calls := m.ParsedContent().ToolCalls
	if len(calls) != 1 || calls[0].FunctionName != "execute-command" {
		t.Fatalf("round-tripped tool calls = %+v", calls)
	}
}

func TestPlaybackOverlayUsesPlaybackSentinel(t *testing.T) {
	groups := GroupMessages(nil, Overlay{PlaybackText: "replayed", PlaybackStreaming: true})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Messages[0].ID != model.PlaybackStreamID {
		t.Errorf("ID = %q, want %q", groups[0].Messages[0].ID, model.PlaybackStreamID)
	}
}

func TestEmptyOverlayAddsNothing(t *testing.T) {
	groups := GroupMessages(nil, Overlay{})
	if len(groups) != 0 {
		t.Fatalf("got %d groups, want 0", len(groups))
	}
}

func TestIndexToolResults(t *testing.T) {
	tool := msg("t1", model.TypeTool, "")
	tool.Metadata = `{"assistant_message_id":"a1"}`
	orphan := msg("t2", model.TypeTool, "")
	orphan.Metadata = `{bad json`

	index := IndexToolResults([]model.UnifiedMessage{
		msg("a1", model.TypeAssistant, ""),
		tool,
		orphan,
	})
	if len(index["a1"]) != 1 || index["a1"][0].ID != "t1" {
		t.Errorf("index = %+v", index)
	}
	if len(index) != 1 {
		t.Errorf("orphan tool message should be skipped, index = %+v", index)
	}
}
