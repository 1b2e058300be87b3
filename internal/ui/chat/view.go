// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/strand-tui/internal/model"
	"github.com/jeranaias/strand-tui/internal/thread"
	"github.com/jeranaias/strand-tui/internal/toolview"
	"github.com/jeranaias/strand-tui/internal/ui/styles"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full thread view.
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string

	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		sections = append(sections, m.header.ViewCompact())
	} else {
		sections = append(sections, m.header.View())
	}

	sections = append(sections, m.viewport.View())

	if m.spinner.IsActive() {
		sections = append(sections, " "+m.spinner.View())
	}

	if m.lastError != nil {
		sections = append(sections, m.renderError())
	}

	if m.state != StatePlayback {
		sections = append(sections, m.theme.InputContainer.Width(m.width-2).Render(m.input.View()))
	}

	sections = append(sections, m.statusBar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderError() string {
	title := m.theme.ErrorTitle.Render(m.lastError.Title)
	body := m.theme.ErrorMessage.Render(m.lastError.Message)
	hint := m.theme.ThinkingTime.Render("esc to dismiss")
	return m.theme.ErrorBox.Width(m.contentWidth()).Render(
		title + "\n" + body + "\n" + hint,
	)
}

// =============================================================================
// GROUP RENDERING
// =============================================================================

// renderGroups turns the grouped thread into viewport content. results maps
// assistant message IDs to the tool messages their calls produced.
func (m *Model) renderGroups(groups []thread.Group, results map[string][]model.UnifiedMessage) string {
	var blocks []string
	for _, g := range groups {
		switch g.Type {
		case thread.GroupUser:
			blocks = append(blocks, m.renderUserGroup(g))
		case thread.GroupAssistant:
			blocks = append(blocks, m.renderAssistantGroup(g, results))
		}
	}
	if live := m.renderActiveCalls(); live != "" {
		blocks = append(blocks, live)
	}
	return strings.Join(blocks, "\n\n")
}

// renderUserGroup draws the single user message right-aligned.
func (m *Model) renderUserGroup(g thread.Group) string {
	if len(g.Messages) == 0 {
		return ""
	}
	text := g.Messages[0].ParsedContent().Content
	bubbleWidth := m.contentWidth() * 2 / 3
	if bubbleWidth < 16 {
		bubbleWidth = 16
	}
	bubble := m.theme.UserBubble.MaxWidth(bubbleWidth).Render(text)
	return lipgloss.PlaceHorizontal(m.contentWidth(), lipgloss.Right, bubble)
}

// renderAssistantGroup draws one maximal run of assistant activity: text
// paragraphs interleaved with tool cards, under a single agent label.
func (m *Model) renderAssistantGroup(g thread.Group, results map[string][]model.UnifiedMessage) string {
	var parts []string
	if g.AgentID != "" {
		parts = append(parts, m.theme.AgentLabel.Render(g.AgentID))
	}

	for _, msg := range g.Messages {
		switch msg.Type {
		case model.TypeAssistant:
			parts = append(parts, m.renderAssistantMessage(msg, results)...)
		case model.TypeBrowserState:
			parts = append(parts, m.renderBrowserState(msg))
		case model.TypeTool:
			// Tool messages render attached to the assistant message that
			// issued the call; orphans (no assistant link) fall through to
			// a bare card so nothing silently disappears.
			if msg.ParsedMetadata().AssistantMessageID == "" {
				parts = append(parts, m.renderToolCard(nil, &msg, false))
			}
		}
	}

	block := strings.Join(compactBlank(parts), "\n")
	return m.theme.AssistantGroup.Width(m.contentWidth()).Render(block)
}

// renderAssistantMessage draws the message text plus a card per tool call.
func (m *Model) renderAssistantMessage(msg model.UnifiedMessage, results map[string][]model.UnifiedMessage) []string {
	mc := msg.ParsedContent()
	var parts []string

	if mc.Content != "" {
		parts = append(parts, m.renderMarkdown(mc.Content))
	}

	streaming := msg.ID == model.StreamingToolCallID
	for i := range mc.ToolCalls {
		tc := &mc.ToolCalls[i]
		toolMsg := matchToolMessage(results[msg.ID], tc.ID)
		parts = append(parts, m.renderToolCard(tc, toolMsg, streaming))
	}
	return parts
}

// renderToolCard resolves the (call, result) pair through the reclassifier
// and renders the resulting view.
func (m *Model) renderToolCard(tc *model.ToolCall, toolMsg *model.UnifiedMessage, streaming bool) string {
	props := toolview.Props{
		ToolCall:    tc,
		IsStreaming: streaming,
		Width:       m.contentWidth(),
	}

	// An in-flight call has no result yet; it stays nil so downstream
	// consumers (notably the canvas refresh gate) can tell "no result" apart
	// from "succeeded with an empty envelope".
	var result *model.ToolResult
	if toolMsg != nil {
		result = toolMsg.ParsedToolResult()
		props.ToolTimestamp = toolMsg.CreatedAt
	}
	props.IsSuccess = result.Succeeded()

	var view toolview.View
	if m.reclassifier != nil {
		view, props.ToolResult = m.reclassifier.Resolve(tc, result)
	} else if m.registry != nil && tc != nil {
		view = m.registry.Get(tc.FunctionName)
		props.ToolResult = result
	} else {
		return ""
	}

	card := view(props)
	if props.IsSuccess || streaming || toolMsg == nil {
		return m.theme.ToolSuccess.Render(card)
	}
	return m.theme.ToolError.Render(card)
}

// renderBrowserState draws a page-state update as a muted one-liner.
func (m *Model) renderBrowserState(msg model.UnifiedMessage) string {
	text := msg.ParsedContent().Content
	if text == "" {
		return ""
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return m.theme.ThinkingText.Render("browser: " + text)
}

// renderMarkdown renders assistant text through glamour, degrading to the
// raw string when the renderer is unavailable or errors.
func (m *Model) renderMarkdown(text string) string {
	if m.markdown == nil {
		return text
	}
	out, err := m.markdown.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// renderActiveCalls draws a status line per call still in flight, ordered
// by call ID so lines do not shuffle between renders.
func (m *Model) renderActiveCalls() string {
	ids := make([]string, 0, len(m.callStates))
	for id := range m.callStates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var lines []string
	for _, id := range ids {
		st := m.callStates[id]
		if st.Terminal() {
			continue
		}
		line := "call " + st.CallID + ": " + st.Status
		if st.Transcript != "" {
			line += "\n" + lastLine(st.Transcript)
		}
		lines = append(lines, m.theme.InfoStyle.Render(line))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// HELPERS
// =============================================================================

// matchToolMessage finds the tool message for a call ID among the messages
// an assistant turn produced. A single unmatched candidate is accepted so
// platforms that omit tool_call_id still render.
func matchToolMessage(candidates []model.UnifiedMessage, toolCallID string) *model.UnifiedMessage {
	for i := range candidates {
		if candidates[i].ParsedMetadata().ToolCallID == toolCallID {
			return &candidates[i]
		}
	}
	if toolCallID == "" && len(candidates) == 1 {
		return &candidates[0]
	}
	return nil
}

func compactBlank(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
