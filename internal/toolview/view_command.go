// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

import (
	"strings"

	"github.com/jeranaias/strand-tui/internal/extract"
	"github.com/jeranaias/strand-tui/internal/toolname"
	"github.com/jeranaias/strand-tui/internal/util"
)

// CommandView renders shell command executions: the command line prefixed
// with "$", then a bounded slice of its output.
func CommandView(p Props) string {
	if p.ToolCall == nil {
		return ""
	}

	title := toolname.DisplayName(p.ToolCall.FunctionName)
	command := extractCommand(p)

	var body strings.Builder
	if command != "" {
		body.WriteString("$ " + command)
	}

	if p.ToolResult != nil {
		output := strings.TrimRight(p.ToolResult.OutputString(), "\n")
		if !p.IsSuccess && p.ToolResult.Error != "" {
			output = p.ToolResult.Error
		}
		if output != "" {
			if body.Len() > 0 {
				body.WriteString("\n")
			}
			body.WriteString(output)
		}
	}

	if body.Len() == 0 && !p.IsStreaming {
		return emptyState(title)
	}

	return card{
		title:     title,
		summary:   commandSummary(p),
		body:      body.String(),
		success:   p.IsSuccess,
		streaming: p.IsStreaming,
		width:     p.Width,
	}.render()
}

// extractCommand pulls the command string from the call arguments, falling
// back to partial extraction while the call is still streaming.
func extractCommand(p Props) string {
	if cmd := p.ToolCall.StringArg("command"); cmd != "" {
		return cmd
	}
	frag := extract.Extract(p.ToolCall.ArgString(), extract.FamilyCommand)
	if frag.Plain == p.ToolCall.ArgString() {
		// Last-resort passthrough is raw JSON, not a command; show nothing.
		return ""
	}
	return frag.Plain
}

// commandSummary produces the parenthesized line counter for the collapsed
// header.
func commandSummary(p Props) string {
	if p.IsStreaming || p.ToolResult == nil {
		return ""
	}
	output := p.ToolResult.OutputString()
	if output == "" {
		return ""
	}
	n := strings.Count(strings.TrimRight(output, "\n"), "\n") + 1
	if n == 1 {
		return "1 line"
	}
	return util.IntToString(n) + " lines"
}
