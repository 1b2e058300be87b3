// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

import (
	"github.com/jeranaias/strand-tui/internal/extract"
	"github.com/jeranaias/strand-tui/internal/toolname"
)

// DefaultView is the generic fallback renderer for tools with no registered
// view. It must handle every degenerate input: nil tool call (transient
// during streaming setup), absent result, and unparsable output.
func DefaultView(p Props) string {
	if p.ToolCall == nil {
		return ""
	}

	title := toolname.DisplayName(p.ToolCall.FunctionName)

	body := ""
	if p.IsStreaming {
		body = extract.Extract(p.ToolCall.ArgString(), extract.FamilyGeneric).Plain
	} else if p.ToolResult != nil {
		body = p.ToolResult.OutputString()
		if body == "" && p.ToolResult.Error != "" {
			body = p.ToolResult.Error
		}
	}

	if body == "" && !p.IsStreaming {
		return emptyState(title)
	}

	return card{
		title:     title,
		body:      body,
		success:   p.IsSuccess,
		streaming: p.IsStreaming,
		width:     p.Width,
	}.render()
}
