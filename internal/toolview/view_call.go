// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

import (
	"strings"

	"github.com/jeranaias/strand-tui/internal/toolname"
)

// transcriptPreviewLines caps the trailing transcript slice on the card.
const transcriptPreviewLines = 6

// CallView renders phone call tool results: callee, live status, and the
// tail of the transcript. While the call is in progress the live monitor
// feeds updated results through the same card.
func CallView(p Props) string {
	if p.ToolCall == nil {
		return ""
	}

	title := toolname.DisplayName(p.ToolCall.FunctionName)

	var parts []string
	if to := p.ToolCall.StringArg("phone_number"); to != "" {
		parts = append(parts, "to "+to)
	}

	status, transcript := callOutput(p)
	if status != "" {
		parts = append(parts, "status: "+status)
	}
	if transcript != "" {
		parts = append(parts, lastLines(transcript, transcriptPreviewLines))
	}

	if len(parts) == 0 && !p.IsStreaming {
		return emptyState(title)
	}

	return card{
		title:     title,
		summary:   status,
		body:      strings.Join(parts, "\n"),
		success:   p.IsSuccess,
		streaming: p.IsStreaming || status == "in_progress" || status == "ringing",
		width:     p.Width,
	}.render()
}

// callOutput decodes status and transcript from the call result.
func callOutput(p Props) (status, transcript string) {
	out, ok := outputMap(p)
	if !ok {
		return "", ""
	}
	status, _ = out["status"].(string)
	transcript, _ = out["transcript"].(string)
	return status, transcript
}

// lastLines returns up to n trailing lines of s.
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
