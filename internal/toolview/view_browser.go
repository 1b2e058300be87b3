// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

import (
	"strings"

	"github.com/jeranaias/strand-tui/internal/extract"
	"github.com/jeranaias/strand-tui/internal/toolname"
	"github.com/jeranaias/strand-tui/internal/ui/styles"
)

// BrowserView renders browser navigation and action calls. Screenshots
// cannot be shown in a terminal, so the card reports the page URL, the
// action taken, and whether a screenshot was captured.
func BrowserView(p Props) string {
	if p.ToolCall == nil {
		return ""
	}

	title := toolname.DisplayName(p.ToolCall.FunctionName)

	var parts []string
	if url := p.ToolCall.StringArg("url"); url != "" {
		parts = append(parts, styles.RenderLink(url))
	}
	if action := browserAction(p); action != "" {
		parts = append(parts, action)
	}

	if out, ok := outputMap(p); ok {
		if msg, _ := out["message"].(string); msg != "" {
			parts = append(parts, firstLines(msg, 4))
		}
		if _, has := screenshotField(out); has {
			parts = append(parts, "(screenshot captured)")
		}
	}

	if len(parts) == 0 && !p.IsStreaming {
		return emptyState(title)
	}

	return card{
		title:     title,
		body:      strings.Join(parts, "\n"),
		success:   p.IsSuccess,
		streaming: p.IsStreaming,
		width:     p.Width,
	}.render()
}

// browserAction pulls the instruction or action argument, tolerating
// partially streamed payloads.
func browserAction(p Props) string {
	for _, key := range []string{"instruction", "action"} {
		if v := p.ToolCall.StringArg(key); v != "" {
			return v
		}
	}
	if p.IsStreaming {
		frag := extract.Extract(p.ToolCall.ArgString(), extract.FamilyBrowser)
		if frag.Plain != p.ToolCall.ArgString() {
			return frag.Plain
		}
	}
	return ""
}

// screenshotField probes the browser result for any of the screenshot
// reference fields the platform uses.
func screenshotField(out map[string]any) (string, bool) {
	for _, key := range []string{"image_url", "screenshot_url", "screenshot_base64"} {
		if v, _ := out[key].(string); v != "" {
			return v, true
		}
	}
	return "", false
}

// outputMap is shared nil-tolerant access to the structured result output.
func outputMap(p Props) (map[string]any, bool) {
	if p.ToolResult == nil {
		return nil, false
	}
	return p.ToolResult.OutputMap()
}
