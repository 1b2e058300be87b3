// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

import (
	"github.com/jeranaias/strand-tui/internal/toolname"
)

// canvasInfo is the family payload for canvas artifacts.
type canvasInfo struct {
	CanvasName string `json:"canvas_name"`
	CanvasPath string `json:"canvas_path,omitempty"`
}

// CanvasView renders canvas artifact creation and edits. Like the
// presentation view it accepts both native output and the reclassifier's
// redirect envelope.
func CanvasView(p Props) string {
	if p.ToolCall == nil {
		return ""
	}

	title := toolname.DisplayName(p.ToolCall.FunctionName)
	info := canvasPayload(p)

	if info.CanvasName == "" && info.CanvasPath == "" && !p.IsStreaming {
		return emptyState(title)
	}

	body := ""
	if info.CanvasPath != "" {
		body = info.CanvasPath
	}

	return card{
		title:     title,
		summary:   info.CanvasName,
		body:      body,
		success:   p.IsSuccess,
		streaming: p.IsStreaming,
		width:     p.Width,
	}.render()
}

// canvasPayload decodes the canvas payload from result output or arguments.
func canvasPayload(p Props) canvasInfo {
	var info canvasInfo

	if out, ok := outputMap(p); ok {
		if inner := unwrapRedirect(out); inner != nil {
			out = inner
		}
		if v, _ := out["canvas_name"].(string); v != "" {
			info.CanvasName = v
		}
		if v, _ := out["canvas_path"].(string); v != "" {
			info.CanvasPath = v
		}
	}

	if info.CanvasName == "" {
		info.CanvasName = p.ToolCall.StringArg("canvas_name")
	}
	if info.CanvasPath == "" {
		info.CanvasPath = p.ToolCall.StringArg("canvas_path")
	}
	return info
}
