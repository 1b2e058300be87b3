// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

import (
	"encoding/json"

	"github.com/jeranaias/strand-tui/internal/toolname"
	"github.com/jeranaias/strand-tui/internal/util"
)

// presentationInfo is the family payload the presentation view consumes,
// whether it came from a native slide tool or a reclassified file write.
type presentationInfo struct {
	PresentationName string `json:"presentation_name"`
	SlideNumber      int    `json:"slide_number"`
	SlideTitle       string `json:"slide_title,omitempty"`
	PresentationPath string `json:"presentation_path,omitempty"`
}

// PresentationView renders slide creation and edits. It accepts both the
// native tool output and the redirect envelope synthesized by the
// reclassifier.
func PresentationView(p Props) string {
	if p.ToolCall == nil {
		return ""
	}

	title := toolname.DisplayName(p.ToolCall.FunctionName)
	info := presentationPayload(p)

	if info.PresentationName == "" && info.SlideNumber == 0 && !p.IsStreaming {
		return emptyState(title)
	}

	summary := info.PresentationName
	if info.SlideNumber > 0 {
		if summary != "" {
			summary += ", "
		}
		summary += "slide " + util.IntToString(info.SlideNumber)
	}

	return card{
		title:     title,
		summary:   summary,
		body:      info.SlideTitle,
		success:   p.IsSuccess,
		streaming: p.IsStreaming,
		width:     p.Width,
	}.render()
}

// presentationPayload decodes the family payload from the result, unwrapping
// the `{"result":{"output":...,"success":...},"tool_name":...}` redirect
// envelope when present, then falls back to the call arguments.
func presentationPayload(p Props) presentationInfo {
	var info presentationInfo

	if out, ok := outputMap(p); ok {
		if inner := unwrapRedirect(out); inner != nil {
			out = inner
		}
		raw, err := json.Marshal(out)
		if err == nil {
			_ = json.Unmarshal(raw, &info)
		}
	}

	if info.PresentationName == "" {
		info.PresentationName = p.ToolCall.StringArg("presentation_name")
	}
	if info.SlideTitle == "" {
		info.SlideTitle = p.ToolCall.StringArg("slide_title")
	}
	if info.SlideNumber == 0 {
		if n, ok := p.ToolCall.Args()["slide_number"].(float64); ok {
			info.SlideNumber = int(n)
		}
	}
	return info
}

// unwrapRedirect extracts the family payload from a reclassifier redirect
// envelope. Returns nil when out is not such an envelope.
func unwrapRedirect(out map[string]any) map[string]any {
	result, _ := out["result"].(map[string]any)
	if result == nil {
		return nil
	}
	encoded, _ := result["output"].(string)
	if encoded == "" {
		return nil
	}
	inner := map[string]any{}
	if err := json.Unmarshal([]byte(encoded), &inner); err != nil {
		return nil
	}
	return inner
}
