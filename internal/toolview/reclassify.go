// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

import (
	"encoding/json"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/jeranaias/strand-tui/internal/bus"
	"github.com/jeranaias/strand-tui/internal/model"
	"github.com/jeranaias/strand-tui/internal/toolname"
)

// =============================================================================
// PATH/CONTENT RECLASSIFIER
// =============================================================================

// A generic file write that targets a specialized artifact should render
// with that artifact's view: writing presentations/q3/slide_2.html is a
// slide edit even though the tool was create-file. The reclassifier detects
// these cases by path, overrides the dispatch target, and synthesizes the
// result payload the specialized view expects.

// Native tool keys per family. Calls already issued through a family's own
// tools are never reclassified.
var (
	nativePresentationTools = map[string]struct{}{
		"create-slide": {}, "edit-slide": {}, "delete-slide": {}, "list-slides": {},
	}
	nativeCanvasTools = map[string]struct{}{
		"create-canvas": {}, "edit-canvas": {},
	}
)

// Path patterns for specialized artifact families. The platform lays
// presentations out as presentations/<name>/slide_<n>.<ext> (an optional
// slides/ level is tolerated) and canvases as canvases/<name>.json or
// <name>.canvas.
var (
	presentationPathRe = regexp.MustCompile(`(?:^|/)presentations/([^/]+)/(?:slides/)?slide[_-]?(\d+)\.[A-Za-z0-9]+$`)
	canvasPathRe       = regexp.MustCompile(`(?:^|/)canvases/([^/]+?)(?:\.canvas)?\.json$`)
)

// redirectEnvelope is the exact result nesting specialized views parse when
// a call was redirected to them. Output holds the family-specific payload
// as a JSON-encoded string.
type redirectEnvelope struct {
	Result struct {
		Output  string `json:"output"`
		Success bool   `json:"success"`
	} `json:"result"`
	ToolName string `json:"tool_name"`
}

// Reclassifier resolves a finalized (call, result) pair to the view that
// should render it, overriding dispatch when the call's target path belongs
// to a specialized family.
type Reclassifier struct {
	registry *Registry
	notifier *bus.CanvasNotifier
}

// NewReclassifier creates a reclassifier over the given registry. notifier
// may be nil; canvas refresh notifications are then skipped.
func NewReclassifier(registry *Registry, notifier *bus.CanvasNotifier) *Reclassifier {
	return &Reclassifier{registry: registry, notifier: notifier}
}

// Resolve returns the view for the call plus the result to render with. The
// returned result is the original one unless the call was reclassified, in
// which case it is a synthesized replacement; the tool call itself is never
// modified.
func (rc *Reclassifier) Resolve(tc *model.ToolCall, tr *model.ToolResult) (View, *model.ToolResult) {
	if tc == nil {
		return rc.registry.Get(DefaultKey), tr
	}

	key := toolname.Normalize(tc.FunctionName)
	target := tc.PathArg()

	// Canvas artifacts are live-updatable: a completed successful touch,
	// native or reclassified, schedules a refresh for views displaying that
	// canvas. In-flight calls carry a nil result and must not notify here;
	// the dedup key is the tool-call ID, so a premature notification would
	// also swallow the real one at completion.
	if rc.notifier != nil && tr != nil && tr.Succeeded() {
		if canvasPath := canvasTarget(key, tc, target); canvasPath != "" {
			rc.notifier.Notify(tc.ID, canvasPath)
		}
	}

	if _, native := nativePresentationTools[key]; native {
		return rc.registry.Get(key), tr
	}
	if _, native := nativeCanvasTools[key]; native {
		return rc.registry.Get(key), tr
	}

	if target != "" {
		if m := presentationPathRe.FindStringSubmatch(target); m != nil {
			slide, _ := strconv.Atoi(m[2])
			payload, err := json.Marshal(presentationInfo{
				PresentationName: m[1],
				SlideNumber:      slide,
				PresentationPath: target,
			})
			if err == nil {
				return rc.registry.Get("create-slide"), synthesize("create-slide", payload, tr.Succeeded())
			}
		}
		if m := canvasPathRe.FindStringSubmatch(target); m != nil {
			payload, err := json.Marshal(canvasInfo{
				CanvasName: m[1],
				CanvasPath: target,
			})
			if err == nil {
				return rc.registry.Get("create-canvas"), synthesize("create-canvas", payload, tr.Succeeded())
			}
		}
	}

	return rc.registry.Get(key), tr
}

// canvasTarget returns the canvas path a call touched, or "".
func canvasTarget(key string, tc *model.ToolCall, target string) string {
	if _, native := nativeCanvasTools[key]; native {
		if p := tc.StringArg("canvas_path"); p != "" {
			return p
		}
		if name := tc.StringArg("canvas_name"); name != "" {
			return path.Join("canvases", name+".json")
		}
		return ""
	}
	if canvasPathRe.MatchString(target) {
		return target
	}
	return ""
}

// synthesize builds the replacement tool result carrying the redirect
// envelope for the target family view.
func synthesize(targetTool string, familyPayload []byte, success bool) *model.ToolResult {
	env := redirectEnvelope{ToolName: targetTool}
	env.Result.Output = string(familyPayload)
	env.Result.Success = success

	encoded, err := json.Marshal(env)
	if err != nil {
		// Marshal of a plain struct cannot realistically fail; degrade to an
		// empty result rather than dropping the card.
		return &model.ToolResult{Success: &success}
	}
	return &model.ToolResult{
		Success: &success,
		Output:  json.RawMessage(encoded),
	}
}

// IsSpecializedPath reports whether a path belongs to any specialized
// artifact family. Used by callers that only need the classification, not
// the redirect.
func IsSpecializedPath(p string) bool {
	p = strings.TrimSpace(p)
	return presentationPathRe.MatchString(p) || canvasPathRe.MatchString(p)
}

// IsCanvasPath reports whether a path names a canvas artifact. The artifact
// watcher uses it to decide which file changes warrant a canvas refresh.
func IsCanvasPath(p string) bool {
	return canvasPathRe.MatchString(strings.TrimSpace(p))
}
