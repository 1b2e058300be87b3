// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
//
// A Registry maps canonical tool names to view functions. The composition
// root owns the single registry instance and passes it down explicitly;
// there is no package-level mutable singleton. Lookups never fail: unknown
// names resolve to the registry's default entry, which itself renders a
// graceful empty state for absent content.
//
// Registry mutation and lookup both happen on the Bubble Tea update
// goroutine, so no locking is needed.
package toolview

import (
	"sort"
	"time"

	"github.com/jeranaias/strand-tui/internal/model"
	"github.com/jeranaias/strand-tui/internal/toolname"
)

// DefaultKey is the registry key of the fallback view. It always resolves
// to a valid view.
const DefaultKey = "default"

// =============================================================================
// VIEW CONTRACT
// =============================================================================

// Props is the rendering contract every registered view receives. A view
// must degrade gracefully (render "" or an explanatory placeholder) when
// ToolCall is nil; that state occurs transiently during streaming setup.
type Props struct {
	ToolCall   *model.ToolCall
	ToolResult *model.ToolResult

	IsStreaming bool
	IsSuccess   bool

	AssistantTimestamp time.Time
	ToolTimestamp      time.Time

	// Width is the render width available to the card, in cells.
	Width int
}

// View turns props into rendered card text. Views are pure functions of
// their props.
type View func(Props) string

// =============================================================================
// REGISTRY
// =============================================================================

// Registry maps canonical tool names to views.
type Registry struct {
	views           map[string]View
	originalDefault View
}

// NewRegistry creates a registry whose default entry is def. A nil def is
// replaced by a view that renders nothing, preserving the invariant that
// Get never returns nil.
func NewRegistry(def View) *Registry {
	if def == nil {
		def = func(Props) string { return "" }
	}
	return &Registry{
		views:           map[string]View{DefaultKey: def},
		originalDefault: def,
	}
}

// Get returns the view registered for name's canonical form, or the default
// view when unregistered. Never returns nil.
func (r *Registry) Get(name string) View {
	if v, ok := r.views[toolname.Normalize(name)]; ok {
		return v
	}
	return r.views[DefaultKey]
}

// Register inserts or overwrites the view for name. Last write wins. A nil
// view is ignored so any previously registered entry survives.
func (r *Registry) Register(name string, v View) {
	if v == nil {
		return
	}
	r.views[toolname.Normalize(name)] = v
}

// RegisterMany registers a batch of views. Nil values are skipped.
func (r *Registry) RegisterMany(views map[string]View) {
	for name, v := range views {
		r.Register(name, v)
	}
}

// Has reports whether name's canonical form has its own entry (the default
// fallback does not count).
func (r *Registry) Has(name string) bool {
	key := toolname.Normalize(name)
	if key == DefaultKey {
		return true
	}
	_, ok := r.views[key]
	return ok
}

// ToolNames returns all registered canonical names except the default
// entry, sorted for deterministic iteration.
func (r *Registry) ToolNames() []string {
	names := make([]string, 0, len(r.views)-1)
	for name := range r.views {
		if name != DefaultKey {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Clear resets the registry to only its original default entry. This is
// intentionally destructive; it exists to reset dispatch state between
// sessions and in tests.
func (r *Registry) Clear() {
	r.views = map[string]View{DefaultKey: r.originalDefault}
}
