// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

// RegisterBuiltins installs the stock views for every tool family the
// platform ships. Multiple keys aliasing one view is normal; keys are
// canonical, and underscore spellings arriving off the wire resolve to the
// same entries through normalization.
func RegisterBuiltins(r *Registry) {
	r.RegisterMany(map[string]View{
		// Shell commands
		"execute-command":      CommandView,
		"check-command-output": CommandView,
		"terminate-command":    CommandView,

		// Files
		"read-file":         FileView,
		"create-file":       FileView,
		"edit-file":         FileView,
		"full-file-rewrite": FileView,
		"delete-file":       FileView,

		// Browser
		"browser-navigate-to": BrowserView,
		"browser-act":         BrowserView,

		// Web search and crawling
		"web-search":     SearchView,
		"scrape-webpage": SearchView,

		// Presentations
		"create-slide": PresentationView,
		"edit-slide":   PresentationView,
		"delete-slide": PresentationView,
		"list-slides":  PresentationView,

		// Canvases
		"create-canvas": CanvasView,
		"edit-canvas":   CanvasView,

		// Task lists
		"create-tasks": TasksView,
		"update-tasks": TasksView,
		"view-tasks":   TasksView,

		// Phone calls
		"make-phone-call": CallView,
		"end-phone-call":  CallView,

		// Media generation
		"generate-image":         MediaView,
		"generate-video":         MediaView,
		"image-edit-or-generate": MediaView,
	})
}

// NewBuiltinRegistry creates a registry with DefaultView as fallback and all
// stock views installed. This is what the composition root uses.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry(DefaultView)
	RegisterBuiltins(r)
	return r
}
