// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the strand TUI.

This package contains a small set of styled components built on top of
the Bubble Tea and Lip Gloss libraries, shared by the chat view and the
tool result views.

# Components

Header (header.go) - Application header with thread name, agent name, and
connection state badge.

StatusBar (statusbar.go) - Bottom status bar with activity state, message
count, scroll position, and transient upload/call notes.

ThreadViewport (viewport.go) - Scrollable viewport for rendered thread
content. Follows new output while the user is at the bottom and stops
following when the user scrolls up.

CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma.

Spinner (spinner.go) - ASCII activity spinner with optional elapsed timer.

# Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	header := components.NewHeader(theme)
	header.SetWidth(80)
	header.SetThread("planning session")
	view := header.View()
*/
package components
