// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the thread view component for the TUI.
//
// This file defines all Bubble Tea message types used by the thread view.
// Messages are organized into the following categories:
//   - Thread: loading a thread and receiving new platform messages
//   - Streaming: text deltas, in-flight tool calls, and completion
//   - Canvas: refresh events from the artifact bus
//   - Knowledge base: upload progress and results
//   - Calls: live phone-call state
//   - UI state: ticks, errors, transient notes
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"time"

	"github.com/jeranaias/strand-tui/internal/bus"
	"github.com/jeranaias/strand-tui/internal/call"
	"github.com/jeranaias/strand-tui/internal/kb"
	"github.com/jeranaias/strand-tui/internal/model"
	"github.com/jeranaias/strand-tui/internal/storage"
)

// =============================================================================
// THREAD MESSAGES
// =============================================================================

// ThreadLoadedMsg delivers a thread loaded for playback or resume.
type ThreadLoadedMsg struct {
	Thread   storage.Thread
	Messages []model.UnifiedMessage
	Error    error
}

// NewMessageMsg delivers one finalized unified message appended to the
// thread (user echo, completed assistant turn, tool result, status).
type NewMessageMsg struct {
	Message model.UnifiedMessage
}

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals that an assistant turn began streaming.
type StreamStartMsg struct {
	AgentID   string
	StartTime time.Time
}

// StreamDeltaMsg delivers a text delta from the live assistant turn.
type StreamDeltaMsg struct {
	Delta string
}

// StreamToolCallMsg delivers the in-flight tool call with its argument
// JSON accumulated so far. The arguments may be truncated mid-token; the
// extractor handles that.
type StreamToolCallMsg struct {
	ToolCall model.ToolCall
	RawArgs  string
}

// StreamDoneMsg signals the live turn finished. Final delivers the
// completed assistant message when the platform provided one; the overlay
// content stands in otherwise.
type StreamDoneMsg struct {
	Final *model.UnifiedMessage
	Error error
}

// StreamTickMsg drives batched flushes of buffered stream deltas.
type StreamTickMsg struct {
	Time time.Time
}

// previewFlushMsg carries throttled live tool-call preview text from the
// throttle goroutine back into the update loop.
type previewFlushMsg struct {
	text string
}

// =============================================================================
// CANVAS MESSAGES
// =============================================================================

// CanvasUpdatedMsg relays a bus refresh event for a canvas artifact.
type CanvasUpdatedMsg struct {
	Event bus.CanvasUpdated
}

// =============================================================================
// KNOWLEDGE BASE MESSAGES
// =============================================================================

// UploadStartedMsg signals a batch upload began.
type UploadStartedMsg struct {
	FileCount int
}

// UploadDoneMsg delivers the batch upload report.
type UploadDoneMsg struct {
	Report kb.UploadReport
	Error  error
}

// =============================================================================
// CALL MESSAGES
// =============================================================================

// CallStateMsg delivers a live call state snapshot from the monitor.
type CallStateMsg struct {
	State call.State
}

// =============================================================================
// UI STATE MESSAGES
// =============================================================================

// ErrorMsg displays a dismissible error.
type ErrorMsg struct {
	Title   string
	Message string
}

// ErrorDismissMsg clears the visible error.
type ErrorDismissMsg struct{}

// noteExpiredMsg clears a transient status-bar note.
type noteExpiredMsg struct {
	generation int
}
