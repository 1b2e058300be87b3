// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bus provides a typed publish/subscribe channel for cross-component
// refresh signaling.
package bus

import (
	"sync"
	"time"
)

// =============================================================================
// CANVAS REFRESH EVENTS
// =============================================================================

// CanvasUpdated announces that a canvas artifact changed and any view
// currently displaying it should refetch.
type CanvasUpdated struct {
	CanvasPath string
	Timestamp  time.Time
}

// DefaultNotifyDelay gives the platform time to make freshly written canvas
// content fetchable before subscribers refresh.
const DefaultNotifyDelay = 500 * time.Millisecond

// CanvasNotifier publishes deferred, deduplicated CanvasUpdated events.
//
// A tool call that writes a canvas artifact completes slightly before the
// platform has the new content available, so the notification is delayed by
// a short interval. Each tool-call ID fires at most once no matter how many
// times the result re-renders, and at most one notification is pending per
// path at a time.
type CanvasNotifier struct {
	bus   *Bus[CanvasUpdated]
	delay time.Duration

	mu      sync.Mutex
	seen    map[string]struct{}    // tool-call IDs already scheduled
	pending map[string]*time.Timer // path -> pending timer
}

// NewCanvasNotifier creates a notifier publishing on the given bus after the
// given delay. A non-positive delay publishes on a timer that fires
// immediately, which keeps delivery off the caller's stack either way.
func NewCanvasNotifier(b *Bus[CanvasUpdated], delay time.Duration) *CanvasNotifier {
	if delay < 0 {
		delay = 0
	}
	return &CanvasNotifier{
		bus:     b,
		delay:   delay,
		seen:    make(map[string]struct{}),
		pending: make(map[string]*time.Timer),
	}
}

// Notify schedules a CanvasUpdated for path, deduplicated by toolCallID.
// Re-invocations with an already-seen ID are no-ops, so render loops may
// call this unconditionally. A newer notification for the same path
// replaces the pending one.
func (n *CanvasNotifier) Notify(toolCallID, path string) {
	if path == "" {
		return
	}

	n.mu.Lock()
	if toolCallID != "" {
		if _, dup := n.seen[toolCallID]; dup {
			n.mu.Unlock()
			return
		}
		n.seen[toolCallID] = struct{}{}
	}

	if prev, ok := n.pending[path]; ok {
		prev.Stop()
	}
	n.pending[path] = time.AfterFunc(n.delay, func() {
		n.mu.Lock()
		delete(n.pending, path)
		n.mu.Unlock()

		n.bus.Publish(CanvasUpdated{CanvasPath: path, Timestamp: time.Now()})
	})
	n.mu.Unlock()
}

// Pending reports whether a notification is still scheduled for path.
func (n *CanvasNotifier) Pending(path string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.pending[path]
	return ok
}

// Stop cancels all pending notifications. Call on teardown so no timer
// fires into a torn-down UI.
func (n *CanvasNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for path, t := range n.pending {
		t.Stop()
		delete(n.pending, path)
	}
}
