// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"
	"time"
)

// =============================================================================
// THROTTLE
// =============================================================================

// DefaultThrottleInterval caps live-preview re-renders at 10 per second.
const DefaultThrottleInterval = 100 * time.Millisecond

// Throttle rate-limits a string-valued setter to at most one emit per
// interval. A call that arrives inside the quiet window is deferred, and
// later calls in the same window replace the deferred value, so the
// downstream consumer always observes the most recent value and the final
// value of a burst is never dropped.
//
// Thread-safety: values arrive from the streaming goroutine while Stop runs
// on the main Bubble Tea loop, so all state is mutex-guarded.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	emit     func(string)

	lastEmit time.Time
	timer    *time.Timer
	pending  string
	deferred bool
	stopped  bool
}

// NewThrottle creates a throttle that forwards values to emit. A
// non-positive interval falls back to DefaultThrottleInterval.
func NewThrottle(interval time.Duration, emit func(string)) *Throttle {
	if interval <= 0 {
		interval = DefaultThrottleInterval
	}
	return &Throttle{interval: interval, emit: emit}
}

// Set delivers value downstream, immediately if the interval has elapsed
// since the last emit, otherwise deferred to the end of the quiet window.
// Only the newest deferred value survives.
func (t *Throttle) Set(value string) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}

	elapsed := time.Since(t.lastEmit)
	if elapsed >= t.interval && !t.deferred {
		t.lastEmit = time.Now()
		t.mu.Unlock()
		t.emit(value)
		return
	}

	t.pending = value
	if !t.deferred {
		t.deferred = true
		t.timer = time.AfterFunc(t.interval-elapsed, t.fire)
	}
	t.mu.Unlock()
}

// fire emits the deferred value when the quiet window closes.
func (t *Throttle) fire() {
	t.mu.Lock()
	if t.stopped || !t.deferred {
		t.mu.Unlock()
		return
	}
	value := t.pending
	t.pending = ""
	t.deferred = false
	t.lastEmit = time.Now()
	t.mu.Unlock()
	t.emit(value)
}

// Flush emits any deferred value immediately, bypassing the interval. Use
// when a stream completes so the final value renders without delay.
func (t *Throttle) Flush() {
	t.mu.Lock()
	if t.stopped || !t.deferred {
		t.mu.Unlock()
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	value := t.pending
	t.pending = ""
	t.deferred = false
	t.lastEmit = time.Now()
	t.mu.Unlock()
	t.emit(value)
}

// Stop cancels any deferred emit and rejects further values. Values set
// after Stop are dropped, never delivered late into a torn-down view.
func (t *Throttle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.deferred = false
	t.pending = ""
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
