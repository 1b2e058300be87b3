// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"
	"time"
)

func TestStreamingBufferBatchThresholdFlush(t *testing.T) {
	sb := NewStreamingBuffer()

	// Below both thresholds nothing comes out.
	sb.Write("hello")
	if content, ok := sb.Flush(); ok {
		t.Fatalf("expected no flush below thresholds, got %q", content)
	}

	for i := 0; i < defaultBatchSize; i++ {
		sb.Write("x")
	}
	content, ok := sb.Flush()
	if !ok {
		t.Fatal("expected flush after batch threshold")
	}
	if content != "hello"+"xxxxxxxxxxxxxxx" {
		t.Errorf("unexpected flushed content %q", content)
	}
	if sb.Pending() != 0 {
		t.Errorf("Pending() = %d after flush, want 0", sb.Pending())
	}
}

func TestStreamingBufferTimeThresholdFlush(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.Write("slow stream")

	// Backdate the last flush past the frame interval.
	sb.mu.Lock()
	sb.lastFlush = time.Now().Add(-time.Second)
	sb.mu.Unlock()

	content, ok := sb.Flush()
	if !ok {
		t.Fatal("expected time-based flush")
	}
	if content != "slow stream" {
		t.Errorf("flushed %q, want %q", content, "slow stream")
	}
}

func TestStreamingBufferForceFlush(t *testing.T) {
	sb := NewStreamingBuffer()

	if _, ok := sb.ForceFlush(); ok {
		t.Error("ForceFlush on empty buffer should report nothing")
	}

	sb.Write("tail")
	content, ok := sb.ForceFlush()
	if !ok || content != "tail" {
		t.Errorf("ForceFlush = (%q, %v), want (\"tail\", true)", content, ok)
	}
}

func TestStreamingBufferReset(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.Write("discard me")
	sb.Reset()

	if sb.Pending() != 0 {
		t.Errorf("Pending() = %d after Reset, want 0", sb.Pending())
	}
	if _, ok := sb.ForceFlush(); ok {
		t.Error("buffer should be empty after Reset")
	}
}

func TestStreamingBufferConcurrentWrites(t *testing.T) {
	sb := NewStreamingBuffer()
	done := make(chan struct{})

	go func() {
		for i := 0; i < 100; i++ {
			sb.Write("a")
		}
		close(done)
	}()
	for i := 0; i < 100; i++ {
		sb.ForceFlush()
	}
	<-done

	content, _ := sb.ForceFlush()
	if sb.Pending() != 0 && content == "" {
		t.Error("writes lost during concurrent flushes")
	}
}
