// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
)

// =============================================================================
// THREAD VIEWPORT TESTS - auto-scroll contract
// =============================================================================

func manyLines(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("line")
	}
	return b.String()
}

func TestViewportFollowsBottomByDefault(t *testing.T) {
	tv := NewThreadViewport()
	tv.SetSize(80, 10)

	tv.SetContent(manyLines(50))
	if !tv.AutoScroll() {
		t.Error("fresh viewport should auto-scroll")
	}
	if !tv.AtBottom() {
		t.Error("viewport should be pinned to bottom after new content")
	}
}

func TestViewportScrollUpDisengagesAutoScroll(t *testing.T) {
	tv := NewThreadViewport()
	tv.SetSize(80, 10)
	tv.SetContent(manyLines(50))

	tv.ScrollUp(5)
	if tv.AutoScroll() {
		t.Error("scrolling up should disengage auto-scroll")
	}

	// New content must not yank the reader back to the bottom.
	before := tv.scrollY
	tv.SetContent(manyLines(60))
	if tv.AutoScroll() {
		t.Error("new content should not re-engage auto-scroll")
	}
	if tv.scrollY != before {
		t.Errorf("scroll position moved from %d to %d on content update", before, tv.scrollY)
	}
}

func TestViewportScrollDownToBottomReengages(t *testing.T) {
	tv := NewThreadViewport()
	tv.SetSize(80, 10)
	tv.SetContent(manyLines(50))

	tv.ScrollUp(3)
	if tv.AutoScroll() {
		t.Fatal("expected auto-scroll disengaged")
	}

	tv.ScrollDown(3)
	if !tv.AutoScroll() {
		t.Error("reaching the bottom should re-engage auto-scroll")
	}
}

func TestViewportScrollToBottomReengages(t *testing.T) {
	tv := NewThreadViewport()
	tv.SetSize(80, 10)
	tv.SetContent(manyLines(50))

	tv.ScrollToTop()
	if tv.AutoScroll() {
		t.Error("ScrollToTop should disengage auto-scroll")
	}

	tv.ScrollToBottom()
	if !tv.AutoScroll() {
		t.Error("ScrollToBottom should re-engage auto-scroll")
	}
}

func TestViewportShortContentHasNoScrollPosition(t *testing.T) {
	tv := NewThreadViewport()
	tv.SetSize(80, 20)
	tv.SetContent("one\ntwo")

	if pos := tv.GetScrollPosition(); pos != "" {
		t.Errorf("short content should report no scroll position, got %q", pos)
	}
}

func TestWrapForViewportBreaksLongLines(t *testing.T) {
	line := strings.Repeat("word ", 30)
	wrapped := wrapForViewport(line, 20)

	for i, l := range strings.Split(wrapped, "\n") {
		if w := len(l); w > 20 {
			t.Errorf("line %d width %d exceeds 20: %q", i, w, l)
		}
	}
}

func TestWrapForViewportPreservesShortLines(t *testing.T) {
	content := "alpha\nbeta\ngamma"
	if got := wrapForViewport(content, 40); got != content {
		t.Errorf("short lines should pass through unchanged, got %q", got)
	}
}

func TestHardWrapBreaksOversizedWord(t *testing.T) {
	word := strings.Repeat("x", 50)
	wrapped := hardWrap(word, 10)

	for _, l := range strings.Split(wrapped, "\n") {
		if len(l) > 10 {
			t.Errorf("segment %q exceeds width 10", l)
		}
	}
	if strings.ReplaceAll(wrapped, "\n", "") != word {
		t.Error("hardWrap dropped characters")
	}
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestStatusStrings(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusReady, "Ready"},
		{StatusStreaming, "Streaming..."},
		{StatusWorking, "Working..."},
		{StatusUploading, "Uploading..."},
		{StatusError, "Error"},
		{StatusIdle, "Idle"},
	}
	for _, tc := range cases {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestStatusBarWideShowsNotes(t *testing.T) {
	bar := NewStatusBar()
	bar.SetWidth(120)
	bar.SetMessageCount(7)
	bar.SetUploadNote("uploaded 3 files (1 failed)")
	bar.SetCallNote("call: in_progress")

	view := bar.View()
	if !strings.Contains(view, "7 messages") {
		t.Error("wide view missing message count")
	}
	if !strings.Contains(view, "uploaded 3 files") {
		t.Error("wide view missing upload note")
	}
	if !strings.Contains(view, "call: in_progress") {
		t.Error("wide view missing call note")
	}
}

func TestStatusBarNarrowStaysCompact(t *testing.T) {
	bar := NewStatusBar()
	bar.SetWidth(40)
	bar.SetMessageCount(3)
	bar.SetUploadNote("uploaded 3 files")

	view := bar.View()
	if !strings.Contains(view, "3 msg") {
		t.Error("narrow view missing compact message counter")
	}
	if strings.Contains(view, "uploaded") {
		t.Error("narrow view should omit the upload note")
	}
}

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestConnectionStrings(t *testing.T) {
	if ConnPolling.String() != "POLLING" {
		t.Errorf("ConnPolling = %q", ConnPolling.String())
	}
	if ConnLive.String() != "LIVE" {
		t.Errorf("ConnLive = %q", ConnLive.String())
	}
	if ConnOffline.String() != "OFFLINE" {
		t.Errorf("ConnOffline = %q", ConnOffline.String())
	}
}

func TestHeaderViewShowsThreadAndAgent(t *testing.T) {
	h := NewHeader()
	h.SetWidth(100)
	h.SetThread("quarterly planning")
	h.SetAgent("research")

	view := h.View()
	if !strings.Contains(view, "strand") {
		t.Error("header missing brand name")
	}
	if !strings.Contains(view, "quarterly planning") {
		t.Error("header missing thread name")
	}
	if !strings.Contains(view, "research") {
		t.Error("header missing agent name")
	}
}

func TestHeaderLiveBadge(t *testing.T) {
	h := NewHeader()
	h.SetWidth(100)
	h.SetThread("demo")

	h.SetConnection(ConnLive)
	if !strings.Contains(h.View(), "LIVE") {
		t.Error("live connection should show LIVE badge")
	}

	h.SetConnection(ConnPolling)
	if strings.Contains(h.View(), "LIVE") {
		t.Error("polling connection should not show LIVE badge")
	}
}

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestSpinnerLifecycle(t *testing.T) {
	s := NewThinkingSpinner()
	if s.IsActive() {
		t.Error("spinner active before Start")
	}

	s.Start()
	if !s.IsActive() {
		t.Error("spinner inactive after Start")
	}
	if view := s.View(); !strings.Contains(view, "Working") {
		t.Errorf("spinner view %q missing message", view)
	}

	s.Stop()
	if s.IsActive() {
		t.Error("spinner active after Stop")
	}
	if view := s.View(); view != "" {
		t.Errorf("stopped spinner should render nothing, got %q", view)
	}
}
