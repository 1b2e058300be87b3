// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/strand-tui/internal/ui/styles"
)

// =============================================================================
// THREAD VIEWPORT - Scrollable thread area with auto-scroll tracking
// =============================================================================

// ThreadViewport is the scrollable area that displays rendered thread
// content. It owns the auto-scroll contract: new content keeps the view
// pinned to the bottom until the user scrolls up, and scrolling back to the
// bottom re-engages pinning.
type ThreadViewport struct {
	viewport   viewport.Model
	width      int
	height     int
	ready      bool
	autoScroll bool

	// Scroll position tracking.
	scrollY    int
	maxScrollY int
}

// NewThreadViewport creates a viewport pinned to the bottom.
func NewThreadViewport() *ThreadViewport {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	return &ThreadViewport{
		viewport:   vp,
		width:      80,
		height:     20,
		autoScroll: true,
	}
}

// SetSize updates the viewport dimensions and re-clamps scroll state.
func (tv *ThreadViewport) SetSize(width, height int) {
	tv.width = width
	tv.height = height
	tv.viewport.Width = width - 2 // Account for scroll indicator
	tv.viewport.Height = height
	tv.ready = true
	tv.syncScroll()
}

// SetContent replaces the rendered thread content. When auto-scroll is
// engaged the view follows to the bottom; when the user has scrolled up it
// stays put, so streaming updates never yank the reader away.
func (tv *ThreadViewport) SetContent(content string) {
	wrapped := wrapForViewport(content, tv.width-2)
	tv.viewport.SetContent(wrapped)

	lines := strings.Count(wrapped, "\n") + 1
	tv.maxScrollY = maxInt0(0, lines-tv.height)
	tv.syncScroll()

	if tv.autoScroll {
		tv.ScrollToBottom()
	}
}

// syncScroll clamps tracked position to the viewport's actual offset.
func (tv *ThreadViewport) syncScroll() {
	tv.scrollY = tv.viewport.YOffset
	if tv.scrollY > tv.maxScrollY {
		tv.scrollY = tv.maxScrollY
	}
	if tv.scrollY < 0 {
		tv.scrollY = 0
	}
}

// ScrollToBottom pins the view to the newest content.
func (tv *ThreadViewport) ScrollToBottom() {
	tv.viewport.GotoBottom()
	tv.scrollY = tv.maxScrollY
	tv.autoScroll = true
}

// ScrollToTop jumps to the oldest content and releases the pin.
func (tv *ThreadViewport) ScrollToTop() {
	tv.viewport.GotoTop()
	tv.scrollY = 0
	tv.autoScroll = false
}

// ScrollUp moves up. The user took control, so auto-scroll disengages.
func (tv *ThreadViewport) ScrollUp(lines int) {
	tv.autoScroll = false
	tv.scrollY = maxInt0(0, tv.scrollY-lines)
	tv.viewport.SetYOffset(tv.scrollY)
}

// ScrollDown moves down, re-engaging auto-scroll at the bottom edge.
func (tv *ThreadViewport) ScrollDown(lines int) {
	tv.scrollY = minInt(tv.maxScrollY, tv.scrollY+lines)
	tv.viewport.SetYOffset(tv.scrollY)
	if tv.scrollY >= tv.maxScrollY {
		tv.autoScroll = true
	}
}

// PageUp scrolls up one page and disengages auto-scroll.
func (tv *ThreadViewport) PageUp() {
	tv.ScrollUp(tv.height)
}

// PageDown scrolls down one page.
func (tv *ThreadViewport) PageDown() {
	tv.ScrollDown(tv.height)
}

// AtTop reports whether the viewport shows the oldest content.
func (tv *ThreadViewport) AtTop() bool {
	return tv.viewport.AtTop()
}

// AtBottom reports whether the viewport shows the newest content.
func (tv *ThreadViewport) AtBottom() bool {
	return tv.viewport.AtBottom()
}

// AutoScroll reports whether the view is pinned to the bottom.
func (tv *ThreadViewport) AutoScroll() bool {
	return tv.autoScroll
}

// ScrollPercent returns the scroll position as a fraction.
func (tv *ThreadViewport) ScrollPercent() float64 {
	return tv.viewport.ScrollPercent()
}

// Update handles key and mouse scrolling.
func (tv *ThreadViewport) Update(msg tea.Msg) (*ThreadViewport, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			tv.ScrollUp(1)
			return tv, nil
		case "down", "j":
			tv.ScrollDown(1)
			return tv, nil
		case "pgup":
			tv.PageUp()
			return tv, nil
		case "pgdn", "pgdown":
			tv.PageDown()
			return tv, nil
		case "home", "g":
			tv.ScrollToTop()
			return tv, nil
		case "end", "G":
			tv.ScrollToBottom()
			return tv, nil
		}

	case tea.MouseMsg:
		switch msg.Type {
		case tea.MouseWheelUp:
			tv.ScrollUp(3)
			return tv, nil
		case tea.MouseWheelDown:
			tv.ScrollDown(3)
			return tv, nil
		}
	}

	tv.viewport, cmd = tv.viewport.Update(msg)
	tv.scrollY = tv.viewport.YOffset
	return tv, cmd
}

// View renders the viewport with more-above/more-below indicators.
func (tv *ThreadViewport) View() string {
	if !tv.ready {
		return ""
	}

	var result strings.Builder

	if top := tv.renderTopIndicator(); top != "" {
		result.WriteString(top)
		result.WriteString("\n")
	}

	result.WriteString(tv.viewport.View())

	if bottom := tv.renderBottomIndicator(); bottom != "" {
		result.WriteString("\n")
		result.WriteString(bottom)
	}

	return result.String()
}

// GetScrollPosition formats the position for the status bar, e.g. "[15/100]".
func (tv *ThreadViewport) GetScrollPosition() string {
	if tv.maxScrollY <= 0 {
		return ""
	}
	return fmt.Sprintf("[%d/%d]", tv.scrollY+1, tv.maxScrollY+1)
}

// ==========================================================================
// SCROLL INDICATORS
// ==========================================================================

func (tv *ThreadViewport) renderTopIndicator() string {
	if tv.AtTop() {
		return ""
	}

	indicatorStyle := lipgloss.NewStyle().
		Width(tv.width).
		Align(lipgloss.Center)

	arrowStyle := lipgloss.NewStyle().Foreground(styles.Cyan)
	textStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)

	indicator := arrowStyle.Render("^") + " " +
		textStyle.Render("scroll up for more") + " " +
		arrowStyle.Render("^")

	return indicatorStyle.Render(indicator)
}

func (tv *ThreadViewport) renderBottomIndicator() string {
	if tv.AtBottom() {
		return ""
	}

	indicatorStyle := lipgloss.NewStyle().
		Width(tv.width).
		Align(lipgloss.Center)

	arrowStyle := lipgloss.NewStyle().Foreground(styles.Cyan)
	textStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
	posStyle := lipgloss.NewStyle().Foreground(styles.Purple).Bold(true)

	scrollPos := ""
	if tv.maxScrollY > 0 {
		scrollPos = posStyle.Render(fmt.Sprintf(" [%d/%d] ", tv.scrollY+1, tv.maxScrollY+1))
	}

	indicator := arrowStyle.Render("v") + scrollPos +
		textStyle.Render("scroll down for more") + " " +
		arrowStyle.Render("v")

	return indicatorStyle.Render(indicator)
}

// =============================================================================
// CONTENT WRAPPING WITH RUNEWIDTH SUPPORT
// =============================================================================

// wrapForViewport wraps content to the given width, measuring display
// columns with go-runewidth so CJK text and emoji wrap correctly.
func wrapForViewport(content string, width int) string {
	if width <= 0 {
		return content
	}

	var wrapped strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if wrapped.Len() > 0 {
			wrapped.WriteByte('\n')
		}
		if runewidth.StringWidth(line) <= width {
			wrapped.WriteString(line)
			continue
		}
		wrapped.WriteString(hardWrap(line, width))
	}
	return wrapped.String()
}

// hardWrap breaks one over-wide line, preferring word boundaries.
func hardWrap(line string, width int) string {
	var result strings.Builder
	var current strings.Builder
	currentWidth := 0

	flush := func() {
		if result.Len() > 0 {
			result.WriteByte('\n')
		}
		result.WriteString(strings.TrimRight(current.String(), " "))
		current.Reset()
		currentWidth = 0
	}

	for _, word := range strings.Split(line, " ") {
		wordWidth := runewidth.StringWidth(word)

		if currentWidth > 0 && currentWidth+1+wordWidth > width {
			flush()
		}
		if currentWidth > 0 {
			current.WriteByte(' ')
			currentWidth++
		}

		// A single word wider than the viewport breaks mid-word.
		if wordWidth > width {
			for _, r := range word {
				rw := runewidth.RuneWidth(r)
				if currentWidth+rw > width {
					flush()
				}
				current.WriteRune(r)
				currentWidth += rw
			}
			continue
		}

		current.WriteString(word)
		currentWidth += wordWidth
	}
	if current.Len() > 0 {
		flush()
	}
	return result.String()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func maxInt0(a, b int) int {
	if a > b {
		return a
	}
	return b
}
