// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolview renders tool calls and their results as visual cards.
package toolview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/strand-tui/internal/ui/styles"
	"github.com/jeranaias/strand-tui/internal/util"
)

// maxBodyLines caps how many body lines a card shows before eliding.
const maxBodyLines = 12

// =============================================================================
// SHARED CARD RENDERING
// =============================================================================

// card is the common visual frame for every tool view: a status icon, the
// tool's display title, an optional summary, and a body limited to
// maxBodyLines, wrapped in a colored left border.
type card struct {
	title     string
	summary   string
	body      string
	success   bool
	streaming bool
	width     int
}

// render produces the card text.
func (c card) render() string {
	var b strings.Builder

	// ACCESSIBILITY: Status icon with shape indicator for colorblind users
	icon := styles.StatusIndicators.Success
	iconColor := styles.SuccessHighContrast
	switch {
	case c.streaming:
		icon = styles.StatusIndicators.Pending
		iconColor = styles.InfoHighContrast
	case !c.success:
		icon = styles.StatusIndicators.Error
		iconColor = styles.ErrorHighContrast
	}

	iconStyle := lipgloss.NewStyle().Foreground(iconColor).Bold(true)
	b.WriteString(iconStyle.Render(icon))
	b.WriteString(" ")

	nameStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	b.WriteString(nameStyle.Render(c.title))

	if c.summary != "" {
		infoStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		b.WriteString(infoStyle.Render(" (" + c.summary + ")"))
	}

	if body := c.clampedBody(); body != "" {
		b.WriteString("\n")
		bodyStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			PaddingLeft(2)
		b.WriteString(bodyStyle.Render(body))
	}

	borderColor := styles.SuccessHighContrast
	if c.streaming {
		borderColor = styles.InfoHighContrast
	} else if !c.success {
		borderColor = styles.ErrorHighContrast
	}

	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		BorderLeft(true).
		PaddingLeft(1)
	if c.width > 4 {
		boxStyle = boxStyle.MaxWidth(c.width)
	}

	return boxStyle.Render(b.String())
}

// clampedBody limits the body to maxBodyLines, appending an elision count.
func (c card) clampedBody() string {
	if c.body == "" {
		return ""
	}
	lines := strings.Split(c.body, "\n")
	if len(lines) <= maxBodyLines {
		return c.body
	}
	remaining := len(lines) - maxBodyLines
	lines = lines[:maxBodyLines]
	lines = append(lines, "... ("+util.IntToString(remaining)+" more lines)")
	return strings.Join(lines, "\n")
}

// emptyState renders the explicit "no content" placeholder used when a view
// has nothing to show. Absent content is an expected state, never an error.
func emptyState(title string) string {
	muted := lipgloss.NewStyle().Foreground(styles.TextMuted)
	return muted.Render(styles.StatusIndicators.Info + " " + title + ": no content")
}

// firstLines returns up to n leading lines of s.
func firstLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:n], "\n")
}
