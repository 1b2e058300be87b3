// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/strand-tui/internal/ui/styles"
	"github.com/jeranaias/strand-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom status bar
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusStreaming
	StatusWorking
	StatusUploading
	StatusError
	StatusIdle
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusStreaming:
		return "Streaming..."
	case StatusWorking:
		return "Working..."
	case StatusUploading:
		return "Uploading..."
	case StatusError:
		return "Error"
	case StatusIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status.
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusStreaming:
		return "~"
	case StatusWorking, StatusUploading:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	case StatusIdle:
		return "-"
	default:
		return "?"
	}
}

// StatusBar is the bottom bar: status, thread stats, upload progress,
// scroll position, and shortcut hints.
type StatusBar struct {
	Status        Status
	Width         int
	MessageCount  int
	ScrollPos     string // From the viewport, e.g. "[15/100]"
	UploadNote    string // Transient, e.g. "uploaded 3 files (1 failed)"
	CallNote      string // Transient call status, e.g. "call: in_progress"
	ShowShortcuts bool
}

// NewStatusBar creates a StatusBar with defaults.
func NewStatusBar() *StatusBar {
	return &StatusBar{
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus updates the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetMessageCount updates the thread message counter.
func (s *StatusBar) SetMessageCount(n int) {
	s.MessageCount = n
}

// SetScrollPos updates the scroll position indicator.
func (s *StatusBar) SetScrollPos(pos string) {
	s.ScrollPos = pos
}

// SetUploadNote sets the transient knowledge-base upload summary. Empty
// clears it.
func (s *StatusBar) SetUploadNote(note string) {
	s.UploadNote = note
}

// SetCallNote sets the transient phone-call status line. Empty clears it.
func (s *StatusBar) SetCallNote(note string) {
	s.CallNote = note
}

// View renders the status bar, picking a layout for the available width.
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	return s.viewWide()
}

// viewNarrow renders a compact bar: icon, message count, scroll position.
func (s *StatusBar) viewNarrow() string {
	parts := []string{
		s.getStatusStyle().Render(s.Status.Icon()),
		lipgloss.NewStyle().Foreground(styles.TextMuted).Render(fmtNumber(s.MessageCount) + " msg"),
	}
	if s.ScrollPos != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.TextMuted).Render(s.ScrollPos))
	}

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Width(s.Width).
		Render(strings.Join(parts, " "))
}

// viewWide renders the full bar.
// Format: Status | N messages | upload note | call note ... [x/y] ^C stop
func (s *StatusBar) viewWide() string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	var leftParts []string
	leftParts = append(leftParts, s.getStatusStyle().Render(s.Status.String()))

	countStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	leftParts = append(leftParts, countStyle.Render(fmtNumber(s.MessageCount)+" messages"))

	if s.UploadNote != "" {
		uploadStyle := lipgloss.NewStyle().Foreground(styles.Amber)
		leftParts = append(leftParts, uploadStyle.Render(util.TruncateWidth(s.UploadNote, 40)))
	}
	if s.CallNote != "" {
		callStyle := lipgloss.NewStyle().Foreground(styles.Cyan)
		leftParts = append(leftParts, callStyle.Render(util.TruncateWidth(s.CallNote, 32)))
	}

	leftSection := strings.Join(leftParts, separator)

	var rightParts []string
	if s.ScrollPos != "" {
		posStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		rightParts = append(rightParts, posStyle.Render(s.ScrollPos))
	}
	if s.ShowShortcuts {
		rightParts = append(rightParts, s.renderShortcuts())
	}
	rightSection := strings.Join(rightParts, " ")

	spacing := s.Width - lipgloss.Width(leftSection) - lipgloss.Width(rightSection) - 4
	if spacing < 1 {
		spacing = 1
	}

	result := leftSection + strings.Repeat(" ", spacing) + rightSection

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(styles.Overlay).
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// renderShortcuts renders keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	shortcuts := []string{
		keyStyle.Render("^U") + descStyle.Render("upload"),
		keyStyle.Render("^C") + descStyle.Render("quit"),
	}
	return strings.Join(shortcuts, " ")
}

// getStatusStyle returns the style for the current status.
// ACCESSIBILITY: Uses high contrast colors with bold for colorblind users
func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.Status {
	case StatusReady:
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast).Bold(true)
	case StatusStreaming, StatusWorking:
		return lipgloss.NewStyle().Foreground(styles.InfoHighContrast).Bold(true)
	case StatusUploading:
		return lipgloss.NewStyle().Foreground(styles.WarningHighContrast).Bold(true)
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	case StatusIdle:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}
