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
// HEADER COMPONENT - Title bar with thread and connection state
// =============================================================================

// Connection represents how live updates are reaching the client.
type Connection int

const (
	ConnPolling Connection = iota
	ConnLive
	ConnOffline
)

// String returns the display string for the connection state.
func (c Connection) String() string {
	switch c {
	case ConnPolling:
		return "POLLING"
	case ConnLive:
		return "LIVE"
	case ConnOffline:
		return "OFFLINE"
	default:
		return "UNKNOWN"
	}
}

// Header is the title bar: app brand, thread name, agent, connection badge.
type Header struct {
	Title      string // App brand (default: "strand")
	ThreadName string // Current thread title
	AgentName  string // Agent handling the thread
	Connection Connection
	Width      int
}

// NewHeader creates a Header with default values.
func NewHeader() *Header {
	return &Header{
		Title:      "strand",
		Connection: ConnPolling,
		Width:      80,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetThread updates the displayed thread title.
func (h *Header) SetThread(name string) {
	h.ThreadName = name
}

// SetAgent updates the displayed agent name.
func (h *Header) SetAgent(name string) {
	h.AgentName = name
}

// SetConnection updates the connection badge.
func (h *Header) SetConnection(c Connection) {
	h.Connection = c
}

// View renders the boxed header.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	innerWidth := width - 6

	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)
	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("< ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" >")

	var subtitleParts []string
	if h.ThreadName != "" {
		threadStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		subtitleParts = append(subtitleParts, threadStyle.Render(util.TruncateWidth(h.ThreadName, innerWidth/2)))
	}
	if h.AgentName != "" {
		agentStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		subtitleParts = append(subtitleParts, agentStyle.Render(h.AgentName))
	}
	subtitleParts = append(subtitleParts, h.connectionStyle().Render("["+h.Connection.String()+"]"))
	subtitle := strings.Join(subtitleParts, " ")

	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	subtitleLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Foreground(styles.TextMuted).
		Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, brandLine, subtitleLine)

	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// ViewCompact renders a single-line header for narrow terminals.
// Format: <strand> | thread | agent | [LIVE]
func (h *Header) ViewCompact() string {
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)
	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("<") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(">")

	parts := []string{brand}
	if h.ThreadName != "" {
		threadStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		parts = append(parts, threadStyle.Render(util.TruncateWidth(h.ThreadName, 32)))
	}
	if h.AgentName != "" {
		agentStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		parts = append(parts, agentStyle.Render(h.AgentName))
	}
	parts = append(parts, h.connectionStyle().Render("["+h.Connection.String()+"]"))

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	return strings.Join(parts, separator)
}

// connectionStyle color-codes the connection badge.
func (h *Header) connectionStyle() lipgloss.Style {
	switch h.Connection {
	case ConnLive:
		return lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	case ConnPolling:
		return lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	case ConnOffline:
		return lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}
