// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/strand-tui/internal/call"
	"github.com/jeranaias/strand-tui/internal/kb"
	"github.com/jeranaias/strand-tui/internal/model"
	"github.com/jeranaias/strand-tui/internal/thread"
	"github.com/jeranaias/strand-tui/internal/toolview"
	"github.com/jeranaias/strand-tui/internal/ui/components"
	"github.com/jeranaias/strand-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the thread view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Receiving a live assistant turn
	StatePlayback               // Read-only stored thread
	StateError                  // Showing an error
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options wires the thread view to its collaborators. Zero-value fields
// disable the corresponding feature rather than failing.
type Options struct {
	Theme    *styles.Theme
	Registry *toolview.Registry

	// Reclassifier resolves tool cards; required for tool rendering.
	Reclassifier *toolview.Reclassifier

	// KB enables ctrl+u uploads when non-nil.
	KB             *kb.Client
	UploadFolderID string

	// OnSubmit turns submitted input into a command (typically sending the
	// message to the platform). Nil leaves submission as a local echo only.
	OnSubmit func(text string) tea.Cmd

	// ThrottleInterval caps live tool-call preview redraws. Zero uses the
	// default.
	ThrottleInterval time.Duration

	// Playback renders a stored thread read-only; input is hidden.
	Playback bool

	// MaxWidth caps rendered content width; 0 means terminal width.
	MaxWidth int
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the thread view.
type Model struct {
	// State
	state State

	// Styling
	theme    *styles.Theme
	maxWidth int

	// Dimensions
	width  int
	height int

	// Thread content
	threadID    string
	threadTitle string
	agentName   string
	messages    []model.UnifiedMessage
	overlay     thread.Overlay

	// Tool rendering
	registry     *toolview.Registry
	reclassifier *toolview.Reclassifier

	// Streaming pipeline. Deltas land in the buffer from the update loop,
	// periodic ticks flush them into the overlay, and the throttle gates
	// how often the in-flight tool-call preview re-renders.
	streamBuffer *StreamingBuffer
	throttle     *Throttle
	previewCh    chan string
	previewText  string
	streamAgent  string

	// Live call state keyed by call id; rendered into tool cards and the
	// status bar note.
	callStates map[string]call.State

	// Canvas refresh bookkeeping: bumping the revision invalidates the
	// rendered content cache so open canvas cards redraw.
	canvasRev int

	// Knowledge base
	kbClient       *kb.Client
	uploadFolderID string
	uploading      bool

	// Submission hook
	onSubmit func(string) tea.Cmd

	// UI components
	header    *components.Header
	statusBar *components.StatusBar
	viewport  *components.ThreadViewport
	spinner   components.Spinner
	input     textarea.Model

	// Markdown rendering
	markdown *glamour.TermRenderer

	// Key bindings
	keyMap KeyMap

	// Transient state
	lastError      *ErrorMsg
	noteGeneration int
}

// New creates a thread view model.
func New(opts Options) *Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Prompt = "> "
	ta.CharLimit = 8192
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	if !opts.Playback {
		ta.Focus()
	}

	markdown, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Assistant text degrades to plain output.
		markdown = nil
	}

	m := &Model{
		state:          StateReady,
		theme:          theme,
		maxWidth:       opts.MaxWidth,
		registry:       opts.Registry,
		reclassifier:   opts.Reclassifier,
		streamBuffer:   NewStreamingBuffer(),
		previewCh:      make(chan string, 16),
		callStates:     make(map[string]call.State),
		kbClient:       opts.KB,
		uploadFolderID: opts.UploadFolderID,
		onSubmit:       opts.OnSubmit,
		header:         components.NewHeader(),
		statusBar:      components.NewStatusBar(),
		viewport:       components.NewThreadViewport(),
		spinner:        components.NewThinkingSpinner(),
		input:          ta,
		markdown:       markdown,
		keyMap:         DefaultKeyMap(),
	}
	if opts.Playback {
		m.state = StatePlayback
	}

	// The throttle emits from its own timer goroutine; values cross back
	// into the update loop through previewCh.
	ch := m.previewCh
	m.throttle = NewThrottle(opts.ThrottleInterval, func(s string) {
		select {
		case ch <- s:
		default:
			// A full channel means the UI is behind; dropping an
			// intermediate preview is fine, the next emit supersedes it.
		}
	})

	return m
}

// Init starts the background listeners.
func (m *Model) Init() tea.Cmd {
	return listenPreview(m.previewCh)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current view state.
func (m *Model) State() State {
	return m.state
}

// Messages returns the thread messages currently held.
func (m *Model) Messages() []model.UnifiedMessage {
	return m.messages
}

// Streaming reports whether a live turn is in flight.
func (m *Model) Streaming() bool {
	return m.state == StateStreaming
}

// SetThread installs thread identity for the header.
func (m *Model) SetThread(id, title, agentName string) {
	m.threadID = id
	m.threadTitle = title
	m.agentName = agentName
	m.header.SetThread(title)
	m.header.SetAgent(agentName)
}

// Teardown releases timers and pending work. Call when the program exits
// or the view unmounts; late throttle emits are dropped from here on.
func (m *Model) Teardown() {
	m.throttle.Stop()
	m.streamBuffer.Reset()
}

// =============================================================================
// CONTENT PIPELINE
// =============================================================================

// refreshContent regroups the thread and pushes rendered text into the
// viewport. The viewport keeps its own scroll contract: pinned to bottom
// unless the user scrolled up.
func (m *Model) refreshContent() {
	groups := thread.GroupMessages(m.messages, m.overlay)
	results := thread.IndexToolResults(m.messages)
	m.viewport.SetContent(m.renderGroups(groups, results))
	m.statusBar.SetMessageCount(len(m.messages))
	m.statusBar.SetScrollPos(m.viewport.GetScrollPosition())
}

// contentWidth returns the width available for rendered thread content.
func (m *Model) contentWidth() int {
	w := m.width - 2
	if m.maxWidth > 0 && w > m.maxWidth {
		w = m.maxWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// appendMessage adds a finalized message, dropping the overlay duplicate
// it replaces.
func (m *Model) appendMessage(msg model.UnifiedMessage) {
	m.messages = append(m.messages, msg)
	m.refreshContent()
}
