// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/strand-tui/internal/model"
	"github.com/jeranaias/strand-tui/internal/thread"
	"github.com/jeranaias/strand-tui/internal/ui/components"
	"github.com/jeranaias/strand-tui/internal/util"
)

// noteLifetime controls how long transient status-bar notes stay visible.
const noteLifetime = 5 * time.Second

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages for the thread view. The receiver is
// mutated in place and returned; internal handlers stay concretely typed.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ThreadLoadedMsg:
		return m.handleThreadLoaded(msg)

	case NewMessageMsg:
		m.appendMessage(msg.Message)
		return m, nil

	case StreamStartMsg:
		return m.handleStreamStart(msg)

	case StreamDeltaMsg:
		m.streamBuffer.Write(msg.Delta)
		return m, nil

	case StreamTickMsg:
		return m.handleStreamTick()

	case StreamToolCallMsg:
		return m.handleStreamToolCall(msg)

	case previewFlushMsg:
		return m.handlePreviewFlush(msg)

	case StreamDoneMsg:
		return m.handleStreamDone(msg)

	case CanvasUpdatedMsg:
		return m.handleCanvasUpdated(msg)

	case UploadStartedMsg:
		m.uploading = true
		m.statusBar.SetStatus(components.StatusUploading)
		m.statusBar.SetUploadNote("uploading " + util.IntToString(msg.FileCount) + " files")
		return m, nil

	case UploadDoneMsg:
		return m.handleUploadDone(msg)

	case CallStateMsg:
		return m.handleCallState(msg)

	case ErrorMsg:
		m.lastError = &msg
		m.state = StateError
		m.statusBar.SetStatus(components.StatusError)
		return m, nil

	case ErrorDismissMsg:
		return m.dismissError()

	case noteExpiredMsg:
		if msg.generation == m.noteGeneration {
			m.statusBar.SetUploadNote("")
			m.statusBar.SetCallNote("")
		}
		return m, nil
	}

	// Everything else (spinner frames, viewport internals) flows through
	// the child components.
	return m.updateComponents(msg)
}

// =============================================================================
// LAYOUT AND INPUT
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) (*Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	m.theme.SetSize(msg.Width, msg.Height)
	m.header.SetWidth(msg.Width)
	m.statusBar.SetWidth(msg.Width)
	m.input.SetWidth(msg.Width - 2)

	// Header, input, and status bar each take fixed rows; the viewport
	// gets the rest.
	chrome := 2 + 1 // header + status bar
	if m.state != StatePlayback {
		chrome += m.input.Height() + 1
	}
	vpHeight := msg.Height - chrome
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.SetSize(msg.Width, vpHeight)

	m.refreshContent()
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.Teardown()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.DismissError):
		if m.lastError != nil {
			return m.dismissError()
		}

	case key.Matches(msg, m.keyMap.JumpBottom):
		m.viewport.ScrollToBottom()
		m.statusBar.SetScrollPos(m.viewport.GetScrollPosition())
		return m, nil

	case key.Matches(msg, m.keyMap.Upload):
		return m.startUpload()

	case key.Matches(msg, m.keyMap.Submit):
		if m.state != StatePlayback {
			return m.submitInput()
		}
	}

	// Scroll keys go to the viewport; printable input goes to the textarea.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if isScrollKey(msg, m.keyMap) || m.state == StatePlayback {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		m.statusBar.SetScrollPos(m.viewport.GetScrollPosition())
	} else {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func isScrollKey(msg tea.KeyMsg, km KeyMap) bool {
	return key.Matches(msg, km.ScrollUp) ||
		key.Matches(msg, km.ScrollDown) ||
		key.Matches(msg, km.PageUp) ||
		key.Matches(msg, km.PageDown)
}

func (m *Model) submitInput() (*Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.Reset()

	echo := model.UnifiedMessage{
		ID:        "local-" + util.IntToString(len(m.messages)),
		ThreadID:  m.threadID,
		Type:      model.TypeUser,
		Content:   text,
		CreatedAt: time.Now(),
		Sequence:  nextSequence(m.messages),
	}
	m.appendMessage(echo)

	if m.onSubmit == nil {
		return m, nil
	}
	return m, m.onSubmit(text)
}

// nextSequence returns a sequence after every known message so local echoes
// sort last until the platform assigns the real ordering.
func nextSequence(msgs []model.UnifiedMessage) int64 {
	var max int64
	for _, msg := range msgs {
		if msg.Sequence > max {
			max = msg.Sequence
		}
	}
	return max + 1
}

// startUpload treats the input box content as whitespace-separated local
// file paths and ships them to the knowledge base folder.
func (m *Model) startUpload() (*Model, tea.Cmd) {
	if m.kbClient == nil || m.uploading {
		return m, nil
	}
	paths := strings.Fields(m.input.Value())
	if len(paths) == 0 {
		return m, nil
	}
	m.input.Reset()

	return m, tea.Batch(
		func() tea.Msg { return UploadStartedMsg{FileCount: len(paths)} },
		UploadFilesCmd(m.kbClient, m.uploadFolderID, paths),
	)
}

func (m *Model) dismissError() (*Model, tea.Cmd) {
	m.lastError = nil
	if m.state == StateError {
		m.state = StateReady
		m.statusBar.SetStatus(components.StatusReady)
	}
	return m, nil
}

// =============================================================================
// THREAD LIFECYCLE
// =============================================================================

func (m *Model) handleThreadLoaded(msg ThreadLoadedMsg) (*Model, tea.Cmd) {
	if msg.Error != nil {
		m.lastError = &ErrorMsg{Title: "Thread load failed", Message: msg.Error.Error()}
		m.state = StateError
		m.statusBar.SetStatus(components.StatusError)
		return m, nil
	}

	m.SetThread(msg.Thread.ID, msg.Thread.Title, msg.Thread.AgentID)
	m.messages = msg.Messages
	m.overlay = thread.Overlay{}
	m.viewport.ScrollToBottom()
	m.refreshContent()
	if m.state != StatePlayback {
		m.statusBar.SetStatus(components.StatusReady)
	}
	return m, nil
}

// =============================================================================
// STREAMING LIFECYCLE
// =============================================================================

func (m *Model) handleStreamStart(msg StreamStartMsg) (*Model, tea.Cmd) {
	m.state = StateStreaming
	m.streamAgent = msg.AgentID
	m.streamBuffer.Reset()
	m.overlay = thread.Overlay{}
	m.previewText = ""
	m.statusBar.SetStatus(components.StatusStreaming)
	m.header.SetConnection(components.ConnLive)

	return m, tea.Batch(m.spinner.Start(), streamTickCmd())
}

func (m *Model) handleStreamTick() (*Model, tea.Cmd) {
	if m.state != StateStreaming {
		return m, nil
	}
	if chunk, ok := m.streamBuffer.Flush(); ok {
		m.overlay.StreamingText += chunk
		m.refreshContent()
	}
	return m, streamTickCmd()
}

func (m *Model) handleStreamToolCall(msg StreamToolCallMsg) (*Model, tea.Cmd) {
	tc := msg.ToolCall
	if m.overlay.StreamingToolCall == nil || m.overlay.StreamingToolCall.ID != tc.ID {
		m.overlay.StreamingToolCall = &tc
		m.refreshContent()
	}
	// Argument redraws are throttled; the flushed text comes back through
	// previewFlushMsg.
	m.throttle.Set(msg.RawArgs)
	return m, nil
}

func (m *Model) handlePreviewFlush(msg previewFlushMsg) (*Model, tea.Cmd) {
	m.previewText = msg.text
	if m.overlay.StreamingToolCall != nil {
		m.overlay.StreamingToolCall.RawArguments = msg.text
		m.refreshContent()
	}
	return m, listenPreview(m.previewCh)
}

func (m *Model) handleStreamDone(msg StreamDoneMsg) (*Model, tea.Cmd) {
	if chunk, ok := m.streamBuffer.ForceFlush(); ok {
		m.overlay.StreamingText += chunk
	}
	m.throttle.Flush()
	m.spinner.Stop()

	if msg.Error != nil {
		m.lastError = &ErrorMsg{Title: "Stream failed", Message: msg.Error.Error()}
		m.state = StateError
		m.statusBar.SetStatus(components.StatusError)
	} else {
		if msg.Final != nil {
			m.messages = append(m.messages, *msg.Final)
		} else if m.overlay.StreamingText != "" {
			// No finalized message arrived; persist the overlay text so
			// the turn survives regrouping.
			m.messages = append(m.messages, model.UnifiedMessage{
				ID:        "stream-" + util.IntToString(len(m.messages)),
				ThreadID:  m.threadID,
				Type:      model.TypeAssistant,
				Content:   m.overlay.StreamingText,
				AgentID:   m.streamAgent,
				CreatedAt: time.Now(),
				Sequence:  nextSequence(m.messages),
			})
		}
		m.state = StateReady
		m.statusBar.SetStatus(components.StatusReady)
	}

	m.overlay = thread.Overlay{}
	m.previewText = ""
	m.refreshContent()
	return m, nil
}

// =============================================================================
// SIDE CHANNELS
// =============================================================================

func (m *Model) handleCanvasUpdated(msg CanvasUpdatedMsg) (*Model, tea.Cmd) {
	m.canvasRev++
	m.noteGeneration++
	m.statusBar.SetUploadNote("canvas updated: " + msg.Event.CanvasPath)
	m.refreshContent()
	return m, expireNoteCmd(m.noteGeneration, noteLifetime)
}

func (m *Model) handleUploadDone(msg UploadDoneMsg) (*Model, tea.Cmd) {
	m.uploading = false
	m.noteGeneration++

	if msg.Error != nil {
		m.lastError = &ErrorMsg{Title: "Upload failed", Message: msg.Error.Error()}
		m.state = StateError
		m.statusBar.SetStatus(components.StatusError)
		m.statusBar.SetUploadNote("")
		return m, nil
	}

	m.statusBar.SetStatus(components.StatusReady)
	m.statusBar.SetUploadNote(msg.Report.Summary())
	return m, expireNoteCmd(m.noteGeneration, noteLifetime)
}

func (m *Model) handleCallState(msg CallStateMsg) (*Model, tea.Cmd) {
	st := msg.State
	m.callStates[st.CallID] = st
	m.statusBar.SetCallNote("call " + st.Status)
	m.refreshContent()

	if st.Terminal() {
		m.noteGeneration++
		return m, expireNoteCmd(m.noteGeneration, noteLifetime)
	}
	return m, nil
}

// =============================================================================
// COMPONENT PASSTHROUGH
// =============================================================================

func (m *Model) updateComponents(msg tea.Msg) (*Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	if m.state != StatePlayback {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}
