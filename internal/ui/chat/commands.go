// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/strand-tui/internal/kb"
	"github.com/jeranaias/strand-tui/internal/storage"
)

// =============================================================================
// COMMANDS
// =============================================================================

// LoadThreadCmd loads a stored thread and its messages.
func LoadThreadCmd(store *storage.Store, threadID string) tea.Cmd {
	return func() tea.Msg {
		th, err := store.GetThread(threadID)
		if err != nil {
			return ThreadLoadedMsg{Error: err}
		}
		msgs, err := store.LoadMessages(threadID)
		if err != nil {
			return ThreadLoadedMsg{Thread: th, Error: err}
		}
		return ThreadLoadedMsg{Thread: th, Messages: msgs}
	}
}

// UploadFilesCmd uploads a batch of local files to a knowledge base folder.
// Per-file failures land in the report rather than aborting the batch.
func UploadFilesCmd(client *kb.Client, folderID string, paths []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		report, err := client.UploadFiles(ctx, folderID, paths)
		return UploadDoneMsg{Report: report, Error: err}
	}
}

// listenPreview relays throttled tool-call preview text from the throttle
// goroutine into the update loop. Re-issued after every received value.
func listenPreview(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-ch
		if !ok {
			return nil
		}
		return previewFlushMsg{text: text}
	}
}

// expireNoteCmd clears a transient status-bar note after the delay, unless
// a newer note superseded it.
func expireNoteCmd(generation int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return noteExpiredMsg{generation: generation}
	})
}
