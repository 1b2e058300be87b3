// strand TUI - A terminal client for the strand agent platform.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/jeranaias/strand-tui/internal/artifacts"
	"github.com/jeranaias/strand-tui/internal/bus"
	"github.com/jeranaias/strand-tui/internal/call"
	"github.com/jeranaias/strand-tui/internal/config"
	"github.com/jeranaias/strand-tui/internal/kb"
	"github.com/jeranaias/strand-tui/internal/storage"
	"github.com/jeranaias/strand-tui/internal/toolview"
	"github.com/jeranaias/strand-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		threadID     = flag.String("thread", "", "thread ID to open")
		playback     = flag.Bool("playback", false, "replay a stored thread read-only")
		uploadFolder = flag.String("upload-folder", "", "knowledge base folder ID for ctrl+u uploads")
		watchCall    = flag.String("watch-call", "", "call ID to monitor for live status updates")
		showVersion  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("strand %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(*threadID, *playback, *uploadFolder, *watchCall); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(threadID string, playback bool, uploadFolder, watchCall string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// An API token is required for knowledge base and call features. Prompt
	// once when the terminal is interactive; read-only playback works
	// without one.
	if cfg.API.Token == "" && !playback && term.IsTerminal(int(os.Stdin.Fd())) {
		token, err := promptToken()
		if err != nil {
			return err
		}
		cfg.API.Token = token
	}

	store, err := storage.Open(filepath.Join(cfg.Storage.Dir, "threads.db"))
	if err != nil {
		return fmt.Errorf("opening thread store: %w", err)
	}
	defer store.Close()

	// Event plumbing: canvas-touching tool results and filesystem artifact
	// changes both publish refresh events on the bus; the TUI subscribes.
	canvasBus := bus.New[bus.CanvasUpdated]()
	notifier := bus.NewCanvasNotifier(canvasBus, bus.DefaultNotifyDelay)
	defer notifier.Stop()

	registry := toolview.NewBuiltinRegistry()
	reclassifier := toolview.NewReclassifier(registry, notifier)

	var kbClient *kb.Client
	if cfg.API.Token != "" {
		kbClient = kb.NewClient(cfg.API.BaseURL, cfg.API.Token)
	}

	var watcher *artifacts.Watcher
	if cfg.Artifacts.WatchDir != "" {
		watcher, err = artifacts.NewWatcher(cfg.Artifacts.WatchDir, canvasBus, cfg.ArtifactsDebounce())
		if err != nil {
			return fmt.Errorf("watching artifacts dir: %w", err)
		}
		if err := watcher.Watch(); err != nil {
			return fmt.Errorf("starting artifact watcher: %w", err)
		}
		defer watcher.Close()
	}

	m := chat.New(chat.Options{
		Registry:         registry,
		Reclassifier:     reclassifier,
		KB:               kbClient,
		UploadFolderID:   uploadFolder,
		ThrottleInterval: cfg.ThrottleInterval(),
		Playback:         playback,
		MaxWidth:         cfg.UI.MaxWidth,
	})
	defer m.Teardown()

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Canvas refresh events cross from the bus goroutines into the Bubble
	// Tea loop via p.Send.
	unsubscribe := canvasBus.Subscribe(func(ev bus.CanvasUpdated) {
		p.Send(chat.CanvasUpdatedMsg{Event: ev})
	})
	defer unsubscribe()

	var monitor *call.Monitor
	if watchCall != "" && cfg.API.Token != "" {
		monitor = call.NewMonitor(cfg.API.BaseURL, cfg.API.Token, watchCall,
			cfg.CallPollInterval(), func(st call.State) {
				p.Send(chat.CallStateMsg{State: st})
			})
		defer monitor.Stop()
	}

	if threadID == "" && !playback {
		// A fresh session gets a new thread identity up front so every
		// message persists under a stable ID.
		threadID = uuid.NewString()
		now := time.Now()
		if err := store.SaveThread(storage.Thread{
			ID:        threadID,
			Title:     "New thread",
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("creating thread: %w", err)
		}
	}
	if threadID != "" {
		load := chat.LoadThreadCmd(store, threadID)
		go p.Send(load())
	}
	if monitor != nil {
		if err := monitor.Start(context.Background()); err != nil {
			return fmt.Errorf("starting call monitor: %w", err)
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// promptToken reads the API token without echoing it.
func promptToken() (string, error) {
	fmt.Fprint(os.Stderr, "strand API token: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
