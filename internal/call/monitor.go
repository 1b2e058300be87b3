// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package call tracks a live phone call placed by an agent. Updates arrive
// on two paths that write the same state: a websocket push subscription for
// low latency, and a polling backup that re-fetches the call on a ticker so
// a dropped socket never strands the card on a stale status.
package call

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultPollInterval is the polling backup cadence.
	DefaultPollInterval = 5 * time.Second

	// dialTimeout bounds the websocket handshake.
	dialTimeout = 10 * time.Second

	// maxEventSize caps a single pushed event.
	maxEventSize = 1 << 20
)

// ErrMonitorStopped is returned by Start after Stop has been called.
var ErrMonitorStopped = errors.New("call monitor stopped")

// terminal call statuses; once seen, polling continues only until Stop.
var terminalStatuses = map[string]bool{
	"completed": true,
	"failed":    true,
	"no_answer": true,
	"canceled":  true,
}

// State is the monitored call snapshot. Both the push and poll paths
// produce the same shape, so applying either is idempotent.
type State struct {
	CallID     string `json:"call_id"`
	Status     string `json:"status"`
	Transcript string `json:"transcript"`
}

// Terminal reports whether the call has reached a final status.
func (s State) Terminal() bool {
	return terminalStatuses[s.Status]
}

// Monitor watches one call. Create with NewMonitor, run with Start, and
// always call Stop when the card unmounts so no goroutine dangles.
type Monitor struct {
	baseURL      string
	token        string
	callID       string
	pollInterval time.Duration
	httpClient   *http.Client
	onUpdate     func(State)

	mu      sync.Mutex
	state   State
	conn    *websocket.Conn
	stopped bool
	cancel  context.CancelFunc
	done    sync.WaitGroup
}

// NewMonitor creates a monitor for callID. onUpdate fires on every state
// change, from monitor-owned goroutines; callers typically forward it into
// their Bubble Tea program.
func NewMonitor(baseURL, token, callID string, pollInterval time.Duration, onUpdate func(State)) *Monitor {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Monitor{
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        token,
		callID:       callID,
		pollInterval: pollInterval,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		onUpdate:     onUpdate,
		state:        State{CallID: callID, Status: "pending"},
	}
}

// Start begins the websocket subscription and the polling backup. The
// websocket is best effort: a failed dial leaves polling as the only feed
// rather than failing the monitor.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return ErrMonitorStopped
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	if conn, err := m.dial(ctx); err == nil {
		m.mu.Lock()
		m.conn = conn
		m.mu.Unlock()

		m.done.Add(1)
		go m.readLoop(ctx, conn)
	}

	m.done.Add(1)
	go m.pollLoop(ctx)

	return nil
}

// Stop tears the monitor down: the socket closes, the ticker stops, and
// both goroutines exit before Stop returns. Safe to call more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	if m.cancel != nil {
		m.cancel()
	}
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.mu.Unlock()

	m.done.Wait()
}

// Current returns the latest snapshot.
func (m *Monitor) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// =============================================================================
// PUSH CHANNEL
// =============================================================================

// dial opens the websocket event subscription for the call.
func (m *Monitor) dial(ctx context.Context) (*websocket.Conn, error) {
	wsURL := m.baseURL
	switch {
	case strings.HasPrefix(wsURL, "https://"):
		wsURL = "wss://" + strings.TrimPrefix(wsURL, "https://")
	case strings.HasPrefix(wsURL, "http://"):
		wsURL = "ws://" + strings.TrimPrefix(wsURL, "http://")
	}
	wsURL = fmt.Sprintf("%s/calls/%s/events", wsURL, m.callID)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+m.token)

	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, resp, err := dialer.DialContext(ctx, wsURL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	conn.SetReadLimit(maxEventSize)
	return conn, nil
}

// readLoop consumes pushed call events until the socket closes.
func (m *Monitor) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer m.done.Done()

	for {
		var next State
		if err := conn.ReadJSON(&next); err != nil {
			// Closed socket or malformed frame; the poll loop keeps the
			// state fresh from here.
			return
		}
		if ctx.Err() != nil {
			return
		}
		next.CallID = m.callID
		m.apply(next)
	}
}

// =============================================================================
// POLLING BACKUP
// =============================================================================

// pollLoop re-fetches the call on a ticker until the context is canceled.
func (m *Monitor) pollLoop(ctx context.Context) {
	defer m.done.Done()

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if next, err := m.fetch(ctx); err == nil {
				m.apply(next)
			}
		}
	}
}

// fetch performs one poll of the call resource.
func (m *Monitor) fetch(ctx context.Context) (State, error) {
	url := fmt.Sprintf("%s/calls/%s", m.baseURL, m.callID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return State{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.token)

	resp, err := m.httpClient.Do(req)
	req.Header.Del("Authorization")
	if err != nil {
		return State{}, fmt.Errorf("poll failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxEventSize))
		return State{}, fmt.Errorf("poll failed with status %d", resp.StatusCode)
	}

	var next State
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxEventSize)).Decode(&next); err != nil {
		return State{}, fmt.Errorf("failed to parse call: %w", err)
	}
	next.CallID = m.callID
	return next, nil
}

// =============================================================================
// STATE APPLICATION
// =============================================================================

// apply installs a snapshot. Last write wins; a snapshot identical to the
// current state is dropped so duplicate push/poll deliveries do not fan out
// redundant updates.
func (m *Monitor) apply(next State) {
	m.mu.Lock()
	if m.stopped || next == m.state {
		m.mu.Unlock()
		return
	}
	m.state = next
	notify := m.onUpdate
	m.mu.Unlock()

	if notify != nil {
		notify(next)
	}
}
