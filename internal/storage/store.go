// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists threads and their unified messages in SQLite for
// read-only playback. Messages keep the exact JSON-string content and
// metadata they arrived with; playback re-runs the same grouping and
// rendering pipeline the live view uses.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/strand-tui/internal/model"
)

// ErrThreadNotFound indicates the requested thread does not exist.
var ErrThreadNotFound = errors.New("thread not found")

// schema holds threads and their messages. Messages order by sequence
// within a thread; content and metadata stay as the raw JSON strings the
// platform delivered.
const schema = `
CREATE TABLE IF NOT EXISTS threads (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    agent_id TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL, -- Unix nanoseconds
    updated_at INTEGER NOT NULL  -- Unix nanoseconds
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS messages (
    thread_id TEXT NOT NULL,
    message_id TEXT NOT NULL,
    sequence INTEGER NOT NULL,
    type TEXT NOT NULL,
    content TEXT NOT NULL,
    metadata TEXT NOT NULL DEFAULT '',
    agent_id TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL, -- Unix nanoseconds
    PRIMARY KEY (thread_id, message_id),
    FOREIGN KEY (thread_id) REFERENCES threads(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_messages_thread_seq ON messages(thread_id, sequence);
`

// Thread is a stored thread's header row.
type Thread struct {
	ID        string
	Title     string
	AgentID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the SQLite-backed thread store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// THREADS
// =============================================================================

// SaveThread inserts or updates a thread header.
func (s *Store) SaveThread(t Thread) error {
	if t.ID == "" {
		return errors.New("thread id required")
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO threads (id, title, agent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			agent_id = excluded.agent_id,
			updated_at = excluded.updated_at`,
		t.ID, t.Title, t.AgentID, t.CreatedAt.UnixNano(), t.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save thread: %w", err)
	}
	return nil
}

// ListThreads returns all threads, most recently updated first.
func (s *Store) ListThreads() ([]Thread, error) {
	rows, err := s.db.Query(`
		SELECT id, title, agent_id, created_at, updated_at
		FROM threads
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	var threads []Thread
	for rows.Next() {
		var t Thread
		var created, updated int64
		if err := rows.Scan(&t.ID, &t.Title, &t.AgentID, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		t.CreatedAt = time.Unix(0, created)
		t.UpdatedAt = time.Unix(0, updated)
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

// GetThread loads one thread header.
func (s *Store) GetThread(id string) (Thread, error) {
	var t Thread
	var created, updated int64
	err := s.db.QueryRow(`
		SELECT id, title, agent_id, created_at, updated_at
		FROM threads WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &t.AgentID, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Thread{}, ErrThreadNotFound
	}
	if err != nil {
		return Thread{}, fmt.Errorf("failed to load thread: %w", err)
	}
	t.CreatedAt = time.Unix(0, created)
	t.UpdatedAt = time.Unix(0, updated)
	return t, nil
}

// =============================================================================
// MESSAGES
// =============================================================================

// AppendMessages adds messages to a thread in one transaction. Re-appending
// an already stored message id replaces it, so re-syncing a thread is safe.
func (s *Store) AppendMessages(threadID string, msgs []model.UnifiedMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO messages
			(thread_id, message_id, sequence, type, content, metadata, agent_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range msgs {
		if _, err := stmt.Exec(threadID, m.ID, m.Sequence, string(m.Type),
			m.Content, m.Metadata, m.AgentID, m.CreatedAt.UnixNano()); err != nil {
			return fmt.Errorf("failed to insert message %s: %w", m.ID, err)
		}
	}

	if _, err := tx.Exec(`UPDATE threads SET updated_at = ? WHERE id = ?`,
		time.Now().UnixNano(), threadID); err != nil {
		return fmt.Errorf("failed to touch thread: %w", err)
	}

	return tx.Commit()
}

// LoadMessages returns a thread's messages ordered by sequence.
func (s *Store) LoadMessages(threadID string) ([]model.UnifiedMessage, error) {
	if _, err := s.GetThread(threadID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT message_id, sequence, type, content, metadata, agent_id, created_at
		FROM messages
		WHERE thread_id = ?
		ORDER BY sequence ASC`, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	var msgs []model.UnifiedMessage
	for rows.Next() {
		var m model.UnifiedMessage
		var msgType string
		var created int64
		if err := rows.Scan(&m.ID, &m.Sequence, &msgType, &m.Content,
			&m.Metadata, &m.AgentID, &created); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.ThreadID = threadID
		m.Type = model.MessageType(msgType)
		m.CreatedAt = time.Unix(0, created)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
