// Package store provides SQLite-backed persistence for conversations,
// their message logs, and their task lists.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/taskline/taskline/internal/core"
)

// Store wraps an injected database handle. Every operation auto-commits
// individually; multi-statement deletes run inside one transaction.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// The log is single-writer; one connection keeps :memory: databases stable too.
	db.SetMaxOpenConns(1)
	return db, nil
}

// New returns a Store bound to an existing database handle.
func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("new store: db is nil")
	}
	return &Store{db: db}, nil
}

// ioErr tags a driver failure with the store I/O sentinel, keeping the
// driver detail as text.
func ioErr(err error) error {
	return fmt.Errorf("%w: %v", core.ErrStoreIO, err)
}

func nowUTC() (time.Time, string) {
	t := time.Now().UTC()
	return t, t.Format(time.RFC3339Nano)
}

// CreateConversation inserts a conversation row. Recreating an existing id
// is a no-op, so callers may create idempotently on startup.
func (s *Store) CreateConversation(id, title string) error {
	if id == "" {
		return fmt.Errorf("create conversation: id is empty")
	}
	_, now := nowUTC()
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO conversations (id, title, created_at) VALUES (?, ?, ?)`,
		id, title, now,
	)
	if err != nil {
		return fmt.Errorf("create conversation: insert: %w", ioErr(err))
	}
	return nil
}

// GetConversation returns the conversation row for id.
func (s *Store) GetConversation(id string) (core.Conversation, error) {
	var c core.Conversation
	var createdAtStr string
	row := s.db.QueryRow(`SELECT id, title, created_at FROM conversations WHERE id = ?`, id)
	err := row.Scan(&c.ID, &c.Title, &createdAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Conversation{}, fmt.Errorf("get conversation %q: %w", id, core.ErrNotFound)
		}
		return core.Conversation{}, fmt.Errorf("get conversation: scan: %w", ioErr(err))
	}
	c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return core.Conversation{}, fmt.Errorf("get conversation: parse created_at: %w", err)
	}
	return c, nil
}

// ConversationExists reports whether a conversation row exists for id.
func (s *Store) ConversationExists(id string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM conversations WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("conversation exists: query: %w", ioErr(err))
	}
	return n > 0, nil
}

// DeleteConversation removes a conversation and cascades to its messages
// and tasks. The tasks/messages id sequences are reset only when no other
// conversation remains, so ids stay unique across live conversations.
func (s *Store) DeleteConversation(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete conversation: begin tx: %w", ioErr(err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.Exec(`DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete conversation: delete row: %w", ioErr(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete conversation: rows affected: %w", ioErr(err))
	}
	if affected == 0 {
		return fmt.Errorf("delete conversation %q: %w", id, core.ErrNotFound)
	}

	if _, err = tx.Exec(`DELETE FROM tasks WHERE conversation_id = ?`, id); err != nil {
		return fmt.Errorf("delete conversation: purge tasks: %w", ioErr(err))
	}
	if _, err = tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return fmt.Errorf("delete conversation: purge messages: %w", ioErr(err))
	}

	var remaining int
	if err = tx.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&remaining); err != nil {
		return fmt.Errorf("delete conversation: count remaining: %w", ioErr(err))
	}
	if remaining == 0 {
		// Full reset: start task and message ids from 1 again so a recreated
		// conversation cannot be confused with the deleted one.
		if _, err = tx.Exec(`DELETE FROM sqlite_sequence WHERE name IN ('tasks', 'messages')`); err != nil {
			return fmt.Errorf("delete conversation: reset sequences: %w", ioErr(err))
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("delete conversation: commit: %w", ioErr(err))
	}
	return nil
}
