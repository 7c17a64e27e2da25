package store

import (
	"fmt"
	"time"

	"github.com/taskline/taskline/internal/core"
)

// AppendMessage records one utterance at call time. The conversation must
// already exist; messages are immutable once written.
func (s *Store) AppendMessage(conversationID string, sender core.Role, content string) error {
	ok, err := s.ConversationExists(conversationID)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if !ok {
		return fmt.Errorf("append message: conversation %q: %w", conversationID, core.ErrNotFound)
	}

	_, now := nowUTC()
	_, err = s.db.Exec(
		`INSERT INTO messages (conversation_id, sender, content, timestamp) VALUES (?, ?, ?, ?)`,
		conversationID, string(sender), content, now,
	)
	if err != nil {
		return fmt.Errorf("append message: insert: %w", ioErr(err))
	}
	return nil
}

// ListMessages returns the conversation's full log in ascending timestamp
// order, ties broken by insertion order. Read-only; empty slice when none.
func (s *Store) ListMessages(conversationID string) ([]core.Message, error) {
	rows, err := s.db.Query(
		`SELECT id, conversation_id, sender, content, timestamp
		 FROM messages
		 WHERE conversation_id = ?
		 ORDER BY timestamp ASC, id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: query: %w", ioErr(err))
	}
	defer rows.Close()

	msgs := make([]core.Message, 0)
	for rows.Next() {
		var m core.Message
		var sender, tsStr string
		if err := rows.Scan(&m.ID, &m.ConversationID, &sender, &m.Content, &tsStr); err != nil {
			return nil, fmt.Errorf("list messages: scan: %w", ioErr(err))
		}
		m.Sender = core.Role(sender)
		m.Timestamp, err = time.Parse(time.RFC3339Nano, tsStr)
		if err != nil {
			return nil, fmt.Errorf("list messages: parse timestamp: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: rows: %w", ioErr(err))
	}
	return msgs, nil
}

// PurgeMessages deletes all messages for a conversation. Used only as part
// of conversation deletion; DeleteConversation is the usual entry point.
func (s *Store) PurgeMessages(conversationID string) error {
	if _, err := s.db.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conversationID); err != nil {
		return fmt.Errorf("purge messages: %w", ioErr(err))
	}
	return nil
}
