package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/taskline/taskline/internal/core"
)

// CreateTask inserts a task and returns its fresh, monotonically assigned id.
// Status defaults to OPEN when empty; any other string is accepted as-is.
func (s *Store) CreateTask(conversationID, title, assignedTo string, status core.Status, dueDate *string) (int64, error) {
	if title == "" {
		return 0, fmt.Errorf("create task: title is empty")
	}
	ok, err := s.ConversationExists(conversationID)
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("create task: conversation %q: %w", conversationID, core.ErrNotFound)
	}
	if status == "" {
		status = core.StatusOpen
	}

	_, now := nowUTC()
	var dueValue any
	if dueDate != nil {
		dueValue = *dueDate
	}
	res, err := s.db.Exec(
		`INSERT INTO tasks (conversation_id, title, assigned_to, status, due_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		conversationID, title, assignedTo, string(status), dueValue, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("create task: insert: %w", ioErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create task: last insert id: %w", ioErr(err))
	}
	return id, nil
}

// UpdateTaskStatus unconditionally overwrites a task's status and refreshes
// updated_at. No transition rules: any current/next status pair is allowed.
func (s *Store) UpdateTaskStatus(taskID int64, status core.Status) error {
	if status == "" {
		return fmt.Errorf("update task status: status is empty")
	}
	_, now := nowUTC()
	res, err := s.db.Exec(
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now, taskID,
	)
	if err != nil {
		return fmt.Errorf("update task status: update: %w", ioErr(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task status: rows affected: %w", ioErr(err))
	}
	if affected == 0 {
		return fmt.Errorf("update task status: task %d: %w", taskID, core.ErrNotFound)
	}
	return nil
}

// GetTask returns one task by id.
func (s *Store) GetTask(taskID int64) (core.Task, error) {
	row := s.db.QueryRow(
		`SELECT id, conversation_id, title, assigned_to, status, due_date, created_at, updated_at
		 FROM tasks WHERE id = ?`,
		taskID,
	)
	t, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, fmt.Errorf("get task %d: %w", taskID, core.ErrNotFound)
		}
		return core.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListTasks returns all tasks for a conversation in insertion (id) order.
func (s *Store) ListTasks(conversationID string) ([]core.Task, error) {
	rows, err := s.db.Query(
		`SELECT id, conversation_id, title, assigned_to, status, due_date, created_at, updated_at
		 FROM tasks
		 WHERE conversation_id = ?
		 ORDER BY id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: query: %w", ioErr(err))
	}
	defer rows.Close()

	tasks := make([]core.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: rows: %w", ioErr(err))
	}
	return tasks, nil
}

// PurgeTasks deletes all tasks for a conversation. Used only as part of
// conversation deletion; DeleteConversation is the usual entry point.
func (s *Store) PurgeTasks(conversationID string) error {
	if _, err := s.db.Exec(`DELETE FROM tasks WHERE conversation_id = ?`, conversationID); err != nil {
		return fmt.Errorf("purge tasks: %w", ioErr(err))
	}
	return nil
}

func scanTask(scan func(dest ...any) error) (core.Task, error) {
	var t core.Task
	var status, createdAtStr, updatedAtStr string
	var due sql.NullString
	err := scan(&t.ID, &t.ConversationID, &t.Title, &t.AssignedTo, &status, &due, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, err
		}
		return core.Task{}, fmt.Errorf("scan: %w", ioErr(err))
	}
	t.Status = core.Status(status)
	if due.Valid {
		d := due.String
		t.DueDate = &d
	}
	t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return core.Task{}, fmt.Errorf("parse created_at: %w", err)
	}
	t.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAtStr)
	if err != nil {
		return core.Task{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return t, nil
}
