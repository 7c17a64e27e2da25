package core

import "time"

// Role identifies who authored a message. The set is open: any human
// participant role is accepted, only RoleAgent is treated specially.
type Role string

const (
	RoleYou      Role = "You"
	RoleEmployer Role = "Employer"
	RoleAgent    Role = "Agent"
)

// Status is a task's lifecycle label. Deliberately an open set: the store
// accepts any string and enforces no transition rules.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Conversation groups a message history and a task list under one id.
type Conversation struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

// Message is one immutable utterance in a conversation's log.
type Message struct {
	ID             int64
	ConversationID string
	Sender         Role
	Content        string
	Timestamp      time.Time
}

// Task is a unit of work extracted from the conversation.
type Task struct {
	ID             int64
	ConversationID string
	Title          string
	AssignedTo     string
	Status         Status
	DueDate        *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
