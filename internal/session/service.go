// Package session ties a conversation identifier to its message log and
// task rows and owns the conversation lifecycle. This is the surface the
// UI shell calls; everything runs synchronously to completion.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/taskline/taskline/internal/assembler"
	"github.com/taskline/taskline/internal/core"
	"github.com/taskline/taskline/internal/logger"
	"github.com/taskline/taskline/internal/metrics"
	"github.com/taskline/taskline/internal/runner"
	"github.com/taskline/taskline/internal/store"
	"github.com/taskline/taskline/tools"
)

// DefaultAgentTimeout bounds a single reasoning-component call so a stalled
// provider cannot block the session indefinitely.
const DefaultAgentTimeout = 60 * time.Second

// Service orchestrates the append -> assemble -> invoke -> append-reply
// sequence for each utterance. All dependencies are injected; there is no
// global store handle.
type Service struct {
	store   *store.Store
	client  *anthropic.Client
	model   anthropic.Model
	timeout time.Duration
	log     *logger.Logger
}

func NewService(st *store.Store, client *anthropic.Client, model anthropic.Model, timeout time.Duration, log *logger.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultAgentTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:   st,
		client:  client,
		model:   model,
		timeout: timeout,
		log:     log.Component("session"),
	}
}

// Create makes the conversation active. Recreating an existing id is a no-op.
func (s *Service) Create(id, title string) error {
	return s.store.CreateConversation(id, title)
}

// Delete destroys the conversation and cascades to its messages and tasks.
// The id is reusable afterwards only as a brand-new session with fresh state.
func (s *Service) Delete(id string) error {
	if err := s.store.DeleteConversation(id); err != nil {
		return err
	}
	s.log.Info().Str("conversation_id", id).Msg("conversation deleted")
	return nil
}

// Send appends a human-origin utterance, rebuilds the full agent context
// from the log, invokes the agent with the toolbox bound to this
// conversation, and appends the agent's reply.
//
// If the agent call fails, the already-committed user message stays in the
// log and the error propagates wrapped as an agent-invocation failure.
func (s *Service) Send(ctx context.Context, conversationID string, sender core.Role, content string) (string, error) {
	if err := s.store.AppendMessage(conversationID, sender, content); err != nil {
		return "", err
	}
	metrics.MessagesAppended.WithLabelValues(string(sender)).Inc()

	msgs, err := s.store.ListMessages(conversationID)
	if err != nil {
		return "", err
	}
	asm := assembler.Build(conversationID, msgs)

	r := runner.New(s.client, tools.Registry(s.store, conversationID), s.log)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, toolCalls, err := r.RunTurn(callCtx, s.model, asm)
	if err != nil {
		s.log.Error().
			Str("conversation_id", conversationID).
			Err(err).
			Msg("agent turn failed")
		return "", err
	}

	s.log.Info().
		Str("conversation_id", conversationID).
		Str("sender", string(sender)).
		Int("tool_calls", toolCalls).
		Msg("agent turn completed")

	if strings.TrimSpace(reply) != "" {
		if err := s.store.AppendMessage(conversationID, core.RoleAgent, reply); err != nil {
			return "", err
		}
		metrics.MessagesAppended.WithLabelValues(string(core.RoleAgent)).Inc()
	}
	return reply, nil
}

// BuildAgentContext exposes context assembly for callers that want to
// inspect exactly what the agent would receive.
func (s *Service) BuildAgentContext(conversationID string) (assembler.Context, error) {
	msgs, err := s.store.ListMessages(conversationID)
	if err != nil {
		return assembler.Context{}, err
	}
	return assembler.Build(conversationID, msgs), nil
}

// ListMessages returns the conversation log in display order.
func (s *Service) ListMessages(conversationID string) ([]core.Message, error) {
	return s.store.ListMessages(conversationID)
}

// ListTasks returns the conversation's tasks without involving the agent.
func (s *Service) ListTasks(conversationID string) ([]core.Task, error) {
	return s.store.ListTasks(conversationID)
}

// CreateTask inserts a task directly, bypassing the agent.
func (s *Service) CreateTask(conversationID, title, assignedTo string, status core.Status, dueDate *string) (int64, error) {
	return s.store.CreateTask(conversationID, title, assignedTo, status, dueDate)
}

// UpdateTaskStatus overwrites a task's status directly, bypassing the agent.
func (s *Service) UpdateTaskStatus(taskID int64, status core.Status) error {
	return s.store.UpdateTaskStatus(taskID, status)
}
