// Package assembler builds the reasoning context handed to the agent from
// the persisted message log. Assembly is deterministic: the same log
// contents produce a byte-identical context, so agent behavior is a pure
// function of persisted history.
package assembler

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/taskline/taskline/internal/core"
)

// systemDirective is the fixed system prompt prepended to every context.
const systemDirective = "You are a helpful assistant who helps the user manage tasks. " +
	"You can create, update, and list tasks based on the conversation. " +
	"Be concise and direct in your responses."

// Context is the exact input the reasoning component receives.
type Context struct {
	System string
	Turns  []anthropic.MessageParam
}

// WrapUtterance rewrites a human-origin utterance for agent consumption,
// annotating it with conversation and speaker provenance. The raw text
// stays unchanged in the durable log; only the agent-facing copy is wrapped.
func WrapUtterance(conversationID string, sender core.Role, content string) string {
	return fmt.Sprintf("In conversation %s, %s said: '%s'. If this is a task or update, handle it.",
		conversationID, sender, content)
}

// Build converts the ordered message log into a reasoning context. Agent
// replies are carried verbatim as assistant turns; every other sender
// becomes a wrapped user turn.
func Build(conversationID string, msgs []core.Message) Context {
	turns := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		if m.Sender == core.RoleAgent {
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			continue
		}
		wrapped := WrapUtterance(conversationID, m.Sender, m.Content)
		turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(wrapped)))
	}
	return Context{System: systemDirective, Turns: turns}
}
