package tools

import "github.com/taskline/taskline/internal/store"

// Registry returns the full toolbox bound to one store handle and one
// conversation. Binding here is what scopes every tool invocation to the
// conversation that supplied the agent's context.
func Registry(st *store.Store, conversationID string) []ToolDefinition {
	return []ToolDefinition{
		CreateTaskDefinition(st, conversationID),
		UpdateTaskDefinition(st, conversationID),
		ListTasksDefinition(st, conversationID),
	}
}
