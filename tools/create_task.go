package tools

import (
	"encoding/json"
	"fmt"

	"github.com/taskline/taskline/internal/core"
	"github.com/taskline/taskline/internal/metrics"
	"github.com/taskline/taskline/internal/store"
)

type CreateTaskInput struct {
	Title      string `json:"title" jsonschema_description:"Short title describing the task."`
	AssignedTo string `json:"assigned_to,omitempty" jsonschema_description:"Person the task is assigned to (free text)."`
	Status     string `json:"status,omitempty" jsonschema_description:"Initial status, e.g. OPEN, IN_PROGRESS, DONE. Defaults to OPEN."`
	DueDate    string `json:"due_date,omitempty" jsonschema_description:"Optional due date, e.g. 2026-09-15."`
}

var CreateTaskInputSchema = GenerateSchema[CreateTaskInput]()

// CreateTaskDefinition binds the create_task tool to a store handle and a
// conversation. The model cannot direct the task at any other conversation.
func CreateTaskDefinition(st *store.Store, conversationID string) ToolDefinition {
	return ToolDefinition{
		Name:        "create_task",
		Description: "Create a new task in the current conversation. Provide a title and optionally who it is assigned to, a status, and a due date.",
		InputSchema: CreateTaskInputSchema,
		Function: func(input json.RawMessage) (string, error) {
			var in CreateTaskInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			if in.Title == "" {
				return "", fmt.Errorf("create_task: title is required")
			}
			var due *string
			if in.DueDate != "" {
				due = &in.DueDate
			}
			id, err := st.CreateTask(conversationID, in.Title, in.AssignedTo, core.Status(in.Status), due)
			if err != nil {
				return "", err
			}
			metrics.TasksCreated.Inc()

			b, err := json.Marshal(map[string]any{
				"task_id":     id,
				"title":       in.Title,
				"assigned_to": in.AssignedTo,
				"status":      statusOrDefault(in.Status),
			})
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}

func statusOrDefault(status string) string {
	if status == "" {
		return string(core.StatusOpen)
	}
	return status
}
