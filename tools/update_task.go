package tools

import (
	"encoding/json"
	"fmt"

	"github.com/taskline/taskline/internal/core"
	"github.com/taskline/taskline/internal/metrics"
	"github.com/taskline/taskline/internal/store"
)

type UpdateTaskInput struct {
	TaskID int64  `json:"task_id" jsonschema_description:"Identifier of the task to update."`
	Status string `json:"status" jsonschema_description:"New status, e.g. OPEN, IN_PROGRESS, DONE."`
}

var UpdateTaskInputSchema = GenerateSchema[UpdateTaskInput]()

// UpdateTaskDefinition binds the update_task tool to a store handle and a
// conversation. A task id belonging to another conversation is treated as
// not found; status values are accepted without transition validation.
func UpdateTaskDefinition(st *store.Store, conversationID string) ToolDefinition {
	return ToolDefinition{
		Name:        "update_task",
		Description: "Update the status of an existing task by its id.",
		InputSchema: UpdateTaskInputSchema,
		Function: func(input json.RawMessage) (string, error) {
			var in UpdateTaskInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", err
			}
			if in.Status == "" {
				return "", fmt.Errorf("update_task: status is required")
			}

			task, err := st.GetTask(in.TaskID)
			if err != nil {
				return "", err
			}
			if task.ConversationID != conversationID {
				return "", fmt.Errorf("update_task: task %d: %w", in.TaskID, core.ErrNotFound)
			}

			if err := st.UpdateTaskStatus(in.TaskID, core.Status(in.Status)); err != nil {
				return "", err
			}
			metrics.TaskStatusUpdates.Inc()

			b, err := json.Marshal(map[string]any{
				"task_id": in.TaskID,
				"status":  in.Status,
			})
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}
