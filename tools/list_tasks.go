package tools

import (
	"encoding/json"

	"github.com/taskline/taskline/internal/store"
)

type ListTasksInput struct{}

var ListTasksInputSchema = GenerateSchema[ListTasksInput]()

// taskView is the model-facing shape of a task row.
type taskView struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	AssignedTo string  `json:"assigned_to"`
	Status     string  `json:"status"`
	DueDate    *string `json:"due_date"`
}

// ListTasksDefinition binds the list_tasks tool to a store handle and a
// conversation. Returns a JSON array; empty array when no tasks exist.
func ListTasksDefinition(st *store.Store, conversationID string) ToolDefinition {
	return ToolDefinition{
		Name:        "list_tasks",
		Description: "List all tasks in the current conversation with their ids, assignees, statuses, and due dates.",
		InputSchema: ListTasksInputSchema,
		Function: func(input json.RawMessage) (string, error) {
			tasks, err := st.ListTasks(conversationID)
			if err != nil {
				return "", err
			}
			views := make([]taskView, 0, len(tasks))
			for _, t := range tasks {
				views = append(views, taskView{
					ID:         t.ID,
					Title:      t.Title,
					AssignedTo: t.AssignedTo,
					Status:     string(t.Status),
					DueDate:    t.DueDate,
				})
			}
			b, err := json.Marshal(views)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}
