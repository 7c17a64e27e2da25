package tools_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/taskline/taskline/internal/core"
	"github.com/taskline/taskline/internal/store"
	"github.com/taskline/taskline/tools"
)

func newTestStore(t *testing.T, convs ...string) *store.Store {
	t.Helper()
	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	st, err := store.New(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, c := range convs {
		if err := st.CreateConversation(c, ""); err != nil {
			t.Fatalf("create %s: %v", c, err)
		}
	}
	return st
}

func findTool(t *testing.T, defs []tools.ToolDefinition, name string) tools.ToolDefinition {
	t.Helper()
	for _, d := range defs {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("tool %q not in registry", name)
	return tools.ToolDefinition{}
}

func TestRegistry_ExposesFixedToolbox(t *testing.T) {
	st := newTestStore(t, "conv1")
	defs := tools.Registry(st, "conv1")
	if len(defs) != 3 {
		t.Fatalf("got %d tools, want 3", len(defs))
	}
	for _, name := range []string{"create_task", "update_task", "list_tasks"} {
		findTool(t, defs, name)
	}
}

func TestCreateTask_InsertsRow(t *testing.T) {
	st := newTestStore(t, "conv1")
	def := findTool(t, tools.Registry(st, "conv1"), "create_task")

	out, err := def.Function(json.RawMessage(`{"title":"write report","assigned_to":"Alice","due_date":"2026-09-15"}`))
	if err != nil {
		t.Fatalf("create_task: %v", err)
	}

	var res struct {
		TaskID int64  `json:"task_id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if res.Status != "OPEN" {
		t.Errorf("status: got %q, want OPEN", res.Status)
	}

	tasks, err := st.ListTasks("conv1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	got := tasks[0]
	if got.ID != res.TaskID || got.Title != "write report" || got.AssignedTo != "Alice" {
		t.Errorf("unexpected task: %+v", got)
	}
	if got.DueDate == nil || *got.DueDate != "2026-09-15" {
		t.Errorf("due date: got %v", got.DueDate)
	}
}

func TestCreateTask_RequiresTitle(t *testing.T) {
	st := newTestStore(t, "conv1")
	def := findTool(t, tools.Registry(st, "conv1"), "create_task")
	if _, err := def.Function(json.RawMessage(`{"assigned_to":"Alice"}`)); err == nil {
		t.Fatal("expected error for missing title")
	}
}

func TestUpdateTask_OverwritesStatus(t *testing.T) {
	st := newTestStore(t, "conv1")
	id, err := st.CreateTask("conv1", "write report", "Alice", "", nil)
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	def := findTool(t, tools.Registry(st, "conv1"), "update_task")

	if _, err := def.Function(json.RawMessage(`{"task_id":1,"status":"DONE"}`)); err != nil {
		t.Fatalf("update_task: %v", err)
	}
	task, err := st.GetTask(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if task.Status != core.StatusDone {
		t.Errorf("status: got %q, want DONE", task.Status)
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	st := newTestStore(t, "conv1")
	def := findTool(t, tools.Registry(st, "conv1"), "update_task")
	_, err := def.Function(json.RawMessage(`{"task_id":42,"status":"DONE"}`))
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTask_RejectsForeignConversation(t *testing.T) {
	st := newTestStore(t, "conv1", "conv2")
	id, err := st.CreateTask("conv2", "not yours", "", "", nil)
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}

	// Toolbox is bound to conv1; conv2's task must look nonexistent to it.
	def := findTool(t, tools.Registry(st, "conv1"), "update_task")
	_, err = def.Function(json.RawMessage(`{"task_id":1,"status":"DONE"}`))
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign task, got %v", err)
	}

	task, err := st.GetTask(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if task.Status != core.StatusOpen {
		t.Errorf("foreign task mutated: %+v", task)
	}
}

func TestListTasks_EmptyAndScoped(t *testing.T) {
	st := newTestStore(t, "conv1", "conv2")
	if _, err := st.CreateTask("conv2", "elsewhere", "", "", nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	def := findTool(t, tools.Registry(st, "conv1"), "list_tasks")
	out, err := def.Function(json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("list_tasks: %v", err)
	}
	if out != "[]" {
		t.Errorf("expected empty JSON array for conv1, got %s", out)
	}
}

func TestListTasks_ReturnsViews(t *testing.T) {
	st := newTestStore(t, "conv1")
	if _, err := st.CreateTask("conv1", "write report", "Alice", core.StatusInProgress, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	def := findTool(t, tools.Registry(st, "conv1"), "list_tasks")
	out, err := def.Function(json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("list_tasks: %v", err)
	}

	var views []struct {
		ID         int64  `json:"id"`
		Title      string `json:"title"`
		AssignedTo string `json:"assigned_to"`
		Status     string `json:"status"`
	}
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}
	if views[0].Title != "write report" || views[0].AssignedTo != "Alice" || views[0].Status != "IN_PROGRESS" {
		t.Errorf("unexpected view: %+v", views[0])
	}
}

func TestGenerateSchema_ExposesInputFields(t *testing.T) {
	b, err := json.Marshal(tools.CreateTaskInputSchema)
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	s := string(b)
	for _, field := range []string{"title", "assigned_to", "status", "due_date"} {
		if !strings.Contains(s, field) {
			t.Errorf("schema missing field %q: %s", field, s)
		}
	}
}
