// Package tools defines tool contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Task tools: create_task, update_task, list_tasks, each bound to a
//     store handle and a single conversation at registry construction.
package tools
