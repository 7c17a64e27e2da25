// Package metrics provides Prometheus metrics for taskline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registered once at package init on the default registry.
var (
	// MessagesAppended counts utterances written to the message log, by sender.
	MessagesAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskline_messages_appended_total",
			Help: "Total number of messages appended to conversation logs",
		},
		[]string{"sender"},
	)

	// TasksCreated counts tasks inserted through the create_task tool.
	TasksCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taskline_tasks_created_total",
			Help: "Total number of tasks created",
		},
	)

	// TaskStatusUpdates counts status overwrites through the update_task tool.
	TaskStatusUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taskline_task_status_updates_total",
			Help: "Total number of task status updates",
		},
	)

	// ToolExecutions counts tool dispatches by tool name and outcome.
	ToolExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskline_tool_executions_total",
			Help: "Total number of tool executions",
		},
		[]string{"tool", "status"},
	)

	// AgentTurns counts agent invocations by outcome.
	AgentTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskline_agent_turns_total",
			Help: "Total number of agent turns",
		},
		[]string{"status"},
	)

	// AgentTurnDuration observes end-to-end agent turn latency in seconds.
	AgentTurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taskline_agent_turn_duration_seconds",
			Help:    "Duration of agent turns in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
