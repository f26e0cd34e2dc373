package orchestrator

import "time"

// EventType represents the type of coordinator event.
type EventType string

const (
	// EventTaskQueued indicates a task was admitted but is waiting for a slot.
	EventTaskQueued EventType = "task_queued"
	// EventTaskStarted indicates a task's workflow began executing.
	EventTaskStarted EventType = "task_started"
	// EventTaskProgress reports a progress checkpoint for a running task.
	EventTaskProgress EventType = "task_progress"
	// EventStageSkipped indicates a workflow stage was skipped (guard false
	// or optional agent unavailable).
	EventStageSkipped EventType = "stage_skipped"
	// EventTaskCompleted indicates a task completed successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task failed.
	EventTaskFailed EventType = "task_failed"
)

// Event represents an event emitted by the coordinator. For a given
// task, progress events carry non-decreasing progress values and are
// delivered in the order generated. Exactly one terminal event is
// emitted per task. Cross-task ordering is unspecified.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TaskID is the ID of the related task.
	TaskID string
	// Stage is the workflow stage name, for progress and skip events.
	Stage string
	// Agent is the agent that ran the stage, for progress events.
	Agent string
	// Progress is the task's progress percentage, 0-100.
	Progress int
	// Result is the shaped task result, set on task_completed.
	Result map[string]any
	// Err contains failure details, set on task_failed.
	Err error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}
