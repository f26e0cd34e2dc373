// Package models defines the shared data types for the DevTeam engine.
package models

import "time"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has been admitted but not started.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusRunning indicates the task's workflow is executing.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusRunning, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is a final state.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal
// status transition. Statuses are monotonic: a task never revisits an
// earlier state, and terminal states admit no transitions at all.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch s {
	case TaskStatusPending:
		return next == TaskStatusRunning || next == TaskStatusFailed
	case TaskStatusRunning:
		return next == TaskStatusCompleted || next == TaskStatusFailed
	default:
		return false
	}
}

// TaskKind identifies which workflow a task runs.
type TaskKind string

const (
	// KindCreateProject scaffolds a new project end to end.
	KindCreateProject TaskKind = "create_project"
	// KindDebugCode diagnoses and fixes a reported defect.
	KindDebugCode TaskKind = "debug_code"
	// KindReviewCode reviews a body of code for problems.
	KindReviewCode TaskKind = "review_code"
	// KindOptimizePerformance profiles and optimizes code.
	KindOptimizePerformance TaskKind = "optimize_performance"
	// KindDeployApplication validates and deploys an application.
	KindDeployApplication TaskKind = "deploy_application"
)

// Valid returns true if the kind is a known value.
func (k TaskKind) Valid() bool {
	switch k {
	case KindCreateProject, KindDebugCode, KindReviewCode,
		KindOptimizePerformance, KindDeployApplication:
		return true
	default:
		return false
	}
}

// AllKinds returns every known task kind, in a stable order.
func AllKinds() []TaskKind {
	return []TaskKind{
		KindCreateProject,
		KindDebugCode,
		KindReviewCode,
		KindOptimizePerformance,
		KindDeployApplication,
	}
}

// TaskRequest is the immutable submission payload for a task.
type TaskRequest struct {
	// Kind selects the workflow to run.
	Kind TaskKind `json:"kind"`
	// Description is the human description of the work. Must be non-empty.
	Description string `json:"description"`
	// Requirements holds structured requirements. The engine only inspects
	// the presence of keys that workflow guards name; values are opaque.
	Requirements map[string]any `json:"requirements,omitempty"`
}

// Task is one unit of work plus its mutable execution record.
// Tasks are created by the coordinator and mutated only by the
// coordinator and the workflow engine.
type Task struct {
	// ID is the unique identifier assigned at admission. Never reused.
	ID string `json:"id"`
	// Kind selects the workflow.
	Kind TaskKind `json:"kind"`
	// Request is the original submission payload.
	Request TaskRequest `json:"request"`
	// Status is the current state of the task.
	Status TaskStatus `json:"status"`
	// Progress is the completion percentage, 0-100. Non-decreasing.
	Progress int `json:"progress"`
	// Context accumulates stage outputs keyed by stage name. It is
	// threaded through the workflow and discarded with the record.
	Context map[string]any `json:"context,omitempty"`
	// Result is the shaped public result, set only on completion.
	Result map[string]any `json:"result,omitempty"`
	// Error contains the failure message if the task failed.
	Error string `json:"error,omitempty"`
	// CreatedAt is when the task was admitted.
	CreatedAt time.Time `json:"created_at"`
	// StartedAt is when the workflow began executing, if it has.
	StartedAt *time.Time `json:"started_at,omitempty"`
	// CompletedAt is when the task reached a terminal state, if it has.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
