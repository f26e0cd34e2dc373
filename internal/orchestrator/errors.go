// Package orchestrator coordinates task admission, queuing, workflow
// execution across agents, and event emission.
package orchestrator

import (
	"fmt"
	"time"
)

// InvalidRequestError rejects a malformed submission. It is returned
// synchronously; no task is created.
type InvalidRequestError struct {
	// Reason describes what was wrong with the request.
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

// DuplicateAgentError rejects registering a second agent under an
// existing name.
type DuplicateAgentError struct {
	// Name is the already-registered agent name.
	Name string
}

func (e *DuplicateAgentError) Error() string {
	return fmt.Sprintf("agent %q already registered", e.Name)
}

// MissingAgentError fails a workflow whose mandatory stage names an
// agent that is unregistered or failed initialization.
type MissingAgentError struct {
	// Stage is the workflow stage that needed the agent.
	Stage string
	// Agent is the unavailable agent name.
	Agent string
}

func (e *MissingAgentError) Error() string {
	return fmt.Sprintf("stage %q requires agent %q which is not available", e.Stage, e.Agent)
}

// TimeoutError marks a task whose workflow did not reach a terminal
// state within its budget. The slot is released; the in-flight agent
// call is cancelled cooperatively or abandoned.
type TimeoutError struct {
	// TaskID is the task that timed out.
	TaskID string
	// Timeout is the budget that was exceeded.
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("task %s exceeded its %s timeout", e.TaskID, e.Timeout)
}

// AgentExecutionError wraps a failure raised by a stage's agent,
// including opaque provider failures.
type AgentExecutionError struct {
	// Stage is the workflow stage that failed.
	Stage string
	// Agent is the agent whose execution failed.
	Agent string
	// Err is the underlying failure.
	Err error
}

func (e *AgentExecutionError) Error() string {
	return fmt.Sprintf("stage %q (agent %q) failed: %v", e.Stage, e.Agent, e.Err)
}

// Unwrap returns the underlying failure.
func (e *AgentExecutionError) Unwrap() error {
	return e.Err
}
