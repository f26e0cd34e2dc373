package models

import "time"

// AgentState represents the lifecycle state of an agent.
type AgentState string

const (
	// AgentStateUninitialized indicates the agent has not been set up.
	AgentStateUninitialized AgentState = "uninitialized"
	// AgentStateInitializing indicates the agent's setup is in progress.
	AgentStateInitializing AgentState = "initializing"
	// AgentStateReady indicates the agent can accept a task.
	AgentStateReady AgentState = "ready"
	// AgentStateBusy indicates the agent is processing a task.
	AgentStateBusy AgentState = "busy"
	// AgentStateFailed indicates the agent failed to initialize. Terminal.
	AgentStateFailed AgentState = "failed"
)

// Valid returns true if the state is a known value.
func (s AgentState) Valid() bool {
	switch s {
	case AgentStateUninitialized, AgentStateInitializing,
		AgentStateReady, AgentStateBusy, AgentStateFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition. Failed is terminal: the core never retries a
// failed initialization.
func (s AgentState) CanTransitionTo(next AgentState) bool {
	switch s {
	case AgentStateUninitialized:
		return next == AgentStateInitializing
	case AgentStateInitializing:
		return next == AgentStateReady || next == AgentStateFailed
	case AgentStateReady:
		return next == AgentStateBusy
	case AgentStateBusy:
		return next == AgentStateReady
	default:
		return false
	}
}

// AgentError is one entry in an agent's bounded error log.
type AgentError struct {
	// Timestamp is when the error occurred.
	Timestamp time.Time `json:"timestamp"`
	// TaskID is the task being processed when the error occurred.
	TaskID string `json:"task_id"`
	// Message is the error text.
	Message string `json:"message"`
}

// AgentStatus is a read-only snapshot of an agent's state, returned by
// status queries. It carries no references into the agent's internals.
type AgentStatus struct {
	// State is the agent's lifecycle state.
	State AgentState `json:"state"`
	// Busy is true when the agent is processing a task.
	Busy bool `json:"busy"`
	// CurrentTaskID is the task occupying the agent, if Busy.
	CurrentTaskID string `json:"current_task_id,omitempty"`
	// Capabilities lists informational capability tags.
	Capabilities []string `json:"capabilities,omitempty"`
	// CompletedCount is the number of tasks this agent has completed.
	CompletedCount int `json:"completed_count"`
	// Errors holds the most recent entries from the agent's error log.
	Errors []AgentError `json:"errors,omitempty"`
}
