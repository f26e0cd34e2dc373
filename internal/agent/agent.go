// Package agent defines the worker contract for the DevTeam engine:
// a uniform initialization lifecycle, a busy/idle state machine, and a
// single execute operation. Concrete agents wrap the AI-completion
// call; the engine only depends on the contract defined here.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/devteamhq/devteam/pkg/models"
)

// Common errors for agent lifecycle management.
var (
	// ErrAgentBusy indicates the agent is already processing a task.
	// Under correct coordinator queuing this never surfaces to callers,
	// but it is enforced as a hard invariant.
	ErrAgentBusy = errors.New("agent busy")
	// ErrAgentNotReady indicates the agent has not completed initialization.
	ErrAgentNotReady = errors.New("agent not ready")
	// ErrInvalidTransition indicates an invalid lifecycle transition was attempted.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrInvalidRequest indicates the execution request failed the shape check.
	ErrInvalidRequest = errors.New("invalid execution request")
)

// Request is the input to a single agent invocation: one workflow
// stage's slice of a task. Context is a read-only view of the
// accumulated stage outputs; agents must not mutate it.
type Request struct {
	// TaskID identifies the task this invocation belongs to.
	TaskID string
	// Kind is the task kind driving the workflow.
	Kind models.TaskKind
	// Action is the stage's sub-action (e.g. "architecture", "fix").
	Action string
	// Description is the task's original description.
	Description string
	// Requirements holds the stage's extraction of the task requirements.
	Requirements map[string]any
	// Context is the accumulated stage outputs so far, keyed by stage name.
	Context map[string]any
}

// Result is the output of a single agent invocation.
type Result struct {
	// Agent is the name of the agent that produced the output.
	Agent string
	// Action is the sub-action that was performed.
	Action string
	// Output is the stage output merged into the task context.
	Output any
}

// Agent is the uniform worker contract consumed by the orchestrator.
type Agent interface {
	// Name returns the agent's unique, process-stable identifier.
	Name() string
	// Initialize performs one-time setup. A setup failure is terminal:
	// the core never retries it and the agent is excluded from workflows.
	Initialize(ctx context.Context) error
	// Execute processes one stage invocation. The agent must be ready;
	// a busy agent fails fast with ErrAgentBusy rather than queuing.
	// A failed execution returns the agent to ready.
	Execute(ctx context.Context, req *Request) (*Result, error)
	// Status returns a read-only snapshot of the agent's state.
	Status() models.AgentStatus
}

// validate performs the generic shape check every execution request
// must pass before an agent is occupied.
func validate(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if !req.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, req.Kind)
	}
	if req.TaskID == "" {
		return fmt.Errorf("%w: missing task id", ErrInvalidRequest)
	}
	return nil
}
