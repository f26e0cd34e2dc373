package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/devteamhq/devteam/pkg/models"
)

// maxErrorLog bounds the per-agent error log. Older entries are dropped.
const maxErrorLog = 50

// Base implements the agent lifecycle state machine shared by all
// concrete agents. Transitions are enforced: an illegal move returns
// ErrInvalidTransition instead of silently flipping a flag.
//
// Base guarantees mutual exclusion: at most one task occupies the agent
// at a time, and busy implies a non-empty current task ID.
type Base struct {
	name         string
	capabilities []string

	mu             sync.Mutex
	state          models.AgentState
	currentTaskID  string
	completedCount int
	errorLog       []models.AgentError

	// setup is the concrete agent's one-time initialization hook.
	// May be nil for agents with no setup work.
	setup func(ctx context.Context) error
}

// NewBase creates a Base in the uninitialized state.
func NewBase(name string, capabilities []string, setup func(ctx context.Context) error) *Base {
	return &Base{
		name:         name,
		capabilities: capabilities,
		state:        models.AgentStateUninitialized,
		setup:        setup,
	}
}

// Name returns the agent's unique identifier.
func (b *Base) Name() string {
	return b.name
}

// Initialize runs the setup hook, moving the agent through
// initializing to ready, or to failed if setup errors. Failed is
// terminal; calling Initialize again on a failed agent errors.
func (b *Base) Initialize(ctx context.Context) error {
	if err := b.transition(models.AgentStateInitializing); err != nil {
		return err
	}

	if b.setup != nil {
		if err := b.setup(ctx); err != nil {
			b.mu.Lock()
			b.state = models.AgentStateFailed
			b.appendErrorLocked("", fmt.Sprintf("initialization failed: %v", err))
			b.mu.Unlock()
			return fmt.Errorf("initialize agent %s: %w", b.name, err)
		}
	}

	return b.transition(models.AgentStateReady)
}

// Status returns a read-only snapshot of the agent.
func (b *Base) Status() models.AgentStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	errs := make([]models.AgentError, len(b.errorLog))
	copy(errs, b.errorLog)
	caps := make([]string, len(b.capabilities))
	copy(caps, b.capabilities)

	return models.AgentStatus{
		State:          b.state,
		Busy:           b.state == models.AgentStateBusy,
		CurrentTaskID:  b.currentTaskID,
		Capabilities:   caps,
		CompletedCount: b.completedCount,
		Errors:         errs,
	}
}

// begin claims the agent for a task, moving ready to busy. It fails
// fast with ErrAgentBusy when the agent is occupied and ErrAgentNotReady
// when it was never initialized or has failed.
func (b *Base) begin(taskID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case models.AgentStateBusy:
		return fmt.Errorf("agent %s already processing task %s: %w", b.name, b.currentTaskID, ErrAgentBusy)
	case models.AgentStateReady:
		b.state = models.AgentStateBusy
		b.currentTaskID = taskID
		return nil
	default:
		return fmt.Errorf("agent %s in state %s: %w", b.name, b.state, ErrAgentNotReady)
	}
}

// finish releases the agent after a task, moving busy back to ready.
// A failed task does not disable the agent: the error is logged and
// the agent returns to ready either way.
func (b *Base) finish(taskID string, execErr error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != models.AgentStateBusy {
		return
	}

	if execErr != nil {
		b.appendErrorLocked(taskID, execErr.Error())
	} else {
		b.completedCount++
	}

	b.state = models.AgentStateReady
	b.currentTaskID = ""
}

// transition moves the state machine to next, rejecting illegal moves.
func (b *Base) transition(next models.AgentState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.state.CanTransitionTo(next) {
		return fmt.Errorf("agent %s: %s -> %s: %w", b.name, b.state, next, ErrInvalidTransition)
	}
	b.state = next
	return nil
}

// appendErrorLocked records an error log entry. Caller must hold b.mu.
func (b *Base) appendErrorLocked(taskID, message string) {
	b.errorLog = append(b.errorLog, models.AgentError{
		Timestamp: time.Now(),
		TaskID:    taskID,
		Message:   message,
	})
	if len(b.errorLog) > maxErrorLog {
		b.errorLog = b.errorLog[len(b.errorLog)-maxErrorLog:]
	}
}
