package orchestrator

import (
	"context"
	"sync"

	"github.com/devteamhq/devteam/internal/agent"
	"github.com/devteamhq/devteam/pkg/models"
)

// AgentRegistry maps names to agent instances plus bookkeeping. It is
// the sole owner of agents: workflows reach agents only through it.
// Registry mutation emits no events; agent completion and error events
// are raised by the workflow engine through the coordinator's emitter.
type AgentRegistry struct {
	mu           sync.RWMutex
	agents       map[string]agent.Agent
	descriptions map[string]string
	initialized  bool
}

// NewAgentRegistry creates an empty AgentRegistry.
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{
		agents:       make(map[string]agent.Agent),
		descriptions: make(map[string]string),
	}
}

// Register adds an agent under its name. Registering a name twice
// fails with *DuplicateAgentError.
func (r *AgentRegistry) Register(a agent.Agent, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := a.Name()
	if _, exists := r.agents[name]; exists {
		return &DuplicateAgentError{Name: name}
	}
	r.agents[name] = a
	r.descriptions[name] = description
	return nil
}

// InitializeAll runs every agent's setup. An agent that fails to
// initialize is left in the failed state and excluded from workflows;
// the failure is logged but is not fatal to the registry. Returns the
// names of agents that failed.
func (r *AgentRegistry) InitializeAll(ctx context.Context) []string {
	r.mu.RLock()
	agents := make([]agent.Agent, 0, len(r.agents))
	for _, a := range r.agents {
		agents = append(agents, a)
	}
	r.mu.RUnlock()

	var failed []string
	for _, a := range agents {
		if err := a.Initialize(ctx); err != nil {
			debugLog("[registry] agent %s failed to initialize: %v", a.Name(), err)
			failed = append(failed, a.Name())
		}
	}

	r.mu.Lock()
	r.initialized = true
	r.mu.Unlock()

	return failed
}

// Initialized reports whether InitializeAll has run.
func (r *AgentRegistry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

// Lookup returns the agent registered under name.
// Read-only status queries never error: absence is the false return.
func (r *AgentRegistry) Lookup(name string) (agent.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	return a, ok
}

// Available reports whether the named agent is registered and able to
// take part in workflows (initialized and not failed).
func (r *AgentRegistry) Available(name string) bool {
	a, ok := r.Lookup(name)
	if !ok {
		return false
	}
	switch a.Status().State {
	case models.AgentStateReady, models.AgentStateBusy:
		return true
	default:
		return false
	}
}

// Count returns the number of registered agents.
func (r *AgentRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// Snapshot returns a per-agent status map for status queries.
func (r *AgentRegistry) Snapshot() map[string]models.AgentStatus {
	r.mu.RLock()
	agents := make(map[string]agent.Agent, len(r.agents))
	for name, a := range r.agents {
		agents[name] = a
	}
	r.mu.RUnlock()

	snap := make(map[string]models.AgentStatus, len(agents))
	for name, a := range agents {
		snap[name] = a.Status()
	}
	return snap
}

// Description returns the registration description for an agent.
func (r *AgentRegistry) Description(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.descriptions[name]
}
