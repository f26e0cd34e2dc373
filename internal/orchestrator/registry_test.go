package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/devteamhq/devteam/internal/agent"
	"github.com/devteamhq/devteam/pkg/models"
)

func okComplete(ctx context.Context, system, prompt string) (string, error) {
	return "ok", nil
}

func TestAgentRegistry_RegisterDuplicate(t *testing.T) {
	r := NewAgentRegistry()

	if err := r.Register(agent.NewArchitect(okComplete), "designs systems"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	err := r.Register(agent.NewArchitect(okComplete), "second architect")
	var dup *DuplicateAgentError
	if !errors.As(err, &dup) {
		t.Fatalf("Register duplicate error = %v, want *DuplicateAgentError", err)
	}
	if dup.Name != agent.NameArchitect {
		t.Errorf("DuplicateAgentError.Name = %q, want %q", dup.Name, agent.NameArchitect)
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
}

func TestAgentRegistry_InitializeAll(t *testing.T) {
	r := NewAgentRegistry()

	good := agent.NewArchitect(okComplete)
	bad := agent.NewAIAgent("flaky", nil, "", okComplete, nil)
	// Force a setup failure through a Base with a failing hook.
	failing := newFailingAgent("broken")

	for _, a := range []agent.Agent{good, bad, failing} {
		if err := r.Register(a, ""); err != nil {
			t.Fatalf("Register(%s) error = %v", a.Name(), err)
		}
	}

	failed := r.InitializeAll(context.Background())
	if len(failed) != 1 || failed[0] != "broken" {
		t.Errorf("InitializeAll() failed = %v, want [broken]", failed)
	}
	if !r.Initialized() {
		t.Error("Initialized() = false after InitializeAll")
	}

	if !r.Available(agent.NameArchitect) {
		t.Error("architect should be available after initialization")
	}
	if r.Available("broken") {
		t.Error("failed agent must not be available")
	}
	if r.Available("never-registered") {
		t.Error("unregistered agent must not be available")
	}
}

func TestAgentRegistry_LookupNeverErrors(t *testing.T) {
	r := NewAgentRegistry()

	if _, ok := r.Lookup("ghost"); ok {
		t.Error("Lookup(ghost) ok = true, want false")
	}

	a := agent.NewCoder(okComplete)
	if err := r.Register(a, "writes code"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := r.Lookup(agent.NameCoder)
	if !ok || got.Name() != agent.NameCoder {
		t.Errorf("Lookup(coder) = (%v, %v), want the coder", got, ok)
	}
	if desc := r.Description(agent.NameCoder); desc != "writes code" {
		t.Errorf("Description() = %q, want %q", desc, "writes code")
	}
}

func TestAgentRegistry_Snapshot(t *testing.T) {
	r := NewAgentRegistry()
	if err := r.Register(agent.NewReviewer(okComplete), ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	r.InitializeAll(context.Background())

	snap := r.Snapshot()
	st, ok := snap[agent.NameReviewer]
	if !ok {
		t.Fatalf("Snapshot() missing %q", agent.NameReviewer)
	}
	if st.State != models.AgentStateReady {
		t.Errorf("snapshot state = %q, want ready", st.State)
	}
}

// newFailingAgent returns an agent whose setup always fails.
func newFailingAgent(name string) agent.Agent {
	base := agent.NewBase(name, nil, func(ctx context.Context) error {
		return errors.New("setup exploded")
	})
	return &failingAgent{Base: base}
}

type failingAgent struct {
	*agent.Base
}

func (f *failingAgent) Execute(ctx context.Context, req *agent.Request) (*agent.Result, error) {
	return nil, errors.New("never ready")
}
