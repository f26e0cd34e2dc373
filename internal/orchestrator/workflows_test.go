package orchestrator

import (
	"testing"

	"github.com/devteamhq/devteam/internal/agent"
	"github.com/devteamhq/devteam/pkg/models"
)

func TestBuiltinWorkflows_CoverAllKinds(t *testing.T) {
	workflows := builtinWorkflows()
	for _, kind := range models.AllKinds() {
		wf, ok := workflows[kind]
		if !ok {
			t.Errorf("no workflow for kind %q", kind)
			continue
		}
		if len(wf.Stages) == 0 {
			t.Errorf("workflow for %q has no stages", kind)
		}
	}
	if len(workflows) != len(models.AllKinds()) {
		t.Errorf("workflow table has %d entries, want %d", len(workflows), len(models.AllKinds()))
	}
}

func TestBuiltinWorkflows_CheckpointsIncrease(t *testing.T) {
	for kind, wf := range builtinWorkflows() {
		prev := 0
		for _, st := range wf.Stages {
			if st.Checkpoint <= prev {
				t.Errorf("%s: stage %q checkpoint %d not greater than previous %d", kind, st.Name, st.Checkpoint, prev)
			}
			if st.Checkpoint >= 100 {
				t.Errorf("%s: stage %q checkpoint %d must leave room for completion at 100", kind, st.Name, st.Checkpoint)
			}
			prev = st.Checkpoint
		}
	}
}

func TestBuiltinWorkflows_StageNamesUniqueWithinKind(t *testing.T) {
	for kind, wf := range builtinWorkflows() {
		seen := make(map[string]bool)
		for _, st := range wf.Stages {
			if seen[st.Name] {
				t.Errorf("%s: duplicate stage name %q", kind, st.Name)
			}
			seen[st.Name] = true
		}
	}
}

func TestBuiltinWorkflows_AgentsAreTeamMembers(t *testing.T) {
	team := map[string]bool{
		agent.NameArchitect: true,
		agent.NameCoder:     true,
		agent.NameReviewer:  true,
		agent.NameDebugger:  true,
		agent.NameOptimizer: true,
		agent.NameDeployer:  true,
	}

	for kind, wf := range builtinWorkflows() {
		for _, st := range wf.Stages {
			if !team[st.Agent] {
				t.Errorf("%s: stage %q names unknown agent %q", kind, st.Name, st.Agent)
			}
		}
	}
}

func TestBuiltinWorkflows_FirstStageMandatory(t *testing.T) {
	// Every workflow leads with a mandatory stage so an empty result
	// cannot masquerade as success.
	for kind, wf := range builtinWorkflows() {
		if !wf.Stages[0].Mandatory {
			t.Errorf("%s: first stage %q should be mandatory", kind, wf.Stages[0].Name)
		}
	}
}

func TestHasRequirement(t *testing.T) {
	guard := hasRequirement("database")

	tests := []struct {
		name string
		reqs map[string]any
		want bool
	}{
		{"absent", nil, false},
		{"nil value", map[string]any{"database": nil}, false},
		{"false bool", map[string]any{"database": false}, false},
		{"true bool", map[string]any{"database": true}, true},
		{"empty string", map[string]any{"database": ""}, false},
		{"non-empty string", map[string]any{"database": "postgres"}, true},
		{"map value", map[string]any{"database": map[string]any{"engine": "mysql"}}, true},
		{"other key only", map[string]any{"frontend": true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := models.TaskRequest{Requirements: tt.reqs}
			if got := guard(req); got != tt.want {
				t.Errorf("hasRequirement(database)(%v) = %v, want %v", tt.reqs, got, tt.want)
			}
		})
	}
}

func TestProjectContext_CopiesKeys(t *testing.T) {
	task := &models.Task{Context: map[string]any{"architecture": "plan", "review": "lgtm"}}

	result := projectContext(task)
	if len(result) != 2 {
		t.Fatalf("projectContext returned %d keys, want 2", len(result))
	}

	result["extra"] = "mutation"
	if _, leaked := task.Context["extra"]; leaked {
		t.Error("projectContext result shares storage with the task context")
	}
}
