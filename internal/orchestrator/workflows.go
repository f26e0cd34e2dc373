package orchestrator

import (
	"github.com/devteamhq/devteam/internal/agent"
	"github.com/devteamhq/devteam/pkg/models"
)

// Guard decides whether a stage runs, evaluated against the original
// request. A nil guard always runs.
type Guard func(req models.TaskRequest) bool

// Stage is one workflow step: one agent invocation, a progress
// checkpoint, and an optional guard. The stage name doubles as the
// agent action and as the key its output is merged under in the task
// context (single writer per key by construction).
type Stage struct {
	// Name is the stage name, context key, and agent action.
	Name string
	// Agent is the name of the agent this stage invokes.
	Agent string
	// Checkpoint is the task progress value set when the stage finishes.
	Checkpoint int
	// Mandatory stages fail the workflow when their agent is unavailable
	// or their execution errors. Optional stages are skipped instead.
	Mandatory bool
	// Guard decides whether the stage runs. Nil means always.
	Guard Guard
}

// ResultShaper projects the accumulated task context into the public
// result. Shapers are pure; they must not mutate the task.
type ResultShaper func(t *models.Task) map[string]any

// Workflow is the static ordered stage list for one task kind.
type Workflow struct {
	// Stages run strictly in order; each consumes the context the
	// previous stages accumulated.
	Stages []Stage
	// Shape builds the public result after the final stage.
	// Nil means projectContext.
	Shape ResultShaper
}

// hasRequirement returns a guard that is true when the named
// requirement is present and not empty/false.
func hasRequirement(key string) Guard {
	return func(req models.TaskRequest) bool {
		v, ok := req.Requirements[key]
		if !ok || v == nil {
			return false
		}
		switch val := v.(type) {
		case bool:
			return val
		case string:
			return val != ""
		default:
			return true
		}
	}
}

// projectContext is the default result shaper: a copy of the context,
// so result keys are exactly the stage names whose guards held.
func projectContext(t *models.Task) map[string]any {
	result := make(map[string]any, len(t.Context))
	for k, v := range t.Context {
		result[k] = v
	}
	return result
}

// builtinWorkflows is the static kind-to-stages table, built once at
// startup. Checkpoints are strictly increasing within each workflow.
func builtinWorkflows() map[models.TaskKind]Workflow {
	return map[models.TaskKind]Workflow{
		models.KindCreateProject: {
			Stages: []Stage{
				{Name: "architecture", Agent: agent.NameArchitect, Checkpoint: 20, Mandatory: true},
				{Name: "database", Agent: agent.NameArchitect, Checkpoint: 40, Guard: hasRequirement("database")},
				{Name: "backend", Agent: agent.NameCoder, Checkpoint: 60},
				{Name: "frontend", Agent: agent.NameCoder, Checkpoint: 80, Guard: hasRequirement("frontend")},
				{Name: "review", Agent: agent.NameReviewer, Checkpoint: 95},
			},
		},
		models.KindDebugCode: {
			Stages: []Stage{
				{Name: "analyze", Agent: agent.NameDebugger, Checkpoint: 30, Mandatory: true},
				{Name: "fix", Agent: agent.NameCoder, Checkpoint: 70, Mandatory: true},
				{Name: "verify", Agent: agent.NameReviewer, Checkpoint: 90},
			},
		},
		models.KindReviewCode: {
			Stages: []Stage{
				{Name: "review", Agent: agent.NameReviewer, Checkpoint: 50, Mandatory: true},
				{Name: "security", Agent: agent.NameReviewer, Checkpoint: 80, Guard: hasRequirement("security")},
				{Name: "summary", Agent: agent.NameReviewer, Checkpoint: 95},
			},
		},
		models.KindOptimizePerformance: {
			Stages: []Stage{
				{Name: "profile", Agent: agent.NameOptimizer, Checkpoint: 30, Mandatory: true},
				{Name: "optimize", Agent: agent.NameOptimizer, Checkpoint: 70, Mandatory: true},
				{Name: "benchmark", Agent: agent.NameReviewer, Checkpoint: 90},
			},
		},
		models.KindDeployApplication: {
			Stages: []Stage{
				{Name: "validate", Agent: agent.NameReviewer, Checkpoint: 30, Mandatory: true},
				{Name: "provision", Agent: agent.NameDeployer, Checkpoint: 60, Guard: hasRequirement("infrastructure")},
				{Name: "deploy", Agent: agent.NameDeployer, Checkpoint: 85, Mandatory: true},
				{Name: "healthcheck", Agent: agent.NameDeployer, Checkpoint: 95},
			},
		},
	}
}
