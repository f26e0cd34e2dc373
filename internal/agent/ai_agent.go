package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/devteamhq/devteam/internal/llm"
)

// PromptBuilder renders the user prompt for one stage action.
type PromptBuilder func(req *Request) string

// AIAgent is an agent whose work is a single AI-completion call per
// invocation. The action determines which prompt is built; the
// completion output becomes the stage output. All concrete DevTeam
// agents are AIAgents with different prompt tables.
type AIAgent struct {
	*Base

	complete llm.CompleteFunc
	system   string
	prompts  map[string]PromptBuilder
}

// NewAIAgent creates an AIAgent with the given prompt table. The
// complete function is required; construction panics without it since
// that is a programming error, not a runtime condition.
func NewAIAgent(name string, capabilities []string, system string, complete llm.CompleteFunc, prompts map[string]PromptBuilder) *AIAgent {
	if complete == nil {
		panic("agent: NewAIAgent requires a complete function")
	}
	return &AIAgent{
		Base:     NewBase(name, capabilities, nil),
		complete: complete,
		system:   system,
		prompts:  prompts,
	}
}

// Execute processes one stage invocation. Preconditions: the agent is
// ready and the request passes the generic shape check. On success the
// completed count increments; on failure the error is logged and
// re-raised. Either way the agent returns to ready.
func (a *AIAgent) Execute(ctx context.Context, req *Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if err := a.begin(req.TaskID); err != nil {
		return nil, err
	}

	output, err := a.process(ctx, req)
	a.finish(req.TaskID, err)
	if err != nil {
		return nil, err
	}

	return &Result{
		Agent:  a.Name(),
		Action: req.Action,
		Output: output,
	}, nil
}

// process builds the prompt for the requested action and runs the
// completion. Unknown actions fall back to a generic prompt so a new
// workflow stage degrades to a usable request instead of erroring.
func (a *AIAgent) process(ctx context.Context, req *Request) (string, error) {
	var prompt string
	if builder, ok := a.prompts[req.Action]; ok {
		prompt = builder(req)
	} else {
		prompt = genericPrompt(req)
	}

	out, err := a.complete(ctx, a.system, prompt)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", a.Name(), req.Action, err)
	}
	return out, nil
}

// genericPrompt renders a task description plus any accumulated
// context for actions with no dedicated builder.
func genericPrompt(req *Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Perform the %q step for this task.\n\nTask: %s\n", req.Action, req.Description)
	writeRequirements(&sb, req.Requirements)
	writeContext(&sb, req.Context)
	return sb.String()
}

// writeRequirements appends the requirement entries in a stable order.
func writeRequirements(sb *strings.Builder, reqs map[string]any) {
	if len(reqs) == 0 {
		return
	}
	keys := make([]string, 0, len(reqs))
	for k := range reqs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sb.WriteString("\nRequirements:\n")
	for _, k := range keys {
		fmt.Fprintf(sb, "- %s: %v\n", k, reqs[k])
	}
}

// writeContext appends prior stage outputs in a stable order.
func writeContext(sb *strings.Builder, ctx map[string]any) {
	if len(ctx) == 0 {
		return
	}
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sb.WriteString("\nOutput from earlier steps:\n")
	for _, k := range keys {
		fmt.Fprintf(sb, "## %s\n%v\n", k, ctx[k])
	}
}
