package agent

import (
	"fmt"
	"strings"

	"github.com/devteamhq/devteam/internal/llm"
)

// Well-known agent names used by the built-in workflows.
const (
	NameArchitect = "architect"
	NameCoder     = "coder"
	NameReviewer  = "reviewer"
	NameDebugger  = "debugger"
	NameOptimizer = "optimizer"
	NameDeployer  = "deployer"
)

// NewArchitect creates the architecture-design agent.
func NewArchitect(complete llm.CompleteFunc) *AIAgent {
	return NewAIAgent(
		NameArchitect,
		[]string{"architecture", "system-design", "data-modeling"},
		"You are a senior software architect. Produce concise, concrete designs: components, responsibilities, data flow. No filler.",
		complete,
		map[string]PromptBuilder{
			"architecture": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Design the architecture for this project.\n\nProject: %s\n", req.Description)
				writeRequirements(&sb, req.Requirements)
				sb.WriteString("\nList the components, their responsibilities, and how data flows between them.\n")
				return sb.String()
			},
			"database": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Design the database schema for this project.\n\nProject: %s\n", req.Description)
				writeRequirements(&sb, req.Requirements)
				writeContext(&sb, req.Context)
				sb.WriteString("\nList tables, columns, keys, and the relationships between them.\n")
				return sb.String()
			},
		},
	)
}

// NewCoder creates the implementation agent.
func NewCoder(complete llm.CompleteFunc) *AIAgent {
	return NewAIAgent(
		NameCoder,
		[]string{"implementation", "backend", "frontend"},
		"You are a senior software engineer. Write working, idiomatic code that follows the design you are given.",
		complete,
		map[string]PromptBuilder{
			"backend": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Implement the backend for this project.\n\nProject: %s\n", req.Description)
				writeRequirements(&sb, req.Requirements)
				writeContext(&sb, req.Context)
				return sb.String()
			},
			"frontend": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Implement the frontend for this project.\n\nProject: %s\n", req.Description)
				writeRequirements(&sb, req.Requirements)
				writeContext(&sb, req.Context)
				return sb.String()
			},
			"fix": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Fix the defect described below, guided by the analysis from the previous step.\n\nDefect: %s\n", req.Description)
				writeContext(&sb, req.Context)
				sb.WriteString("\nShow the corrected code and explain the change in one paragraph.\n")
				return sb.String()
			},
		},
	)
}

// NewReviewer creates the code-review agent.
func NewReviewer(complete llm.CompleteFunc) *AIAgent {
	return NewAIAgent(
		NameReviewer,
		[]string{"code-review", "security", "verification"},
		"You are a meticulous code reviewer. Report concrete problems with file and line references where possible.",
		complete,
		map[string]PromptBuilder{
			"review": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Review the following work for correctness, clarity, and edge cases.\n\nTask: %s\n", req.Description)
				writeContext(&sb, req.Context)
				return sb.String()
			},
			"security": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Audit the following work for security problems: injection, authz gaps, unsafe defaults.\n\nTask: %s\n", req.Description)
				writeContext(&sb, req.Context)
				return sb.String()
			},
			"verify": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Verify that the fix below actually resolves the reported defect and introduces no regression.\n\nDefect: %s\n", req.Description)
				writeContext(&sb, req.Context)
				return sb.String()
			},
			"summary": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Summarize the findings from the previous review steps for the submitter.\n\nTask: %s\n", req.Description)
				writeContext(&sb, req.Context)
				return sb.String()
			},
			"validate": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Validate that this application is ready to deploy: configuration, migrations, health endpoints.\n\nApplication: %s\n", req.Description)
				writeRequirements(&sb, req.Requirements)
				return sb.String()
			},
			"benchmark": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Assess whether the optimization below is safe and estimate its impact.\n\nTask: %s\n", req.Description)
				writeContext(&sb, req.Context)
				return sb.String()
			},
		},
	)
}

// NewDebugger creates the defect-analysis agent.
func NewDebugger(complete llm.CompleteFunc) *AIAgent {
	return NewAIAgent(
		NameDebugger,
		[]string{"debugging", "root-cause-analysis"},
		"You are a debugging specialist. Find the root cause, not the symptom.",
		complete,
		map[string]PromptBuilder{
			"analyze": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Analyze this defect report and identify the most likely root cause.\n\nDefect: %s\n", req.Description)
				writeRequirements(&sb, req.Requirements)
				return sb.String()
			},
		},
	)
}

// NewOptimizer creates the performance agent.
func NewOptimizer(complete llm.CompleteFunc) *AIAgent {
	return NewAIAgent(
		NameOptimizer,
		[]string{"profiling", "performance"},
		"You are a performance engineer. Measure before you cut; prefer algorithmic wins over micro-optimizations.",
		complete,
		map[string]PromptBuilder{
			"profile": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Identify the likely performance hot spots for this code or system.\n\nTarget: %s\n", req.Description)
				writeRequirements(&sb, req.Requirements)
				return sb.String()
			},
			"optimize": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Propose concrete optimizations for the hot spots found in the previous step.\n\nTarget: %s\n", req.Description)
				writeContext(&sb, req.Context)
				return sb.String()
			},
		},
	)
}

// NewDeployer creates the deployment agent.
func NewDeployer(complete llm.CompleteFunc) *AIAgent {
	return NewAIAgent(
		NameDeployer,
		[]string{"deployment", "infrastructure"},
		"You are a release engineer. Produce explicit, ordered deployment steps with rollback notes.",
		complete,
		map[string]PromptBuilder{
			"provision": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Describe the infrastructure to provision for this application.\n\nApplication: %s\n", req.Description)
				writeRequirements(&sb, req.Requirements)
				writeContext(&sb, req.Context)
				return sb.String()
			},
			"deploy": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "Produce the deployment plan for this application, step by step, with a rollback path.\n\nApplication: %s\n", req.Description)
				writeContext(&sb, req.Context)
				return sb.String()
			},
			"healthcheck": func(req *Request) string {
				var sb strings.Builder
				fmt.Fprintf(&sb, "List the post-deploy health checks for this application and what a failure of each means.\n\nApplication: %s\n", req.Description)
				writeContext(&sb, req.Context)
				return sb.String()
			},
		},
	)
}
