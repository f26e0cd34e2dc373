package main

import (
	"github.com/devteamhq/devteam/internal/agent"
	"github.com/devteamhq/devteam/internal/llm"
	"github.com/devteamhq/devteam/internal/orchestrator"
)

// teamMember pairs an agent constructor with its display description.
type teamMember struct {
	build       func(llm.CompleteFunc) *agent.AIAgent
	description string
}

// team is the full built-in agent roster, in display order.
var team = []teamMember{
	{agent.NewArchitect, "designs system architecture and data models"},
	{agent.NewCoder, "implements backends, frontends, and fixes"},
	{agent.NewReviewer, "reviews code for correctness and security"},
	{agent.NewDebugger, "analyzes defects down to the root cause"},
	{agent.NewOptimizer, "profiles and optimizes hot paths"},
	{agent.NewDeployer, "provisions infrastructure and runs deployments"},
}

// registerTeam registers the full roster on the registry.
func registerTeam(registry *orchestrator.AgentRegistry, complete llm.CompleteFunc) error {
	for _, m := range team {
		if err := registry.Register(m.build(complete), m.description); err != nil {
			return err
		}
	}
	return nil
}
