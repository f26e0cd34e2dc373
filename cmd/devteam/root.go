package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "devteam",
	Short: "AI development team task orchestrator",
	Long: `Devteam coordinates a team of specialized AI agents (architect, coder,
reviewer, debugger, optimizer, deployer) through staged workflows.

Submit a task with a kind and a description; the orchestrator picks the
workflow for that kind, runs its stages through the right agents, and
streams progress as it goes.

Task kinds:
  create_project        design and implement a project end to end
  debug_code            analyze, fix, and verify a defect
  review_code           review code for correctness and security
  optimize_performance  profile and optimize a hot path
  deploy_application    validate, provision, and deploy`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
