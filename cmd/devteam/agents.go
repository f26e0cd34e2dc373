package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the agent team and their capabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Listing needs no API access; agents are never executed here.
		noop := func(ctx context.Context, system, prompt string) (string, error) {
			return "", nil
		}

		name := color.New(color.Bold, color.FgCyan)
		for _, m := range team {
			a := m.build(noop)
			status := a.Status()
			name.Printf("%-12s", a.Name())
			fmt.Printf("%s\n", m.description)
			fmt.Printf("            %s\n", color.New(color.Faint).Sprintf(
				"capabilities: %s", strings.Join(status.Capabilities, ", ")))
		}

		return nil
	},
}
