package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devteamhq/devteam/internal/state"
	"github.com/devteamhq/devteam/pkg/models"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent task records",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}

		store, err := state.OpenStore(cwd)
		if err != nil {
			return fmt.Errorf("open task history: %w", err)
		}
		defer store.Close()

		tasks, err := store.ListRecent(historyLimit)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("no tasks recorded")
			return nil
		}

		for _, t := range tasks {
			fmt.Printf("%s  %-22s %-10s %3d%%  %s\n",
				shortID(t.ID), t.Kind, statusLabel(t.Status), t.Progress,
				t.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			if t.Error != "" {
				color.Red("          %s", t.Error)
			}
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of records to show")
}

// statusLabel colors a terminal status for display.
func statusLabel(s models.TaskStatus) string {
	switch s {
	case models.TaskStatusCompleted:
		return color.GreenString(string(s))
	case models.TaskStatusFailed:
		return color.RedString(string(s))
	default:
		return string(s)
	}
}
