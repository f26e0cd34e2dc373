package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devteamhq/devteam/internal/config"
	"github.com/devteamhq/devteam/internal/llm"
	"github.com/devteamhq/devteam/internal/orchestrator"
	"github.com/devteamhq/devteam/internal/state"
	"github.com/devteamhq/devteam/pkg/models"
)

var (
	runKind          string
	runReqs          []string
	runTimeout       time.Duration
	runMaxConcurrent int
	runQuiet         bool
)

var runCmd = &cobra.Command{
	Use:   "run [description]",
	Short: "Submit a task to the agent team and wait for the result",
	Long: `Run submits a task of the given kind and streams stage progress
until the task completes, fails, or times out.

Requirements are free-form key=value pairs some workflow stages key off:
for example "--req database=postgres" enables the database design stage
of create_project, and "--req frontend=true" enables the frontend stage.

Examples:
  devteam run --kind create_project "a todo API" --req database=postgres
  devteam run --kind debug_code "login handler panics on empty body"
  devteam run --kind review_code "the new billing module" --req security=true`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

func init() {
	runCmd.Flags().StringVarP(&runKind, "kind", "k", string(models.KindCreateProject), "task kind")
	runCmd.Flags().StringArrayVarP(&runReqs, "req", "r", nil, "requirement as key=value (repeatable)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "per-task timeout (default from config)")
	runCmd.Flags().IntVar(&runMaxConcurrent, "max-concurrent", 0, "concurrent task cap (default from config)")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "suppress progress output, print only the result")
}

func runTask(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if runTimeout > 0 {
		cfg.Orchestrator.TaskTimeout = runTimeout
	}
	if runMaxConcurrent > 0 {
		cfg.Orchestrator.MaxConcurrent = runMaxConcurrent
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry := orchestrator.NewAgentRegistry()
	if err := registerTeam(registry, client.CompleteFunc()); err != nil {
		return err
	}

	opts := []orchestrator.Option{
		orchestrator.WithMaxConcurrent(cfg.Orchestrator.MaxConcurrent),
		orchestrator.WithTaskTimeout(cfg.Orchestrator.TaskTimeout),
		orchestrator.WithRetention(cfg.Orchestrator.Retention),
		orchestrator.WithEventBuffer(cfg.Orchestrator.EventBuffer),
		orchestrator.WithLogger(orchestrator.NewDebugLoggerForDir(cwd)),
	}

	store, err := state.OpenStore(cwd)
	if err != nil {
		color.Yellow("warning: task history unavailable: %v", err)
	} else {
		defer store.Close()
		opts = append(opts, orchestrator.WithStore(store))
	}

	coord := orchestrator.New(registry, opts...)
	defer coord.Stop()

	if failed := coord.InitializeAgents(ctx); len(failed) > 0 {
		color.Yellow("warning: agents failed to initialize: %s", strings.Join(failed, ", "))
	}

	watcher, err := orchestrator.NewSignalWatcher(cwd, coord)
	if err == nil {
		defer watcher.Close()
	}

	requirements, err := parseRequirements(runReqs)
	if err != nil {
		return err
	}

	taskID, err := coord.Submit(models.TaskRequest{
		Kind:         models.TaskKind(runKind),
		Description:  strings.Join(args, " "),
		Requirements: requirements,
	})
	if err != nil {
		return err
	}

	if !runQuiet {
		fmt.Printf("task %s submitted (%s)\n", shortID(taskID), runKind)
		go streamEvents(coord.Events(), taskID)
	}

	result, err := coord.AwaitResult(ctx, taskID)
	if err != nil {
		color.Red("task failed: %v", err)
		return err
	}

	printResult(result)

	input, output := client.Tracker().Total()
	if !runQuiet {
		fmt.Printf("\n%s %d calls, %d input / %d output tokens\n",
			color.New(color.Faint).Sprint("usage:"), client.Tracker().Calls(), input, output)
	}

	return nil
}

// buildClient constructs the completion client from config.
func buildClient(cfg *config.Config) (*llm.Client, error) {
	clientCfg := llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	}

	if !clientCfg.UseAWSBedrock {
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w\n\nSet ANTHROPIC_API_KEY or add anthropic.api_key to %s",
				err, config.GetUserConfigPath())
		}
		clientCfg.APIKey = key
	}

	return llm.NewClient(clientCfg)
}

// streamEvents prints task progress until the channel closes.
func streamEvents(events <-chan orchestrator.Event, taskID string) {
	stage := color.New(color.FgCyan)
	done := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)

	for ev := range events {
		if ev.TaskID != taskID {
			continue
		}
		switch ev.Type {
		case orchestrator.EventTaskQueued:
			warn.Println("waiting for a free slot...")
		case orchestrator.EventTaskStarted:
			stage.Println("task started")
		case orchestrator.EventTaskProgress:
			done.Printf("[%3d%%] %s (%s)\n", ev.Progress, ev.Stage, ev.Agent)
		case orchestrator.EventStageSkipped:
			warn.Printf("       %s skipped\n", ev.Stage)
		case orchestrator.EventTaskCompleted, orchestrator.EventTaskFailed:
			return
		}
	}
}

// printResult writes each stage's output under a bold header.
func printResult(result map[string]any) {
	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	header := color.New(color.Bold)
	for _, k := range keys {
		fmt.Println()
		header.Printf("== %s ==\n", k)
		fmt.Println(strings.TrimSpace(fmt.Sprint(result[k])))
	}
}

// parseRequirements turns key=value flags into a requirements map.
// Bare "true"/"false" values become booleans.
func parseRequirements(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	reqs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid requirement %q, want key=value", pair)
		}
		switch value {
		case "true":
			reqs[key] = true
		case "false":
			reqs[key] = false
		default:
			reqs[key] = value
		}
	}
	return reqs, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
