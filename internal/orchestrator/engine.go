package orchestrator

import (
	"context"

	"github.com/devteamhq/devteam/internal/agent"
)

// runWorkflow executes the fixed stage list for the task's kind,
// threading the accumulated context through agents in declared order.
// Stages run strictly sequentially; there is no intra-task parallelism
// and no stage retry. A failed mandatory stage fails the whole task;
// already-merged context is discarded with the record.
func (c *Coordinator) runWorkflow(ctx context.Context, rec *taskRecord) error {
	task := rec.task
	wf := c.workflows[task.Kind]

	for _, st := range wf.Stages {
		if err := ctx.Err(); err != nil {
			return err
		}

		if st.Guard != nil && !st.Guard(task.Request) {
			c.emitSkip(rec, st, "guard not satisfied")
			continue
		}

		a, registered := c.registry.Lookup(st.Agent)
		if !registered || !c.registry.Available(st.Agent) {
			if st.Mandatory {
				return &MissingAgentError{Stage: st.Name, Agent: st.Agent}
			}
			c.emitSkip(rec, st, "agent unavailable")
			continue
		}

		req := &agent.Request{
			TaskID:       task.ID,
			Kind:         task.Kind,
			Action:       st.Name,
			Description:  task.Request.Description,
			Requirements: copyMap(task.Request.Requirements),
			Context:      c.contextSnapshot(rec),
		}

		res, err := a.Execute(ctx, req)
		if err != nil {
			wrapped := &AgentExecutionError{Stage: st.Name, Agent: st.Agent, Err: err}
			if st.Mandatory {
				return wrapped
			}
			// Optional stage failure degrades the workflow instead of
			// aborting it, mirroring the missing-agent policy.
			debugLog("[engine] task %s: optional %v", task.ID, wrapped)
			c.emitSkip(rec, st, "stage failed")
			continue
		}

		if !c.applyStage(rec, st, res.Output) {
			// The task reached a terminal state elsewhere (timeout or
			// cancellation); the output is discarded.
			return context.Canceled
		}
	}

	return nil
}

// applyStage merges a stage's output into the task context under the
// stage's key, advances progress to the checkpoint, and emits the
// progress event. Returns false when the task is no longer running.
func (c *Coordinator) applyStage(rec *taskRecord, st Stage, output any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := rec.task
	if t.Status.Terminal() {
		return false
	}

	t.Context[st.Name] = output
	if st.Checkpoint > t.Progress {
		t.Progress = st.Checkpoint
	}

	c.emitter.Emit(Event{
		Type:      EventTaskProgress,
		TaskID:    t.ID,
		Stage:     st.Name,
		Agent:     st.Agent,
		Progress:  t.Progress,
		Timestamp: c.now(),
	})
	return true
}

// contextSnapshot returns a read-only copy of the task's accumulated
// context for handing to an agent.
func (c *Coordinator) contextSnapshot(rec *taskRecord) map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMap(rec.task.Context)
}

// emitSkip reports a skipped stage. Progress does not change.
func (c *Coordinator) emitSkip(rec *taskRecord, st Stage, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := rec.task
	if t.Status.Terminal() {
		return
	}

	debugLog("[engine] task %s: stage %s skipped: %s", t.ID, st.Name, reason)
	c.emitter.Emit(Event{
		Type:      EventStageSkipped,
		TaskID:    t.ID,
		Stage:     st.Name,
		Agent:     st.Agent,
		Progress:  t.Progress,
		Timestamp: c.now(),
	})
}
