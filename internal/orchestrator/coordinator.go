package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devteamhq/devteam/pkg/models"
)

// TaskStore persists terminal task records for the retention window.
// Implementations must be safe for concurrent use.
type TaskStore interface {
	// SaveTask records a terminal task.
	SaveTask(t *models.Task) error
	// EvictBefore removes records that reached a terminal state before cutoff.
	EvictBefore(cutoff time.Time) error
}

// Snapshot is the coordinator's status query result. Pure read.
type Snapshot struct {
	// Initialized reports whether InitializeAgents has run.
	Initialized bool `json:"initialized"`
	// Agents maps agent names to their status.
	Agents map[string]models.AgentStatus `json:"agents"`
	// RunningTasks is the number of workflows currently executing.
	RunningTasks int `json:"running_tasks"`
	// QueuedTasks is the number of admitted tasks waiting for a slot.
	QueuedTasks int `json:"queued_tasks"`
}

// taskRecord pairs a task with its execution plumbing.
type taskRecord struct {
	task   *models.Task
	done   chan struct{}
	cancel context.CancelFunc
	// err is the typed terminal error, surfaced by AwaitResult.
	err error
}

// Coordinator owns the agent registry, the FIFO task queue, the
// concurrency limiter, and the public admission/execution API. All
// shared state is guarded by a single mutex; dispatch is event-driven,
// triggered on submission and on every task completion.
type Coordinator struct {
	registry  *AgentRegistry
	workflows map[models.TaskKind]Workflow
	emitter   *EventEmitter
	logger    *DebugLogger
	store     TaskStore
	now       func() time.Time

	maxConcurrent int
	taskTimeout   time.Duration
	retention     time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.Mutex
	tasks         map[string]*taskRecord
	queue         []*taskRecord // FIFO, admitted but not started
	running       int
	draining      bool
	stopped       bool
	lastStoreScan time.Time
}

// New creates a Coordinator over the given registry.
func New(registry *AgentRegistry, opts ...Option) *Coordinator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Coordinator{
		registry:      registry,
		workflows:     o.workflows,
		emitter:       NewEventEmitter(o.eventBuffer),
		logger:        o.logger,
		store:         o.store,
		now:           o.now,
		maxConcurrent: o.maxConcurrent,
		taskTimeout:   o.taskTimeout,
		retention:     o.retention,
		ctx:           ctx,
		cancel:        cancel,
		tasks:         make(map[string]*taskRecord),
	}

	setPackageLogger(o.logger)

	return c
}

// Registry returns the coordinator's agent registry.
func (c *Coordinator) Registry() *AgentRegistry {
	return c.registry
}

// InitializeAgents runs every registered agent's setup. Agents that
// fail stay excluded from workflows; their names are returned.
func (c *Coordinator) InitializeAgents(ctx context.Context) []string {
	return c.registry.InitializeAll(ctx)
}

// Events returns the channel observers consume. For a given task,
// events arrive in generation order with non-decreasing progress.
func (c *Coordinator) Events() <-chan Event {
	return c.emitter.Events()
}

// DroppedEventCount returns the number of events dropped on slow observers.
func (c *Coordinator) DroppedEventCount() uint64 {
	return c.emitter.DroppedCount()
}

// Submit validates and admits a task. It returns the assigned task ID,
// or *InvalidRequestError without creating a task. The task starts
// immediately if a concurrency slot is free, otherwise it joins the
// FIFO queue.
func (c *Coordinator) Submit(req models.TaskRequest) (string, error) {
	if !req.Kind.Valid() {
		return "", &InvalidRequestError{Reason: fmt.Sprintf("unknown kind %q", req.Kind)}
	}
	if strings.TrimSpace(req.Description) == "" {
		return "", &InvalidRequestError{Reason: "description must not be empty"}
	}
	if _, ok := c.workflows[req.Kind]; !ok {
		return "", &InvalidRequestError{Reason: fmt.Sprintf("no workflow for kind %q", req.Kind)}
	}

	now := c.now()
	task := &models.Task{
		ID:        uuid.New().String(),
		Kind:      req.Kind,
		Request:   req,
		Status:    models.TaskStatusPending,
		Context:   make(map[string]any),
		CreatedAt: now,
	}
	rec := &taskRecord{task: task, done: make(chan struct{})}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return "", fmt.Errorf("coordinator stopped")
	}

	c.sweepLocked(now)
	c.tasks[task.ID] = rec

	if c.running < c.maxConcurrent && !c.draining {
		c.startLocked(rec)
	} else {
		c.queue = append(c.queue, rec)
		c.emitter.Emit(Event{Type: EventTaskQueued, TaskID: task.ID, Timestamp: now})
		c.logger.Log("[coordinator] task %s queued (running=%d, queued=%d)", task.ID, c.running, len(c.queue))
	}

	return task.ID, nil
}

// AwaitResult blocks until the task reaches a terminal status, then
// returns its result or its stored error. Unknown (or already evicted)
// task IDs error.
func (c *Coordinator) AwaitResult(ctx context.Context, taskID string) (map[string]any, error) {
	c.mu.Lock()
	rec, ok := c.tasks[taskID]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown task %s", taskID)
	}

	select {
	case <-rec.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if rec.err != nil {
		return nil, rec.err
	}
	return rec.task.Result, nil
}

// Task returns a copy of the task record, if it is still retained.
func (c *Coordinator) Task(taskID string) (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.tasks[taskID]
	if !ok {
		return models.Task{}, false
	}

	t := *rec.task
	t.Context = copyMap(rec.task.Context)
	t.Result = copyMap(rec.task.Result)
	return t, true
}

// Status returns running/queued counts plus per-agent status. Pure read
// apart from lazy eviction of expired records.
func (c *Coordinator) Status() Snapshot {
	c.mu.Lock()
	c.sweepLocked(c.now())
	running := c.running
	queued := len(c.queue)
	c.mu.Unlock()

	return Snapshot{
		Initialized:  c.registry.Initialized(),
		Agents:       c.registry.Snapshot(),
		RunningTasks: running,
		QueuedTasks:  queued,
	}
}

// SetDraining toggles admission of queued tasks into free slots.
// Draining does not touch running tasks; clearing it dispatches again.
func (c *Coordinator) SetDraining(draining bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draining = draining
	c.logger.Log("[coordinator] draining=%v", draining)
	if !draining {
		c.dispatchLocked()
	}
}

// CancelRunning requests cooperative cancellation of every running
// workflow. Best effort: an agent invocation that ignores its context
// is abandoned and its eventual result discarded.
func (c *Coordinator) CancelRunning(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Log("[coordinator] cancelling running tasks: %s", reason)
	for _, rec := range c.tasks {
		if rec.task.Status == models.TaskStatusRunning && rec.cancel != nil {
			rec.cancel()
		}
	}
}

// Stop cancels running workflows, fails queued tasks, waits for
// everything to settle, and closes the event channel.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true

	// Fail queued tasks so no awaiter hangs.
	queued := c.queue
	c.queue = nil
	for _, rec := range queued {
		c.terminateLocked(rec, fmt.Errorf("coordinator stopped before task started"))
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	c.emitter.Close()
}

// startLocked claims a slot and launches the task's workflow.
// Caller must hold c.mu.
func (c *Coordinator) startLocked(rec *taskRecord) {
	c.running++
	now := c.now()
	rec.task.Status = models.TaskStatusRunning
	rec.task.StartedAt = &now

	tctx, cancel := context.WithTimeout(c.ctx, c.taskTimeout)
	rec.cancel = cancel

	c.emitter.Emit(Event{Type: EventTaskStarted, TaskID: rec.task.ID, Timestamp: now})
	c.logger.Log("[coordinator] task %s started (running=%d)", rec.task.ID, c.running)

	c.wg.Add(1)
	go c.run(tctx, rec)
}

// run drives one task's workflow and records its terminal state.
func (c *Coordinator) run(ctx context.Context, rec *taskRecord) {
	defer c.wg.Done()
	defer rec.cancel()

	engineDone := make(chan error, 1)
	go func() {
		engineDone <- c.runWorkflow(ctx, rec)
	}()

	select {
	case err := <-engineDone:
		// A workflow that unwound because the deadline passed is a
		// timeout regardless of which error the final stage surfaced.
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = &TimeoutError{TaskID: rec.task.ID, Timeout: c.taskTimeout}
		}
		c.finish(rec, err)
	case <-ctx.Done():
		// Best-effort cancellation: the workflow goroutine keeps the
		// cancelled context and unwinds on its own; whatever it
		// eventually produces is discarded by the terminal check.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.finish(rec, &TimeoutError{TaskID: rec.task.ID, Timeout: c.taskTimeout})
		} else {
			c.finish(rec, fmt.Errorf("task %s cancelled: %w", rec.task.ID, context.Canceled))
		}
	}
}

// finish records a task's terminal state, releases its slot, emits the
// terminal event, and dispatches queued work. Idempotent: only the
// first terminal outcome for a task wins; later ones are discarded.
func (c *Coordinator) finish(rec *taskRecord, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec.task.Status.Terminal() {
		return
	}

	c.running--
	c.terminateLocked(rec, err)
	c.dispatchLocked()
}

// terminateLocked moves a task to its terminal state and emits the
// terminal event. Caller must hold c.mu and have adjusted the running
// count if the task held a slot.
func (c *Coordinator) terminateLocked(rec *taskRecord, err error) {
	t := rec.task
	now := c.now()
	t.CompletedAt = &now

	if err != nil {
		rec.err = err
		t.Status = models.TaskStatusFailed
		t.Error = err.Error()
		c.emitter.Emit(Event{Type: EventTaskFailed, TaskID: t.ID, Progress: t.Progress, Err: err, Timestamp: now})
		c.logger.Log("[coordinator] task %s failed: %v", t.ID, err)
	} else {
		wf := c.workflows[t.Kind]
		shape := wf.Shape
		if shape == nil {
			shape = projectContext
		}
		t.Result = shape(t)
		t.Progress = 100
		t.Status = models.TaskStatusCompleted
		c.emitter.Emit(Event{Type: EventTaskCompleted, TaskID: t.ID, Progress: 100, Result: t.Result, Timestamp: now})
		c.logger.Log("[coordinator] task %s completed", t.ID)
	}

	close(rec.done)
	c.persistLocked(t)
}

// dispatchLocked starts queued tasks while slots are free, preserving
// FIFO submission order. Caller must hold c.mu.
func (c *Coordinator) dispatchLocked() {
	for c.running < c.maxConcurrent && len(c.queue) > 0 && !c.draining && !c.stopped {
		rec := c.queue[0]
		c.queue = c.queue[1:]
		c.startLocked(rec)
	}
}

// sweepLocked lazily evicts terminal records past the retention
// window. Best effort, piggybacked on submissions and status queries.
// Caller must hold c.mu.
func (c *Coordinator) sweepLocked(now time.Time) {
	cutoff := now.Add(-c.retention)
	for id, rec := range c.tasks {
		t := rec.task
		if t.Status.Terminal() && t.CompletedAt != nil && t.CompletedAt.Before(cutoff) {
			delete(c.tasks, id)
		}
	}

	// The store sweeps on its own cadence to keep IO off the hot path.
	if c.store != nil && now.Sub(c.lastStoreScan) >= c.retention {
		c.lastStoreScan = now
		store := c.store
		go func() {
			if err := store.EvictBefore(cutoff); err != nil {
				debugLog("[coordinator] store eviction failed: %v", err)
			}
		}()
	}
}

// persistLocked writes a terminal task record to the store, if one is
// configured. Failures are logged, never fatal. Caller must hold c.mu.
func (c *Coordinator) persistLocked(t *models.Task) {
	if c.store == nil {
		return
	}
	saved := *t
	saved.Context = copyMap(t.Context)
	saved.Result = copyMap(t.Result)
	store := c.store
	go func() {
		if err := store.SaveTask(&saved); err != nil {
			debugLog("[coordinator] persisting task %s failed: %v", saved.ID, err)
		}
	}()
}

// copyMap returns a shallow copy of m, or nil for empty input.
func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
