package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/devteamhq/devteam/pkg/models"
)

func TestBase_InitializeSuccess(t *testing.T) {
	b := NewBase("worker", []string{"x"}, nil)

	if got := b.Status().State; got != models.AgentStateUninitialized {
		t.Fatalf("initial state = %q, want %q", got, models.AgentStateUninitialized)
	}

	if err := b.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if got := b.Status().State; got != models.AgentStateReady {
		t.Errorf("state after Initialize = %q, want %q", got, models.AgentStateReady)
	}
}

func TestBase_InitializeFailureIsTerminal(t *testing.T) {
	setupErr := errors.New("no credentials")
	b := NewBase("worker", nil, func(ctx context.Context) error { return setupErr })

	if err := b.Initialize(context.Background()); !errors.Is(err, setupErr) {
		t.Fatalf("Initialize() error = %v, want wrapping %v", err, setupErr)
	}

	st := b.Status()
	if st.State != models.AgentStateFailed {
		t.Errorf("state = %q, want %q", st.State, models.AgentStateFailed)
	}
	if len(st.Errors) != 1 {
		t.Errorf("error log length = %d, want 1", len(st.Errors))
	}

	// No retry: a second Initialize is an invalid transition.
	if err := b.Initialize(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("re-Initialize error = %v, want ErrInvalidTransition", err)
	}
}

func TestBase_DoubleInitializeRejected(t *testing.T) {
	b := NewBase("worker", nil, nil)
	if err := b.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := b.Initialize(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Initialize error = %v, want ErrInvalidTransition", err)
	}
}

func TestBase_BeginRequiresReady(t *testing.T) {
	b := NewBase("worker", nil, nil)

	if err := b.begin("t1"); !errors.Is(err, ErrAgentNotReady) {
		t.Errorf("begin on uninitialized agent = %v, want ErrAgentNotReady", err)
	}

	if err := b.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := b.begin("t1"); err != nil {
		t.Fatalf("begin() error = %v", err)
	}

	st := b.Status()
	if !st.Busy || st.CurrentTaskID != "t1" {
		t.Errorf("Status() = %+v, want busy with task t1", st)
	}

	// Busy agent fails fast, never queues.
	if err := b.begin("t2"); !errors.Is(err, ErrAgentBusy) {
		t.Errorf("begin on busy agent = %v, want ErrAgentBusy", err)
	}
}

func TestBase_FinishSuccessCountsCompletion(t *testing.T) {
	b := NewBase("worker", nil, nil)
	if err := b.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		taskID := fmt.Sprintf("t%d", i)
		if err := b.begin(taskID); err != nil {
			t.Fatalf("begin(%s) error = %v", taskID, err)
		}
		b.finish(taskID, nil)
	}

	st := b.Status()
	if st.CompletedCount != 3 {
		t.Errorf("CompletedCount = %d, want 3", st.CompletedCount)
	}
	if st.State != models.AgentStateReady {
		t.Errorf("state = %q, want ready", st.State)
	}
	if st.CurrentTaskID != "" {
		t.Errorf("CurrentTaskID = %q, want empty", st.CurrentTaskID)
	}
}

func TestBase_FinishFailureLogsAndRecovers(t *testing.T) {
	b := NewBase("worker", nil, nil)
	if err := b.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if err := b.begin("t1"); err != nil {
		t.Fatalf("begin() error = %v", err)
	}
	b.finish("t1", errors.New("provider exploded"))

	st := b.Status()
	if st.State != models.AgentStateReady {
		t.Errorf("state after failed task = %q, want ready (failure must not disable the agent)", st.State)
	}
	if st.CompletedCount != 0 {
		t.Errorf("CompletedCount = %d, want 0", st.CompletedCount)
	}
	if len(st.Errors) != 1 || st.Errors[0].TaskID != "t1" {
		t.Errorf("error log = %+v, want one entry for t1", st.Errors)
	}

	// The agent accepts new work after a failure.
	if err := b.begin("t2"); err != nil {
		t.Errorf("begin after failure = %v, want nil", err)
	}
}

func TestBase_ErrorLogBounded(t *testing.T) {
	b := NewBase("worker", nil, nil)
	if err := b.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	for i := 0; i < maxErrorLog+10; i++ {
		taskID := fmt.Sprintf("t%d", i)
		if err := b.begin(taskID); err != nil {
			t.Fatalf("begin(%s) error = %v", taskID, err)
		}
		b.finish(taskID, errors.New("boom"))
	}

	st := b.Status()
	if len(st.Errors) != maxErrorLog {
		t.Errorf("error log length = %d, want %d", len(st.Errors), maxErrorLog)
	}
	// Oldest entries dropped: the first retained entry is t10.
	if st.Errors[0].TaskID != "t10" {
		t.Errorf("oldest retained entry = %q, want t10", st.Errors[0].TaskID)
	}
}

func TestBase_StatusReturnsCopies(t *testing.T) {
	b := NewBase("worker", []string{"a", "b"}, nil)
	st := b.Status()
	st.Capabilities[0] = "mutated"

	if got := b.Status().Capabilities[0]; got != "a" {
		t.Errorf("capabilities leaked: got %q, want %q", got, "a")
	}
}
