package orchestrator

import (
	"time"

	"github.com/devteamhq/devteam/pkg/models"
)

// Default coordinator settings, overridable through options.
const (
	// DefaultMaxConcurrent is the default concurrency cap.
	DefaultMaxConcurrent = 3
	// DefaultTaskTimeout is the default per-task workflow budget.
	DefaultTaskTimeout = 5 * time.Minute
	// DefaultRetention is how long terminal task records stay queryable.
	DefaultRetention = time.Minute
	// DefaultEventBuffer is the default event channel capacity.
	DefaultEventBuffer = 100
)

// Option configures a Coordinator. Use With* functions to create Options.
type Option func(*coordinatorOptions)

// coordinatorOptions holds all optional configuration.
type coordinatorOptions struct {
	maxConcurrent int
	taskTimeout   time.Duration
	retention     time.Duration
	eventBuffer   int
	logger        *DebugLogger
	store         TaskStore
	workflows     map[models.TaskKind]Workflow
	now           func() time.Time
}

func defaultOptions() *coordinatorOptions {
	return &coordinatorOptions{
		maxConcurrent: DefaultMaxConcurrent,
		taskTimeout:   DefaultTaskTimeout,
		retention:     DefaultRetention,
		eventBuffer:   DefaultEventBuffer,
		workflows:     builtinWorkflows(),
		now:           time.Now,
	}
}

// WithMaxConcurrent sets the concurrency cap. Values below 1 are clamped to 1.
func WithMaxConcurrent(n int) Option {
	return func(o *coordinatorOptions) {
		if n < 1 {
			n = 1
		}
		o.maxConcurrent = n
	}
}

// WithTaskTimeout sets the per-task workflow budget.
func WithTaskTimeout(d time.Duration) Option {
	return func(o *coordinatorOptions) {
		if d > 0 {
			o.taskTimeout = d
		}
	}
}

// WithRetention sets how long terminal task records stay queryable
// before lazy eviction.
func WithRetention(d time.Duration) Option {
	return func(o *coordinatorOptions) {
		if d > 0 {
			o.retention = d
		}
	}
}

// WithEventBuffer sets the event channel capacity.
func WithEventBuffer(n int) Option {
	return func(o *coordinatorOptions) {
		if n > 0 {
			o.eventBuffer = n
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *DebugLogger) Option {
	return func(o *coordinatorOptions) { o.logger = l }
}

// WithStore sets the terminal task record store.
func WithStore(s TaskStore) Option {
	return func(o *coordinatorOptions) { o.store = s }
}

// WithWorkflows replaces the built-in workflow table (mainly for testing).
func WithWorkflows(w map[models.TaskKind]Workflow) Option {
	return func(o *coordinatorOptions) { o.workflows = w }
}

// WithClock sets the time source (mainly for testing).
func WithClock(now func() time.Time) Option {
	return func(o *coordinatorOptions) {
		if now != nil {
			o.now = now
		}
	}
}
