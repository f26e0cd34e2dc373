package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/devteamhq/devteam/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	s := NewStore(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func terminalTask(id string, completedAt time.Time) *models.Task {
	started := completedAt.Add(-time.Second)
	return &models.Task{
		ID:   id,
		Kind: models.KindDebugCode,
		Request: models.TaskRequest{
			Kind:        models.KindDebugCode,
			Description: "fix the crash",
		},
		Status:      models.TaskStatusCompleted,
		Progress:    100,
		Result:      map[string]any{"analyze": "root cause", "fix": "patched"},
		CreatedAt:   completedAt.Add(-time.Minute),
		StartedAt:   &started,
		CompletedAt: &completedAt,
	}
}

func TestStore_SaveAndListRecent(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	if err := s.SaveTask(terminalTask("task-1", now.Add(-2*time.Minute))); err != nil {
		t.Fatalf("SaveTask() error = %v", err)
	}
	if err := s.SaveTask(terminalTask("task-2", now)); err != nil {
		t.Fatalf("SaveTask() error = %v", err)
	}

	tasks, err := s.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("ListRecent() returned %d tasks, want 2", len(tasks))
	}

	// Newest first.
	if tasks[0].ID != "task-2" || tasks[1].ID != "task-1" {
		t.Errorf("ListRecent() order = [%s, %s], want [task-2, task-1]", tasks[0].ID, tasks[1].ID)
	}

	got := tasks[0]
	if got.Kind != models.KindDebugCode {
		t.Errorf("Kind = %q, want %q", got.Kind, models.KindDebugCode)
	}
	if got.Status != models.TaskStatusCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if got.Progress != 100 {
		t.Errorf("Progress = %d, want 100", got.Progress)
	}
	if got.Result["fix"] != "patched" {
		t.Errorf("Result[fix] = %v, want patched", got.Result["fix"])
	}
	if got.StartedAt == nil || got.CompletedAt == nil {
		t.Error("timestamps not round-tripped")
	}
}

func TestStore_SaveTaskUpsert(t *testing.T) {
	s := newTestStore(t)

	task := terminalTask("task-1", time.Now())
	if err := s.SaveTask(task); err != nil {
		t.Fatalf("SaveTask() error = %v", err)
	}

	task.Status = models.TaskStatusFailed
	task.Error = "agent exploded"
	if err := s.SaveTask(task); err != nil {
		t.Fatalf("SaveTask() second write error = %v", err)
	}

	tasks, err := s.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("ListRecent() returned %d tasks, want 1 after upsert", len(tasks))
	}
	if tasks[0].Status != models.TaskStatusFailed || tasks[0].Error != "agent exploded" {
		t.Errorf("upsert did not replace fields: %+v", tasks[0])
	}
}

func TestStore_EvictBefore(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	if err := s.SaveTask(terminalTask("old", now.Add(-10*time.Minute))); err != nil {
		t.Fatalf("SaveTask(old) error = %v", err)
	}
	if err := s.SaveTask(terminalTask("fresh", now)); err != nil {
		t.Fatalf("SaveTask(fresh) error = %v", err)
	}

	if err := s.EvictBefore(now.Add(-time.Minute)); err != nil {
		t.Fatalf("EvictBefore() error = %v", err)
	}

	tasks, err := s.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "fresh" {
		t.Errorf("after eviction tasks = %v, want only fresh", tasks)
	}
}

func TestStore_ListRecentLimit(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	for i := 0; i < 5; i++ {
		task := terminalTask("", now.Add(time.Duration(i)*time.Second))
		task.ID = string(rune('a' + i))
		if err := s.SaveTask(task); err != nil {
			t.Fatalf("SaveTask() error = %v", err)
		}
	}

	tasks, err := s.ListRecent(3)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(tasks) != 3 {
		t.Errorf("ListRecent(3) returned %d tasks, want 3", len(tasks))
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		t.Fatalf("first Migrate() error = %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}
