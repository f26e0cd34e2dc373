package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/devteamhq/devteam/pkg/models"
)

// Store persists terminal task records. It satisfies the coordinator's
// TaskStore interface and additionally supports history queries.
type Store struct {
	db *DB
}

// NewStore wraps an opened, migrated database.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// OpenStore opens the project-local database, applies migrations, and
// returns a store over it.
func OpenStore(projectRoot string) (*Store, error) {
	db, err := OpenProject(projectRoot)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return NewStore(db), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTask upserts a terminal task record.
func (s *Store) SaveTask(t *models.Task) error {
	result, err := json.Marshal(t.Result)
	if err != nil {
		return fmt.Errorf("marshal task result: %w", err)
	}

	var startedAt, completedAt any
	if t.StartedAt != nil {
		startedAt = formatTime(*t.StartedAt)
	}
	if t.CompletedAt != nil {
		completedAt = formatTime(*t.CompletedAt)
	}

	_, err = s.db.Exec(`
		INSERT INTO tasks (id, kind, description, status, progress, error, result, created_at, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			progress = excluded.progress,
			error = excluded.error,
			result = excluded.result,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at
	`, t.ID, string(t.Kind), t.Request.Description, string(t.Status), t.Progress,
		t.Error, string(result), formatTime(t.CreatedAt), startedAt, completedAt)
	if err != nil {
		return fmt.Errorf("save task %s: %w", t.ID, err)
	}

	return nil
}

// EvictBefore deletes records that reached a terminal state before cutoff.
func (s *Store) EvictBefore(cutoff time.Time) error {
	_, err := s.db.Exec(`
		DELETE FROM tasks WHERE completed_at IS NOT NULL AND completed_at < ?
	`, formatTime(cutoff))
	if err != nil {
		return fmt.Errorf("evict tasks: %w", err)
	}
	return nil
}

// ListRecent returns up to limit task records, newest first.
func (s *Store) ListRecent(limit int) ([]models.Task, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, kind, description, status, progress, error, result, created_at, started_at, completed_at
		FROM tasks
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var (
			t                      models.Task
			kind, status           string
			errMsg, result         sql.NullString
			createdAt              string
			startedAt, completedAt sql.NullString
		)
		if err := rows.Scan(&t.ID, &kind, &t.Request.Description, &status, &t.Progress,
			&errMsg, &result, &createdAt, &startedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}

		t.Kind = models.TaskKind(kind)
		t.Request.Kind = t.Kind
		t.Status = models.TaskStatus(status)
		t.Error = errMsg.String
		if result.Valid && result.String != "" && result.String != "null" {
			if err := json.Unmarshal([]byte(result.String), &t.Result); err != nil {
				return nil, fmt.Errorf("unmarshal result for task %s: %w", t.ID, err)
			}
		}
		if created, err := parseTime(createdAt); err == nil {
			t.CreatedAt = created
		}
		t.StartedAt = parseNullableTime(startedAt)
		t.CompletedAt = parseNullableTime(completedAt)

		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}
