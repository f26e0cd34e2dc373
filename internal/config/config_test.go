package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Orchestrator.MaxConcurrent != 3 {
		t.Errorf("expected default max_concurrent 3, got %d", cfg.Orchestrator.MaxConcurrent)
	}

	if cfg.Orchestrator.TaskTimeout != 5*time.Minute {
		t.Errorf("expected default task timeout 5m, got %v", cfg.Orchestrator.TaskTimeout)
	}

	if cfg.Orchestrator.Retention != time.Minute {
		t.Errorf("expected default retention 1m, got %v", cfg.Orchestrator.Retention)
	}

	if cfg.Orchestrator.EventBuffer != 100 {
		t.Errorf("expected default event buffer 100, got %d", cfg.Orchestrator.EventBuffer)
	}

	if cfg.Anthropic.Model == "" {
		t.Error("expected a default model")
	}

	if cfg.Anthropic.UseBedrock {
		t.Error("expected bedrock off by default")
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
anthropic:
  api_key: sk-ant-test123
  model: claude-opus-4-1
orchestrator:
  max_concurrent: 5
  task_timeout: 10m
  retention: 2m
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	if cfg.Anthropic.APIKey != "sk-ant-test123" {
		t.Errorf("api_key = %q, want sk-ant-test123", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.Model != "claude-opus-4-1" {
		t.Errorf("model = %q, want claude-opus-4-1", cfg.Anthropic.Model)
	}
	if cfg.Orchestrator.MaxConcurrent != 5 {
		t.Errorf("max_concurrent = %d, want 5", cfg.Orchestrator.MaxConcurrent)
	}
	if cfg.Orchestrator.TaskTimeout != 10*time.Minute {
		t.Errorf("task_timeout = %v, want 10m", cfg.Orchestrator.TaskTimeout)
	}
	if cfg.Orchestrator.Retention != 2*time.Minute {
		t.Errorf("retention = %v, want 2m", cfg.Orchestrator.Retention)
	}

	// Unset keys fall back to defaults.
	if cfg.Orchestrator.EventBuffer != 100 {
		t.Errorf("event_buffer = %d, want default 100", cfg.Orchestrator.EventBuffer)
	}
}

func TestLoadFromPath_ExpandsEnvReferences(t *testing.T) {
	t.Setenv("TEST_DEVTEAM_KEY", "sk-ant-from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "anthropic:\n  api_key: ${TEST_DEVTEAM_KEY}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	if cfg.Anthropic.APIKey != "sk-ant-from-env" {
		t.Errorf("api_key = %q, want expanded env value", cfg.Anthropic.APIKey)
	}
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("LoadFromPath() on missing file should error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Anthropic.APIKey = "sk-ant-saved"
	cfg.Orchestrator.MaxConcurrent = 7

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadFromPath(GetUserConfigPath())
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.Anthropic.APIKey != "sk-ant-saved" {
		t.Errorf("api_key = %q, want sk-ant-saved", loaded.Anthropic.APIKey)
	}
	if loaded.Orchestrator.MaxConcurrent != 7 {
		t.Errorf("max_concurrent = %d, want 7", loaded.Orchestrator.MaxConcurrent)
	}
}
