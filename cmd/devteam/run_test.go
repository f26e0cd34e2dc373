package main

import (
	"reflect"
	"testing"
	"time"

	"github.com/devteamhq/devteam/internal/config"
)

func TestParseRequirements(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]any
		wantErr bool
	}{
		{"empty", nil, nil, false},
		{"string value", []string{"database=postgres"}, map[string]any{"database": "postgres"}, false},
		{"true becomes bool", []string{"frontend=true"}, map[string]any{"frontend": true}, false},
		{"false becomes bool", []string{"frontend=false"}, map[string]any{"frontend": false}, false},
		{"value with equals", []string{"dsn=host=db port=5432"}, map[string]any{"dsn": "host=db port=5432"}, false},
		{"multiple", []string{"database=postgres", "frontend=true"}, map[string]any{"database": "postgres", "frontend": true}, false},
		{"missing equals", []string{"database"}, nil, true},
		{"empty key", []string{"=value"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRequirements(tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRequirements(%v) error = %v, wantErr %v", tt.pairs, err, tt.wantErr)
			}
			if err == nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseRequirements(%v) = %v, want %v", tt.pairs, got, tt.want)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID(long) = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID(short) = %q", got)
	}
}

func TestSetConfigValue(t *testing.T) {
	cfg := config.Default()

	if err := setConfigValue(cfg, "orchestrator.max_concurrent", "5"); err != nil {
		t.Fatalf("setConfigValue(max_concurrent) error = %v", err)
	}
	if cfg.Orchestrator.MaxConcurrent != 5 {
		t.Errorf("max_concurrent = %d, want 5", cfg.Orchestrator.MaxConcurrent)
	}

	if err := setConfigValue(cfg, "orchestrator.task_timeout", "10m"); err != nil {
		t.Fatalf("setConfigValue(task_timeout) error = %v", err)
	}
	if cfg.Orchestrator.TaskTimeout != 10*time.Minute {
		t.Errorf("task_timeout = %v, want 10m", cfg.Orchestrator.TaskTimeout)
	}

	if err := setConfigValue(cfg, "orchestrator.max_concurrent", "zero"); err == nil {
		t.Error("setConfigValue should reject non-numeric max_concurrent")
	}
	if err := setConfigValue(cfg, "anthropic.api_key", "not-a-key"); err == nil {
		t.Error("setConfigValue should reject malformed API keys")
	}
	if err := setConfigValue(cfg, "no.such.key", "x"); err == nil {
		t.Error("setConfigValue should reject unknown keys")
	}
}

func TestGetConfigValue(t *testing.T) {
	cfg := config.Default()
	cfg.Anthropic.APIKey = "sk-ant-REDACTED"

	got, err := getConfigValue(cfg, "anthropic.api_key")
	if err != nil {
		t.Fatalf("getConfigValue(api_key) error = %v", err)
	}
	if got == cfg.Anthropic.APIKey {
		t.Error("api_key must be masked for display")
	}

	if _, err := getConfigValue(cfg, "bogus"); err == nil {
		t.Error("getConfigValue should reject unknown keys")
	}
}
