package config

import (
	"os"
	"path/filepath"
	"testing"
)

var configEnvKeys = []string{
	"TASKPLANNER_CONFIG", "PORT", "TASKS_DB_PATH", "ANALYZER_BASE_URL",
	"LOG_LEVEL", "AUTH_TOKEN_TTL_HOURS", "SNAPSHOT_SLOT",
	"CANVAS_WIDTH", "CANVAS_HEIGHT",
	"WEIGHT_URGENCY", "WEIGHT_IMPORTANCE", "WEIGHT_EFFORT", "WEIGHT_DEPENDENCY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Port)
	}
	if cfg.DBPath != "./data/taskplanner.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.SnapshotSlot != "tasks" {
		t.Errorf("SnapshotSlot = %q", cfg.SnapshotSlot)
	}
	if cfg.TokenTTLHours != 24 {
		t.Errorf("TokenTTLHours = %d", cfg.TokenTTLHours)
	}
	if cfg.CanvasWidth != 800 || cfg.CanvasHeight != 600 {
		t.Errorf("canvas = %gx%g", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	// An unset analyzer URL resolves to the local server.
	if cfg.AnalyzerBaseURL != "http://127.0.0.1:8000" {
		t.Errorf("AnalyzerBaseURL = %q", cfg.AnalyzerBaseURL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9100")
	t.Setenv("TASKS_DB_PATH", "/tmp/other.db")
	t.Setenv("ANALYZER_BASE_URL", "http://analyzer:9000")
	t.Setenv("SNAPSHOT_SLOT", "board")
	t.Setenv("CANVAS_WIDTH", "1024")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Port)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.AnalyzerBaseURL != "http://analyzer:9000" {
		t.Errorf("AnalyzerBaseURL = %q", cfg.AnalyzerBaseURL)
	}
	if cfg.SnapshotSlot != "board" {
		t.Errorf("SnapshotSlot = %q", cfg.SnapshotSlot)
	}
	if cfg.CanvasWidth != 1024 {
		t.Errorf("CanvasWidth = %g", cfg.CanvasWidth)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
port: 9200
snapshot_slot: archived
weights:
  urgency: 0.4
  importance: 0.3
  effort: 0.2
  dependency: 0.1
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("TASKPLANNER_CONFIG", path)
	// Environment still wins over the file.
	t.Setenv("PORT", "9300")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Port != 9300 {
		t.Errorf("Port = %d, want env override 9300", cfg.Port)
	}
	if cfg.SnapshotSlot != "archived" {
		t.Errorf("SnapshotSlot = %q", cfg.SnapshotSlot)
	}
	if cfg.WeightUrgency != 0.4 || cfg.WeightDependency != 0.1 {
		t.Errorf("weights not applied: %g/%g", cfg.WeightUrgency, cfg.WeightDependency)
	}
	// Fields the file omits keep their defaults.
	if cfg.DBPath != "./data/taskplanner.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "PORT", "70000"},
		{"negative ttl", "AUTH_TOKEN_TTL_HOURS", "0"},
		{"zero canvas", "CANVAS_WIDTH", "0"},
		{"weights off balance", "WEIGHT_URGENCY", "0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKPLANNER_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
