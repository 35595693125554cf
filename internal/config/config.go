package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port            int
	DBPath          string
	AnalyzerBaseURL string
	LogLevel        string
	TokenTTLHours   int
	SnapshotSlot    string
	// Default canvas for layout requests that omit dimensions
	CanvasWidth  float64
	CanvasHeight float64
	// smart_balance factor weights
	WeightUrgency    float64
	WeightImportance float64
	WeightEffort     float64
	WeightDependency float64
}

// fileConfig is the optional YAML overlay read from TASKPLANNER_CONFIG.
// Environment variables still win over file values.
type fileConfig struct {
	Port            *int     `yaml:"port"`
	DBPath          *string  `yaml:"db_path"`
	AnalyzerBaseURL *string  `yaml:"analyzer_base_url"`
	LogLevel        *string  `yaml:"log_level"`
	TokenTTLHours   *int     `yaml:"token_ttl_hours"`
	SnapshotSlot    *string  `yaml:"snapshot_slot"`
	CanvasWidth     *float64 `yaml:"canvas_width"`
	CanvasHeight    *float64 `yaml:"canvas_height"`
	Weights         *struct {
		Urgency    *float64 `yaml:"urgency"`
		Importance *float64 `yaml:"importance"`
		Effort     *float64 `yaml:"effort"`
		Dependency *float64 `yaml:"dependency"`
	} `yaml:"weights"`
}

// Load resolves configuration in three layers: built-in defaults, the
// optional YAML file named by TASKPLANNER_CONFIG, then environment
// variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             8000,
		DBPath:           "./data/taskplanner.db",
		AnalyzerBaseURL:  "",
		LogLevel:         "info",
		TokenTTLHours:    24,
		SnapshotSlot:     "tasks",
		CanvasWidth:      800,
		CanvasHeight:     600,
		WeightUrgency:    0.35,
		WeightImportance: 0.35,
		WeightEffort:     0.15,
		WeightDependency: 0.15,
	}

	if path := os.Getenv("TASKPLANNER_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = envInt("PORT", cfg.Port)
	cfg.DBPath = envStr("TASKS_DB_PATH", cfg.DBPath)
	cfg.AnalyzerBaseURL = envStr("ANALYZER_BASE_URL", cfg.AnalyzerBaseURL)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)
	cfg.TokenTTLHours = envInt("AUTH_TOKEN_TTL_HOURS", cfg.TokenTTLHours)
	cfg.SnapshotSlot = envStr("SNAPSHOT_SLOT", cfg.SnapshotSlot)
	cfg.CanvasWidth = envFloat("CANVAS_WIDTH", cfg.CanvasWidth)
	cfg.CanvasHeight = envFloat("CANVAS_HEIGHT", cfg.CanvasHeight)
	cfg.WeightUrgency = envFloat("WEIGHT_URGENCY", cfg.WeightUrgency)
	cfg.WeightImportance = envFloat("WEIGHT_IMPORTANCE", cfg.WeightImportance)
	cfg.WeightEffort = envFloat("WEIGHT_EFFORT", cfg.WeightEffort)
	cfg.WeightDependency = envFloat("WEIGHT_DEPENDENCY", cfg.WeightDependency)

	// An empty analyzer URL means the analyzer mounted on this server.
	if cfg.AnalyzerBaseURL == "" {
		cfg.AnalyzerBaseURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.Port)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setIf(&c.Port, fc.Port)
	setIf(&c.DBPath, fc.DBPath)
	setIf(&c.AnalyzerBaseURL, fc.AnalyzerBaseURL)
	setIf(&c.LogLevel, fc.LogLevel)
	setIf(&c.TokenTTLHours, fc.TokenTTLHours)
	setIf(&c.SnapshotSlot, fc.SnapshotSlot)
	setIf(&c.CanvasWidth, fc.CanvasWidth)
	setIf(&c.CanvasHeight, fc.CanvasHeight)
	if fc.Weights != nil {
		setIf(&c.WeightUrgency, fc.Weights.Urgency)
		setIf(&c.WeightImportance, fc.Weights.Importance)
		setIf(&c.WeightEffort, fc.Weights.Effort)
		setIf(&c.WeightDependency, fc.Weights.Dependency)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("TASKS_DB_PATH must not be empty")
	}
	if c.SnapshotSlot == "" {
		return fmt.Errorf("SNAPSHOT_SLOT must not be empty")
	}
	if c.TokenTTLHours < 1 {
		return fmt.Errorf("AUTH_TOKEN_TTL_HOURS must be positive, got %d", c.TokenTTLHours)
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas dimensions must be positive, got %gx%g", c.CanvasWidth, c.CanvasHeight)
	}
	sum := c.WeightUrgency + c.WeightImportance + c.WeightEffort + c.WeightDependency
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("strategy weights must sum to 1.0, got %f", sum)
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
