package guard

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of guard-server call being made.
type TaskType string

const (
	TaskClassify TaskType = "classify"
	TaskRewrite  TaskType = "rewrite"
)

// TaskConfig holds per-task sampling parameters.
type TaskConfig struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// Config holds all configuration for the guard subsystem.
type Config struct {
	LogCalls bool

	// ModEndpoint serves classification; GenEndpoint serves rewrites.
	// Two servers so a compromised generator can never moderate itself.
	ModEndpoint string
	GenEndpoint string

	TimeoutMs int
	Tasks     map[TaskType]TaskConfig
}

// DefaultConfig returns a Config with sensible defaults. Classification is
// fully deterministic: temperature 0, near-zero top-p, a small token budget.
func DefaultConfig() Config {
	return Config{
		LogCalls:    false,
		ModEndpoint: "http://localhost:8081",
		GenEndpoint: "http://localhost:8080",
		TimeoutMs:   5000,
		Tasks: map[TaskType]TaskConfig{
			TaskClassify: {Temperature: 0.0, TopP: 0.1, MaxTokens: 100, TimeoutMs: 5000},
			TaskRewrite:  {Temperature: 0.3, TopP: 0.8, MaxTokens: 100, TimeoutMs: 5000},
		},
	}
}

// LoadConfig reads guard configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("GUARDIAN_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("GUARDIAN_MOD_ENDPOINT"); v != "" {
		cfg.ModEndpoint = v
	}
	if v := os.Getenv("GUARDIAN_GEN_ENDPOINT"); v != "" {
		cfg.GenEndpoint = v
	}
	if v := os.Getenv("GUARDIAN_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c Config) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}
