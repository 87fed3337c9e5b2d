package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskExpand TaskType = "expand"
	TaskTitle  TaskType = "title"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Endpoints  []string // base URLs, tried in order
	Models     []string // tried in order for each endpoint
	TimeoutMs  int
	MaxRetries int
	KeepAlive  string
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Endpoints:  []string{"http://127.0.0.1:11434", "http://localhost:11434"},
		Models:     []string{"gemma3:4b", "llama3.2:3b"},
		TimeoutMs:  15000,
		MaxRetries: 0,
		KeepAlive:  "30m",
		Tasks: map[TaskType]TaskConfig{
			TaskExpand: {Temperature: 0.5, TopP: 0.9, MaxTokens: 1536},
			TaskTitle:  {Temperature: 0.5, TopP: 0.9, MaxTokens: 256},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("REFLEKT_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("REFLEKT_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if list := splitList(os.Getenv("REFLEKT_LLM_ENDPOINTS")); len(list) > 0 {
		cfg.Endpoints = list
	}
	if list := splitList(os.Getenv("REFLEKT_LLM_MODELS")); len(list) > 0 {
		cfg.Models = list
	}
	if v := os.Getenv("REFLEKT_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("REFLEKT_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("REFLEKT_LLM_KEEP_ALIVE"); v != "" {
		cfg.KeepAlive = v
	}

	applyTaskTimeoutEnv(&cfg, TaskExpand, "REFLEKT_LLM_EXPAND_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskTitle, "REFLEKT_LLM_TITLE_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.TrimRight(p, "/"))
		}
	}
	return out
}
