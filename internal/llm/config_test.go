package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 15000, cfg.TaskTimeout(TaskExpand))
	assert.Equal(t, []string{"gemma3:4b", "llama3.2:3b"}, cfg.Models)
	assert.Equal(t, 0.9, cfg.Tasks[TaskExpand].TopP)
}

func TestLoadConfig_ListsAndOverrides(t *testing.T) {
	t.Setenv("REFLEKT_LLM_ENABLED", "true")
	t.Setenv("REFLEKT_LLM_ENDPOINTS", " http://a:1/ , ,http://b:2")
	t.Setenv("REFLEKT_LLM_MODELS", "qwen2.5:3b")
	t.Setenv("REFLEKT_LLM_TIMEOUT_MS", "9000")
	t.Setenv("REFLEKT_LLM_TITLE_TIMEOUT_MS", "4000")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, []string{"http://a:1", "http://b:2"}, cfg.Endpoints)
	assert.Equal(t, []string{"qwen2.5:3b"}, cfg.Models)
	assert.Equal(t, 9000, cfg.TaskTimeout(TaskExpand))
	assert.Equal(t, 4000, cfg.TaskTimeout(TaskTitle))
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("REFLEKT_LLM_EXPAND_TIMEOUT_MS", "not-a-number")
	t.Setenv("REFLEKT_LLM_MAX_RETRIES", "-2")

	cfg := LoadConfig()

	assert.Equal(t, 15000, cfg.TaskTimeout(TaskExpand))
	assert.Equal(t, 0, cfg.MaxRetries)
}
