package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_TaskParameters(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, TaskConfig{Temperature: 0.7, MaxTokens: 3500, TimeoutMs: 120000}, cfg.Tasks[TaskPlanGenerate])
	assert.Equal(t, 1500, cfg.Tasks[TaskInterpret].MaxTokens)
	assert.Equal(t, 2500, cfg.Tasks[TaskCascade].MaxTokens)
	assert.Equal(t, "gpt-4", cfg.Model)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CAREERPLAN_LLM_PROVIDER", "stub")
	t.Setenv("CAREERPLAN_LLM_MODEL", "gpt-4o")
	t.Setenv("CAREERPLAN_LLM_API_KEY", "sk-env")
	t.Setenv("CAREERPLAN_LLM_TIMEOUT_MS", "9000")
	t.Setenv("CAREERPLAN_LLM_CASCADE_TIMEOUT_MS", "15000")

	cfg := LoadConfig()

	assert.Equal(t, ProviderStub, cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 15000, cfg.TaskTimeout(TaskCascade))
	assert.Equal(t, 45000, cfg.TaskTimeout(TaskInterpret))
}

func TestLoadConfig_FallsBackToOpenAIKey(t *testing.T) {
	t.Setenv("CAREERPLAN_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	cfg := LoadConfig()
	assert.Equal(t, "sk-openai", cfg.APIKey)
}

func TestLoadConfig_InvalidTaskTimeoutOverrideIgnored(t *testing.T) {
	t.Setenv("CAREERPLAN_LLM_INTERPRET_TIMEOUT_MS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, 45000, cfg.TaskTimeout(TaskInterpret))
}

func TestTaskTimeout_UnknownTaskUsesGlobal(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, cfg.TimeoutMs, cfg.TaskTimeout("other"))
}
