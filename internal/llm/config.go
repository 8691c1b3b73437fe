package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskPlanGenerate TaskType = "plan_generate"
	TaskInterpret    TaskType = "interpret"
	TaskCascade      TaskType = "cascade"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutMs   int     `yaml:"timeout_ms"` // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	// Provider selects the client: "openai" for any chat-completions
	// compatible endpoint, "stub" for canned offline responses.
	Provider  string                  `yaml:"provider"`
	LogCalls  bool                    `yaml:"log_calls"`
	Endpoint  string                  `yaml:"endpoint"`
	APIKey    string                  `yaml:"api_key"`
	Model     string                  `yaml:"model"`
	TimeoutMs int                     `yaml:"timeout_ms"`
	Tasks     map[TaskType]TaskConfig `yaml:"tasks"`
}

const (
	ProviderOpenAI = "openai"
	ProviderStub   = "stub"
)

// DefaultConfig returns an LLMConfig with sensible defaults.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:  ProviderOpenAI,
		LogCalls:  true,
		Endpoint:  "https://api.openai.com/v1",
		Model:     "gpt-4",
		TimeoutMs: 60000,
		Tasks: map[TaskType]TaskConfig{
			TaskPlanGenerate: {Temperature: 0.7, MaxTokens: 3500, TimeoutMs: 120000},
			TaskInterpret:    {Temperature: 0.7, MaxTokens: 1500, TimeoutMs: 45000},
			TaskCascade:      {Temperature: 0.7, MaxTokens: 2500, TimeoutMs: 90000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overlays CAREERPLAN_LLM_* environment variables onto cfg.
func ApplyEnv(cfg *LLMConfig) {
	if v := os.Getenv("CAREERPLAN_LLM_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("CAREERPLAN_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CAREERPLAN_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("CAREERPLAN_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	} else if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.APIKey == "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("CAREERPLAN_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("CAREERPLAN_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}

	applyTaskTimeoutEnv(cfg, TaskPlanGenerate, "CAREERPLAN_LLM_PLAN_TIMEOUT_MS")
	applyTaskTimeoutEnv(cfg, TaskInterpret, "CAREERPLAN_LLM_INTERPRET_TIMEOUT_MS")
	applyTaskTimeoutEnv(cfg, TaskCascade, "CAREERPLAN_LLM_CASCADE_TIMEOUT_MS")
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
	if cfg.Tasks == nil {
		cfg.Tasks = map[TaskType]TaskConfig{}
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
