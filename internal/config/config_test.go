package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envValue)
			assert.Equal(t, tc.expected, getEnvOrDefault(tc.key, tc.defaultVal))
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
		{"uses default for non-positive", "TEST_INT_4", "-5", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envValue)
			assert.Equal(t, tc.expected, getEnvAsIntOrDefault(tc.key, tc.defaultVal))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "COMPLETION_PROVIDER", "COMPLETION_API_KEY", "COMPLETION_MODEL",
		"COMPLETION_TIMEOUT_SECONDS", "PIPELINE_MODE", "DATABASE_URL", "REDIS_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderGateway, cfg.CompletionProvider)
	assert.Equal(t, "google/gemini-2.5-pro", cfg.CompletionModel)
	assert.Equal(t, 60*time.Second, cfg.CompletionTimeout)
	assert.Equal(t, PipelineConcurrent, cfg.PipelineMode)
	assert.Empty(t, cfg.CompletionAPIKey)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_GeminiProvider(t *testing.T) {
	t.Setenv("COMPLETION_PROVIDER", "Gemini")
	t.Setenv("COMPLETION_MODEL", "")
	t.Setenv("PIPELINE_MODE", "sequential")

	cfg := Load()

	assert.Equal(t, ProviderGemini, cfg.CompletionProvider)
	assert.Equal(t, "gemini-2.5-pro", cfg.CompletionModel)
	assert.Equal(t, PipelineSequential, cfg.PipelineMode)
}

func TestLoad_UnknownValuesFallBack(t *testing.T) {
	t.Setenv("COMPLETION_PROVIDER", "something-else")
	t.Setenv("PIPELINE_MODE", "parallel-ish")

	cfg := Load()

	assert.Equal(t, ProviderGateway, cfg.CompletionProvider)
	assert.Equal(t, PipelineConcurrent, cfg.PipelineMode)
}
