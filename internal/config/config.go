package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGateway = "gateway"
	ProviderGemini  = "gemini"

	PipelineConcurrent = "concurrent"
	PipelineSequential = "sequential"
)

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Completion service
	CompletionProvider string
	CompletionAPIKey   string
	CompletionBaseURL  string
	CompletionPath     string
	CompletionModel    string
	CompletionTimeout  time.Duration

	// Pipeline
	PipelineMode string

	// Database (optional)
	DatabaseURL   string
	MigrationsDir string

	// Redis (optional)
	RedisURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	provider := strings.ToLower(getEnvOrDefault("COMPLETION_PROVIDER", ProviderGateway))
	if provider != ProviderGemini {
		provider = ProviderGateway
	}

	defaultModel := "google/gemini-2.5-pro"
	if provider == ProviderGemini {
		defaultModel = "gemini-2.5-pro"
	}

	mode := strings.ToLower(getEnvOrDefault("PIPELINE_MODE", PipelineConcurrent))
	if mode != PipelineSequential {
		mode = PipelineConcurrent
	}

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Env:                getEnvOrDefault("ENV", "development"),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		CompletionProvider: provider,
		CompletionAPIKey:   strings.TrimSpace(os.Getenv("COMPLETION_API_KEY")),
		CompletionBaseURL:  getEnvOrDefault("COMPLETION_BASE_URL", "https://ai.gateway.lovable.dev"),
		CompletionPath:     getEnvOrDefault("COMPLETION_PATH", "/v1/chat/completions"),
		CompletionModel:    getEnvOrDefault("COMPLETION_MODEL", defaultModel),
		CompletionTimeout:  time.Duration(getEnvAsIntOrDefault("COMPLETION_TIMEOUT_SECONDS", 60)) * time.Second,
		PipelineMode:       mode,
		DatabaseURL:        getEnvOrDefault("DATABASE_URL", ""),
		MigrationsDir:      getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		RedisURL:           getEnvOrDefault("REDIS_URL", ""),
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}
