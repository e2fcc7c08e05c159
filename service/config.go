package service

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the writer service.
type Config struct {
	Port     string
	Strategy string // "deterministic" or "generative"

	LLMMode       string // "mock", "http" or "openai"
	LLMBaseURL    string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	Model         string
	TokenBudget   int

	CacheSize int
	CacheTTL  time.Duration

	FiguresEnabled bool

	LogLevel string

	TracingEnabled bool
	JaegerEndpoint string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Port:           getEnv("WRITER_PORT", "8082"),
		Strategy:       getEnv("WRITER_STRATEGY", "deterministic"),
		LLMMode:        getEnv("LLM_MODE", "mock"),
		LLMBaseURL:     getEnv("LLM_URL", "http://127.0.0.1:8899"),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		Model:          getEnv("WRITER_MODEL", "gpt-4o-mini"),
		TokenBudget:    getEnvInt("WRITER_TOKEN_BUDGET", 3072),
		CacheSize:      getEnvInt("WRITER_CACHE_SIZE", 256),
		CacheTTL:       getEnvDuration("WRITER_CACHE_TTL", "5m"),
		FiguresEnabled: getEnvBool("WRITER_FIGURES", true),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
