// Package config loads process configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AI provider names accepted by AI_PROVIDER.
const (
	ProviderNone   = ""
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	AppEnv         string
	Port           string
	LogLevel       string
	AllowedOrigins []string

	JWTSecret     string
	JWTExpiration time.Duration

	SentryDSN     string
	RunMigrations bool

	Redis RedisConfig
	AI    AIConfig
}

// RedisConfig is optional. An empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// AIConfig selects and tunes the schedule extraction provider.
type AIConfig struct {
	Provider          string
	GeminiModel       string
	VisionOCR         bool
	OpenAIBaseURL     string
	OpenAIAPIKey      string
	OpenAIModel       string
	Timeout           time.Duration
	RequestsPerMinute int
}

func Load() (*Config, error) {
	// .env is optional; production injects real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "3001"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		RunMigrations:  getEnv("RUN_MIGRATIONS", "true") == "true",
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		AI: AIConfig{
			Provider:      strings.ToLower(os.Getenv("AI_PROVIDER")),
			GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			VisionOCR:     getEnv("VISION_OCR", "false") == "true",
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),
		},
	}

	var err error
	if cfg.JWTExpiration, err = time.ParseDuration(getEnv("JWT_EXPIRATION", "1h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION: %w", err)
	}
	if cfg.AI.Timeout, err = time.ParseDuration(getEnv("AI_TIMEOUT", "60s")); err != nil {
		return nil, fmt.Errorf("invalid AI_TIMEOUT: %w", err)
	}
	if cfg.AI.RequestsPerMinute, err = strconv.Atoi(getEnv("AI_REQUESTS_PER_MINUTE", "10")); err != nil {
		return nil, fmt.Errorf("invalid AI_REQUESTS_PER_MINUTE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration that would make the server unusable.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	switch c.AI.Provider {
	case ProviderNone, ProviderGemini:
	case ProviderOpenAI:
		if c.AI.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required when AI_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AI.Provider)
	}
	if c.AI.RequestsPerMinute <= 0 {
		return errors.New("AI_REQUESTS_PER_MINUTE must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
