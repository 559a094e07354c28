package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL string
	// DataDir holds the levels/ catalog.
	DataDir string
	// LevelConfig is a YAML level file. Empty means the built-in level.
	LevelConfig string
	// MaxStepSeconds caps dt on HTTP step requests.
	MaxStepSeconds float64
}

func Load() (*Config, error) {
	maxStep, err := strconv.ParseFloat(getEnv("MAX_STEP_SECONDS", "0.25"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_STEP_SECONDS: %w", err)
	}
	if maxStep <= 0 {
		return nil, fmt.Errorf("MAX_STEP_SECONDS must be positive, got %v", maxStep)
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DataDir:        getEnv("DATA_DIR", "./data"),
		LevelConfig:    os.Getenv("LEVEL_CONFIG"),
		MaxStepSeconds: maxStep,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
