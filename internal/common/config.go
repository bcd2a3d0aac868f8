package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Log     LogConfig
	Extract ExtractConfig
	Batch   BatchConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "json" | "text"
}

// ExtractConfig holds field/schema extraction configuration
type ExtractConfig struct {
	SchemaFile    string
	DefaultFields []string
	MinConfidence float64
}

// BatchConfig holds batch-driver configuration
type BatchConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
	OutputDir      string
	Debounce       time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Extract: ExtractConfig{
			SchemaFile:    getEnv("DOCSENSE_SCHEMA_FILE", ""),
			DefaultFields: getEnvAsList("DOCSENSE_DEFAULT_FIELDS", nil),
			MinConfidence: getEnvAsFloat64("DOCSENSE_MIN_CONFIDENCE", 0.0),
		},
		Batch: BatchConfig{
			Workers:        getEnvAsInt("DOCSENSE_WORKERS", 4),
			QueueSize:      getEnvAsInt("DOCSENSE_QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("DOCSENSE_PROCESS_TIMEOUT", 30*time.Second),
			OutputDir:      getEnv("DOCSENSE_OUTPUT_DIR", "./out"),
			Debounce:       getEnvAsDuration("DOCSENSE_WATCH_DEBOUNCE", 500*time.Millisecond),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("LOG_LEVEL", strings.ToLower(c.Log.Level), OneOf("debug", "info", "warn", "error")).
		Field("LOG_FORMAT", strings.ToLower(c.Log.Format), OneOf("json", "text")).
		Field("DOCSENSE_WORKERS", c.Batch.Workers, Range(1, 256)).
		Field("DOCSENSE_QUEUE_SIZE", c.Batch.QueueSize, Range(1, 1<<16)).
		Field("DOCSENSE_MIN_CONFIDENCE", c.Extract.MinConfidence, Range(0, 1))
	return ValidateAndReturnError(v, CodeConfig)
}

// SlogLevel maps the configured level onto slog; unknown values fall back to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger from LogConfig.
func NewLogger(c LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
