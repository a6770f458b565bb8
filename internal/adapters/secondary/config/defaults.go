package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

// EnvPrefix prefixes every environment variable the configuration reads
const EnvPrefix = "PROMPTDECK_"

// GetDefaultConfig returns the default configuration with environment overrides
func GetDefaultConfig() *entities.Config {
	return &entities.Config{
		Server: entities.ServerConfig{
			Host:            getEnvOrDefault(EnvPrefix+"HOST", "localhost"),
			Port:            getEnvIntOrDefault(EnvPrefix+"PORT", 8080),
			ReadTimeout:     getEnvIntOrDefault(EnvPrefix+"READ_TIMEOUT", 30),
			WriteTimeout:    getEnvIntOrDefault(EnvPrefix+"WRITE_TIMEOUT", 60),
			ShutdownTimeout: getEnvIntOrDefault(EnvPrefix+"SHUTDOWN_TIMEOUT", 5),
			Environment:     getEnvOrDefault(EnvPrefix+"ENV", "development"),
			CORSOrigins: getEnvSliceOrDefault(EnvPrefix+"CORS_ORIGINS", []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"http://localhost:8080",
				"http://127.0.0.1:8080",
			}),
			MaxBodyBytes: int64(getEnvIntOrDefault(EnvPrefix+"MAX_BODY_BYTES", 10<<20)),
			RateLimit:    getEnvIntOrDefault(EnvPrefix+"RATE_LIMIT", 100),
		},
		Generator: entities.GeneratorConfig{
			DefaultSlideCount: getEnvIntOrDefault(EnvPrefix+"DEFAULT_SLIDES", 5),
			MaxSlideCount:     getEnvIntOrDefault(EnvPrefix+"MAX_SLIDES", 0),
		},
		Export: entities.ExportConfig{
			OutputDir:     getEnvOrDefault(EnvPrefix+"EXPORT_DIR", ""),
			DefaultFormat: getEnvOrDefault(EnvPrefix+"EXPORT_FORMAT", "pptx"),
			IncludeNotes:  getEnvBoolOrDefault(EnvPrefix+"EXPORT_NOTES", false),
			PageSize:      "A4",
			ImageQuality:  "medium",
		},
		Session: entities.SessionConfig{
			Backend:       getEnvOrDefault(EnvPrefix+"SESSION_BACKEND", "memory"),
			RedisAddr:     getEnvOrDefault(EnvPrefix+"REDIS_ADDR", ""),
			RedisPassword: getEnvOrDefault(EnvPrefix+"REDIS_PASSWORD", ""),
			RedisDB:       getEnvIntOrDefault(EnvPrefix+"REDIS_DB", 0),
			TTLSeconds:    getEnvIntOrDefault(EnvPrefix+"SESSION_TTL", 86400),
			KeyPrefix:     "promptdeck:deck:",
		},
		Logging: entities.LoggingConfig{
			Level:      getEnvOrDefault(EnvPrefix+"LOG_LEVEL", "info"),
			Verbose:    getEnvBoolOrDefault(EnvPrefix+"LOG_VERBOSE", false),
			JSONFormat: getEnvBoolOrDefault(EnvPrefix+"LOG_JSON", false),
			File:       getEnvOrDefault(EnvPrefix+"LOG_FILE", ""),
		},
		Metrics: entities.MetricsConfig{
			Disabled: getEnvBoolOrDefault(EnvPrefix+"METRICS_DISABLED", false),
			Path:     "/metrics",
		},
	}
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault returns a comma separated environment variable as a
// slice, or default
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
