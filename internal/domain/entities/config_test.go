package entities

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            3000,
			ReadTimeout:     30,
			WriteTimeout:    30,
			ShutdownTimeout: 5,
		},
		Generator: GeneratorConfig{DefaultSlideCount: 5, MaxSlideCount: 100},
		Export:    ExportConfig{DefaultFormat: "pptx", PageSize: "A4", ImageQuality: "medium"},
		Session:   SessionConfig{Backend: "memory"},
		Logging:   LoggingConfig{Level: "info"},
		Metrics:   MetricsConfig{Path: "/metrics"},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("invalid server config", func(t *testing.T) {
		config := validConfig()
		config.Server.Port = -1

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server config")
	})

	t.Run("invalid generator config", func(t *testing.T) {
		config := validConfig()
		config.Generator = GeneratorConfig{DefaultSlideCount: 20, MaxSlideCount: 10}

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "generator config")
	})

	t.Run("invalid session config", func(t *testing.T) {
		config := validConfig()
		config.Session.Backend = "redis"

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis backend requires redis_addr")
	})

	t.Run("invalid metrics path", func(t *testing.T) {
		config := validConfig()
		config.Metrics.Path = "metrics"

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "metrics config")
	})
}

func TestServerConfig_Validate(t *testing.T) {
	t.Run("invalid port - too high", func(t *testing.T) {
		err := ServerConfig{Port: 70000}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "port must be between 0 and 65535")
	})

	t.Run("valid port range", func(t *testing.T) {
		for _, port := range []int{0, 1, 3000, 8080, 65535} {
			assert.NoError(t, ServerConfig{Port: port}.Validate(), "Port %d should be valid", port)
		}
	})

	t.Run("negative values", func(t *testing.T) {
		tests := []struct {
			name   string
			config ServerConfig
		}{
			{name: "negative read timeout", config: ServerConfig{ReadTimeout: -1}},
			{name: "negative write timeout", config: ServerConfig{WriteTimeout: -1}},
			{name: "negative shutdown timeout", config: ServerConfig{ShutdownTimeout: -1}},
			{name: "negative body limit", config: ServerConfig{MaxBodyBytes: -1}},
			{name: "negative rate limit", config: ServerConfig{RateLimit: -1}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Error(t, tt.config.Validate())
			})
		}
	})

	t.Run("CORS origins", func(t *testing.T) {
		assert.NoError(t, ServerConfig{CORSOrigins: []string{"http://localhost:3000", "https://example.com"}}.Validate())
		assert.NoError(t, ServerConfig{CORSOrigins: []string{"*"}}.Validate())

		err := ServerConfig{CORSOrigins: []string{"example.com"}}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid CORS origin format")

		err = ServerConfig{CORSOrigins: []string{""}}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CORS origin cannot be empty")
	})
}

func TestServerConfig_Defaults(t *testing.T) {
	t.Run("custom values", func(t *testing.T) {
		config := ServerConfig{ReadTimeout: 45, WriteTimeout: 60, ShutdownTimeout: 10, MaxBodyBytes: 1024}

		assert.Equal(t, 45*time.Second, config.GetReadTimeout())
		assert.Equal(t, 60*time.Second, config.GetWriteTimeout())
		assert.Equal(t, 10*time.Second, config.GetShutdownTimeout())
		assert.Equal(t, int64(1024), config.GetMaxBodyBytes())
	})

	t.Run("zero values use defaults", func(t *testing.T) {
		config := ServerConfig{}

		assert.Equal(t, 30*time.Second, config.GetReadTimeout())
		assert.Equal(t, 60*time.Second, config.GetWriteTimeout())
		assert.Equal(t, 5*time.Second, config.GetShutdownTimeout())
		assert.Equal(t, int64(10<<20), config.GetMaxBodyBytes())
		assert.Len(t, config.GetCORSOrigins(), 4)
		assert.True(t, config.IsDevelopment())
	})

	t.Run("production environment", func(t *testing.T) {
		assert.False(t, ServerConfig{Environment: "production"}.IsDevelopment())
	})
}

func TestGeneratorConfig_Defaults(t *testing.T) {
	assert.Equal(t, 5, GeneratorConfig{}.GetDefaultSlideCount())
	assert.Equal(t, 0, GeneratorConfig{}.GetMaxSlideCount(), "zero leaves counts uncapped")
	assert.Equal(t, 8, GeneratorConfig{DefaultSlideCount: 8}.GetDefaultSlideCount())
	assert.Equal(t, 12, GeneratorConfig{MaxSlideCount: 12}.GetMaxSlideCount())
	assert.Error(t, GeneratorConfig{DefaultSlideCount: -1}.Validate())
}

func TestExportConfig_Validate(t *testing.T) {
	assert.NoError(t, ExportConfig{}.Validate())
	assert.Error(t, ExportConfig{PageSize: "B5"}.Validate())
	assert.Error(t, ExportConfig{ImageQuality: "ultra"}.Validate())

	config := ExportConfig{}
	assert.Equal(t, "pptx", config.GetDefaultFormat())
	assert.Equal(t, "A4", config.GetPageSize())
	assert.Equal(t, filepath.Join(os.TempDir(), "promptdeck-exports"), config.GetOutputDir())
}

func TestSessionConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config := SessionConfig{}
		require.NoError(t, config.Validate())
		assert.Equal(t, SessionBackendMemory, config.GetBackend())
		assert.Equal(t, 24*time.Hour, config.GetTTL())
		assert.Equal(t, "promptdeck:deck:", config.GetKeyPrefix())
	})

	t.Run("redis with address", func(t *testing.T) {
		config := SessionConfig{Backend: "redis", RedisAddr: "localhost:6379", TTLSeconds: 60}
		require.NoError(t, config.Validate())
		assert.Equal(t, time.Minute, config.GetTTL())
	})

	t.Run("unknown backend", func(t *testing.T) {
		err := SessionConfig{Backend: "etcd"}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown session backend")
	})
}

func TestLoggingConfig(t *testing.T) {
	t.Run("levels", func(t *testing.T) {
		for _, level := range []string{"", "debug", "info", "warn", "error"} {
			assert.NoError(t, LoggingConfig{Level: level}.Validate(), "level %q", level)
		}
		assert.Error(t, LoggingConfig{Level: "trace"}.Validate())
	})

	t.Run("relative file rejected", func(t *testing.T) {
		err := LoggingConfig{File: "promptdeck.log"}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be absolute")
	})

	t.Run("absolute file in existing dir", func(t *testing.T) {
		assert.NoError(t, LoggingConfig{File: filepath.Join(t.TempDir(), "app.log")}.Validate())
	})

	t.Run("GetLevel", func(t *testing.T) {
		assert.Equal(t, LogLevelInfo, LoggingConfig{}.GetLevel())
		assert.Equal(t, LogLevelWarn, LoggingConfig{Level: "warn"}.GetLevel())
		assert.Equal(t, LogLevelDebug, LoggingConfig{Level: "warn", Verbose: true}.GetLevel())
	})
}
