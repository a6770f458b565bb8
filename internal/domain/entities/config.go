package entities

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Generator GeneratorConfig `toml:"generator"`
	Export    ExportConfig    `toml:"export"`
	Session   SessionConfig   `toml:"session"`
	Logging   LoggingConfig   `toml:"logging"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("generator config: %w", err)
	}

	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export config: %w", err)
	}

	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	return nil
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	Environment     string   `toml:"environment"`
	CORSOrigins     []string `toml:"cors_origins"`
	MaxBodyBytes    int64    `toml:"max_body_bytes"`
	RateLimit       int      `toml:"rate_limit"` // requests per minute per client, 0 disables
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if s.Host != "" {
		if ip := net.ParseIP(s.Host); ip == nil {
			if _, err := net.LookupHost(s.Host); err != nil {
				return fmt.Errorf("invalid host: %w", err)
			}
		}
	}

	if s.ReadTimeout < 0 {
		return errors.New("read timeout must be non-negative")
	}

	if s.WriteTimeout < 0 {
		return errors.New("write timeout must be non-negative")
	}

	if s.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must be non-negative")
	}

	if s.MaxBodyBytes < 0 {
		return errors.New("max body bytes must be non-negative")
	}

	if s.RateLimit < 0 {
		return errors.New("rate limit must be non-negative")
	}

	for _, origin := range s.CORSOrigins {
		if origin == "" {
			return errors.New("CORS origin cannot be empty")
		}
		if origin == "*" {
			continue
		}
		if len(origin) < 7 || (!strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://")) {
			return fmt.Errorf("invalid CORS origin format: %s (must start with http:// or https://)", origin)
		}
	}

	return nil
}

// GetReadTimeout returns the read timeout as a duration
func (s ServerConfig) GetReadTimeout() time.Duration {
	if s.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.ReadTimeout) * time.Second
}

// GetWriteTimeout returns the write timeout as a duration
func (s ServerConfig) GetWriteTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.WriteTimeout) * time.Second
}

// GetShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// GetCORSOrigins returns CORS origins with defaults if empty
func (s ServerConfig) GetCORSOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		return []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8080",
			"http://127.0.0.1:8080",
		}
	}
	return s.CORSOrigins
}

// GetMaxBodyBytes returns the request body limit. Decks may carry
// embedded images, so the default is generous.
func (s ServerConfig) GetMaxBodyBytes() int64 {
	if s.MaxBodyBytes <= 0 {
		return 10 << 20
	}
	return s.MaxBodyBytes
}

// IsDevelopment returns true if the server is running in development mode
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development" || s.Environment == ""
}

// GeneratorConfig tunes deck generation
type GeneratorConfig struct {
	DefaultSlideCount int `toml:"default_slide_count"`
	MaxSlideCount     int `toml:"max_slide_count"`
}

// Validate validates generator configuration
func (g GeneratorConfig) Validate() error {
	if g.DefaultSlideCount < 0 {
		return errors.New("default slide count must be non-negative")
	}
	if g.MaxSlideCount < 0 {
		return errors.New("max slide count must be non-negative")
	}
	if g.MaxSlideCount > 0 && g.DefaultSlideCount > g.MaxSlideCount {
		return fmt.Errorf("default slide count %d exceeds max slide count %d", g.DefaultSlideCount, g.MaxSlideCount)
	}
	return nil
}

// GetDefaultSlideCount returns the slide count used when a prompt names none
func (g GeneratorConfig) GetDefaultSlideCount() int {
	if g.DefaultSlideCount <= 0 {
		return 5
	}
	return g.DefaultSlideCount
}

// GetMaxSlideCount returns the upper bound on requested slide counts.
// Zero means a prompt gets exactly the count it asks for.
func (g GeneratorConfig) GetMaxSlideCount() int {
	if g.MaxSlideCount < 0 {
		return 0
	}
	return g.MaxSlideCount
}

// ExportConfig contains presentation export configuration
type ExportConfig struct {
	OutputDir     string `toml:"output_dir"`
	DefaultFormat string `toml:"default_format"`
	IncludeNotes  bool   `toml:"include_notes"`
	PageSize      string `toml:"page_size"`
	ImageQuality  string `toml:"image_quality"`
}

// Validate validates export configuration
func (e ExportConfig) Validate() error {
	switch e.PageSize {
	case "", "A4", "Letter", "Legal", "A3":
	default:
		return fmt.Errorf("unsupported page size: %s", e.PageSize)
	}

	switch e.ImageQuality {
	case "", "low", "medium", "high":
	default:
		return fmt.Errorf("invalid image quality: %s (must be low, medium, or high)", e.ImageQuality)
	}

	return nil
}

// GetOutputDir returns the export directory, defaulting to the system temp dir
func (e ExportConfig) GetOutputDir() string {
	if e.OutputDir == "" {
		return filepath.Join(os.TempDir(), "promptdeck-exports")
	}
	return e.OutputDir
}

// GetDefaultFormat returns the default export format
func (e ExportConfig) GetDefaultFormat() string {
	if e.DefaultFormat == "" {
		return "pptx"
	}
	return e.DefaultFormat
}

// GetPageSize returns the PDF page size
func (e ExportConfig) GetPageSize() string {
	if e.PageSize == "" {
		return "A4"
	}
	return e.PageSize
}

// SessionBackend selects where generated decks are kept between requests
type SessionBackend string

const (
	SessionBackendNone   SessionBackend = "none"
	SessionBackendMemory SessionBackend = "memory"
	SessionBackendRedis  SessionBackend = "redis"
)

// SessionConfig configures the deck session store
type SessionConfig struct {
	Backend       string `toml:"backend"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	TTLSeconds    int    `toml:"ttl_seconds"`
	KeyPrefix     string `toml:"key_prefix"`
}

// Validate validates session configuration
func (s SessionConfig) Validate() error {
	switch s.GetBackend() {
	case SessionBackendNone, SessionBackendMemory:
	case SessionBackendRedis:
		if s.RedisAddr == "" {
			return errors.New("redis backend requires redis_addr")
		}
	default:
		return fmt.Errorf("unknown session backend: %s (must be none, memory, or redis)", s.Backend)
	}

	if s.RedisDB < 0 {
		return errors.New("redis db must be non-negative")
	}

	if s.TTLSeconds < 0 {
		return errors.New("session ttl must be non-negative")
	}

	return nil
}

// GetBackend returns the configured backend, defaulting to memory
func (s SessionConfig) GetBackend() SessionBackend {
	if s.Backend == "" {
		return SessionBackendMemory
	}
	return SessionBackend(s.Backend)
}

// GetTTL returns how long a stored deck lives
func (s SessionConfig) GetTTL() time.Duration {
	if s.TTLSeconds <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.TTLSeconds) * time.Second
}

// GetKeyPrefix returns the redis key prefix
func (s SessionConfig) GetKeyPrefix() string {
	if s.KeyPrefix == "" {
		return "promptdeck:deck:"
	}
	return s.KeyPrefix
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `toml:"level"`       // debug, info, warn, error
	Verbose    bool   `toml:"verbose"`     // forces debug level
	JSONFormat bool   `toml:"json_format"` // Output logs in JSON format
	File       string `toml:"file"`        // Log to file (optional)
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	case "":
		// Empty is okay, will use default
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}

	if l.File != "" {
		if !filepath.IsAbs(l.File) {
			return errors.New("log file path must be absolute")
		}

		dir := filepath.Dir(l.File)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("log file directory does not exist: %s", dir)
		}
	}

	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Verbose {
		return LogLevelDebug
	}
	if l.Level == "" {
		return LogLevelInfo
	}
	return LogLevel(l.Level)
}

// MetricsConfig controls the prometheus endpoint. Metrics are served unless
// disabled.
type MetricsConfig struct {
	Disabled bool   `toml:"disabled"`
	Path     string `toml:"path"`
}

// Validate validates metrics configuration
func (m MetricsConfig) Validate() error {
	if m.Path != "" && !strings.HasPrefix(m.Path, "/") {
		return fmt.Errorf("metrics path must start with /: %s", m.Path)
	}
	return nil
}

// GetPath returns the metrics route
func (m MetricsConfig) GetPath() string {
	if m.Path == "" {
		return "/metrics"
	}
	return m.Path
}
