package config

import (
	"os"
	"strconv"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges configurations, later ones taking precedence. Without
// arguments it returns the defaults.
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	result := deepCopy(configs[0])
	for _, c := range configs[1:] {
		if c != nil {
			m.mergeInto(result, c)
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if port, ok := flags["port"].(int); ok && port > 0 {
		result.Server.Port = port
	}

	if host, ok := flags["host"].(string); ok && host != "" {
		result.Server.Host = host
	}

	if backend, ok := flags["session-backend"].(string); ok && backend != "" {
		result.Session.Backend = backend
	}

	if addr, ok := flags["redis-addr"].(string); ok && addr != "" {
		result.Session.RedisAddr = addr
	}

	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		result.Logging.Verbose = true
	}

	if notes, ok := flags["notes"].(bool); ok {
		result.Export.IncludeNotes = notes
	}

	if dir, ok := flags["output-dir"].(string); ok && dir != "" {
		result.Export.OutputDir = dir
	}

	return result
}

// ApplyEnvVars applies environment variable overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	if host := os.Getenv(EnvPrefix + "HOST"); host != "" {
		result.Server.Host = host
	}

	if portStr := os.Getenv(EnvPrefix + "PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			result.Server.Port = port
		}
	}

	if env := os.Getenv(EnvPrefix + "ENV"); env != "" {
		result.Server.Environment = env
	}

	if origins := getEnvSliceOrDefault(EnvPrefix+"CORS_ORIGINS", nil); origins != nil {
		result.Server.CORSOrigins = origins
	}

	if backend := os.Getenv(EnvPrefix + "SESSION_BACKEND"); backend != "" {
		result.Session.Backend = backend
	}

	if addr := os.Getenv(EnvPrefix + "REDIS_ADDR"); addr != "" {
		result.Session.RedisAddr = addr
	}

	if password := os.Getenv(EnvPrefix + "REDIS_PASSWORD"); password != "" {
		result.Session.RedisPassword = password
	}

	if level := os.Getenv(EnvPrefix + "LOG_LEVEL"); level != "" {
		result.Logging.Level = level
	}

	if jsonStr := os.Getenv(EnvPrefix + "LOG_JSON"); jsonStr != "" {
		if v, err := strconv.ParseBool(jsonStr); err == nil {
			result.Logging.JSONFormat = v
		}
	}

	if file := os.Getenv(EnvPrefix + "LOG_FILE"); file != "" {
		result.Logging.File = file
	}

	if dir := os.Getenv(EnvPrefix + "EXPORT_DIR"); dir != "" {
		result.Export.OutputDir = dir
	}

	if disabledStr := os.Getenv(EnvPrefix + "METRICS_DISABLED"); disabledStr != "" {
		if v, err := strconv.ParseBool(disabledStr); err == nil {
			result.Metrics.Disabled = v
		}
	}

	return result
}

// mergeInto merges source into target. Zero values in source leave target
// untouched, so booleans can only be switched on by a file.
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Server config
	if source.Server.Port != 0 {
		target.Server.Port = source.Server.Port
	}
	if source.Server.Host != "" {
		target.Server.Host = source.Server.Host
	}
	if source.Server.ReadTimeout != 0 {
		target.Server.ReadTimeout = source.Server.ReadTimeout
	}
	if source.Server.WriteTimeout != 0 {
		target.Server.WriteTimeout = source.Server.WriteTimeout
	}
	if source.Server.ShutdownTimeout != 0 {
		target.Server.ShutdownTimeout = source.Server.ShutdownTimeout
	}
	if source.Server.Environment != "" {
		target.Server.Environment = source.Server.Environment
	}
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = append([]string(nil), source.Server.CORSOrigins...)
	}
	if source.Server.MaxBodyBytes != 0 {
		target.Server.MaxBodyBytes = source.Server.MaxBodyBytes
	}
	if source.Server.RateLimit != 0 {
		target.Server.RateLimit = source.Server.RateLimit
	}

	// Generator config
	if source.Generator.DefaultSlideCount != 0 {
		target.Generator.DefaultSlideCount = source.Generator.DefaultSlideCount
	}
	if source.Generator.MaxSlideCount != 0 {
		target.Generator.MaxSlideCount = source.Generator.MaxSlideCount
	}

	// Export config
	if source.Export.OutputDir != "" {
		target.Export.OutputDir = source.Export.OutputDir
	}
	if source.Export.DefaultFormat != "" {
		target.Export.DefaultFormat = source.Export.DefaultFormat
	}
	if source.Export.PageSize != "" {
		target.Export.PageSize = source.Export.PageSize
	}
	if source.Export.ImageQuality != "" {
		target.Export.ImageQuality = source.Export.ImageQuality
	}
	target.Export.IncludeNotes = target.Export.IncludeNotes || source.Export.IncludeNotes

	// Session config
	if source.Session.Backend != "" {
		target.Session.Backend = source.Session.Backend
	}
	if source.Session.RedisAddr != "" {
		target.Session.RedisAddr = source.Session.RedisAddr
	}
	if source.Session.RedisPassword != "" {
		target.Session.RedisPassword = source.Session.RedisPassword
	}
	if source.Session.RedisDB != 0 {
		target.Session.RedisDB = source.Session.RedisDB
	}
	if source.Session.TTLSeconds != 0 {
		target.Session.TTLSeconds = source.Session.TTLSeconds
	}
	if source.Session.KeyPrefix != "" {
		target.Session.KeyPrefix = source.Session.KeyPrefix
	}

	// Logging config
	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	if source.Logging.File != "" {
		target.Logging.File = source.Logging.File
	}
	target.Logging.Verbose = target.Logging.Verbose || source.Logging.Verbose
	target.Logging.JSONFormat = target.Logging.JSONFormat || source.Logging.JSONFormat

	// Metrics config
	if source.Metrics.Path != "" {
		target.Metrics.Path = source.Metrics.Path
	}
	target.Metrics.Disabled = target.Metrics.Disabled || source.Metrics.Disabled
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := *src
	if src.Server.CORSOrigins != nil {
		dst.Server.CORSOrigins = append([]string(nil), src.Server.CORSOrigins...)
	}

	return &dst
}

var _ ports.ConfigMerger = (*ConfigMerger)(nil)
