package ports

import (
	"context"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

// ConfigLoader reads the global and per-directory TOML files
type ConfigLoader interface {
	// LoadGlobal reads the user-wide file, creating it with defaults if absent
	LoadGlobal(ctx context.Context) (*entities.Config, error)

	// LoadLocal reads promptdeck.toml in dir. A missing file yields nil, nil.
	LoadLocal(ctx context.Context, dir string) (*entities.Config, error)

	// CreateDefaults writes the built-in defaults to path
	CreateDefaults(ctx context.Context, path string) error

	GetGlobalPath() string
	GetLocalPath(dir string) string
}

// ConfigMerger layers configurations and applies overrides
type ConfigMerger interface {
	// Merge overlays configs onto the defaults; later configs win
	Merge(configs ...*entities.Config) *entities.Config

	// ApplyFlags applies the command line flags the user set
	ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config

	// ApplyEnvVars applies PROMPTDECK_* environment overrides
	ApplyEnvVars(config *entities.Config) *entities.Config
}

// ConfigService resolves the effective configuration
type ConfigService interface {
	LoadConfig(ctx context.Context, workingDir string, flags map[string]interface{}) (*entities.Config, error)
	GetDefaultConfig() *entities.Config
	ValidateConfig(config *entities.Config) error
	CreateGlobalConfig(ctx context.Context) error
}
