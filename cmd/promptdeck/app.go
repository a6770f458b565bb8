package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fredcamaral/promptdeck/internal/adapters/secondary/config"
	"github.com/fredcamaral/promptdeck/internal/adapters/secondary/export"
	"github.com/fredcamaral/promptdeck/internal/adapters/secondary/identity"
	"github.com/fredcamaral/promptdeck/internal/adapters/secondary/logging"
	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
	"github.com/fredcamaral/promptdeck/internal/domain/services"
)

// overrideFlags are the command line flags ConfigMerger.ApplyFlags knows
var overrideFlags = []string{"port", "host", "session-backend", "redis-addr", "verbose", "notes", "output-dir"}

// app holds the collaborators shared by every command
type app struct {
	config   *entities.Config
	logger   *zap.Logger
	closeLog func() error
	catalog  *services.TemplateCatalog
	decks    *services.DeckService
	exporter *export.Service
}

// newApp loads the effective configuration and wires the services
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	ids := identity.NewUUIDGenerator()
	catalog := services.NewTemplateCatalog()
	decks := services.NewDeckService(
		services.NewDeckGenerator(catalog, ids, cfg.Generator),
		services.NewUpdateInterpreter(ids),
		logger,
	)

	exporter, err := export.NewService(cfg.Export, logger)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("creating export service: %w", err)
	}

	return &app{
		config:   cfg,
		logger:   logger,
		closeLog: closeLog,
		catalog:  catalog,
		decks:    decks,
		exporter: exporter,
	}, nil
}

func (a *app) close() {
	_ = a.closeLog()
}

// configLoader honours the --config flag
func configLoader(cmd *cobra.Command) ports.ConfigLoader {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.NewTOMLLoaderWithPath(path)
	}
	return config.NewTOMLLoader()
}

func newConfigService(cmd *cobra.Command) *services.ConfigService {
	return services.NewConfigService(configLoader(cmd), config.NewConfigMerger())
}

// loadConfig resolves defaults, config files, environment and flags
func loadConfig(cmd *cobra.Command) (*entities.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := newConfigService(cmd).LoadConfig(cmd.Context(), wd, changedFlags(cmd))
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// changedFlags collects the override flags the user actually set
func changedFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	fs := cmd.Flags()

	for _, name := range overrideFlags {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}

		switch f.Value.Type() {
		case "int":
			v, _ := fs.GetInt(name)
			flags[name] = v
		case "bool":
			v, _ := fs.GetBool(name)
			flags[name] = v
		default:
			flags[name] = f.Value.String()
		}
	}

	return flags
}
