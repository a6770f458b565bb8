package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

type MockConfigLoader struct {
	mock.Mock
}

func (m *MockConfigLoader) LoadGlobal(ctx context.Context) (*entities.Config, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Config), args.Error(1)
}

func (m *MockConfigLoader) LoadLocal(ctx context.Context, dir string) (*entities.Config, error) {
	args := m.Called(ctx, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Config), args.Error(1)
}

func (m *MockConfigLoader) CreateDefaults(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockConfigLoader) GetGlobalPath() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfigLoader) GetLocalPath(dir string) string {
	args := m.Called(dir)
	return args.String(0)
}

type MockConfigMerger struct {
	mock.Mock
}

func (m *MockConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	args := m.Called(configs)
	return args.Get(0).(*entities.Config)
}

func (m *MockConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	args := m.Called(config, flags)
	return args.Get(0).(*entities.Config)
}

func (m *MockConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	args := m.Called(config)
	return args.Get(0).(*entities.Config)
}

// withSlides returns a config differing only in generator settings, so
// each layer is recognisable in assertions
func withSlides(def, max int) *entities.Config {
	return &entities.Config{
		Generator: entities.GeneratorConfig{DefaultSlideCount: def, MaxSlideCount: max},
		Session:   entities.SessionConfig{Backend: string(entities.SessionBackendMemory)},
	}
}

func newConfigMocks() (*MockConfigLoader, *MockConfigMerger, *ConfigService) {
	loader := &MockConfigLoader{}
	merger := &MockConfigMerger{}
	return loader, merger, NewConfigService(loader, merger)
}

func layers(n int) interface{} {
	return mock.MatchedBy(func(configs []*entities.Config) bool { return len(configs) == n })
}

func TestConfigServiceLoadConfig(t *testing.T) {
	const dir = "/work/talks"

	t.Run("layers defaults, global, local, env and flags in order", func(t *testing.T) {
		loader, merger, service := newConfigMocks()

		defaults, global, local := withSlides(5, 100), withSlides(7, 100), withSlides(9, 50)
		merged, fromEnv, final := withSlides(9, 50), withSlides(10, 50), withSlides(12, 50)
		flags := map[string]interface{}{"verbose": true}

		merger.On("Merge", layers(0)).Return(defaults).Once()
		loader.On("LoadGlobal", mock.Anything).Return(global, nil)
		loader.On("LoadLocal", mock.Anything, dir).Return(local, nil)
		merger.On("Merge", mock.MatchedBy(func(configs []*entities.Config) bool {
			return len(configs) == 3 && configs[0] == defaults && configs[1] == global && configs[2] == local
		})).Return(merged)
		merger.On("ApplyEnvVars", merged).Return(fromEnv)
		merger.On("ApplyFlags", fromEnv, flags).Return(final)

		got, err := service.LoadConfig(context.Background(), dir, flags)
		require.NoError(t, err)
		assert.Same(t, final, got)
		loader.AssertExpectations(t)
		merger.AssertExpectations(t)
	})

	t.Run("missing local file is skipped", func(t *testing.T) {
		loader, merger, service := newConfigMocks()

		final := withSlides(6, 100)
		merger.On("Merge", layers(0)).Return(withSlides(5, 100)).Once()
		loader.On("LoadGlobal", mock.Anything).Return(withSlides(6, 100), nil)
		loader.On("LoadLocal", mock.Anything, dir).Return(nil, nil)
		merger.On("Merge", layers(2)).Return(final)
		merger.On("ApplyEnvVars", final).Return(final)
		merger.On("ApplyFlags", final, map[string]interface{}(nil)).Return(final)

		got, err := service.LoadConfig(context.Background(), dir, nil)
		require.NoError(t, err)
		assert.Equal(t, 6, got.Generator.DefaultSlideCount)
	})

	failures := []struct {
		name    string
		setup   func(loader *MockConfigLoader, merger *MockConfigMerger)
		wantErr string
	}{
		{
			name: "global file unreadable",
			setup: func(loader *MockConfigLoader, _ *MockConfigMerger) {
				loader.On("LoadGlobal", mock.Anything).Return(nil, errors.New("bad toml"))
			},
			wantErr: "loading global config: bad toml",
		},
		{
			name: "local file unreadable",
			setup: func(loader *MockConfigLoader, _ *MockConfigMerger) {
				loader.On("LoadGlobal", mock.Anything).Return(&entities.Config{}, nil)
				loader.On("LoadLocal", mock.Anything, dir).Return(nil, errors.New("unknown key"))
			},
			wantErr: "loading local config: unknown key",
		},
		{
			name: "overrides produce an invalid config",
			setup: func(loader *MockConfigLoader, merger *MockConfigMerger) {
				loader.On("LoadGlobal", mock.Anything).Return(&entities.Config{}, nil)
				loader.On("LoadLocal", mock.Anything, dir).Return(nil, nil)
				merger.On("ApplyEnvVars", mock.Anything).Return(&entities.Config{})
				merger.On("ApplyFlags", mock.Anything, mock.Anything).Return(withSlides(200, 100))
			},
			wantErr: "final config validation",
		},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			loader, merger, service := newConfigMocks()
			merger.On("Merge", mock.Anything).Return(&entities.Config{})
			tt.setup(loader, merger)

			_, err := service.LoadConfig(context.Background(), dir, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigServiceDefaultsAndValidation(t *testing.T) {
	loader, merger, service := newConfigMocks()
	defaults := withSlides(5, 100)
	merger.On("Merge", layers(0)).Return(defaults)

	assert.Same(t, defaults, service.GetDefaultConfig())
	require.NoError(t, service.ValidateConfig(defaults))

	err := service.ValidateConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config cannot be nil")

	assert.Error(t, service.ValidateConfig(&entities.Config{Server: entities.ServerConfig{Port: -1}}))
	loader.AssertNotCalled(t, "LoadGlobal", mock.Anything)
}

func TestConfigServiceCreateGlobalConfig(t *testing.T) {
	const path = "/home/user/.config/promptdeck/config.toml"

	loader, _, service := newConfigMocks()
	loader.On("GetGlobalPath").Return(path)
	loader.On("CreateDefaults", mock.Anything, path).Return(nil).Once()
	require.NoError(t, service.CreateGlobalConfig(context.Background()))
	loader.AssertExpectations(t)

	loader, _, service = newConfigMocks()
	denied := errors.New("permission denied")
	loader.On("GetGlobalPath").Return(path)
	loader.On("CreateDefaults", mock.Anything, path).Return(denied)
	assert.ErrorIs(t, service.CreateGlobalConfig(context.Background()), denied)
}
