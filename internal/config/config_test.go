package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		want    *Config
	}{
		{
			name:    "default configuration",
			envVars: map[string]string{},
			want: &Config{
				Input: InputConfig{
					Dir:         "./sprites",
					OutputImage: "./atlas.png",
					OutputGo:    "./atlas.go",
					PackageName: "atlas",
				},
				Atlas: AtlasConfig{
					Width:       2048,
					Height:      2048,
					TileSize:    10,
					TilePadding: true,
					CropToUsed:  true,
					SwatchSize:  10,
				},
				Logging: LoggingConfig{Level: "info"},
			},
		},
		{
			name: "custom environment variables",
			envVars: map[string]string{
				"ATLAS_INPUT_DIR": "./art",
				"ATLAS_WIDTH":     "4096",
				"ATLAS_HEIGHT":    "1024",
				"ATLAS_LOG_LEVEL": "debug",
			},
			want: &Config{
				Input: InputConfig{
					Dir:         "./art",
					OutputImage: "./atlas.png",
					OutputGo:    "./atlas.go",
					PackageName: "atlas",
				},
				Atlas: AtlasConfig{
					Width:       4096,
					Height:      1024,
					TileSize:    10,
					TilePadding: true,
					CropToUsed:  true,
					SwatchSize:  10,
				},
				Logging: LoggingConfig{Level: "debug"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.NoError(t, err)

			assert.Equal(t, tt.want.Input.Dir, cfg.Input.Dir)
			assert.Equal(t, tt.want.Atlas.Width, cfg.Atlas.Width)
			assert.Equal(t, tt.want.Atlas.Height, cfg.Atlas.Height)
			assert.Equal(t, tt.want.Logging.Level, cfg.Logging.Level)
		})
	}
}

func TestLoadWithOverrides(t *testing.T) {
	cfg, err := LoadWithOverrides(LoadOptions{
		InputDir: "./custom-sprites",
		LogLevel: "warn",
		NoCrop:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "./custom-sprites", cfg.Input.Dir)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Atlas.CropToUsed)
}

func TestLoadWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atlas.yaml")
	contents := "input:\n  dir: ./from-file\natlas:\n  width: 512\n  height: 512\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadWithOverrides(LoadOptions{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, "./from-file", cfg.Input.Dir)
	assert.Equal(t, 512, cfg.Atlas.Width)
	assert.Equal(t, 512, cfg.Atlas.Height)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid configuration",
			cfg: &Config{
				Input:   InputConfig{Dir: "./sprites"},
				Atlas:   AtlasConfig{Width: 1024, Height: 1024, TileSize: 10, SwatchSize: 10},
				Logging: LoggingConfig{Level: "info"},
			},
		},
		{
			name: "missing input dir",
			cfg: &Config{
				Atlas:   AtlasConfig{Width: 1024, Height: 1024, TileSize: 10, SwatchSize: 10},
				Logging: LoggingConfig{Level: "info"},
			},
			wantErr: true,
			errMsg:  "input directory cannot be empty",
		},
		{
			name: "invalid atlas dimensions",
			cfg: &Config{
				Input:   InputConfig{Dir: "./sprites"},
				Atlas:   AtlasConfig{Width: 0, Height: 1024, TileSize: 10, SwatchSize: 10},
				Logging: LoggingConfig{Level: "info"},
			},
			wantErr: true,
			errMsg:  "atlas dimensions must be positive",
		},
		{
			name: "invalid tile size",
			cfg: &Config{
				Input:   InputConfig{Dir: "./sprites"},
				Atlas:   AtlasConfig{Width: 1024, Height: 1024, TileSize: 0, SwatchSize: 10},
				Logging: LoggingConfig{Level: "info"},
			},
			wantErr: true,
			errMsg:  "tile size must be positive",
		},
		{
			name: "invalid log level",
			cfg: &Config{
				Input:   InputConfig{Dir: "./sprites"},
				Atlas:   AtlasConfig{Width: 1024, Height: 1024, TileSize: 10, SwatchSize: 10},
				Logging: LoggingConfig{Level: "verbose"},
			},
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name: "missing font file",
			cfg: &Config{
				Input:   InputConfig{Dir: "./sprites"},
				Atlas:   AtlasConfig{Width: 1024, Height: 1024, TileSize: 10, SwatchSize: 10},
				Font:    FontConfig{Path: "/does/not/exist.ttf", PixelHeight: 16},
				Logging: LoggingConfig{Level: "info"},
			},
			wantErr: true,
			errMsg:  "font file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestEnvOr(t *testing.T) {
	key := "TEST_CONFIG_VAR"

	os.Unsetenv(key)
	assert.Equal(t, "default", envOr(key, "default"))

	t.Setenv(key, "test_value")
	assert.Equal(t, "test_value", envOr(key, "default"))
}

func TestEnvOrInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Unsetenv(key)
	assert.Equal(t, 42, envOrInt(key, 42))

	t.Setenv(key, "100")
	assert.Equal(t, 100, envOrInt(key, 42))

	t.Setenv(key, "not-a-number")
	assert.Equal(t, 42, envOrInt(key, 42))
}

func TestEnvOrBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Unsetenv(key)
	assert.Equal(t, false, envOrBool(key, false))

	t.Setenv(key, "true")
	assert.Equal(t, true, envOrBool(key, false))

	t.Setenv(key, "false")
	assert.Equal(t, false, envOrBool(key, true))

	t.Setenv(key, "invalid")
	assert.Equal(t, true, envOrBool(key, true))
}

func TestGetGlobalConfig(t *testing.T) {
	_, err := Load()
	require.NoError(t, err)

	cfg := GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "./sprites", cfg.Input.Dir)
}
