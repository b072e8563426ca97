// Package config loads and validates atlas-builder's build configuration.
package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// globalConfig stores the configuration loaded with command-line overrides.
// This allows other packages to access the same configuration that was
// loaded by the CLI entry point.
var (
	globalConfig *Config
	configMutex  sync.Mutex
)

// Config holds the full atlas-builder configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Atlas   AtlasConfig   `yaml:"atlas"`
	Font    FontConfig    `yaml:"font"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoadOptions holds command-line override options, applied after a config
// file and environment variables.
type LoadOptions struct {
	ConfigFile  string
	InputDir    string
	OutputImage string
	OutputGo    string
	LogLevel    string
	NoCrop      bool
}

// InputConfig describes where sprite sources live and what's produced.
type InputConfig struct {
	Dir         string `yaml:"dir" env:"ATLAS_INPUT_DIR"`
	OutputImage string `yaml:"outputImage" env:"ATLAS_OUTPUT_IMAGE"`
	OutputGo    string `yaml:"outputGo" env:"ATLAS_OUTPUT_GO"`
	PackageName string `yaml:"packageName" env:"ATLAS_PACKAGE_NAME"`
}

// AtlasConfig controls the packer and compositor.
type AtlasConfig struct {
	Width       int  `yaml:"width" env:"ATLAS_WIDTH"`
	Height      int  `yaml:"height" env:"ATLAS_HEIGHT"`
	TileSize    int  `yaml:"tileSize" env:"ATLAS_TILE_SIZE"`
	TilePadding bool `yaml:"tilePadding" env:"ATLAS_TILE_PADDING"`
	CropToUsed  bool `yaml:"cropToUsed" env:"ATLAS_CROP"`
	SwatchSize  int  `yaml:"swatchSize" env:"ATLAS_SWATCH_SIZE"`
}

// FontConfig controls the optional glyph rasterizer. A zero-value Path
// means no font is rasterized and the atlas carries no glyphs.
type FontConfig struct {
	Path        string `yaml:"path" env:"ATLAS_FONT_PATH"`
	PixelHeight int    `yaml:"pixelHeight" env:"ATLAS_FONT_PIXEL_HEIGHT"`
	Codepoints  string `yaml:"codepoints" env:"ATLAS_FONT_CODEPOINTS"`
}

// LoggingConfig controls the leveled logger.
type LoggingConfig struct {
	Level string `yaml:"level" env:"ATLAS_LOG_LEVEL"`
}

const defaultCodepoints = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

// Load loads configuration from defaults and environment variables only.
func Load() (*Config, error) {
	return LoadWithOverrides(LoadOptions{})
}

// LoadWithOverrides loads configuration from defaults, an optional YAML
// file, environment variables, and finally explicit CLI overrides, in
// ascending priority.
func LoadWithOverrides(opts LoadOptions) (*Config, error) {
	cfg := defaultConfig()

	if opts.ConfigFile != "" {
		if err := applyConfigFile(cfg, opts.ConfigFile); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	applyEnv(cfg)

	cfg.Input.Dir = firstNonEmpty(opts.InputDir, cfg.Input.Dir)
	cfg.Input.OutputImage = firstNonEmpty(opts.OutputImage, cfg.Input.OutputImage)
	cfg.Input.OutputGo = firstNonEmpty(opts.OutputGo, cfg.Input.OutputGo)
	cfg.Logging.Level = firstNonEmpty(opts.LogLevel, cfg.Logging.Level)

	if opts.NoCrop {
		cfg.Atlas.CropToUsed = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	configMutex.Lock()
	globalConfig = cfg
	configMutex.Unlock()

	return cfg, nil
}

// GetGlobalConfig returns the globally stored configuration loaded by the
// CLI entry point. Packages that need config outside of explicit
// parameter-passing (e.g. logging setup) use this.
func GetGlobalConfig() *Config {
	configMutex.Lock()
	defer configMutex.Unlock()
	return globalConfig
}

func defaultConfig() *Config {
	return &Config{
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
		Font: FontConfig{
			PixelHeight: 16,
			Codepoints:  defaultCodepoints,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func applyConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnv overlays environment variables named by each field's `env` tag
// onto cfg, leaving fields alone when the variable is unset.
func applyEnv(cfg *Config) {
	cfg.Input.Dir = envOr("ATLAS_INPUT_DIR", cfg.Input.Dir)
	cfg.Input.OutputImage = envOr("ATLAS_OUTPUT_IMAGE", cfg.Input.OutputImage)
	cfg.Input.OutputGo = envOr("ATLAS_OUTPUT_GO", cfg.Input.OutputGo)
	cfg.Input.PackageName = envOr("ATLAS_PACKAGE_NAME", cfg.Input.PackageName)

	cfg.Atlas.Width = envOrInt("ATLAS_WIDTH", cfg.Atlas.Width)
	cfg.Atlas.Height = envOrInt("ATLAS_HEIGHT", cfg.Atlas.Height)
	cfg.Atlas.TileSize = envOrInt("ATLAS_TILE_SIZE", cfg.Atlas.TileSize)
	cfg.Atlas.SwatchSize = envOrInt("ATLAS_SWATCH_SIZE", cfg.Atlas.SwatchSize)
	cfg.Atlas.TilePadding = envOrBool("ATLAS_TILE_PADDING", cfg.Atlas.TilePadding)
	cfg.Atlas.CropToUsed = envOrBool("ATLAS_CROP", cfg.Atlas.CropToUsed)

	cfg.Font.Path = envOr("ATLAS_FONT_PATH", cfg.Font.Path)
	cfg.Font.PixelHeight = envOrInt("ATLAS_FONT_PIXEL_HEIGHT", cfg.Font.PixelHeight)
	cfg.Font.Codepoints = envOr("ATLAS_FONT_CODEPOINTS", cfg.Font.Codepoints)

	cfg.Logging.Level = envOr("ATLAS_LOG_LEVEL", cfg.Logging.Level)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Input.Dir == "" {
		return fmt.Errorf("input directory cannot be empty")
	}

	if c.Atlas.Width <= 0 || c.Atlas.Height <= 0 {
		return fmt.Errorf("atlas dimensions must be positive")
	}

	if c.Atlas.TileSize <= 0 {
		return fmt.Errorf("tile size must be positive")
	}

	if c.Atlas.SwatchSize <= 0 {
		return fmt.Errorf("swatch size must be positive")
	}

	if c.Font.Path != "" {
		if c.Font.PixelHeight <= 0 {
			return fmt.Errorf("font pixel height must be positive")
		}
		if _, err := os.Stat(c.Font.Path); os.IsNotExist(err) {
			return fmt.Errorf("font file does not exist: %s", c.Font.Path)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envOrInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var parsed int
		if _, err := fmt.Sscanf(value, "%d", &parsed); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func envOrBool(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return defaultValue
	}
}
