// Package config loads the TOML file that configures a display application and converts it
// into the functional options of the window, display, shader and engine packages.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrUnknownFeature is returned for a feature name the WebGPU binding does not know.
	ErrUnknownFeature = errors.New("config: unknown feature")

	// ErrUnknownPowerPreference is returned for a power preference other than "low-power" or "high-performance".
	ErrUnknownPowerPreference = errors.New("config: unknown power preference")

	// ErrUnknownPresentMode is returned for a present mode name the WebGPU binding does not know.
	ErrUnknownPresentMode = errors.New("config: unknown present mode")

	// ErrInvalid is returned when the file is not valid TOML or contains unknown keys.
	ErrInvalid = errors.New("config: invalid file")
)

// Config is the whole configuration file.
type Config struct {
	Window  Window  `toml:"window"`
	Display Display `toml:"display"`
	Driver  Driver  `toml:"driver"`
	Shaders Shaders `toml:"shaders"`
}

// Window is the [window] table.
type Window struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	MinWidth  int    `toml:"min_width"`
	MinHeight int    `toml:"min_height"`
	MaxWidth  int    `toml:"max_width"`
	MaxHeight int    `toml:"max_height"`
	Resizable *bool  `toml:"resizable"`
}

// Display is the [display] table.
type Display struct {
	Label            string   `toml:"label"`
	PowerPreference  string   `toml:"power_preference"`
	ForceFallback    bool     `toml:"force_fallback_adapter"`
	RequiredFeatures []string `toml:"required_features"`
	OptionalFeatures []string `toml:"optional_features"`
	PresentModes     []string `toml:"present_modes"`
}

// Driver is the [driver] table.
type Driver struct {
	// StatsWindow is the number of frames averaged per frame statistics report, zero for the default.
	StatsWindow int `toml:"stats_window"`

	// MSAA is the renderer sample count, 1 or 4.
	MSAA uint32 `toml:"msaa"`

	// Depth enables a Depth24Plus attachment on the renderer.
	Depth bool `toml:"depth"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level"`
}

// Shaders is the [shaders] table.
type Shaders struct {
	// Dir is the directory shader paths are relative to. A leading ~ is expanded.
	Dir string `toml:"dir"`

	// Files are the shader files to load, relative to Dir.
	Files []string `toml:"files"`

	// Watch enables hot reload of Files.
	Watch bool `toml:"watch"`

	// Validate enables naga validation while loading.
	Validate *bool `toml:"validate"`

	// Workers is the loader worker count, zero for one per CPU.
	Workers int `toml:"workers"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: Window{
			Title:  "oxy-display",
			Width:  1280,
			Height: 720,
		},
		Display: Display{
			PowerPreference: "high-performance",
		},
		Driver: Driver{
			MSAA:     1,
			LogLevel: "info",
		},
	}
}

// Load reads and decodes the configuration file at path on top of Default.
// A leading ~ in path is expanded to the user's home directory.
//
// Parameters:
//   - path: the TOML file to read
//
// Returns:
//   - Config: the decoded configuration
//   - error: the read error, or ErrInvalid for malformed files and unknown keys
func Load(path string) (Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to expand %q: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to read %s: %w", expanded, err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, err
	}
	// Relative shader directories are resolved against the file that names them.
	if cfg.Shaders.Dir != "" && !filepath.IsAbs(cfg.Shaders.Dir) && !strings.HasPrefix(cfg.Shaders.Dir, "~") {
		cfg.Shaders.Dir = filepath.Join(filepath.Dir(expanded), cfg.Shaders.Dir)
	}
	return cfg, nil
}

// Decode decodes TOML from r on top of Default. Unknown keys are rejected.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - Config: the decoded configuration
//   - error: ErrInvalid wrapping the decoder's error
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strings.TrimSpace(strict.String()))
		}
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return cfg, nil
}

// ShaderPaths returns the configured shader files joined to the expanded shader directory.
//
// Returns:
//   - []string: the shader file paths in configuration order
//   - error: an error if the home directory cannot be resolved
func (c Config) ShaderPaths() ([]string, error) {
	dir, err := homedir.Expand(c.Shaders.Dir)
	if err != nil {
		return nil, fmt.Errorf("config: failed to expand %q: %w", c.Shaders.Dir, err)
	}
	paths := make([]string, 0, len(c.Shaders.Files))
	for _, f := range c.Shaders.Files {
		f, err := homedir.Expand(f)
		if err != nil {
			return nil, fmt.Errorf("config: failed to expand %q: %w", f, err)
		}
		if dir != "" && !filepath.IsAbs(f) {
			f = filepath.Join(dir, f)
		}
		paths = append(paths, f)
	}
	return paths, nil
}
