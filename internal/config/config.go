// Package config loads the renderer's JSON settings file and merges CLI
// flags over it.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir     string `json:"base_dir"`
	Database    string `json:"database"`
	ContentDir  string `json:"content_dir"`
	PresetsFile string `json:"presets_file"`
	OutputDir   string `json:"output_dir"`

	// Render settings
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Supersample int     `json:"supersample"`
	Workers     int     `json:"workers"`
	FillRatio   float64 `json:"fill_ratio"`
	Transparent bool    `json:"transparent"`

	// Viewer settings
	Scene       string  `json:"scene"`
	FPS         int     `json:"fps"`
	Sensitivity float64 `json:"sensitivity"`
	Motion      *Motion `json:"motion,omitempty"`
}

// Motion mirrors clock.Motion so the file can tune idle animation.
type Motion struct {
	Rotate         bool    `json:"rotate"`
	RotateSpeed    float64 `json:"rotate_speed"`
	Float          bool    `json:"float"`
	FloatAmplitude float64 `json:"float_amplitude"`
	Pulse          bool    `json:"pulse"`
	PulseAmplitude float64 `json:"pulse_amplitude"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOptional is Load that treats an empty path or a missing file as an
// empty config.
func LoadOptional(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Config{}, nil
	}
	return Load(path)
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.BaseDir != "" {
		c.BaseDir = flags.BaseDir
	}
	if flags.Database != "" {
		c.Database = flags.Database
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}

	if c.BaseDir == "" {
		c.BaseDir = defaultBaseDir()
	}

	// Resolve relative paths against base dir
	c.Database = resolvePath(c.BaseDir, c.Database, "cards.db")
	c.ContentDir = resolvePath(c.BaseDir, c.ContentDir, "content")
	c.OutputDir = resolvePath(c.BaseDir, c.OutputDir, "renders")
	if c.PresetsFile != "" {
		c.PresetsFile = resolvePath(c.BaseDir, c.PresetsFile, "")
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 250
	}
	if c.Height <= 0 {
		c.Height = 350
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = 0.9
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Sensitivity <= 0 {
		c.Sensitivity = 0.5
	}
	if c.Scene == "" {
		c.Scene = "studio"
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir   string
	Database  string
	OutputDir string
	Width     int
	Height    int
	Workers   int
	Scene     string
}

func resolvePath(base, p, def string) string {
	if p == "" {
		p = def
	}
	if base == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// defaultBaseDir is the per-user data directory, or the working directory
// when that cannot be determined.
func defaultBaseDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "holocard")
	}
	cwd, _ := os.Getwd()
	return cwd
}
