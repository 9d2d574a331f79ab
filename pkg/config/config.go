// Package config handles loading and saving litmap configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/litmap/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/litmap/pkg/scatter"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	DefaultView  string `yaml:"default_view,omitempty"` // map, timeline
	ShowLegend   *bool  `yaml:"show_legend,omitempty"`
	TimelineMode string `yaml:"timeline_mode,omitempty"` // yearly, cumulative
}

// ExportConfig holds defaults for snapshot export.
type ExportConfig struct {
	Dir    string `yaml:"dir,omitempty"`    // Output directory (default cwd)
	Format string `yaml:"format,omitempty"` // svg, png, all
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

// Config is the top-level configuration for litmap.
type Config struct {
	// DataPath is the default snapshot to open when no -data flag and no
	// LITMAP_DATA env var is given.
	DataPath string       `yaml:"data_path,omitempty"`
	Palette  []string     `yaml:"palette,omitempty"` // "#rrggbb" entries, cycled by cluster id
	UI       UIConfig     `yaml:"ui,omitempty"`
	Export   ExportConfig `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			DefaultView:  "map",
			TimelineMode: "yearly",
		},
		Export: ExportConfig{
			Format: "svg",
			Width:  1200,
			Height: 800,
		},
	}
}

// ConfigDir returns the XDG config directory for litmap.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "litmap")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "litmap")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.DataPath = expandHome(cfg.DataPath)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ResolvePalette returns the configured palette, or the default category
// palette when no override is set. A malformed entry fails loudly rather
// than silently recoloring part of the map.
func (c Config) ResolvePalette() (scatter.Palette, error) {
	if len(c.Palette) == 0 {
		return scatter.DefaultPalette, nil
	}
	p, err := scatter.ParsePalette(c.Palette)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	return p, nil
}

// LegendVisible reports the legend preference, defaulting to visible.
func (c Config) LegendVisible() bool {
	return c.UI.ShowLegend == nil || *c.UI.ShowLegend
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
