// Package config handles loading and saving mb configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/mb/config.yaml
//   - State:   ~/.local/state/mb/ (tree-state.json)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// appName is the directory name used below the XDG base directories.
const appName = "mb"

// ModelSet is a named group of model files opened together.
type ModelSet struct {
	Name  string   `yaml:"name"`
	Paths []string `yaml:"paths"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	DetailWidth int     `yaml:"detail_width,omitempty"` // Width of the documentation pane
	WordWrap    int     `yaml:"word_wrap,omitempty"`    // Markdown wrap column
	SplitRatio  float64 `yaml:"split_ratio,omitempty"`  // Tree pane share of the width (0.2-0.8)
	HideDetail  bool    `yaml:"hide_detail,omitempty"`  // Start with the detail pane closed
}

// StateConfig controls where UI state is kept.
type StateConfig struct {
	Dir string `yaml:"dir,omitempty"` // Defaults to StateDir()
}

// WatchConfig controls reloading models when files change on disk.
type WatchConfig struct {
	Enabled      *bool         `yaml:"enabled,omitempty"`
	Debounce     time.Duration `yaml:"debounce,omitempty"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
	ForcePoll    bool          `yaml:"force_poll,omitempty"`
}

// IsEnabled reports whether watching is on. It defaults to true.
func (w WatchConfig) IsEnabled() bool {
	return w.Enabled == nil || *w.Enabled
}

// Config is the top-level configuration for mb.
type Config struct {
	Models []ModelSet  `yaml:"models,omitempty"`
	UI     UIConfig    `yaml:"ui,omitempty"`
	State  StateConfig `yaml:"state,omitempty"`
	Watch  WatchConfig `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			DetailWidth: 60,
			WordWrap:    60,
			SplitRatio:  0.5,
		},
		Watch: WatchConfig{
			Debounce:     200 * time.Millisecond,
			PollInterval: 2 * time.Second,
		},
	}
}

func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...)
}

// ConfigDir returns the XDG config directory for mb.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for mb.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", ".local", "state")
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

	if cfg.UI.SplitRatio < 0.2 || cfg.UI.SplitRatio > 0.8 {
		cfg.UI.SplitRatio = DefaultConfig().UI.SplitRatio
	}
	for i := range cfg.Models {
		for j := range cfg.Models[i].Paths {
			cfg.Models[i].Paths[j] = expandHome(cfg.Models[i].Paths[j])
		}
	}
	cfg.State.Dir = expandHome(cfg.State.Dir)

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

// FindModels returns the model set with the given name, or nil.
func (c Config) FindModels(name string) *ModelSet {
	for i := range c.Models {
		if strings.EqualFold(c.Models[i].Name, name) {
			return &c.Models[i]
		}
	}
	return nil
}

// StatePath returns the path of the tree state file.
func (c Config) StatePath() string {
	dir := c.State.Dir
	if dir == "" {
		dir = StateDir()
	}
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "tree-state.json")
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
