// Package config resolves bvr's on-disk layout and persists the viewer's
// user preferences, the way the teacher's own package resolved
// ~/.config/local-dev/ and round-tripped its JSON LocalConfig.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const maxRecentPaths = 20

// Config holds bvr's persisted user preferences.
type Config struct {
	Recent      []string `toml:"recent_paths"`
	LRUCapacity int      `toml:"lru_capacity"`
}

// configDir returns ~/.config/bvr.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bvr"
	}
	return filepath.Join(home, ".config", "bvr")
}

// ConfigDir returns the config directory path.
func ConfigDir() string { return configDir() }

func configPath() string {
	return filepath.Join(configDir(), "config.toml")
}

// Load reads the config file, returning sane defaults if it doesn't exist
// yet or fails to parse.
func Load() *Config {
	cfg := &Config{LRUCapacity: 25}

	data, err := os.ReadFile(configPath())
	if err != nil {
		return cfg
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return cfg
	}
	if cfg.LRUCapacity <= 0 {
		cfg.LRUCapacity = 25
	}
	return cfg
}

// Save persists cfg to disk, creating the config directory if needed.
func Save(cfg *Config) error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", dir, err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(configPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", configPath(), err)
	}
	return nil
}

// RecentPaths returns the most recently opened paths, newest first.
func (c *Config) RecentPaths() []string { return c.Recent }

// RememberPath moves path to the front of the recent list, capped at
// maxRecentPaths entries, and persists the change.
func (c *Config) RememberPath(path string) {
	for i, p := range c.Recent {
		if p == path {
			c.Recent = append(c.Recent[:i], c.Recent[i+1:]...)
			break
		}
	}
	c.Recent = append([]string{path}, c.Recent...)
	if len(c.Recent) > maxRecentPaths {
		c.Recent = c.Recent[:maxRecentPaths]
	}
	_ = Save(c)
}
