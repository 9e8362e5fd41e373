// ABOUTME: GymTrack configuration management with XDG path defaults.
// ABOUTME: Handles data directory, dev-mode schema erase, and store opening.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/gymtrack/internal/storage"
)

// Config stores gymtrack tool configuration.
type Config struct {
	// DataDir is the root directory for data storage. The SQLite file
	// lives at <DataDir>/gymtrack.db and the aggregate store under
	// <DataDir>/aggregates. Supports ~ expansion. Defaults to
	// ~/.local/share/gymtrack.
	DataDir string `json:"data_dir,omitempty"`

	// EraseOnSchemaChange rebuilds the database when the migration set
	// changes. Development only; destroys all data.
	EraseOnSchemaChange bool `json:"erase_on_schema_change,omitempty"`
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "gymtrack")
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the SQLite database file path.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "gymtrack.db")
}

// AggregateDir returns the aggregate store directory.
func (c *Config) AggregateDir() string {
	return filepath.Join(c.GetDataDir(), "aggregates")
}

// OpenStore opens the relational store at the configured path, applying
// migrations. A returned error is fatal: the process must not continue on
// a partially-migrated database.
func (c *Config) OpenStore() (*storage.DB, error) {
	return storage.OpenWithOptions(c.DBPath(), storage.Options{
		EraseOnSchemaChange: c.EraseOnSchemaChange,
	})
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "gymtrack", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
