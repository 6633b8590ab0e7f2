// Package config loads and saves the inspector's own configuration: where
// the settings document lives and whether the token goes to the OS keyring.
// The settings document itself is owned by package settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"inspector/internal/logging"
	"inspector/pkg/fileops"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	APP_NAME = "inspector" // application name used for config and data directories

	// ConfigPathEnv points the inspector at a specific config file.
	ConfigPathEnv = "INSPECTOR_CONFIG_PATH"

	CurrentVersion = "1.0"
)

// Config holds user configuration for the inspector.
type Config struct {
	// SettingsFile is the YAML document backing the settings store.
	SettingsFile string `yaml:"settings_file"`
	// UseKeyring stores the API token in the OS credential store instead of
	// the settings file.
	UseKeyring bool   `yaml:"use_keyring"`
	Version    string `yaml:"version"`
	InitTime   int64  `yaml:"init_time"` // Unix timestamp of first save
}

// ConfigPath returns the config file location, honouring ConfigPathEnv.
func ConfigPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")
}

// DefaultSettingsFile returns where the settings document lives when the
// config does not say otherwise.
func DefaultSettingsFile() string {
	return filepath.Join(xdg.DataHome, APP_NAME, "settings.yaml")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SettingsFile: DefaultSettingsFile(),
		UseKeyring:   true,
		Version:      CurrentVersion,
	}
}

// Exists reports whether a config file is present at ConfigPath.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Load reads the config from ConfigPath.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from a specific path. Empty fields are filled from
// DefaultConfig so older files keep working.
func LoadFrom(path string) (*Config, error) {
	logging.Debug("Reading config file", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.SettingsFile == "" {
		cfg.SettingsFile = DefaultSettingsFile()
	}
	cfg.SettingsFile = fileops.ExpandPath(cfg.SettingsFile)
	if err := fileops.ValidateFilePath(cfg.SettingsFile); err != nil {
		return nil, fmt.Errorf("invalid settings_file: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}

	return &cfg, nil
}

// LoadOrCreate loads the config, writing the defaults first if this is the
// first run.
func LoadOrCreate() (*Config, error) {
	if Exists() {
		return Load()
	}

	logging.Info("No configuration found, writing defaults", "path", ConfigPath())
	cfg := DefaultConfig()
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("failed to create default configuration: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to ConfigPath.
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the config to a specific path with 0600 permissions.
func (c *Config) SaveTo(path string) error {
	if c.InitTime == 0 {
		c.InitTime = time.Now().Unix()
	}

	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := fileops.AtomicWriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
