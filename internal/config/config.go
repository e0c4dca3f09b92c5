package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the application configuration
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Timer   TimerConfig   `toml:"timer"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects the durable key-value backend for the task list
type StorageConfig struct {
	// Backend is "sqlite", "file", "memory" or "auto"
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// TimerConfig holds timer preferences
type TimerConfig struct {
	// Mode is the preset selected at startup: "focus", "shortBreak" or "longBreak"
	Mode string `toml:"mode"`
}

// LogConfig controls where diagnostics are written
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Default returns the default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Storage: StorageConfig{
			Backend: "auto",
			Path:    filepath.Join(homeDir, ".local", "share", "focusboard", "focusboard.db"),
		},
		Timer: TimerConfig{
			Mode: "focus",
		},
		Log: LogConfig{
			File:  filepath.Join(homeDir, ".local", "state", "focusboard", "focusboard.log"),
			Level: "info",
		},
	}
}

// Path returns the standard config file location
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(homeDir, ".config", "focusboard", "config.toml"), nil
}

// Load loads configuration from the standard location
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads configuration from a specific path
func LoadFrom(configPath string) (*Config, error) {
	cfg := Default()

	// No config file, return defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	cfg.Log.File = ExpandPath(cfg.Log.File)

	return cfg, nil
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// SaveTo saves the configuration to a specific path, creating its directory
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}
