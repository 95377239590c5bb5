// Package config handles global configuration and history path
// resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in
// ~/.config/citetrack/config.yml.
type GlobalConfig struct {
	HistoryPath string `yaml:"history_path,omitempty"`
	SerpAPIKey  string `yaml:"serpapi_api_key,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "citetrack"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// DefaultHistoryFile is the history database file name used when no
	// path has been configured.
	DefaultHistoryFile = "scholar_history.db"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/citetrack/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.HistoryPath != "" {
		cfg.HistoryPath = ExpandPath(cfg.HistoryPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetSerpAPIKey returns the SerpAPI key from global config.
func GetSerpAPIKey() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.SerpAPIKey
}

// ResolveHistoryPath resolves where observations are durably written.
// Precedence: the explicit override (the --db flag), then the global
// config history_path, then DefaultHistoryFile in the working
// directory. The result is always passed explicitly into store
// construction; nothing below this layer consults configuration.
func ResolveHistoryPath(override string) string {
	if override != "" {
		return ExpandPath(override)
	}
	cfg, _ := LoadGlobalConfig()
	if cfg.HistoryPath != "" {
		return cfg.HistoryPath
	}
	return DefaultHistoryFile
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
