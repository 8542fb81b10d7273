package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bsanalyst/tui-go/internal/api"
)

// Config represents the user's client configuration
type Config struct {
	APIBaseURL string `json:"api_base_url"`
	Debug      bool   `json:"debug,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL: api.DefaultBaseURL,
	}
}

// globalConfigDir returns the global config directory path (~/.bsa)
func globalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bsa"), nil
}

// globalConfigPath returns the global config file path (~/.bsa/config.json)
func globalConfigPath() (string, error) {
	dir, err := globalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// projectConfigPath returns the project-level config path (.bsa/config.json in cwd)
func projectConfigPath() string {
	return filepath.Join(".bsa", "config.json")
}

// DebugLogPath returns where the debug logger writes (~/.bsa/debug.log)
func DebugLogPath() (string, error) {
	dir, err := globalConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "debug.log"), nil
}

// Load reads the config from disk, checking project config first, then
// global, falling back to defaults when neither exists
func Load() (*Config, error) {
	if data, err := os.ReadFile(projectConfigPath()); err == nil {
		var cfg Config
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		applyDefaults(&cfg)
		return &cfg, nil
	}

	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(globalPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = api.DefaultBaseURL
	}
}

// Save writes the config to the global location
func Save(cfg *Config) error {
	dir, err := globalConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := globalConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
