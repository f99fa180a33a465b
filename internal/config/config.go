package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-project configuration file keyward looks for
// in the audit root.
const ConfigFileName = ".keyward.yaml"

// Config represents the keyward configuration file
type Config struct {
	Ignores IgnoresConfig `yaml:"ignores"`
	Apod    ApodConfig    `yaml:"apod"`
}

// IgnoresConfig contains ignore rules applied during an audit
type IgnoresConfig struct {
	Missing []string `yaml:"missing"` // Variables to ignore when reporting as missing
	Folders []string `yaml:"folders"` // Folders to ignore when scanning (e.g., config directories)
	Values  []string `yaml:"values"`  // Literal values allowlisted as known-safe (fixtures, docs)
}

// ApodConfig configures the astronomy picture command
type ApodConfig struct {
	KeyName string `yaml:"key_name"` // Environment variable holding the API key
	BaseURL string `yaml:"base_url"` // Endpoint override, mostly for tests
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Apod: ApodConfig{
			KeyName: "NASA_API_KEY",
		},
	}
}

// Load reads the .keyward.yaml file from the given directory.
// A missing file is not an error; defaults are returned.
func Load(rootPath string) (*Config, error) {
	configPath := filepath.Join(rootPath, ConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Apod.KeyName == "" {
		cfg.Apod.KeyName = "NASA_API_KEY"
	}

	return cfg, nil
}

// ShouldIgnoreMissing checks if a variable should be ignored when reporting as missing
func (c *Config) ShouldIgnoreMissing(varName string) bool {
	for _, ignored := range c.Ignores.Missing {
		if ignored == varName {
			return true
		}
	}
	return false
}

// IsAllowedValue checks if a literal value has been allowlisted.
func (c *Config) IsAllowedValue(value string) bool {
	for _, allowed := range c.Ignores.Values {
		if allowed == value {
			return true
		}
	}
	return false
}
