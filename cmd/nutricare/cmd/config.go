package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the CLI settings read from ~/.nutricare/config.yaml.
type Config struct {
	BaseURL      string `yaml:"base_url"`
	DataDir      string `yaml:"data_dir"`
	DegradedAuth bool   `yaml:"degraded_auth"`
}

func defaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolving home directory: %w", err)
	}
	return Config{
		BaseURL: "http://localhost:8080",
		DataDir: filepath.Join(home, ".nutricare"),
	}, nil
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
