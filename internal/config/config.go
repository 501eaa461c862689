package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every command
type Config struct {
	URL              string `yaml:"url"`
	Schema           string `yaml:"schema"`
	Format           string `yaml:"format"`
	Output           string `yaml:"output"`
	OutputDir        string `yaml:"output_dir"`
	LogLevel         string `yaml:"log_level"`
	SeqURL           string `yaml:"seq_url"`
	InvertedFulltext bool   `yaml:"inverted_fulltext"`
}

// Default returns the settings used when neither a file nor a flag sets a value
func Default() Config {
	return Config{
		Format:   "text",
		LogLevel: "warn",
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that have a fixed set of choices
func (c Config) Validate() error {
	switch c.Format {
	case "text", "markdown":
	default:
		return fmt.Errorf("invalid format %q: must be 'text' or 'markdown'", c.Format)
	}
	return nil
}
