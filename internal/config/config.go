package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lyrictag/internal/match"

	"gopkg.in/yaml.v3"
)

// Config contains the program configuration
type Config struct {
	Verbose             bool          `yaml:"verbose"`
	DryRun              bool          `yaml:"dry_run"`
	ParallelJobs        int           `yaml:"parallel_jobs"`
	Sources             []string      `yaml:"sources"`
	ConfidenceThreshold float64       `yaml:"confidence_threshold"`
	Backup              bool          `yaml:"backup"`
	Weights             match.Weights `yaml:"weights"`
}

// Sources lyrictag knows how to build.
var validSources = map[string]bool{
	"lrclib":      true,
	"deezer":      true,
	"itunes":      true,
	"musicbrainz": true,
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Verbose:             false,
		DryRun:              false,
		ParallelJobs:        4,
		Sources:             []string{"lrclib", "deezer"},
		ConfidenceThreshold: 0.7,
		Weights:             match.DefaultWeights(),
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// An absent weights block unmarshals to all zeros; fall back to the
	// defaults rather than rejecting the file.
	if cfg.Weights.IsZero() {
		cfg.Weights = match.DefaultWeights()
	}

	return cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./lyrictag.yaml",
		"./lyrictag.yml",
		filepath.Join(home, ".config", "lyrictag", "config.yaml"),
		filepath.Join(home, ".config", "lyrictag", "config.yml"),
		filepath.Join(home, ".lyrictag.yaml"),
		filepath.Join(home, ".lyrictag.yml"),
	}

	for _, path := range locations {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "lyrictag", "config.yaml")
}

// GetDefaultLogPath returns the default log directory path
func GetDefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "share", "lyrictag", "logs")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ParallelJobs < 1 {
		return fmt.Errorf("parallel jobs must be at least 1, got %d", c.ParallelJobs)
	}
	if c.ParallelJobs > 10 {
		return fmt.Errorf("parallel jobs cannot exceed 10 (to avoid rate limiting), got %d", c.ParallelJobs)
	}

	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be between 0.0 and 1.0, got %.2f", c.ConfidenceThreshold)
	}

	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source must be configured")
	}
	for _, s := range c.Sources {
		if !validSources[s] {
			return fmt.Errorf("unknown source %q, valid sources: lrclib, deezer, itunes, musicbrainz", s)
		}
	}

	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("invalid weights: %w", err)
	}

	return nil
}

// HasSource reports whether the named source is configured.
func (c *Config) HasSource(name string) bool {
	for _, s := range c.Sources {
		if s == name {
			return true
		}
	}
	return false
}
