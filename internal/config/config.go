// Package config handles configuration loading and validation for csv2htaccess.
package config

import (
	"errors"
	"fmt"
	"os"

	"csv2htaccess/internal/normalizer"
	"csv2htaccess/internal/sniffer"

	"gopkg.in/yaml.v3"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidYAML     ConfigErrorType = "INVALID_YAML"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidYAML:
		return fmt.Sprintf("invalid YAML in configuration file: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// DefaultOutput is where the generated rules are written.
const DefaultOutput = "./.htaccess"

// WatchConfig holds settings for --watch mode.
type WatchConfig struct {
	DebounceMs int `yaml:"debounceMs"`
}

// Configuration holds all settings for csv2htaccess.
type Configuration struct {
	Delimiters    string      `yaml:"delimiters"`    // candidate delimiters in priority order
	DefaultStatus string      `yaml:"defaultStatus"` // status for rows without a third column
	Output        string      `yaml:"output"`
	Watch         WatchConfig `yaml:"watch"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Configuration {
	return &Configuration{
		Delimiters:    sniffer.DefaultCandidates,
		DefaultStatus: normalizer.DefaultStatusCode,
		Output:        DefaultOutput,
		Watch:         WatchConfig{DebounceMs: 500},
	}
}

// ApplyDefaults fills zero-valued fields from DefaultConfig.
func (c *Configuration) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.Delimiters == "" {
		c.Delimiters = defaults.Delimiters
	}
	if c.DefaultStatus == "" {
		c.DefaultStatus = defaults.DefaultStatus
	}
	if c.Output == "" {
		c.Output = defaults.Output
	}
	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = defaults.Watch.DebounceMs
	}
}

// Validate returns the first validation error, if any.
func (c *Configuration) Validate() error {
	result := ValidateConfig(c)
	if result.Valid {
		return nil
	}
	first := result.Errors[0]
	return &ConfigError{
		Type:    ValidationError,
		Message: first.Field + ": " + first.Message,
	}
}

// Load reads and parses a configuration file from the given path.
// Fields missing from the file keep their default values.
func Load(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Type: FileNotFound,
				Path: filePath,
			}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	var config Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &ConfigError{
			Type:    InvalidYAML,
			Message: err.Error(),
		}
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadOrDefault loads the file at filePath, or returns DefaultConfig when
// filePath is empty.
func LoadOrDefault(filePath string) (*Configuration, error) {
	if filePath == "" {
		return DefaultConfig(), nil
	}
	return Load(filePath)
}
