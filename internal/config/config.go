// Package config provides configuration management for the buildtime generator.
// It supports a YAML configuration file with environment variable expansion and
// BT_* environment overrides.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verustcode/buildtime/pkg/buildtime"
	"github.com/verustcode/buildtime/pkg/errors"
	"github.com/verustcode/buildtime/pkg/logger"
)

// DefaultConfigPath is the configuration file looked up in the working directory
const DefaultConfigPath = "buildtime.yaml"

// Default configuration values
const (
	defaultPackage = "main"
	defaultOutput  = "buildtime_gen.go"
)

// Config represents the complete generator configuration
type Config struct {
	Package   string           `yaml:"package"`             // Go package name of the generated file
	Output    string           `yaml:"output"`              // Generated file path
	BuildTag  string           `yaml:"build_tag,omitempty"` // Optional //go:build constraint
	EpochEnv  string           `yaml:"epoch_env"`           // Reproducible-build override variable
	EnvFile   string           `yaml:"env_file,omitempty"`  // Optional .env file loaded before resolving
	Constants []ConstantConfig `yaml:"constants"`
	Logging   logger.Config    `yaml:"logging"`
}

// ConstantConfig describes one generated string constant
type ConstantConfig struct {
	Name   string `yaml:"name"`
	Zone   string `yaml:"zone"`             // utc or local
	Format string `yaml:"format,omitempty"` // strftime pattern; empty means RFC 3339
	Doc    string `yaml:"doc,omitempty"`
}

// DefaultConfig returns the default configuration: one RFC 3339 constant per zone.
func DefaultConfig() *Config {
	return &Config{
		Package:  defaultPackage,
		Output:   defaultOutput,
		EpochEnv: buildtime.DefaultEpochEnv,
		Constants: []ConstantConfig{
			{Name: "BuildTimeUTC", Zone: string(buildtime.ZoneUTC)},
			{Name: "BuildTimeLocal", Zone: string(buildtime.ZoneLocal)},
		},
		Logging: logger.Config{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads the configuration at path. A missing file yields the defaults unless
// required is set. Environment overrides are applied in both cases.
func Load(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := parse(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigParse, "failed to parse config "+path, err)
		}
	case stderrors.Is(err, fs.ErrNotExist) && !required:
		// defaults
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.Wrap(errors.ErrCodeConfigNotFound, "config file not found: "+path, err)
	default:
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to read config "+path, err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func parse(data []byte, cfg *Config) error {
	expanded := expandEnvVars(string(data))

	// A file that lists constants replaces the defaults rather than appending to them.
	cfg.Constants = nil
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return err
	}
	if len(cfg.Constants) == 0 {
		cfg.Constants = DefaultConfig().Constants
	}
	return nil
}

// Exists checks if a configuration file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Write writes cfg to path with the explanatory header
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, []byte(configHeader+string(data)), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// configHeader is the comment header for buildtime.yaml
const configHeader = `# buildtime generator configuration
#
# Each constant is rendered from the same build instant. zone is utc or local;
# format is a strftime pattern (empty means RFC 3339, e.g. 2021-05-29T06:55:50.418437046+00:00).
#
# Environment Variable Support:
#   - Use ${VAR_NAME} or ${VAR_NAME:-default} in values
#   - Or use BT_* variables to override:
#     BT_PACKAGE, BT_OUTPUT, BT_BUILD_TAG, BT_EPOCH_ENV, BT_ENV_FILE
#     BT_LOG_LEVEL, BT_LOG_FORMAT, BT_LOG_FILE
#

`

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} and ${VAR_NAME:-default} references
func expandEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := strings.SplitN(match[2:len(match)-1], ":-", 2)

		if value := os.Getenv(parts[0]); value != "" {
			return value
		}
		if len(parts) > 1 {
			return parts[1]
		}
		return ""
	})
}

// applyEnvOverrides applies BT_* environment variable overrides
func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"BT_PACKAGE", &cfg.Package},
		{"BT_OUTPUT", &cfg.Output},
		{"BT_BUILD_TAG", &cfg.BuildTag},
		{"BT_EPOCH_ENV", &cfg.EpochEnv},
		{"BT_ENV_FILE", &cfg.EnvFile},
		{"BT_LOG_LEVEL", &cfg.Logging.Level},
		{"BT_LOG_FORMAT", &cfg.Logging.Format},
		{"BT_LOG_FILE", &cfg.Logging.File},
	}

	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}
