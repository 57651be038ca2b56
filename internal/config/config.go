// Package config provides hierarchical configuration management using koanf.
// Configuration is loaded with priority: environment variables > project config
// (.indi-fetch/config.yml) > user config (~/.config/indi-fetch/config.yml) >
// defaults. Both YAML and JSON files are supported, selected by extension.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces this tool's environment overrides, e.g.
// INDI_FETCH_TIMEOUT or INDI_FETCH_PAGE_SIZE.
const envPrefix = "INDI_FETCH_"

// Configuration holds every tunable of a fetch run.
type Configuration struct {
	// GitHubToken authenticates Host A calls. The conventional GITHUB_TOKEN
	// environment variable takes precedence over file values.
	GitHubToken string `koanf:"github_token"`

	// GitLabToken authenticates salsa calls. The conventional GITLAB_TOKEN
	// environment variable takes precedence over file values.
	GitLabToken string `koanf:"gitlab_token"`

	// Timeout is the per-request HTTP timeout in seconds.
	Timeout int `koanf:"timeout" validate:"min=1,max=300"`

	// RetryLimit caps GitHub rate-limit waits. Zero waits indefinitely.
	RetryLimit int `koanf:"retry_limit" validate:"min=0"`

	// MaxRetries caps salsa exponential-backoff attempts.
	MaxRetries int `koanf:"max_retries" validate:"min=1,max=10"`

	// BackoffBase is the first backoff delay in seconds; each retry doubles it.
	BackoffBase int `koanf:"backoff_base" validate:"min=1,max=60"`

	// PageSize is the salsa projects-per-page fetch size.
	PageSize int `koanf:"page_size" validate:"min=1,max=100"`

	// Concurrency bounds the salsa per-page fan-out. Zero means page size.
	Concurrency int `koanf:"concurrency" validate:"min=0"`

	// IgnoreFile is the default ignore-list path, overridden by the
	// positional CLI argument.
	IgnoreFile string `koanf:"ignore_file"`
}

// Load loads configuration from user, project, and environment sources.
// projectConfigPath overrides the default project config location when
// non-empty (the --config flag).
func Load(projectConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		k.Set(key, value)
	}

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(k, projectConfigPath); err != nil {
		return nil, err
	}
	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// loadUserConfig merges the user-level file when it exists.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	if err := loadConfigFile(k, path, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig merges the project-level file. A custom path comes from
// the --config flag and must exist; the default path is optional.
func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	path := ProjectConfigPath()
	if customPath != "" {
		path = customPath
		if !fileExists(path) {
			return fmt.Errorf("config file %s does not exist", path)
		}
	} else if !fileExists(path) {
		return nil
	}
	if err := loadConfigFile(k, path, "project"); err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}
	return nil
}

// loadConfigFile parses one file by extension. YAML files get a syntax
// precheck so errors carry line/column positions.
func loadConfigFile(k *koanf.Koanf, path, configType string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
		}
		return nil
	}

	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig merges INDI_FETCH_* overrides.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, applies conventional credential variables, and
// validates values.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// GITHUB_TOKEN / GITLAB_TOKEN are the ecosystem-wide spellings and win
	// over anything a file set.
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHubToken = token
	}
	if token := os.Getenv("GITLAB_TOKEN"); token != "" {
		cfg.GitLabToken = token
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.IgnoreFile = expandHomePath(cfg.IgnoreFile)

	return &cfg, nil
}

// fileExists returns true if the file exists and is statable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: INDI_FETCH_MAX_RETRIES -> max_retries
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

// expandHomePath expands ~ to the user's home directory.
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
