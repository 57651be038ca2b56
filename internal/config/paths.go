package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/indi-fetch/config.yml
// - macOS: ~/Library/Application Support/indi-fetch/config.yml
// - Windows: %APPDATA%\indi-fetch\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "indi-fetch", "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "indi-fetch"), nil
}

// ProjectConfigPath returns the path to the project-level config file,
// .indi-fetch/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".indi-fetch", "config.yml")
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return ".indi-fetch"
}
