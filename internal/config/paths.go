package config

import (
	"errors"
	"os"
	"path/filepath"
)

// HomeEnvVariable is the environment variable overriding the home dir.
const HomeEnvVariable = "FIELDCTL_HOME"

// ErrNoHome indicates we cannot determine the home directory.
var ErrNoHome = errors.New("config: cannot determine the home directory")

// GetHome returns the fieldctl home directory.
func GetHome() (string, error) {
	if home := os.Getenv(HomeEnvVariable); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoHome
	}
	return filepath.Join(home, ".fieldctl"), nil
}

// ConfigPath returns the config file path for the given home.
func ConfigPath(home string) string {
	return filepath.Join(home, "config.json")
}

// StateDir returns the default state directory for the given home.
func StateDir(home string) string {
	return filepath.Join(home, "state")
}
