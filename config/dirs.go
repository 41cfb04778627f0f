package config

import (
	"os"
	"path/filepath"
)

const appDir = "intervals"

// ConfigDir returns the configuration directory.
// Resolution order: XDG_CONFIG_HOME/intervals > ~/.config/intervals.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", appDir)
	}
	return filepath.Join(home, ".config", appDir)
}

// StateDir returns the directory for the database and logs.
// Resolution order: INTERVALS_STATE_DIR > XDG_STATE_HOME/intervals > ~/.local/state/intervals.
func StateDir() string {
	if dir := os.Getenv("INTERVALS_STATE_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "state", appDir)
	}
	return filepath.Join(home, ".local", "state", appDir)
}

// LogsDir returns StateDir/logs.
func LogsDir() string {
	return filepath.Join(StateDir(), "logs")
}
