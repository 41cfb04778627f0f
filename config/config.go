// Package config provides configuration types, defaults and loading for
// IntervalTimers.
package config

import (
	"path/filepath"
	"time"
)

// Config holds all configuration for IntervalTimers.
type Config struct {
	Audio       AudioConfig       `yaml:"audio" mapstructure:"audio"`
	Storage     StorageConfig     `yaml:"storage" mapstructure:"storage"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
	UI          UIConfig          `yaml:"ui" mapstructure:"ui"`
}

// AudioConfig controls the cue played at each step boundary.
type AudioConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	File        string        `yaml:"file" mapstructure:"file"`                 // Optional .ogg file; a generated tone is used when empty
	FrequencyHz float64       `yaml:"frequency_hz" mapstructure:"frequency_hz"` // Tone pitch
	Length      time.Duration `yaml:"length" mapstructure:"length"`             // Tone length
	Volume      float64       `yaml:"volume" mapstructure:"volume"`             // 0 is unchanged, negative is quieter (log2 scale)
}

// StorageConfig holds the saved timer database location.
type StorageConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogRotationConfig holds settings for the rotating log file.
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Language string `yaml:"language" mapstructure:"language"` // Empty means detect from the system locale
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			Enabled:     true,
			FrequencyHz: 880,
			Length:      250 * time.Millisecond,
		},
		Storage: StorageConfig{
			Path: filepath.Join(StateDir(), "timers.db"),
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}
