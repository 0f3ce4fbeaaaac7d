// Package internal provides configuration management and persistent
// storage for viewer preferences.
//
// This module handles:
//   - Locating the timelapse archive root
//   - The video extension allowlist and ffmpeg binary override
//   - Configuration file management with proper error handling
//   - Default configuration setup for new users
//
// The configuration lives as JSON under the XDG config directory
// (~/.config/lapse/config.json) and is merged over defaults on load, so
// new fields appear automatically for existing users.
package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the persistent viewer configuration.
type Config struct {
	// Root is the timelapse archive directory (dated recording folders,
	// video files, and the hidden cache live here).
	Root string `json:"root"`

	// VideoExtensions is the recognized video extension allowlist,
	// lower-case with leading dot.
	VideoExtensions []string `json:"video_extensions"`

	// FFmpegPath overrides the ffmpeg binary used for frame extraction.
	// Empty means "ffmpeg" from PATH.
	FFmpegPath string `json:"ffmpeg_path,omitempty"`

	// LogLevel sets the zerolog level for the log file ("debug", "info", ...).
	LogLevel string `json:"log_level,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists yet:
// the archive in ~/Timelapse, QuickTime recordings, ffmpeg from PATH.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Root:            filepath.Join(home, "Timelapse"),
		VideoExtensions: []string{".mov"},
		LogLevel:        "info",
	}
}

// getConfigDir returns the configuration directory for the current user,
// creating it if needed. Uses the XDG layout: ~/.config/lapse/
func getConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %v", err)
	}

	configDir := filepath.Join(homeDir, ".config", "lapse")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %v", err)
	}
	return configDir, nil
}

// getConfigPath returns the full path to the config file.
func getConfigPath() (string, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LogFilePath returns the path the viewer logs to. The TUI owns the
// terminal, so logs always go to a file next to the config.
func LogFilePath() string {
	configDir, err := getConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "lapse.log")
}

// LoadConfig reads the saved configuration, merged over defaults. A
// missing file is not an error: defaults are returned and persisted on
// the next save.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := getConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %v", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config: %v", err)
	}
	if len(cfg.VideoExtensions) == 0 {
		cfg.VideoExtensions = DefaultConfig().VideoExtensions
	}
	return cfg, nil
}

// SaveConfig persists the configuration atomically (write to a temp file,
// then rename).
func SaveConfig(cfg Config) error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	tempPath := configPath + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write temp config file: %v", err)
	}
	if err := os.Rename(tempPath, configPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename config file: %v", err)
	}
	return nil
}
