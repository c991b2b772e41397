// Package config loads application configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the namespace prefix for all environment overrides.
const EnvPrefix = "SECOND_CAPTURE_"

type Config struct {
	// RecordingsDir is where finalized WAV files land. Created on first
	// recording if absent.
	RecordingsDir string `yaml:"recordings_dir"`
	// Device is the input device name; empty selects the system default.
	Device   string `yaml:"device"`
	LogLevel string `yaml:"log_level"`
	// SidecarPython and BackendDir override the sidecar's interpreter and
	// backend-directory discovery.
	SidecarPython string `yaml:"sidecar_python"`
	BackendDir    string `yaml:"backend_dir"`
}

func defaults() *Config {
	return &Config{
		RecordingsDir: filepath.Join(dataDir(), "second-capture", "recordings"),
		LogLevel:      "info",
	}
}

// Load reads configuration from a YAML file (if path is non-empty and the
// file exists) and applies environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "RECORDINGS_DIR"); v != "" {
		cfg.RecordingsDir = v
	}
	if v := os.Getenv(EnvPrefix + "DEVICE"); v != "" {
		cfg.Device = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvPrefix + "SIDECAR_PYTHON"); v != "" {
		cfg.SidecarPython = v
	}
	if v := os.Getenv(EnvPrefix + "BACKEND_DIR"); v != "" {
		cfg.BackendDir = v
	}
}

// DefaultPath returns the platform-specific config file path.
func DefaultPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "second-capture", "config.yaml")
}

// dataDir returns the platform-specific data directory.
func dataDir() string {
	switch runtime.GOOS {
	case "darwin":
		return os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		return os.Getenv("LOCALAPPDATA")
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return xdg
		}
		return os.Getenv("HOME") + "/.local/share"
	}
}
