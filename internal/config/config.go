// Package config loads the YAML configuration file with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath is the environment variable overriding the config file
// location.
const EnvConfigPath = "MUDRA_CONFIG"

// Config holds all tunables for the service. The API credential is not part
// of the config; it is read from the environment on every outbound call.
type Config struct {
	Addr            string  `yaml:"addr"`
	StaticDir       string  `yaml:"static_dir"`
	DataDir         string  `yaml:"data_dir"`
	CameraID        int     `yaml:"camera_id"`
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	IntervalMs      int     `yaml:"interval_ms"`
	JPEGQuality     int     `yaml:"jpeg_quality"`
	Model           string  `yaml:"model"`
	MotionGate      bool    `yaml:"motion_gate"`
	MotionThreshold float64 `yaml:"motion_threshold"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Addr:            ":8080",
		CameraID:        0,
		Width:           1280,
		Height:          720,
		IntervalMs:      3000,
		JPEGQuality:     80,
		Model:           "gemini-2.5-flash",
		MotionGate:      false,
		MotionThreshold: 1.0,
	}
}

// DefaultPath returns the config file location: the EnvConfigPath variable
// when set, otherwise ~/.mudra/mudra.yaml. Empty if the home directory cannot
// be determined.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".mudra", "mudra.yaml")
}

// Load reads the config file at path, overlaying it on the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.IntervalMs <= 0 {
		return fmt.Errorf("interval_ms must be positive, got %d", c.IntervalMs)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be 1-100, got %d", c.JPEGQuality)
	}
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	return nil
}
