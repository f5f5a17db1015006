package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/imu-gestures/internal/gesture"
	"github.com/roman-kulish/imu-gestures/internal/imu/bno08x"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings       `yaml:"settings"`
	Device   DeviceConfig   `yaml:"device"`
	Detector DetectorConfig `yaml:"detector"`
	Rolling  RollingConfig  `yaml:"rolling"`
	Storage  StorageConfig  `yaml:"storage"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level maps the configured log level name to a slog level, defaulting
// to info.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DeviceConfig represents the IMU reader configuration
type DeviceConfig struct {
	Name   string         `yaml:"name"`
	Config *bno08x.Config `yaml:"config"`
}

// DetectorConfig tunes the streaming gesture detector
type DetectorConfig struct {
	Enabled        bool             `yaml:"enabled"`
	AccelThreshold float64          `yaml:"accelThreshold"`
	GyroMax        float64          `yaml:"gyroMax"`
	WindowMS       float64          `yaml:"windowMs"`
	Mapping        *gesture.Mapping `yaml:"mapping"`
}

// StreamConfig resolves the detector settings against the defaults for
// the configured sample rate.
func (c DetectorConfig) StreamConfig(sampleRate float64) gesture.StreamConfig {
	cfg := gesture.DefaultStreamConfig()
	cfg.SampleRate = sampleRate
	if c.AccelThreshold > 0 {
		cfg.AccelThreshold = c.AccelThreshold
	}
	if c.GyroMax > 0 {
		cfg.GyroMax = c.GyroMax
	}
	if c.WindowMS > 0 {
		cfg.WindowMS = c.WindowMS
	}
	if c.Mapping != nil {
		cfg.Mapping = *c.Mapping
	}
	return cfg
}

// RollingConfig tunes the online velocity-integrating detector
type RollingConfig struct {
	Enabled            bool             `yaml:"enabled"`
	MinPeakMagnitude   float64          `yaml:"minPeakMagnitude"`
	MinGestureInterval float64          `yaml:"minGestureInterval"`
	MinVelocity        float64          `yaml:"minVelocity"`
	Mapping            *gesture.Mapping `yaml:"mapping"`
}

// RollingDetectorConfig resolves the rolling detector settings against
// the defaults.
func (c RollingConfig) RollingDetectorConfig() gesture.RollingConfig {
	cfg := gesture.DefaultRollingConfig()
	if c.MinPeakMagnitude > 0 {
		cfg.MinPeakMagnitude = c.MinPeakMagnitude
	}
	if c.MinGestureInterval > 0 {
		cfg.MinGestureInterval = c.MinGestureInterval
	}
	if c.MinVelocity > 0 {
		cfg.MinVelocity = c.MinVelocity
	}
	if c.Mapping != nil {
		cfg.Mapping = *c.Mapping
	}
	return cfg
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
	MaxBatchSize  int    `yaml:"maxBatchSize"`
}

// LoadConfig reads and validates the YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if config.Device.Config == nil {
		config.Device.Config = bno08x.NewConfig()
	}
	if config.Device.Name == "" {
		config.Device.Name = config.Device.Config.DeviceID()
	}

	if err = config.Device.Config.Validate(); err != nil {
		return nil, fmt.Errorf("validating device configuration: %w", err)
	}
	if config.Detector.Mapping != nil {
		if err = config.Detector.Mapping.Validate(); err != nil {
			return nil, fmt.Errorf("validating detector mapping: %w", err)
		}
	}
	if config.Rolling.Mapping != nil {
		if err = config.Rolling.Mapping.Validate(); err != nil {
			return nil, fmt.Errorf("validating rolling detector mapping: %w", err)
		}
	}

	return &config, nil
}
