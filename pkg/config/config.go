// Package config holds the configuration of the host-side tooling. The
// driver packages themselves take their parameters directly; configuration
// files only matter on the host, where the monitor picks a transport and the
// simulator needs its physics described.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Gustbel/InternalTemperature-MKR1000/pkg/adc"
)

// Config represents the host tool configuration.
type Config struct {
	Serial          SerialConfig      `yaml:"serial"`
	Measurement     MeasurementConfig `yaml:"measurement"`
	UserCalibration UserCalConfig     `yaml:"user_calibration"`
	Sim             adc.SimConfig     `yaml:"sim"`
}

// SerialConfig contains the serial port configuration for an attached board.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// MeasurementConfig contains measurement parameters.
type MeasurementConfig struct {
	Averaging    int           `yaml:"averaging"`     // hardware accumulation depth (1..256, powers of two)
	Interval     time.Duration `yaml:"interval"`      // time between simulated reads
	SmoothWindow int           `yaml:"smooth_window"` // rolling mean window on streamed readings, 1 = off
}

// UserCalConfig contains the optional linear field calibration applied on
// top of the factory calibrated temperature.
type UserCalConfig struct {
	Gain    float64 `yaml:"gain"`
	Offset  float64 `yaml:"offset"`
	Enabled bool    `yaml:"enabled"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "COM3", // Default for Windows, should be "/dev/ttyACM0" on Linux/Mac
			BaudRate: 115200,
		},
		Measurement: MeasurementConfig{
			Averaging:    64,
			Interval:     time.Second,
			SmoothWindow: 1,
		},
		UserCalibration: UserCalConfig{
			Gain:    1.0,
			Offset:  0.0,
			Enabled: false,
		},
		Sim: adc.SimConfig{
			Row:            "",
			DieTemperature: 36.0,
			NoiseLevel:     0.05,
			SyncCycles:     2,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Measurement.Averaging == 0 {
		c.Measurement.Averaging = def.Measurement.Averaging
	}
	if c.Measurement.Interval == 0 {
		c.Measurement.Interval = def.Measurement.Interval
	}
	if c.Measurement.SmoothWindow == 0 {
		c.Measurement.SmoothWindow = def.Measurement.SmoothWindow
	}

	if c.UserCalibration.Gain == 0 {
		c.UserCalibration.Gain = def.UserCalibration.Gain
	}

	if c.Sim.DieTemperature == 0 {
		c.Sim.DieTemperature = def.Sim.DieTemperature
	}
	if c.Sim.SyncCycles == 0 {
		c.Sim.SyncCycles = def.Sim.SyncCycles
	}
}
