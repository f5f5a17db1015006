package bno08x

import (
	"fmt"
	"strconv"
)

const (
	// HzMin and HzMax bound the report rates the BNO08x fusion core
	// sustains over I²C with all four reports enabled.
	HzMin = 50
	HzMax = 100

	DefaultBus       = 1
	DefaultAddr      = 0x4A
	DefaultHz        = 100
	DefaultTimeoutMS = 50
)

// Config is the `imu-read` tool configuration. The tool owns the SHTP/SH-2
// conversation with the sensor hub and prints one CSV sample per line:
//
//	t,ax,ay,az,gx,gy,gz,qw,qi,qj,qk
type Config struct {
	Bus       int `yaml:"bus" json:"bus"`             // --bus I²C bus index (default: 1)
	Addr      int `yaml:"addr" json:"addr"`           // --addr I²C address (default: 0x4A, 0x4B with the DI jumper set)
	Hz        int `yaml:"hz" json:"hz"`               // --hz sampling rate (valid range 50-100)
	TimeoutMS int `yaml:"timeoutMs" json:"timeoutMs"` // --timeout-ms I²C read timeout (default: 50)
}

// NewConfig returns a Config with the tool's defaults.
func NewConfig() *Config {
	return &Config{
		Bus:       DefaultBus,
		Addr:      DefaultAddr,
		Hz:        DefaultHz,
		TimeoutMS: DefaultTimeoutMS,
	}
}

// Validate checks the configuration against the tool's accepted ranges.
func (c *Config) Validate() error {
	if c.Bus < 0 {
		return fmt.Errorf("bno08x.Config: bus must not be negative: %d", c.Bus)
	}
	if c.Addr <= 0 || c.Addr > 0x7F {
		return fmt.Errorf("bno08x.Config: addr must be a 7-bit I²C address: %#x", c.Addr)
	}
	if c.Hz < HzMin || c.Hz > HzMax {
		return fmt.Errorf("bno08x.Config: hz must be between %d and %d: %d given", HzMin, HzMax, c.Hz)
	}
	if c.TimeoutMS <= 0 {
		return fmt.Errorf("bno08x.Config: timeout must be positive: %d", c.TimeoutMS)
	}
	return nil
}

// DeviceID derives a stable identifier from the bus and address the
// sensor is wired to.
func (c *Config) DeviceID() string {
	return fmt.Sprintf("bno08x-%d-%#x", c.Bus, c.Addr)
}

// Args builds the command line arguments for the `imu-read` tool.
func (c *Config) Args() ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return []string{
		"--bus", strconv.Itoa(c.Bus),
		"--addr", fmt.Sprintf("%#x", c.Addr),
		"--hz", strconv.Itoa(c.Hz),
		"--timeout-ms", strconv.Itoa(c.TimeoutMS),
	}, nil
}
