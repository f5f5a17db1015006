package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/imu-gestures/internal/gesture"
)

type Config struct {
	DBPath    string
	SessionID int64
	ExpectHz  float64
	Traces    []string
	Stream    bool

	Pipeline   gesture.Config
	mappingSet bool
}

func NewConfig() *Config {
	return &Config{
		ExpectHz: 100,
		Pipeline: gesture.DefaultConfig(),
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var mappingPath string
	flag.StringVar(&c.DBPath, "db", "", "Path to a capture database file")
	flag.Int64Var(&c.SessionID, "s", 0, "Session ID to analyze from the database")
	flag.Float64Var(&c.ExpectHz, "hz", c.ExpectHz, "Expected sampling rate for trace statistics")
	flag.StringVar(&mappingPath, "m", "", "Path to a YAML axis mapping file")
	flag.Float64Var(&c.Pipeline.MinVelocity, "min-velocity", c.Pipeline.MinVelocity, "Dominant |Δv| below this reports UNKNOWN (m/s)")
	flag.BoolVar(&c.Stream, "stream", false, "Replay through the streaming detector instead of batch analysis")
	flag.Parse()

	c.Traces = flag.Args()

	var err error
	switch {
	case len(c.Traces) > 0 && c.DBPath != "":
		err = errors.New("trace files and a database are mutually exclusive")
	case len(c.Traces) == 0 && c.DBPath == "":
		err = errors.New("no trace files or database provided")
	case c.DBPath != "" && c.SessionID <= 0:
		err = errors.New("session id is required with a database")
	}
	if err != nil {
		flag.Usage()
		return nil, err
	}

	if mappingPath != "" {
		if c.Pipeline.Mapping, err = loadMapping(mappingPath); err != nil {
			return nil, err
		}
		c.mappingSet = true
	}

	return c, nil
}

// StreamConfig resolves the streaming detector tuning for replay mode.
// Without an explicit -m mapping the detector keeps its wrist-mount
// default rather than the batch table.
func (c *Config) StreamConfig() gesture.StreamConfig {
	cfg := gesture.DefaultStreamConfig()
	cfg.SampleRate = c.ExpectHz
	if c.mappingSet {
		cfg.Mapping = c.Pipeline.Mapping
	}
	return cfg
}

func loadMapping(path string) (m gesture.Mapping, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("reading mapping file: %w", err)
	}
	if err = yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing mapping file: %w", err)
	}
	if err = m.Validate(); err != nil {
		return m, fmt.Errorf("validating mapping file: %w", err)
	}
	return m, nil
}
