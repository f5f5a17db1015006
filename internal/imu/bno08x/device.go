package bno08x

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

const (
	Runtime = "imu-read"
	Device  = "BNO08x"
)

// handler struct represents a BNO08x reader handler
type handler struct {
	binPath string
	args    []string
}

// New creates a new BNO08x handler
func New(config *Config) (imu.Handler, error) {
	binPath, err := findRuntime(Runtime)
	if err != nil {
		return nil, fmt.Errorf("error finding runtime: %w", err)
	}

	args, err := config.Args()
	if err != nil {
		return nil, fmt.Errorf("error creating args: %w", err)
	}

	return &handler{binPath, args}, nil
}

// Cmd returns an exec.Cmd for the BNO08x handler
func (h handler) Cmd(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, h.binPath, h.args...)
}

// Parse parses one CSV line of reader output and sends the sample to the
// channel. The header line the tool prints on startup is ignored.
func (h handler) Parse(line string, samples chan<- imu.Sample) error {
	if strings.HasPrefix(line, "t,") || strings.HasPrefix(line, "#") {
		return nil // column header or comment
	}

	fields := strings.Split(line, ",")
	if len(fields) < 11 {
		return fmt.Errorf("invalid imu-read output: expected 11 fields, got %d", len(fields))
	}

	values := make([]float64, 11)
	for i := range values {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return fmt.Errorf("invalid field %d: %w", i, err)
		}
		values[i] = v
	}

	samples <- imu.Sample{
		T:     values[0],
		Accel: imu.Vec3{X: values[1], Y: values[2], Z: values[3]},
		Gyro:  imu.Vec3{X: values[4], Y: values[5], Z: values[6]},
		Quat:  imu.Quat{W: values[7], I: values[8], J: values[9], K: values[10]},
	}

	return nil
}

func (h handler) Device() string {
	return Device
}

func findRuntime(runtime string) (string, error) {
	binPath, err := exec.LookPath(runtime)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("`%s` not found in PATH: %w", runtime, err)
		}
		return "", fmt.Errorf("failed to locate `%s`: %w", runtime, err)
	}

	return binPath, nil
}
