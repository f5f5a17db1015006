// Package gesture infers the dominant spatial direction of a hand gesture
// from a fused IMU sample trace. The batch pipeline rotates sensor-frame
// acceleration into the world frame, estimates a rest-state gravity
// baseline, isolates a window around the peak of dynamic acceleration,
// integrates the gated dynamic acceleration into an approximate velocity
// change and classifies its dominant axis. Detector and RollingDetector
// run the online variants of the same inference over a live sample stream.
package gesture

import (
	"fmt"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

// WorldSample is a trace sample with its acceleration rotated into the
// world frame. Only time and acceleration survive the projection; angular
// rate and orientation have no meaning past this stage.
type WorldSample struct {
	T float64
	A imu.Vec3
}

// ToWorld rotates every sample's acceleration by its orientation
// quaternion. For traces recorded already in the world frame (or with no
// orientation channel) build the WorldSample slice directly and skip this
// step.
func ToWorld(trace []imu.Sample) []WorldSample {
	samples := make([]WorldSample, len(trace))
	for i, s := range trace {
		samples[i] = WorldSample{T: s.T, A: s.Quat.Rotate(s.Accel)}
	}
	return samples
}

// Config holds the batch pipeline tuning parameters. All parameters are
// numeric calibration, not structure.
type Config struct {
	BaselineWindow float64 // seconds of rest-state prefix averaged into the gravity baseline
	HalfWindow     float64 // seconds either side of the peak kept for integration
	MinDynamic     float64 // m/s², per-axis noise gate below which sample pairs are skipped
	MinVelocity    float64 // m/s, dominant |Δv| below this classifies as UNKNOWN
	Mapping        Mapping // axis and sign to direction label calibration
}

// DefaultConfig returns the tuning used during data collection at 100 Hz.
func DefaultConfig() Config {
	return Config{
		BaselineWindow: 0.2,
		HalfWindow:     0.3,
		MinDynamic:     0.5,
		MinVelocity:    0.5,
		Mapping:        DefaultMapping(),
	}
}

// Result is the outcome of one batch (or rolling) inference.
type Result struct {
	Start     int     // gesture window start index into the trace
	End       int     // gesture window end index, exclusive
	TCenter   float64 // time of the peak dynamic-acceleration sample
	Duration  float64 // wall-clock span of the window in seconds
	Baseline  imu.Vec3
	DeltaV    imu.Vec3 // integrated dynamic acceleration, m/s
	Axis      Axis
	Sign      Sign
	Magnitude float64 // |Δv| of the dominant axis
	Label     Label
}

// Analyze runs the full batch pipeline over a sensor-frame trace.
// The only error condition is a trace with fewer than 3 samples
// (imu.ErrInsufficientData); every other degenerate input is recovered
// through a documented fallback.
func Analyze(trace []imu.Sample, cfg Config) (Result, error) {
	return AnalyzeWorld(ToWorld(trace), cfg)
}

// AnalyzeWorld runs the batch pipeline over samples already in the world
// frame.
func AnalyzeWorld(samples []WorldSample, cfg Config) (Result, error) {
	if len(samples) < 3 {
		return Result{}, fmt.Errorf("%w (got %d)", imu.ErrInsufficientData, len(samples))
	}

	a0 := EstimateBaseline(samples, cfg.BaselineWindow)
	start, end := FindWindow(samples, a0, cfg.HalfWindow)
	iPeak := peakIndex(samples, a0)
	dv, duration := IntegrateVelocity(samples[start:end], a0, cfg.MinDynamic)

	axis, sign, mag := ClassifyVelocity(dv)
	label := cfg.Mapping.Label(axis, sign)
	if mag < cfg.MinVelocity {
		label = Unknown // gesture too weak, a valid outcome
	}

	return Result{
		Start:     start,
		End:       end,
		TCenter:   samples[iPeak].T,
		Duration:  duration,
		Baseline:  a0,
		DeltaV:    dv,
		Axis:      axis,
		Sign:      sign,
		Magnitude: mag,
		Label:     label,
	}, nil
}
