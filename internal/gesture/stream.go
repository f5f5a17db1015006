package gesture

import (
	"math"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

// cooldownFraction of a second is waited out after each emitted label
// before the next classification attempt.
const cooldownFraction = 0.25

// StreamConfig tunes the online Detector.
type StreamConfig struct {
	AccelThreshold float64 // m/s², minimum world-frame peak component
	GyroMax        float64 // rad/s, rotation gate: faster wrist spin flushes the window
	WindowMS       float64 // sliding window length, milliseconds
	SampleRate     float64 // Hz, sizes the window and the cooldown
	Mapping        Mapping
}

// DefaultStreamConfig returns the wrist-mount tuning at 100 Hz.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		AccelThreshold: 1.5,
		GyroMax:        3.0,
		WindowMS:       120,
		SampleRate:     100,
		Mapping:        StreamMapping(),
	}
}

// Detection is one emitted streaming label.
type Detection struct {
	T     float64 // timestamp of the classified peak sample
	A     imu.Vec3
	Label Label
}

// Detector classifies gestures from a live sample stream without
// integrating velocity: it watches a short sliding window of world-frame
// acceleration, and when the window fills it classifies the loudest
// buffered sample directly. Samples arriving during fast rotation are
// treated as wrist roll rather than translation and flush the window.
// Consecutive identical labels are debounced, and each emission starts
// a short cooldown before the next classification attempt.
//
// Detector is not safe for concurrent use.
type Detector struct {
	cfg  StreamConfig
	buf  *ring
	cool int
	last Label
}

// NewDetector sizes the sliding window from the configured duration and
// sample rate, with a floor of 3 samples.
func NewDetector(cfg StreamConfig) *Detector {
	n := int(math.Round(cfg.WindowMS / 1000 * cfg.SampleRate))
	if n < 3 {
		n = 3
	}
	return &Detector{cfg: cfg, buf: newRing(n)}
}

// Update feeds one sample. It returns a Detection and true when this
// sample caused a new label to be emitted.
func (d *Detector) Update(s imu.Sample) (Detection, bool) {
	defer func() {
		if d.cool > 0 {
			d.cool--
		}
	}()

	if s.Gyro.Norm() > d.cfg.GyroMax {
		d.buf.clear()
		return Detection{}, false
	}

	a := s.Quat.RotationMatrix().Apply(s.Accel)
	d.buf.push(streamSample{t: s.T, a: a})

	if !d.buf.full() || d.cool > 0 {
		return Detection{}, false
	}

	peak := d.buf.maxL1()

	label, ok := ClassifyPeak(peak.a, d.cfg.AccelThreshold, d.cfg.Mapping)
	if !ok || label == d.last {
		return Detection{}, false
	}
	d.last = label
	d.cool = int(math.Round(cooldownFraction * d.cfg.SampleRate))
	return Detection{T: peak.t, A: peak.a, Label: label}, true
}

// Reset drops the window, the cooldown and the debounce state.
func (d *Detector) Reset() {
	d.buf.clear()
	d.cool = 0
	d.last = ""
}
